package algorithms

// CommunityType says where a community came from.
type CommunityType string

const (
	CommunityCompany     CommunityType = "company"
	CommunityAffiliation CommunityType = "affiliation"
	CommunityTag         CommunityType = "tag"
	CommunityCluster     CommunityType = "network_cluster"
)

// IsAttribute reports whether the community comes from a declared attribute
// rather than from topology.
func (t CommunityType) IsAttribute() bool {
	return t != CommunityCluster
}

// CommonCharacteristics records the provenance of a community.
type CommonCharacteristics struct {
	Companies        []string `json:"companies,omitempty"`
	Affiliations     []string `json:"affiliations,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	IndustryKeywords []string `json:"industry_keywords,omitempty"`
}

func (c CommonCharacteristics) clone() CommonCharacteristics {
	return CommonCharacteristics{
		Companies:        cloneStrings(c.Companies),
		Affiliations:     cloneStrings(c.Affiliations),
		Tags:             cloneStrings(c.Tags),
		IndustryKeywords: cloneStrings(c.IndustryKeywords),
	}
}

// Community represents a detected or declared community
type Community struct {
	ID              string                `json:"id"`
	Type            CommunityType         `json:"type"`
	Label           string                `json:"label"`
	Members         []string              `json:"members"`
	Size            int                   `json:"size"`
	Density         float64               `json:"density"` // Edge density within community
	Characteristics CommonCharacteristics `json:"common_characteristics"`
}

// Clone returns a deep copy of the community.
func (c Community) Clone() Community {
	c.Members = cloneStrings(c.Members)
	c.Characteristics = c.Characteristics.clone()
	return c
}

// MembershipRef points from a contact to one of its communities.
type MembershipRef struct {
	CommunityID    string        `json:"community_id"`
	CommunityLabel string        `json:"community_label"`
	CommunityType  CommunityType `json:"community_type"`
}

// ContactCommunityMembership is the inverse index entry for one contact.
type ContactCommunityMembership struct {
	ContactID   string          `json:"contact_id"`
	ContactName string          `json:"contact_name"`
	Communities []MembershipRef `json:"communities"`
}

// PropagationStats describes a label propagation run. The pass bound is not a
// fixed-point guarantee, so callers check Converged.
type PropagationStats struct {
	Passes    int  `json:"passes"`
	Moves     int  `json:"moves"`
	Converged bool `json:"converged"`
}

// ClusterResult contains structural clusters and how they were found.
type ClusterResult struct {
	Clusters    []Community      `json:"clusters"`
	Dropped     int              `json:"dropped"` // clusters shadowed by attribute communities
	Propagation PropagationStats `json:"propagation"`
}

// CommunityDetectionResult contains reconciled communities and the
// per-contact membership index.
type CommunityDetectionResult struct {
	Communities []Community                  `json:"communities"`
	Memberships []ContactCommunityMembership `json:"memberships"`
	Propagation PropagationStats             `json:"propagation"`
}

// Clone returns a deep copy of the result.
func (r *CommunityDetectionResult) Clone() *CommunityDetectionResult {
	if r == nil {
		return nil
	}
	out := &CommunityDetectionResult{
		Communities: make([]Community, len(r.Communities)),
		Memberships: make([]ContactCommunityMembership, len(r.Memberships)),
		Propagation: r.Propagation,
	}
	for i, c := range r.Communities {
		out.Communities[i] = c.Clone()
	}
	for i, m := range r.Memberships {
		m.Communities = append([]MembershipRef(nil), m.Communities...)
		out.Memberships[i] = m
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
