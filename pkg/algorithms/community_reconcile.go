package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

// mergedCommunity accumulates every community sharing one normalized label.
type mergedCommunity struct {
	community Community
	members   map[string]struct{}
	merged    bool
}

// ReconcileCommunities merges communities with the same normalized label and
// builds the per-contact membership index.
//
// Merging unions the member sets, keeps the attribute type over
// network_cluster (taking that community's ID and label), and concatenates
// provenance lists. Communities are returned largest first. Memberships list
// every contact with at least one community, most memberships first.
func ReconcileCommunities(g *graph.NetworkGraph, contacts graph.Contacts, communities []Community) ([]Community, []ContactCommunityMembership) {
	byKey := make(map[string]*mergedCommunity, len(communities))
	order := make([]*mergedCommunity, 0, len(communities))

	for _, c := range communities {
		key := graph.NormalizeLabel(c.Label)
		existing, ok := byKey[key]
		if !ok {
			entry := &mergedCommunity{
				community: c.Clone(),
				members:   make(map[string]struct{}, len(c.Members)),
			}
			for _, m := range c.Members {
				entry.members[m] = struct{}{}
			}
			byKey[key] = entry
			order = append(order, entry)
			continue
		}

		existing.merged = true
		for _, m := range c.Members {
			existing.members[m] = struct{}{}
		}
		if !existing.community.Type.IsAttribute() && c.Type.IsAttribute() {
			existing.community.Type = c.Type
			existing.community.ID = c.ID
			existing.community.Label = c.Label
		}
		existing.community.Characteristics = concatCharacteristics(existing.community.Characteristics, c.Characteristics)
	}

	out := make([]Community, 0, len(order))
	for _, entry := range order {
		c := entry.community
		if entry.merged {
			c.Members = sortedKeys(entry.members)
			c.Size = len(c.Members)
			c.Density = membersDensity(g, c.Members)
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Size > out[j].Size
	})

	return out, buildMemberships(g, contacts, out)
}

// buildMemberships inverts communities into per-contact membership lists.
func buildMemberships(g *graph.NetworkGraph, contacts graph.Contacts, communities []Community) []ContactCommunityMembership {
	refs := make(map[string][]MembershipRef)
	for _, c := range communities {
		ref := MembershipRef{
			CommunityID:    c.ID,
			CommunityLabel: c.Label,
			CommunityType:  c.Type,
		}
		for _, m := range c.Members {
			refs[m] = append(refs[m], ref)
		}
	}

	ids := make([]string, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	memberships := make([]ContactCommunityMembership, 0, len(ids))
	for _, id := range ids {
		memberships = append(memberships, ContactCommunityMembership{
			ContactID:   id,
			ContactName: contactName(g, contacts, id),
			Communities: refs[id],
		})
	}

	sort.SliceStable(memberships, func(i, j int) bool {
		return len(memberships[i].Communities) > len(memberships[j].Communities)
	})
	return memberships
}

func contactName(g *graph.NetworkGraph, contacts graph.Contacts, id string) string {
	if c, ok := contacts.Lookup(id); ok && c.Name != "" {
		return c.Name
	}
	if n, ok := g.NodeByID(id); ok && n.Name != "" {
		return n.Name
	}
	return id
}

// membersDensity computes density for members given by ID. IDs unknown to g
// count towards the size but contribute no edges.
func membersDensity(g *graph.NetworkGraph, members []string) float64 {
	indexes := make([]int, 0, len(members))
	for _, id := range members {
		if i, ok := g.Index(id); ok {
			indexes = append(indexes, i)
		}
	}
	return density(g.InternalEdges(indexes), len(members))
}

func concatCharacteristics(a, b CommonCharacteristics) CommonCharacteristics {
	return CommonCharacteristics{
		Companies:        concatStrings(a.Companies, b.Companies),
		Affiliations:     concatStrings(a.Affiliations, b.Affiliations),
		Tags:             concatStrings(a.Tags, b.Tags),
		IndustryKeywords: concatStrings(a.IndustryKeywords, b.IndustryKeywords),
	}
}

func concatStrings(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
