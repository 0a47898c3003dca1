package algorithms

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

// memberAttributes are the declared attributes of one node.
type memberAttributes struct {
	company     string
	affiliation string
	position    string
	tags        []string
}

// resolveAttributes reads node i's attributes from its contact, falling back
// to the node's own fields where the contact leaves one empty. Tags only
// exist on contacts.
func resolveAttributes(g *graph.NetworkGraph, contacts graph.Contacts, i int) memberAttributes {
	node := g.Node(i)
	attrs := memberAttributes{
		company:     node.Company,
		affiliation: node.Affiliation,
		position:    node.Position,
	}
	contact, ok := contacts.Lookup(node.ID)
	if !ok {
		return attrs
	}
	if contact.Company != "" {
		attrs.company = contact.Company
	}
	if contact.Affiliation != "" {
		attrs.affiliation = contact.Affiliation
	}
	if contact.Position != "" {
		attrs.position = contact.Position
	}
	attrs.tags = contact.Tags
	return attrs
}

// attributeGroup collects node indexes sharing one attribute value.
type attributeGroup struct {
	value   string
	members []int
}

// attributeIndex groups node indexes by attribute value.
type attributeIndex struct {
	groups map[string]*attributeGroup
}

func newAttributeIndex() *attributeIndex {
	return &attributeIndex{groups: make(map[string]*attributeGroup)}
}

func (a *attributeIndex) add(value string, member int) {
	group, ok := a.groups[value]
	if !ok {
		group = &attributeGroup{value: value}
		a.groups[value] = group
	}
	group.members = append(group.members, member)
}

// sorted returns groups ordered by value.
func (a *attributeIndex) sorted() []*attributeGroup {
	out := make([]*attributeGroup, 0, len(a.groups))
	for _, group := range a.groups {
		out = append(out, group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].value < out[j].value })
	return out
}

// AttributeCommunities groups graph nodes that share a company, an
// affiliation or a tag. Company and affiliation match exactly; tags match
// case-insensitively after trimming. Attributes come from contacts, with the
// node's own company and affiliation used when the contact has none.
//
// Communities are emitted companies first, then affiliations, then tags, each
// ordered by value.
func AttributeCommunities(g *graph.NetworkGraph, contacts graph.Contacts, cfg Config) []Community {
	companies := newAttributeIndex()
	affiliations := newAttributeIndex()
	tags := newAttributeIndex()

	for i := 0; i < g.Len(); i++ {
		attrs := resolveAttributes(g, contacts, i)
		if strings.TrimSpace(attrs.company) != "" {
			companies.add(attrs.company, i)
		}
		if strings.TrimSpace(attrs.affiliation) != "" {
			affiliations.add(attrs.affiliation, i)
		}
		for _, tag := range normalizeTags(attrs.tags) {
			tags.add(tag, i)
		}
	}

	var out []Community
	ids := make(map[string]struct{})
	for _, group := range companies.sorted() {
		if len(group.members) < cfg.MinCompanySize {
			continue
		}
		out = append(out, newAttributeCommunity(g, ids, CommunityCompany, group.value, group.members,
			CommonCharacteristics{Companies: []string{group.value}}))
	}
	for _, group := range affiliations.sorted() {
		if len(group.members) < cfg.MinAffiliationSize {
			continue
		}
		out = append(out, newAttributeCommunity(g, ids, CommunityAffiliation, group.value, group.members,
			CommonCharacteristics{Affiliations: []string{group.value}}))
	}
	for _, group := range tags.sorted() {
		if len(group.members) < cfg.MinTagSize {
			continue
		}
		out = append(out, newAttributeCommunity(g, ids, CommunityTag, capitalize(group.value), group.members,
			CommonCharacteristics{Tags: []string{group.value}}))
	}

	return out
}

// newAttributeCommunity builds a community whose ID is kind:<normalized
// label>. Exact values that normalize alike ("Acme", "acme") get -2, -3 ...
// suffixes in emission order so IDs stay unique; ids tracks what is taken.
func newAttributeCommunity(g *graph.NetworkGraph, ids map[string]struct{}, kind CommunityType, label string, members []int, characteristics CommonCharacteristics) Community {
	base := string(kind) + ":" + graph.NormalizeLabel(label)
	id := base
	for n := 2; taken(ids, id); n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	ids[id] = struct{}{}
	return Community{
		ID:              id,
		Type:            kind,
		Label:           label,
		Members:         memberIDs(g, members),
		Size:            len(members),
		Density:         density(g.InternalEdges(members), len(members)),
		Characteristics: characteristics,
	}
}

func taken(ids map[string]struct{}, id string) bool {
	_, ok := ids[id]
	return ok
}

// normalizeTags trims, lowercases and dedupes a tag list, dropping blanks.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		norm := graph.NormalizeLabel(tag)
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

// ClaimedLabels returns the normalized labels of attribute communities.
func ClaimedLabels(communities []Community) map[string]struct{} {
	claimed := make(map[string]struct{}, len(communities))
	for _, c := range communities {
		if c.Type.IsAttribute() {
			claimed[graph.NormalizeLabel(c.Label)] = struct{}{}
		}
	}
	return claimed
}

// memberIDs maps sorted node indexes to node IDs.
func memberIDs(g *graph.NetworkGraph, members []int) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = g.ID(m)
	}
	return ids
}
