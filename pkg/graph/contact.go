package graph

import (
	"sort"
	"strings"
)

// Contact carries the declared attributes used for community building.
type Contact struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Name        string   `json:"name" yaml:"name"`
	Company     string   `json:"company,omitempty" yaml:"company,omitempty"`
	Affiliation string   `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Position    string   `json:"position,omitempty" yaml:"position,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty" validate:"omitempty,dive,max=100"`
}

// Contacts is a read-only lookup of contacts by ID. The zero value is empty.
type Contacts struct {
	byID map[string]Contact
	ids  []string
}

// NewContacts indexes a contact list. A later entry with the same ID replaces
// an earlier one.
func NewContacts(list []Contact) Contacts {
	byID := make(map[string]Contact, len(list))
	for _, c := range list {
		c.Tags = append([]string(nil), c.Tags...)
		byID[c.ID] = c
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return Contacts{byID: byID, ids: ids}
}

// ContactsFromGraph derives a contact lookup from node fields alone.
func ContactsFromGraph(g *NetworkGraph) Contacts {
	list := make([]Contact, 0, g.Len())
	for _, n := range g.nodes {
		list = append(list, Contact{
			ID:          n.ID,
			Name:        n.Name,
			Company:     n.Company,
			Affiliation: n.Affiliation,
			Position:    n.Position,
		})
	}
	return NewContacts(list)
}

// Lookup returns the contact with the given ID.
func (c Contacts) Lookup(id string) (Contact, bool) {
	contact, ok := c.byID[id]
	return contact, ok
}

// Len returns the number of contacts.
func (c Contacts) Len() int {
	return len(c.ids)
}

// IDs returns contact IDs in lexicographic order.
func (c Contacts) IDs() []string {
	return append([]string(nil), c.ids...)
}

// All returns every contact in lexicographic ID order.
func (c Contacts) All() []Contact {
	out := make([]Contact, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

// NormalizeLabel trims and lowercases a label for comparisons.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
