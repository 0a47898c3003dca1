package graph

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

const fieldSeparator = 0x1f

// Fingerprint returns a content hash of the graph. Two graphs with the same
// nodes, node fields and adjacency share a fingerprint regardless of the order
// they were supplied in.
func (g *NetworkGraph) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for i, n := range g.nodes {
		writeFields(d, n.ID, n.Name, n.Company, n.Affiliation, n.Position)
		binary.LittleEndian.PutUint64(buf[:], uint64(len(g.adj[i])))
		d.Write(buf[:])
		for _, j := range g.adj[i] {
			binary.LittleEndian.PutUint64(buf[:], uint64(j))
			d.Write(buf[:])
		}
	}
	return d.Sum64()
}

// Fingerprint returns a content hash of the contact set.
func (c Contacts) Fingerprint() uint64 {
	d := xxhash.New()
	for _, id := range c.ids {
		contact := c.byID[id]
		writeFields(d, contact.ID, contact.Name, contact.Company, contact.Affiliation, contact.Position)
		writeFields(d, contact.Tags...)
		d.Write([]byte{fieldSeparator, fieldSeparator})
	}
	return d.Sum64()
}

func writeFields(d *xxhash.Digest, fields ...string) {
	for _, f := range fields {
		d.WriteString(f)
		d.Write([]byte{fieldSeparator})
	}
}
