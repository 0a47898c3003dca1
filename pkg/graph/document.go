package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is the serialized form of a network snapshot as produced by the
// graph-construction collaborator: nodes, symmetric adjacency and the contact
// attributes used for community building.
type Document struct {
	Nodes     []NetworkNode       `json:"nodes" yaml:"nodes" validate:"dive"`
	Adjacency map[string][]string `json:"adjacency" yaml:"adjacency"`
	Contacts  []Contact           `json:"contacts,omitempty" yaml:"contacts,omitempty" validate:"dive"`
}

// Graph builds the NetworkGraph described by the document.
func (d *Document) Graph() (*NetworkGraph, error) {
	return New(d.Nodes, d.Adjacency)
}

// ContactSet returns the document's contacts. When the document carries no
// contacts, node fields are used instead.
func (d *Document) ContactSet(g *NetworkGraph) Contacts {
	if len(d.Contacts) == 0 && g != nil {
		return ContactsFromGraph(g)
	}
	return NewContacts(d.Contacts)
}

// NewDocument serializes a graph and its contacts.
func NewDocument(g *NetworkGraph, contacts Contacts) *Document {
	return &Document{
		Nodes:     g.Nodes(),
		Adjacency: g.Adjacency(),
		Contacts:  contacts.All(),
	}
}

// Format identifies a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks an encoding from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeDocument reads a document in the given format.
func DecodeDocument(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml document: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	return &doc, nil
}

// LoadDocument reads a document from disk, picking the format by extension.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", path, err)
	}
	return DecodeDocument(bytes.NewReader(data), FormatFromPath(path))
}

// Encode writes the document in the given format.
func (d *Document) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode yaml document: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	default:
		return fmt.Errorf("unsupported document format %q", format)
	}
}
