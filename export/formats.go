package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/c360studio/sbolgraph/rdf"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extensions are the file extensions (with dot), preferred first.
	Extensions []string

	// Description describes the format.
	Description string

	// Readable reports whether NewSource can parse the format.
	Readable bool
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatRDFXML: {
		Name:        FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extensions:  []string{".xml", ".rdf", ".sbol"},
		Description: "RDF/XML - SBOL exchange format",
		Readable:    true,
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extensions:  []string{".ttl"},
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extensions:  []string{".nt"},
		Description: "N-Triples - Line-based RDF format",
		Readable:    true,
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extensions:  []string{".jsonld", ".json"},
		Description: "JSON-LD - JSON for Linked Data",
		Readable:    true,
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat accepts a format name or one of its common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rdfxml", "rdf/xml", "xml", "rdf", "sbol":
		return FormatRDFXML, nil
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range []Format{FormatRDFXML, FormatTurtle, FormatNTriples, FormatJSONLD} {
		for _, e := range FormatRegistry[f].Extensions {
			if e == ext {
				return f, true
			}
		}
	}
	return "", false
}

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a new Turtle writer with default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{
		prefixes: defaultPrefixes(),
	}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	// Sort prefixes for consistent output
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.prefixes[prefix]))
	}
	w.sb.WriteString("\n")
}

// WriteTriples writes prefixes and then one block per subject in
// first-seen order.
func (w *TurtleWriter) WriteTriples(triples []rdf.Triple) {
	w.WritePrefixes()
	c := newCompactor(w.prefixes)
	order, by := subjects(triples)
	for i, s := range order {
		if i > 0 {
			w.sb.WriteString("\n")
		}
		w.sb.WriteString(turtleNode(c, s) + "\n")
		ts := by[s]
		for j, t := range ts {
			terminator := " ;"
			if j == len(ts)-1 {
				terminator = " ."
			}
			pred := "a"
			if t.Predicate != sbol2.RDFType.IRI() {
				pred = turtleNode(c, t.Predicate)
			}
			w.sb.WriteString(fmt.Sprintf("    %s %s%s\n", pred, turtleObject(c, t.Object), terminator))
		}
	}
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

func turtleNode(c *compactor, iri string) string {
	if strings.HasPrefix(iri, "_:") {
		return iri
	}
	if q := c.compact(iri); q != "" {
		return q
	}
	return "<" + iri + ">"
}

func turtleObject(c *compactor, o rdf.Object) string {
	if o.IsIRI {
		return turtleNode(c, o.Value)
	}
	s := `"` + escapeString(o.Value) + `"`
	switch {
	case o.Lang != "":
		s += "@" + o.Lang
	case o.Datatype != "" && o.Datatype != rdf.XSDString:
		s += "^^" + turtleNode(c, o.Datatype)
	}
	return s
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for JSONLDNode.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	// Create a map with all fields
	m := make(map[string]any)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLDWriter writes RDF in JSON-LD format.
type JSONLDWriter struct {
	doc JSONLDDocument
}

// NewJSONLDWriter creates a new JSON-LD writer.
func NewJSONLDWriter() *JSONLDWriter {
	return &JSONLDWriter{
		doc: JSONLDDocument{
			Context: make(map[string]any),
			Graph:   make([]JSONLDNode, 0),
		},
	}
}

// SetContext sets the @context with prefixes.
func (w *JSONLDWriter) SetContext(prefixes map[string]string) {
	for k, v := range prefixes {
		w.doc.Context[k] = v
	}
}

// AddNode adds a node to the graph.
func (w *JSONLDWriter) AddNode(id string, types []string, properties map[string]any) {
	node := JSONLDNode{
		ID:         id,
		Type:       types,
		Properties: properties,
	}
	w.doc.Graph = append(w.doc.Graph, node)
}

// AddTriples adds one node per subject. Property keys and types are
// compacted against the context; multiple values become arrays.
func (w *JSONLDWriter) AddTriples(triples []rdf.Triple) {
	prefixes := make(map[string]string, len(w.doc.Context))
	for k, v := range w.doc.Context {
		if s, ok := v.(string); ok {
			prefixes[k] = s
		}
	}
	c := newCompactor(prefixes)
	key := func(iri string) string {
		if q := c.compact(iri); q != "" {
			return q
		}
		return iri
	}

	order, by := subjects(triples)
	for _, s := range order {
		var types []string
		props := make(map[string]any)
		for _, t := range by[s] {
			if t.Predicate == sbol2.RDFType.IRI() && t.Object.IsIRI {
				types = append(types, key(t.Object.Value))
				continue
			}
			k := key(t.Predicate)
			v := jsonldValue(t.Object)
			switch prev := props[k].(type) {
			case nil:
				props[k] = v
			case []any:
				props[k] = append(prev, v)
			default:
				props[k] = []any{prev, v}
			}
		}
		w.AddNode(s, types, props)
	}
}

func jsonldValue(o rdf.Object) any {
	switch {
	case o.IsIRI:
		return map[string]any{"@id": o.Value}
	case o.Lang != "":
		return map[string]any{"@value": o.Value, "@language": o.Lang}
	case o.Datatype != "" && o.Datatype != rdf.XSDString:
		return map[string]any{"@value": o.Value, "@type": o.Datatype}
	default:
		return o.Value
	}
}

// String returns the JSON-LD output.
func (w *JSONLDWriter) String() string {
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
