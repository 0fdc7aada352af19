package sbol2

// Namespace IRIs.
const (
	// SBOL2 is the SBOL version 2 namespace.
	SBOL2 = "http://sbols.org/v2#"

	// RDF is the RDF syntax namespace.
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// DCTerms is the Dublin Core terms namespace.
	DCTerms = "http://purl.org/dc/terms/"

	// PROV is the W3C provenance namespace.
	PROV = "http://www.w3.org/ns/prov#"
)

// Namespace keys accepted by Lookup. They double as the conventional
// prefixes used when rendering compact names.
const (
	KeySBOL2   = "sbol2"
	KeyRDF     = "rdf"
	KeyDCTerms = "dcterms"
	KeyPROV    = "prov"
)

// namespaces maps each namespace key to its IRI.
var namespaces = map[string]string{
	KeySBOL2:   SBOL2,
	KeyRDF:     RDF,
	KeyDCTerms: DCTerms,
	KeyPROV:    PROV,
}

// Prefixes returns the namespace key to IRI table in a fresh map.
func Prefixes() map[string]string {
	out := make(map[string]string, len(namespaces))
	for k, v := range namespaces {
		out[k] = v
	}
	return out
}

// NamespaceIRI returns the IRI bound to key.
func NamespaceIRI(key string) (string, bool) {
	iri, ok := namespaces[key]
	return iri, ok
}

// PrefixOf returns the namespace key for a namespace IRI, or "".
func PrefixOf(namespace string) string {
	for k, v := range namespaces {
		if v == namespace {
			return k
		}
	}
	return ""
}
