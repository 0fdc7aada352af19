// Package sbol2 provides the SBOL2 term vocabulary: the fixed table of
// class and property IRIs used to read and write SBOL2 RDF documents.
//
// Every IRI matches the published SBOL2 standard byte-for-byte. The table is
// built during package initialisation and is read-only afterwards; concurrent
// lookups need no locking.
//
// # Namespaces
//
//	sbol2   → http://sbols.org/v2#
//	rdf     → http://www.w3.org/1999/02/22-rdf-syntax-ns#
//	dcterms → http://purl.org/dc/terms/
//	prov    → http://www.w3.org/ns/prov#
//
// # Semstreams Integration
//
// Each term is also registered with the semstreams predicate registry under
// a three-level dotted name (sbol.<group>.<property>) with its IRI attached
// through vocabulary.WithIRI, so graph consumers can map dotted predicates
// back to SBOL2 IRIs:
//
//	import _ "github.com/c360studio/sbolgraph/vocabulary/sbol2"
//
//	meta := vocabulary.GetPredicateMetadata("sbol.module.definition")
//	// meta.StandardIRI == "http://sbols.org/v2#definition"
//
// # Usage
//
//	t, err := sbol2.Lookup("sbol2", "mapsTo")
//	if err != nil {
//	    // *sbol2.UnknownTermError: a typo, never a data problem
//	}
//	t.IRI() // "http://sbols.org/v2#mapsTo"
package sbol2
