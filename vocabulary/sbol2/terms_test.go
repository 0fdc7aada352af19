package sbol2_test

import (
	"errors"
	"testing"

	"github.com/c360studio/semstreams/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		key, local string
		want       sbol2.Term
		iri        string
	}{
		{"sbol2", "Module", sbol2.ModuleType, "http://sbols.org/v2#Module"},
		{"sbol2", "mapsTo", sbol2.HasMapsTo, "http://sbols.org/v2#mapsTo"},
		{"sbol2", "mapping", sbol2.HasMapping, "http://sbols.org/v2#mapping"},
		{"sbol2", "definition", sbol2.HasDefinition, "http://sbols.org/v2#definition"},
		{"rdf", "type", sbol2.RDFType, "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		{"dcterms", "title", sbol2.Title, "http://purl.org/dc/terms/title"},
		{"prov", "wasDerivedFrom", sbol2.WasDerivedFrom, "http://www.w3.org/ns/prov#wasDerivedFrom"},
	}
	for _, tt := range tests {
		t.Run(tt.key+":"+tt.local, func(t *testing.T) {
			got, err := sbol2.Lookup(tt.key, tt.local)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.iri, got.IRI())
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	cases := [][2]string{
		{"sbol2", "mapTo"},
		{"sbol2", "Title"},
		{"dcterms", "definition"},
		{"sbol3", "Module"},
	}
	for _, c := range cases {
		_, err := sbol2.Lookup(c[0], c[1])
		var ute *sbol2.UnknownTermError
		require.True(t, errors.As(err, &ute), "%s:%s", c[0], c[1])
		assert.Equal(t, c[0], ute.NamespaceKey)
		assert.Equal(t, c[1], ute.Local)
	}
}

func TestMustLookupPanics(t *testing.T) {
	assert.Panics(t, func() { sbol2.MustLookup("sbol2", "nope") })
	assert.NotPanics(t, func() { sbol2.MustLookup("sbol2", "built") })
}

func TestByIRI(t *testing.T) {
	for _, term := range sbol2.Terms() {
		got, ok := sbol2.ByIRI(term.IRI())
		require.True(t, ok, term.String())
		assert.Equal(t, term, got)
	}

	_, ok := sbol2.ByIRI("http://sbols.org/v2#notATerm")
	assert.False(t, ok)
}

func TestTermString(t *testing.T) {
	assert.Equal(t, "sbol2:definition", sbol2.HasDefinition.String())
	assert.Equal(t, "rdf:type", sbol2.RDFType.String())
	assert.Equal(t, "http://example.org/x", sbol2.Term{Namespace: "http://example.org/", Local: "x"}.String())
}

func TestIsClass(t *testing.T) {
	assert.True(t, sbol2.IsClass(sbol2.ModuleDefinitionType))
	assert.True(t, sbol2.IsClass(sbol2.AttachmentType))
	assert.False(t, sbol2.IsClass(sbol2.HasDefinition))
	assert.False(t, sbol2.IsClass(sbol2.RDFType))
}

func TestPredicatesRegistered(t *testing.T) {
	for _, term := range sbol2.Terms() {
		name := sbol2.PredicateName(term)
		t.Run(name, func(t *testing.T) {
			require.True(t, vocabulary.IsValidPredicate(name), "not three-level: %s", name)
			meta := vocabulary.GetPredicateMetadata(name)
			require.NotNil(t, meta, "predicate %q not registered", name)
			assert.NotEmpty(t, meta.Description)
			assert.NotEmpty(t, meta.DataType)
			assert.Equal(t, term.IRI(), meta.StandardIRI)
		})
	}
}

func TestPredicateNames(t *testing.T) {
	tests := []struct {
		term sbol2.Term
		want string
	}{
		{sbol2.HasDefinition, sbol2.PredicateDefinition},
		{sbol2.HasMapsTo, sbol2.PredicateMapsTo},
		{sbol2.DisplayID, sbol2.PredicateDisplayID},
		{sbol2.PersistentIdentity, sbol2.PredicatePersistentIdentity},
		{sbol2.RDFType, sbol2.PredicateType},
		{sbol2.Version, sbol2.PredicateVersion},
		{sbol2.HasSequenceAnnotation, "sbol.component_definition.sequence_annotation"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sbol2.PredicateName(tt.term))
	}
	assert.Empty(t, sbol2.PredicateName(sbol2.Term{Namespace: "http://example.org/", Local: "x"}))
}

func TestPredicateNamesUnique(t *testing.T) {
	seen := make(map[string]sbol2.Term)
	for _, term := range sbol2.Terms() {
		name := sbol2.PredicateName(term)
		if prev, dup := seen[name]; dup {
			t.Fatalf("%s and %s share dotted name %s", prev, term, name)
		}
		seen[name] = term
	}
}

func TestDisplayIDIsLabelAlias(t *testing.T) {
	meta := vocabulary.GetPredicateMetadata(sbol2.PredicateDisplayID)
	require.NotNil(t, meta)
	assert.True(t, meta.IsAlias)
	assert.Equal(t, vocabulary.AliasTypeLabel, meta.AliasType)
}
