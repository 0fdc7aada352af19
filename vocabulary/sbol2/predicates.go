package sbol2

import (
	"strings"
	"unicode"

	"github.com/c360studio/semstreams/vocabulary"
)

// Domain is the first level of every dotted predicate name registered by
// this package.
const Domain = "sbol"

// Dotted predicates used most often by graph consumers.
const (
	PredicateType               = "sbol.identified.type"
	PredicateDisplayID          = "sbol.identified.display_id"
	PredicatePersistentIdentity = "sbol.identified.persistent_identity"
	PredicateVersion            = "sbol.identified.version"
	PredicateDefinition         = "sbol.module.definition"
	PredicateMapsTo             = "sbol.module.maps_to"
)

// PredicateName returns the three-level dotted name of t, e.g.
// sbol.module.definition. Terms outside the table get an empty name.
func PredicateName(t Term) string {
	e, ok := byIRI[t.IRI()]
	if !ok {
		return ""
	}
	return dotted(e)
}

func dotted(e entry) string {
	return Domain + "." + e.group + "." + snake(e.term.Local)
}

// snake converts lowerCamel local names to snake_case.
func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func init() {
	for _, e := range table {
		opts := []vocabulary.Option{
			vocabulary.WithDescription(e.desc),
			vocabulary.WithDataType(e.dataType),
			vocabulary.WithIRI(e.term.IRI()),
		}
		switch e.term {
		case DisplayID:
			opts = append(opts, vocabulary.WithAlias(vocabulary.AliasTypeLabel, 1))
		case PersistentIdentity:
			opts = append(opts, vocabulary.WithAlias(vocabulary.AliasTypeIdentity, 0))
		}
		vocabulary.Register(dotted(e), opts...)
	}
}
