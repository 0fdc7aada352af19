// Package doctest provides SBOL documents for tests: a fixed genetic
// toggle switch design and a rapid generator of random well-formed
// documents.
package doctest

import (
	"fmt"
	"strings"

	"pgregory.net/rapid"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Namespace is the URI prefix of fixture identifiers.
const Namespace = "http://sbolstandard.org/example/"

// Version is the version of fixture identifiers.
const Version = "1.0.0"

// ID builds a fixture identifier.
func ID(segments ...string) identity.Identifier {
	return identity.MustNew(Namespace, Version, segments...)
}

type builder struct {
	doc *document.Document
	err error
}

func (b *builder) create(kind document.Kind, id identity.Identifier, opts ...document.CreateOption) {
	if b.err != nil {
		return
	}
	_, b.err = b.doc.CreateEntity(kind, id, opts...)
}

func (b *builder) prop(id identity.Identifier, term sbol2.Term, v document.Value) {
	if b.err != nil {
		return
	}
	b.err = b.doc.AddProperty(id, term, v)
}

func (b *builder) ref(id identity.Identifier, term sbol2.Term, target identity.Identifier) {
	if b.err != nil {
		return
	}
	b.err = b.doc.AddReference(id, term, target)
}

// ToggleSwitch returns a small but complete design: two repressor
// component definitions with sequences, an inverter module definition and a
// toggle module definition instantiating it twice with MapsTo links.
func ToggleSwitch() *document.Document {
	b := &builder{doc: document.New()}

	for _, name := range []string{"LacI", "TetR"} {
		seq := ID(name + "_seq")
		b.create(document.KindSequence, seq)
		b.prop(seq, sbol2.HasElements, document.Literal("atggtgaatgtgaaaccagtaacgttatacgatgtcgcagagtatgccggtgtc"))
		b.prop(seq, sbol2.HasEncoding, document.IRIValue(sbol2.EncodingIUPACDNA))

		cd := ID(name)
		b.create(document.KindComponentDefinition, cd)
		b.prop(cd, sbol2.Title, document.Literal(name+" coding sequence"))
		b.prop(cd, sbol2.HasType, document.IRIValue(sbol2.TypeDNARegion))
		b.prop(cd, sbol2.HasRole, document.IRIValue("http://identifiers.org/so/SO:0000316"))
		b.ref(cd, sbol2.HasSequence, seq)

		protein := ID(name + "_protein")
		b.create(document.KindComponentDefinition, protein)
		b.prop(protein, sbol2.HasType, document.IRIValue(sbol2.TypeProtein))
	}

	inv := ID("inverter")
	b.create(document.KindModuleDefinition, inv)
	b.prop(inv, sbol2.Description, document.Literal("Generic repression inverter"))
	for _, fc := range []string{"input", "output"} {
		id, _ := inv.Child(fc)
		b.create(document.KindFunctionalComponent, id, document.WithParent(inv))
		b.ref(id, sbol2.HasDefinition, ID("LacI_protein"))
		b.prop(id, sbol2.HasAccess, document.IRIValue(sbol2.AccessPublic))
		b.prop(id, sbol2.HasDirection, document.IRIValue(sbol2.DirectionIn))
	}
	repression, _ := inv.Child("repression")
	b.create(document.KindInteraction, repression, document.WithParent(inv))
	b.prop(repression, sbol2.HasType, document.IRIValue("http://identifiers.org/biomodels.sbo/SBO:0000169"))
	inhibitor, _ := repression.Child("inhibitor")
	b.create(document.KindParticipation, inhibitor, document.WithParent(repression))
	b.prop(inhibitor, sbol2.HasRole, document.IRIValue("http://identifiers.org/biomodels.sbo/SBO:0000020"))
	input, _ := inv.Child("input")
	b.ref(inhibitor, sbol2.HasParticipant, input)

	toggle := ID("toggle")
	b.create(document.KindModuleDefinition, toggle)
	b.prop(toggle, sbol2.Title, document.Literal("Genetic toggle switch"))
	for _, name := range []string{"LacI", "TetR"} {
		fc, _ := toggle.Child(name + "_fc")
		b.create(document.KindFunctionalComponent, fc, document.WithParent(toggle))
		b.ref(fc, sbol2.HasDefinition, ID(name+"_protein"))
		b.prop(fc, sbol2.HasAccess, document.IRIValue(sbol2.AccessPublic))
		b.prop(fc, sbol2.HasDirection, document.IRIValue(sbol2.DirectionInOut))

		m, _ := toggle.Child(strings.ToLower(name) + "_inverter")
		b.create(document.KindModule, m, document.WithParent(toggle))
		b.ref(m, sbol2.HasDefinition, inv)

		mt, _ := m.Child("input_mapping")
		b.create(document.KindMapsTo, mt, document.WithParent(m))
		b.prop(mt, sbol2.HasRefinement, document.IRIValue(sbol2.RefinementUseRemote))
		b.ref(mt, sbol2.HasLocal, fc)
		b.ref(mt, sbol2.HasRemote, input)
	}

	if b.err != nil {
		panic(fmt.Sprintf("doctest: toggle switch fixture: %v", b.err))
	}
	return b.doc
}

// Document generates a random document with no dangling references. Every
// required field is set so the result passes both validation gates.
func Document(t *rapid.T) *document.Document {
	b := &builder{doc: document.New()}
	name := rapid.StringMatching(`[a-z][a-z0-9_]{0,7}`)
	text := rapid.StringMatching(`[ -~]{0,24}`)
	version := rapid.SampledFrom([]string{"", "1.0.0", "2.3.1", "1.0.0-beta.2"})

	seen := make(map[string]bool)
	fresh := func(label string) string {
		for {
			n := name.Draw(t, label)
			if !seen[n] {
				seen[n] = true
				return n
			}
		}
	}

	var cds []identity.Identifier
	for i := range rapid.IntRange(1, 4).Draw(t, "cds") {
		cd := identity.MustNew(Namespace, version.Draw(t, "version"), fresh("cd"))
		b.create(document.KindComponentDefinition, cd)
		b.prop(cd, sbol2.HasType, document.IRIValue(rapid.SampledFrom([]string{sbol2.TypeDNARegion, sbol2.TypeProtein}).Draw(t, "type")))
		if rapid.Bool().Draw(t, "titled") {
			b.prop(cd, sbol2.Title, document.Literal(text.Draw(t, "title")))
		}
		if i > 0 && rapid.Bool().Draw(t, "sub") {
			c, _ := cd.Child(fresh("component"))
			b.create(document.KindComponent, c, document.WithParent(cd))
			b.ref(c, sbol2.HasDefinition, cds[rapid.IntRange(0, len(cds)-1).Draw(t, "def")])
			b.prop(c, sbol2.HasAccess, document.IRIValue(sbol2.AccessPrivate))
		}
		cds = append(cds, cd)
	}

	var mds []identity.Identifier
	for i := range rapid.IntRange(0, 3).Draw(t, "mds") {
		md := identity.MustNew(Namespace, version.Draw(t, "version"), fresh("md"))
		b.create(document.KindModuleDefinition, md)
		if rapid.Bool().Draw(t, "described") {
			b.prop(md, sbol2.Description, document.Literal(text.Draw(t, "description")))
		}
		fc, _ := md.Child(fresh("fc"))
		b.create(document.KindFunctionalComponent, fc, document.WithParent(md))
		b.ref(fc, sbol2.HasDefinition, cds[rapid.IntRange(0, len(cds)-1).Draw(t, "fcdef")])
		b.prop(fc, sbol2.HasAccess, document.IRIValue(sbol2.AccessPublic))
		b.prop(fc, sbol2.HasDirection, document.IRIValue(sbol2.DirectionNone))
		if i > 0 {
			m, _ := md.Child(fresh("module"))
			b.create(document.KindModule, m, document.WithParent(md))
			b.ref(m, sbol2.HasDefinition, mds[rapid.IntRange(0, len(mds)-1).Draw(t, "mdef")])
		}
		mds = append(mds, md)
	}

	if rapid.Bool().Draw(t, "annotated") {
		b.err = firstErr(b.err, b.doc.AddAnnotation(cds[0], "http://example.org/lab#note", document.Literal(text.Draw(t, "note"))))
	}

	if b.err != nil {
		t.Fatalf("generate document: %v", b.err)
	}
	return b.doc
}

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}
