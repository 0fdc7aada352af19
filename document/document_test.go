package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

const ns = "http://example.org/"

func id(segs ...string) identity.Identifier {
	return identity.MustNew(ns, "1.0.0", segs...)
}

// toggleDoc builds a module definition owning two modules, each defined by
// a module definition that stays outside the ownership tree.
func toggleDoc(t *testing.T) *Document {
	t.Helper()
	d := New()
	_, err := d.CreateEntity(KindModuleDefinition, id("toggle"))
	require.NoError(t, err)
	_, err = d.CreateEntity(KindModuleDefinition, id("inverter"))
	require.NoError(t, err)

	for _, name := range []string{"m1", "m2"} {
		mid := id("toggle", name)
		_, err := d.CreateEntity(KindModule, mid, WithParent(id("toggle")))
		require.NoError(t, err)
		require.NoError(t, d.AddReference(mid, sbol2.HasDefinition, id("inverter")))
	}
	return d
}

func TestCreateEntity(t *testing.T) {
	d := New()
	e, err := d.CreateEntity(KindComponentDefinition, id("cd1"))
	require.NoError(t, err)
	assert.Equal(t, KindComponentDefinition, e.Kind())
	assert.True(t, e.ID().Equal(id("cd1")))
	_, hasParent := e.Parent()
	assert.False(t, hasParent)
	assert.Equal(t, 1, d.Len())

	got, ok := d.Get(identity.Parse("http://example.org/cd1/1.0.0"))
	require.True(t, ok)
	assert.Same(t, e, got)
}

func TestCreateEntityDuplicate(t *testing.T) {
	d := New()
	_, err := d.CreateEntity(KindComponentDefinition, id("cd1"))
	require.NoError(t, err)

	_, err = d.CreateEntity(KindComponentDefinition, id("cd1"))
	var dup *DuplicateIdentifierError
	require.True(t, errors.As(err, &dup))
	assert.True(t, dup.ID.Equal(id("cd1")))
	assert.Equal(t, KindComponentDefinition, dup.Existing)

	_, err = d.CreateEntity(KindSequence, identity.Parse("http://example.org/cd1/1.0.0/"))
	assert.True(t, errors.As(err, &dup), "normalized URIs collide")
	assert.Equal(t, 1, d.Len())
}

func TestCreateEntityRejects(t *testing.T) {
	d := New()
	_, err := d.CreateEntity(KindUnknown, id("x"))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = d.CreateEntity(KindSequence, identity.Identifier{})
	assert.ErrorIs(t, err, ErrZeroIdentifier)

	_, err = d.CreateEntity(KindSequence, id("seq"), WithParent(id("cd1")))
	assert.ErrorIs(t, err, ErrFieldNotAllowed, "top-level kinds have no owner")

	_, err = d.CreateEntity(KindComponentDefinition, id("cd1"))
	require.NoError(t, err)
	_, err = d.CreateEntity(KindModule, id("cd1", "m"), WithParent(id("cd1")))
	assert.ErrorIs(t, err, ErrFieldNotAllowed, "component definitions do not own modules")
}

func TestAddReference(t *testing.T) {
	d := New()
	_, err := d.CreateEntity(KindModule, id("md", "m1"))
	require.NoError(t, err)

	t.Run("forward reference", func(t *testing.T) {
		require.NoError(t, d.AddReference(id("md", "m1"), sbol2.HasDefinition, id("later")))
		e, _ := d.Get(id("md", "m1"))
		target, ok := e.Reference(sbol2.HasDefinition)
		require.True(t, ok)
		assert.True(t, target.Equal(id("later")))
	})

	t.Run("single valued", func(t *testing.T) {
		err := d.AddReference(id("md", "m1"), sbol2.HasDefinition, id("other"))
		assert.ErrorIs(t, err, ErrSingleValued)
	})

	t.Run("field not allowed", func(t *testing.T) {
		err := d.AddReference(id("md", "m1"), sbol2.HasMember, id("x"))
		assert.ErrorIs(t, err, ErrFieldNotAllowed)
	})

	t.Run("wrong class", func(t *testing.T) {
		err := d.AddReference(id("md", "m1"), sbol2.Title, id("x"))
		assert.ErrorIs(t, err, ErrFieldNotAllowed)
	})

	t.Run("missing subject", func(t *testing.T) {
		err := d.AddReference(id("nope"), sbol2.HasDefinition, id("x"))
		var nf *NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

func TestProperties(t *testing.T) {
	d := New()
	cd := id("cd1")
	_, err := d.CreateEntity(KindComponentDefinition, cd)
	require.NoError(t, err)

	require.NoError(t, d.AddProperty(cd, sbol2.HasType, IRIValue(sbol2.TypeDNARegion)))
	require.NoError(t, d.AddProperty(cd, sbol2.HasRole, IRIValue("http://identifiers.org/so/SO:0000167")))
	require.NoError(t, d.AddProperty(cd, sbol2.HasRole, IRIValue("http://identifiers.org/so/SO:0000704")))
	require.NoError(t, d.AddProperty(cd, sbol2.Title, Literal("pTet")))

	err = d.AddProperty(cd, sbol2.Title, Literal("again"))
	assert.ErrorIs(t, err, ErrSingleValued)

	require.NoError(t, d.SetProperty(cd, sbol2.Title, Literal("pLac")))
	e, _ := d.Get(cd)
	title, ok := e.Property(sbol2.Title)
	require.True(t, ok)
	assert.Equal(t, "pLac", title.Text)
	assert.Len(t, e.Values(sbol2.HasRole), 2)

	// URI fields always store IRIs.
	require.NoError(t, d.AddProperty(cd, sbol2.WasDerivedFrom, Literal("http://example.org/orig")))
	derived, _ := e.Property(sbol2.WasDerivedFrom)
	assert.True(t, derived.IRI)

	err = d.AddProperty(cd, sbol2.HasSequence, IRIValue("http://example.org/seq"))
	assert.ErrorIs(t, err, ErrFieldNotAllowed, "sequence is a reference field")

	require.NoError(t, d.AddAnnotation(cd, "http://example.org/ext#note", Literal("x")))
	assert.Len(t, e.Annotations(), 1)
}

func TestMappingAliasStoresMapsTo(t *testing.T) {
	s := SchemaOf(KindModule)
	f, ok := s.Field(sbol2.HasMapping)
	require.True(t, ok)
	assert.Equal(t, sbol2.HasMapsTo, f.Term)
	assert.Equal(t, ClassChild, f.Class)
}

func TestResolveAll(t *testing.T) {
	t.Run("dangling module definition", func(t *testing.T) {
		d := New()
		m1 := identity.Parse("http://example.org/M1")
		cd1 := identity.Parse("http://example.org/CD1")
		_, err := d.CreateEntity(KindModule, m1)
		require.NoError(t, err)
		require.NoError(t, d.AddReference(m1, sbol2.HasDefinition, cd1))

		errs := d.ResolveAll()
		require.Len(t, errs, 1)
		assert.True(t, errs[0].Subject.Equal(m1))
		assert.Equal(t, sbol2.HasDefinition, errs[0].Predicate)
		assert.True(t, errs[0].Target.Equal(cd1))
		assert.True(t, errs[0].Required)
	})

	t.Run("idempotent", func(t *testing.T) {
		d := toggleDoc(t)
		require.NoError(t, d.RemoveEntity(id("inverter")))
		first := d.ResolveAll()
		second := d.ResolveAll()
		assert.Len(t, first, 2)
		assert.Equal(t, first, second)
	})

	t.Run("resolved after target arrives", func(t *testing.T) {
		d := New()
		_, err := d.CreateEntity(KindCollection, id("parts"))
		require.NoError(t, err)
		require.NoError(t, d.AddReference(id("parts"), sbol2.HasMember, id("cd1")))
		assert.Len(t, d.ResolveAll(), 1)
		assert.False(t, d.ResolveAll()[0].Required)

		_, err = d.CreateEntity(KindComponentDefinition, id("cd1"))
		require.NoError(t, err)
		assert.Empty(t, d.ResolveAll())
	})

	t.Run("external prefixes are skipped", func(t *testing.T) {
		d := New()
		_, err := d.CreateEntity(KindModule, id("md", "m"))
		require.NoError(t, err)
		require.NoError(t, d.AddReference(id("md", "m"), sbol2.HasDefinition,
			identity.Parse("http://parts.igem.org/BBa_K123/1")))
		d.DeclareExternal("http://parts.igem.org/")
		assert.Empty(t, d.ResolveAll())
	})
}

func TestRemoveEntityCascades(t *testing.T) {
	d := toggleDoc(t)
	require.Equal(t, 4, d.Len())
	require.Len(t, d.Children(id("toggle")), 2)

	require.NoError(t, d.RemoveEntity(id("toggle")))

	assert.False(t, d.Contains(id("toggle")))
	assert.False(t, d.Contains(id("toggle", "m1")))
	assert.False(t, d.Contains(id("toggle", "m2")))
	assert.True(t, d.Contains(id("inverter")), "reference targets survive")
	assert.Equal(t, 1, d.Len())
	assert.Empty(t, d.Children(id("toggle")))
}

func TestRemoveEntityKeepsComponentDefinition(t *testing.T) {
	d := New()
	md, fc, cd := id("md"), id("md", "fc"), id("cd")
	_, err := d.CreateEntity(KindModuleDefinition, md)
	require.NoError(t, err)
	_, err = d.CreateEntity(KindFunctionalComponent, fc, WithParent(md))
	require.NoError(t, err)
	_, err = d.CreateEntity(KindComponentDefinition, cd)
	require.NoError(t, err)
	require.NoError(t, d.AddReference(fc, sbol2.HasDefinition, cd))

	require.NoError(t, d.RemoveEntity(md))

	assert.False(t, d.Contains(md))
	assert.False(t, d.Contains(fc))
	e, ok := d.Get(cd)
	require.True(t, ok, "definition reached through a reference survives")
	assert.Equal(t, KindComponentDefinition, e.Kind())
	_, owned := e.Parent()
	assert.False(t, owned)
	assert.Equal(t, 1, d.Len())
	assert.Empty(t, d.ResolveAll())
}

func TestRemoveEntityDeep(t *testing.T) {
	d := toggleDoc(t)
	mt := id("toggle", "m1", "mt")
	_, err := d.CreateEntity(KindMapsTo, mt, WithParent(id("toggle", "m1")))
	require.NoError(t, err)

	require.NoError(t, d.RemoveEntity(id("toggle", "m1")))
	assert.False(t, d.Contains(mt))
	assert.True(t, d.Contains(id("toggle", "m2")))
	assert.Len(t, d.Children(id("toggle")), 1)

	err = d.RemoveEntity(id("toggle", "m1"))
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestEntitiesKeepInsertionOrder(t *testing.T) {
	d := toggleDoc(t)
	var got []string
	for _, e := range d.Entities() {
		got = append(got, e.ID().DisplayID())
	}
	assert.Equal(t, []string{"toggle", "inverter", "m1", "m2"}, got)

	var top []string
	for _, e := range d.TopLevels() {
		top = append(top, e.ID().DisplayID())
	}
	assert.Equal(t, []string{"toggle", "inverter"}, top)
}

func TestCloneAndEqual(t *testing.T) {
	d := toggleDoc(t)
	c := d.Clone()
	assert.True(t, d.Equal(c))

	require.NoError(t, c.AddProperty(id("toggle"), sbol2.Title, Literal("toggle switch")))
	assert.False(t, d.Equal(c))
	_, ok := d.Get(id("toggle"))
	require.True(t, ok)
	e, _ := d.Get(id("toggle"))
	_, hasTitle := e.Property(sbol2.Title)
	assert.False(t, hasTitle, "clone is deep")

	require.NoError(t, c.RemoveEntity(id("toggle", "m2")))
	assert.Equal(t, 4, d.Len())
}

func TestEqualIgnoresValueOrder(t *testing.T) {
	build := func(roles ...string) *Document {
		d := New()
		_, err := d.CreateEntity(KindComponentDefinition, id("cd"))
		require.NoError(t, err)
		for _, r := range roles {
			require.NoError(t, d.AddProperty(id("cd"), sbol2.HasRole, IRIValue(r)))
		}
		return d
	}
	a := build("http://example.org/r1", "http://example.org/r2")
	b := build("http://example.org/r2", "http://example.org/r1")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(build("http://example.org/r1")))
}

func TestValidationErrorUnwraps(t *testing.T) {
	ref := &UnresolvedReferenceError{
		Subject:   id("m1"),
		Predicate: sbol2.HasDefinition,
		Target:    id("cd1"),
		Required:  true,
	}
	err := NewValidationError([]Issue{{Rule: "unresolved-reference", Subject: ref.Subject, Message: ref.Error(), Err: ref}})

	var got *UnresolvedReferenceError
	require.True(t, errors.As(err, &got))
	assert.Same(t, ref, got)
	assert.Contains(t, err.Error(), "unresolved-reference")
	assert.Nil(t, NewValidationError(nil))
}
