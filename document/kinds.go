package document

import (
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Kind tags the SBOL class of an entity.
type Kind int

// Entity kinds. TopLevel kinds first.
const (
	KindUnknown Kind = iota
	KindModuleDefinition
	KindComponentDefinition
	KindSequence
	KindModel
	KindCollection
	KindImplementation
	KindAttachment
	KindModule
	KindMapsTo
	KindComponent
	KindFunctionalComponent
	KindSequenceAnnotation
	KindSequenceConstraint
	KindInteraction
	KindParticipation
	KindRange
	KindCut
	KindGenericLocation
)

// ValueClass says how a field's values are stored and serialized.
type ValueClass int

const (
	// ClassLiteral fields hold literal values.
	ClassLiteral ValueClass = iota
	// ClassURI fields hold IRIs that are not entity references.
	ClassURI
	// ClassReference fields point at other entities by identifier.
	ClassReference
	// ClassChild fields link a parent to the entities it owns.
	ClassChild
)

func (c ValueClass) String() string {
	switch c {
	case ClassLiteral:
		return "literal"
	case ClassURI:
		return "uri"
	case ClassReference:
		return "reference"
	case ClassChild:
		return "child"
	}
	return "unknown"
}

// Field describes one predicate a kind accepts.
type Field struct {
	Term     sbol2.Term
	Class    ValueClass
	Required bool
	Multi    bool
	// Targets lists the kinds a reference or child may point at. Empty
	// means any kind.
	Targets []Kind
	// Aliases are alternative terms read as this field.
	Aliases []sbol2.Term
}

// Accepts reports whether k is an allowed target of f.
func (f Field) Accepts(k Kind) bool {
	if len(f.Targets) == 0 {
		return true
	}
	for _, t := range f.Targets {
		if t == k {
			return true
		}
	}
	return false
}

// Matches reports whether term names f directly or through an alias.
func (f Field) Matches(term sbol2.Term) bool {
	if f.Term == term {
		return true
	}
	for _, a := range f.Aliases {
		if a == term {
			return true
		}
	}
	return false
}

// Schema is the static description of a kind.
type Schema struct {
	Kind     Kind
	Name     string
	Type     sbol2.Term
	TopLevel bool
	Fields   []Field
}

// Field returns the field term resolves to, following aliases.
func (s *Schema) Field(term sbol2.Term) (Field, bool) {
	for _, f := range s.Fields {
		if f.Matches(term) {
			return f, true
		}
	}
	return Field{}, false
}

// Required returns the required fields in declaration order.
func (s *Schema) Required() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// ContainmentField returns the child field of s that owns entities of kind
// child.
func (s *Schema) ContainmentField(child Kind) (Field, bool) {
	for _, f := range s.Fields {
		if f.Class == ClassChild && f.Accepts(child) {
			return f, true
		}
	}
	return Field{}, false
}

var topLevelKinds = []Kind{
	KindModuleDefinition,
	KindComponentDefinition,
	KindSequence,
	KindModel,
	KindCollection,
	KindImplementation,
	KindAttachment,
}

func identified() []Field {
	return []Field{
		{Term: sbol2.PersistentIdentity, Class: ClassURI},
		{Term: sbol2.DisplayID, Class: ClassLiteral},
		{Term: sbol2.Version, Class: ClassLiteral},
		{Term: sbol2.Title, Class: ClassLiteral},
		{Term: sbol2.Description, Class: ClassLiteral},
		{Term: sbol2.WasDerivedFrom, Class: ClassURI, Multi: true},
		{Term: sbol2.WasGeneratedBy, Class: ClassURI, Multi: true},
	}
}

func topLevel(fields ...Field) []Field {
	out := identified()
	out = append(out, Field{Term: sbol2.HasAttachment, Class: ClassReference, Multi: true, Targets: []Kind{KindAttachment}})
	return append(out, fields...)
}

func child(fields ...Field) []Field {
	return append(identified(), fields...)
}

var locationKinds = []Kind{KindRange, KindCut, KindGenericLocation}

var instanceKinds = []Kind{KindComponent, KindFunctionalComponent}

var schemas = map[Kind]*Schema{
	KindModuleDefinition: {
		Name: "ModuleDefinition", Type: sbol2.ModuleDefinitionType, TopLevel: true,
		Fields: topLevel(
			Field{Term: sbol2.HasRole, Class: ClassURI, Multi: true},
			Field{Term: sbol2.HasModule, Class: ClassChild, Multi: true, Targets: []Kind{KindModule}},
			Field{Term: sbol2.HasInteraction, Class: ClassChild, Multi: true, Targets: []Kind{KindInteraction}},
			Field{Term: sbol2.HasFunctionalComponent, Class: ClassChild, Multi: true, Targets: []Kind{KindFunctionalComponent}},
			Field{Term: sbol2.HasModel, Class: ClassReference, Multi: true, Targets: []Kind{KindModel}},
		),
	},
	KindComponentDefinition: {
		Name: "ComponentDefinition", Type: sbol2.ComponentDefinitionType, TopLevel: true,
		Fields: topLevel(
			Field{Term: sbol2.HasType, Class: ClassURI, Required: true, Multi: true},
			Field{Term: sbol2.HasRole, Class: ClassURI, Multi: true},
			Field{Term: sbol2.HasSequence, Class: ClassReference, Multi: true, Targets: []Kind{KindSequence}},
			Field{Term: sbol2.HasComponent, Class: ClassChild, Multi: true, Targets: []Kind{KindComponent}},
			Field{Term: sbol2.HasSequenceAnnotation, Class: ClassChild, Multi: true, Targets: []Kind{KindSequenceAnnotation}},
			Field{Term: sbol2.HasSequenceConstraint, Class: ClassChild, Multi: true, Targets: []Kind{KindSequenceConstraint}},
		),
	},
	KindSequence: {
		Name: "Sequence", Type: sbol2.SequenceType, TopLevel: true,
		Fields: topLevel(
			Field{Term: sbol2.HasElements, Class: ClassLiteral, Required: true},
			Field{Term: sbol2.HasEncoding, Class: ClassURI, Required: true},
		),
	},
	KindModel: {
		Name: "Model", Type: sbol2.ModelType, TopLevel: true,
		Fields: topLevel(
			Field{Term: sbol2.HasSource, Class: ClassURI, Required: true},
			Field{Term: sbol2.HasLanguage, Class: ClassURI, Required: true},
			Field{Term: sbol2.HasFramework, Class: ClassURI, Required: true},
		),
	},
	KindCollection: {
		Name: "Collection", Type: sbol2.CollectionType, TopLevel: true,
		Fields: topLevel(
			Field{Term: sbol2.HasMember, Class: ClassReference, Multi: true, Targets: topLevelKinds},
		),
	},
	KindImplementation: {
		Name: "Implementation", Type: sbol2.ImplementationType, TopLevel: true,
		Fields: topLevel(
			Field{Term: sbol2.HasBuilt, Class: ClassReference, Targets: []Kind{KindComponentDefinition, KindModuleDefinition}},
		),
	},
	KindAttachment: {
		Name: "Attachment", Type: sbol2.AttachmentType, TopLevel: true,
		Fields: topLevel(
			Field{Term: sbol2.HasSource, Class: ClassURI, Required: true},
			Field{Term: sbol2.HasFormat, Class: ClassURI},
			Field{Term: sbol2.HasSize, Class: ClassLiteral},
			Field{Term: sbol2.HasHash, Class: ClassLiteral},
		),
	},
	KindModule: {
		Name: "Module", Type: sbol2.ModuleType,
		Fields: child(
			Field{Term: sbol2.HasDefinition, Class: ClassReference, Required: true, Targets: []Kind{KindModuleDefinition}},
			Field{Term: sbol2.HasMapsTo, Class: ClassChild, Multi: true, Targets: []Kind{KindMapsTo}, Aliases: []sbol2.Term{sbol2.HasMapping}},
		),
	},
	KindMapsTo: {
		Name: "MapsTo", Type: sbol2.MapsToType,
		Fields: child(
			Field{Term: sbol2.HasRefinement, Class: ClassURI, Required: true},
			Field{Term: sbol2.HasLocal, Class: ClassReference, Required: true, Targets: instanceKinds},
			Field{Term: sbol2.HasRemote, Class: ClassReference, Required: true, Targets: instanceKinds},
		),
	},
	KindComponent: {
		Name: "Component", Type: sbol2.ComponentType,
		Fields: child(
			Field{Term: sbol2.HasDefinition, Class: ClassReference, Required: true, Targets: []Kind{KindComponentDefinition}},
			Field{Term: sbol2.HasAccess, Class: ClassURI, Required: true},
			Field{Term: sbol2.HasRole, Class: ClassURI, Multi: true},
			Field{Term: sbol2.HasRoleIntegration, Class: ClassURI},
			Field{Term: sbol2.HasMapsTo, Class: ClassChild, Multi: true, Targets: []Kind{KindMapsTo}, Aliases: []sbol2.Term{sbol2.HasMapping}},
		),
	},
	KindFunctionalComponent: {
		Name: "FunctionalComponent", Type: sbol2.FunctionalComponentType,
		Fields: child(
			Field{Term: sbol2.HasDefinition, Class: ClassReference, Required: true, Targets: []Kind{KindComponentDefinition}},
			Field{Term: sbol2.HasAccess, Class: ClassURI, Required: true},
			Field{Term: sbol2.HasDirection, Class: ClassURI, Required: true},
			Field{Term: sbol2.HasMapsTo, Class: ClassChild, Multi: true, Targets: []Kind{KindMapsTo}, Aliases: []sbol2.Term{sbol2.HasMapping}},
		),
	},
	KindSequenceAnnotation: {
		Name: "SequenceAnnotation", Type: sbol2.SequenceAnnotationType,
		Fields: child(
			Field{Term: sbol2.HasLocation, Class: ClassChild, Required: true, Multi: true, Targets: locationKinds},
			Field{Term: sbol2.HasComponent, Class: ClassReference, Targets: []Kind{KindComponent}},
			Field{Term: sbol2.HasRole, Class: ClassURI, Multi: true},
		),
	},
	KindSequenceConstraint: {
		Name: "SequenceConstraint", Type: sbol2.SequenceConstraintType,
		Fields: child(
			Field{Term: sbol2.HasRestriction, Class: ClassURI, Required: true},
			Field{Term: sbol2.HasSubject, Class: ClassReference, Required: true, Targets: []Kind{KindComponent}},
			Field{Term: sbol2.HasObject, Class: ClassReference, Required: true, Targets: []Kind{KindComponent}},
		),
	},
	KindInteraction: {
		Name: "Interaction", Type: sbol2.InteractionType,
		Fields: child(
			Field{Term: sbol2.HasType, Class: ClassURI, Required: true, Multi: true},
			Field{Term: sbol2.HasParticipation, Class: ClassChild, Multi: true, Targets: []Kind{KindParticipation}},
		),
	},
	KindParticipation: {
		Name: "Participation", Type: sbol2.ParticipationType,
		Fields: child(
			Field{Term: sbol2.HasRole, Class: ClassURI, Multi: true},
			Field{Term: sbol2.HasParticipant, Class: ClassReference, Required: true, Targets: []Kind{KindFunctionalComponent}},
		),
	},
	KindRange: {
		Name: "Range", Type: sbol2.RangeType,
		Fields: child(
			Field{Term: sbol2.HasStart, Class: ClassLiteral, Required: true},
			Field{Term: sbol2.HasEnd, Class: ClassLiteral, Required: true},
			Field{Term: sbol2.HasOrientation, Class: ClassURI},
		),
	},
	KindCut: {
		Name: "Cut", Type: sbol2.CutType,
		Fields: child(
			Field{Term: sbol2.HasAt, Class: ClassLiteral, Required: true},
			Field{Term: sbol2.HasOrientation, Class: ClassURI},
		),
	},
	KindGenericLocation: {
		Name: "GenericLocation", Type: sbol2.GenericLocationType,
		Fields: child(
			Field{Term: sbol2.HasOrientation, Class: ClassURI},
		),
	},
}

var kindsByType = func() map[sbol2.Term]Kind {
	m := make(map[sbol2.Term]Kind, len(schemas))
	for k, s := range schemas {
		s.Kind = k
		m[s.Type] = k
	}
	return m
}()

// SchemaOf returns the schema for k, or nil for KindUnknown.
func SchemaOf(k Kind) *Schema {
	return schemas[k]
}

// KindOf maps an rdf:type term to its kind.
func KindOf(typ sbol2.Term) (Kind, bool) {
	k, ok := kindsByType[typ]
	return k, ok
}

// ParseKind maps a class name such as "ModuleDefinition" to its kind.
func ParseKind(name string) (Kind, bool) {
	for k, s := range schemas {
		if s.Name == name {
			return k, true
		}
	}
	return KindUnknown, false
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(schemas))
	for k := KindModuleDefinition; k <= KindGenericLocation; k++ {
		out = append(out, k)
	}
	return out
}

// String returns the SBOL class name.
func (k Kind) String() string {
	if s := schemas[k]; s != nil {
		return s.Name
	}
	return "Unknown"
}

// Type returns the rdf:type term of k.
func (k Kind) Type() sbol2.Term {
	if s := schemas[k]; s != nil {
		return s.Type
	}
	return sbol2.Term{}
}

// IsTopLevel reports whether k is independently identifiable.
func (k Kind) IsTopLevel() bool {
	s := schemas[k]
	return s != nil && s.TopLevel
}
