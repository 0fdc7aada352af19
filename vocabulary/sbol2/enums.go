package sbol2

// Access values for Component and FunctionalComponent.
const (
	AccessPublic  = SBOL2 + "public"
	AccessPrivate = SBOL2 + "private"
)

// Direction values for FunctionalComponent.
const (
	DirectionIn    = SBOL2 + "in"
	DirectionOut   = SBOL2 + "out"
	DirectionInOut = SBOL2 + "inout"
	DirectionNone  = SBOL2 + "none"
)

// Refinement values for MapsTo.
const (
	RefinementUseRemote       = SBOL2 + "useRemote"
	RefinementUseLocal        = SBOL2 + "useLocal"
	RefinementVerifyIdentical = SBOL2 + "verifyIdentical"
	RefinementMerge           = SBOL2 + "merge"
)

// Orientation values for locations.
const (
	OrientationInline            = SBOL2 + "inline"
	OrientationReverseComplement = SBOL2 + "reverseComplement"
)

// Restriction values for SequenceConstraint.
const (
	RestrictionPrecedes              = SBOL2 + "precedes"
	RestrictionSameOrientationAs     = SBOL2 + "sameOrientationAs"
	RestrictionOppositeOrientationAs = SBOL2 + "oppositeOrientationAs"
	RestrictionDifferentFrom         = SBOL2 + "differentFrom"
)

// Sequence encodings.
const (
	EncodingIUPACDNA     = "http://www.chem.qmul.ac.uk/iubmb/misc/naseq.html"
	EncodingIUPACProtein = "http://www.chem.qmul.ac.uk/iupac/AminoAcid/"
	EncodingSMILES       = "http://www.opensmiles.org/opensmiles.html"
)

// ComponentDefinition types from BioPAX.
const (
	TypeDNARegion = "http://www.biopax.org/release/biopax-level3.owl#DnaRegion"
	TypeRNARegion = "http://www.biopax.org/release/biopax-level3.owl#RnaRegion"
	TypeProtein   = "http://www.biopax.org/release/biopax-level3.owl#Protein"
	TypeSmallMol  = "http://www.biopax.org/release/biopax-level3.owl#SmallMolecule"
	TypeComplex   = "http://www.biopax.org/release/biopax-level3.owl#Complex"
)

// Model languages and frameworks referenced by Model entities.
const (
	LanguageSBML        = "http://identifiers.org/edam/format_2585"
	LanguageCellML      = "http://identifiers.org/edam/format_3240"
	LanguageBioPAX      = "http://identifiers.org/edam/format_3156"
	FrameworkContinuous = "http://identifiers.org/biomodels.sbo/SBO:0000062"
	FrameworkDiscrete   = "http://identifiers.org/biomodels.sbo/SBO:0000063"
)
