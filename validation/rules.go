package validation

import (
	"fmt"
	"regexp"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Rule IDs. SBOL-numbered rules use the code from the SBOL2 validation
// rule list.
const (
	RuleRequiredField      = "required-field"
	RuleOrphanChild        = "orphan-child"
	RuleVersion            = "sbol-10206"
	RuleDisplayID          = "sbol-10204"
	RuleCompliantURI       = "sbol-10201"
	RuleCompliantChild     = "sbol-10202"
	RuleUnresolved         = "unresolved-reference"
	RuleTargetType         = "target-type"
	RulePersistentIdentity = "sbol-10220"
	RuleDerivedVersion     = "sbol-10302"
	RuleCDSelfReference    = "sbol-10604"
	RuleCDCycle            = "sbol-10603"
	RuleMDSelfReference    = "sbol-11703"
	RuleMDCycle            = "sbol-11704"
	RuleRemotePrivate      = "sbol-10807"
	RuleRemoteOwner        = "sbol-10808"
	RuleVerifyIdentical    = "sbol-10811"
	RuleCDUseRemote        = "sbol-10526"
	RuleMDUseRemote        = "sbol-11609"
	RuleSequenceEncoding   = "sbol-10405"
)

func compliant(o Options) bool    { return o.Compliant }
func bestPractice(o Options) bool { return o.BestPractice }

// DefaultRules returns the built-in rule table.
func DefaultRules() []Rule {
	return []Rule{
		// Pre-serialize gate.
		{ID: RuleRequiredField, Gate: GatePreSerialize, Description: "Every required field is set", Check: checkRequired},
		{ID: RuleVersion, Gate: GatePreSerialize, Description: "Versions follow major.minor.patch", Check: checkVersions},
		{ID: RuleDisplayID, Gate: GatePreSerialize, Description: "Display IDs are alphanumeric or underscore and do not start with a digit", Check: checkDisplayIDs},
		{ID: RuleOrphanChild, Gate: GatePreSerialize, Description: "Child entities have an owner in the document", Check: checkOrphans},
		{ID: RuleCompliantURI, Gate: GatePreSerialize, Description: "URIs are compliant", Enabled: compliant, Check: checkCompliance},

		// Post-deserialize gate.
		{ID: RuleUnresolved, Gate: GatePostDeserialize, Description: "References resolve within the document", Check: checkResolution},
		{ID: RuleTargetType, Gate: GatePostDeserialize, Description: "Resolved references point at an allowed kind", Check: checkTargetTypes},
		{ID: RulePersistentIdentity, Gate: GatePostDeserialize, Description: "A persistent identity names entities of one kind", Check: checkPersistentIdentity},
		{ID: RuleDerivedVersion, Gate: GatePostDeserialize, Description: "wasDerivedFrom within one persistent identity points at an older version", Check: checkDerivedVersions},
		{ID: RuleCDCycle, Gate: GatePostDeserialize, Description: "Component definitions do not contain themselves", Check: checkComponentCycles},
		{ID: RuleMDCycle, Gate: GatePostDeserialize, Description: "Module definitions do not instantiate themselves", Check: checkModuleCycles},
		{ID: RuleRemotePrivate, Gate: GatePostDeserialize, Description: "MapsTo remotes are public and owned by the instantiated definition", Check: checkMapsToRemote},
		{ID: RuleVerifyIdentical, Gate: GatePostDeserialize, Description: "verifyIdentical MapsTo links share a definition", Check: checkVerifyIdentical},
		{ID: RuleCDUseRemote, Gate: GatePostDeserialize, Description: "A local is overridden by at most one useRemote MapsTo", Check: checkUseRemote},
		{ID: RuleSequenceEncoding, Gate: GatePostDeserialize, Description: "Sequence elements match their encoding", Enabled: bestPractice, Check: checkSequenceEncoding},
	}
}

func checkRequired(c *Checker) {
	doc := c.Doc()
	for _, e := range doc.Entities() {
		for _, f := range e.Schema().Required() {
			if f.Class == document.ClassChild {
				if !hasChildFor(doc, e, f) {
					c.Fail(e, fmt.Sprintf("%s %s requires at least one %s", e.Kind(), f.Term, targetNames(f)))
				}
				continue
			}
			if !e.Has(f.Term) {
				c.Fail(e, fmt.Sprintf("%s is missing required %s", e.Kind(), f.Term))
			}
		}
	}
}

func hasChildFor(doc *document.Document, e *document.Entity, f document.Field) bool {
	for _, ch := range doc.Children(e.ID()) {
		if f.Accepts(ch.Kind()) {
			return true
		}
	}
	return false
}

func targetNames(f document.Field) string {
	if len(f.Targets) == 0 {
		return "entity"
	}
	s := f.Targets[0].String()
	for _, k := range f.Targets[1:] {
		s += " or " + k.String()
	}
	return s
}

func checkVersions(c *Checker) {
	for _, e := range c.Doc().Entities() {
		if v := e.ID().Version(); v != "" && !identity.IsValidVersion(v) {
			c.Fail(e, fmt.Sprintf("identifier version %q is not major.minor.patch", v))
		}
		for _, v := range e.Values(sbol2.Version) {
			if !identity.IsValidVersion(v.Text) {
				c.Fail(e, fmt.Sprintf("version %q is not major.minor.patch", v.Text))
			}
		}
	}
}

func checkDisplayIDs(c *Checker) {
	for _, e := range c.Doc().Entities() {
		for _, v := range e.Values(sbol2.DisplayID) {
			if !identity.IsDisplayID(v.Text) {
				c.Fail(e, fmt.Sprintf("display ID %q is invalid", v.Text))
			}
		}
	}
}

func checkOrphans(c *Checker) {
	doc := c.Doc()
	for _, e := range doc.Entities() {
		if e.Kind().IsTopLevel() {
			continue
		}
		parent, ok := e.Parent()
		if !ok {
			c.Fail(e, fmt.Sprintf("%s has no owner", e.Kind()))
			continue
		}
		p, ok := doc.Get(parent)
		if !ok {
			c.Fail(e, fmt.Sprintf("owner %s is not in the document", parent))
			continue
		}
		if _, ok := p.Schema().ContainmentField(e.Kind()); !ok {
			c.Fail(e, fmt.Sprintf("%s cannot own a %s", p.Kind(), e.Kind()))
		}
	}
}

func checkCompliance(c *Checker) {
	doc := c.Doc()
	for _, e := range doc.Entities() {
		id := e.ID()
		if !id.IsCompliant() {
			c.Report(RuleCompliantURI, SeverityError, e, "URI is not built from a namespace, display IDs and version", nil)
			continue
		}
		parent, ok := e.Parent()
		if !ok {
			continue
		}
		if !id.IsChildOf(parent) {
			c.Report(RuleCompliantChild, SeverityError, e,
				fmt.Sprintf("child URI is not the parent persistent identity %s plus a display ID", parent), nil)
		}
	}
}

func checkResolution(c *Checker) {
	sev := SeverityWarning
	if c.Options().Complete {
		sev = SeverityError
	}
	for _, u := range c.Doc().ResolveAll() {
		e, _ := c.Doc().Get(u.Subject)
		s := sev
		if !u.Required {
			s = SeverityWarning
		}
		c.Report("", s, e, fmt.Sprintf("%s references missing %s", u.Predicate, u.Target), u)
	}
}

func checkTargetTypes(c *Checker) {
	doc := c.Doc()
	for _, e := range doc.Entities() {
		schema := e.Schema()
		for _, r := range e.References() {
			target, ok := doc.Get(r.Target)
			if !ok {
				continue
			}
			f, ok := schema.Field(r.Term)
			if !ok {
				continue
			}
			if !f.Accepts(target.Kind()) {
				c.Fail(e, fmt.Sprintf("%s must reference a %s, not %s %s", r.Term, targetNames(f), target.Kind(), r.Target))
			}
		}
	}
}

// persistentIdentity returns the entity's persistent identity, preferring a
// stored value.
func persistentIdentity(e *document.Entity) string {
	if v, ok := e.Property(sbol2.PersistentIdentity); ok {
		return identity.Normalize(v.Text)
	}
	return e.ID().PersistentIdentity()
}

func version(e *document.Entity) string {
	if v, ok := e.Property(sbol2.Version); ok {
		return v.Text
	}
	return e.ID().Version()
}

func checkPersistentIdentity(c *Checker) {
	first := make(map[string]*document.Entity)
	for _, e := range c.Doc().Entities() {
		pid := persistentIdentity(e)
		if prev, ok := first[pid]; ok {
			if prev.Kind() != e.Kind() {
				c.Fail(e, fmt.Sprintf("persistent identity %s is already used by %s %s", pid, prev.Kind(), prev.ID()))
			}
			continue
		}
		first[pid] = e
	}
}

func checkDerivedVersions(c *Checker) {
	doc := c.Doc()
	for _, e := range doc.Entities() {
		for _, v := range e.Values(sbol2.WasDerivedFrom) {
			src, ok := doc.Get(identity.Parse(v.Text))
			if !ok {
				continue
			}
			if src.ID().Equal(e.ID()) {
				c.Fail(e, "entity is derived from itself")
				continue
			}
			if persistentIdentity(src) != persistentIdentity(e) {
				continue
			}
			if !identity.IsNewer(version(e), version(src)) {
				c.Fail(e, fmt.Sprintf("derived version %q is not newer than source version %q", version(e), version(src)))
			}
		}
	}
}

// definitionOf resolves the definition of a Module, Component or
// FunctionalComponent.
func definitionOf(doc *document.Document, e *document.Entity) (*document.Entity, bool) {
	target, ok := e.Reference(sbol2.HasDefinition)
	if !ok {
		return nil, false
	}
	return doc.Get(target)
}

// cycles walks the definition graph rooted at each entity of kind, where
// edges go through children of instanceKind to their definitions.
func cycles(c *Checker, kind, instanceKind document.Kind, selfRule, cycleRule string) {
	doc := c.Doc()
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int)

	var visit func(e *document.Entity, path []string)
	visit = func(e *document.Entity, path []string) {
		key := e.ID().Key()
		color[key] = grey
		path = append(path, e.ID().String())
		for _, ch := range doc.Children(e.ID()) {
			if ch.Kind() != instanceKind {
				continue
			}
			def, ok := definitionOf(doc, ch)
			if !ok || def.Kind() != kind {
				continue
			}
			switch color[def.ID().Key()] {
			case grey:
				if def.ID().Equal(e.ID()) {
					c.Report(selfRule, SeverityError, e, fmt.Sprintf("%s %s is defined by its own parent", instanceKind, ch.ID()), nil)
				} else {
					c.Report(cycleRule, SeverityError, e, fmt.Sprintf("definition cycle through %s", def.ID()), nil)
				}
			case white:
				visit(def, path)
			}
		}
		color[key] = black
	}

	for _, e := range doc.OfKind(kind) {
		if color[e.ID().Key()] == white {
			visit(e, nil)
		}
	}
}

func checkComponentCycles(c *Checker) {
	cycles(c, document.KindComponentDefinition, document.KindComponent, RuleCDSelfReference, RuleCDCycle)
}

func checkModuleCycles(c *Checker) {
	cycles(c, document.KindModuleDefinition, document.KindModule, RuleMDSelfReference, RuleMDCycle)
}

func checkMapsToRemote(c *Checker) {
	doc := c.Doc()
	for _, mt := range doc.OfKind(document.KindMapsTo) {
		remoteID, ok := mt.Reference(sbol2.HasRemote)
		if !ok {
			continue
		}
		remote, ok := doc.Get(remoteID)
		if !ok {
			continue
		}
		if access, ok := remote.Property(sbol2.HasAccess); ok && access.Text == sbol2.AccessPrivate {
			c.Report(RuleRemotePrivate, SeverityError, mt, fmt.Sprintf("remote %s has private access", remoteID), nil)
		}

		parentID, ok := mt.Parent()
		if !ok {
			continue
		}
		instance, ok := doc.Get(parentID)
		if !ok {
			continue
		}
		def, ok := definitionOf(doc, instance)
		if !ok {
			continue
		}
		owner, ok := remote.Parent()
		if !ok || !owner.Equal(def.ID()) {
			c.Report(RuleRemoteOwner, SeverityError, mt, fmt.Sprintf("remote %s is not owned by %s", remoteID, def.ID()), nil)
		}
	}
}

func checkVerifyIdentical(c *Checker) {
	doc := c.Doc()
	for _, mt := range doc.OfKind(document.KindMapsTo) {
		ref, ok := mt.Property(sbol2.HasRefinement)
		if !ok || ref.Text != sbol2.RefinementVerifyIdentical {
			continue
		}
		localID, lok := mt.Reference(sbol2.HasLocal)
		remoteID, rok := mt.Reference(sbol2.HasRemote)
		if !lok || !rok {
			continue
		}
		local, lok := doc.Get(localID)
		remote, rok := doc.Get(remoteID)
		if !lok || !rok {
			continue
		}
		ld, _ := local.Reference(sbol2.HasDefinition)
		rd, _ := remote.Reference(sbol2.HasDefinition)
		if !ld.Equal(rd) {
			c.Fail(mt, fmt.Sprintf("verifyIdentical local definition %s differs from remote definition %s", ld, rd))
		}
	}
}

// topOwner climbs the ownership chain to the top-level entity.
func topOwner(doc *document.Document, e *document.Entity) (*document.Entity, bool) {
	seen := make(map[string]bool)
	for !e.Kind().IsTopLevel() {
		if seen[e.ID().Key()] {
			return nil, false
		}
		seen[e.ID().Key()] = true
		p, ok := e.Parent()
		if !ok {
			return nil, false
		}
		if e, ok = doc.Get(p); !ok {
			return nil, false
		}
	}
	return e, true
}

func checkUseRemote(c *Checker) {
	doc := c.Doc()
	type key struct{ top, local string }
	seen := make(map[key]bool)
	for _, mt := range doc.OfKind(document.KindMapsTo) {
		ref, ok := mt.Property(sbol2.HasRefinement)
		if !ok || ref.Text != sbol2.RefinementUseRemote {
			continue
		}
		local, ok := mt.Reference(sbol2.HasLocal)
		if !ok {
			continue
		}
		top, ok := topOwner(doc, mt)
		if !ok {
			continue
		}
		k := key{top.ID().Key(), local.Key()}
		if seen[k] {
			rule := RuleMDUseRemote
			if top.Kind() == document.KindComponentDefinition {
				rule = RuleCDUseRemote
			}
			c.Report(rule, SeverityError, mt, fmt.Sprintf("local %s is already overridden by another useRemote MapsTo in %s", local, top.ID()), nil)
			continue
		}
		seen[k] = true
	}
}

var (
	iupacDNA     = regexp.MustCompile(`^[ACGTURYSWKMBDHVNacgturyswkmbdhvn.\-]*$`)
	iupacProtein = regexp.MustCompile(`^[ABCDEFGHIKLMNPQRSTVWXYZabcdefghiklmnpqrstvwxyz*\-]*$`)
)

func checkSequenceEncoding(c *Checker) {
	for _, e := range c.Doc().OfKind(document.KindSequence) {
		enc, ok := e.Property(sbol2.HasEncoding)
		if !ok {
			continue
		}
		elems, _ := e.Property(sbol2.HasElements)
		var re *regexp.Regexp
		switch enc.Text {
		case sbol2.EncodingIUPACDNA:
			re = iupacDNA
		case sbol2.EncodingIUPACProtein:
			re = iupacProtein
		default:
			continue
		}
		if !re.MatchString(elems.Text) {
			c.Warn(e, fmt.Sprintf("elements do not match encoding %s", enc.Text))
		}
	}
}
