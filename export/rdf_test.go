package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/sbolgraph/codec"
	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/document/doctest"
	"github.com/c360studio/sbolgraph/export"
	"github.com/c360studio/sbolgraph/rdf"
)

func TestNewRDFExporter(t *testing.T) {
	profiles := []export.Profile{
		export.ProfileSBOL,
		export.ProfileMinimal,
		export.ProfileBFO,
		export.ProfileCCO,
	}

	for _, profile := range profiles {
		t.Run(string(profile), func(t *testing.T) {
			exporter := export.NewRDFExporter(profile)
			if exporter == nil {
				t.Fatal("NewRDFExporter returned nil")
			}
		})
	}
}

func TestExportTurtle(t *testing.T) {
	exporter := export.NewRDFExporter(export.ProfileSBOL)

	output, err := exporter.ExportString(doctest.ToggleSwitch(), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.Contains(output, "@prefix sbol: <http://sbols.org/v2#> .") {
		t.Error("Turtle output should contain prefix declarations")
	}
	if !strings.Contains(output, "<"+doctest.ID("toggle").String()+">\n    a sbol:ModuleDefinition ;") {
		t.Error("Turtle output should open the toggle block with its type")
	}
	if !strings.Contains(output, `dcterms:title "Genetic toggle switch"`) {
		t.Error("Turtle output should contain the title")
	}
	if !strings.Contains(output, "sbol:refinement sbol:useRemote") {
		t.Error("Turtle output should compact enumerated IRIs")
	}
}

func TestTurtleLiterals(t *testing.T) {
	w := export.NewTurtleWriter()
	w.WriteTriples([]rdf.Triple{
		{Subject: "http://ex.org/a", Predicate: "http://ex.org/p", Object: rdf.Literal("say \"hi\"\n")},
		{Subject: "http://ex.org/a", Predicate: "http://ex.org/p", Object: rdf.Integer(5)},
		{Subject: "http://ex.org/a", Predicate: "http://ex.org/p", Object: rdf.Object{Value: "chat", Lang: "fr"}},
		{Subject: "http://ex.org/a", Predicate: "http://ex.org/p", Object: rdf.IRI("_:b")},
	})
	output := w.String()

	for _, want := range []string{
		`<http://ex.org/p> "say \"hi\"\n" ;`,
		`<http://ex.org/p> "5"^^xsd:integer ;`,
		`<http://ex.org/p> "chat"@fr ;`,
		`<http://ex.org/p> _:b .`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Turtle output missing %q:\n%s", want, output)
		}
	}
}

func TestExportNTriples(t *testing.T) {
	exporter := export.NewRDFExporter(export.ProfileSBOL)

	output, err := exporter.ExportString(doctest.ToggleSwitch(), export.FormatNTriples)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != len(codec.Triples(doctest.ToggleSwitch())) {
		t.Errorf("got %d lines, want one per triple", len(lines))
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, " .") {
			t.Errorf("N-Triple line should end with ' .': %s", line)
		}
	}
}

func TestExportJSONLD(t *testing.T) {
	exporter := export.NewRDFExporter(export.ProfileSBOL)

	output, err := exporter.ExportString(doctest.ToggleSwitch(), export.FormatJSONLD)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	for _, want := range []string{`"@context"`, `"@graph"`, `"@id"`, `"@type"`, `"sbol:ModuleDefinition"`, `"sbol:definition"`} {
		if !strings.Contains(output, want) {
			t.Errorf("JSON-LD output should contain %s", want)
		}
	}
}

func TestRoundTripReadableFormats(t *testing.T) {
	doc := doctest.ToggleSwitch()
	exporter := export.NewRDFExporter(export.ProfileSBOL)

	for _, format := range []export.Format{export.FormatRDFXML, export.FormatNTriples, export.FormatJSONLD} {
		t.Run(string(format), func(t *testing.T) {
			info, ok := export.GetFormatInfo(format)
			if !ok || !info.Readable {
				t.Fatalf("%s should be readable", format)
			}

			var buf bytes.Buffer
			if err := exporter.Export(&buf, doc, format); err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			src, err := export.NewSource(&buf, format)
			if err != nil {
				t.Fatalf("NewSource failed: %v", err)
			}
			got, warnings, err := codec.Deserialize(src, codec.Options{})
			if err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("unexpected warnings: %v", warnings)
			}
			if !doc.Equal(got) {
				t.Error("document changed through the round trip")
			}
		})
	}
}

func TestTurtleIsNotReadable(t *testing.T) {
	if _, err := export.NewSource(strings.NewReader(""), export.FormatTurtle); err == nil {
		t.Error("Expected error reading Turtle")
	}
}

func TestExportProfileMinimal(t *testing.T) {
	exporter := export.NewRDFExporter(export.ProfileMinimal)

	output, err := exporter.ExportString(doctest.ToggleSwitch(), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.Contains(output, "a prov:Entity") {
		t.Error("Minimal profile should include prov:Entity type")
	}
	if strings.Contains(output, "BFO_0000031") {
		t.Error("Minimal profile should not include BFO types")
	}
}

func TestExportProfileBFO(t *testing.T) {
	exporter := export.NewRDFExporter(export.ProfileBFO)

	output, err := exporter.ExportString(doctest.ToggleSwitch(), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.Contains(output, "BFO_0000031") {
		t.Error("BFO profile should include BFO:GenericallyDependentContinuant")
	}
}

func TestExportProfileCCO(t *testing.T) {
	exporter := export.NewRDFExporter(export.ProfileCCO)

	output, err := exporter.ExportString(doctest.ToggleSwitch(), export.FormatNTriples)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.Contains(output, "InformationContentEntity") {
		t.Error("CCO profile should include CCO:InformationContentEntity")
	}
	if !strings.Contains(output, "BFO_0000031") {
		t.Error("CCO profile should also include BFO types")
	}
}

func TestProfileTypesBecomeAnnotations(t *testing.T) {
	exporter := export.NewRDFExporter(export.ProfileMinimal)
	var buf bytes.Buffer
	if err := exporter.Export(&buf, doctest.ToggleSwitch(), export.FormatNTriples); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	src, _ := export.NewSource(&buf, export.FormatNTriples)
	got, _, err := codec.Deserialize(src, codec.Options{})
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	e, ok := got.Get(doctest.ID("toggle"))
	if !ok {
		t.Fatal("toggle missing")
	}
	if e.Kind() != document.KindModuleDefinition {
		t.Errorf("kind = %s, want ModuleDefinition", e.Kind())
	}
	if len(e.Annotations()) != 1 {
		t.Errorf("expected the PROV type kept as one annotation, got %d", len(e.Annotations()))
	}
}

func TestUnsupportedFormat(t *testing.T) {
	exporter := export.NewRDFExporter(export.ProfileSBOL)

	_, err := exporter.ExportString(doctest.ToggleSwitch(), "unknown")
	if err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want export.Format
	}{
		{"rdfxml", export.FormatRDFXML},
		{"XML", export.FormatRDFXML},
		{"ttl", export.FormatTurtle},
		{"n-triples", export.FormatNTriples},
		{"json-ld", export.FormatJSONLD},
	}
	for _, tc := range tests {
		got, err := export.ParseFormat(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseFormat(%q) = %s, %v; want %s", tc.in, got, err, tc.want)
		}
	}
	if _, err := export.ParseFormat("yaml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]export.Format{
		"design.xml":     export.FormatRDFXML,
		"design.SBOL":    export.FormatRDFXML,
		"out/design.ttl": export.FormatTurtle,
		"design.nt":      export.FormatNTriples,
		"design.jsonld":  export.FormatJSONLD,
	}
	for path, want := range tests {
		got, ok := export.FormatForPath(path)
		if !ok || got != want {
			t.Errorf("FormatForPath(%q) = %s, %v; want %s", path, got, ok, want)
		}
	}
	if _, ok := export.FormatForPath("design.gb"); ok {
		t.Error("GenBank should not map to an RDF format")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	doc := doctest.ToggleSwitch()
	exporter := export.NewRDFExporter(export.ProfileSBOL)

	path := filepath.Join(dir, "toggle.xml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := exporter.Export(f, doc, export.FormatRDFXML); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, warnings, err := export.ReadFile(path, codec.Options{})
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if !doc.Equal(got) {
		t.Error("document changed through the file round trip")
	}

	if _, _, err := export.ReadFile(filepath.Join(dir, "toggle.gb"), codec.Options{}); err == nil {
		t.Error("Expected error for unknown extension")
	}
	if _, _, err := export.ReadFile(filepath.Join(dir, "missing.nt"), codec.Options{}); err == nil {
		t.Error("Expected error for missing file")
	}
}
