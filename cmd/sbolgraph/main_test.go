package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/sbolgraph/codec"
	"github.com/c360studio/sbolgraph/config"
	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/document/doctest"
	"github.com/c360studio/sbolgraph/export"
	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/validation"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
	"github.com/c360studio/sbolgraph/watch"
)

// execute runs the CLI in an isolated home and working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvNATSURL, "")
	t.Chdir(t.TempDir())

	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T, path string, doc *document.Document, format export.Format) string {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, export.NewRDFExporter(export.ProfileSBOL).Export(f, doc, format))
	return path
}

func untypedDefinition(t *testing.T) *document.Document {
	t.Helper()
	doc := document.New()
	_, err := doc.CreateEntity(document.KindComponentDefinition, doctest.ID("bare"))
	require.NoError(t, err)
	return doc
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sbolgraph version "+Version)
}

func TestValidateValid(t *testing.T) {
	path := writeDoc(t, filepath.Join(t.TempDir(), "toggle.xml"), doctest.ToggleSwitch(), export.FormatRDFXML)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "Validation passed")
}

func TestValidateGlob(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, filepath.Join(dir, "a.xml"), doctest.ToggleSwitch(), export.FormatRDFXML)
	writeDoc(t, filepath.Join(dir, "b.nt"), doctest.ToggleSwitch(), export.FormatNTriples)

	out, err := execute(t, "validate", filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Contains(t, out, "a.xml:")
	assert.Contains(t, out, "b.nt:")
}

func TestValidateInvalid(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, filepath.Join(dir, "good.xml"), doctest.ToggleSwitch(), export.FormatRDFXML)
	bad := writeDoc(t, filepath.Join(dir, "bad.xml"), untypedDefinition(t), export.FormatRDFXML)

	out, err := execute(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed validation")
	assert.Contains(t, out, validation.RuleRequiredField)
}

func TestValidateNoMatches(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "*.xml"))
	assert.Error(t, err)
}

func TestValidateCompare(t *testing.T) {
	dir := t.TempDir()
	left := writeDoc(t, filepath.Join(dir, "left.xml"), doctest.ToggleSwitch(), export.FormatRDFXML)
	changed := doctest.ToggleSwitch()
	require.NoError(t, changed.SetProperty(doctest.ID("TetR"), sbol2.Title, document.Literal("TetR variant")))
	right := writeDoc(t, filepath.Join(dir, "right.xml"), changed, export.FormatRDFXML)

	out, err := execute(t, "validate", left, "--compare", right)
	require.NoError(t, err)
	assert.Contains(t, out, "differ")
	assert.Contains(t, out, `+ `)
}

func TestValidateOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeDoc(t, filepath.Join(dir, "toggle.xml"), doctest.ToggleSwitch(), export.FormatRDFXML)
	outPath := filepath.Join(dir, "toggle.nt")

	_, err := execute(t, "validate", in, "-o", outPath, "-f", "nt")
	require.NoError(t, err)

	doc, _, err := export.ReadFile(outPath, codec.Options{})
	require.NoError(t, err)
	assert.True(t, doctest.ToggleSwitch().Equal(doc))

	_, err = execute(t, "validate", in, in, "-o", outPath)
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	in := writeDoc(t, filepath.Join(t.TempDir(), "toggle.xml"), doctest.ToggleSwitch(), export.FormatRDFXML)

	out, err := execute(t, "convert", in, "--format", "turtle")
	require.NoError(t, err)
	assert.Contains(t, out, "@prefix sbol: <http://sbols.org/v2#> .")

	out, err = execute(t, "convert", in, "--format", "ntriples", "--profile", "bfo")
	require.NoError(t, err)
	assert.Contains(t, out, "BFO_0000031")

	_, err = execute(t, "convert", in, "--profile", "owl")
	assert.Error(t, err)
	_, err = execute(t, "convert", in, "--format", "genbank")
	assert.Error(t, err)
}

func TestConvertRejectsInvalid(t *testing.T) {
	in := writeDoc(t, filepath.Join(t.TempDir(), "bad.nt"), untypedDefinition(t), export.FormatNTriples)
	_, err := execute(t, "convert", in, "--format", "turtle")
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	left := writeDoc(t, filepath.Join(dir, "left.xml"), doctest.ToggleSwitch(), export.FormatRDFXML)
	same := writeDoc(t, filepath.Join(dir, "same.nt"), doctest.ToggleSwitch(), export.FormatNTriples)

	out, err := execute(t, "diff", left, same)
	require.NoError(t, err)
	assert.Contains(t, out, "are equal")

	changed := doctest.ToggleSwitch()
	require.NoError(t, changed.RemoveEntity(doctest.ID("TetR_protein")))
	right := writeDoc(t, filepath.Join(dir, "right.xml"), changed, export.FormatRDFXML)

	out, err = execute(t, "diff", left, right)
	assert.ErrorIs(t, err, errDocumentsDiffer)
	assert.Contains(t, out, "not found in "+right)

	out, err = execute(t, "diff", "--text", left, right)
	assert.ErrorIs(t, err, errDocumentsDiffer)
	assert.Contains(t, out, "- <"+doctest.ID("TetR_protein").String()+">")
}

func TestNew(t *testing.T) {
	out, err := execute(t, "new", "my_part", "--title", "My part", "-f", "ntriples")
	require.NoError(t, err)
	assert.Contains(t, out, "<http://example.org/my_part/1.0.0>")
	assert.Contains(t, out, `"My part"`)
	assert.Contains(t, out, sbol2.TypeDNARegion)

	out, err = execute(t, "new", "seq1", "--kind", "Sequence", "--elements", "atgc",
		"--namespace", "https://lab.example.com/", "--version", "2.0.0", "-f", "ntriples")
	require.NoError(t, err)
	assert.Contains(t, out, "<https://lab.example.com/seq1/2.0.0>")
	assert.Contains(t, out, `"atgc"`)
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"child kind", []string{"new", "fc", "--kind", "FunctionalComponent"}},
		{"unknown kind", []string{"new", "x", "--kind", "Plasmid"}},
		{"bad display id", []string{"new", "1bad"}},
		{"bad version", []string{"new", "part", "--version", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestStoreRequiresNATS(t *testing.T) {
	_, err := execute(t, "store", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats.url")

	_, err = execute(t, "store", "get", "not-a-key")
	assert.Error(t, err)
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "bucket: SBOL_DOCUMENTS")
	assert.Contains(t, out, "format: rdfxml")
}

func TestExplicitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serialization:\n  format: jsonld\n"), 0644))
	in := writeDoc(t, filepath.Join(t.TempDir(), "toggle.xml"), doctest.ToggleSwitch(), export.FormatRDFXML)

	out, err := execute(t, "--config", path, "convert", in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "expected JSON-LD output")
}

func TestValidateExternalNamespace(t *testing.T) {
	doc := document.New()
	md := doctest.ID("host")
	_, err := doc.CreateEntity(document.KindModuleDefinition, md)
	require.NoError(t, err)
	m, _ := md.Child("remote_module")
	_, err = doc.CreateEntity(document.KindModule, m, document.WithParent(md))
	require.NoError(t, err)
	require.NoError(t, doc.AddReference(m, sbol2.HasDefinition, identity.Parse("http://parts.igem.org/md1")))
	in := writeDoc(t, filepath.Join(t.TempDir(), "host.nt"), doc, export.FormatNTriples)

	out, err := execute(t, "validate", in)
	require.Error(t, err)
	assert.Contains(t, out, "http://parts.igem.org/md1")

	cfg := filepath.Join(t.TempDir(), "external.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("namespace:\n  external:\n    - http://parts.igem.org/\n"), 0o644))
	out, err = execute(t, "--config", cfg, "validate", in)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, watch.Event{Path: "a.xml", Operation: watch.OpDelete})
	printEvent(&buf, watch.Event{Path: "b.xml", Operation: watch.OpModify, Document: doctest.ToggleSwitch(), CID: "bafk"})
	out := buf.String()
	assert.Contains(t, out, "delete a.xml\n")
	assert.Contains(t, out, "modify b.xml: valid")
	assert.Contains(t, out, "(bafk)")
}
