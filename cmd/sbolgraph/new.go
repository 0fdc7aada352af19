package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/identity"
	"github.com/c360studio/sbolgraph/validation"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

func newCmd(a *app) *cobra.Command {
	var (
		kindName    string
		types       []string
		elements    string
		encoding    string
		title       string
		description string
		namespace   string
		version     string
		output      string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "new <displayId>",
		Short: "Create a document holding one new top-level entity",
		Long: `New builds a compliant identifier from the configured namespace and
version, creates one top-level entity, checks it at the pre-serialize gate
and writes the document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := document.ParseKind(kindName)
			if !ok || !kind.IsTopLevel() {
				return fmt.Errorf("%q is not a top-level kind", kindName)
			}
			if namespace == "" {
				namespace = a.cfg.Namespace.Default
			}
			if !cmd.Flags().Changed("version") {
				version = a.cfg.Namespace.Version
			}
			id, err := identity.New(namespace, version, args[0])
			if err != nil {
				return err
			}

			doc := document.New()
			if _, err := doc.CreateEntity(kind, id); err != nil {
				return err
			}
			set := func(term sbol2.Term, v document.Value) {
				if err == nil {
					err = doc.AddProperty(id, term, v)
				}
			}
			if title != "" {
				set(sbol2.Title, document.Literal(title))
			}
			if description != "" {
				set(sbol2.Description, document.Literal(description))
			}
			switch kind {
			case document.KindComponentDefinition:
				if len(types) == 0 {
					types = []string{sbol2.TypeDNARegion}
				}
				for _, t := range types {
					set(sbol2.HasType, document.IRIValue(t))
				}
			case document.KindSequence:
				set(sbol2.HasElements, document.Literal(elements))
				set(sbol2.HasEncoding, document.IRIValue(encoding))
			}
			if err != nil {
				return err
			}

			v := validation.NewValidator(a.cfg.ValidationOptions(), validation.WithLogger(a.logger))
			if report, err := v.Check(doc, validation.GatePreSerialize); err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), report.Format())
				return err
			}

			f, err := a.outputFormat(format)
			if err != nil {
				return err
			}
			e, err := a.exporter("")
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return e.Export(w, doc, f)
			})
		},
	}

	cmd.Flags().StringVarP(&kindName, "kind", "k", "ComponentDefinition", "Top-level class name")
	cmd.Flags().StringSliceVar(&types, "type", nil, "ComponentDefinition type IRIs (default DnaRegion)")
	cmd.Flags().StringVar(&elements, "elements", "", "Sequence elements")
	cmd.Flags().StringVar(&encoding, "encoding", sbol2.EncodingIUPACDNA, "Sequence encoding IRI")
	cmd.Flags().StringVar(&title, "title", "", "dcterms:title")
	cmd.Flags().StringVar(&description, "description", "", "dcterms:description")
	cmd.Flags().StringVar(&namespace, "namespace", "", "URI prefix (default namespace.default)")
	cmd.Flags().StringVar(&version, "version", "", "Version (default namespace.version)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (rdfxml, turtle, ntriples, jsonld)")

	return cmd
}
