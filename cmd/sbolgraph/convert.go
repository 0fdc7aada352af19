package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/c360studio/sbolgraph/validation"
)

func convertCmd(a *app) *cobra.Command {
	var (
		output     string
		format     string
		profile    string
		incomplete bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a document to another RDF format",
		Long: `Convert reads a document in any readable format and writes it in
--format. The document must pass the pre-serialize gate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(format)
			if err != nil {
				return err
			}
			e, err := a.exporter(profile)
			if err != nil {
				return err
			}

			doc, _, err := a.readFile(args[0], incomplete)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			v := validation.NewValidator(a.cfg.ValidationOptions(), validation.WithLogger(a.logger))
			if report, err := v.Check(doc, validation.GatePreSerialize); err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), report.Format())
				return err
			}

			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
				return e.Export(w, doc, f)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (rdfxml, turtle, ntriples, jsonld)")
	cmd.Flags().StringVar(&profile, "profile", "", "Ontology profile (sbol, minimal, bfo, cco)")
	cmd.Flags().BoolVar(&incomplete, "incomplete", false, "Allow references to entities outside the document")

	return cmd
}
