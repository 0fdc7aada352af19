package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/sbolgraph/compare"
	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/validation"
	"github.com/c360studio/sbolgraph/watch"
)

func validateCmd(a *app) *cobra.Command {
	var (
		incomplete   bool
		nonCompliant bool
		bestPractice bool
		failFast     bool
		compareWith  string
		output       string
		format       string
		profile      string
	)

	cmd := &cobra.Command{
		Use:   "validate <file|glob>...",
		Short: "Validate SBOL documents",
		Long: `Validate reads each document and runs both validation gates.

Arguments may be files or doublestar globs such as designs/**/*.xml.
With --output the single input is rewritten in --format once it passes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.ValidationOptions()
			if cmd.Flags().Changed("incomplete") {
				opts.Complete = !incomplete
			}
			if cmd.Flags().Changed("non-compliant") {
				opts.Compliant = !nonCompliant
			}
			if cmd.Flags().Changed("best-practice") {
				opts.BestPractice = bestPractice
			}
			if cmd.Flags().Changed("fail-fast") {
				opts.FailFast = failFast
			}

			files, err := watch.ResolveFiles(args)
			if err != nil {
				return err
			}
			if output != "" && len(files) != 1 {
				return fmt.Errorf("--output needs exactly one input, got %d", len(files))
			}

			var other *document.Document
			if compareWith != "" {
				other, _, err = a.readFile(compareWith, true)
				if err != nil {
					return fmt.Errorf("read %s: %w", compareWith, err)
				}
			}

			v := validation.NewValidator(opts, validation.WithLogger(a.logger))
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range files {
				doc, ok := a.validateFile(out, v, path, !opts.Complete)
				if !ok {
					failed++
					continue
				}
				if other != nil {
					fmt.Fprint(out, compare.Documents(path, doc, compareWith, other).Format())
				}
				if output != "" {
					f, err := a.outputFormat(format)
					if err != nil {
						return err
					}
					e, err := a.exporter(profile)
					if err != nil {
						return err
					}
					err = writeOutput(out, output, func(w io.Writer) error {
						return e.Export(w, doc, f)
					})
					if err != nil {
						return err
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed validation", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&incomplete, "incomplete", false, "Allow references to entities outside the document")
	cmd.Flags().BoolVar(&nonCompliant, "non-compliant", false, "Skip URI compliance checks")
	cmd.Flags().BoolVar(&bestPractice, "best-practice", false, "Run best-practice checks")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failing rule")
	cmd.Flags().StringVar(&compareWith, "compare", "", "Compare each document against this file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the validated document here (- for stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (rdfxml, turtle, ntriples, jsonld)")
	cmd.Flags().StringVar(&profile, "profile", "", "Ontology profile for output (sbol, minimal, bfo, cco)")

	return cmd
}

// validateFile reads path and drives it through both gates, printing the
// outcome. The document is returned only when every gate passed.
func (a *app) validateFile(out io.Writer, v *validation.Validator, path string, allowIncomplete bool) (*document.Document, bool) {
	doc, warnings, err := a.readFile(path, allowIncomplete)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", path, err)
		return nil, false
	}

	m := validation.NewMachine(v)
	report, err := m.CheckLoaded(doc)
	if err == nil {
		var ready *validation.Report
		ready, err = m.CheckReady(doc)
		report.Merge(ready)
	}

	fmt.Fprintf(out, "%s: %d entities, %d reader warnings\n", path, doc.Len(), len(warnings))
	fmt.Fprint(out, report.Format())
	a.logger.Info("Validated file",
		slog.String("path", path),
		slog.String("state", m.State().String()))

	return doc, err == nil
}
