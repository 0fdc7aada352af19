package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/sbolgraph/export"
	"github.com/c360studio/sbolgraph/graph"
	"github.com/c360studio/sbolgraph/validation"
)

func publishCmd(a *app) *cobra.Command {
	var (
		source  string
		profile string
	)

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Publish a document's entities to the knowledge graph",
		Long: `Publish validates a document and sends one entity message per SBOL
entity to nats.subject, creating a stream for the subject if none exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile == "" {
				profile = a.cfg.Serialization.Profile
			}
			if _, ok := export.Profiles[export.Profile(profile)]; !ok {
				return fmt.Errorf("unknown profile %q", profile)
			}

			opts := a.cfg.ValidationOptions()
			doc, _, err := a.readFile(args[0], !opts.Complete)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			v := validation.NewValidator(opts, validation.WithLogger(a.logger))
			if report, err := v.CheckAll(doc); err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), report.Format())
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.NATS.Timeout)
			defer cancel()

			client, err := a.connectToNATS(ctx)
			if err != nil {
				return err
			}
			defer client.Close(context.Background())

			js, err := client.JetStream()
			if err != nil {
				return fmt.Errorf("get jetstream: %w", err)
			}
			if _, err := graph.EnsureStream(ctx, js, a.cfg.NATS.Subject); err != nil {
				return err
			}

			n, err := graph.PublishDocument(ctx, client, doc, graph.Options{
				Subject: a.cfg.NATS.Subject,
				Source:  source,
				Profile: export.Profile(profile),
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %d entities to %s\n", n, a.cfg.NATS.Subject)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", graph.DefaultSource, "Source recorded on every triple")
	cmd.Flags().StringVar(&profile, "profile", "", "Ontology profile for type triples (sbol, minimal, bfo, cco)")

	return cmd
}
