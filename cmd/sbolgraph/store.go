package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/sbolgraph/storage"
	"github.com/c360studio/sbolgraph/validation"
)

func storeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage documents in the JetStream document store",
	}
	cmd.AddCommand(storePutCmd(a), storeGetCmd(a), storeListCmd(a), storeDeleteCmd(a))
	return cmd
}

// withStore runs fn against an open store bounded by nats.timeout.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, s *storage.Store) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.NATS.Timeout)
	defer cancel()

	s, closeFn, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, s)
}

func storePutCmd(a *app) *cobra.Command {
	var (
		name   string
		update string
	)

	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Validate a document and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			return a.withStore(cmd, func(ctx context.Context, s *storage.Store) error {
				var r *storage.Record
				if update != "" {
					key, err := storage.ParseDocumentKey(update)
					if err != nil {
						return err
					}
					r, err = s.Update(ctx, key, doc)
					if err != nil {
						return err
					}
				} else {
					r, err = s.Put(ctx, name, doc)
					if err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Key, r.CID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Document name (default file name)")
	cmd.Flags().StringVar(&update, "update", "", "Replace the document stored under this key")

	return cmd
}

func storeGetCmd(a *app) *cobra.Command {
	var (
		output  string
		format  string
		profile string
	)

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Write a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := storage.ParseDocumentKey(args[0])
			if err != nil {
				return err
			}
			f, err := a.outputFormat(format)
			if err != nil {
				return err
			}
			e, err := a.exporter(profile)
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(ctx context.Context, s *storage.Store) error {
				doc, err := s.Load(ctx, key)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error {
					return e.Export(w, doc, f)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (rdfxml, turtle, ntriples, jsonld)")
	cmd.Flags().StringVar(&profile, "profile", "", "Ontology profile (sbol, minimal, bfo, cco)")

	return cmd
}

func storeListCmd(a *app) *cobra.Command {
	var byCID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *storage.Store) error {
				var (
					records []*storage.Record
					err     error
				)
				if byCID != "" {
					records, err = s.FindByCID(ctx, byCID)
				} else {
					records, err = s.List(ctx)
				}
				if err != nil {
					return err
				}
				printRecords(cmd.OutOrStdout(), records)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&byCID, "cid", "", "Only documents with this content identifier")

	return cmd
}

func printRecords(w io.Writer, records []*storage.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No documents stored")
		return
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d entities\t%s\n",
			r.Key, r.Name, r.CID, r.Entities, r.UpdatedAt.Format(time.RFC3339))
	}
}

func storeDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := storage.ParseDocumentKey(args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(ctx context.Context, s *storage.Store) error {
				return s.Delete(ctx, key)
			})
		},
	}
}
