package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/sbolgraph/compare"
)

var errDocumentsDiffer = errors.New("documents differ")

func diffCmd(a *app) *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Compare two documents",
		Long: `Diff reports entities missing from either document and entities whose
content differs. With --text it prints a line diff of the canonical
N-Triples instead. Exits non-zero when the documents differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, _, err := a.readFile(args[0], true)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			right, _, err := a.readFile(args[1], true)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}

			out := cmd.OutOrStdout()
			result := compare.Documents(args[0], left, args[1], right)
			if text {
				d, err := compare.Text(left, right)
				if err != nil {
					return err
				}
				fmt.Fprint(out, d)
			} else {
				fmt.Fprint(out, result.Format())
			}

			if !result.Equal() {
				return errDocumentsDiffer
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "Print a line diff of the canonical N-Triples")

	return cmd
}
