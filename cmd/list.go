package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/chedr/vault-cli/internal/model"
	"github.com/chedr/vault-cli/internal/vault"
)

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the vault",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		if !vault.ValidFilter(listFilter) {
			return eris.Errorf("invalid filter %q (want all, tax, or receipt)", listFilter)
		}
		env.Vault.SetFilter(vault.Filter(listFilter))

		docs := env.Vault.Filtered()
		if len(docs) == 0 {
			fmt.Fprintln(os.Stderr, "No documents found.")
			return nil
		}

		formatDocumentList(os.Stdout, docs)
		return nil
	},
}

// formatDocumentList writes a tabular list of documents to w.
func formatDocumentList(out io.Writer, docs []model.ProcessedDocument) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTYPE\tCONF\tSTATUS\tVERIFICATION\tFIELDS\tSIZE")
	for i := range docs {
		d := &docs[i]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\t%d\t%s\n",
			d.ID, d.Name, d.EffectiveType(), d.Confidence,
			d.ProcessingStatus, d.VerificationStatus,
			d.DataPointCount, d.FileSize,
		)
	}
	_ = w.Flush()
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "all", "document filter (all, tax, receipt)")
	rootCmd.AddCommand(listCmd)
}
