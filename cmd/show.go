package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/chedr/vault-cli/internal/feedback"
)

var showAnomalies bool

var showCmd = &cobra.Command{
	Use:   "show <document-id>",
	Short: "Show full details of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		doc, ok := env.Vault.Get(args[0])
		if !ok {
			return eris.Errorf("document %s not found", args[0])
		}

		if showAnomalies {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"documentId": doc.ID,
				"anomalies":  feedback.DetectAnomalies(doc.Fields),
			})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showAnomalies, "anomalies", false, "show anomalous field ids instead of the full document")
	rootCmd.AddCommand(showCmd)
}
