package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rmCmd = &cobra.Command{
	Use:   "rm <document-id>...",
	Short: "Remove documents from the vault",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		for _, id := range args {
			if !env.Vault.Remove(id) {
				return eris.Errorf("document %s not found", id)
			}
			if err := env.Storage.DeleteDocument(ctx, id); err != nil {
				return eris.Wrapf(err, "delete %s", id)
			}
			zap.L().Info("document removed", zap.String("id", id))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
