package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all vault data",
	Long:  "Removes stored documents and tax data. The storage format version is kept so the store stays initialized.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if !clearYes {
			fmt.Fprint(os.Stderr, "Delete all vault data? [y/N] ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
				fmt.Fprintln(os.Stderr, "Aborted.")
				return nil
			}
		}

		env, err := initEnv(ctx, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Storage.Clear(ctx); err != nil {
			return err
		}

		zap.L().Info("vault cleared")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}
