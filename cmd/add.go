package main

import (
	"bytes"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chedr/vault-cli/internal/vault"
)

var addConcurrency int

var addCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Upload documents into the vault",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(addConcurrency)

		for _, path := range args {
			g.Go(func() error {
				raw, err := loadRawFile(path)
				if err != nil {
					return err
				}

				doc := vault.NewDocument(raw)
				env.Vault.Add(doc)
				zap.L().Info("document added",
					zap.String("id", doc.ID),
					zap.String("name", doc.Name),
					zap.String("type", doc.EffectiveType()),
					zap.Float64("confidence", doc.Confidence),
				)

				select {
				case <-env.Extractor.Start(doc):
				case <-gctx.Done():
					return gctx.Err()
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		if err := env.Storage.SaveDocuments(ctx, env.Vault.Documents()); err != nil {
			return eris.Wrap(err, "persist vault")
		}

		zap.L().Info("upload complete", zap.Int("documents", env.Vault.Len()))
		return nil
	},
}

// loadRawFile reads a local file into the shape the document builder
// expects. Images become a data-URL thumbnail; plain text rides along as
// pre-extracted raw text.
func loadRawFile(path string) (vault.RawFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return vault.RawFile{}, eris.Wrapf(err, "stat %s", path)
	}

	raw := vault.RawFile{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mime.TypeByExtension(filepath.Ext(path)),
	}

	switch {
	case strings.HasPrefix(raw.MIMEType, "image/"):
		b, err := os.ReadFile(path)
		if err != nil {
			return vault.RawFile{}, eris.Wrapf(err, "read %s", path)
		}
		url, err := vault.DataURL(raw.MIMEType, bytes.NewReader(b))
		if err != nil {
			return vault.RawFile{}, err
		}
		raw.ThumbnailURL = url
	case strings.HasPrefix(raw.MIMEType, "text/"):
		b, err := os.ReadFile(path)
		if err != nil {
			return vault.RawFile{}, eris.Wrapf(err, "read %s", path)
		}
		raw.RawText = string(b)
	}

	return raw, nil
}

func init() {
	addCmd.Flags().IntVar(&addConcurrency, "concurrency", 4, "max concurrent uploads")
	rootCmd.AddCommand(addCmd)
}
