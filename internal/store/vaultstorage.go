package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/chedr/vault-cli/internal/model"
)

// Storage key namespace. The version marker survives Clear so a wiped
// vault is distinguishable from a never-initialized one.
const (
	keyVaultDocuments = "chedr_vault_documents"
	keyTaxData        = "chedr_tax_data"
	keyVaultVersion   = "chedr_vault_version"

	currentVersion = "1.0.0"
)

// maxThumbnailChars is the largest embedded data-URL thumbnail persisted
// at rest; anything bigger is stripped to protect the storage quota.
const maxThumbnailChars = 50000

// VaultStorage persists the document collection and tax summary to a KV
// backend.
type VaultStorage struct {
	kv          KV
	initialized bool
}

// NewVaultStorage wraps a KV backend. Call Init before first use.
func NewVaultStorage(kv KV) *VaultStorage {
	return &VaultStorage{kv: kv}
}

// Init checks the stored schema version and runs the migration hook on any
// mismatch (including absence), then stamps the current version. Calling
// it again is a no-op.
func (s *VaultStorage) Init(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	stored, ok, err := s.kv.Get(ctx, keyVaultVersion)
	if err != nil {
		return eris.Wrap(err, "storage: read version")
	}
	if !ok || stored != currentVersion {
		s.migrate(stored)
		if err := s.kv.Set(ctx, keyVaultVersion, currentVersion); err != nil {
			return eris.Wrap(err, "storage: write version")
		}
	}

	s.initialized = true
	return nil
}

// migrate is the schema-migration extension point. No versions with
// incompatible schemas exist yet, so it only logs.
func (s *VaultStorage) migrate(fromVersion string) {
	if fromVersion == "" {
		zap.L().Info("initializing vault storage", zap.String("version", currentVersion))
		return
	}
	zap.L().Info("vault storage version changed",
		zap.String("from", fromVersion),
		zap.String("to", currentVersion),
	)
}

// SaveDocuments writes the whole collection. Oversized data-URL thumbnails
// are stripped up front; if the write still exceeds the backend quota, it
// retries exactly once with thumbnails and raw text removed from every
// document. A failure of the degraded retry propagates as-is.
func (s *VaultStorage) SaveDocuments(ctx context.Context, docs []model.ProcessedDocument) error {
	storable := make([]model.ProcessedDocument, len(docs))
	copy(storable, docs)
	for i := range storable {
		if strings.HasPrefix(storable[i].ThumbnailURL, "data:") &&
			len(storable[i].ThumbnailURL) > maxThumbnailChars {
			storable[i].ThumbnailURL = ""
		}
	}

	payload, err := json.Marshal(storable)
	if err != nil {
		return eris.Wrap(err, "storage: marshal documents")
	}

	err = s.kv.Set(ctx, keyVaultDocuments, string(payload))
	if !eris.Is(err, ErrQuotaExceeded) {
		return err
	}

	zap.L().Warn("storage quota exceeded, retrying without thumbnails and raw text")
	for i := range storable {
		storable[i].ThumbnailURL = ""
		storable[i].RawText = ""
	}
	payload, merr := json.Marshal(storable)
	if merr != nil {
		return eris.Wrap(merr, "storage: marshal degraded documents")
	}
	return s.kv.Set(ctx, keyVaultDocuments, string(payload))
}

// GetDocuments loads the persisted collection. Absence and malformed JSON
// both read as empty; parse failures are logged, not surfaced.
func (s *VaultStorage) GetDocuments(ctx context.Context) ([]model.ProcessedDocument, error) {
	raw, ok, err := s.kv.Get(ctx, keyVaultDocuments)
	if err != nil {
		return nil, eris.Wrap(err, "storage: read documents")
	}
	if !ok {
		return []model.ProcessedDocument{}, nil
	}

	var docs []model.ProcessedDocument
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		zap.L().Error("failed to parse stored documents", zap.Error(err))
		return []model.ProcessedDocument{}, nil
	}
	if docs == nil {
		docs = []model.ProcessedDocument{}
	}
	return docs, nil
}

// SaveDocument upserts a single document: existing ids are replaced in
// place, new documents are prepended (most recent first).
func (s *VaultStorage) SaveDocument(ctx context.Context, doc model.ProcessedDocument) error {
	docs, err := s.GetDocuments(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range docs {
		if docs[i].ID == doc.ID {
			docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append([]model.ProcessedDocument{doc}, docs...)
	}
	return s.SaveDocuments(ctx, docs)
}

// UpdateDocument applies a patch to the stored document with the given id.
// Unknown ids are a silent no-op.
func (s *VaultStorage) UpdateDocument(ctx context.Context, docID string, patch model.DocumentPatch) error {
	docs, err := s.GetDocuments(ctx)
	if err != nil {
		return err
	}

	for i := range docs {
		if docs[i].ID == docID {
			docs[i].Apply(patch)
			return s.SaveDocuments(ctx, docs)
		}
	}
	zap.L().Debug("update for unknown document", zap.String("doc_id", docID))
	return nil
}

// DeleteDocument removes the document with the given id, if present.
func (s *VaultStorage) DeleteDocument(ctx context.Context, docID string) error {
	docs, err := s.GetDocuments(ctx)
	if err != nil {
		return err
	}

	filtered := docs[:0]
	for _, d := range docs {
		if d.ID != docID {
			filtered = append(filtered, d)
		}
	}
	return s.SaveDocuments(ctx, filtered)
}

// SaveTaxData persists the summary with its vault emptied: documents are
// stored once, under their own key.
func (s *VaultStorage) SaveTaxData(ctx context.Context, data model.TaxSummary) error {
	data.Vault = []model.ProcessedDocument{}

	payload, err := json.Marshal(data)
	if err != nil {
		return eris.Wrap(err, "storage: marshal tax data")
	}
	return s.kv.Set(ctx, keyTaxData, string(payload))
}

// GetTaxData loads the summary and splices the separately stored vault
// back in. Returns nil (no error) when nothing is stored or the payload
// is unreadable.
func (s *VaultStorage) GetTaxData(ctx context.Context) (*model.TaxSummary, error) {
	raw, ok, err := s.kv.Get(ctx, keyTaxData)
	if err != nil {
		return nil, eris.Wrap(err, "storage: read tax data")
	}
	if !ok {
		return nil, nil
	}

	var data model.TaxSummary
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		zap.L().Error("failed to parse stored tax data", zap.Error(err))
		return nil, nil
	}

	vault, err := s.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	data.Vault = vault
	return &data, nil
}

// Clear removes the document collection and tax summary but keeps the
// version marker to track the cleared state.
func (s *VaultStorage) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyVaultDocuments); err != nil {
		return eris.Wrap(err, "storage: clear documents")
	}
	return eris.Wrap(s.kv.Delete(ctx, keyTaxData), "storage: clear tax data")
}

// Close releases the underlying KV backend.
func (s *VaultStorage) Close() error {
	return s.kv.Close()
}
