package store

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chedr/vault-cli/internal/model"
)

func newTestStorage(t *testing.T) (*VaultStorage, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV(0)
	s := NewVaultStorage(kv)
	require.NoError(t, s.Init(context.Background()))
	return s, kv
}

func testDoc(id string) model.ProcessedDocument {
	return model.ProcessedDocument{
		ID:     id,
		Type:   "W-2",
		Name:   id + ".pdf",
		Fields: []model.ExtractedField{},
		Status: model.DocStatusPending,
	}
}

func TestVaultStorage_InitStampsVersion(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(0)
	s := NewVaultStorage(kv)

	require.NoError(t, s.Init(ctx))
	v, ok, err := kv.Get(ctx, keyVaultVersion)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, currentVersion, v)

	// Re-init is a no-op; a second instance sees a matching version and
	// does not re-migrate.
	require.NoError(t, s.Init(ctx))
	require.NoError(t, NewVaultStorage(kv).Init(ctx))
}

func TestVaultStorage_InitMigratesFromOldVersion(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(0)
	require.NoError(t, kv.Set(ctx, keyVaultVersion, "0.9.0"))

	s := NewVaultStorage(kv)
	require.NoError(t, s.Init(ctx))

	v, _, err := kv.Get(ctx, keyVaultVersion)
	require.NoError(t, err)
	assert.Equal(t, currentVersion, v)
}

func TestVaultStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	a := testDoc("a")
	a.ThumbnailURL = "data:image/png;base64," + strings.Repeat("x", 100)
	b := testDoc("b")

	require.NoError(t, s.SaveDocuments(ctx, []model.ProcessedDocument{a, b}))

	got, err := s.GetDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0]) // small thumbnail preserved
	assert.Equal(t, b, got[1])
}

func TestVaultStorage_GetDocumentsEmpty(t *testing.T) {
	s, _ := newTestStorage(t)
	got, err := s.GetDocuments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestVaultStorage_MalformedJSONReadsEmpty(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStorage(t)
	require.NoError(t, kv.Set(ctx, keyVaultDocuments, "{not json"))

	got, err := s.GetDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestVaultStorage_StripsOversizedThumbnail(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	// Scenario: 200 documents, one with a 60,000-char thumbnail.
	docs := make([]model.ProcessedDocument, 200)
	for i := range docs {
		docs[i] = testDoc("doc-" + strconv.Itoa(i))
	}
	const oversizedIdx = 42
	docs[oversizedIdx].ThumbnailURL = "data:image/png;base64," + strings.Repeat("y", 60000)
	docs[oversizedIdx].RawText = "keep me"

	require.NoError(t, s.SaveDocuments(ctx, docs))

	got, err := s.GetDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 200)
	assert.Empty(t, got[oversizedIdx].ThumbnailURL)
	// Everything else on that document is unchanged.
	assert.Equal(t, "keep me", got[oversizedIdx].RawText)
	assert.Equal(t, docs[oversizedIdx].ID, got[oversizedIdx].ID)
	// Other documents untouched.
	assert.Equal(t, docs[0], got[0])
}

func TestVaultStorage_NonDataThumbnailNeverStripped(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	d := testDoc("a")
	d.ThumbnailURL = "https://cdn.example.com/" + strings.Repeat("p", 60000)
	require.NoError(t, s.SaveDocuments(ctx, []model.ProcessedDocument{d}))

	got, err := s.GetDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, d.ThumbnailURL, got[0].ThumbnailURL)
}

func TestVaultStorage_QuotaRetryStripsPayload(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(40000)
	s := NewVaultStorage(kv)
	require.NoError(t, s.Init(ctx))

	// Under the 50,000-char strip threshold but over the backend quota:
	// the first write fails, the degraded retry (no thumbnail, no raw
	// text) fits.
	d := testDoc("a")
	d.ThumbnailURL = "data:image/png;base64," + strings.Repeat("t", 30000)
	d.RawText = strings.Repeat("r", 15000)

	require.NoError(t, s.SaveDocuments(ctx, []model.ProcessedDocument{d}))

	got, err := s.GetDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].ThumbnailURL)
	assert.Empty(t, got[0].RawText)
	assert.Equal(t, "a", got[0].ID)
}

func TestVaultStorage_QuotaRetryFailurePropagates(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(50) // too small even for a bare document
	s := NewVaultStorage(kv)

	err := s.SaveDocuments(ctx, []model.ProcessedDocument{testDoc("a")})
	require.Error(t, err)
}

func TestVaultStorage_SaveDocumentUpsert(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)

	require.NoError(t, s.SaveDocument(ctx, testDoc("a")))
	require.NoError(t, s.SaveDocument(ctx, testDoc("b")))

	got, err := s.GetDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// New documents prepend.
	assert.Equal(t, "b", got[0].ID)

	// Existing id replaces in place.
	updated := testDoc("a")
	updated.Name = "renamed.pdf"
	require.NoError(t, s.SaveDocument(ctx, updated))

	got, err = s.GetDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "renamed.pdf", got[1].Name)
}

func TestVaultStorage_UpdateDocument(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)
	require.NoError(t, s.SaveDocument(ctx, testDoc("a")))

	require.NoError(t, s.UpdateDocument(ctx, "a", model.DocumentPatch{
		Status: model.Ptr(model.DocStatusProcessed),
	}))
	got, err := s.GetDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusProcessed, got[0].Status)

	// Unknown id is a silent no-op.
	require.NoError(t, s.UpdateDocument(ctx, "ghost", model.DocumentPatch{
		Status: model.Ptr(model.DocStatusFlagged),
	}))
}

func TestVaultStorage_EmptyPatchLeavesStoredBytesUnchanged(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStorage(t)
	require.NoError(t, s.SaveDocument(ctx, testDoc("a")))

	before, _, err := kv.Get(ctx, keyVaultDocuments)
	require.NoError(t, err)

	require.NoError(t, s.UpdateDocument(ctx, "a", model.DocumentPatch{}))

	after, _, err := kv.Get(ctx, keyVaultDocuments)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestVaultStorage_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorage(t)
	require.NoError(t, s.SaveDocument(ctx, testDoc("a")))
	require.NoError(t, s.SaveDocument(ctx, testDoc("b")))

	require.NoError(t, s.DeleteDocument(ctx, "a"))
	got, err := s.GetDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	// Unknown id is a no-op.
	require.NoError(t, s.DeleteDocument(ctx, "ghost"))
}

func TestVaultStorage_TaxDataSplicesVault(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStorage(t)

	require.NoError(t, s.SaveDocument(ctx, testDoc("a")))

	summary := model.InitialTaxSummary()
	summary.IncomeTotal = "$84,000.00"
	summary.Vault = []model.ProcessedDocument{testDoc("a")} // embedded copy
	require.NoError(t, s.SaveTaxData(ctx, summary))

	// At rest the summary holds no documents.
	raw, _, err := kv.Get(ctx, keyTaxData)
	require.NoError(t, err)
	assert.Contains(t, raw, `"vault":[]`)

	// On read the vault is rehydrated from the document store.
	got, err := s.GetTaxData(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "$84,000.00", got.IncomeTotal)
	require.Len(t, got.Vault, 1)
	assert.Equal(t, "a", got.Vault[0].ID)
}

func TestVaultStorage_GetTaxDataAbsentOrBad(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStorage(t)

	got, err := s.GetTaxData(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, kv.Set(ctx, keyTaxData, "###"))
	got, err = s.GetTaxData(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVaultStorage_ClearKeepsVersion(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStorage(t)

	require.NoError(t, s.SaveDocument(ctx, testDoc("a")))
	require.NoError(t, s.SaveTaxData(ctx, model.InitialTaxSummary()))
	require.NoError(t, s.Clear(ctx))

	docs, err := s.GetDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	td, err := s.GetTaxData(ctx)
	require.NoError(t, err)
	assert.Nil(t, td)

	_, ok, err := kv.Get(ctx, keyVaultVersion)
	require.NoError(t, err)
	assert.True(t, ok)
}
