package vault

import (
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/chedr/vault-cli/internal/classify"
	"github.com/chedr/vault-cli/internal/model"
)

// RawFile is the minimal capability set the builder needs from an uploaded
// file. It deliberately avoids any filesystem or browser specifics so both
// local uploads and chat-delivered files can feed it.
type RawFile struct {
	Name         string
	Size         int64
	MIMEType     string
	ThumbnailURL string // optional data-URL rendering
	RawText      string // optional pre-extracted text
}

// DataURL encodes the reader's contents as a data URL with the given MIME
// type, suitable for RawFile.ThumbnailURL.
func DataURL(mimeType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", eris.Wrap(err, "vault: read thumbnail source")
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// FileSizeString renders a byte count with binary-prefix rounding:
// plain bytes under 1 KB, one-decimal KB under 1 MB, else one-decimal MB.
func FileSizeString(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}

// InitialLineageStages builds the fixed three-stage pipeline in its initial
// configuration: source already completed, extraction active, verification
// pending. The triple is created atomically and stages never regress.
func InitialLineageStages(now time.Time) []model.LineageStage {
	return []model.LineageStage{
		{
			ID:        "source",
			Type:      model.StageSource,
			Label:     "Document Uploaded",
			Timestamp: now,
			Status:    model.StageCompleted,
		},
		{
			ID:        "extraction",
			Type:      model.StageExtraction,
			Label:     "Data Extraction",
			Timestamp: now,
			Status:    model.StageActive,
		},
		{
			ID:        "verification",
			Type:      model.StageVerification,
			Label:     "Verification",
			Timestamp: now,
			Status:    model.StagePending,
		},
	}
}

// NewDocument assembles a ProcessedDocument from a raw file: classified
// type, current tax year, empty field set, initial lineage. Asynchronous
// extraction is applied later by the caller, not here.
func NewDocument(f RawFile) model.ProcessedDocument {
	now := time.Now().UTC()
	c := classify.Classify(f.Name)

	return model.ProcessedDocument{
		ID:                 uuid.NewString(),
		Type:               string(c.DocumentType),
		Name:               f.Name,
		TaxYear:            fmt.Sprintf("%d", now.Year()),
		Timestamp:          now,
		DataPointCount:     0,
		Fields:             []model.ExtractedField{},
		Confidence:         c.Confidence,
		Status:             model.DocStatusPending,
		SourceType:         model.SourceOCR,
		DocumentType:       c.DocumentType,
		ProcessingStatus:   model.ProcessingExtracting,
		VerificationStatus: classify.VerificationStatusFor(c.Confidence),
		LineageStages:      InitialLineageStages(now),
		ThumbnailURL:       f.ThumbnailURL,
		FileSize:           FileSizeString(f.Size),
		RawText:            f.RawText,
	}
}
