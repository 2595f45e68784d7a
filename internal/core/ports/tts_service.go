package ports

import (
	"context"
	"io"

	"github.com/voicify/voicify-api/internal/core/domain"
)

// ConversionResult is what a successful synthesis returns to the client.
type ConversionResult struct {
	Filename string `json:"filename"`
	AudioURL string `json:"audioUrl"`
	Preview  string `json:"text"`
	Language string `json:"language"`
}

// HistoryEntry is one row of a user's recent conversions.
type HistoryEntry struct {
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	SizeBytes int64  `json:"size"`
}

type TTSService interface {
	Convert(ctx context.Context, userID, text, language string) (*ConversionResult, error)
	Fetch(ctx context.Context, userID, filename string) (io.ReadCloser, *domain.Artifact, error)
	History(ctx context.Context, userID string) ([]HistoryEntry, error)
}

// SynthesisEngine converts text to spoken audio. A single attempt per
// call; the engine never retries internally.
type SynthesisEngine interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// ArtifactStore persists synthesized audio. A Write that has returned
// is immediately visible to Exists, Open and the listing calls.
type ArtifactStore interface {
	Write(id string, data []byte) error
	Exists(id string) bool
	Open(id string) (io.ReadCloser, *domain.Artifact, error)
	ListByOwner(ownerID string) ([]domain.Artifact, error)
	ListAll() ([]domain.Artifact, error)
	Delete(id string) error
}
