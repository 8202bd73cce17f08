package ports

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

// TextExtractor converts uploaded bytes into plain text, routed by the
// declared media type.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mediaType string) (string, error)
}

// Provider is one external text-generation service. CompleteJSON sends a
// prompt and returns the first balanced JSON object found in the reply.
type Provider interface {
	Name() domain.ProviderName
	Configured() bool
	CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}

// ProviderRegistry resolves provider names to clients.
type ProviderRegistry interface {
	Get(name domain.ProviderName) (Provider, bool)
}

// ResumeRepository persists resume files and versioned resume records.
type ResumeRepository interface {
	CreateFile(ctx context.Context, file *domain.ResumeFile) error
	UpdateFileStatus(ctx context.Context, id string, status domain.FileStatus, errMessage string) error
	SaveVersion(ctx context.Context, version *domain.ResumeVersion) error
	GetVersion(ctx context.Context, id string) (*domain.ResumeVersion, error)
	ListVersions(ctx context.Context, userID string) ([]domain.ResumeVersion, error)
	AppendHistory(ctx context.Context, entry *domain.ResumeHistoryEntry) error
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// EventPublisher announces pipeline outcomes for asynchronous consumers.
type EventPublisher interface {
	PublishResumeProcessed(ctx context.Context, event domain.ResumeProcessedEvent) error
}

// Clock supplies the current time; date normalization's "current"
// handling is its only pipeline consumer.
type Clock interface {
	Now() time.Time
}
