package ports

import (
	"context"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

// ResumeExtractor runs the upload-to-canonical pipeline.
type ResumeExtractor interface {
	ExtractAndNormalize(ctx context.Context, userID, filename, mediaType string, data []byte) (*domain.CanonicalResume, error)
}

// ContentGenerator produces AI content with provider fallback.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req domain.ProviderRequest, preferred domain.ProviderName) (*domain.ProviderResponse, error)
	GenerateSuggestions(ctx context.Context, resume domain.CanonicalResume, preferred domain.ProviderName) ([]domain.Suggestion, error)
}

// ResumeService persists and reads versioned resume records.
type ResumeService interface {
	Save(ctx context.Context, userID, templateID string, resume domain.CanonicalResume) (*domain.ResumeVersion, error)
	Get(ctx context.Context, id string) (*domain.ResumeVersion, error)
	List(ctx context.Context, userID string) ([]domain.ResumeVersion, error)
}

// HistoryAppender records audit entries for processed events.
type HistoryAppender interface {
	Append(ctx context.Context, event domain.ResumeProcessedEvent) error
}
