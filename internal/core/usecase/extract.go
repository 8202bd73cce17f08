package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codespaze/resume-builder/internal/core/domain"
	"github.com/codespaze/resume-builder/internal/core/normalize"
	"github.com/codespaze/resume-builder/internal/core/ports"
)

const defaultTemplateID = "default"

// ExtractResumeUseCase runs the upload pipeline: store the file, extract
// its text, ask a provider (with fallback) for structured resume data,
// normalize, and persist a new current version.
type ExtractResumeUseCase struct {
	repo      ports.ResumeRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	generator *GenerateContentUseCase
	publisher ports.EventPublisher
	clock     ports.Clock
}

func NewExtractResumeUseCase(
	repo ports.ResumeRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	generator *GenerateContentUseCase,
	publisher ports.EventPublisher,
	clock ports.Clock,
) *ExtractResumeUseCase {
	return &ExtractResumeUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		generator: generator,
		publisher: publisher,
		clock:     clock,
	}
}

func (uc *ExtractResumeUseCase) ExtractAndNormalize(
	ctx context.Context,
	userID, filename, mediaType string,
	data []byte,
) (*domain.CanonicalResume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract resume", errors.New("user id is required"))
	}
	if len(data) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract resume", errors.New("empty upload"))
	}

	file, err := uc.storeUpload(ctx, userID, filename, mediaType, data)
	if err != nil {
		return nil, err
	}

	text, err := uc.extractor.Extract(ctx, data, mediaType)
	if err != nil {
		uc.markFailed(ctx, file.ID, err)
		return nil, err
	}

	parsed := uc.parseWithProviders(ctx, text)
	resume := normalize.Resume(parsed, text, uc.clock.Now())

	if !normalize.ValidateSerializable(resume) {
		err := domain.WrapError(domain.ErrSerialization, "extract resume",
			errors.New("normalized resume failed serializability check"))
		uc.markFailed(ctx, file.ID, err)
		return nil, err
	}

	version := &domain.ResumeVersion{
		ID:         uuid.NewString(),
		UserID:     userID,
		TemplateID: defaultTemplateID,
		Resume:     resume,
		CreatedAt:  uc.clock.Now().UTC(),
	}
	if err := uc.repo.SaveVersion(ctx, version); err != nil {
		uc.markFailed(ctx, file.ID, err)
		return nil, fmt.Errorf("save resume version: %w", err)
	}

	if err := uc.repo.UpdateFileStatus(ctx, file.ID, domain.FileStatusProcessed, ""); err != nil {
		return nil, fmt.Errorf("set file status=processed: %w", err)
	}

	uc.publish(ctx, version.ID, userID, domain.ActionExtracted)
	return &resume, nil
}

func (uc *ExtractResumeUseCase) storeUpload(
	ctx context.Context,
	userID, filename, mediaType string,
	data []byte,
) (*domain.ResumeFile, error) {
	now := uc.clock.Now().UTC()
	file := &domain.ResumeFile{
		ID:        uuid.NewString(),
		UserID:    userID,
		Filename:  filename,
		MediaType: mediaType,
		Status:    domain.FileStatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	file.StoragePath = fmt.Sprintf("%s_%s", file.ID, sanitizeFilename(filename))

	if err := uc.storage.Save(ctx, file.StoragePath, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("save upload to storage: %w", err)
	}
	if err := uc.repo.CreateFile(ctx, file); err != nil {
		return nil, fmt.Errorf("create resume file record: %w", err)
	}
	return file, nil
}

// parseWithProviders asks the provider chain for structured resume data.
// A total provider failure is recovered: the normalizer falls back to
// heuristics over the raw text instead of discarding the upload.
func (uc *ExtractResumeUseCase) parseWithProviders(ctx context.Context, text string) *domain.AIParsedResume {
	// Each attempt decodes into a fresh value: Unmarshal fills fields
	// before reporting a type error, and a rejected reply must not bleed
	// into the provider that eventually succeeds.
	var parsed domain.AIParsedResume
	_, _, err := uc.generator.callWithFallback(ctx, domain.ProviderGemini, buildExtractionPrompt(text), func(raw json.RawMessage) error {
		var attempt domain.AIParsedResume
		if err := json.Unmarshal(raw, &attempt); err != nil {
			return err
		}
		parsed = attempt
		return nil
	})
	if err != nil {
		slog.Warn("resume_parse_degraded", "error", err)
		return nil
	}
	return &parsed
}

func (uc *ExtractResumeUseCase) markFailed(ctx context.Context, fileID string, cause error) {
	if err := uc.repo.UpdateFileStatus(ctx, fileID, domain.FileStatusFailed, cause.Error()); err != nil {
		slog.Error("mark_file_failed", "file_id", fileID, "error", err)
	}
}

// publish is best effort: the history append is auxiliary and a missed
// event is an accepted recoverable inconsistency.
func (uc *ExtractResumeUseCase) publish(ctx context.Context, versionID, userID, action string) {
	if uc.publisher == nil {
		return
	}
	event := domain.ResumeProcessedEvent{
		VersionID:  versionID,
		UserID:     userID,
		Action:     action,
		OccurredAt: uc.clock.Now().UTC(),
	}
	if err := uc.publisher.PublishResumeProcessed(ctx, event); err != nil {
		slog.Warn("publish_resume_processed", "version_id", versionID, "error", err)
	}
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "resume.bin"
	}
	return base
}

var _ ports.ResumeExtractor = (*ExtractResumeUseCase)(nil)

// systemClock is the production Clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() ports.Clock { return systemClock{} }
