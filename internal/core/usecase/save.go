package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/codespaze/resume-builder/internal/core/domain"
	"github.com/codespaze/resume-builder/internal/core/normalize"
	"github.com/codespaze/resume-builder/internal/core/ports"
)

// SaveResumeUseCase persists manual saves as new versions. Input is
// re-normalized so the canonical invariants hold regardless of what the
// client sent.
type SaveResumeUseCase struct {
	repo      ports.ResumeRepository
	publisher ports.EventPublisher
	clock     ports.Clock
}

func NewSaveResumeUseCase(repo ports.ResumeRepository, publisher ports.EventPublisher, clock ports.Clock) *SaveResumeUseCase {
	return &SaveResumeUseCase{repo: repo, publisher: publisher, clock: clock}
}

func (uc *SaveResumeUseCase) Save(
	ctx context.Context,
	userID, templateID string,
	resume domain.CanonicalResume,
) (*domain.ResumeVersion, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "save resume", errors.New("user id is required"))
	}
	if strings.TrimSpace(templateID) == "" {
		templateID = defaultTemplateID
	}

	normalized := normalize.Resume(&domain.AIParsedResume{
		PersonalInfo: &resume.PersonalInfo,
		Summary:      resume.Summary,
		Experience:   resume.Experience,
		Education:    resume.Education,
		Skills:       &resume.Skills,
	}, "", uc.clock.Now())

	if !normalize.ValidateSerializable(normalized) {
		return nil, domain.WrapError(domain.ErrSerialization, "save resume",
			errors.New("resume failed serializability check"))
	}

	version := &domain.ResumeVersion{
		ID:         uuid.NewString(),
		UserID:     userID,
		TemplateID: templateID,
		Resume:     normalized,
		CreatedAt:  uc.clock.Now().UTC(),
	}
	if err := uc.repo.SaveVersion(ctx, version); err != nil {
		return nil, fmt.Errorf("save resume version: %w", err)
	}

	if uc.publisher != nil {
		event := domain.ResumeProcessedEvent{
			VersionID:  version.ID,
			UserID:     userID,
			Action:     domain.ActionSaved,
			OccurredAt: uc.clock.Now().UTC(),
		}
		if err := uc.publisher.PublishResumeProcessed(ctx, event); err != nil {
			slog.Warn("publish_resume_processed", "version_id", version.ID, "error", err)
		}
	}

	return version, nil
}

func (uc *SaveResumeUseCase) Get(ctx context.Context, id string) (*domain.ResumeVersion, error) {
	version, err := uc.repo.GetVersion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch resume version: %w", err)
	}
	return version, nil
}

func (uc *SaveResumeUseCase) List(ctx context.Context, userID string) ([]domain.ResumeVersion, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list resumes", errors.New("user id is required"))
	}
	versions, err := uc.repo.ListVersions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list resume versions: %w", err)
	}
	return versions, nil
}

var _ ports.ResumeService = (*SaveResumeUseCase)(nil)
