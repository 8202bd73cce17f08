package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/codespaze/resume-builder/internal/core/domain"
	"github.com/codespaze/resume-builder/internal/core/ports"
)

// AppendHistoryUseCase turns processed events into audit rows. Runs in
// the worker, off the request path.
type AppendHistoryUseCase struct {
	repo  ports.ResumeRepository
	clock ports.Clock
}

func NewAppendHistoryUseCase(repo ports.ResumeRepository, clock ports.Clock) *AppendHistoryUseCase {
	return &AppendHistoryUseCase{repo: repo, clock: clock}
}

func (uc *AppendHistoryUseCase) Append(ctx context.Context, event domain.ResumeProcessedEvent) error {
	if strings.TrimSpace(event.VersionID) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "append history", errors.New("version id is required"))
	}

	entry := &domain.ResumeHistoryEntry{
		ID:        uuid.NewString(),
		VersionID: event.VersionID,
		UserID:    event.UserID,
		Action:    event.Action,
		CreatedAt: uc.clock.Now().UTC(),
	}
	if err := uc.repo.AppendHistory(ctx, entry); err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

var _ ports.HistoryAppender = (*AppendHistoryUseCase)(nil)
