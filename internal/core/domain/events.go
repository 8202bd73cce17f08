package domain

import "time"

// ResumeProcessedEvent is published after a version is written, consumed
// by the worker to append history.
type ResumeProcessedEvent struct {
	VersionID  string    `json:"version_id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	ActionExtracted = "extracted"
	ActionSaved     = "saved"
)
