package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*ResumeRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ResumeRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestUpdateFileStatusReturnsNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE resume_files").
		WithArgs("missing", string(domain.FileStatusFailed), "boom", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFileStatus(context.Background(), "missing", domain.FileStatusFailed, "boom")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveVersionSupersedesAndNumbersSequentially(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE resume_versions").
		WithArgs("user-1", "default").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) \+ 1`).
		WithArgs("user-1", "default").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))
	mock.ExpectExec("INSERT INTO resume_versions").
		WithArgs("ver-1", "user-1", "default", 3, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	version := &domain.ResumeVersion{
		ID:         "ver-1",
		UserID:     "user-1",
		TemplateID: "default",
		Resume:     domain.CanonicalResume{Summary: "hello"},
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.SaveVersion(context.Background(), version); err != nil {
		t.Fatalf("SaveVersion() error = %v", err)
	}
	if version.Version != 3 {
		t.Fatalf("version = %d, want 3", version.Version)
	}
	if !version.Current {
		t.Fatalf("expected current=true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetVersionReturnsNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, user_id, template_id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetVersion(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetVersionUnmarshalsResumePayload(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	resume := domain.CanonicalResume{
		Summary: "engineer",
		Skills:  domain.SkillGroups{Technical: []string{"Go"}},
	}
	payload, _ := json.Marshal(resume)

	rows := sqlmock.NewRows([]string{"id", "user_id", "template_id", "version", "current", "resume", "created_at"}).
		AddRow("ver-1", "user-1", "default", 1, true, payload, time.Now().UTC())
	mock.ExpectQuery("SELECT id, user_id, template_id").
		WithArgs("ver-1").
		WillReturnRows(rows)

	got, err := repo.GetVersion(context.Background(), "ver-1")
	if err != nil {
		t.Fatalf("GetVersion() error = %v", err)
	}
	if got.Resume.Summary != "engineer" {
		t.Fatalf("summary = %q", got.Resume.Summary)
	}
	if len(got.Resume.Skills.Technical) != 1 {
		t.Fatalf("skills = %+v", got.Resume.Skills)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAppendHistoryInsertsRow(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO resume_history").
		WithArgs("h-1", "ver-1", "user-1", domain.ActionExtracted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &domain.ResumeHistoryEntry{
		ID:        "h-1",
		VersionID: "ver-1",
		UserID:    "user-1",
		Action:    domain.ActionExtracted,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.AppendHistory(context.Background(), entry); err != nil {
		t.Fatalf("AppendHistory() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
