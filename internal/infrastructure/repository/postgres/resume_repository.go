package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

type ResumeRepository struct {
	db *sql.DB
}

func NewResumeRepository(db *sql.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ResumeRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026090101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS resume_files (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	media_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resume_files_user ON resume_files(user_id);
CREATE INDEX IF NOT EXISTS idx_resume_files_status ON resume_files(status);

CREATE TABLE IF NOT EXISTS resume_versions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	template_id TEXT NOT NULL,
	version INTEGER NOT NULL,
	current BOOLEAN NOT NULL DEFAULT FALSE,
	resume JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_resume_versions_current
	ON resume_versions(user_id, template_id) WHERE current;
CREATE INDEX IF NOT EXISTS idx_resume_versions_user ON resume_versions(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS resume_history (
	id TEXT PRIMARY KEY,
	version_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	action TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resume_history_version ON resume_history(version_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ResumeRepository) CreateFile(ctx context.Context, file *domain.ResumeFile) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO resume_files (
	id, user_id, filename, media_type, storage_path, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		file.ID, file.UserID, file.Filename, file.MediaType, file.StoragePath,
		string(file.Status), file.Error, file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert resume file: %w", err)
	}
	return nil
}

func (r *ResumeRepository) UpdateFileStatus(ctx context.Context, id string, status domain.FileStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE resume_files
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update resume file status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrResumeNotFound, "update resume file status", fmt.Errorf("file id %s", id))
	}
	return nil
}

// SaveVersion appends a new version and makes it current. The three
// statements run without a wrapping transaction; a crash in between
// leaves a recoverable gap, not corruption.
func (r *ResumeRepository) SaveVersion(ctx context.Context, version *domain.ResumeVersion) error {
	resumeJSON, err := json.Marshal(version.Resume)
	if err != nil {
		return domain.WrapError(domain.ErrSerialization, "marshal resume", err)
	}

	if _, err := r.db.ExecContext(ctx, `
UPDATE resume_versions
SET current = FALSE
WHERE user_id = $1 AND template_id = $2 AND current
`, version.UserID, version.TemplateID); err != nil {
		return fmt.Errorf("supersede current version: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
SELECT COALESCE(MAX(version), 0) + 1
FROM resume_versions
WHERE user_id = $1 AND template_id = $2
`, version.UserID, version.TemplateID)
	if err := row.Scan(&version.Version); err != nil {
		return fmt.Errorf("next version number: %w", err)
	}

	version.Current = true
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO resume_versions (id, user_id, template_id, version, current, resume, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		version.ID, version.UserID, version.TemplateID, version.Version, version.Current,
		resumeJSON, version.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert resume version: %w", err)
	}
	return nil
}

func (r *ResumeRepository) GetVersion(ctx context.Context, id string) (*domain.ResumeVersion, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, template_id, version, current, resume, created_at
FROM resume_versions
WHERE id = $1
`, id)

	version, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrResumeNotFound, "get resume version", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan resume version: %w", err)
	}
	return version, nil
}

func (r *ResumeRepository) ListVersions(ctx context.Context, userID string) ([]domain.ResumeVersion, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, template_id, version, current, resume, created_at
FROM resume_versions
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query resume versions: %w", err)
	}
	defer rows.Close()

	versions := make([]domain.ResumeVersion, 0, 8)
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resume version: %w", err)
		}
		versions = append(versions, *version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resume versions: %w", err)
	}
	return versions, nil
}

func (r *ResumeRepository) AppendHistory(ctx context.Context, entry *domain.ResumeHistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO resume_history (id, version_id, user_id, action, created_at)
VALUES ($1,$2,$3,$4,$5)
`, entry.ID, entry.VersionID, entry.UserID, entry.Action, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (*domain.ResumeVersion, error) {
	var version domain.ResumeVersion
	var resumeRaw []byte

	if err := row.Scan(
		&version.ID, &version.UserID, &version.TemplateID, &version.Version,
		&version.Current, &resumeRaw, &version.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resumeRaw, &version.Resume); err != nil {
		return nil, fmt.Errorf("unmarshal resume payload: %w", err)
	}
	return &version, nil
}
