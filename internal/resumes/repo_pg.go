package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres. Content is stored as one JSONB value,
// so Replace is a single atomic row update.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, data, is_public, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`

	data, err := json.Marshal(resume.Content)
	if err != nil {
		return fmt.Errorf("marshal resume content: %w", err)
	}
	createdAt := resume.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		data,
		resume.Public,
		createdAt,
	)
	return err
}

func (r *PGRepo) GetByOwner(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `
SELECT id, user_id, data, created_at, updated_at
FROM resumes
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID, resumeID))
}

func (r *PGRepo) GetPublic(ctx context.Context, resumeID string) (Resume, error) {
	const query = `
SELECT id, user_id, data, created_at, updated_at
FROM resumes
WHERE id = $1 AND is_public = TRUE
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, resumeID))
}

func (r *PGRepo) ListByOwner(ctx context.Context, userID string) ([]Resume, error) {
	const query = `
SELECT id, user_id, data, created_at, updated_at
FROM resumes
WHERE user_id = $1
ORDER BY updated_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		var resume Resume
		var data []byte
		if err := rows.Scan(&resume.ID, &resume.UserID, &data, &resume.CreatedAt, &resume.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &resume.Content); err != nil {
			return nil, fmt.Errorf("unmarshal resume content: %w", err)
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// Replace writes the new content keyed on both owner and id; zero matched rows
// means not-found-or-forbidden and the caller cannot tell which.
func (r *PGRepo) Replace(ctx context.Context, userID, resumeID string, content Content) (Resume, error) {
	const query = `
UPDATE resumes
SET data = $3, is_public = $4, updated_at = now()
WHERE user_id = $1 AND id = $2
RETURNING id, user_id, data, created_at, updated_at`

	data, err := json.Marshal(content)
	if err != nil {
		return Resume{}, fmt.Errorf("marshal resume content: %w", err)
	}
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID, resumeID, data, content.Public))
}

func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	const query = `DELETE FROM resumes WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, resumeID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) scanOne(row *sql.Row) (Resume, error) {
	var resume Resume
	var data []byte
	err := row.Scan(&resume.ID, &resume.UserID, &data, &resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if err := json.Unmarshal(data, &resume.Content); err != nil {
		return Resume{}, fmt.Errorf("unmarshal resume content: %w", err)
	}
	return resume, nil
}

var _ Repo = (*PGRepo)(nil)
