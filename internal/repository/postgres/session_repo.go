package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kloda-app/kloda/backend/internal/dbx"
	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

type SessionRepo struct {
	db dbx.DBTX
}

func NewSessionRepo(db dbx.DBTX) *SessionRepo {
	return &SessionRepo{db: db}
}

const sessionSelectFields = `id, hashed_token, ip, user_agent, user_id, created_at, expires_at`

func scanSession(row interface{ Scan(dest ...any) error }) (*domain.RefreshSession, error) {
	var s domain.RefreshSession
	err := row.Scan(
		&s.ID,
		&s.HashedToken,
		&s.IP,
		&s.UserAgent,
		&s.UserID,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create stores a new refresh session
func (r *SessionRepo) Create(ctx context.Context, s *domain.RefreshSession) error {
	query := `
	INSERT INTO refresh_sessions (id, hashed_token, ip, user_agent, user_id, created_at, expires_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.HashedToken, s.IP, s.UserAgent, s.UserID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*domain.RefreshSession, error) {
	query := `SELECT ` + sessionSelectFields + ` FROM refresh_sessions WHERE id = $1;`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// Consume deletes a session only while it still matches the presented token.
// Concurrent callers race on the row lock and at most one sees a deleted row.
func (r *SessionRepo) Consume(ctx context.Context, id, hashedToken string, now time.Time) error {
	query := `
	DELETE FROM refresh_sessions
	WHERE id = $1 AND hashed_token = $2 AND expires_at > $3;
	`
	res, err := r.db.ExecContext(ctx, query, id, hashedToken, now)
	if err != nil {
		return fmt.Errorf("failed to consume session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteForUser removes one of the user's sessions.
func (r *SessionRepo) DeleteForUser(ctx context.Context, userID int64, id string) error {
	query := `DELETE FROM refresh_sessions WHERE id = $1 AND user_id = $2;`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteAllForUser logs the user out of every device.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE user_id = $1;`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// ListForUser returns the user's unexpired sessions, newest first.
func (r *SessionRepo) ListForUser(ctx context.Context, userID int64, now time.Time) ([]domain.RefreshSession, error) {
	query := `
	SELECT ` + sessionSelectFields + `
	FROM refresh_sessions
	WHERE user_id = $1 AND expires_at > $2
	ORDER BY created_at DESC;
	`
	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.RefreshSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return sessions, nil
}

// DeleteExpired removes sessions past their expiry and reports how many.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_sessions WHERE expires_at <= $1;`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
