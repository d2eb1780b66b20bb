package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kloda-app/kloda/backend/internal/dbx"
	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

type UserRepo struct {
	db dbx.DBTX
}

func NewUserRepo(db dbx.DBTX) *UserRepo {
	return &UserRepo{db: db}
}

const userSelectFields = `id, username, email, hashed_password, registered_at, last_login_at`

const profileSelectFields = `u.id, u.username, u.email, u.registered_at, u.last_login_at,
	(SELECT COUNT(*) FROM cards c WHERE c.author_id = u.id) AS created_cards_count,
	(SELECT COUNT(*) FROM favorite_cards f WHERE f.user_id = u.id) AS favorite_cards_count,
	(SELECT COUNT(*) FROM liked_cards l WHERE l.user_id = u.id) AS liked_cards_count,
	(SELECT COUNT(*) FROM disliked_cards d WHERE d.user_id = u.id) AS disliked_cards_count`

var userSortColumns = map[string]string{
	"id":           "u.id",
	"username":     "u.username",
	"email":        "u.email",
	"registeredAt": "u.registered_at",
	"lastLoginAt":  "u.last_login_at",
}

func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.RegisteredAt,
		&user.LastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func scanProfile(row interface{ Scan(dest ...any) error }) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Email,
		&p.RegisteredAt,
		&p.LastLoginAt,
		&p.CreatedCardsCount,
		&p.FavoriteCardsCount,
		&p.LikedCardsCount,
		&p.DislikedCardsCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the user and returns its id. Case-insensitive duplicates
// fail with a *repository.ConflictError naming the violated index.
func (r *UserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	query := `
	INSERT INTO users (username, email, hashed_password)
	VALUES ($1, $2, $3)
	RETURNING id, registered_at, last_login_at;
	`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.HashedPassword).
		Scan(&user.ID, &user.RegisteredAt, &user.LastLoginAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", asConflict(err))
	}
	return user.ID, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userSelectFields + ` FROM users WHERE id = $1;`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userSelectFields + ` FROM users WHERE lower(username) = lower($1);`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userSelectFields + ` FROM users WHERE lower(email) = lower($1);`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
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

func (r *UserRepo) GetProfile(ctx context.Context, id int64) (*domain.UserProfile, error) {
	query := `SELECT ` + profileSelectFields + ` FROM users u WHERE u.id = $1;`
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return p, nil
}

// List returns one page of profiles and the total number of matching users.
func (r *UserRepo) List(ctx context.Context, q domain.UserQuery) ([]domain.UserProfile, int, error) {
	var where filter
	if q.Search != "" {
		pattern := likePattern(q.Search)
		where.add("(u.username ILIKE ? OR u.email ILIKE ?)", pattern, pattern)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users u` + where.sql(0) + `;`
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	sortColumn, ok := userSortColumns[q.Sort]
	if !ok {
		sortColumn = userSortColumns["registeredAt"]
	}
	args := append(where.args, q.Limit, (q.Page-1)*q.Limit)
	query := fmt.Sprintf(`SELECT %s FROM users u%s ORDER BY %s %s, u.id %s LIMIT $%d OFFSET $%d;`,
		profileSelectFields, where.sql(0), sortColumn, sqlOrder(q.Order), sqlOrder(q.Order), len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.UserProfile, 0, q.Limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, total, nil
}

func sqlOrder(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}
