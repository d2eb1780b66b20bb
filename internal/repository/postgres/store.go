package postgres

import (
	"context"
	"database/sql"

	"github.com/kloda-app/kloda/backend/internal/dbx"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

// Store vends repositories bound either to the pool or to a transaction.
type Store struct {
	db *sql.DB
	q  dbx.DBTX
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Users() repository.UserRepository          { return NewUserRepo(s.q) }
func (s *Store) Sessions() repository.SessionRepository    { return NewSessionRepo(s.q) }
func (s *Store) Cards() repository.CardRepository          { return NewCardRepo(s.q) }
func (s *Store) Categories() repository.CategoryRepository { return NewCategoryRepo(s.q) }
func (s *Store) Reactions() repository.ReactionRepository  { return NewReactionRepo(s.q) }
func (s *Store) Stats() repository.StatsRepository         { return NewStatsRepo(s.q) }

func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, q dbx.DBTX) error {
		return fn(ctx, &Store{db: s.db, q: q})
	})
}

func (s *Store) WithAuthTx(ctx context.Context, fn func(ctx context.Context, tx repository.AuthTx) error) error {
	return s.withTx(ctx, func(ctx context.Context, tx *Store) error { return fn(ctx, tx) })
}

func (s *Store) WithCardTx(ctx context.Context, fn func(ctx context.Context, tx repository.CardTx) error) error {
	return s.withTx(ctx, func(ctx context.Context, tx *Store) error { return fn(ctx, tx) })
}

var (
	_ repository.AuthStore = (*Store)(nil)
	_ repository.CardStore = (*Store)(nil)
)
