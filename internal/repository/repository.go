// Package repository declares the persistence contracts used by the services.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kloda-app/kloda/backend/internal/domain"
)

var (
	// ErrNotFound is returned when a row does not exist or does not belong to the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("conflict")
)

// Constraint names surfaced through ConflictError.
const (
	ConstraintUsername = "users_username_lower_idx"
	ConstraintEmail    = "users_email_lower_idx"
)

// ConflictError reports which unique constraint was violated. It matches ErrConflict.
type ConflictError struct {
	Constraint string
	Err        error
}

func (e *ConflictError) Error() string {
	return "unique constraint " + e.Constraint + " violated"
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func (e *ConflictError) Unwrap() error { return e.Err }

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByUsername and GetByEmail compare case-insensitively.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	GetProfile(ctx context.Context, id int64) (*domain.UserProfile, error)
	List(ctx context.Context, q domain.UserQuery) ([]domain.UserProfile, int, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.RefreshSession) error
	Get(ctx context.Context, id string) (*domain.RefreshSession, error)
	// Consume deletes the session only if it still carries hashedToken and has
	// not expired. It returns ErrNotFound when no row was deleted.
	Consume(ctx context.Context, id, hashedToken string, now time.Time) error
	DeleteForUser(ctx context.Context, userID int64, id string) error
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
	ListForUser(ctx context.Context, userID int64, now time.Time) ([]domain.RefreshSession, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CardPosition locates a card in an id-ordered filtered set.
type CardPosition struct {
	ID       int64
	Position int
	PrevID   int64
	NextID   int64
	Total    int
}

type CardRepository interface {
	List(ctx context.Context, q domain.CardQuery) ([]domain.Card, int, error)
	Get(ctx context.Context, id, viewerID int64) (*domain.Card, error)
	// Position returns the card's place among the cards matching categories.
	// When id is not in the set the first card of the set is returned.
	Position(ctx context.Context, id int64, categories []string) (*CardPosition, error)
	RandomID(ctx context.Context, excludeID int64, categories []string) (int64, error)
	Create(ctx context.Context, authorID int64, title, content string) (int64, error)
	Update(ctx context.Context, id, authorID int64, title, content string) error
	Delete(ctx context.Context, id, authorID int64) error
	DeleteByAuthor(ctx context.Context, authorID int64) (int64, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Card, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type CategoryRepository interface {
	// Attach upserts the categories and links them to the card.
	Attach(ctx context.Context, cardID int64, categories []domain.Category) error
	Detach(ctx context.Context, cardID int64) error
	DeleteEmpty(ctx context.Context) (int64, error)
	ListWithCounts(ctx context.Context) ([]domain.CategoryCount, error)
	ForCards(ctx context.Context, cardIDs []int64) (map[int64][]domain.Category, error)
}

type ReactionRepository interface {
	// Toggle flips the user's reaction on the card and keeps the card counters
	// in sync. Like and dislike exclude each other. It reports whether the
	// reaction is set afterwards.
	Toggle(ctx context.Context, userID, cardID int64, reaction domain.Reaction) (bool, error)
}

type StatsRepository interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

// AuthTx is the set of repositories the auth flow uses inside one transaction.
type AuthTx interface {
	Users() UserRepository
	Sessions() SessionRepository
}

type AuthStore interface {
	AuthTx
	WithAuthTx(ctx context.Context, fn func(ctx context.Context, tx AuthTx) error) error
}

// CardTx is the set of repositories card writes use inside one transaction.
type CardTx interface {
	Cards() CardRepository
	Categories() CategoryRepository
	Reactions() ReactionRepository
}

type CardStore interface {
	CardTx
	WithCardTx(ctx context.Context, fn func(ctx context.Context, tx CardTx) error) error
}

// Cache stores short-lived serialized values. Implementations may be no-ops.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ErrCacheMiss is returned by Cache.Get for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// Cache keys shared by the readers and the writers that invalidate them.
const (
	CacheKeyStats      = "stats"
	CacheKeyCategories = "categories"
)
