// Package memory is an in-process AuthStore for tests. Transactions are
// serialized and rolled back by restoring a snapshot; writes made outside a
// transaction wait for the running one so a rollback cannot discard them.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

type Store struct {
	txMu sync.Mutex

	mu       sync.Mutex
	users    map[int64]domain.User
	sessions map[string]domain.RefreshSession
	nextID   int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]domain.User),
		sessions: make(map[string]domain.RefreshSession),
	}
}

func (s *Store) Users() repository.UserRepository {
	return lockedUsers{UserRepository: (*userRepo)(s), txMu: &s.txMu}
}

func (s *Store) Sessions() repository.SessionRepository {
	return lockedSessions{SessionRepository: (*sessionRepo)(s), txMu: &s.txMu}
}

func (s *Store) WithAuthTx(ctx context.Context, fn func(ctx context.Context, tx repository.AuthTx) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	users, sessions, nextID := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(users, sessions, nextID)
			panic(p)
		}
		if err != nil {
			s.restore(users, sessions, nextID)
		}
	}()
	return fn(ctx, (*txView)(s))
}

// txView hands out the unlocked repositories to code already holding txMu.
type txView Store

func (t *txView) Users() repository.UserRepository       { return (*userRepo)(t) }
func (t *txView) Sessions() repository.SessionRepository { return (*sessionRepo)(t) }

func (s *Store) snapshot() (map[int64]domain.User, map[string]domain.RefreshSession, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make(map[int64]domain.User, len(s.users))
	for k, v := range s.users {
		users[k] = v
	}
	sessions := make(map[string]domain.RefreshSession, len(s.sessions))
	for k, v := range s.sessions {
		sessions[k] = v
	}
	return users, sessions, s.nextID
}

func (s *Store) restore(users map[int64]domain.User, sessions map[string]domain.RefreshSession, nextID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.sessions, s.nextID = users, sessions, nextID
}

// SessionCount reports how many sessions are stored.
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

var _ repository.AuthStore = (*Store)(nil)

// lockedUsers runs each write as its own transaction.
type lockedUsers struct {
	repository.UserRepository
	txMu *sync.Mutex
}

func (r lockedUsers) Create(ctx context.Context, user *domain.User) (int64, error) {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return r.UserRepository.Create(ctx, user)
}

func (r lockedUsers) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return r.UserRepository.TouchLastLogin(ctx, id, at)
}

type lockedSessions struct {
	repository.SessionRepository
	txMu *sync.Mutex
}

func (r lockedSessions) Create(ctx context.Context, session *domain.RefreshSession) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return r.SessionRepository.Create(ctx, session)
}

func (r lockedSessions) Consume(ctx context.Context, id, hashedToken string, now time.Time) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return r.SessionRepository.Consume(ctx, id, hashedToken, now)
}

func (r lockedSessions) DeleteForUser(ctx context.Context, userID int64, id string) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return r.SessionRepository.DeleteForUser(ctx, userID, id)
}

func (r lockedSessions) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return r.SessionRepository.DeleteAllForUser(ctx, userID)
}

func (r lockedSessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return r.SessionRepository.DeleteExpired(ctx, now)
}

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) {
			return 0, &repository.ConflictError{Constraint: repository.ConstraintUsername}
		}
		if strings.EqualFold(u.Email, user.Email) {
			return 0, &repository.ConflictError{Constraint: repository.ConstraintEmail}
		}
	}

	r.nextID++
	now := time.Now()
	user.ID = r.nextID
	user.RegisteredAt, user.LastLoginAt = now, now
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *userRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastLoginAt = at
	r.users[id] = u
	return nil
}

func profile(u domain.User) domain.UserProfile {
	return domain.UserProfile{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		RegisteredAt: u.RegisteredAt,
		LastLoginAt:  u.LastLoginAt,
	}
}

// GetProfile returns zero card counts; cards are not kept in memory.
func (r *userRepo) GetProfile(ctx context.Context, id int64) (*domain.UserProfile, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := profile(*u)
	return &p, nil
}

func (r *userRepo) List(_ context.Context, q domain.UserQuery) ([]domain.UserProfile, int, error) {
	r.mu.Lock()
	var matched []domain.UserProfile
	search := strings.ToLower(q.Search)
	for _, u := range r.users {
		if search == "" || strings.Contains(strings.ToLower(u.Username), search) || strings.Contains(strings.ToLower(u.Email), search) {
			matched = append(matched, profile(u))
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if strings.EqualFold(q.Order, "asc") {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return append([]domain.UserProfile{}, matched[start:end]...), total, nil
}

type sessionRepo Store

func (r *sessionRepo) Create(_ context.Context, s *domain.RefreshSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *sessionRepo) Get(_ context.Context, id string) (*domain.RefreshSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *sessionRepo) Consume(_ context.Context, id, hashedToken string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.HashedToken != hashedToken || !s.ExpiresAt.After(now) {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *sessionRepo) DeleteForUser(_ context.Context, userID int64, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *sessionRepo) DeleteAllForUser(_ context.Context, userID int64) (int64, error) {
	return r.deleteWhere(func(s domain.RefreshSession) bool { return s.UserID == userID }), nil
}

func (r *sessionRepo) ListForUser(_ context.Context, userID int64, now time.Time) ([]domain.RefreshSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessions := []domain.RefreshSession{}
	for _, s := range r.sessions {
		if s.UserID == userID && s.ExpiresAt.After(now) {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.After(sessions[j].CreatedAt) })
	return sessions, nil
}

func (r *sessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	return r.deleteWhere(func(s domain.RefreshSession) bool { return !s.ExpiresAt.After(now) }), nil
}

func (r *sessionRepo) deleteWhere(match func(domain.RefreshSession) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if match(s) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
