package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

func TestStore_CaseInsensitiveUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.Users().Create(ctx, &domain.User{Username: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = s.Users().Create(ctx, &domain.User{Username: "ALICE", Email: "other@example.com"})
	var conflict *repository.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, repository.ConstraintUsername, conflict.Constraint)

	u, err := s.Users().GetByEmail(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)
}

func TestStore_RollbackRestoresState(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithAuthTx(ctx, func(ctx context.Context, tx repository.AuthTx) error {
		_, err := tx.Users().Create(ctx, &domain.User{Username: "bob", Email: "bob@example.com"})
		require.NoError(t, err)
		return errors.New("abort")
	})
	require.Error(t, err)

	_, err = s.Users().GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_ConsumeOnce(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Sessions().Create(ctx, &domain.RefreshSession{ID: "sid", HashedToken: "h", UserID: 1, ExpiresAt: now.Add(time.Hour)}))
	assert.ErrorIs(t, s.Sessions().Consume(ctx, "sid", "wrong", now), repository.ErrNotFound)
	require.NoError(t, s.Sessions().Consume(ctx, "sid", "h", now))
	assert.ErrorIs(t, s.Sessions().Consume(ctx, "sid", "h", now), repository.ErrNotFound)
}

func TestStore_DeleteExpired(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Sessions().Create(ctx, &domain.RefreshSession{ID: "old", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, s.Sessions().Create(ctx, &domain.RefreshSession{ID: "new", ExpiresAt: now.Add(time.Minute)}))

	n, err := s.Sessions().DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, s.SessionCount())
}

func TestStore_WriteOutsideTxSurvivesRollback(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id, err := s.Users().Create(ctx, &domain.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	inTx := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- s.WithAuthTx(ctx, func(ctx context.Context, tx repository.AuthTx) error {
			close(inTx)
			<-release
			return errors.New("abort")
		})
	}()
	<-inTx

	touchedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	touched := make(chan error, 1)
	go func() { touched <- s.Users().TouchLastLogin(ctx, id, touchedAt) }()

	time.Sleep(20 * time.Millisecond)
	close(release)

	require.Error(t, <-txDone)
	require.NoError(t, <-touched)

	u, err := s.Users().GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, touchedAt.Equal(u.LastLoginAt))
}
