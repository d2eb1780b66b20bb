package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kloda-app/kloda/backend/internal/repository"
)

func TestStore_WithAuthTx_Commits(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+refresh_sessions\s+WHERE\s+user_id`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := store.WithAuthTx(context.Background(), func(ctx context.Context, tx repository.AuthTx) error {
		_, err := tx.Sessions().DeleteAllForUser(ctx, 1)
		return err
	})
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestStore_WithCardTx_RollsBack(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := store.WithCardTx(context.Background(), func(ctx context.Context, tx repository.CardTx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	expectationsMet(t, mock)
}

func TestRunMigrations(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("bad migration")
	}
	assert.ErrorContains(t, RunMigrations(context.Background(), db), "bad migration")
}

func TestFilter_SQL(t *testing.T) {
	var f filter
	assert.Equal(t, "", f.sql(0))

	f.add("a = ?", 1)
	f.add("(b = ? OR c = ?)", 2, 3)
	assert.Equal(t, " WHERE a = $2 AND (b = $3 OR c = $4)", f.sql(1))
	assert.Equal(t, []any{1, 2, 3}, f.args)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, likePattern("50% off_now"))
}
