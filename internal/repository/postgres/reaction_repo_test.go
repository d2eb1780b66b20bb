package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kloda-app/kloda/backend/internal/domain"
)

func TestReactionRepo_Like_RemovesDislike(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReactionRepo(db)

	mock.ExpectExec(`DELETE\s+FROM\s+liked_cards`).WithArgs(int64(1), int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT\s+INTO\s+liked_cards.+ON\s+CONFLICT\s+\(user_id,\s*card_id\)\s+DO\s+NOTHING`).WithArgs(int64(1), int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+cards\s+SET\s+likes\s*=\s*GREATEST\(likes\s*\+\s*\$2,\s*0\)`).WithArgs(int64(2), 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+disliked_cards`).WithArgs(int64(1), int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+cards\s+SET\s+dislikes`).WithArgs(int64(2), -1).WillReturnResult(sqlmock.NewResult(0, 1))

	liked, err := repo.Toggle(context.Background(), 1, 2, domain.ReactionLike)
	require.NoError(t, err)
	assert.True(t, liked)
	expectationsMet(t, mock)
}

func TestReactionRepo_ConcurrentInsertIsNoop(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReactionRepo(db)

	mock.ExpectExec(`DELETE\s+FROM\s+favorite_cards`).WithArgs(int64(1), int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT\s+INTO\s+favorite_cards.+ON\s+CONFLICT`).WithArgs(int64(1), int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	fav, err := repo.Toggle(context.Background(), 1, 2, domain.ReactionFavorite)
	require.NoError(t, err)
	assert.True(t, fav)
	expectationsMet(t, mock)
}

func TestReactionRepo_Favorite_ToggleOff(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReactionRepo(db)

	mock.ExpectExec(`DELETE\s+FROM\s+favorite_cards`).WithArgs(int64(1), int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+cards\s+SET\s+favorites`).WithArgs(int64(2), -1).WillReturnResult(sqlmock.NewResult(0, 1))

	fav, err := repo.Toggle(context.Background(), 1, 2, domain.ReactionFavorite)
	require.NoError(t, err)
	assert.False(t, fav)
	expectationsMet(t, mock)
}

func TestReactionRepo_UnknownReaction(t *testing.T) {
	db, _ := newMock(t)
	_, err := NewReactionRepo(db).Toggle(context.Background(), 1, 2, domain.Reaction("love"))
	assert.Error(t, err)
}
