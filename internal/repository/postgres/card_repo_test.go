package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

var cardColumns = []string{"id", "title", "content", "favorites", "likes", "dislikes", "author_id", "created_at", "updated_at", "is_favorite", "is_liked", "is_disliked"}

func TestCardRepo_List_Filters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCardRepo(db)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT\s+COUNT\(\*\)\s+FROM\s+cards\s+c\s+WHERE\s+\(c\.title\s+ILIKE\s+\$1\s+OR\s+c\.content\s+ILIKE\s+\$2\)\s+AND\s+EXISTS.*cat\.name\s*=\s*ANY\(\$3\)\).*AND\s+EXISTS\s+\(SELECT\s+1\s+FROM\s+liked_cards\s+x.*x\.user_id\s*=\s*\$4\);`).
		WithArgs("%go%", "%go%", sqlmock.AnyArg(), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`(?s)FROM\s+cards\s+c\s+WHERE\s+\(c\.title\s+ILIKE\s+\$2.*x\.user_id\s*=\s*\$5\)\s+ORDER\s+BY\s+c\.likes\s+ASC,\s+c\.id\s+ASC\s+LIMIT\s+\$6\s+OFFSET\s+\$7;`).
		WithArgs(int64(9), "%go%", "%go%", sqlmock.AnyArg(), int64(5), 10, 0).
		WillReturnRows(sqlmock.NewRows(cardColumns).AddRow(int64(1), "Go", "Gophers", 0, 2, 0, int64(5), now, now, false, true, false))

	cards, total, err := repo.List(context.Background(), domain.CardQuery{
		Search: "go", Page: 1, Limit: 10, Order: "asc", Sort: "likes",
		Categories: []string{"golang"}, UserID: 5, Action: domain.ActionLiked, ViewerID: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, cards, 1)
	assert.True(t, *cards[0].IsLiked)
	assert.Empty(t, cards[0].Categories)
	expectationsMet(t, mock)
}

func TestCardRepo_List_NoFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCardRepo(db)

	mock.ExpectQuery(`^SELECT\s+COUNT\(\*\)\s+FROM\s+cards\s+c;$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)FROM\s+cards\s+c\s+ORDER\s+BY\s+c\.created_at\s+DESC,\s+c\.id\s+DESC\s+LIMIT\s+\$2\s+OFFSET\s+\$3;`).
		WithArgs(int64(0), 10, 10).
		WillReturnRows(sqlmock.NewRows(cardColumns))

	cards, _, err := repo.List(context.Background(), domain.CardQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
	expectationsMet(t, mock)
}

func TestCardRepo_Get_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCardRepo(db)

	mock.ExpectQuery(`(?s)FROM\s+cards\s+c\s+WHERE\s+c\.id\s*=\s*\$2;`).
		WithArgs(int64(0), int64(7)).
		WillReturnRows(sqlmock.NewRows(cardColumns))

	_, err := repo.Get(context.Background(), 7, 0)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	expectationsMet(t, mock)
}

func TestCardRepo_Position_FallsBackToFirst(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCardRepo(db)

	mock.ExpectQuery(`(?s)WITH\s+filtered.*cat\.name\s*=\s*ANY\(\$1\).*FROM\s+filtered\s+WHERE\s+id\s*=\s*\$2;`).
		WithArgs(sqlmock.AnyArg(), int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "position", "prev", "next", "total"}))
	mock.ExpectQuery(`(?s)WITH\s+filtered.*FROM\s+filtered\s+ORDER\s+BY\s+position\s+LIMIT\s+1;`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "position", "prev", "next", "total"}).AddRow(int64(3), 1, int64(8), int64(5), 3))

	p, err := repo.Position(context.Background(), 99, []string{"go"})
	require.NoError(t, err)
	assert.Equal(t, repository.CardPosition{ID: 3, Position: 1, PrevID: 8, NextID: 5, Total: 3}, *p)
	expectationsMet(t, mock)
}

func TestCardRepo_RandomID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCardRepo(db)

	mock.ExpectQuery(`(?s)SELECT\s+c\.id\s+FROM\s+cards\s+c\s+WHERE\s+c\.id\s*<>\s*\$1\s+ORDER\s+BY\s+random\(\)\s+LIMIT\s+1;`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.RandomID(context.Background(), 4, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	expectationsMet(t, mock)
}

func TestCardRepo_Update_NotOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCardRepo(db)

	mock.ExpectExec(`(?s)UPDATE\s+cards\s+SET\s+title\s*=\s*\$3,\s*content\s*=\s*\$4.*WHERE\s+id\s*=\s*\$1\s+AND\s+author_id\s*=\s*\$2`).
		WithArgs(int64(1), int64(2), "t", "c").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Update(context.Background(), 1, 2, "t", "c"), repository.ErrNotFound)
	expectationsMet(t, mock)
}

func TestCardRepo_DeleteByAuthor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCardRepo(db)

	mock.ExpectExec(`DELETE\s+FROM\s+cards\s+WHERE\s+author_id\s*=\s*\$1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteByAuthor(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	expectationsMet(t, mock)
}
