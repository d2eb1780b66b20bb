package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kloda-app/kloda/backend/internal/domain"
)

func TestCategoryRepo_Attach(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepo(db)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+categories\s+\(name, display_name\).*unnest\(\$1::text\[\], \$2::text\[\]\)\s+ON\s+CONFLICT\s+\(name\)\s+DO\s+NOTHING`).
		WithArgs("{\"go\",\"sql\"}", "{\"Go\",\"SQL\"}").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`(?s)INSERT\s+INTO\s+cards_to_categories.*name\s*=\s*ANY\(\$2\)`).
		WithArgs(int64(1), "{\"go\",\"sql\"}").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.Attach(context.Background(), 1, []domain.Category{{Name: "go", DisplayName: "Go"}, {Name: "sql", DisplayName: "SQL"}})
	require.NoError(t, err)
	expectationsMet(t, mock)
}

func TestCategoryRepo_Attach_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepo(db)

	require.NoError(t, repo.Attach(context.Background(), 1, nil))
	expectationsMet(t, mock)
}

func TestCategoryRepo_ListWithCounts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepo(db)

	mock.ExpectQuery(`(?s)SELECT\s+cat\.name,\s+cat\.display_name,\s+COUNT\(cc\.card_id\).*GROUP\s+BY\s+cat\.id`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "display_name", "count"}).AddRow("go", "Go", 3).AddRow("sql", "SQL", 0))

	cats, err := repo.ListWithCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryCount{{Name: "go", DisplayName: "Go", CardsCount: 3}, {Name: "sql", DisplayName: "SQL", CardsCount: 0}}, cats)
	expectationsMet(t, mock)
}

func TestCategoryRepo_ForCards(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepo(db)

	mock.ExpectQuery(`(?s)WHERE\s+cc\.card_id\s*=\s*ANY\(\$1\)`).
		WithArgs("{1,2}").
		WillReturnRows(sqlmock.NewRows([]string{"card_id", "name", "display_name"}).
			AddRow(int64(1), "go", "Go").
			AddRow(int64(1), "sql", "SQL"))

	got, err := repo.ForCards(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, got[1], 2)
	assert.Empty(t, got[2])
	expectationsMet(t, mock)
}

func TestCategoryRepo_DeleteEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepo(db)

	mock.ExpectExec(`(?s)DELETE\s+FROM\s+categories\s+cat\s+WHERE\s+NOT\s+EXISTS`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.DeleteEmpty(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	expectationsMet(t, mock)
}
