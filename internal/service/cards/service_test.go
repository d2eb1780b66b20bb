package cards

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kloda-app/kloda/backend/internal/domain"
)

const (
	alice int64 = 1
	bob   int64 = 2
)

func newTestService(sheets SheetsReader) (*Service, *fakeStore, *fakeCache) {
	store := newFakeStore()
	cache := &fakeCache{}
	svc := NewService(store, sheets, cache, 3)
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	return svc, store, cache
}

func createCard(t *testing.T, svc *Service, author int64, title string, categories ...string) *domain.Card {
	t.Helper()
	card, err := svc.Create(context.Background(), author, domain.CardInput{Title: title, Content: title + " content", Categories: categories})
	require.NoError(t, err)
	return card
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{" Go ", "go", "", "  ", "Databases"})
	assert.Equal(t, []domain.Category{
		{Name: "go", DisplayName: "Go"},
		{Name: "databases", DisplayName: "Databases"},
	}, got)
}

func TestCreate_AttachesCategoriesAndInvalidatesCache(t *testing.T) {
	svc, _, cache := newTestService(nil)

	card := createCard(t, svc, alice, "  Goroutines ", "Go", "Concurrency")

	assert.Equal(t, "Goroutines", card.Title)
	assert.Equal(t, alice, card.AuthorID)
	assert.Len(t, card.Categories, 2)
	require.NotNil(t, card.IsFavorite)
	assert.False(t, *card.IsFavorite)
	assert.Contains(t, cache.deleted, "stats")
	assert.Contains(t, cache.deleted, "categories")
}

func TestList_AnonymousViewerHasNoPersonalFlags(t *testing.T) {
	svc, _, _ := newTestService(nil)
	createCard(t, svc, alice, "One")
	createCard(t, svc, alice, "Two")

	page, err := svc.List(context.Background(), domain.CardQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCards)
	assert.Equal(t, 1, page.TotalPages)
	for _, c := range page.Cards {
		assert.Nil(t, c.IsLiked)
		assert.NotNil(t, c.Categories)
	}

	page, err = svc.List(context.Background(), domain.CardQuery{Page: 2, Limit: 1, ViewerID: bob})
	require.NoError(t, err)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, 2, page.TotalPages)
	assert.NotNil(t, page.Cards[0].IsLiked)
}

func TestGet_WrapsAroundAndFallsBackToFirst(t *testing.T) {
	svc, _, _ := newTestService(nil)
	first := createCard(t, svc, alice, "A", "go")
	createCard(t, svc, alice, "B", "rust")
	last := createCard(t, svc, alice, "C", "Go")

	pos, err := svc.Get(context.Background(), first.ID, []string{"GO"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pos.CardPosition)
	assert.Equal(t, last.ID, pos.PrevCardID)
	assert.Equal(t, last.ID, pos.NextCardID)
	assert.Equal(t, 2, pos.TotalCards)

	pos, err = svc.Get(context.Background(), 999, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, first.ID, pos.Card.ID)

	_, err = svc.Get(context.Background(), first.ID, []string{"haskell"}, 0)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, domain.MsgCardsNotFound, domain.AsError(err).Message)
}

func TestRandom(t *testing.T) {
	svc, _, _ := newTestService(nil)
	only := createCard(t, svc, alice, "Only")

	_, err := svc.Random(context.Background(), only.ID, nil, 0)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	other := createCard(t, svc, alice, "Other")
	card, err := svc.Random(context.Background(), only.ID, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, other.ID, card.ID)
}

func TestUpdate_OnlyAuthorAndPrunesCategories(t *testing.T) {
	svc, store, _ := newTestService(nil)
	card := createCard(t, svc, alice, "Old", "Legacy")

	_, err := svc.Update(context.Background(), card.ID, bob, domain.CardInput{Title: "Hijack", Content: "x"})
	require.Error(t, err)
	assert.Equal(t, "Card ID 1 not found", domain.AsError(err).Message)

	updated, err := svc.Update(context.Background(), card.ID, alice, domain.CardInput{Title: "New", Content: "Body", Categories: []string{"Fresh"}})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, []domain.Category{{Name: "fresh", DisplayName: "Fresh"}}, updated.Categories)
	assert.NotContains(t, store.categories, "legacy")
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService(nil)
	card := createCard(t, svc, alice, "Mine")

	err := svc.Delete(context.Background(), card.ID, bob)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	require.NoError(t, svc.Delete(context.Background(), card.ID, alice))
	err = svc.Delete(context.Background(), card.ID, alice)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestDeleteAll(t *testing.T) {
	svc, _, _ := newTestService(nil)
	createCard(t, svc, alice, "One")
	createCard(t, svc, alice, "Two")
	createCard(t, svc, bob, "Three")

	n, err := svc.DeleteAll(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = svc.DeleteAll(context.Background(), alice)
	assert.Equal(t, domain.MsgCardsNotFound, domain.AsError(err).Message)
}

func TestReact_LikeAndDislikeExcludeEachOther(t *testing.T) {
	svc, _, _ := newTestService(nil)
	card := createCard(t, svc, alice, "Card")
	ctx := context.Background()

	liked, err := svc.React(ctx, bob, card.ID, domain.ReactionLike)
	require.NoError(t, err)
	assert.True(t, liked)

	disliked, err := svc.React(ctx, bob, card.ID, domain.ReactionDislike)
	require.NoError(t, err)
	assert.True(t, disliked)

	got, err := svc.Random(ctx, 0, nil, bob)
	require.NoError(t, err)
	assert.False(t, *got.IsLiked)
	assert.True(t, *got.IsDisliked)

	disliked, err = svc.React(ctx, bob, card.ID, domain.ReactionDislike)
	require.NoError(t, err)
	assert.False(t, disliked)

	_, err = svc.React(ctx, bob, 404, domain.ReactionFavorite)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestExport(t *testing.T) {
	svc, _, _ := newTestService(nil)
	author := domain.UserProfile{ID: alice, Username: "alice"}

	_, err := svc.Export(context.Background(), author)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	createCard(t, svc, alice, "Quoted, \"title\"", "Go", "SQL")
	createCard(t, svc, bob, "Not mine")

	export, err := svc.Export(context.Background(), author)
	require.NoError(t, err)
	assert.Equal(t, "Kloda - alice created cards (2026-10-15).csv", export.Filename)

	records, err := csv.NewReader(strings.NewReader(string(export.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{"1", "Quoted, \"title\"", "Quoted, \"title\" content", "Go, SQL", "2026-03-01", "2026-03-01"}, records[1])
}

func TestImport(t *testing.T) {
	rows := [][]string{
		{"#", "Title", "Content", "Categories"},
		{"1", " Channels ", "Typed conduits", "Go, Concurrency"},
		{"2", "", "No title", "Go"},
		{"3", "Too short"},
	}
	svc, store, cache := newTestService(fakeSheets{rows: rows})

	n, err := svc.Import(context.Background(), alice, domain.ImportRequest{SkipFirstRow: true, SkipFirstColumn: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.cards, 1)
	assert.Equal(t, "Channels", store.cards[1].Title)
	assert.ElementsMatch(t, []string{"go", "concurrency"}, store.links[1])
	assert.NotEmpty(t, cache.deleted)
}

func TestImport_Errors(t *testing.T) {
	upstream := domain.NewUpstream(403, "Failed to fetch spreadsheet: denied")

	tests := []struct {
		name    string
		sheets  fakeSheets
		req     domain.ImportRequest
		kind    domain.ErrorKind
		message string
	}{
		{"upstream", fakeSheets{err: upstream}, domain.ImportRequest{}, domain.KindUpstream, upstream.Message},
		{"only header", fakeSheets{rows: [][]string{{"Title"}}}, domain.ImportRequest{SkipFirstRow: true}, domain.KindValidation, MsgRowsNotFound},
		{"empty", fakeSheets{rows: [][]string{}}, domain.ImportRequest{}, domain.KindValidation, MsgRowsNotFound},
		{"over limit", fakeSheets{rows: make([][]string, 4)}, domain.ImportRequest{}, domain.KindValidation, "Import cards limit exceeded: 4/3"},
		{"transport", fakeSheets{err: errors.New("dial tcp: timeout")}, domain.ImportRequest{}, domain.KindInternal, domain.MsgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(tt.sheets)
			_, err := svc.Import(context.Background(), alice, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
			assert.Equal(t, tt.message, domain.AsError(err).Message)
		})
	}
}
