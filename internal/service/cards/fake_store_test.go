package cards

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

// fakeStore is a small in-memory CardStore for service tests.
type fakeStore struct {
	cards      map[int64]domain.Card
	nextID     int64
	categories map[string]domain.Category
	links      map[int64][]string
	reactions  map[domain.Reaction]map[[2]int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cards:      map[int64]domain.Card{},
		categories: map[string]domain.Category{},
		links:      map[int64][]string{},
		reactions: map[domain.Reaction]map[[2]int64]bool{
			domain.ReactionLike:     {},
			domain.ReactionDislike:  {},
			domain.ReactionFavorite: {},
		},
	}
}

func (s *fakeStore) Cards() repository.CardRepository          { return (*fakeCards)(s) }
func (s *fakeStore) Categories() repository.CategoryRepository { return (*fakeCategories)(s) }
func (s *fakeStore) Reactions() repository.ReactionRepository  { return (*fakeReactions)(s) }

func (s *fakeStore) WithCardTx(ctx context.Context, fn func(ctx context.Context, tx repository.CardTx) error) error {
	return fn(ctx, s)
}

func (s *fakeStore) sortedIDs(categories []string) []int64 {
	var ids []int64
	for id := range s.cards {
		if len(categories) == 0 || s.hasAny(id, categories) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *fakeStore) hasAny(id int64, categories []string) bool {
	for _, linked := range s.links[id] {
		for _, c := range categories {
			if linked == c {
				return true
			}
		}
	}
	return false
}

type fakeCards fakeStore

func (r *fakeCards) store() *fakeStore { return (*fakeStore)(r) }

func (r *fakeCards) List(_ context.Context, q domain.CardQuery) ([]domain.Card, int, error) {
	var out []domain.Card
	for _, id := range r.store().sortedIDs(q.Categories) {
		c := r.withFlags(r.cards[id], q.ViewerID)
		if q.Search != "" && !strings.Contains(strings.ToLower(c.Title+" "+c.Content), strings.ToLower(q.Search)) {
			continue
		}
		if q.Action == domain.ActionCreated && c.AuthorID != q.UserID {
			continue
		}
		out = append(out, c)
	}
	total := len(out)
	start := min((q.Page-1)*q.Limit, total)
	end := min(start+q.Limit, total)
	return out[start:end], total, nil
}

func (r *fakeCards) withFlags(c domain.Card, viewerID int64) domain.Card {
	key := [2]int64{viewerID, c.ID}
	fav, like, dislike := r.reactions[domain.ReactionFavorite][key], r.reactions[domain.ReactionLike][key], r.reactions[domain.ReactionDislike][key]
	c.IsFavorite, c.IsLiked, c.IsDisliked = &fav, &like, &dislike
	return c
}

func (r *fakeCards) Get(_ context.Context, id, viewerID int64) (*domain.Card, error) {
	c, ok := r.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c = r.withFlags(c, viewerID)
	return &c, nil
}

func (r *fakeCards) Position(_ context.Context, id int64, categories []string) (*repository.CardPosition, error) {
	ids := r.store().sortedIDs(categories)
	if len(ids) == 0 {
		return nil, repository.ErrNotFound
	}
	idx := 0
	for i, v := range ids {
		if v == id {
			idx = i
		}
	}
	n := len(ids)
	return &repository.CardPosition{
		ID:       ids[idx],
		Position: idx + 1,
		PrevID:   ids[(idx-1+n)%n],
		NextID:   ids[(idx+1)%n],
		Total:    n,
	}, nil
}

func (r *fakeCards) RandomID(_ context.Context, excludeID int64, categories []string) (int64, error) {
	for _, id := range r.store().sortedIDs(categories) {
		if id != excludeID {
			return id, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (r *fakeCards) Create(_ context.Context, authorID int64, title, content string) (int64, error) {
	r.nextID++
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.cards[r.nextID] = domain.Card{ID: r.nextID, Title: title, Content: content, AuthorID: authorID, CreatedAt: now, UpdatedAt: now}
	return r.nextID, nil
}

func (r *fakeCards) Update(_ context.Context, id, authorID int64, title, content string) error {
	c, ok := r.cards[id]
	if !ok || c.AuthorID != authorID {
		return repository.ErrNotFound
	}
	c.Title, c.Content = title, content
	r.cards[id] = c
	return nil
}

func (r *fakeCards) Delete(_ context.Context, id, authorID int64) error {
	c, ok := r.cards[id]
	if !ok || c.AuthorID != authorID {
		return repository.ErrNotFound
	}
	delete(r.cards, id)
	delete(r.links, id)
	return nil
}

func (r *fakeCards) DeleteByAuthor(_ context.Context, authorID int64) (int64, error) {
	var n int64
	for id, c := range r.cards {
		if c.AuthorID == authorID {
			delete(r.cards, id)
			delete(r.links, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeCards) ListByAuthor(_ context.Context, authorID int64) ([]domain.Card, error) {
	var out []domain.Card
	for _, id := range r.store().sortedIDs(nil) {
		if c := r.cards[id]; c.AuthorID == authorID {
			out = append(out, r.withFlags(c, authorID))
		}
	}
	return out, nil
}

func (r *fakeCards) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.cards[id]
	return ok, nil
}

type fakeCategories fakeStore

func (r *fakeCategories) Attach(_ context.Context, cardID int64, categories []domain.Category) error {
	for _, c := range categories {
		if _, ok := r.categories[c.Name]; !ok {
			r.categories[c.Name] = c
		}
		r.links[cardID] = append(r.links[cardID], c.Name)
	}
	return nil
}

func (r *fakeCategories) Detach(_ context.Context, cardID int64) error {
	delete(r.links, cardID)
	return nil
}

func (r *fakeCategories) DeleteEmpty(_ context.Context) (int64, error) {
	used := map[string]bool{}
	for _, names := range r.links {
		for _, n := range names {
			used[n] = true
		}
	}
	var n int64
	for name := range r.categories {
		if !used[name] {
			delete(r.categories, name)
			n++
		}
	}
	return n, nil
}

func (r *fakeCategories) ListWithCounts(_ context.Context) ([]domain.CategoryCount, error) {
	var out []domain.CategoryCount
	for _, c := range r.categories {
		count := 0
		for _, names := range r.links {
			for _, n := range names {
				if n == c.Name {
					count++
				}
			}
		}
		out = append(out, domain.CategoryCount{Name: c.Name, DisplayName: c.DisplayName, CardsCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategories) ForCards(_ context.Context, cardIDs []int64) (map[int64][]domain.Category, error) {
	out := map[int64][]domain.Category{}
	for _, id := range cardIDs {
		for _, name := range r.links[id] {
			out[id] = append(out[id], r.categories[name])
		}
	}
	return out, nil
}

type fakeReactions fakeStore

var opposite = map[domain.Reaction]domain.Reaction{
	domain.ReactionLike:    domain.ReactionDislike,
	domain.ReactionDislike: domain.ReactionLike,
}

func (r *fakeReactions) Toggle(_ context.Context, userID, cardID int64, reaction domain.Reaction) (bool, error) {
	key := [2]int64{userID, cardID}
	if r.reactions[reaction][key] {
		delete(r.reactions[reaction], key)
		return false, nil
	}
	r.reactions[reaction][key] = true
	if o, ok := opposite[reaction]; ok {
		delete(r.reactions[o], key)
	}
	return true, nil
}

type fakeSheets struct {
	rows [][]string
	err  error
}

func (f fakeSheets) Values(context.Context, string, string) ([][]string, error) {
	return f.rows, f.err
}

type fakeCache struct {
	deleted []string
}

func (c *fakeCache) Get(context.Context, string) (string, error) { return "", repository.ErrCacheMiss }

func (c *fakeCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return nil
}
