// Package cards implements card browsing, authoring, reactions and
// spreadsheet import/export.
package cards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

const (
	MsgRowsNotFound = "Rows not found in sheet"
)

// SheetsReader returns the rows of a spreadsheet sheet.
type SheetsReader interface {
	Values(ctx context.Context, spreadsheetID, sheetName string) ([][]string, error)
}

type Service struct {
	store       repository.CardStore
	sheets      SheetsReader
	cache       repository.Cache
	importLimit int
	now         func() time.Time
}

// NewService returns a card service. cache may be nil.
func NewService(store repository.CardStore, sheets SheetsReader, cache repository.Cache, importLimit int) *Service {
	return &Service{
		store:       store,
		sheets:      sheets,
		cache:       cache,
		importLimit: importLimit,
		now:         time.Now,
	}
}

func cardNotFound(id int64) *domain.Error {
	return domain.NewNotFound(fmt.Sprintf("Card ID %d not found", id))
}

// List returns one page of cards. Personal flags are set only for a signed-in viewer.
func (s *Service) List(ctx context.Context, q domain.CardQuery) (*domain.CardPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Categories = categoryNames(q.Categories)

	cards, total, err := s.store.Cards().List(ctx, q)
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	if err := s.decorate(ctx, cards, q.ViewerID); err != nil {
		return nil, domain.NewInternal(err)
	}

	return &domain.CardPage{
		Cards:      cards,
		TotalCards: total,
		TotalPages: domain.TotalPages(total, q.Limit),
	}, nil
}

// Get returns the card with its position among the cards of the given
// categories, ordered by id with wraparound. When the card is not in the set
// the first card of the set is returned instead.
func (s *Service) Get(ctx context.Context, id int64, categories []string, viewerID int64) (*domain.CardPosition, error) {
	pos, err := s.store.Cards().Position(ctx, id, categoryNames(categories))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewNotFound(domain.MsgCardsNotFound)
	}
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	card, err := s.card(ctx, s.store, pos.ID, viewerID)
	if err != nil {
		return nil, err
	}

	return &domain.CardPosition{
		Card:         *card,
		CardPosition: pos.Position,
		PrevCardID:   pos.PrevID,
		NextCardID:   pos.NextID,
		TotalCards:   pos.Total,
	}, nil
}

// Random returns a random card other than currentID.
func (s *Service) Random(ctx context.Context, currentID int64, categories []string, viewerID int64) (*domain.Card, error) {
	id, err := s.store.Cards().RandomID(ctx, currentID, categoryNames(categories))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewNotFound(domain.MsgCardsNotFound)
	}
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	return s.card(ctx, s.store, id, viewerID)
}

func (s *Service) Create(ctx context.Context, authorID int64, in domain.CardInput) (*domain.Card, error) {
	var card *domain.Card
	err := s.store.WithCardTx(ctx, func(ctx context.Context, tx repository.CardTx) error {
		id, err := tx.Cards().Create(ctx, authorID, strings.TrimSpace(in.Title), strings.TrimSpace(in.Content))
		if err != nil {
			return domain.NewInternal(err)
		}
		if err := tx.Categories().Attach(ctx, id, NormalizeCategories(in.Categories)); err != nil {
			return domain.NewInternal(err)
		}
		card, err = s.card(ctx, tx, id, authorID)
		return err
	})
	if err != nil {
		return nil, domain.AsError(err)
	}

	s.invalidate(ctx)
	return card, nil
}

// Update edits a card of the author. Categories are replaced and categories
// left without cards are removed.
func (s *Service) Update(ctx context.Context, id, authorID int64, in domain.CardInput) (*domain.Card, error) {
	var card *domain.Card
	err := s.store.WithCardTx(ctx, func(ctx context.Context, tx repository.CardTx) error {
		err := tx.Cards().Update(ctx, id, authorID, strings.TrimSpace(in.Title), strings.TrimSpace(in.Content))
		if errors.Is(err, repository.ErrNotFound) {
			return cardNotFound(id)
		}
		if err != nil {
			return domain.NewInternal(err)
		}

		if err := tx.Categories().Detach(ctx, id); err != nil {
			return domain.NewInternal(err)
		}
		if err := tx.Categories().Attach(ctx, id, NormalizeCategories(in.Categories)); err != nil {
			return domain.NewInternal(err)
		}
		if _, err := tx.Categories().DeleteEmpty(ctx); err != nil {
			return domain.NewInternal(err)
		}

		card, err = s.card(ctx, tx, id, authorID)
		return err
	})
	if err != nil {
		return nil, domain.AsError(err)
	}

	s.invalidate(ctx)
	return card, nil
}

func (s *Service) Delete(ctx context.Context, id, authorID int64) error {
	err := s.store.WithCardTx(ctx, func(ctx context.Context, tx repository.CardTx) error {
		err := tx.Cards().Delete(ctx, id, authorID)
		if errors.Is(err, repository.ErrNotFound) {
			return cardNotFound(id)
		}
		if err != nil {
			return domain.NewInternal(err)
		}
		if _, err := tx.Categories().DeleteEmpty(ctx); err != nil {
			return domain.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return domain.AsError(err)
	}

	s.invalidate(ctx)
	return nil
}

// DeleteAll removes every card of the author and returns how many were deleted.
func (s *Service) DeleteAll(ctx context.Context, authorID int64) (int64, error) {
	var deleted int64
	err := s.store.WithCardTx(ctx, func(ctx context.Context, tx repository.CardTx) error {
		var err error
		deleted, err = tx.Cards().DeleteByAuthor(ctx, authorID)
		if err != nil {
			return domain.NewInternal(err)
		}
		if deleted == 0 {
			return domain.NewNotFound(domain.MsgCardsNotFound)
		}
		if _, err := tx.Categories().DeleteEmpty(ctx); err != nil {
			return domain.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return 0, domain.AsError(err)
	}

	s.invalidate(ctx)
	return deleted, nil
}

// React toggles the user's reaction on a card and reports whether it is now set.
func (s *Service) React(ctx context.Context, userID, cardID int64, reaction domain.Reaction) (bool, error) {
	var active bool
	err := s.store.WithCardTx(ctx, func(ctx context.Context, tx repository.CardTx) error {
		exists, err := tx.Cards().Exists(ctx, cardID)
		if err != nil {
			return domain.NewInternal(err)
		}
		if !exists {
			return cardNotFound(cardID)
		}
		active, err = tx.Reactions().Toggle(ctx, userID, cardID, reaction)
		if err != nil {
			return domain.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return false, domain.AsError(err)
	}

	s.invalidate(ctx)
	return active, nil
}

// card loads one card with categories; personal flags follow viewerID.
func (s *Service) card(ctx context.Context, tx repository.CardTx, id, viewerID int64) (*domain.Card, error) {
	card, err := tx.Cards().Get(ctx, id, viewerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, cardNotFound(id)
	}
	if err != nil {
		return nil, domain.NewInternal(err)
	}

	cards := []domain.Card{*card}
	if err := decorateWith(ctx, tx.Categories(), cards, viewerID); err != nil {
		return nil, domain.NewInternal(err)
	}
	return &cards[0], nil
}

func (s *Service) decorate(ctx context.Context, cards []domain.Card, viewerID int64) error {
	return decorateWith(ctx, s.store.Categories(), cards, viewerID)
}

func decorateWith(ctx context.Context, categories repository.CategoryRepository, cards []domain.Card, viewerID int64) error {
	if len(cards) == 0 {
		return nil
	}

	ids := make([]int64, len(cards))
	for i := range cards {
		ids[i] = cards[i].ID
	}
	byCard, err := categories.ForCards(ctx, ids)
	if err != nil {
		return err
	}

	for i := range cards {
		cards[i].Categories = byCard[cards[i].ID]
		if cards[i].Categories == nil {
			cards[i].Categories = []domain.Category{}
		}
		if viewerID == 0 {
			cards[i].IsFavorite, cards[i].IsLiked, cards[i].IsDisliked = nil, nil, nil
		}
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, repository.CacheKeyStats, repository.CacheKeyCategories); err != nil {
		logging.Warn().Err(err).Msg("failed to invalidate cache")
	}
}

// NormalizeCategories trims display names, drops empty ones and dedupes by
// lower-cased name, keeping the first spelling.
func NormalizeCategories(displayNames []string) []domain.Category {
	seen := make(map[string]struct{}, len(displayNames))
	categories := make([]domain.Category, 0, len(displayNames))
	for _, displayName := range displayNames {
		displayName = strings.TrimSpace(displayName)
		if displayName == "" {
			continue
		}
		name := strings.ToLower(displayName)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		categories = append(categories, domain.Category{Name: name, DisplayName: displayName})
	}
	return categories
}

func categoryNames(names []string) []string {
	categories := NormalizeCategories(names)
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}
