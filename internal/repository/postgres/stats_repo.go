package postgres

import (
	"context"
	"fmt"

	"github.com/kloda-app/kloda/backend/internal/dbx"
	"github.com/kloda-app/kloda/backend/internal/domain"
)

type StatsRepo struct {
	db dbx.DBTX
}

func NewStatsRepo(db dbx.DBTX) *StatsRepo {
	return &StatsRepo{db: db}
}

func (r *StatsRepo) Stats(ctx context.Context) (domain.Stats, error) {
	query := `
	SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM cards),
		(SELECT COUNT(*) FROM categories),
		(SELECT COUNT(DISTINCT card_id) FROM cards_to_categories),
		(SELECT COUNT(*) FROM cards c WHERE NOT EXISTS (SELECT 1 FROM cards_to_categories cc WHERE cc.card_id = c.id)),
		(SELECT COUNT(*) FROM favorite_cards),
		(SELECT COUNT(*) FROM liked_cards),
		(SELECT COUNT(*) FROM disliked_cards);
	`
	var s domain.Stats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.TotalUsers,
		&s.TotalCards,
		&s.TotalCategories,
		&s.TotalCategorized,
		&s.TotalUncategorized,
		&s.TotalFavorite,
		&s.TotalLiked,
		&s.TotalDisliked,
	)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return s, nil
}
