package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/kloda-app/kloda/backend/internal/dbx"
	"github.com/kloda-app/kloda/backend/internal/domain"
)

type CategoryRepo struct {
	db dbx.DBTX
}

func NewCategoryRepo(db dbx.DBTX) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Attach upserts categories by name, keeping the first display name, and links them to the card.
func (r *CategoryRepo) Attach(ctx context.Context, cardID int64, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	names := make([]string, len(categories))
	displayNames := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
		displayNames[i] = c.DisplayName
	}

	upsert := `
	INSERT INTO categories (name, display_name)
	SELECT * FROM unnest($1::text[], $2::text[])
	ON CONFLICT (name) DO NOTHING;
	`
	if _, err := r.db.ExecContext(ctx, upsert, pq.Array(names), pq.Array(displayNames)); err != nil {
		return fmt.Errorf("failed to upsert categories: %w", err)
	}

	link := `
	INSERT INTO cards_to_categories (card_id, category_id)
	SELECT $1, id FROM categories WHERE name = ANY($2)
	ON CONFLICT DO NOTHING;
	`
	if _, err := r.db.ExecContext(ctx, link, cardID, pq.Array(names)); err != nil {
		return fmt.Errorf("failed to link categories: %w", err)
	}
	return nil
}

func (r *CategoryRepo) Detach(ctx context.Context, cardID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cards_to_categories WHERE card_id = $1;`, cardID); err != nil {
		return fmt.Errorf("failed to unlink categories: %w", err)
	}
	return nil
}

// DeleteEmpty removes categories no card refers to.
func (r *CategoryRepo) DeleteEmpty(ctx context.Context) (int64, error) {
	query := `
	DELETE FROM categories cat
	WHERE NOT EXISTS (SELECT 1 FROM cards_to_categories cc WHERE cc.category_id = cat.id);
	`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete empty categories: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *CategoryRepo) ListWithCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	query := `
	SELECT cat.name, cat.display_name, COUNT(cc.card_id)
	FROM categories cat
	LEFT JOIN cards_to_categories cc ON cc.category_id = cat.id
	GROUP BY cat.id
	ORDER BY cat.name;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.CategoryCount{}
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Name, &c.DisplayName, &c.CardsCount); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}
	return categories, nil
}

// ForCards loads the categories of each card, keyed by card id.
func (r *CategoryRepo) ForCards(ctx context.Context, cardIDs []int64) (map[int64][]domain.Category, error) {
	result := make(map[int64][]domain.Category, len(cardIDs))
	if len(cardIDs) == 0 {
		return result, nil
	}

	query := `
	SELECT cc.card_id, cat.name, cat.display_name
	FROM cards_to_categories cc
	JOIN categories cat ON cat.id = cc.category_id
	WHERE cc.card_id = ANY($1)
	ORDER BY cat.name;
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(cardIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query card categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cardID int64
			c      domain.Category
		)
		if err := rows.Scan(&cardID, &c.Name, &c.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan card category row: %w", err)
		}
		result[cardID] = append(result[cardID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card category rows: %w", err)
	}
	return result, nil
}
