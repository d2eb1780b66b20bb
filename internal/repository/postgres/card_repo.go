package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/kloda-app/kloda/backend/internal/dbx"
	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

type CardRepo struct {
	db dbx.DBTX
}

func NewCardRepo(db dbx.DBTX) *CardRepo {
	return &CardRepo{db: db}
}

// cardSelectFields expects the viewer id as $1.
const cardSelectFields = `c.id, c.title, c.content, c.favorites, c.likes, c.dislikes, c.author_id, c.created_at, c.updated_at,
	EXISTS (SELECT 1 FROM favorite_cards f WHERE f.card_id = c.id AND f.user_id = $1) AS is_favorite,
	EXISTS (SELECT 1 FROM liked_cards l WHERE l.card_id = c.id AND l.user_id = $1) AS is_liked,
	EXISTS (SELECT 1 FROM disliked_cards d WHERE d.card_id = c.id AND d.user_id = $1) AS is_disliked`

var cardSortColumns = map[string]string{
	"id":        "c.id",
	"title":     "c.title",
	"content":   "c.content",
	"favorites": "c.favorites",
	"likes":     "c.likes",
	"dislikes":  "c.dislikes",
	"createdAt": "c.created_at",
	"updatedAt": "c.updated_at",
}

const categoryFilter = `EXISTS (
	SELECT 1 FROM cards_to_categories cc
	JOIN categories cat ON cat.id = cc.category_id
	WHERE cc.card_id = c.id AND cat.name = ANY(?))`

var actionFilters = map[string]string{
	domain.ActionCreated:  `c.author_id = ?`,
	domain.ActionFavorite: `EXISTS (SELECT 1 FROM favorite_cards x WHERE x.card_id = c.id AND x.user_id = ?)`,
	domain.ActionLiked:    `EXISTS (SELECT 1 FROM liked_cards x WHERE x.card_id = c.id AND x.user_id = ?)`,
	domain.ActionDisliked: `EXISTS (SELECT 1 FROM disliked_cards x WHERE x.card_id = c.id AND x.user_id = ?)`,
}

func scanCard(row interface{ Scan(dest ...any) error }) (*domain.Card, error) {
	var (
		c                          domain.Card
		isFavorite, isLiked, isDis bool
	)
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Content,
		&c.Favorites,
		&c.Likes,
		&c.Dislikes,
		&c.AuthorID,
		&c.CreatedAt,
		&c.UpdatedAt,
		&isFavorite,
		&isLiked,
		&isDis,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.IsFavorite, c.IsLiked, c.IsDisliked = &isFavorite, &isLiked, &isDis
	c.Categories = []domain.Category{}
	return &c, nil
}

func (r *CardRepo) scanCards(rows *sql.Rows) ([]domain.Card, error) {
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}
	return cards, nil
}

func categoriesFilter(f *filter, categories []string) {
	if len(categories) > 0 {
		f.add(categoryFilter, pq.Array(categories))
	}
}

// List returns one page of cards and the number of cards matching the query.
func (r *CardRepo) List(ctx context.Context, q domain.CardQuery) ([]domain.Card, int, error) {
	var where filter
	if q.Search != "" {
		pattern := likePattern(q.Search)
		where.add("(c.title ILIKE ? OR c.content ILIKE ?)", pattern, pattern)
	}
	categoriesFilter(&where, q.Categories)
	if clause, ok := actionFilters[q.Action]; ok && q.UserID != 0 {
		where.add(clause, q.UserID)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM cards c` + where.sql(0) + `;`
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}

	sortColumn, ok := cardSortColumns[q.Sort]
	if !ok {
		sortColumn = cardSortColumns["createdAt"]
	}
	order := sqlOrder(q.Order)

	args := append([]any{q.ViewerID}, where.args...)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	query := fmt.Sprintf(`SELECT %s FROM cards c%s ORDER BY %s %s, c.id %s LIMIT $%d OFFSET $%d;`,
		cardSelectFields, where.sql(1), sortColumn, order, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query cards: %w", err)
	}
	cards, err := r.scanCards(rows)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (r *CardRepo) Get(ctx context.Context, id, viewerID int64) (*domain.Card, error) {
	query := `SELECT ` + cardSelectFields + ` FROM cards c WHERE c.id = $2;`
	c, err := scanCard(r.db.QueryRowContext(ctx, query, viewerID, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return c, nil
}

func (r *CardRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cards WHERE id = $1);`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check card: %w", err)
	}
	return exists, nil
}

func (r *CardRepo) Position(ctx context.Context, id int64, categories []string) (*repository.CardPosition, error) {
	var where filter
	categoriesFilter(&where, categories)

	// prev/next wrap around the ends of the set
	base := `
	WITH filtered AS (
		SELECT c.id,
			ROW_NUMBER() OVER (ORDER BY c.id) AS position,
			LAG(c.id) OVER (ORDER BY c.id) AS prev_id,
			LEAD(c.id) OVER (ORDER BY c.id) AS next_id,
			COUNT(*) OVER () AS total
		FROM cards c` + where.sql(0) + `
	)
	SELECT id, position,
		COALESCE(prev_id, (SELECT MAX(id) FROM filtered)),
		COALESCE(next_id, (SELECT MIN(id) FROM filtered)),
		total
	FROM filtered`

	scan := func(row *sql.Row) (*repository.CardPosition, error) {
		var p repository.CardPosition
		err := row.Scan(&p.ID, &p.Position, &p.PrevID, &p.NextID, &p.Total)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return &p, nil
	}

	args := append(append([]any{}, where.args...), id)
	p, err := scan(r.db.QueryRowContext(ctx, fmt.Sprintf("%s WHERE id = $%d;", base, len(args)), args...))
	if errors.Is(err, repository.ErrNotFound) {
		p, err = scan(r.db.QueryRowContext(ctx, base+" ORDER BY position LIMIT 1;", where.args...))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card position: %w", err)
	}
	return p, nil
}

func (r *CardRepo) RandomID(ctx context.Context, excludeID int64, categories []string) (int64, error) {
	var where filter
	where.add("c.id <> ?", excludeID)
	categoriesFilter(&where, categories)

	var id int64
	query := `SELECT c.id FROM cards c` + where.sql(0) + ` ORDER BY random() LIMIT 1;`
	err := r.db.QueryRowContext(ctx, query, where.args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get random card: %w", err)
	}
	return id, nil
}

func (r *CardRepo) Create(ctx context.Context, authorID int64, title, content string) (int64, error) {
	var id int64
	query := `INSERT INTO cards (title, content, author_id) VALUES ($1, $2, $3) RETURNING id;`
	if err := r.db.QueryRowContext(ctx, query, title, content, authorID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create card: %w", err)
	}
	return id, nil
}

// Update edits a card owned by authorID.
func (r *CardRepo) Update(ctx context.Context, id, authorID int64, title, content string) error {
	query := `
	UPDATE cards SET title = $3, content = $4, updated_at = now()
	WHERE id = $1 AND author_id = $2;
	`
	res, err := r.db.ExecContext(ctx, query, id, authorID, title, content)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return expectRow(res)
}

func (r *CardRepo) Delete(ctx context.Context, id, authorID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1 AND author_id = $2;`, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return expectRow(res)
}

func (r *CardRepo) DeleteByAuthor(ctx context.Context, authorID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE author_id = $1;`, authorID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cards: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// ListByAuthor returns every card of the author ordered by id.
func (r *CardRepo) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Card, error) {
	query := `SELECT ` + cardSelectFields + ` FROM cards c WHERE c.author_id = $1 ORDER BY c.id;`
	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query author cards: %w", err)
	}
	return r.scanCards(rows)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
