package postgres

import (
	"context"
	"fmt"

	"github.com/kloda-app/kloda/backend/internal/dbx"
	"github.com/kloda-app/kloda/backend/internal/domain"
)

type ReactionRepo struct {
	db dbx.DBTX
}

func NewReactionRepo(db dbx.DBTX) *ReactionRepo {
	return &ReactionRepo{db: db}
}

type reactionTable struct {
	table    string
	column   string
	opposite domain.Reaction
}

var reactionTables = map[domain.Reaction]reactionTable{
	domain.ReactionLike:     {table: "liked_cards", column: "likes", opposite: domain.ReactionDislike},
	domain.ReactionDislike:  {table: "disliked_cards", column: "dislikes", opposite: domain.ReactionLike},
	domain.ReactionFavorite: {table: "favorite_cards", column: "favorites"},
}

// Toggle must run inside a transaction; it issues several dependent statements.
func (r *ReactionRepo) Toggle(ctx context.Context, userID, cardID int64, reaction domain.Reaction) (bool, error) {
	t, ok := reactionTables[reaction]
	if !ok {
		return false, fmt.Errorf("unknown reaction %q", reaction)
	}

	removed, err := r.remove(ctx, t, userID, cardID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (user_id, card_id) VALUES ($1, $2) ON CONFLICT (user_id, card_id) DO NOTHING;`, t.table)
	res, err := r.db.ExecContext(ctx, insert, userID, cardID)
	if err != nil {
		return false, fmt.Errorf("failed to add %s: %w", reaction, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		// A concurrent toggle inserted the row and owns the counter update.
		return true, nil
	}
	if err := r.adjust(ctx, t.column, cardID, 1); err != nil {
		return false, err
	}

	if t.opposite != "" {
		if _, err := r.remove(ctx, reactionTables[t.opposite], userID, cardID); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *ReactionRepo) remove(ctx context.Context, t reactionTable, userID, cardID int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND card_id = $2;`, t.table)
	res, err := r.db.ExecContext(ctx, query, userID, cardID)
	if err != nil {
		return false, fmt.Errorf("failed to remove from %s: %w", t.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	return true, r.adjust(ctx, t.column, cardID, -1)
}

func (r *ReactionRepo) adjust(ctx context.Context, column string, cardID int64, delta int) error {
	query := fmt.Sprintf(`UPDATE cards SET %[1]s = GREATEST(%[1]s + $2, 0) WHERE id = $1;`, column)
	if _, err := r.db.ExecContext(ctx, query, cardID, delta); err != nil {
		return fmt.Errorf("failed to update %s counter: %w", column, err)
	}
	return nil
}
