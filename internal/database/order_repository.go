package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/tablero/internal/order"
	"github.com/thenoetrevino/tablero/internal/types"
)

// OrderRepo stores the successor relation, one row per key
type OrderRepo struct {
	db *sql.DB
}

// Get loads the full relation
func (r *OrderRepo) Get(ctx context.Context) (order.Relation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT item_id, next_id FROM cards_order`)
	if err != nil {
		return nil, fmt.Errorf("querying cards order: %w", err)
	}
	defer closeRows(rows)

	rel := order.Relation{}
	for rows.Next() {
		var key, next string
		if err := rows.Scan(&key, &next); err != nil {
			return nil, fmt.Errorf("scanning cards order row: %w", err)
		}
		rel[types.ItemID(key)] = types.ItemID(next)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cards order rows: %w", err)
	}
	return rel, nil
}

// Patch merges patch into the stored relation in one transaction. Values are
// absolute, so applying the same patch again changes nothing.
func (r *OrderRepo) Patch(ctx context.Context, patch order.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, key := range patch.Keys() {
			next := patch[key]
			if next.IsZero() {
				if _, err := tx.ExecContext(ctx, `DELETE FROM cards_order WHERE item_id = ?`, string(key)); err != nil {
					return fmt.Errorf("failed to remove %s: %w", key, err)
				}
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO cards_order (item_id, next_id) VALUES (?, ?)
				ON CONFLICT(item_id) DO UPDATE SET next_id = excluded.next_id`,
				string(key), string(next),
			); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}
		}
		return nil
	})
}
