package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ErrCardNotFound is returned by Get for an unknown id
var ErrCardNotFound = errors.New("card not found")

// CardRepo handles all card-related database operations.
type CardRepo struct {
	db *sql.DB
}

// List returns every card. Cards are unordered; order lives in cards_order.
func (r *CardRepo) List(ctx context.Context) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text FROM cards`)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer closeRows(rows)

	cards := []models.Card{}
	for rows.Next() {
		var id string
		var c models.Card
		if err := rows.Scan(&id, &c.Text); err != nil {
			return nil, fmt.Errorf("scanning card row: %w", err)
		}
		c.ID = types.ItemID(id)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating card rows: %w", err)
	}
	return cards, nil
}

// Get retrieves a card by its ID
func (r *CardRepo) Get(ctx context.Context, id types.ItemID) (models.Card, error) {
	var c models.Card
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT id, text FROM cards WHERE id = ?`, string(id)).Scan(&raw, &c.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Card{}, fmt.Errorf("card %s: %w", id, ErrCardNotFound)
	}
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	c.ID = types.ItemID(raw)
	return c, nil
}

// Create inserts a card. Creating the same id again overwrites its text so a
// retried call is harmless.
func (r *CardRepo) Create(ctx context.Context, card models.Card) error {
	if err := models.ValidateCard(card); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cards (id, text) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET text = excluded.text, updated_at = CURRENT_TIMESTAMP`,
		string(card.ID), card.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to create card %s: %w", card.ID, err)
	}
	return nil
}

// Delete removes a card. Deleting an unknown id is not an error.
func (r *CardRepo) Delete(ctx context.Context, id types.ItemID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("failed to delete card %s: %w", id, err)
	}
	return nil
}
