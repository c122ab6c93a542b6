package database

import (
	"context"
	"database/sql"

	"github.com/thenoetrevino/tablero/internal/models"
)

// runMigrations creates the database schema and seeds default data if needed
func runMigrations(ctx context.Context, db *sql.DB) error {
	// Columns are a doubly linked list so display order survives restarts
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS columns (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			prev_id TEXT,
			next_id TEXT
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// No foreign keys: a patch may reference a card whose create call has
	// not arrived yet
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cards_order (
			item_id TEXT PRIMARY KEY,
			next_id TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	return seedDefaultColumns(ctx, db)
}

// seedDefaultColumns inserts default columns if the columns table is empty
func seedDefaultColumns(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM columns").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return withTx(ctx, db, func(tx *sql.Tx) error {
		cols := models.DefaultColumns
		for i, col := range cols {
			var prevID, nextID any
			if i > 0 {
				prevID = string(cols[i-1].ID)
			}
			if i < len(cols)-1 {
				nextID = string(cols[i+1].ID)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO columns (id, title, prev_id, next_id) VALUES (?, ?, ?, ?)",
				string(col.ID), col.Title, prevID, nextID,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
