package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ColumnRepo handles all column-related database operations.
type ColumnRepo struct {
	db *sql.DB
}

// List retrieves all columns by traversing the linked list.
// Returns columns in order from head to tail
func (r *ColumnRepo) List(ctx context.Context) ([]models.Column, error) {
	// Fetch all columns in a single query and walk the list in memory
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, prev_id, next_id FROM columns`)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer closeRows(rows)

	type node struct {
		col    models.Column
		nextID sql.NullString
	}
	nodes := make(map[types.ItemID]node)
	var headID types.ItemID
	heads := 0

	for rows.Next() {
		var n node
		var id string
		var prevID sql.NullString
		if err := rows.Scan(&id, &n.col.Title, &prevID, &n.nextID); err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		n.col.ID = types.ItemID(id)
		if !prevID.Valid {
			headID = n.col.ID
			heads++
		}
		nodes[n.col.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating column rows: %w", err)
	}

	if len(nodes) == 0 {
		return []models.Column{}, nil
	}

	// If there is not exactly one head, database is in inconsistent state
	if heads != 1 {
		return nil, fmt.Errorf("found %d head columns (linked list broken)", heads)
	}

	columns := make([]models.Column, 0, len(nodes))
	currentID := headID
	for {
		n, exists := nodes[currentID]
		if !exists {
			return nil, fmt.Errorf("column %s not found (linked list broken)", currentID)
		}
		if len(columns) == len(nodes) {
			return nil, fmt.Errorf("column %s revisited (linked list broken)", currentID)
		}
		columns = append(columns, n.col)

		if !n.nextID.Valid {
			break
		}
		currentID = types.ItemID(n.nextID.String)
	}

	return columns, nil
}
