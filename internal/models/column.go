package models

import "github.com/thenoetrevino/tablero/internal/types"

// Column represents a kanban board column (e.g., "TODO", "Doing", "Done").
// Display order is the order the store returns columns in.
type Column struct {
	ID    types.ItemID `json:"id"`
	Title string       `json:"title"`
}
