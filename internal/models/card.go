package models

import "github.com/thenoetrevino/tablero/internal/types"

// Card is a short text note on the board. The column a card belongs to is not
// stored here; it is derived from the order relation.
type Card struct {
	ID   types.ItemID `json:"id"`
	Text string       `json:"text"`
}

// GetID returns the card id for quiet CLI output
func (c Card) GetID() string {
	return string(c.ID)
}
