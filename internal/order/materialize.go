package order

import (
	"fmt"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Materialize walks the chain of columnID and returns its cards in order.
//
// An id with no matching card ends the walk; the prefix gathered so far is
// returned without error. A walk that revisits an item or visits more items
// than there are cards returns the prefix together with ErrCorruptRelation.
func Materialize(cards map[types.ItemID]models.Card, rel Relation, columnID types.ItemID) ([]models.Card, error) {
	out := make([]models.Card, 0)
	if len(rel) == 0 || len(cards) == 0 {
		return out, nil
	}

	seen := make(map[types.ItemID]bool)
	cur, ok := rel.Next(columnID)
	for ok {
		card, exists := cards[cur]
		if !exists {
			break
		}
		if seen[cur] || len(out) >= len(cards) {
			return out, fmt.Errorf("column %s revisits %s: %w", columnID, cur, ErrCorruptRelation)
		}
		seen[cur] = true
		out = append(out, card)
		cur, ok = rel.Next(cur)
	}
	return out, nil
}

// MaterializeAll materializes every column. The first corruption error is
// returned alongside the safe prefixes.
func MaterializeAll(cards map[types.ItemID]models.Card, rel Relation, columns []types.ItemID) (map[types.ItemID][]models.Card, error) {
	out := make(map[types.ItemID][]models.Card, len(columns))
	var firstErr error
	for _, col := range columns {
		seq, err := Materialize(cards, rel, col)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		out[col] = seq
	}
	return out, firstErr
}
