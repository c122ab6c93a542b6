// Package order encodes card order as a successor relation and computes the
// minimal patches that move, insert or delete cards.
//
// A column id used as a key points at the first card of that column. A card id
// used as a key points at the next card in the same column. A missing key means
// "empty column" or "last card".
package order

import (
	"fmt"
	"maps"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Relation maps an item to the item that follows it
type Relation map[types.ItemID]types.ItemID

// Clone returns a shallow copy. A nil relation clones to an empty one.
func (r Relation) Clone() Relation {
	out := make(Relation, len(r))
	maps.Copy(out, r)
	return out
}

// Next returns the successor of id
func (r Relation) Next(id types.ItemID) (types.ItemID, bool) {
	next, ok := r[id]
	if !ok || next.IsZero() {
		return types.NoItem, false
	}
	return next, true
}

// Predecessors inverts the relation
func (r Relation) Predecessors() map[types.ItemID]types.ItemID {
	prev := make(map[types.ItemID]types.ItemID, len(r))
	for k, v := range r {
		if v.IsZero() {
			continue
		}
		prev[v] = k
	}
	return prev
}

// Apply returns a new relation with patch overlaid. Removals in the patch
// delete the key. Applying the same patch twice gives the same result as
// applying it once.
func (r Relation) Apply(p Patch) Relation {
	out := r.Clone()
	out.Merge(p)
	return out
}

// Merge overlays patch onto r in place
func (r Relation) Merge(p Patch) {
	for k, v := range p {
		if v.IsZero() {
			delete(r, k)
			continue
		}
		r[k] = v
	}
}

// Tail returns the last item of the chain starting at head, which is head
// itself for an empty column. The walk is bounded by the relation size.
func (r Relation) Tail(head types.ItemID) (types.ItemID, error) {
	cur := head
	for steps := 0; ; steps++ {
		if steps > len(r) {
			return types.NoItem, fmt.Errorf("walking from %s: %w", head, ErrCorruptRelation)
		}
		next, ok := r.Next(cur)
		if !ok {
			return cur, nil
		}
		cur = next
	}
}

// ColumnOf walks predecessors back from id until a column is reached
func (r Relation) ColumnOf(id types.ItemID, columns []types.ItemID) (types.ItemID, bool) {
	isColumn := columnSet(columns)
	if isColumn[id] {
		return id, true
	}
	prev := r.Predecessors()
	cur := id
	for steps := 0; steps <= len(r); steps++ {
		p, ok := prev[cur]
		if !ok {
			return types.NoItem, false
		}
		if isColumn[p] {
			return p, true
		}
		cur = p
	}
	return types.NoItem, false
}

// Validate checks that every item has at most one predecessor, that chains
// from columns are acyclic, and that every key is reachable from a column.
func (r Relation) Validate(columns []types.ItemID) error {
	seenValue := make(map[types.ItemID]types.ItemID, len(r))
	for k, v := range r {
		if v.IsZero() {
			continue
		}
		if other, dup := seenValue[v]; dup {
			return fmt.Errorf("%s is the successor of both %s and %s: %w", v, other, k, ErrDuplicateSuccessor)
		}
		seenValue[v] = k
	}

	reached := make(map[types.ItemID]bool, len(r))
	for _, col := range columns {
		cur := col
		for {
			if reached[cur] {
				return fmt.Errorf("chain of column %s revisits %s: %w", col, cur, ErrCycle)
			}
			reached[cur] = true
			next, ok := r.Next(cur)
			if !ok {
				break
			}
			cur = next
		}
	}

	for k := range r {
		if !reached[k] {
			return fmt.Errorf("key %s: %w", k, ErrOrphanChain)
		}
	}
	return nil
}

func columnSet(columns []types.ItemID) map[types.ItemID]bool {
	set := make(map[types.ItemID]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return set
}
