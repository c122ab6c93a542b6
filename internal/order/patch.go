package order

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Patch is a partial relation. A NoItem value removes the key.
type Patch map[types.ItemID]types.ItemID

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return len(p) == 0
}

// Assignments returns the keys the patch points somewhere
func (p Patch) Assignments() Relation {
	out := make(Relation, len(p))
	for k, v := range p {
		if !v.IsZero() {
			out[k] = v
		}
	}
	return out
}

// Removals returns the keys the patch deletes, sorted
func (p Patch) Removals() []types.ItemID {
	var out []types.ItemID
	for k, v := range p {
		if v.IsZero() {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Overlay returns a new patch equivalent to applying p and then next.
// Entries of next win, removals included.
func (p Patch) Overlay(next Patch) Patch {
	out := make(Patch, len(p)+len(next))
	maps.Copy(out, p)
	maps.Copy(out, next)
	return out
}

// Keys returns every key touched by the patch, sorted
func (p Patch) Keys() []types.ItemID {
	return slices.Sorted(maps.Keys(p))
}

// MarshalJSON encodes removals as null
func (p Patch) MarshalJSON() ([]byte, error) {
	wire := make(map[types.ItemID]*types.ItemID, len(p))
	for k, v := range p {
		if v.IsZero() {
			wire[k] = nil
			continue
		}
		wire[k] = &v
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes null values as removals
func (p *Patch) UnmarshalJSON(data []byte) error {
	var wire map[types.ItemID]*types.ItemID
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := make(Patch, len(wire))
	for k, v := range wire {
		if v == nil {
			out[k] = types.NoItem
			continue
		}
		out[k] = *v
	}
	*p = out
	return nil
}

// ComputeMovePatch returns the patch that places subject immediately before
// target. When target is a column id the subject is appended to the end of
// that column. A subject with no current position is inserted.
//
// The patch is empty when subject == target, when the subject already sits in
// the requested place, when target is unknown, or when subject is a column.
func ComputeMovePatch(rel Relation, columns []types.ItemID, subject, target types.ItemID) Patch {
	patch := Patch{}
	if subject.IsZero() || target.IsZero() || subject == target {
		return patch
	}

	isColumn := columnSet(columns)
	if isColumn[subject] {
		return patch
	}

	prev := rel.Predecessors()

	var newPrev, newNext types.ItemID
	if isColumn[target] {
		tail, err := rel.Tail(target)
		if err != nil || tail == subject {
			return patch
		}
		newPrev, newNext = tail, types.NoItem
	} else {
		p, ok := prev[target]
		if !ok || p == subject {
			return patch
		}
		newPrev, newNext = p, target
	}

	// Close the gap left behind.
	if oldPrev, placed := prev[subject]; placed {
		oldNext, _ := rel.Next(subject)
		patch[oldPrev] = oldNext
	}

	patch[newPrev] = subject
	patch[subject] = newNext

	return patch.minimize(rel)
}

// ComputeDeletePatch returns the patch that unlinks subject: its predecessor
// is redirected to its successor and its own key is removed.
func ComputeDeletePatch(rel Relation, subject types.ItemID) Patch {
	patch := Patch{}
	if subject.IsZero() {
		return patch
	}

	next, _ := rel.Next(subject)
	if p, ok := rel.Predecessors()[subject]; ok {
		patch[p] = next
	}
	patch[subject] = types.NoItem

	return patch.minimize(rel)
}

// minimize drops entries that would leave rel unchanged
func (p Patch) minimize(rel Relation) Patch {
	for k, v := range p {
		cur, ok := rel[k]
		if v.IsZero() && !ok {
			delete(p, k)
			continue
		}
		if ok && cur == v {
			delete(p, k)
		}
	}
	return p
}
