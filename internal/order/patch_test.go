package order

import (
	"encoding/json"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// buildRelation turns column -> card lists into a relation
func buildRelation(lists map[types.ItemID][]types.ItemID) Relation {
	rel := Relation{}
	for col, ids := range lists {
		prev := col
		for _, id := range ids {
			rel[prev] = id
			prev = id
		}
	}
	return rel
}

// cardsFor returns a card set holding every id in lists
func cardsFor(lists map[types.ItemID][]types.ItemID) map[types.ItemID]models.Card {
	cards := make(map[types.ItemID]models.Card)
	for _, ids := range lists {
		for _, id := range ids {
			cards[id] = models.Card{ID: id, Text: "card " + string(id)}
		}
	}
	return cards
}

func ids(cards []models.Card) []types.ItemID {
	out := make([]types.ItemID, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func mustMaterialize(t *testing.T, cards map[types.ItemID]models.Card, rel Relation, col types.ItemID) []types.ItemID {
	t.Helper()
	seq, err := Materialize(cards, rel, col)
	require.NoError(t, err)
	return ids(seq)
}

var abc = map[types.ItemID][]types.ItemID{
	"A": {"a", "b", "c"},
}

// ============================================================================
// SCENARIOS
// ============================================================================

func TestScenario_MaterializeInitial(t *testing.T) {
	rel := Relation{"A": "a", "a": "b", "b": "c"}
	got := mustMaterialize(t, cardsFor(abc), rel, "A")
	assert.Equal(t, []types.ItemID{"a", "b", "c"}, got)
}

func TestScenario_DropLastOnFirst(t *testing.T) {
	rel := Relation{"A": "a", "a": "b", "b": "c"}

	patch := ComputeMovePatch(rel, []types.ItemID{"A"}, "c", "a")

	want := Patch{"A": "c", "c": "a", "b": types.NoItem}
	if diff := cmp.Diff(want, patch); diff != "" {
		t.Errorf("patch mismatch (-want +got):\n%s", diff)
	}

	next := rel.Apply(patch)
	if diff := cmp.Diff(Relation{"A": "c", "c": "a", "a": "b"}, next); diff != "" {
		t.Errorf("relation mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []types.ItemID{"c", "a", "b"}, mustMaterialize(t, cardsFor(abc), next, "A"))
}

func TestScenario_DeleteFirst(t *testing.T) {
	rel := Relation{"A": "a", "a": "b", "b": "c"}

	patch := ComputeDeletePatch(rel, "a")

	assert.Equal(t, Relation{"A": "b"}, patch.Assignments())
	assert.Equal(t, []types.ItemID{"a"}, patch.Removals())

	cards := cardsFor(abc)
	delete(cards, "a")
	assert.Equal(t, []types.ItemID{"b", "c"}, mustMaterialize(t, cards, rel.Apply(patch), "A"))
}

func TestScenario_InsertIntoEmptyColumn(t *testing.T) {
	rel := Relation{"A": "a", "a": "b", "b": "c"}
	columns := []types.ItemID{"A", "B"}

	patch := ComputeMovePatch(rel, columns, "n1", "B")

	assert.Equal(t, Patch{"B": "n1"}, patch)

	cards := cardsFor(abc)
	cards["n1"] = models.Card{ID: "n1", Text: "new"}
	assert.Equal(t, []types.ItemID{"n1"}, mustMaterialize(t, cards, rel.Apply(patch), "B"))
}

// ============================================================================
// MOVE PATCH
// ============================================================================

func TestComputeMovePatch_NoOps(t *testing.T) {
	rel := Relation{"A": "a", "a": "b", "b": "c"}
	columns := []types.ItemID{"A", "B"}

	tests := []struct {
		name    string
		subject types.ItemID
		target  types.ItemID
	}{
		{"self", "b", "b"},
		{"already before target", "a", "b"},
		{"already last in column", "c", "A"},
		{"unknown target", "a", "zzz"},
		{"empty target", "a", types.NoItem},
		{"empty subject", types.NoItem, "a"},
		{"column as subject", "A", "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := ComputeMovePatch(rel, columns, tt.subject, tt.target)
			assert.True(t, patch.IsEmpty(), "expected empty patch, got %v", patch)
		})
	}
}

func TestComputeMovePatch_Cases(t *testing.T) {
	lists := map[types.ItemID][]types.ItemID{
		"A": {"a", "b", "c"},
		"B": {"x", "y"},
		"C": {},
	}
	columns := []types.ItemID{"A", "B", "C"}

	tests := []struct {
		name    string
		subject types.ItemID
		target  types.ItemID
		want    map[types.ItemID][]types.ItemID
	}{
		{
			name: "first before last", subject: "a", target: "c",
			want: map[types.ItemID][]types.ItemID{"A": {"b", "a", "c"}, "B": {"x", "y"}, "C": {}},
		},
		{
			name: "middle before first", subject: "b", target: "a",
			want: map[types.ItemID][]types.ItemID{"A": {"b", "a", "c"}, "B": {"x", "y"}, "C": {}},
		},
		{
			name: "first to end of own column", subject: "a", target: "A",
			want: map[types.ItemID][]types.ItemID{"A": {"b", "c", "a"}, "B": {"x", "y"}, "C": {}},
		},
		{
			name: "across columns before card", subject: "b", target: "y",
			want: map[types.ItemID][]types.ItemID{"A": {"a", "c"}, "B": {"x", "b", "y"}, "C": {}},
		},
		{
			name: "across columns to end", subject: "a", target: "B",
			want: map[types.ItemID][]types.ItemID{"A": {"b", "c"}, "B": {"x", "y", "a"}, "C": {}},
		},
		{
			name: "middle into empty column", subject: "b", target: "C",
			want: map[types.ItemID][]types.ItemID{"A": {"a", "c"}, "B": {"x", "y"}, "C": {"b"}},
		},
		{
			name: "tail card to head of other column", subject: "y", target: "a",
			want: map[types.ItemID][]types.ItemID{"A": {"y", "a", "b", "c"}, "B": {"x"}, "C": {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := buildRelation(lists)
			before := rel.Clone()

			patch := ComputeMovePatch(rel, columns, tt.subject, tt.target)
			assert.Equal(t, before, rel, "input relation must not be mutated")

			next := rel.Apply(patch)
			require.NoError(t, next.Validate(columns))

			cards := cardsFor(lists)
			for col, want := range tt.want {
				got := mustMaterialize(t, cards, next, col)
				if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b []types.ItemID) bool {
					return slices.Equal(a, b)
				})); diff != "" {
					t.Errorf("column %s mismatch (-want +got):\n%s", col, diff)
				}
			}
		})
	}
}

func TestComputeMovePatch_OnlyChangedEntries(t *testing.T) {
	rel := Relation{"A": "a", "a": "b", "b": "c"}
	patch := ComputeMovePatch(rel, []types.ItemID{"A"}, "a", "c")

	for k, v := range patch {
		cur, ok := rel[k]
		if v.IsZero() {
			assert.True(t, ok, "removal of absent key %s", k)
			continue
		}
		assert.False(t, ok && cur == v, "entry %s -> %s does not change anything", k, v)
	}
}

func TestApply_Idempotent(t *testing.T) {
	rel := Relation{"A": "a", "a": "b", "b": "c"}
	patch := ComputeMovePatch(rel, []types.ItemID{"A"}, "c", "a")

	once := rel.Apply(patch)
	twice := once.Apply(patch)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("applying twice differs (-once +twice):\n%s", diff)
	}
}

func TestPatch_OverlayMatchesSequentialApply(t *testing.T) {
	columns := []types.ItemID{"A", "B"}
	rel := Relation{"A": "a", "a": "b", "b": "c"}

	first := ComputeMovePatch(rel, columns, "c", "a")
	mid := rel.Apply(first)
	second := ComputeMovePatch(mid, columns, "c", "B")
	third := ComputeDeletePatch(mid.Apply(second), "b")

	want := mid.Apply(second).Apply(third)
	got := rel.Apply(first.Overlay(second).Overlay(third))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("overlay differs from sequential apply (-want +got):\n%s", diff)
	}
}

func TestPatch_OverlayKeepsRemovals(t *testing.T) {
	var empty Patch
	merged := empty.Overlay(Patch{"b": types.NoItem}).Overlay(Patch{"a": "c"})

	assert.Equal(t, Patch{"a": "c", "b": types.NoItem}, merged)
	assert.Equal(t, Patch{"a": "b"}, Patch{"a": types.NoItem}.Overlay(Patch{"a": "b"}))
}

// ============================================================================
// DELETE PATCH
// ============================================================================

func TestComputeDeletePatch_Middle(t *testing.T) {
	rel := Relation{"A": "a", "a": "b", "b": "c"}
	patch := ComputeDeletePatch(rel, "b")

	assert.Equal(t, Patch{"a": "c", "b": types.NoItem}, patch)

	cards := cardsFor(abc)
	delete(cards, "b")
	assert.Equal(t, []types.ItemID{"a", "c"}, mustMaterialize(t, cards, rel.Apply(patch), "A"))
}

func TestComputeDeletePatch_Last(t *testing.T) {
	rel := Relation{"A": "a", "a": "b", "b": "c"}
	patch := ComputeDeletePatch(rel, "c")
	assert.Equal(t, Patch{"b": types.NoItem}, patch)
}

func TestComputeDeletePatch_OnlyCard(t *testing.T) {
	rel := Relation{"A": "a"}
	patch := ComputeDeletePatch(rel, "a")
	assert.Equal(t, Patch{"A": types.NoItem}, patch)
	assert.Empty(t, rel.Apply(patch))
}

func TestComputeDeletePatch_Unknown(t *testing.T) {
	rel := Relation{"A": "a"}
	assert.True(t, ComputeDeletePatch(rel, "nope").IsEmpty())
	assert.True(t, ComputeDeletePatch(rel, types.NoItem).IsEmpty())
}

// ============================================================================
// JSON
// ============================================================================

func TestPatch_JSONRemovalsAreNull(t *testing.T) {
	patch := Patch{"A": "c", "b": types.NoItem}

	data, err := json.Marshal(patch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"A":"c","b":null}`, string(data))

	var decoded Patch
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, patch, decoded)
}

// ============================================================================
// PROPERTY: random moves against a slice model
// ============================================================================

func TestComputeMovePatch_RandomAgainstSliceModel(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	columns := []types.ItemID{"A", "B", "C"}

	lists := map[types.ItemID][]types.ItemID{
		"A": {"a1", "a2", "a3", "a4"},
		"B": {"b1", "b2"},
		"C": {},
	}
	cards := cardsFor(lists)
	var all []types.ItemID
	for _, col := range columns {
		all = append(all, lists[col]...)
	}

	rel := buildRelation(lists)
	for i := 0; i < 500; i++ {
		subject := all[rng.IntN(len(all))]
		var target types.ItemID
		if rng.IntN(4) == 0 {
			target = columns[rng.IntN(len(columns))]
		} else {
			target = all[rng.IntN(len(all))]
		}

		lists = moveInModel(lists, subject, target)
		rel = rel.Apply(ComputeMovePatch(rel, columns, subject, target))

		require.NoError(t, rel.Validate(columns), "step %d: %s -> %s", i, subject, target)
		for _, col := range columns {
			want := lists[col]
			if want == nil {
				want = []types.ItemID{}
			}
			got := mustMaterialize(t, cards, rel, col)
			require.Equal(t, want, got, "step %d: moving %s before %s, column %s", i, subject, target, col)
		}
	}
}

// moveInModel is the slice version of a move: remove subject, then insert it
// before target (or at the end when target is a column).
func moveInModel(lists map[types.ItemID][]types.ItemID, subject, target types.ItemID) map[types.ItemID][]types.ItemID {
	if subject == target {
		return lists
	}
	out := make(map[types.ItemID][]types.ItemID, len(lists))
	for col, l := range lists {
		out[col] = slices.DeleteFunc(slices.Clone(l), func(id types.ItemID) bool { return id == subject })
	}
	if _, isColumn := out[target]; isColumn {
		out[target] = append(out[target], subject)
		return out
	}
	for col, l := range out {
		if i := slices.Index(l, target); i >= 0 {
			out[col] = slices.Insert(l, i, subject)
			return out
		}
	}
	return lists
}
