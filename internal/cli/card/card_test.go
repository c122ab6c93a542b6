package card

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/order"
	"github.com/thenoetrevino/tablero/internal/testutil"
)

// seedABC puts a -> b -> c in todo
func seedABC(t *testing.T) string {
	t.Helper()
	dbPath := testutil.SetupCLIEnv(t)
	testutil.SeedBoard(t, dbPath,
		[]models.Card{{ID: "a", Text: "wash face"}, {ID: "b", Text: "brush teeth"}, {ID: "c", Text: "**coffee**"}},
		order.Relation{"todo": "a", "a": "b", "b": "c"})
	return dbPath
}

// ============================================================================
// add
// ============================================================================

func TestAddCard_Positive(t *testing.T) {
	dbPath := seedABC(t)

	out, _, err := testutil.ExecuteCommand(t, CardCmd(), "add", "todo", "feed", "cat", "--quiet")
	require.NoError(t, err)

	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	rel := testutil.ReadRelation(t, dbPath)
	assert.Equal(t, order.Relation{"todo": rel["todo"], rel["todo"]: "a", "a": "b", "b": "c"}, rel)
	assert.Equal(t, id, string(rel["todo"]), "new card goes to the head of the column")
}

func TestAddCard_ByTitleIntoEmptyColumn(t *testing.T) {
	dbPath := seedABC(t)

	out, _, err := testutil.ExecuteCommand(t, CardCmd(), "add", "Waiting", "bus", "--json")
	require.NoError(t, err)

	var result struct {
		Success bool        `json:"success"`
		Data    models.Card `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "bus", result.Data.Text)

	rel := testutil.ReadRelation(t, dbPath)
	assert.Equal(t, result.Data.ID, rel["waiting"])
}

func TestAddCard_Negative(t *testing.T) {
	seedABC(t)

	t.Run("unknown column suggests closest title", func(t *testing.T) {
		_, stderr, err := testutil.ExecuteCommand(t, CardCmd(), "add", "doign", "x")
		require.Error(t, err)
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
		assert.Contains(t, stderr, "Did you mean 'Doing'?")
	})

	t.Run("blank text", func(t *testing.T) {
		_, _, err := testutil.ExecuteCommand(t, CardCmd(), "add", "todo", "   ")
		require.Error(t, err)
		assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
	})

	t.Run("text too long", func(t *testing.T) {
		_, _, err := testutil.ExecuteCommand(t, CardCmd(), "add", "todo", strings.Repeat("x", models.MaxCardTextLength+1))
		require.Error(t, err)
		assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
	})
}

// ============================================================================
// move
// ============================================================================

func TestMoveCard_BeforeCard(t *testing.T) {
	dbPath := seedABC(t)

	out, _, err := testutil.ExecuteCommand(t, CardCmd(), "move", "c", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "Card c moved to 'TODO'")

	assert.Equal(t, order.Relation{"todo": "c", "c": "a", "a": "b"}, testutil.ReadRelation(t, dbPath))
}

func TestMoveCard_ToColumn(t *testing.T) {
	dbPath := seedABC(t)

	out, _, err := testutil.ExecuteCommand(t, CardCmd(), "move", "a", "done", "--json")
	require.NoError(t, err)

	var result struct {
		Data struct {
			From  string      `json:"from_column"`
			To    string      `json:"to_column"`
			Patch order.Patch `json:"patch"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "TODO", result.Data.From)
	assert.Equal(t, "Done", result.Data.To)
	assert.Equal(t, order.Patch{"todo": "b", "a": "", "done": "a"}, result.Data.Patch)

	assert.Equal(t, order.Relation{"todo": "b", "b": "c", "done": "a"}, testutil.ReadRelation(t, dbPath))
}

func TestMoveCard_AlreadyInPlace(t *testing.T) {
	seedABC(t)

	out, _, err := testutil.ExecuteCommand(t, CardCmd(), "move", "a", "b")
	require.NoError(t, err)
	assert.Contains(t, out, "already in place")
}

func TestMoveCard_Negative(t *testing.T) {
	seedABC(t)

	_, _, err := testutil.ExecuteCommand(t, CardCmd(), "move", "zzz", "a")
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))

	_, _, err = testutil.ExecuteCommand(t, CardCmd(), "move", "a", "nowhere")
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

// ============================================================================
// rm / show
// ============================================================================

func TestRemoveCard(t *testing.T) {
	dbPath := seedABC(t)

	_, _, err := testutil.ExecuteCommand(t, CardCmd(), "rm", "b")
	require.NoError(t, err)
	assert.Equal(t, order.Relation{"todo": "a", "a": "c"}, testutil.ReadRelation(t, dbPath))

	_, _, err = testutil.ExecuteCommand(t, CardCmd(), "rm", "b")
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

func TestShowCard(t *testing.T) {
	seedABC(t)

	out, _, err := testutil.ExecuteCommand(t, CardCmd(), "show", "c", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"column":"TODO"`)
	assert.Contains(t, out, `"text":"**coffee**"`)

	out, _, err = testutil.ExecuteCommand(t, CardCmd(), "show", "c")
	require.NoError(t, err)
	assert.Contains(t, out, "coffee")
	assert.NotContains(t, out, "**coffee**", "markdown should be rendered")

	_, _, err = testutil.ExecuteCommand(t, CardCmd(), "show", "nope")
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}
