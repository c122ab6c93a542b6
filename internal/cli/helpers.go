package cli

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// FindColumn finds a column by id or by title (case-insensitive)
func FindColumn(columns []models.Column, name string) (models.Column, error) {
	for _, col := range columns {
		if string(col.ID) == name || strings.EqualFold(col.Title, name) {
			return col, nil
		}
	}
	return models.Column{}, fmt.Errorf("column '%s' not found", name)
}

// FormatAvailableColumns returns a comma-separated list of column titles
func FormatAvailableColumns(columns []models.Column) string {
	titles := make([]string, len(columns))
	for i, col := range columns {
		titles[i] = col.Title
	}
	return strings.Join(titles, ", ")
}

// SuggestColumn returns the column title closest to name, or "" when
// nothing is within two edits
func SuggestColumn(columns []models.Column, name string) string {
	best, bestDist := "", 3
	for _, col := range columns {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(col.Title))
		if d < bestDist {
			best, bestDist = col.Title, d
		}
	}
	return best
}

// ResolveTarget interprets arg as a card id first, then as a column
func ResolveTarget(b *board.Board, arg string) (types.ItemID, bool) {
	if _, ok := b.Card(types.ItemID(arg)); ok {
		return types.ItemID(arg), true
	}
	if col, err := FindColumn(b.Columns(), arg); err == nil {
		return col.ID, true
	}
	return types.NoItem, false
}

// ColumnTitle returns the title of the column holding card id, or ""
func ColumnTitle(b *board.Board, id types.ItemID) string {
	colID, ok := b.ColumnOf(id)
	if !ok {
		return ""
	}
	for _, col := range b.Columns() {
		if col.ID == colID {
			return col.Title
		}
	}
	return ""
}

// AddOutputFlags registers the agent-friendly --json and --quiet flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

// FormatterFromCmd builds a formatter from the command's output flags and
// streams
func FormatterFromCmd(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return NewFormatter(jsonOutput, quietMode, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
