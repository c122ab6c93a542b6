// Package boardcmd implements `tablero board`
package boardcmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the board",
		Long: `Print every column with its cards in order.

Examples:
  tablero board

  # Only cards whose text matches, tolerating small typos
  tablero board --filter "brush teth"

  # JSON output for agents
  tablero board --json
`,
		Args: cobra.NoArgs,
		RunE: runBoard,
	}

	cmd.Flags().StringP("filter", "f", "", "Only show cards matching this text")
	cmd.Flags().Bool("json", false, "Output in JSON format")

	return cmd
}

func runBoard(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)
	query, _ := cmd.Flags().GetString("filter")

	cliInstance, err := cli.NewCLI(cmd.Context())
	if err != nil {
		return formatter.Fail(cli.ExitError, "INITIALIZATION_ERROR", err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()
	b := cliInstance.App.Board

	cards := b.Cards
	if strings.TrimSpace(query) != "" {
		filtered := b.Filter(query)
		cards = func(col types.ItemID) []models.Card { return filtered[col] }
	}
	view := cli.NewBoardView(b.Columns(), cards)

	return formatter.Success(view, cli.RenderBoard(view, types.NoItem))
}
