package card

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// MoveCmd returns the card move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <card-id> <target>",
		Short: "Move a card before another card or to the end of a column",
		Long: `Move a card. When the target is a card id the card is placed directly
before it; when the target is a column (id or title) the card goes to the
bottom of that column.

Examples:
  # Put card c right above card a
  tablero card move c a

  # Move a card to the bottom of Done
  tablero card move c done

  # JSON output includes the order patch sent to the store
  tablero card move c a --json
`,
		Args: cobra.ExactArgs(2),
		RunE: runMove,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)
	b := cliInstance.App.Board

	subject := types.ItemID(args[0])
	if _, ok := b.Card(subject); !ok {
		return formatter.FailWithSuggestion(cli.ExitNotFound, "CARD_NOT_FOUND",
			fmt.Errorf("card '%s' not found", subject), "Run 'tablero board' to list card ids")
	}

	target, ok := cli.ResolveTarget(b, args[1])
	if !ok {
		return formatter.FailWithSuggestion(cli.ExitNotFound, "TARGET_NOT_FOUND",
			fmt.Errorf("no card or column named '%s'", args[1]),
			"Available columns: "+cli.FormatAvailableColumns(b.Columns()))
	}

	fromColumn := cli.ColumnTitle(b, subject)
	patch, err := b.MoveCard(subject, target)
	if err != nil {
		return formatter.Fail(cli.ExitError, "MOVE_ERROR", err)
	}
	toColumn := cli.ColumnTitle(b, subject)

	human := fmt.Sprintf("Card %s moved to '%s'", subject, toColumn)
	if patch.IsEmpty() {
		human = fmt.Sprintf("Card %s is already in place in '%s'", subject, toColumn)
	}
	return finish(cliInstance, formatter, map[string]any{
		"card_id":     subject,
		"from_column": fromColumn,
		"to_column":   toColumn,
		"patch":       patch,
	}, human)
}
