package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
)

// AddCmd returns the card add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <column> <text>...",
		Short: "Add a card at the top of a column",
		Long: `Add a card at the top of a column. The column may be given by id or title.

Examples:
  tablero card add todo "wash face"
  tablero card add Doing buy milk

  # Quiet mode for bash capture
  CARD=$(tablero card add todo "write report" --quiet)
`,
		Args: cobra.MinimumNArgs(2),
		RunE: runAdd,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)
	b := cliInstance.App.Board

	column, err := cli.FindColumn(b.Columns(), args[0])
	if err != nil {
		suggestion := "Available columns: " + cli.FormatAvailableColumns(b.Columns())
		if guess := cli.SuggestColumn(b.Columns(), args[0]); guess != "" {
			suggestion = fmt.Sprintf("Did you mean '%s'?", guess)
		}
		return formatter.FailWithSuggestion(cli.ExitNotFound, "COLUMN_NOT_FOUND", err, suggestion)
	}

	b.SetDraft(column.ID, strings.Join(args[1:], " "))
	card, err := b.CreateCard(column.ID)
	if err != nil {
		if errors.Is(err, board.ErrEmptyDraft) || errors.Is(err, models.ErrCardTextTooLong) {
			return formatter.Fail(cli.ExitValidation, "VALIDATION_ERROR", err)
		}
		return formatter.Fail(cli.ExitError, "CARD_CREATE_ERROR", err)
	}

	return finish(cliInstance, formatter, card, fmt.Sprintf("Added card %s to '%s'", card.ID, column.Title))
}
