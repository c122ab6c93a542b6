package card

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ShowCmd returns the card show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <card-id>",
		Short: "Show a card, rendering its text as markdown",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)
	b := cliInstance.App.Board

	id := types.ItemID(args[0])
	card, ok := b.Card(id)
	if !ok {
		return formatter.Fail(cli.ExitNotFound, "CARD_NOT_FOUND", fmt.Errorf("card '%s' not found", id))
	}
	column := cli.ColumnTitle(b, id)

	switch {
	case formatter.JSON:
		return formatter.Success(map[string]any{
			"id":     card.ID,
			"text":   card.Text,
			"column": column,
		}, "")
	case formatter.Quiet:
		// raw text, for piping
		_, err := fmt.Fprintln(cmd.OutOrStdout(), card.Text)
		return err
	}

	rendered, err := cli.RenderCard(card, column)
	if err != nil {
		return formatter.Fail(cli.ExitError, "RENDER_ERROR", err)
	}
	return formatter.Success(card, rendered)
}
