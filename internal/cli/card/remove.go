package card

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// RemoveCmd returns the card rm subcommand
func RemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <card-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a card",
		Args:    cobra.ExactArgs(1),
		RunE:    runRemove,
	}

	cli.AddOutputFlags(cmd)
	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
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

	if err := b.DeleteCard(id); err != nil {
		return formatter.Fail(cli.ExitError, "CARD_DELETE_ERROR", err)
	}
	return finish(cliInstance, formatter, card, fmt.Sprintf("Deleted card %s", id))
}
