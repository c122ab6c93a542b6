package card

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
)

// CardCmd returns the card parent command
func CardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards",
	}

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(RemoveCmd())
	cmd.AddCommand(ShowCmd())

	return cmd
}

// openCLI loads the board, reporting failures through the formatter
func openCLI(cmd *cobra.Command, formatter *cli.OutputFormatter) (*cli.CLI, error) {
	cliInstance, err := cli.NewCLI(cmd.Context())
	if err != nil {
		return nil, formatter.Fail(cli.ExitError, "INITIALIZATION_ERROR", err)
	}
	return cliInstance, nil
}

func closeCLI(cliInstance *cli.CLI) {
	if err := cliInstance.Close(); err != nil {
		slog.Error("failed to close CLI", "error", err)
	}
}

// finish flushes pending changes, then prints the result
func finish(cliInstance *cli.CLI, formatter *cli.OutputFormatter, data any, human string) error {
	if err := cliInstance.Close(); err != nil {
		return formatter.Fail(cli.ExitError, "SYNC_ERROR", err)
	}
	return formatter.Success(data, human)
}
