package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli/boardcmd"
	"github.com/thenoetrevino/tablero/internal/cli/card"
	"github.com/thenoetrevino/tablero/internal/cli/serve"
	"github.com/thenoetrevino/tablero/internal/cli/shell"
	"github.com/thenoetrevino/tablero/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tablero",
	Short: "Tablero - a kanban board with optimistic sync",
	Long: `Tablero keeps cards in four columns (TODO, Doing, Waiting, Done).
Changes apply locally right away and are saved in the background to a local
SQLite or JSON file store, or to a remote 'tablero serve' instance.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(os.Getenv("TABLERO_LOG_DIR")); err != nil {
			// logging is best effort, commands still work without it
			fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardcmd.BoardCmd())
	rootCmd.AddCommand(card.CardCmd())
	rootCmd.AddCommand(serve.ServeCmd())
	rootCmd.AddCommand(shell.ShellCmd())
}

func Execute() error {
	return rootCmd.Execute()
}
