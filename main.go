package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/tablero/cmd"
	"github.com/thenoetrevino/tablero/internal/cli"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// commands report their own errors and wrap them with an exit code;
		// anything else (bad flags, unknown command) is printed here
		var exitErr *cli.ExitErr
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
