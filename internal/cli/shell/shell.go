// Package shell implements `tablero shell`, an interactive session that
// drives the board the way a pointer would: drag a card, drop it on a card or
// column, type a draft, add it.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ErrUsage is returned for malformed commands
var ErrUsage = errors.New("usage")

var commands = []string{
	"add", "cancel", "drag", "draft", "drop", "filter", "help", "ls", "quit", "rm", "show", "status",
}

// ShellCmd returns the shell command
func ShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive board session",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	errOut := cmd.ErrOrStderr()
	cliInstance, err := cli.NewCLI(cmd.Context(), app.WithPersistErrorHandler(func(perr *board.PersistError) {
		_, _ = fmt.Fprintf(errOut, "\nnot saved: %v\n", perr)
	}))
	if err != nil {
		return cli.NewFormatter(false, false, cmd.OutOrStdout(), errOut).
			Fail(cli.ExitError, "INITIALIZATION_ERROR", err)
	}

	sh := New(cliInstance.App.Board, cmd.OutOrStdout())
	if err := sh.Run(); err != nil {
		_ = cliInstance.Close()
		return err
	}
	return cliInstance.Close()
}

// Shell interprets one command line at a time against a board
type Shell struct {
	board *board.Board
	out   io.Writer
	query string
}

// New creates a shell writing to out
func New(b *board.Board, out io.Writer) *Shell {
	return &Shell{board: b, out: out}
}

// historyFile returns the path to the history file
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tablero", "shell_history")
}

// Run reads commands until quit, Ctrl-C or EOF
func (s *Shell) Run() error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)
	line.SetCompleter(s.complete)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}
	defer s.saveHistory(line)

	s.printf("tablero shell. Type 'help' for available commands.\n\n")
	s.printBoard()

	for {
		input, err := line.Prompt(s.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				s.printf("\n")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		quit, err := s.Exec(input)
		if err != nil {
			s.printf("%v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *Shell) saveHistory(line *liner.State) {
	path := historyFile()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	if f, err := os.Create(path); err == nil {
		_, _ = line.WriteHistory(f)
		_ = f.Close()
	}
}

func (s *Shell) prompt() string {
	if id, ok := s.board.Dragging(); ok {
		return fmt.Sprintf("tablero [dragging %s]> ", id)
	}
	return "tablero> "
}

// complete offers command names for the first word, then card and column ids
func (s *Shell) complete(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(line, " ")) {
		prefix := ""
		if len(fields) == 1 {
			prefix = fields[0]
		}
		var out []string
		for _, c := range commands {
			if strings.HasPrefix(c, prefix) {
				out = append(out, c)
			}
		}
		return out
	}

	head := line
	prefix := ""
	if !strings.HasSuffix(line, " ") {
		prefix = fields[len(fields)-1]
		head = strings.TrimSuffix(line, prefix)
	}

	var out []string
	for _, id := range s.ids() {
		if strings.HasPrefix(id, prefix) {
			out = append(out, head+id)
		}
	}
	return out
}

func (s *Shell) ids() []string {
	var ids []string
	for _, col := range s.board.Columns() {
		ids = append(ids, string(col.ID))
		for _, c := range s.board.Cards(col.ID) {
			ids = append(ids, string(c.ID))
		}
	}
	sort.Strings(ids)
	return ids
}

// Exec runs one command line. quit is true for quit/exit.
func (s *Shell) Exec(input string) (quit bool, err error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		s.printHelp()
	case "ls", "board":
		s.printBoard()
	case "drag":
		return false, s.cmdDrag(args)
	case "drop":
		return false, s.cmdDrop(args)
	case "cancel":
		s.board.OnCardDragCancel()
		s.printf("drag cancelled\n")
	case "draft":
		return false, s.cmdDraft(args)
	case "add":
		return false, s.cmdAdd(args)
	case "rm", "delete":
		return false, s.cmdRemove(args)
	case "filter":
		s.query = strings.Join(args, " ")
		s.printBoard()
	case "show":
		return false, s.cmdShow(args)
	case "status":
		d := s.board.Dispatcher()
		s.printf("in flight: %d  saved: %d  failed: %d\n", d.InFlight(), d.Completed(), d.Failures())
	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
	return false, nil
}

func (s *Shell) cmdDrag(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: drag <card>", ErrUsage)
	}
	id := types.ItemID(args[0])
	if _, ok := s.board.Card(id); !ok {
		return fmt.Errorf("card '%s' not found", id)
	}
	s.board.OnCardDragStart(id)
	s.printf("dragging %s\n", id)
	return nil
}

func (s *Shell) cmdDrop(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: drop <card|column>", ErrUsage)
	}
	subject, dragging := s.board.Dragging()
	if !dragging {
		return errors.New("nothing is being dragged")
	}

	target, ok := cli.ResolveTarget(s.board, args[0])
	if !ok {
		// dropping outside any card or column ends the drag without a move
		if _, err := s.board.OnCardDrop(types.NoItem); err != nil {
			return err
		}
		s.printf("dropped outside the board, %s not moved\n", subject)
		return nil
	}

	patch, err := s.board.OnCardDrop(target)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		s.printf("%s not moved\n", subject)
	} else {
		s.printf("moved %s to '%s'\n", subject, cli.ColumnTitle(s.board, subject))
	}
	s.printBoard()
	return nil
}

func (s *Shell) cmdDraft(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: draft <column> [text...]", ErrUsage)
	}
	col, err := cli.FindColumn(s.board.Columns(), args[0])
	if err != nil {
		return err
	}
	s.board.SetDraft(col.ID, strings.Join(args[1:], " "))
	s.printf("draft for '%s': %q\n", col.Title, s.board.Draft(col.ID))
	return nil
}

func (s *Shell) cmdAdd(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: add <column>", ErrUsage)
	}
	col, err := cli.FindColumn(s.board.Columns(), args[0])
	if err != nil {
		return err
	}
	card, err := s.board.CreateCard(col.ID)
	if err != nil {
		if errors.Is(err, board.ErrEmptyDraft) {
			return fmt.Errorf("nothing to add, set text first with: draft %s <text>", col.ID)
		}
		return err
	}
	s.printf("added %s to '%s'\n", card.ID, col.Title)
	s.printBoard()
	return nil
}

func (s *Shell) cmdRemove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: rm <card>", ErrUsage)
	}
	id := types.ItemID(args[0])
	if _, ok := s.board.Card(id); !ok {
		return fmt.Errorf("card '%s' not found", id)
	}
	if err := s.board.DeleteCard(id); err != nil {
		return err
	}
	s.printf("deleted %s\n", id)
	s.printBoard()
	return nil
}

func (s *Shell) cmdShow(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: show <card>", ErrUsage)
	}
	id := types.ItemID(args[0])
	card, ok := s.board.Card(id)
	if !ok {
		return fmt.Errorf("card '%s' not found", id)
	}
	rendered, err := cli.RenderCard(card, cli.ColumnTitle(s.board, id))
	if err != nil {
		return err
	}
	s.printf("%s\n", rendered)
	return nil
}

func (s *Shell) printBoard() {
	cards := s.board.Cards
	if strings.TrimSpace(s.query) != "" {
		filtered := s.board.Filter(s.query)
		cards = func(col types.ItemID) []models.Card { return filtered[col] }
		s.printf("filter: %q\n", s.query)
	}
	dragged, _ := s.board.Dragging()
	s.printf("%s\n", cli.RenderBoard(cli.NewBoardView(s.board.Columns(), cards), dragged))
}

func (s *Shell) printHelp() {
	s.printf(`Commands:
  ls                       print the board
  drag <card>              pick a card up
  drop <card|column>       drop it before a card, or at the end of a column
  cancel                   put the dragged card back
  draft <column> [text]    set the text of the column's new card
  add <column>             add the draft as a card at the top of the column
  rm <card>                delete a card
  show <card>              show a card
  filter [text]            only show matching cards (empty clears)
  status                   background save counters
  quit                     leave the shell
`)
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
