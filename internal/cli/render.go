package cli

import (
	"fmt"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/thenoetrevino/tablero/internal/cli/styles"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// BoardView is a board snapshot ready for output
type BoardView struct {
	Columns []ColumnView `json:"columns"`
}

// ColumnView is one column of a BoardView
type ColumnView struct {
	ID    types.ItemID  `json:"id"`
	Title string        `json:"title"`
	Cards []models.Card `json:"cards"`
}

// NewBoardView pairs columns with their card sequences
func NewBoardView(columns []models.Column, cards func(types.ItemID) []models.Card) BoardView {
	view := BoardView{Columns: make([]ColumnView, 0, len(columns))}
	for _, col := range columns {
		seq := cards(col.ID)
		if seq == nil {
			seq = []models.Card{}
		}
		view.Columns = append(view.Columns, ColumnView{ID: col.ID, Title: col.Title, Cards: seq})
	}
	return view
}

// RenderBoard lays the columns out side by side. The dragged card, if any, is
// highlighted.
func RenderBoard(view BoardView, dragged types.ItemID) string {
	rendered := make([]string, 0, len(view.Columns))
	for _, col := range view.Columns {
		parts := []string{
			styles.ColumnTitleStyle.Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Cards))),
		}
		if len(col.Cards) == 0 {
			parts = append(parts, styles.SubtitleStyle.Render("no cards"))
		}
		for _, card := range col.Cards {
			style := styles.CardStyle
			if card.ID == dragged && !dragged.IsZero() {
				style = styles.DraggedCardStyle
			}
			body := card.Text + "\n" + styles.SubtitleStyle.Render(shortID(card.ID))
			parts = append(parts, style.Render(body))
		}
		rendered = append(rendered, styles.ColumnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// shortID trims uuids for display; the full id is in --json output
func shortID(id types.ItemID) string {
	s := string(id)
	if len(s) > 8 && strings.Count(s, "-") == 4 {
		return s[:8]
	}
	return s
}

var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache.Store(width, renderer)
	return renderer, nil
}

// RenderCard shows a single card with its text rendered as markdown
func RenderCard(card models.Card, columnTitle string) (string, error) {
	renderer, err := getRenderer(styles.CardDetailWidth - 6)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	body, err := renderer.Render(card.Text)
	if err != nil {
		return "", fmt.Errorf("failed to render card text: %w", err)
	}

	if columnTitle == "" {
		columnTitle = "(unplaced)"
	}
	meta := fmt.Sprintf("%s %s  %s %s",
		styles.LabelStyle.Render("ID:"), styles.ValueStyle.Render(string(card.ID)),
		styles.LabelStyle.Render("Column:"), styles.ValueStyle.Render(columnTitle))

	return styles.CardDetailStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		meta,
		strings.TrimRight(body, "\n"),
	)), nil
}
