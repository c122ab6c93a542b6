// Package testutil holds helpers shared by command tests
package testutil

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/database"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/order"
)

// SetupCLIEnv points config and storage at a temp dir and returns the
// SQLite path commands will use
func SetupCLIEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "board.db")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TABLERO_DB", dbPath)
	t.Setenv("TABLERO_SERVER_URL", "")
	t.Setenv("TABLERO_SYNC_RETRIES", "0")
	return dbPath
}

// SeedBoard writes cards and an order relation straight to the database
func SeedBoard(t *testing.T, dbPath string, cards []models.Card, rel order.Relation) {
	t.Helper()
	ctx := context.Background()

	db, err := database.InitDB(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := database.NewRepository(db)
	for _, card := range cards {
		if err := repo.CreateCard(ctx, card); err != nil {
			t.Fatalf("Failed to seed card %s: %v", card.ID, err)
		}
	}
	if err := repo.PatchCardsOrder(ctx, order.Patch(rel)); err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
}

// ReadRelation returns the stored order relation
func ReadRelation(t *testing.T, dbPath string) order.Relation {
	t.Helper()
	ctx := context.Background()

	db, err := database.InitDB(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rel, err := database.NewRepository(db).GetCardsOrder(ctx)
	if err != nil {
		t.Fatalf("Failed to read order: %v", err)
	}
	return rel
}

// ExecuteCommand runs a cobra command with args and captures stdout and
// stderr
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
