package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToDir(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(dir))

	slog.Info("card moved", "card", "a")

	data, err := os.ReadFile(filepath.Join(dir, "tablero.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "card moved")
	assert.Contains(t, string(data), "card=a")
}
