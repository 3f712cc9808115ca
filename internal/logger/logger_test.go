package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerWritesFileAndLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "viewer.txt")
	log, h := New(path, slog.LevelInfo)

	log.Debug("hidden")
	log.With("component", "picking").Info("selection resolved", "count", 2)
	log.WithGroup("mask").Warn("rebuilt", "points", 5)

	lines := h.Lines()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "["))
	assert.Contains(t, lines[0], "INFO selection resolved component=picking count=2")
	assert.Contains(t, lines[1], "WARN rebuilt mask.points=5")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(lines, "\n")+"\n", string(data))
}

func TestGroupQualifiesOnlyLaterAttrs(t *testing.T) {
	log, h := New(filepath.Join(t.TempDir(), "g.txt"), slog.LevelInfo)

	log.With("component", "picking").WithGroup("pass").With("backend", "software").
		Info("done", "width", 64, slog.Group("size", "w", 64, "h", 32))

	lines := h.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "INFO done component=picking pass.backend=software pass.width=64 pass.size.w=64 pass.size.h=32")
}

func TestLinesAreBounded(t *testing.T) {
	log, h := New(filepath.Join(t.TempDir(), "l.txt"), slog.LevelInfo)
	for i := 0; i < maxLines+10; i++ {
		log.Info("tick", "i", i)
	}
	lines := h.Lines()
	assert.Len(t, lines, maxLines)
	assert.Contains(t, lines[len(lines)-1], "i=73")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}
