package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogFilePath is the viewer log file, relative to the working directory.
const LogFilePath = "logs/viewer.txt"

// maxLines bounds the in-memory tail kept for the on-screen overlay.
const maxLines = 64

// Handler is an slog.Handler that stamps each record with local time, appends it to a
// file on disk, and keeps the most recent lines in memory.
type Handler struct {
	level slog.Leveler
	path  string
	attrs []boundAttr
	group string
	state *state
}

// boundAttr is an attribute added by WithAttrs, qualified by the group open at that time.
type boundAttr struct {
	group string
	attr  slog.Attr
}

type state struct {
	mu    sync.Mutex
	lines []string
}

// NewHandler returns a handler writing to path (LogFilePath when empty) and ensures its directory exists.
func NewHandler(path string, level slog.Leveler) *Handler {
	if path == "" {
		path = LogFilePath
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	return &Handler{level: level, path: path, state: &state{}}
}

// New returns a logger backed by a new Handler.
func New(path string, level slog.Leveler) (*slog.Logger, *Handler) {
	h := NewHandler(path, level)
	return slog.New(h), h
}

// ParseLevel maps "debug", "info", "warn" and "error" to a level; anything else is info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	b.WriteString("] ")
	b.WriteString(r.Level.String())
	b.WriteString(" ")
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, a.group, a.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	line := b.String()

	st := h.state
	st.mu.Lock()
	st.lines = append(st.lines, line)
	if len(st.lines) > maxLines {
		st.lines = st.lines[len(st.lines)-maxLines:]
	}
	st.mu.Unlock()

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	_, _ = f.WriteString(line + "\n")
	return f.Close()
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			group = qualify(group, a.Key)
		}
		for _, ga := range v.Group() {
			writeAttr(b, group, ga)
		}
		return
	}
	b.WriteString(" ")
	b.WriteString(qualify(group, a.Key))
	b.WriteString("=")
	if v.Kind() == slog.KindDuration {
		b.WriteString(v.Duration().Round(time.Microsecond).String())
		return
	}
	fmt.Fprint(b, v.Any())
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]boundAttr(nil), h.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, boundAttr{group: h.group, attr: a})
	}
	return &c
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.group = qualify(h.group, name)
	return &c
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

// Lines returns a copy of the most recent lines.
func (h *Handler) Lines() []string {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	out := make([]string, len(h.state.lines))
	copy(out, h.state.lines)
	return out
}
