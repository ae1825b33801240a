package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	gosync "sync"

	"github.com/fatih/color"
	"golang.org/x/exp/slog"
	"golang.org/x/term"

	"skusync/internal/config"
)

// New создает логгер в зависимости от окружения
func New(env string) *slog.Logger {
	switch env {
	case config.EnvProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		return setupPrettySlog()
	}
}

// WithLevel как New, но с явным уровнем из LOG_LEVEL (debug, info, warn, error)
func WithLevel(env, level string) *slog.Logger {
	return NewWriter(os.Stdout, env, level)
}

// NewWriter пишет в out; CLI отдает stdout под результаты команд, логи уходят в stderr
func NewWriter(out io.Writer, env, level string) *slog.Logger {
	lvl, ok := parseLevel(level)
	if !ok {
		lvl = slog.LevelDebug
		if env == config.EnvProd {
			lvl = slog.LevelInfo
		}
	}

	if env == config.EnvProd || env == config.EnvDev {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: lvl}))
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(newPrettyHandler(out, lvl))
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func setupPrettySlog() *slog.Logger {
	return slog.New(newPrettyHandler(os.Stdout, slog.LevelDebug))
}

// prettyHandler человекочитаемый вывод для локальной разработки
type prettyHandler struct {
	out   io.Writer
	level slog.Level
	attrs []slog.Attr
	group string
	mu    *gosync.Mutex
}

func newPrettyHandler(out io.Writer, level slog.Level) *prettyHandler {
	return &prettyHandler{out: out, level: level, mu: &gosync.Mutex{}}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.BlueString(level)
	default:
		level = color.MagentaString(level)
	}

	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		fields[h.key(a.Key)] = attrValue(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[h.key(a.Key)] = attrValue(a)
		return true
	})

	var extra string
	if len(fields) > 0 {
		b, err := json.Marshal(fields)
		if err != nil {
			b = []byte(fmt.Sprint(fields))
		}
		extra = color.WhiteString(string(b))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out,
		r.Time.Format("[15:04:05.000]"),
		level,
		color.CyanString(r.Message),
		extra,
	)
	return err
}

func attrValue(a slog.Attr) any {
	v := a.Value.Any()
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return v
}

func (h *prettyHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.group = h.key(name)
	return &next
}
