package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"
)

const consoleTimestampLayout = "2006-01-02 15:04:05"

// consoleHandler renders compact single-line output for interactive use:
//
//	2026-01-02 10:16:00 INFO  post published component=publisher post_id=...
type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
	group string
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar) slog.Handler {
	return &consoleHandler{w: w, level: level}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	if !record.Time.IsZero() {
		sb.WriteString(record.Time.In(time.Local).Format(consoleTimestampLayout))
		sb.WriteByte(' ')
	}
	sb.WriteString(fmt.Sprintf("%-5s ", levelLabel(record.Level)))
	sb.WriteString(record.Message)

	attrs := make([]slog.Attr, 0, record.NumAttrs()+len(h.attrs))
	attrs = append(attrs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})
	sort.SliceStable(attrs, func(i, j int) bool {
		return fieldRank(attrs[i].Key) < fieldRank(attrs[j].Key)
	})
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		sb.WriteString(fmt.Sprintf(" %s=%s", key, formatValue(attr.Value)))
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if name != "" {
		if clone.group != "" {
			clone.group += "." + name
		} else {
			clone.group = name
		}
	}
	return &clone
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// fieldRank keeps identity fields first so lines scan consistently.
func fieldRank(key string) int {
	switch key {
	case FieldComponent:
		return 0
	case FieldEventType:
		return 1
	case "post_id":
		return 2
	case "error":
		return 98
	case FieldErrorHint:
		return 99
	default:
		return 50
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t") {
			return fmt.Sprintf("%q", s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		s := v.String()
		if strings.ContainsAny(s, " \t") {
			return fmt.Sprintf("%q", s)
		}
		return s
	}
}
