package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// jsonTimeLayout keeps millisecond precision so chunk attempts inside one
// second stay ordered in bisub.log.
const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: renameJSONAttr,
	})
}

func renameJSONAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(jsonTimeLayout))
		}
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}

// splitHandler sends each record to every sink whose level admits it. The
// CLI pairs the console sink on stderr with the JSON file sink.
type splitHandler struct {
	sinks []slog.Handler
}

func newSplitHandler(sinks ...slog.Handler) slog.Handler {
	kept := make([]slog.Handler, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}
	switch len(kept) {
	case 0:
		return discardHandler{}
	case 1:
		return kept[0]
	}
	return &splitHandler{sinks: kept}
}

func (h *splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range h.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *splitHandler) Handle(ctx context.Context, record slog.Record) error {
	var first error
	last := len(h.sinks) - 1
	for i, sink := range h.sinks {
		if !sink.Enabled(ctx, record.Level) {
			continue
		}
		rec := record
		if i < last {
			rec = record.Clone()
		}
		if err := sink.Handle(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(sink slog.Handler) slog.Handler { return sink.WithAttrs(attrs) })
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return h.each(func(sink slog.Handler) slog.Handler { return sink.WithGroup(name) })
}

func (h *splitHandler) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		next[i] = fn(sink)
	}
	return &splitHandler{sinks: next}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

const consoleTimeLayout = "2006-01-02 15:04:05"

func consoleTimestamp(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.In(time.Local).Format(consoleTimeLayout)
}

// renderValue formats a console field. Subject fields (component, run, chunk)
// pass quote=false; key=value pairs quote anything a reader could misparse.
func renderValue(v slog.Value, quote bool) string {
	v = v.Resolve()
	var s string
	switch v.Kind() {
	case slog.KindTime:
		return consoleTimestamp(v.Time())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindFloat64:
		return fmt.Sprintf("%g", v.Float64())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if quote && needsQuotes(s) {
		return fmt.Sprintf("%q", s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' })
}
