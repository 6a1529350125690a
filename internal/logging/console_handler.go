package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
)

type kv struct {
	key   string
	value slog.Value
}

// prettyHandler renders one line per record:
//
//	2006-01-02 15:04:05 INFO  translate [run=abc chunk=2]: message key=value
type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})
	kvs = dedupeKVsByKey(kvs)

	var component, runID, chunk string
	fields := make([]kv, 0, len(kvs))
	for _, field := range kvs {
		switch field.key {
		case FieldComponent:
			component = renderValue(field.value, false)
			continue
		case FieldRunID:
			runID = renderValue(field.value, false)
			continue
		case FieldChunk:
			chunk = renderValue(field.value, false)
			continue
		}
		fields = append(fields, field)
	}

	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(fields)*24)
	buf.WriteString(consoleTimestamp(record.Time))
	buf.WriteByte(' ')
	fmt.Fprintf(&buf, "%-5s", levelLabel(record.Level))
	if component != "" {
		buf.WriteByte(' ')
		buf.WriteString(component)
	}
	if subject := composeSubject(runID, chunk); subject != "" {
		buf.WriteString(" [")
		buf.WriteString(subject)
		buf.WriteByte(']')
	}
	if component != "" || runID != "" || chunk != "" {
		buf.WriteByte(':')
	}
	buf.WriteByte(' ')
	buf.WriteString(message)
	for _, field := range fields {
		buf.WriteByte(' ')
		buf.WriteString(field.key)
		buf.WriteByte('=')
		buf.WriteString(renderValue(field.value, true))
	}
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func composeSubject(runID, chunk string) string {
	parts := make([]string, 0, 2)
	if runID != "" {
		if len(runID) > 8 {
			runID = runID[:8]
		}
		parts = append(parts, "run="+runID)
	}
	if chunk != "" {
		parts = append(parts, "chunk="+chunk)
	}
	return strings.Join(parts, " ")
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *prettyHandler) clone() *prettyHandler {
	return &prettyHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		attrs:     append([]slog.Attr(nil), h.attrs...),
		groups:    append([]string(nil), h.groups...),
		addSource: h.addSource,
	}
}

// dedupeKVsByKey keeps the last value for each key, preserving first-seen order.
func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	index := make(map[string]int, len(attrs))
	out := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if pos, ok := index[attr.key]; ok {
			out[pos] = attr
			continue
		}
		index[attr.key] = len(out)
		out = append(out, attr)
	}
	return out
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = appendPrefix(prefix, attr.Key)
		}
		flattenAttrs(dst, next, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(appendPrefix(prefix, attr.Key), ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func appendPrefix(prefix []string, value string) []string {
	if len(prefix) == 0 {
		return []string{value}
	}
	out := make([]string, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = value
	return out
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
