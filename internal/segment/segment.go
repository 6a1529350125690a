package segment

import (
	"fmt"
	"strings"
)

// PlaceholderTime is the synthetic timestamp assigned to plain-text segments.
const PlaceholderTime = "00:00:00,000"

// ContentType identifies the structural format of a document.
type ContentType string

const (
	ContentPlainText ContentType = "plain-text"
	ContentSubtitle  ContentType = "subtitle"
	ContentLyrics    ContentType = "lyrics"
)

// ContentTypes lists every supported content type in display order.
func ContentTypes() []ContentType {
	return []ContentType{ContentSubtitle, ContentLyrics, ContentPlainText}
}

// ParseContentType resolves a user-supplied content type name. Common file
// extensions are accepted as aliases.
func ParseContentType(value string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "plain-text", "plain", "text", "txt":
		return ContentPlainText, nil
	case "subtitle", "subtitles", "srt":
		return ContentSubtitle, nil
	case "lyrics", "lyric", "lrc":
		return ContentLyrics, nil
	default:
		return "", fmt.Errorf("unknown content type %q (want subtitle, lyrics, or plain-text)", value)
	}
}

// Extension returns the conventional file extension for the content type.
func (c ContentType) Extension() string {
	switch c {
	case ContentSubtitle:
		return ".srt"
	case ContentLyrics:
		return ".lrc"
	default:
		return ".txt"
	}
}

// OutputMode selects which combination of original and translated text is
// emitted during serialization.
type OutputMode string

const (
	ModeTranslationOnly  OutputMode = "translation-only"
	ModeTranslationFirst OutputMode = "translation-then-original"
	ModeOriginalFirst    OutputMode = "original-then-translation"
)

// OutputModes lists every supported output mode.
func OutputModes() []OutputMode {
	return []OutputMode{ModeTranslationOnly, ModeTranslationFirst, ModeOriginalFirst}
}

// ParseOutputMode resolves a user-supplied output mode name.
func ParseOutputMode(value string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "translation-only", "translation", "only":
		return ModeTranslationOnly, nil
	case "translation-then-original", "translation-first":
		return ModeTranslationFirst, nil
	case "original-then-translation", "original-first":
		return ModeOriginalFirst, nil
	default:
		return "", fmt.Errorf("unknown output mode %q", value)
	}
}

// Segment is one translatable unit of text with its timing metadata.
type Segment struct {
	ID             int    `json:"id"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
}

// Translated reports whether a translation has been recorded.
func (s Segment) Translated() bool {
	return s.TranslatedText != ""
}

// DisplayText returns the translation, falling back to the original text.
func (s Segment) DisplayText() string {
	if s.TranslatedText != "" {
		return s.TranslatedText
	}
	return s.OriginalText
}

// Texts returns the original text of every segment, in order.
func Texts(segments []Segment) []string {
	out := make([]string, len(segments))
	for i, seg := range segments {
		out[i] = seg.OriginalText
	}
	return out
}

// Clone returns a deep copy of the segment list.
func Clone(segments []Segment) []Segment {
	if segments == nil {
		return nil
	}
	out := make([]Segment, len(segments))
	copy(out, segments)
	return out
}
