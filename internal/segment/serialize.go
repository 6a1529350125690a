package segment

import (
	"strconv"
	"strings"
)

// Serialize renders segments in the given content type and output mode. It is
// a pure function of its arguments.
func Serialize(segments []Segment, contentType ContentType, mode OutputMode) string {
	switch contentType {
	case ContentSubtitle:
		return serializeSubtitle(segments, mode)
	case ContentLyrics:
		return serializeLyrics(segments, mode)
	default:
		return serializePlain(segments, mode)
	}
}

// ResolveText returns the text a segment contributes under the output mode.
// Dual modes yield two lines; an untranslated segment repeats its original.
func ResolveText(seg Segment, mode OutputMode) string {
	translated := seg.DisplayText()
	switch mode {
	case ModeTranslationFirst:
		return translated + "\n" + seg.OriginalText
	case ModeOriginalFirst:
		return seg.OriginalText + "\n" + translated
	default:
		return translated
	}
}

func serializeSubtitle(segments []Segment, mode OutputMode) string {
	blocks := make([]string, 0, len(segments))
	for i, seg := range segments {
		var b strings.Builder
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(seg.StartTime)
		b.WriteString(" --> ")
		b.WriteString(seg.EndTime)
		b.WriteByte('\n')
		b.WriteString(ResolveText(seg, mode))
		b.WriteByte('\n')
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}

// Dual modes repeat the timestamp tag on every line so players that only
// show one line per tag still render both languages.
func serializeLyrics(segments []Segment, mode OutputMode) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		tag := "[" + seg.StartTime + "]"
		for _, line := range strings.Split(ResolveText(seg, mode), "\n") {
			lines = append(lines, tag+line)
		}
	}
	return strings.Join(lines, "\n")
}

func serializePlain(segments []Segment, mode OutputMode) string {
	paragraphs := make([]string, 0, len(segments))
	for _, seg := range segments {
		paragraphs = append(paragraphs, ResolveText(seg, mode))
	}
	return strings.Join(paragraphs, "\n\n")
}
