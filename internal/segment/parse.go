package segment

import (
	"regexp"
	"strings"
)

const arrowToken = "-->"

var (
	blankLineSplit = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)*`)
	subtitleTiming = regexp.MustCompile(`(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
	lyricLine      = regexp.MustCompile(`^\[(\d{2}:\d{2}(?:\.\d{2,3})?)\](.*)$`)
)

// Parse splits text into segments according to the content type. Unknown
// content types are treated as plain text.
func Parse(text string, contentType ContentType) []Segment {
	switch contentType {
	case ContentSubtitle:
		return ParseSubtitle(text)
	case ContentLyrics:
		return ParseLyrics(text)
	default:
		return ParsePlain(text)
	}
}

// ParseSubtitle parses SRT-style cue blocks. Blocks without a well-formed
// timing line, or without text after it, are dropped.
func ParseSubtitle(text string) []Segment {
	var segments []Segment
	for _, block := range splitBlocks(text) {
		lines := strings.Split(block, "\n")
		timingIdx := -1
		for i, line := range lines {
			if strings.Contains(line, arrowToken) {
				timingIdx = i
				break
			}
		}
		if timingIdx < 0 {
			continue
		}
		match := subtitleTiming.FindStringSubmatch(lines[timingIdx])
		if match == nil {
			continue
		}
		body := strings.TrimSpace(strings.Join(lines[timingIdx+1:], "\n"))
		if body == "" {
			continue
		}
		segments = append(segments, Segment{
			ID:           len(segments) + 1,
			StartTime:    match[1],
			EndTime:      match[2],
			OriginalText: body,
		})
	}
	return segments
}

// ParseLyrics parses LRC lines of the form "[MM:SS(.ff)]text". Every line is
// independent; lines with a timestamp but no lyric are dropped.
func ParseLyrics(text string) []Segment {
	var segments []Segment
	for _, line := range strings.Split(normalizeNewlines(text), "\n") {
		match := lyricLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		body := strings.TrimSpace(match[2])
		if body == "" {
			continue
		}
		segments = append(segments, Segment{
			ID:           len(segments) + 1,
			StartTime:    match[1],
			OriginalText: body,
		})
	}
	return segments
}

// ParsePlain splits prose into paragraphs on blank lines.
func ParsePlain(text string) []Segment {
	var segments []Segment
	for _, block := range splitBlocks(text) {
		body := strings.TrimSpace(block)
		if body == "" {
			continue
		}
		segments = append(segments, Segment{
			ID:           len(segments) + 1,
			StartTime:    PlaceholderTime,
			EndTime:      PlaceholderTime,
			OriginalText: body,
		})
	}
	return segments
}

func splitBlocks(text string) []string {
	text = strings.TrimSpace(normalizeNewlines(text))
	if text == "" {
		return nil
	}
	return blankLineSplit.Split(text, -1)
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
