package segment

import "regexp"

var (
	subtitleSignature = regexp.MustCompile(`\d{2}:\d{2}:\d{2},\d{3} --> \d{2}:\d{2}:\d{2},\d{3}`)
	lyricSignature    = regexp.MustCompile(`(?m)^\[\d{2}:\d{2}(?:\.\d{2,3})?\]`)
)

// Detect infers the content type of raw text. A subtitle timing line anywhere
// in the text wins over a lyric tag; text matching neither is plain text.
// The result is advisory and callers may override it.
func Detect(text string) ContentType {
	text = normalizeNewlines(text)
	switch {
	case subtitleSignature.MatchString(text):
		return ContentSubtitle
	case lyricSignature.MatchString(text):
		return ContentLyrics
	default:
		return ContentPlainText
	}
}
