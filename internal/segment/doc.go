// Package segment detects, parses, and re-serializes the three document
// formats bisub translates: SRT-style subtitle tracks, LRC lyric tracks, and
// plain prose split into paragraphs.
//
// Parsing is lossless for timing data. Timestamps are opaque tokens that are
// copied into Segment values verbatim and written back unchanged, so a
// subtitle or lyric file survives a parse/serialize round trip byte-for-byte
// apart from cue renumbering and whitespace normalization.
//
// Parsing never fails. Malformed cues, timestamp-only lyric lines, and blank
// paragraphs are dropped, which means any input produces a best-effort (possibly
// empty) segment list.
//
// # Entry Points
//
// Detect: infer a ContentType from raw text.
// Parse: dispatch to ParseSubtitle, ParseLyrics, or ParsePlain.
// Serialize: render segments for a ContentType and OutputMode.
// CarryTranslations: positional translation carry-over after a reparse.
package segment
