package segment

import (
	"reflect"
	"strings"
	"testing"
)

func TestSerializeSubtitleRoundTrip(t *testing.T) {
	input := "7\n00:00:01,000 --> 00:00:02,500\nHello\nthere\n\n\n9\n00:01:03,000 --> 00:01:04,000\nWorld\n"
	parsed := ParseSubtitle(input)
	out := Serialize(parsed, ContentSubtitle, ModeTranslationOnly)

	want := "1\n00:00:01,000 --> 00:00:02,500\nHello\nthere\n\n2\n00:01:03,000 --> 00:01:04,000\nWorld\n"
	if out != want {
		t.Fatalf("unexpected serialization:\n%q\nwant\n%q", out, want)
	}
	reparsed := ParseSubtitle(out)
	if !reflect.DeepEqual(reparsed, parsed) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", reparsed, parsed)
	}
}

func TestSerializeLyricsRoundTrip(t *testing.T) {
	parsed := ParseLyrics("[00:12.19]La la\n[00:15]\n[00:17.50]End")
	out := Serialize(parsed, ContentLyrics, ModeTranslationOnly)
	if out != "[00:12.19]La la\n[00:17.50]End" {
		t.Fatalf("unexpected serialization %q", out)
	}
	if !reflect.DeepEqual(ParseLyrics(out), parsed) {
		t.Fatal("lyric round trip mismatch")
	}
}

func TestSerializePlainRoundTripTexts(t *testing.T) {
	parsed := ParsePlain("One.\n\nTwo\nlines.")
	out := Serialize(parsed, ContentPlainText, ModeTranslationOnly)
	if out != "One.\n\nTwo\nlines." {
		t.Fatalf("unexpected serialization %q", out)
	}
	if !reflect.DeepEqual(Texts(ParsePlain(out)), Texts(parsed)) {
		t.Fatal("plain round trip mismatch")
	}
}

func TestSerializeLyricsDualModeRepeatsTag(t *testing.T) {
	segments := []Segment{
		{ID: 1, StartTime: "00:01.00", OriginalText: "Hola", TranslatedText: "Hello"},
		{ID: 2, StartTime: "00:02.50", OriginalText: "Adiós", TranslatedText: "Bye"},
	}
	out := Serialize(segments, ContentLyrics, ModeTranslationFirst)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected two lines per segment, got %q", out)
	}
	want := []string{"[00:01.00]Hello", "[00:01.00]Hola", "[00:02.50]Bye", "[00:02.50]Adiós"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("unexpected lines %q", lines)
	}

	out = Serialize(segments[:1], ContentLyrics, ModeOriginalFirst)
	if out != "[00:01.00]Hola\n[00:01.00]Hello" {
		t.Fatalf("unexpected original-first output %q", out)
	}
}

func TestSerializeSubtitleDualModes(t *testing.T) {
	segments := []Segment{
		{ID: 4, StartTime: "00:00:01,000", EndTime: "00:00:02,000", OriginalText: "Bonjour", TranslatedText: "Hello"},
	}
	got := Serialize(segments, ContentSubtitle, ModeTranslationFirst)
	if got != "1\n00:00:01,000 --> 00:00:02,000\nHello\nBonjour\n" {
		t.Fatalf("unexpected translation-first output %q", got)
	}
	got = Serialize(segments, ContentSubtitle, ModeOriginalFirst)
	if got != "1\n00:00:01,000 --> 00:00:02,000\nBonjour\nHello\n" {
		t.Fatalf("unexpected original-first output %q", got)
	}
}

func TestSerializeFallsBackToOriginal(t *testing.T) {
	segments := []Segment{
		{ID: 1, StartTime: PlaceholderTime, EndTime: PlaceholderTime, OriginalText: "Uno", TranslatedText: "One"},
		{ID: 2, StartTime: PlaceholderTime, EndTime: PlaceholderTime, OriginalText: "Dos"},
	}
	if got := Serialize(segments, ContentPlainText, ModeTranslationOnly); got != "One\n\nDos" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSerializeDoesNotMutateInput(t *testing.T) {
	segments := ParseSubtitle(sampleSRT)
	before := Clone(segments)
	_ = Serialize(segments, ContentSubtitle, ModeOriginalFirst)
	if !reflect.DeepEqual(before, segments) {
		t.Fatal("serialize mutated its input")
	}
}
