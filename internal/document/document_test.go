package document

import (
	"strings"
	"testing"

	"bisub/internal/segment"
)

const subtitleText = `1
00:00:01,000 --> 00:00:02,000
Hello

2
00:00:03,000 --> 00:00:04,000
World
`

func TestLoadDetectsContentType(t *testing.T) {
	doc := Load("clip.srt", subtitleText, "")
	if doc.ContentType != segment.ContentSubtitle {
		t.Fatalf("expected subtitle, got %q", doc.ContentType)
	}
	if len(doc.Segments) != 2 || doc.Segments[1].OriginalText != "World" {
		t.Fatalf("unexpected segments %+v", doc.Segments)
	}

	forced := Load("clip.srt", subtitleText, segment.ContentPlainText)
	if forced.ContentType != segment.ContentPlainText {
		t.Fatalf("override ignored: %q", forced.ContentType)
	}
	if forced.Raw() != subtitleText {
		t.Fatal("raw text not retained")
	}
}

func TestSetContentTypeCarriesMatchingTranslations(t *testing.T) {
	text := "one\n\ntwo\n\nthree"
	doc := Load("notes.txt", text, segment.ContentPlainText)
	for i := range doc.Segments {
		doc.Segments[i].TranslatedText = strings.ToUpper(doc.Segments[i].OriginalText)
	}

	// A plain document reparsed as plain keeps the same three segments.
	if !doc.SetContentType(segment.ContentPlainText) {
		t.Fatal("expected translations to be carried")
	}
	if doc.Translated() != 3 || doc.Segments[2].TranslatedText != "THREE" {
		t.Fatalf("unexpected segments after carry %+v", doc.Segments)
	}
}

func TestSetContentTypeDropsTranslationsOnCountChange(t *testing.T) {
	doc := Load("clip.srt", subtitleText, "")
	for i := range doc.Segments {
		doc.Segments[i].TranslatedText = "x"
	}
	// Reparsed as lyrics the subtitle text yields no segments.
	if doc.SetContentType(segment.ContentLyrics) {
		t.Fatal("expected carry to be refused")
	}
	if doc.ContentType != segment.ContentLyrics || doc.Translated() != 0 {
		t.Fatalf("unexpected state %q translated=%d", doc.ContentType, doc.Translated())
	}

	doc.SetContentType(segment.ContentSubtitle)
	if len(doc.Segments) != 2 || doc.Translated() != 0 {
		t.Fatalf("translations must not reappear, got %+v", doc.Segments)
	}
}

func TestExportAndName(t *testing.T) {
	doc := Load("/media/Show S01E01.srt", subtitleText, "")
	doc.Segments[0].TranslatedText = "Hola"

	got := doc.Export(segment.ModeOriginalFirst)
	if !strings.Contains(got, "Hello\nHola") || !strings.Contains(got, "World\nWorld") {
		t.Fatalf("unexpected export:\n%s", got)
	}

	if name := doc.ExportName("Spanish", segment.ModeTranslationOnly); name != "Show S01E01.es.srt" {
		t.Fatalf("unexpected export name %q", name)
	}
	if name := doc.ExportName("pt-BR", segment.ModeTranslationFirst); name != "Show S01E01.pt-br.dual.srt" {
		t.Fatalf("unexpected dual export name %q", name)
	}
	stdin := Load("-", "[00:01.00]la", "")
	if name := stdin.ExportName("ja", segment.ModeTranslationOnly); name != "document.ja.lrc" {
		t.Fatalf("unexpected stdin export name %q", name)
	}
}

func TestClearTranslations(t *testing.T) {
	doc := Load("a.txt", "a\n\nb", "")
	doc.Segments[0].TranslatedText = "A"
	doc.ClearTranslations()
	if doc.Translated() != 0 {
		t.Fatal("expected no translations")
	}
}
