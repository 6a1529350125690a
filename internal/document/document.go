package document

import (
	"strings"

	"bisub/internal/language"
	"bisub/internal/segment"
	"bisub/internal/textutil"
)

// Document is a parsed source text.
type Document struct {
	Name        string
	ContentType segment.ContentType
	Segments    []segment.Segment

	raw string
}

// Load parses text. An empty override triggers content detection.
func Load(name, text string, override segment.ContentType) *Document {
	contentType := override
	if contentType == "" {
		contentType = segment.Detect(text)
	}
	return &Document{
		Name:        strings.TrimSpace(name),
		ContentType: contentType,
		Segments:    segment.Parse(text, contentType),
		raw:         text,
	}
}

// Raw returns the text the document was loaded from.
func (d *Document) Raw() string {
	return d.raw
}

// SetContentType reparses the raw text as contentType. Translations survive
// only when the new segment count matches; the result reports whether they did.
func (d *Document) SetContentType(contentType segment.ContentType) bool {
	fresh := segment.Parse(d.raw, contentType)
	carried, ok := segment.CarryTranslations(d.Segments, fresh)
	d.ContentType = contentType
	d.Segments = carried
	return ok
}

// ClearTranslations drops every translation.
func (d *Document) ClearTranslations() {
	for i := range d.Segments {
		d.Segments[i].TranslatedText = ""
	}
}

// Translated returns the number of translated segments.
func (d *Document) Translated() int {
	return segment.CountTranslated(d.Segments)
}

// Export serializes the document in its content type.
func (d *Document) Export(mode segment.OutputMode) string {
	return segment.Serialize(d.Segments, d.ContentType, mode)
}

// ExportName derives the output file name: "<base>.<lang><ext>" for
// translation-only output and "<base>.<lang>.dual<ext>" for bilingual modes.
func (d *Document) ExportName(targetLanguage string, mode segment.OutputMode) string {
	base := textutil.BaseName(d.Name, "document")
	name := base + "." + language.FileTag(targetLanguage)
	if mode != segment.ModeTranslationOnly {
		name += ".dual"
	}
	return name + d.ContentType.Extension()
}
