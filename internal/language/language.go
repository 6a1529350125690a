package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish", "español"}},
	{"fr", "fra", "fre", "French", []string{"french", "français"}},
	{"de", "deu", "ger", "German", []string{"german", "deutsch"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese", "mandarin"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"id", "ind", "", "Indonesian", []string{"indonesian"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"uk", "ukr", "", "Ukrainian", []string{"ukrainian"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// ToISO2 converts any recognized language code or word to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input.
// If the input is already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// Normalize maps a user-supplied target language to a canonical tag. Known
// codes and word forms collapse to ISO 639-1; anything else must parse as a
// BCP 47 tag ("pt-BR", "zh-Hant") and is returned in canonical form.
func Normalize(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", fmt.Errorf("language: empty code")
	}
	if e := lookup(trimmed); e != nil {
		return e.code2, nil
	}
	tag, err := xlanguage.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("language: unrecognized code %q: %w", trimmed, err)
	}
	return tag.String(), nil
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code when neither the
// local table nor the CLDR display data know it.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	if tag, err := xlanguage.Parse(strings.ReplaceAll(trimmed, "_", "-")); err == nil {
		if name := display.English.Tags().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}

// FileTag returns the lowercase tag used in exported file names
// ("movie.es.srt", "song.pt-br.lrc"). Unrecognized input yields "translated".
func FileTag(code string) string {
	normalized, err := Normalize(code)
	if err != nil {
		return "translated"
	}
	return strings.ToLower(normalized)
}
