// Package language normalizes target-language input for translation runs.
//
// A small hand-maintained table covers ISO 639-1/639-2 codes and English word
// forms; everything else goes through golang.org/x/text BCP 47 parsing and
// CLDR display names. Prompts use DisplayName, exported file names use FileTag.
package language
