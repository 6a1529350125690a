// Package document holds a loaded source text together with its parsed
// segments.
//
// The raw text is kept so the content type can be changed after loading:
// SetContentType reparses it and carries existing translations across when
// the new parse yields the same number of segments.
package document
