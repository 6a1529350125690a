package segment

// CarryTranslations returns a copy of fresh in which each segment inherits the
// translation at the same index of previous. Translations are carried only when
// both lists have the same length; otherwise fresh is returned untouched. The
// boolean reports whether a carry-over happened.
//
// This is positional, not content aware: it exists so switching the content
// type of an already translated document does not discard work when the new
// parse yields the same number of segments.
func CarryTranslations(previous, fresh []Segment) ([]Segment, bool) {
	out := Clone(fresh)
	if len(previous) == 0 || len(previous) != len(fresh) {
		return out, false
	}
	for i := range out {
		out[i].TranslatedText = previous[i].TranslatedText
	}
	return out, true
}

// CountTranslated returns the number of segments with a translation.
func CountTranslated(segments []Segment) int {
	count := 0
	for _, seg := range segments {
		if seg.Translated() {
			count++
		}
	}
	return count
}
