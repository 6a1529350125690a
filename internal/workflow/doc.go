// Package workflow drives a translation run over a parsed document.
//
// A Runner partitions segments into fixed-size chunks and feeds them to a
// Translator one at a time. Chunk i>0 carries the translated text of the
// last segment of chunk i-1 as prior context, so chunks never overlap. The
// runner owns the in-flight overlay: the set of segment IDs whose chunk is
// currently with the provider. The overlay is cleared after every chunk and
// on every exit path, and observers read it through Status.
//
// When a chunk fails the run stops. Earlier chunks keep their translations,
// later segments stay untranslated, and the chunk's error is returned as is
// so callers can show it verbatim. Runs are optionally recorded in the
// history ledger through the Recorder interface.
package workflow
