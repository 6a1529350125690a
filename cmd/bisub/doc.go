// Command bisub segments subtitle, lyric, and plain-text documents, translates
// them through a configured model provider, and writes the result back in the
// source format, optionally bilingual.
//
// Translation output goes to stdout or a file; logs and progress go to stderr
// so the two can be piped independently. `bisub serve` exposes the same
// pipeline over HTTP.
package main
