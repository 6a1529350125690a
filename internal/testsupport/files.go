package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SubtitleFixture is a three-cue subtitle track.
const SubtitleFixture = `1
00:00:01,000 --> 00:00:02,500
Hello there.

2
00:00:03,000 --> 00:00:04,000
How are you?

3
00:00:05,000 --> 00:00:07,000
Fine,
thanks.
`

// LyricsFixture is a short LRC track.
const LyricsFixture = `[00:12.00]First line
[00:17.20]Second line
[00:21.10]Third line
`

// WriteFile writes content to path, creating parent directories, and
// returns path.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content at path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
