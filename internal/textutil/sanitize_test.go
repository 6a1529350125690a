package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Movie: Part 1  ", "Movie- Part 1"},
		{"a/b\\c", "a-b-c"},
		{"what?\"<>|", "what"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.input); got != tt.expected {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/media/subs/Movie.en.srt", "Movie.en"},
		{"C:\\lyrics\\song.lrc", "song"},
		{"notes", "notes"},
		{".hidden", "hidden"},
		{"-", "document"},
		{"", "document"},
		{"???.txt", "document"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.input, "document"); got != tt.expected {
			t.Errorf("BaseName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
