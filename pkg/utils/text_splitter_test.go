package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{
			name:       "short text stays whole",
			text:       "hello world",
			chunkSize:  100,
			overlap:    10,
			wantChunks: 1,
		},
		{
			name:       "exact chunk size stays whole",
			text:       strings.Repeat("a", 50),
			chunkSize:  50,
			overlap:    10,
			wantChunks: 1,
		},
		{
			name:       "splits with overlap",
			text:       strings.Repeat("a", 100),
			chunkSize:  50,
			overlap:    10,
			wantChunks: 3, // steps of 40: [0:50], [40:90], [80:100]
		},
		{
			name:       "overlap larger than chunk falls back to full steps",
			text:       strings.Repeat("a", 100),
			chunkSize:  50,
			overlap:    60,
			wantChunks: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)

			if len(chunks) != tt.wantChunks {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.wantChunks)
			}
			for i, c := range chunks {
				if len([]rune(c)) > tt.chunkSize {
					t.Errorf("chunk %d exceeds chunk size: %d", i, len([]rune(c)))
				}
			}
		})
	}
}

func TestSplitTextPreservesContent(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog, again and again and again."
	chunks := SplitText(text, 20, 5)

	// First chunk starts the text, last chunk ends it
	if !strings.HasPrefix(text, chunks[0][:10]) {
		t.Errorf("first chunk does not start the text: %q", chunks[0])
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Errorf("last chunk does not end the text: %q", last)
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("日本語のテキスト", 20)
	chunks := SplitText(text, 30, 5)

	for i, c := range chunks {
		if len([]rune(c)) > 30 {
			t.Errorf("chunk %d exceeds rune budget: %d", i, len([]rune(c)))
		}
	}
}
