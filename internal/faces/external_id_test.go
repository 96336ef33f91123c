package faces

import (
	"strings"
	"testing"
)

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Honza", "Honza"},
		{"Jiří", "Jiri"},
		{"café", "cafe"},
		{"Žluťoučký kůň", "Zlutoucky kun"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := RemoveDiacritics(tt.input); result != tt.expected {
				t.Errorf("RemoveDiacritics(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExternalImageID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a.jpg", "a.jpg"},
		{"people/jan novák.jpg", "people_jan_novak.jpg"},
		{"2024-01-02T10:00:00_img.png", "2024-01-02T10:00:00_img.png"},
		{"Jiří (1).jpeg", "Jiri__1_.jpeg"},
		{"日本.jpg", "__.jpg"},
		{"", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := ExternalImageID(tt.input); result != tt.expected {
				t.Errorf("ExternalImageID(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExternalImageID_TruncatesLongKeys(t *testing.T) {
	key := strings.Repeat("dir/", 100) + "face.jpg"
	id := ExternalImageID(key)
	if len(id) != maxExternalIDLength {
		t.Fatalf("expected length %d, got %d", maxExternalIDLength, len(id))
	}
	if !strings.HasSuffix(id, "face.jpg") {
		t.Errorf("expected the file name to be kept, got %q", id)
	}
}
