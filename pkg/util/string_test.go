package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"uppercase", "HELLO", "hello"},
		{"german umlauts", "Über Ärger größer", "ueber-aerger-groesser"},
		{"sharp s", "Straße", "strasse"},
		{"accents stripped", "Café à la crème", "cafe-a-la-creme"},
		{"punctuation collapsed", "Hello, World! Again?", "hello-world-again"},
		{"multiple spaces", "a   b", "a-b"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"numbers kept", "Top 10 Tips 2026", "top-10-tips-2026"},
		{"empty", "", ""},
		{"only junk", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Hello World",
		"Über Ärger",
		"Top 10: CSS-Tricks für Accessibility!",
		"already-a-slug",
	}

	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "slugify must be idempotent for %q", in)
	}
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, `say \"hi\"`, EscapeYAML(`say "hi"`))
	assert.Equal(t, `line\nbreak`, EscapeYAML("line\nbreak"))
}
