package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTitle(t *testing.T) {
	tests := []struct {
		title      string
		wantName   string
		wantAuthor string
	}{
		{"Miracle by Mitchell Lee", "Miracle", "Mitchell Lee"},
		{"  Spaced   by   Someone  ", "Spaced", "Someone"},
		{"Killer by Phistomefel (via SudokuPad)", "Killer", "Phistomefel"},
		{"Arrows by Qodc (1/2) (SudokuPad)", "Arrows", "Qodc"},
		{"Thermo by Jovi - SudokuPad", "Thermo", "Jovi"},
		{"Stand by Me by Ben King", "Stand", "Me by Ben King"},
		{"SudokuPad", "", ""},
		{"", "", ""},
		{"Nameless by ", "", ""},
		{"Baby steps", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			name, author := ParseTitle(tt.title)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantAuthor, author)
		})
	}
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Puzzle by Setter",
		PageTitle(`<!doctype html><html><head><title> Puzzle by Setter </title></head><body></body></html>`))

	assert.Equal(t, "From OG by Setter",
		PageTitle(`<html><head><meta property="og:title" content="From OG by Setter"></head></html>`))

	assert.Equal(t, "", PageTitle(`<html><body>nothing</body></html>`))
}
