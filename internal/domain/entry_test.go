package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPuzzleEntry() VideoEntry {
	return VideoEntry{
		Title:    "Two puzzles",
		VideoURL: "https://www.youtube.com/watch?v=two",
		Puzzles: []Puzzle{
			{Link: "https://sudokupad.svencodes.com/puzzle/a"},
			{Link: "https://sudokupad.svencodes.com/puzzle/b"},
		},
	}
}

func TestDerivedPredicatesOnEmptyPuzzleList(t *testing.T) {
	e := VideoEntry{VideoURL: "v"}

	assert.False(t, e.IsAnyOpened())
	assert.False(t, e.IsAllOpened())
	assert.False(t, e.IsAnySolved())
	assert.False(t, e.IsAllSolved())
}

func TestIsAllSolvedFlipsOnlyWhenEveryPuzzleIsSolved(t *testing.T) {
	e := twoPuzzleEntry()

	e.Puzzles[0].MarkedAsSolved = true
	assert.True(t, e.IsAnySolved())
	assert.False(t, e.IsAllSolved())
	assert.False(t, e.Puzzles[1].MarkedAsSolved, "second puzzle must be untouched")

	e.Puzzles[1].MarkedAsSolved = true
	assert.True(t, e.IsAllSolved())
}

func TestIsAllOpened(t *testing.T) {
	e := twoPuzzleEntry()
	e.Puzzles[1].WasOpened = true

	assert.True(t, e.IsAnyOpened())
	assert.False(t, e.IsAllOpened())

	e.Puzzles[0].WasOpened = true
	assert.True(t, e.IsAllOpened())
}

func TestUnmarshalAppliesDefaults(t *testing.T) {
	doc := `{"title":"Old","videoUrl":"v1","published":"2023-01-01T00:00:00+00:00","somethingNew":42}`

	var e VideoEntry
	require.NoError(t, json.Unmarshal([]byte(doc), &e))

	assert.Equal(t, "Old", e.Title)
	assert.Equal(t, DefaultCount, e.Views)
	assert.Equal(t, DefaultCount, e.Rating)
	assert.Equal(t, 0, e.VideoLength)
	assert.False(t, e.IsDeleted)
	assert.NotNil(t, e.Puzzles)
	assert.Empty(t, e.Puzzles)
}

func TestUnmarshalKeepsExplicitValues(t *testing.T) {
	doc := `{"title":"T","videoUrl":"v","views":"1234","rating":"4.9","videoLength":930,"isDeleted":true,
		"puzzles":[{"sudokuLink":"l","wasOpened":true,"extra":"ignored"}]}`

	var e VideoEntry
	require.NoError(t, json.Unmarshal([]byte(doc), &e))

	assert.Equal(t, "1234", e.Views)
	assert.Equal(t, "4.9", e.Rating)
	assert.Equal(t, 930, e.VideoLength)
	assert.True(t, e.IsDeleted)
	require.Len(t, e.Puzzles, 1)
	assert.True(t, e.Puzzles[0].WasOpened)
	assert.Empty(t, e.Puzzles[0].Name)
}

func TestCloneDoesNotSharePuzzles(t *testing.T) {
	e := twoPuzzleEntry()
	c := e.Clone()
	c.Puzzles[0].WasOpened = true

	assert.False(t, e.Puzzles[0].WasOpened)
	assert.Equal(t, 1, e.PuzzleIndex("https://sudokupad.svencodes.com/puzzle/b"))
	assert.Equal(t, -1, e.PuzzleIndex("missing"))
}

func TestEqualAll(t *testing.T) {
	a := []VideoEntry{twoPuzzleEntry()}
	b := CloneAll(a)
	assert.True(t, EqualAll(a, b))

	b[0].Puzzles[1].MarkedAsSolved = true
	assert.False(t, EqualAll(a, b))

	c := CloneAll(a)
	c[0].Puzzles = nil
	a[0].Puzzles = []Puzzle{}
	assert.True(t, EqualAll(a, c), "nil and empty puzzle lists compare equal")
}
