package aggregated

// Record is one element of the pre-aggregated puzzles.json document.
// Fields not listed here are ignored on decode.
type Record struct {
	Title          string   `json:"title"`
	SudokuPadLinks []string `json:"sudokuPadLinks"`
	ThumbnailURL   string   `json:"thumbnailUrl"`
	Published      string   `json:"published"`

	// Optional.
	VideoURL    string `json:"videoUrl,omitempty"`
	Description string `json:"description,omitempty"`
	Views       string `json:"views,omitempty"`
	Rating      string `json:"rating,omitempty"`
}
