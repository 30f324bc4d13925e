package parser

// Literal is a marker-call argument together with where it was found.
type Literal struct {
	// Text is the raw text between the quote characters.
	Text string `json:"text"`
	// Line is the 1-based line of the marker call.
	Line int `json:"line"`
	// Column is the 1-based byte column of the marker call.
	Column int `json:"column"`
}
