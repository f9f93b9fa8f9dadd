package rag

// Metadata travels from a row's document to every chunk cut from it,
// unchanged.
type Metadata struct {
	RowIndex  int    `json:"row_index"`
	TotalRows int    `json:"total_rows"`
	Source    string `json:"source"`
	Fields    string `json:"fields"`
	Timestamp string `json:"timestamp"`
}

// Document is the textual form of one spreadsheet row, the chunker's input.
type Document struct {
	Content string
	Meta    Metadata
}

// Chunk is a bounded-size fragment of a document, the unit that gets
// embedded. Ord preserves source order across all chunks of a dataset.
type Chunk struct {
	Text string
	Ord  int
	Meta Metadata
}
