package model

// Chunk is a contiguous span of text extracted from one contract document.
// Chunks are created during ingestion and replaced wholesale on re-ingestion;
// they are never mutated in place.
type Chunk struct {
	FileName  string    `json:"file_name"`
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
}

// SearchResult is a chunk reference with a similarity score, produced
// transiently per query. Higher score means more relevant.
type SearchResult struct {
	FileName string  `json:"file_name"`
	Index    int     `json:"index"`
	Text     string  `json:"text"`
	Score    float32 `json:"score"`
}
