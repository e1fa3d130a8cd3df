package model

// HealthResponse is returned by GET / on the search service.
type HealthResponse struct {
	Status  string `json:"status"`
	StoreOK bool   `json:"store_ok"`
}

// DocumentListResponse is the paginated document listing.
type DocumentListResponse struct {
	Documents []string `json:"documents"`
	Total     int      `json:"total"`
	Skip      int      `json:"skip"`
	Limit     int      `json:"limit"`
}

// SearchResponse holds ranked search results for a query.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// FilesResponse is the set of indexed file names.
type FilesResponse struct {
	Files []string `json:"files"`
}

// AskRequest is the body of POST /llm/ask.
type AskRequest struct {
	Question   string `json:"question" binding:"required"`
	MaxResults int    `json:"max_results"`
}

// AskResponse is the grounded answer with its source file names.
type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// UploadResponse acknowledges an accepted upload; ingestion continues in the
// background and can be polled via the upload id.
type UploadResponse struct {
	UploadID string `json:"upload_id"`
	FileName string `json:"file_name"`
	Status   string `json:"status"`
}

// ErrorResponse is the uniform error body for both services.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
