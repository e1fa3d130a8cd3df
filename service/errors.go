package service

import "errors"

// Sentinel errors for the failure classes surfaced to the HTTP layer.
// Wrap with fmt.Errorf("...: %w", ...) so handlers can classify with
// errors.Is while keeping the upstream detail.
var (
	// ErrUnreadablePDF means the input file is corrupt, encrypted or not a
	// PDF at all. User-fixable.
	ErrUnreadablePDF = errors.New("unreadable pdf")

	// ErrEmbeddingService means the embedding API call failed (quota,
	// timeout, transport). Retryable by the caller.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrChatService means the chat-completion API call failed. Retryable
	// by the caller.
	ErrChatService = errors.New("chat service error")

	// ErrStoreUnavailable means the vector store could not be reached.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrDimensionMismatch means an embedding's length differs from the
	// configured index dimensionality. Configuration error, fatal until
	// fixed.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
