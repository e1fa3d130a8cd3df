package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/contratos-rag/backend/model"
	"github.com/contratos-rag/backend/service"
	"github.com/gin-gonic/gin"
)

// Retriever is the retrieval surface the search handler needs.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]model.SearchResult, error)
	ListDocuments(ctx context.Context, skip, limit int) ([]string, int, error)
	Files(ctx context.Context) ([]string, error)
}

// Asker answers a question grounded on retrieved chunks.
type Asker interface {
	Ask(ctx context.Context, question string, maxResults int) (*model.AskResponse, error)
}

// SearchHandler serves the query side: listing, semantic search and ask.
type SearchHandler struct {
	retriever Retriever
	asker     Asker
	store     service.ChunkStore
}

func NewSearchHandler(retriever Retriever, asker Asker, store service.ChunkStore) *SearchHandler {
	return &SearchHandler{
		retriever: retriever,
		asker:     asker,
		store:     store,
	}
}

// Health reports service status and store connectivity
func (h *SearchHandler) Health(c *gin.Context) {
	storeOK := h.store.Ping(c.Request.Context()) == nil

	c.JSON(http.StatusOK, model.HealthResponse{
		Status:  "ok",
		StoreOK: storeOK,
	})
}

// List returns one page of the distinct indexed documents
func (h *SearchHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	docs, total, err := h.retriever.ListDocuments(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.DocumentListResponse{
		Documents: docs,
		Total:     total,
		Skip:      skip,
		Limit:     limit,
	})
}

// Search runs a semantic query and returns ranked results
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "query parameter 'q' is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	results, err := h.retriever.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SearchResponse{
		Query:   query,
		Results: results,
	})
}

// Files returns the full set of indexed file names
func (h *SearchHandler) Files(c *gin.Context) {
	files, err := h.retriever.Files(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if files == nil {
		files = []string{}
	}

	c.JSON(http.StatusOK, model.FilesResponse{Files: files})
}

// Ask answers a question from the indexed contracts
func (h *SearchHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.asker.Ask(c.Request.Context(), req.Question, req.MaxResults)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete removes a document and all its chunks from the index
func (h *SearchHandler) Delete(c *gin.Context) {
	file := c.Param("file")

	if err := h.store.DeleteDocument(c.Request.Context(), file); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "document removed", "file_name": file})
}
