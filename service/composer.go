package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/contratos-rag/backend/model"
)

// NoContextAnswer is returned when retrieval finds nothing relevant. The
// chat service is not called in that case: no context means any generated
// answer would be a hallucination, and the call costs money.
const NoContextAnswer = "No relevant contracts were found to answer this question."

const systemPrompt = "You are an assistant that answers questions about contract documents. " +
	"Answer using only the context excerpts provided by the user. " +
	"Cite the source file names you rely on. " +
	"If the context does not contain the answer, say that the contracts do not cover it."

// Retriever is the slice of RetrievalService the composer needs.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]model.SearchResult, error)
}

// AnswerComposer implements retrieval-augmented answering: retrieve ranked
// chunks, ground a prompt on them, ask the chat service.
type AnswerComposer struct {
	retriever Retriever
	chat      ChatClient
}

func NewAnswerComposer(retriever Retriever, chat ChatClient) *AnswerComposer {
	return &AnswerComposer{retriever: retriever, chat: chat}
}

// Ask answers a question from the indexed contracts. Sources are the file
// names of the retrieved chunks, not the ones the model chose to cite;
// citation fidelity inside the answer text is best effort.
func (c *AnswerComposer) Ask(ctx context.Context, question string, maxResults int) (*model.AskResponse, error) {
	results, err := c.retriever.Search(ctx, question, maxResults)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	if len(results) == 0 {
		return &model.AskResponse{
			Answer:  NoContextAnswer,
			Sources: []string{},
		}, nil
	}

	answer, err := c.chat.Complete(ctx, systemPrompt, buildUserPrompt(question, results))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &model.AskResponse{
		Answer:  answer,
		Sources: sourceFiles(results),
	}, nil
}

// buildUserPrompt enumerates the retrieved chunks under the question, each
// labelled with its source file name.
func buildUserPrompt(question string, results []model.SearchResult) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nContext excerpts:\n")

	for i, r := range results {
		fmt.Fprintf(&b, "\n[%d] (%s)\n%s\n", i+1, r.FileName, r.Text)
	}

	return b.String()
}

// sourceFiles returns the distinct file names in retrieval order.
func sourceFiles(results []model.SearchResult) []string {
	seen := make(map[string]struct{})
	sources := make([]string, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.FileName]; ok {
			continue
		}
		seen[r.FileName] = struct{}{}
		sources = append(sources, r.FileName)
	}

	return sources
}
