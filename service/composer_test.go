package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/contratos-rag/backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRetriever returns canned results bounded by k.
type fakeRetriever struct {
	results []model.SearchResult
	err     error
}

func (f *fakeRetriever) Search(ctx context.Context, query string, k int) ([]model.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if k > 0 && len(f.results) > k {
		return f.results[:k], nil
	}
	return f.results, nil
}

// fakeChat records calls and returns a canned answer.
type fakeChat struct {
	answer     string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeChat) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func Test_Ask(t *testing.T) {
	retriever := &fakeRetriever{results: []model.SearchResult{
		{FileName: "A.pdf", Index: 0, Text: "Rent: $1200/month", Score: 0.92},
		{FileName: "B.pdf", Index: 3, Text: "Deposit: $2400", Score: 0.55},
	}}
	chat := &fakeChat{answer: "The rent is $1200 per month (A.pdf)."}

	composer := NewAnswerComposer(retriever, chat)

	resp, err := composer.Ask(context.Background(), "What is the rent?", 5)
	require.NoError(t, err)
	assert.Equal(t, "The rent is $1200 per month (A.pdf).", resp.Answer)
	assert.Equal(t, []string{"A.pdf", "B.pdf"}, resp.Sources)

	assert.Equal(t, 1, chat.calls)
	assert.Contains(t, chat.lastUser, "What is the rent?")
	assert.Contains(t, chat.lastUser, "Rent: $1200/month")
	assert.Contains(t, chat.lastUser, "(A.pdf)")
	assert.Contains(t, chat.lastSystem, "only the context")
}

func Test_Ask_NoResultsSkipsChatCall(t *testing.T) {
	retriever := &fakeRetriever{}
	chat := &fakeChat{answer: "should never be produced"}

	composer := NewAnswerComposer(retriever, chat)

	resp, err := composer.Ask(context.Background(), "What is the rent?", 5)
	require.NoError(t, err)
	assert.Equal(t, NoContextAnswer, resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, 0, chat.calls, "chat service must not be called with empty context")
}

func Test_Ask_MaxResultsBoundsSources(t *testing.T) {
	retriever := &fakeRetriever{results: []model.SearchResult{
		{FileName: "A.pdf", Score: 0.9},
		{FileName: "B.pdf", Score: 0.8},
		{FileName: "C.pdf", Score: 0.7},
		{FileName: "D.pdf", Score: 0.6},
	}}
	chat := &fakeChat{answer: "answer"}

	composer := NewAnswerComposer(retriever, chat)

	resp, err := composer.Ask(context.Background(), "question", 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(resp.Sources), 3)
}

func Test_Ask_DuplicateFilesCollapseInSources(t *testing.T) {
	retriever := &fakeRetriever{results: []model.SearchResult{
		{FileName: "A.pdf", Index: 0, Score: 0.9},
		{FileName: "A.pdf", Index: 4, Score: 0.8},
		{FileName: "B.pdf", Index: 1, Score: 0.7},
	}}
	chat := &fakeChat{answer: "answer"}

	composer := NewAnswerComposer(retriever, chat)

	resp, err := composer.Ask(context.Background(), "question", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"A.pdf", "B.pdf"}, resp.Sources)
}

func Test_Ask_RetrievalError(t *testing.T) {
	retriever := &fakeRetriever{err: fmt.Errorf("%w: down", ErrStoreUnavailable)}
	chat := &fakeChat{}

	composer := NewAnswerComposer(retriever, chat)

	_, err := composer.Ask(context.Background(), "question", 5)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.Equal(t, 0, chat.calls)
}

func Test_Ask_ChatError(t *testing.T) {
	retriever := &fakeRetriever{results: []model.SearchResult{
		{FileName: "A.pdf", Text: "clause", Score: 0.9},
	}}
	chat := &fakeChat{err: fmt.Errorf("%w: quota", ErrChatService)}

	composer := NewAnswerComposer(retriever, chat)

	_, err := composer.Ask(context.Background(), "question", 5)
	assert.True(t, errors.Is(err, ErrChatService))
}
