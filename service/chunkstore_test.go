package service

import (
	"testing"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/contratos-rag/backend/model"
	"github.com/stretchr/testify/assert"
)

func Test_SortResultsByScore(t *testing.T) {
	res := []model.SearchResult{
		{FileName: "a.pdf", Index: 0, Score: 0.2},
		{FileName: "b.pdf", Index: 1, Score: 0.9},
		{FileName: "c.pdf", Index: 2, Score: 0.5},
		{FileName: "d.pdf", Index: 3, Score: 0.5},
	}

	sortResultsByScore(res)

	assert.Equal(t, "b.pdf", res[0].FileName)
	for i := 1; i < len(res); i++ {
		assert.GreaterOrEqual(t, res[i-1].Score, res[i].Score)
	}

	// stable: ties keep their incoming order
	assert.Equal(t, "c.pdf", res[1].FileName)
	assert.Equal(t, "d.pdf", res[2].FileName)
}

func Test_DistinctFileNames(t *testing.T) {
	metas := chroma.DocumentMetadatas{
		chroma.NewDocumentMetadata(
			chroma.NewStringAttribute(MetaFileName, "lease.pdf"),
			chroma.NewIntAttribute(MetaChunkIndex, 0)),
		chroma.NewDocumentMetadata(
			chroma.NewStringAttribute(MetaFileName, "lease.pdf"),
			chroma.NewIntAttribute(MetaChunkIndex, 1)),
		chroma.NewDocumentMetadata(
			chroma.NewStringAttribute(MetaFileName, "nda.pdf"),
			chroma.NewIntAttribute(MetaChunkIndex, 0)),
	}

	files := distinctFileNames(metas)
	assert.Equal(t, []string{"lease.pdf", "nda.pdf"}, files)
}

func Test_ChunkIndexFromMetadata(t *testing.T) {
	meta := chroma.NewDocumentMetadata(
		chroma.NewStringAttribute(MetaFileName, "lease.pdf"),
		chroma.NewIntAttribute(MetaChunkIndex, 7))

	assert.Equal(t, 7, chunkIndexFromMetadata(meta))
}
