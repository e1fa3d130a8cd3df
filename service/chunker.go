package service

import "unicode/utf8"

// Chunker splits extracted contract text into fixed-size segments with
// overlap, so context spanning a boundary survives in at least one chunk.
// Boundaries are byte offsets snapped to rune starts; splitting inside a
// word is acceptable, no semantic boundary is guaranteed.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return &Chunker{chunkSize: size, chunkOverlap: overlap}
}

func (c *Chunker) Split(text string) []string {
	l := len(text)
	if l == 0 {
		return []string{}
	}

	step := c.chunkSize - c.chunkOverlap
	pos := 0
	res := make([]string, 0, l/step+1)

	for {
		end := min(pos+c.chunkSize, l)
		// Never cut a multi-byte rune at the boundary
		for end < l && end > pos && !utf8.RuneStart(text[end]) {
			end--
		}
		res = append(res, text[pos:end])
		if end >= l {
			break
		}

		pos += step
		for pos < l && !utf8.RuneStart(text[pos]) {
			pos++
		}
		if pos >= l {
			break
		}
	}

	return res
}
