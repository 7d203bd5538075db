package chunking

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

type RecursiveCharacterChunker struct {
	splitter *textsplitter.RecursiveCharacter
}

func NewRecursiveCharacterChunker(chunkSize, chunkOverlap int) *RecursiveCharacterChunker {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", " "}),
	)
	return &RecursiveCharacterChunker{splitter: &splitter}
}

func (c *RecursiveCharacterChunker) ChunkText(text string) ([]string, error) {
	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	return dropEmpty(chunks), nil
}

func dropEmpty(chunks []string) []string {
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
