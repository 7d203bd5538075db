package chunking

import (
	"github.com/tmc/langchaingo/textsplitter"
)

// MarkdownChunker splits markdown along its heading hierarchy, keeping
// sections together where they fit the chunk size.
type MarkdownChunker struct {
	chunkSize    int
	chunkOverlap int
}

func NewMarkdownChunker(chunkSize, chunkOverlap int) *MarkdownChunker {
	return &MarkdownChunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

func (c *MarkdownChunker) ChunkText(text string) ([]string, error) {
	splitter := textsplitter.NewMarkdownTextSplitter(
		textsplitter.WithChunkSize(c.chunkSize),
		textsplitter.WithChunkOverlap(c.chunkOverlap),
		textsplitter.WithHeadingHierarchy(true),
	)

	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	return dropEmpty(chunks), nil
}
