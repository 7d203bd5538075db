package chunking

// Client splits article text into bounded, ordered segments. Splitting is
// deterministic: identical input and configuration always produce
// identical boundaries.
type Client interface {
	ChunkText(text string) ([]string, error)
}
