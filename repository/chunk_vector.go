package repository

import (
	"context"
	"time"
)

// ChunkVectorDoc is one article chunk with its embedding, ready to persist.
type ChunkVectorDoc struct {
	Link      string    `json:"link"`
	Title     string    `json:"title"`
	Published time.Time `json:"published"`
	Seq       int       `json:"seq"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// ScoredChunk is a retrieval hit: stored chunk plus similarity score.
type ScoredChunk struct {
	Link      string    `json:"link"`
	Title     string    `json:"title"`
	Published time.Time `json:"published"`
	Seq       int       `json:"seq"`
	Text      string    `json:"text"`
	Score     float32   `json:"score"`
}

type ChunkVectorRepo interface {
	// UpsertChunks persists chunks keyed by a stable identity derived from
	// link and sequence index, so re-ingesting identical content replaces
	// rather than duplicates.
	UpsertChunks(ctx context.Context, docs []*ChunkVectorDoc) error

	// Query returns the k nearest stored chunks for the vector. An empty
	// store yields an empty slice.
	Query(ctx context.Context, vector []float32, k int) ([]*ScoredChunk, error)
}
