package qdrantdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"newsrag/repository"
)

const (
	NewsCollectionName = "news_chunks"
)

var pointNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// ChunkPointID derives the stable point identity from the article link and
// the chunk's sequence index. Re-ingesting the same chunk always maps to
// the same point, so upserts replace instead of duplicating.
func ChunkPointID(link string, seq int) string {
	return uuid.NewSHA1(pointNamespace, []byte(fmt.Sprintf("%s#%d", link, seq))).String()
}

func (c *NewsClient) CreateNewsCollection(ctx context.Context, vectorSize int) error {
	exists, err := c.Client.CollectionExists(ctx, NewsCollectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = c.Client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: NewsCollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("err create news collection: %w", err)
	}

	_, err = c.Client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: NewsCollectionName,
		FieldName:      "link",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("err create link index: %w", err)
	}
	return nil
}

func (c *NewsClient) UpsertChunks(ctx context.Context, docs []*repository.ChunkVectorDoc) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, doc := range docs {
		published := ""
		if !doc.Published.IsZero() {
			published = doc.Published.UTC().Format(time.RFC3339)
		}
		md := map[string]any{
			"link":      doc.Link,
			"title":     doc.Title,
			"published": published,
			"seq":       int64(doc.Seq),
			"text":      doc.Text,
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(ChunkPointID(doc.Link, doc.Seq)),
			Vectors: qdrant.NewVectorsDense(doc.Embedding),
			Payload: qdrant.NewValueMap(md),
		})
	}

	_, err := c.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: NewsCollectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("err upsert chunks: %w", err)
	}
	return nil
}

func (c *NewsClient) Query(ctx context.Context, vector []float32, k int) ([]*repository.ScoredChunk, error) {
	points, err := c.Client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: NewsCollectionName,
		Query:          qdrant.NewQueryDense(vector),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("err query chunks: %w", err)
	}

	chunks := make([]*repository.ScoredChunk, 0, len(points))
	for _, p := range points {
		chunk := &repository.ScoredChunk{Score: p.Score}
		if v, ok := p.Payload["link"]; ok {
			chunk.Link = v.GetStringValue()
		}
		if v, ok := p.Payload["title"]; ok {
			chunk.Title = v.GetStringValue()
		}
		if v, ok := p.Payload["seq"]; ok {
			chunk.Seq = int(v.GetIntegerValue())
		}
		if v, ok := p.Payload["text"]; ok {
			chunk.Text = v.GetStringValue()
		}
		if v, ok := p.Payload["published"]; ok && v.GetStringValue() != "" {
			if ts, err := time.Parse(time.RFC3339, v.GetStringValue()); err == nil {
				chunk.Published = ts
			}
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

var _ repository.ChunkVectorRepo = (*NewsClient)(nil)
