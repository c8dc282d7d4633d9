package retrieval

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/contract"
	"support-agent-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeIndex struct {
	results []*contract.ScoredArticleEmbedding
	err     error
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, limit int, category string, threshold float64) ([]*contract.ScoredArticleEmbedding, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeIndex) ArticleTitles(ctx context.Context, articleIds []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string)
	for _, id := range articleIds {
		titles[id] = "Article " + id.String()[:8]
	}
	return titles, nil
}

func scoredChunk(similarity float64, doc string) *contract.ScoredArticleEmbedding {
	return &contract.ScoredArticleEmbedding{
		Embedding: &entity.ArticleEmbedding{
			Id:        uuid.New(),
			ArticleId: uuid.New(),
			Document:  doc,
		},
		Similarity: similarity,
	}
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func TestRetrievePartitionsAndScores(t *testing.T) {
	index := &fakeIndex{
		results: []*contract.ScoredArticleEmbedding{
			scoredChunk(0.90, "billing cycle explained"),
			scoredChunk(0.60, "refund policy"),
			scoredChunk(0.20, "unrelated release notes"),
			scoredChunk(0.10, "office locations"),
		},
	}

	r := NewRetriever(&fakeEmbedder{}, index, Config{LogicThreshold: 0.35, TopK: 5}, testLogger())

	ragCtx := r.Retrieve(context.Background(), uuid.New(), "how do refunds work", 5, "")

	assert.Len(t, ragCtx.Retrieved, 4)
	assert.Len(t, ragCtx.Relevant, 2)
	assert.InDelta(t, 0.5, ragCtx.Accuracy, 1e-9)
	assert.InDelta(t, 0.75, ragCtx.Relevance, 1e-9)
	assert.False(t, ragCtx.Empty())

	for _, chunk := range ragCtx.Relevant {
		assert.NotEmpty(t, chunk.Title)
	}
}

func TestRetrieveScoreBounds(t *testing.T) {
	tests := []struct {
		name    string
		results []*contract.ScoredArticleEmbedding
	}{
		{
			name:    "no candidates",
			results: nil,
		},
		{
			name: "all below threshold",
			results: []*contract.ScoredArticleEmbedding{
				scoredChunk(0.10, "a"),
				scoredChunk(0.05, "b"),
			},
		},
		{
			name: "all above threshold",
			results: []*contract.ScoredArticleEmbedding{
				scoredChunk(0.99, "a"),
				scoredChunk(0.80, "b"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRetriever(&fakeEmbedder{}, &fakeIndex{results: tt.results}, DefaultConfig(), testLogger())
			ragCtx := r.Retrieve(context.Background(), uuid.New(), "query", 5, "")

			for _, score := range []float64{ragCtx.Accuracy, ragCtx.Relevance} {
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 1.0)
			}
		})
	}
}

func TestRetrieveFailsOpen(t *testing.T) {
	tests := []struct {
		name     string
		embedder *fakeEmbedder
		index    *fakeIndex
	}{
		{
			name:     "embedding backend down",
			embedder: &fakeEmbedder{err: fmt.Errorf("connection refused")},
			index:    &fakeIndex{},
		},
		{
			name:     "index down",
			embedder: &fakeEmbedder{},
			index:    &fakeIndex{err: fmt.Errorf("pq: connection reset")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRetriever(tt.embedder, tt.index, DefaultConfig(), testLogger())

			traceId := uuid.New()
			ragCtx := r.Retrieve(context.Background(), traceId, "query", 5, "")

			assert.NotNil(t, ragCtx)
			assert.True(t, ragCtx.Empty())
			assert.Equal(t, traceId, ragCtx.TraceId)
			assert.Zero(t, ragCtx.Accuracy)
			assert.Zero(t, ragCtx.Relevance)
		})
	}
}
