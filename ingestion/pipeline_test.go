package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Pxeba/GptMeliWhatsapp/ai"
	"github.com/Pxeba/GptMeliWhatsapp/core"
	"github.com/Pxeba/GptMeliWhatsapp/storage"
	"github.com/Pxeba/GptMeliWhatsapp/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOrderSource implements OrderSource for testing
type testOrderSource struct {
	orders     []core.Order
	err        error
	calls      int
	lastToken  string
	lastSeller string
	lastFrom   time.Time
}

func (s *testOrderSource) FetchOrders(ctx context.Context, accessToken, sellerID string, dateFrom time.Time) ([]core.Order, error) {
	s.calls++
	s.lastToken = accessToken
	s.lastSeller = sellerID
	s.lastFrom = dateFrom
	if s.err != nil {
		return nil, s.err
	}
	return s.orders, nil
}

// testEmbedder implements ai.Embedder for testing
type testEmbedder struct {
	shouldError bool
}

func (m *testEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.shouldError {
		return nil, errors.New("embedder error")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *testEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if m.shouldError {
		return nil, errors.New("embedder error")
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{0.1, 0.2, 0.3}
	}
	return result, nil
}

// testGenerator implements ai.AnswerGenerator for testing
type testGenerator struct{}

func (m *testGenerator) GenerateAnswer(ctx context.Context, contextData, question string) (string, error) {
	return "answer", nil
}

// testAIProvider implements ai.AIProvider for testing
type testAIProvider struct {
	embedder ai.Embedder
}

func (p *testAIProvider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *testAIProvider) Generator() ai.AnswerGenerator {
	return &testGenerator{}
}

func (p *testAIProvider) Close() error {
	return nil
}

func setupTestRepository(t *testing.T) storage.DocumentRepository {
	backend, err := badger.OpenBackend(t.TempDir(), false)
	require.NoError(t, err)

	repo, err := badger.NewDocumentRepository(backend)
	require.NoError(t, err)

	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	return repo
}

func makeOrders(n int) []core.Order {
	orders := make([]core.Order, n)
	for i := range orders {
		orders[i] = core.Order{
			ID:          int64(2000001 + i),
			Buyer:       "joao",
			TotalAmount: 150,
			DateCreated: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			Status:      "paid",
			Items:       []core.OrderItem{{Title: "Fone de ouvido", Quantity: 1, UnitPrice: 150}},
		}
	}
	return orders
}

func TestNewPipeline(t *testing.T) {
	repo := setupTestRepository(t)
	source := &testOrderSource{}
	provider := &testAIProvider{embedder: &testEmbedder{}}

	t.Run("valid pipeline", func(t *testing.T) {
		pipeline, err := NewPipeline(source, repo, provider)
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		defer pipeline.Release()

		assert.NotNil(t, pipeline.source)
		assert.NotNil(t, pipeline.documents)
		assert.NotNil(t, pipeline.pool)
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := NewPipeline(nil, repo, provider)
		assert.Equal(t, ErrOrderSourceRequired, err)
	})

	t.Run("nil document repository", func(t *testing.T) {
		_, err := NewPipeline(source, nil, provider)
		assert.Equal(t, ErrDocumentRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(source, repo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestPipeline_WithOptions(t *testing.T) {
	repo := setupTestRepository(t)
	source := &testOrderSource{}
	provider := &testAIProvider{embedder: &testEmbedder{}}

	t.Run("with pool size", func(t *testing.T) {
		pipeline, err := NewPipeline(source, repo, provider, WithPoolSize(4))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.NotNil(t, pipeline.pool)
	})

	t.Run("with pool size zero defaults to 1", func(t *testing.T) {
		pipeline, err := NewPipeline(source, repo, provider, WithPoolSize(0))
		require.NoError(t, err)
		defer pipeline.Release()
	})

	t.Run("with window days", func(t *testing.T) {
		pipeline, err := NewPipeline(source, repo, provider, WithWindowDays(30))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.Equal(t, 30, pipeline.windowDays)
	})

	t.Run("with non-positive window days keeps default", func(t *testing.T) {
		pipeline, err := NewPipeline(source, repo, provider, WithWindowDays(0))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.Equal(t, defaultWindowDays, pipeline.windowDays)
	})

	t.Run("with custom logger", func(t *testing.T) {
		logger := slog.Default()
		pipeline, err := NewPipeline(source, repo, provider, WithLogger(logger))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.Equal(t, logger, pipeline.logger)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		pipeline, err := NewPipeline(source, repo, provider, WithLogger(nil))
		require.NoError(t, err)
		defer pipeline.Release()

		assert.NotNil(t, pipeline.logger)
	})
}

func TestPipeline_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests every fetched order", func(t *testing.T) {
		repo := setupTestRepository(t)
		source := &testOrderSource{orders: makeOrders(7)}
		provider := &testAIProvider{embedder: &testEmbedder{}}

		pipeline, err := NewPipeline(source, repo, provider, WithPoolSize(2))
		require.NoError(t, err)
		defer pipeline.Release()

		count, err := pipeline.Ingest(ctx, Params{AccessToken: "token", SellerID: "seller"})
		require.NoError(t, err)
		assert.Equal(t, 7, count)

		stored, err := repo.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, stored)

		// Documents are keyed by order, retrievable and embedded.
		doc, err := repo.GetDocument(ctx, core.DocumentIDForOrder(2000001))
		require.NoError(t, err)
		assert.Equal(t, int64(2000001), doc.OrderID)
		assert.Contains(t, doc.Contents, "Pedido 2000001")
		assert.NotEmpty(t, doc.Vector)
	})

	t.Run("re-ingestion does not duplicate", func(t *testing.T) {
		repo := setupTestRepository(t)
		source := &testOrderSource{orders: makeOrders(5)}
		provider := &testAIProvider{embedder: &testEmbedder{}}

		pipeline, err := NewPipeline(source, repo, provider, WithPoolSize(2))
		require.NoError(t, err)
		defer pipeline.Release()

		params := Params{AccessToken: "token", SellerID: "seller"}

		_, err = pipeline.Ingest(ctx, params)
		require.NoError(t, err)

		// Overlapping window: same orders come back, one with a status change.
		source.orders[0].Status = "cancelled"
		count, err := pipeline.Ingest(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, 5, count)

		stored, err := repo.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, stored)

		doc, err := repo.GetDocument(ctx, core.DocumentIDForOrder(2000001))
		require.NoError(t, err)
		assert.Contains(t, doc.Contents, "Status: cancelled")
	})

	t.Run("missing access token", func(t *testing.T) {
		repo := setupTestRepository(t)
		source := &testOrderSource{}
		provider := &testAIProvider{embedder: &testEmbedder{}}

		pipeline, err := NewPipeline(source, repo, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Ingest(ctx, Params{SellerID: "seller"})
		assert.Equal(t, ErrAccessTokenRequired, err)
		assert.Equal(t, 0, source.calls)
	})

	t.Run("window bounds the fetch", func(t *testing.T) {
		repo := setupTestRepository(t)
		source := &testOrderSource{}
		provider := &testAIProvider{embedder: &testEmbedder{}}

		pipeline, err := NewPipeline(source, repo, provider, WithWindowDays(30))
		require.NoError(t, err)
		defer pipeline.Release()

		before := time.Now().UTC()
		_, err = pipeline.Ingest(ctx, Params{AccessToken: "token", SellerID: "seller"})
		require.NoError(t, err)

		want := before.AddDate(0, 0, -30)
		assert.WithinDuration(t, want, source.lastFrom, 5*time.Second)
		assert.Equal(t, "token", source.lastToken)
		assert.Equal(t, "seller", source.lastSeller)
	})

	t.Run("per-run window override", func(t *testing.T) {
		repo := setupTestRepository(t)
		source := &testOrderSource{}
		provider := &testAIProvider{embedder: &testEmbedder{}}

		pipeline, err := NewPipeline(source, repo, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		before := time.Now().UTC()
		_, err = pipeline.Ingest(ctx, Params{AccessToken: "token", WindowDays: 7})
		require.NoError(t, err)

		want := before.AddDate(0, 0, -7)
		assert.WithinDuration(t, want, source.lastFrom, 5*time.Second)
	})

	t.Run("fetch error passes through unchanged", func(t *testing.T) {
		repo := setupTestRepository(t)
		fetchErr := errors.New("upstream said no")
		source := &testOrderSource{err: fetchErr}
		provider := &testAIProvider{embedder: &testEmbedder{}}

		pipeline, err := NewPipeline(source, repo, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Ingest(ctx, Params{AccessToken: "token"})
		assert.Equal(t, fetchErr, err)
	})

	t.Run("embedder failure surfaces as processing error", func(t *testing.T) {
		repo := setupTestRepository(t)
		source := &testOrderSource{orders: makeOrders(3)}
		provider := &testAIProvider{embedder: &testEmbedder{shouldError: true}}

		pipeline, err := NewPipeline(source, repo, provider, WithPoolSize(1))
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Ingest(ctx, Params{AccessToken: "token"})
		require.Error(t, err)

		var procErr *ProcessingError
		require.True(t, errors.As(err, &procErr))
		assert.Contains(t, procErr.Error(), "embedder error")
	})

	t.Run("invalid order surfaces as processing error", func(t *testing.T) {
		repo := setupTestRepository(t)
		source := &testOrderSource{orders: []core.Order{{ID: 0, Status: "paid"}}}
		provider := &testAIProvider{embedder: &testEmbedder{}}

		pipeline, err := NewPipeline(source, repo, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Ingest(ctx, Params{AccessToken: "token"})
		require.Error(t, err)

		var procErr *ProcessingError
		require.True(t, errors.As(err, &procErr))
		assert.True(t, errors.Is(err, core.ErrInvalidOrder))
	})

	t.Run("no orders in window", func(t *testing.T) {
		repo := setupTestRepository(t)
		source := &testOrderSource{}
		provider := &testAIProvider{embedder: &testEmbedder{}}

		pipeline, err := NewPipeline(source, repo, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		count, err := pipeline.Ingest(ctx, Params{AccessToken: "token"})
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestPipeline_Release(t *testing.T) {
	repo := setupTestRepository(t)
	source := &testOrderSource{}
	provider := &testAIProvider{embedder: &testEmbedder{}}

	pipeline, err := NewPipeline(source, repo, provider)
	require.NoError(t, err)

	// Release should not panic
	pipeline.Release()

	// Multiple releases should not panic
	pipeline.Release()
}
