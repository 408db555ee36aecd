package gptmeli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Pxeba/GptMeliWhatsapp/ai/mock"
	"github.com/Pxeba/GptMeliWhatsapp/core"
	"github.com/Pxeba/GptMeliWhatsapp/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOrderSource implements ingestion.OrderSource for testing
type testOrderSource struct {
	orders []core.Order
}

func (s *testOrderSource) FetchOrders(ctx context.Context, accessToken, sellerID string, dateFrom time.Time) ([]core.Order, error) {
	return s.orders, nil
}

func newTestAssistant(t *testing.T, source ingestion.OrderSource) *Assistant {
	opts := []AssistantOption{
		WithInMemoryIndex(),
		WithAIProvider(mock.NewMockProvider()),
	}
	if source != nil {
		opts = append(opts, WithOrderSource(source))
	}

	assistant, err := NewAssistant("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { assistant.Close() })

	return assistant
}

func TestNewAssistant(t *testing.T) {
	t.Run("create with on-disk index", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "index_db")
		assistant, err := NewAssistant(tmpDir, WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, assistant)
		defer assistant.Close()

		// Verify components are initialized
		assert.NotNil(t, assistant.Documents())
		assert.NotNil(t, assistant.Provider())
		assert.NotNil(t, assistant.backend)
		assert.NotNil(t, assistant.source)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to open the index at a file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		assistant, err := NewAssistant(tmpFile, WithAIProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, assistant)
	})
}

func TestAssistant_Close(t *testing.T) {
	assistant, err := NewAssistant("", WithInMemoryIndex(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, assistant)

	err = assistant.Close()
	assert.NoError(t, err)
}

func TestAssistant_FactoryMethods(t *testing.T) {
	assistant := newTestAssistant(t, &testOrderSource{})

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := assistant.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create responder", func(t *testing.T) {
		responder, err := assistant.NewResponder()
		require.NoError(t, err)
		require.NotNil(t, responder)
	})
}

func TestAssistant_IngestThenRespond(t *testing.T) {
	ctx := context.Background()

	source := &testOrderSource{orders: []core.Order{
		{
			ID:          2000001,
			Buyer:       "joao",
			TotalAmount: 150,
			DateCreated: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			Status:      "paid",
			Items:       []core.OrderItem{{Title: "Fone de ouvido", Quantity: 1, UnitPrice: 150}},
		},
	}}

	assistant := newTestAssistant(t, source)

	pipeline, err := assistant.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	count, err := pipeline.Ingest(ctx, ingestion.Params{AccessToken: "token", SellerID: "seller"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := assistant.Documents().CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)

	responder, err := assistant.NewResponder()
	require.NoError(t, err)

	answer := responder.Respond(ctx, core.InboundMessage{
		Sender: "5511999999999",
		Text:   "qual o status do pedido 2000001?",
	})
	assert.Equal(t, "5511999999999", answer.Recipient)
	assert.NotEmpty(t, answer.Text)
}
