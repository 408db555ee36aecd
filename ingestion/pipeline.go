package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Pxeba/GptMeliWhatsapp/ai"
	"github.com/Pxeba/GptMeliWhatsapp/core"
	"github.com/Pxeba/GptMeliWhatsapp/storage"
	"github.com/panjf2000/ants/v2"
)

// defaultWindowDays is the source default lookback window for an
// ingestion run.
const defaultWindowDays = 60

// OrderSource lists orders created at or after dateFrom.
// *meli.Client is the production implementation.
type OrderSource interface {
	FetchOrders(ctx context.Context, accessToken, sellerID string, dateFrom time.Time) ([]core.Order, error)
}

// Pipeline orchestrates the ingestion of orders into the document index.
// Each order is rendered to its canonical text, embedded, and upserted as
// one document; embedding and storage run concurrently on a worker pool.
type Pipeline struct {
	source     OrderSource
	documents  storage.DocumentRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	windowDays int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithWindowDays sets the default lookback window in days.
func WithWindowDays(days int) Option {
	return func(p *Pipeline) error {
		if days > 0 {
			p.windowDays = days
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	source OrderSource,
	documents storage.DocumentRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if source == nil {
		return nil, ErrOrderSourceRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		source:     source,
		documents:  documents,
		embedder:   provider.Embedder(),
		pool:       pool,
		windowDays: defaultWindowDays,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Params holds the parameters of one ingestion run.
type Params struct {
	// AccessToken authenticates against the order source. Required.
	AccessToken string

	// SellerID identifies the seller whose orders are ingested.
	SellerID string

	// WindowDays is the lookback window; the pipeline default applies
	// when zero.
	WindowDays int
}

// Ingest runs one ingestion pass: it fetches every order created within
// the lookback window, renders each into its canonical text, embeds it and
// upserts one document per order into the index. The index is flushed once
// at the end of the run.
//
// Returns the number of orders processed. Any failure is terminal for the
// run: a non-success response from the order source surfaces as
// *meli.UpstreamError, anything else as *ProcessingError. Documents
// already appended before a failure remain in the index.
func (p *Pipeline) Ingest(ctx context.Context, params Params) (int, error) {
	if params.AccessToken == "" {
		return 0, ErrAccessTokenRequired
	}

	windowDays := params.WindowDays
	if windowDays <= 0 {
		windowDays = p.windowDays
	}
	dateFrom := time.Now().UTC().AddDate(0, 0, -windowDays)

	orders, err := p.source.FetchOrders(ctx, params.AccessToken, params.SellerID, dateFrom)
	if err != nil {
		p.logger.Error("order fetch failed", "err", err)
		return 0, err
	}

	p.logger.Info("ingesting orders", "orders", len(orders), "window_days", windowDays)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	record := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := range orders {
		order := orders[i]

		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := p.processOrder(ctx, &order); err != nil {
				p.logger.Error("error processing order", "order", order.ID, "err", err)
				record(err)
			}
		}
		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			record(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return 0, &ProcessingError{Err: firstErr}
	}

	if err := p.documents.Sync(ctx); err != nil {
		return 0, &ProcessingError{Err: err}
	}

	p.logger.Info("ingestion complete", "orders", len(orders))
	return len(orders), nil
}

// processOrder renders, embeds and upserts a single order.
func (p *Pipeline) processOrder(ctx context.Context, order *core.Order) error {
	if err := core.ValidateOrder(order); err != nil {
		return err
	}

	text := order.Text()
	vector, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		return err
	}

	document := &core.Document{
		Id:       core.DocumentIDForOrder(order.ID),
		OrderID:  order.ID,
		Contents: text,
		Vector:   vector,
	}
	_, err = p.documents.AddDocuments(ctx, document)
	return err
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
