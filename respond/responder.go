package respond

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Pxeba/GptMeliWhatsapp/ai"
	"github.com/Pxeba/GptMeliWhatsapp/core"
	"github.com/Pxeba/GptMeliWhatsapp/storage"
)

// defaultTopK is the source default number of similarity matches retrieved
// per question.
const defaultTopK = 10

// Fallback answers, in the language of the messaging channel.
const (
	// FallbackNoMatches is returned when similarity search finds nothing.
	FallbackNoMatches = "Desculpe, não encontrei informações relevantes para sua pergunta. " +
		"Você pode tentar reformular ou fornecer mais detalhes."

	// FallbackError is the degraded answer returned when retrieval or
	// generation fails. The failure is logged, never surfaced to the sender.
	FallbackError = "Houve um erro ao processar sua mensagem. Por favor, tente novamente."
)

// Responder answers inbound messages with retrieval-augmented generation
// over the order document index.
//
// Respond never fails past its own boundary: the webhook handler consumes
// it synchronously and must always reply within the current call, so every
// internal error degrades into a fallback answer instead of propagating.
type Responder struct {
	documents storage.DocumentRepository
	embedder  ai.Embedder
	generator ai.AnswerGenerator
	topK      int
	logger    *slog.Logger
}

// Option configures a Responder.
type Option func(*Responder) error

// WithTopK sets the number of similarity matches retrieved per question.
// Default is 10.
func WithTopK(k int) Option {
	return func(r *Responder) error {
		if k > 0 {
			r.topK = k
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResponder creates a new responder.
func NewResponder(
	documents storage.DocumentRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Responder, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Responder{
		documents: documents,
		embedder:  provider.Embedder(),
		generator: provider.Generator(),
		topK:      defaultTopK,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Respond produces an answer for the inbound message.
func (r *Responder) Respond(ctx context.Context, message core.InboundMessage) core.OutboundAnswer {
	return r.RespondWithMonitor(ctx, message, nil)
}

// RespondWithMonitor produces an answer for the inbound message with
// monitoring. The monitor receives callbacks at each stage of the pipeline.
func (r *Responder) RespondWithMonitor(ctx context.Context, message core.InboundMessage, monitor Monitor) core.OutboundAnswer {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	answer := r.answer(ctx, message.Text, monitor)
	monitor.Finish(answer)

	return core.OutboundAnswer{
		Recipient: message.Sender,
		Text:      answer,
	}
}

// answer runs the retrieval and generation steps, degrading every failure
// into a fallback answer. It always returns a non-empty string.
func (r *Responder) answer(ctx context.Context, question string, monitor Monitor) string {
	monitor.Start(question)

	// 1. Similarity query with the raw message text
	embedding, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		r.logger.Error("error embedding question", "kind", "retrieval", "err", err)
		monitor.RetrievalFailed(err)
		return FallbackError
	}

	matches, err := r.documents.FindSimilar(ctx, embedding, r.topK)
	if err != nil {
		r.logger.Error("error querying for similar documents", "kind", "retrieval", "err", err)
		monitor.RetrievalFailed(err)
		return FallbackError
	}
	monitor.AfterSimilaritySearch(matches)

	if len(matches) == 0 {
		r.logger.Debug("no similarity matches", "question", question)
		monitor.NoMatches()
		return FallbackNoMatches
	}

	// 2. Context assembly: matched texts in ranked order
	texts := make([]string, len(matches))
	for i, match := range matches {
		texts[i] = match.Document.Contents
	}
	contextData := strings.Join(texts, " ")
	monitor.AfterContextAssembly(contextData)

	// 3. Grounded generation
	answer, err := r.generator.GenerateAnswer(ctx, contextData, question)
	if err != nil {
		r.logger.Error("error generating answer", "kind", "generation", "err", err)
		monitor.GenerationFailed(err)
		return FallbackError
	}

	return answer
}
