package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pxeba/GptMeliWhatsapp/core"
	"github.com/Pxeba/GptMeliWhatsapp/ingestion"
	"github.com/Pxeba/GptMeliWhatsapp/meli"
)

// Responder answers inbound messages. *respond.Responder is the
// production implementation.
type Responder interface {
	Respond(ctx context.Context, message core.InboundMessage) core.OutboundAnswer
}

// Ingestor runs one ingestion pass. *ingestion.Pipeline is the
// production implementation.
type Ingestor interface {
	Ingest(ctx context.Context, params ingestion.Params) (int, error)
}

// Gateway delivers outbound answers. *zapi.Client is the production
// implementation.
type Gateway interface {
	SendText(ctx context.Context, phone, message string) error
}

// IngestDefaults are the configured ingestion parameters, applied when the
// trigger request omits them.
type IngestDefaults struct {
	AccessToken string
	SellerID    string
	WindowDays  int
}

// Handler exposes the webhook and ingestion trigger over HTTP.
type Handler struct {
	responder Responder
	ingestor  Ingestor
	gateway   Gateway
	defaults  IngestDefaults
	logger    *slog.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(responder Responder, ingestor Ingestor, gateway Gateway, defaults IngestDefaults) *Handler {
	return &Handler{
		responder: responder,
		ingestor:  ingestor,
		gateway:   gateway,
		defaults:  defaults,
		logger:    slog.Default().With("component", "api"),
	}
}

// RegisterRoutes attaches the handler's routes to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, NewHealthResponse("ok")) })
	r.POST("/webhook", h.handleWebhook)
	r.POST("/ingest", h.handleIngest)
}

type webhookText struct {
	Message string `json:"message"`
}

type webhookRequest struct {
	Phone string       `json:"phone"`
	Text  *webhookText `json:"text"`
}

// handleWebhook receives an inbound message, produces an answer and hands
// it to the messaging gateway. Payloads without a text/message shape are
// acknowledged without a reply; delivery failures are logged and never
// affect the response to the webhook caller.
func (h *Handler) handleWebhook(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid payload"))
		return
	}
	if req.Phone == "" && req.Text == nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid payload"))
		return
	}

	if req.Text == nil || req.Text.Message == "" {
		// Status updates and media arrive on the same webhook; nothing to answer.
		c.JSON(http.StatusOK, NewStatusResponse("success"))
		return
	}

	answer := h.responder.Respond(c.Request.Context(), core.InboundMessage{
		Sender: req.Phone,
		Text:   req.Text.Message,
	})

	if err := h.gateway.SendText(c.Request.Context(), answer.Recipient, answer.Text); err != nil {
		h.logger.Error("answer delivery failed", "recipient", answer.Recipient, "err", err)
	}

	c.JSON(http.StatusOK, NewStatusResponse("success"))
}

type ingestRequest struct {
	AccessToken string `json:"access_token"`
	SellerID    string `json:"seller_id"`
	WindowDays  int    `json:"window_days"`
}

// handleIngest triggers one ingestion run. The request body may override
// the configured defaults; an empty body runs with defaults only.
func (h *Handler) handleIngest(c *gin.Context) {
	req := ingestRequest{
		AccessToken: h.defaults.AccessToken,
		SellerID:    h.defaults.SellerID,
		WindowDays:  h.defaults.WindowDays,
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse("invalid payload"))
			return
		}
	}

	count, err := h.ingestor.Ingest(c.Request.Context(), ingestion.Params{
		AccessToken: req.AccessToken,
		SellerID:    req.SellerID,
		WindowDays:  req.WindowDays,
	})
	if err != nil {
		var upstream *meli.UpstreamError
		if errors.As(err, &upstream) {
			c.JSON(upstream.StatusCode, ErrorResponse{
				Error:   "Failed to fetch orders",
				Details: upstream.Body,
			})
			return
		}
		c.JSON(http.StatusInternalServerError,
			NewErrorResponse(fmt.Sprintf("An error occurred: %v", err)))
		return
	}

	c.JSON(http.StatusOK, NewIngestResponse("Orders fetched and saved successfully", count))
}
