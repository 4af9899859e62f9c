package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cotizador/backend/internal/domain"
	"github.com/cotizador/backend/internal/render"
)

// QuoteService is the usecase surface the handlers depend on.
type QuoteService interface {
	QuoteSingle(req domain.SingleQuery) (*domain.SingleResponse, error)
	QuoteBatch(req domain.BatchQuery) (*domain.BatchResponse, error)
	Segments() (*domain.SegmentsResponse, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	quotes QuoteService
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(quotes QuoteService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		quotes: quotes,
		logger: logger,
	}
}

// Liveness answers the root liveness probe.
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Webhook activo"})
}

// Segments lists the distinct catalog segments with product counts.
func (h *Handler) Segments(c *gin.Context) {
	resp, err := h.quotes.Segments()
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// quoteRequest is the raw /cotizar body. The two call conventions are
// discriminated explicitly: a present 'consulta' field selects single mode
// even when 'consultas' is also present, matching the legacy contract.
// Items stays raw so a non-object list entry can be reported by position
// instead of failing the whole bind.
type quoteRequest struct {
	Query   *string           `json:"consulta"`
	Segment *string           `json:"segmento"`
	Items   []json.RawMessage `json:"consultas"`
}

type quoteItem struct {
	Query   string  `json:"consulta"`
	Segment *string `json:"segmento"`
}

// Quote handles POST /cotizar. The response is the structured JSON shape by
// default; ?formato=texto selects the narrative text rendering instead. The
// single-query call shape keeps its flat response and the list shape its
// nested one, even for a one-element list.
func (h *Handler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be a valid JSON object"})
		return
	}

	narrative := c.DefaultQuery("formato", "json") == "texto"

	switch {
	case req.Query != nil:
		resp, err := h.quotes.QuoteSingle(domain.SingleQuery{Text: *req.Query, Segment: req.Segment})
		if err != nil {
			h.renderError(c, err)
			return
		}
		if narrative {
			c.String(http.StatusOK, render.Narrative([]render.Section{
				{Query: resp.Query, Results: resp.Results},
			}))
			return
		}
		c.JSON(http.StatusOK, resp)

	case req.Items != nil:
		batch := domain.BatchQuery{Items: make([]domain.SingleQuery, 0, len(req.Items))}
		for i, raw := range req.Items {
			var item quoteItem
			if err := json.Unmarshal(raw, &item); err != nil || string(bytes.TrimSpace(raw)) == "null" {
				h.renderError(c, &domain.ValidationError{
					Item:    i + 1,
					Message: fmt.Sprintf("Item %d in 'consultas' must be an object with 'consulta' field", i+1),
				})
				return
			}
			batch.Items = append(batch.Items, domain.SingleQuery{Text: item.Query, Segment: item.Segment})
		}
		resp, err := h.quotes.QuoteBatch(batch)
		if err != nil {
			h.renderError(c, err)
			return
		}
		if narrative {
			sections := make([]render.Section, 0, len(resp.Processed))
			for _, p := range resp.Processed {
				sections = append(sections, render.Section{Query: p.Query, Results: p.Results})
			}
			c.String(http.StatusOK, render.Narrative(sections))
			return
		}
		c.JSON(http.StatusOK, resp)

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required field. Use 'consulta' for single search or 'consultas' for multiple searches",
		})
	}
}

// renderError maps usecase errors to HTTP responses. Both output modes get
// the same generic JSON bodies; internal error text is logged, never sent.
func (h *Handler) renderError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		h.logger.Warn("request against unloaded catalog", zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Products not loaded"})
	default:
		h.logger.Error("unexpected error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
