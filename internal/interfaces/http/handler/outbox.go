package handler

import (
	"github.com/ams/backend/internal/application/event"
	"github.com/gin-gonic/gin"
)

// OutboxHandler exposes the indexing task queue to operators
type OutboxHandler struct {
	BaseHandler
	service *event.QueueService
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(service *event.QueueService) *OutboxHandler {
	return &OutboxHandler{service: service}
}

// DeadLetters handles GET /catalog/outbox/dead
func (h *OutboxHandler) DeadLetters(c *gin.Context) {
	var filter event.QueueFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	res, err := h.service.DeadLetters(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, res.Items, res.Total, res.Page, res.PageSize)
}

// GetByID handles GET /catalog/outbox/:id
func (h *OutboxHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Get)
}

// Retry handles POST /catalog/outbox/:id/retry, re-queueing a dead task
func (h *OutboxHandler) Retry(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Retry)
}

// RetryAll handles POST /catalog/outbox/dead/retry
func (h *OutboxHandler) RetryAll(c *gin.Context) {
	resp, err := h.service.RetryAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Stats handles GET /catalog/outbox/stats
func (h *OutboxHandler) Stats(c *gin.Context) {
	resp, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
