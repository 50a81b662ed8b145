package handler

import (
	"context"

	digitizationapp "github.com/ams/backend/internal/application/digitization"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DigitalVersionHandler handles digitized file HTTP requests
type DigitalVersionHandler struct {
	BaseHandler
	service *digitizationapp.Service
}

// NewDigitalVersionHandler creates a new DigitalVersionHandler
func NewDigitalVersionHandler(service *digitizationapp.Service) *DigitalVersionHandler {
	return &DigitalVersionHandler{service: service}
}

// Register handles POST /digital-versions. The response carries a
// presigned URL the client uploads the file to.
func (h *DigitalVersionHandler) Register(c *gin.Context) {
	var req digitizationapp.RegisterDigitalVersionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /digital-versions/:id
func (h *DigitalVersionHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.GetByID)
}

// List handles GET /digital-versions
func (h *DigitalVersionHandler) List(c *gin.Context) {
	var filter digitizationapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, res.Items, res.Total, res.Page, res.PageSize)
}

// SetAvailability handles PUT /digital-versions/:id/availability
func (h *DigitalVersionHandler) SetAvailability(c *gin.Context) {
	var req digitizationapp.AvailabilityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	withID(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*digitizationapp.DigitalVersionResponse, error) {
		return h.service.SetAvailability(ctx, id, *req.AvailableOnline)
	})
}

// Download handles GET /digital-versions/:id/download
func (h *DigitalVersionHandler) Download(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.DownloadURL)
}

// Delete handles DELETE /digital-versions/:id
func (h *DigitalVersionHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
