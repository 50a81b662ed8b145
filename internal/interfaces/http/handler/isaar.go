package handler

import (
	authorityapp "github.com/ams/backend/internal/application/authority"
	"github.com/gin-gonic/gin"
)

// IsaarHandler handles ISAAR authority record HTTP requests
type IsaarHandler struct {
	BaseHandler
	service *authorityapp.Service
}

// NewIsaarHandler creates a new IsaarHandler
func NewIsaarHandler(service *authorityapp.Service) *IsaarHandler {
	return &IsaarHandler{service: service}
}

// Create handles POST /isaar
func (h *IsaarHandler) Create(c *gin.Context) {
	var req authorityapp.IsaarRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /isaar/:id
func (h *IsaarHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /isaar
func (h *IsaarHandler) List(c *gin.Context) {
	var filter authorityapp.ListFilter
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

// Update handles PUT /isaar/:id
func (h *IsaarHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req authorityapp.IsaarRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Finalize handles POST /isaar/:id/finalize
func (h *IsaarHandler) Finalize(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Finalize)
}

// Revert handles POST /isaar/:id/revert, returning a final record to draft
func (h *IsaarHandler) Revert(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Revert)
}

// Delete handles DELETE /isaar/:id
func (h *IsaarHandler) Delete(c *gin.Context) {
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
