package handler

import (
	donorapp "github.com/ams/backend/internal/application/donor"
	"github.com/gin-gonic/gin"
)

// DonorHandler handles donor HTTP requests
type DonorHandler struct {
	BaseHandler
	service *donorapp.Service
}

// NewDonorHandler creates a new DonorHandler
func NewDonorHandler(service *donorapp.Service) *DonorHandler {
	return &DonorHandler{service: service}
}

// Create handles POST /donors
func (h *DonorHandler) Create(c *gin.Context) {
	var req donorapp.DonorRequest
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

// GetByID handles GET /donors/:id
func (h *DonorHandler) GetByID(c *gin.Context) {
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

// List handles GET /donors
func (h *DonorHandler) List(c *gin.Context) {
	var filter donorapp.ListFilter
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

// Update handles PUT /donors/:id
func (h *DonorHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req donorapp.DonorRequest
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

// Delete handles DELETE /donors/:id. Donors with accessions are refused.
func (h *DonorHandler) Delete(c *gin.Context) {
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
