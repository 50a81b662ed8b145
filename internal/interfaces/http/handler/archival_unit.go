package handler

import (
	"strconv"

	unitapp "github.com/ams/backend/internal/application/archivalunit"
	"github.com/gin-gonic/gin"
)

// ArchivalUnitHandler handles fonds, subfonds and series HTTP requests
type ArchivalUnitHandler struct {
	BaseHandler
	service *unitapp.Service
}

// NewArchivalUnitHandler creates a new ArchivalUnitHandler
func NewArchivalUnitHandler(service *unitapp.Service) *ArchivalUnitHandler {
	return &ArchivalUnitHandler{service: service}
}

// Create handles POST /archival-units
func (h *ArchivalUnitHandler) Create(c *gin.Context) {
	var req unitapp.CreateArchivalUnitRequest
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

// GetByID handles GET /archival-units/:id
func (h *ArchivalUnitHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.GetByID)
}

// GetByReference handles GET /archival-units/reference?fonds=&subfonds=&series=
// Missing subfonds or series select the level above.
func (h *ArchivalUnitHandler) GetByReference(c *gin.Context) {
	fonds, err := strconv.Atoi(c.Query("fonds"))
	if err != nil || fonds <= 0 {
		h.BadRequest(c, "Invalid fonds number")
		return
	}
	subfonds, ok := optionalNumber(c, "subfonds")
	if !ok {
		h.BadRequest(c, "Invalid subfonds number")
		return
	}
	series, ok := optionalNumber(c, "series")
	if !ok {
		h.BadRequest(c, "Invalid series number")
		return
	}
	resp, err := h.service.GetByReference(c.Request.Context(), fonds, subfonds, series)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Children handles GET /archival-units/:id/children
func (h *ArchivalUnitHandler) Children(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Children)
}

// List handles GET /archival-units
func (h *ArchivalUnitHandler) List(c *gin.Context) {
	var filter unitapp.ListFilter
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

// Update handles PUT /archival-units/:id
func (h *ArchivalUnitHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req unitapp.UpdateArchivalUnitRequest
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

// Finalize handles POST /archival-units/:id/finalize
func (h *ArchivalUnitHandler) Finalize(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Finalize)
}

// Delete handles DELETE /archival-units/:id
func (h *ArchivalUnitHandler) Delete(c *gin.Context) {
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

// optionalNumber reads a non-negative query number; absent means zero
func optionalNumber(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
