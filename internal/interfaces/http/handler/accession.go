package handler

import (
	"strconv"

	accessionapp "github.com/ams/backend/internal/application/accession"
	"github.com/gin-gonic/gin"
)

// AccessionHandler handles accession HTTP requests
type AccessionHandler struct {
	BaseHandler
	service *accessionapp.Service
}

// NewAccessionHandler creates a new AccessionHandler
func NewAccessionHandler(service *accessionapp.Service) *AccessionHandler {
	return &AccessionHandler{service: service}
}

// Create handles POST /accessions. The accession number is assigned from
// the yearly sequence.
func (h *AccessionHandler) Create(c *gin.Context) {
	var req accessionapp.AccessionRequest
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

// GetByID handles GET /accessions/:id
func (h *AccessionHandler) GetByID(c *gin.Context) {
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

// List handles GET /accessions
func (h *AccessionHandler) List(c *gin.Context) {
	var filter accessionapp.ListFilter
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

// Update handles PUT /accessions/:id
func (h *AccessionHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accessionapp.AccessionRequest
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

// Delete handles DELETE /accessions/:id
func (h *AccessionHandler) Delete(c *gin.Context) {
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

// YearSummary handles GET /accessions/years/:year
func (h *AccessionHandler) YearSummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1000 || year > 9999 {
		h.BadRequest(c, "Invalid year")
		return
	}
	resp, err := h.service.YearSummary(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
