package handler

import (
	"context"

	researchapp "github.com/ams/backend/internal/application/research"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResearcherHandler handles reading room registration HTTP requests
type ResearcherHandler struct {
	BaseHandler
	service *researchapp.ResearcherService
}

// NewResearcherHandler creates a new ResearcherHandler
func NewResearcherHandler(service *researchapp.ResearcherService) *ResearcherHandler {
	return &ResearcherHandler{service: service}
}

// Create handles POST /researchers
func (h *ResearcherHandler) Create(c *gin.Context) {
	var req researchapp.ResearcherRequest
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

// GetByID handles GET /researchers/:id
func (h *ResearcherHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.GetByID)
}

// List handles GET /researchers
func (h *ResearcherHandler) List(c *gin.Context) {
	var filter researchapp.ResearcherListFilter
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

// Update handles PUT /researchers/:id
func (h *ResearcherHandler) Update(c *gin.Context) {
	var req researchapp.ResearcherRequest
	if !h.bindJSON(c, &req) {
		return
	}
	withID(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*researchapp.ResearcherResponse, error) {
		return h.service.Update(ctx, id, req)
	})
}

// Approve handles POST /researchers/:id/approve
func (h *ResearcherHandler) Approve(c *gin.Context) {
	var req researchapp.ApproveResearcherRequest
	if !h.bindJSON(c, &req) {
		return
	}
	withID(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*researchapp.ResearcherResponse, error) {
		return h.service.Approve(ctx, id, req)
	})
}

// Delete handles DELETE /researchers/:id
func (h *ResearcherHandler) Delete(c *gin.Context) {
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

// ResearchRequestHandler handles material request HTTP requests
type ResearchRequestHandler struct {
	BaseHandler
	service *researchapp.RequestService
}

// NewResearchRequestHandler creates a new ResearchRequestHandler
func NewResearchRequestHandler(service *researchapp.RequestService) *ResearchRequestHandler {
	return &ResearchRequestHandler{service: service}
}

// Create handles POST /research-requests
func (h *ResearchRequestHandler) Create(c *gin.Context) {
	var req researchapp.CreateResearchRequestRequest
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

// GetByID handles GET /research-requests/:id
func (h *ResearchRequestHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.GetByID)
}

// List handles GET /research-requests
func (h *ResearchRequestHandler) List(c *gin.Context) {
	var filter researchapp.RequestListFilter
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

// Submit handles POST /research-requests/:id/submit
func (h *ResearchRequestHandler) Submit(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Submit)
}

// Finish handles POST /research-requests/:id/finish
func (h *ResearchRequestHandler) Finish(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Finish)
}

// Cancel handles POST /research-requests/:id/cancel
func (h *ResearchRequestHandler) Cancel(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Cancel)
}

// SetItemStatus handles PUT /research-requests/:id/items/:item_id
func (h *ResearchRequestHandler) SetItemStatus(c *gin.Context) {
	itemID, ok := h.pathID(c, "item_id")
	if !ok {
		return
	}
	var req researchapp.ItemStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	withID(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*researchapp.ResearchRequestResponse, error) {
		return h.service.SetItemStatus(ctx, id, itemID, req)
	})
}
