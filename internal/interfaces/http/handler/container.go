package handler

import (
	"net/http"

	containerapp "github.com/ams/backend/internal/application/container"
	"github.com/gin-gonic/gin"
)

// ContainerHandler handles container HTTP requests
type ContainerHandler struct {
	BaseHandler
	service  *containerapp.Service
	boxLists *containerapp.BoxListService
}

// NewContainerHandler creates a new ContainerHandler
func NewContainerHandler(service *containerapp.Service, boxLists *containerapp.BoxListService) *ContainerHandler {
	return &ContainerHandler{service: service, boxLists: boxLists}
}

// Create handles POST /containers
func (h *ContainerHandler) Create(c *gin.Context) {
	var req containerapp.CreateContainerRequest
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

// GetByID handles GET /containers/:id
func (h *ContainerHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.GetByID)
}

// GetByBarcode handles GET /containers/barcode/:barcode
func (h *ContainerHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		h.BadRequest(c, "Barcode is required")
		return
	}
	resp, err := h.service.GetByBarcode(c.Request.Context(), barcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /containers
func (h *ContainerHandler) List(c *gin.Context) {
	var filter containerapp.ListFilter
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

// Update handles PUT /containers/:id. Updates reindex every finding aid in
// the container.
func (h *ContainerHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req containerapp.UpdateContainerRequest
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

// Delete handles DELETE /containers/:id
func (h *ContainerHandler) Delete(c *gin.Context) {
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

// BoxList handles GET /containers/:id/box-list.pdf
func (h *ContainerHandler) BoxList(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if h.boxLists == nil {
		h.HandleError(c, containerapp.ErrPrintingDisabled)
		return
	}
	list, pdf, err := h.boxLists.RenderPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+boxListFilename(list.ReferenceCode)+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// boxListFilename turns "HU OSA 300-1-2:3" into "HU_OSA_300-1-2_3.pdf"
func boxListFilename(ref string) string {
	out := []rune(ref)
	for i, r := range out {
		switch r {
		case ' ', ':', '/', '"', '\\':
			out[i] = '_'
		}
	}
	return string(out) + ".pdf"
}
