package handler

import (
	"context"
	"net/http"
	"strconv"
	"unicode/utf8"

	findingaidsapp "github.com/ams/backend/internal/application/findingaids"
	"github.com/ams/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxImportFileSize = 10 << 20

// FindingAidsHandler handles folder and item description HTTP requests
type FindingAidsHandler struct {
	BaseHandler
	service *findingaidsapp.Service
	imports *findingaidsapp.ImportService
}

// NewFindingAidsHandler creates a new FindingAidsHandler
func NewFindingAidsHandler(service *findingaidsapp.Service, imports *findingaidsapp.ImportService) *FindingAidsHandler {
	return &FindingAidsHandler{service: service, imports: imports}
}

// Import handles POST /finding-aids/import, a multipart upload with the
// CSV in "file" and the target container in "container_id". With
// dry_run=true the file is only validated. Row problems come back in the
// result with 422 and nothing is saved.
func (h *FindingAidsHandler) Import(c *gin.Context) {
	containerID, err := uuid.Parse(c.PostForm("container_id"))
	if err != nil {
		h.BadRequest(c, "container_id must be a UUID")
		return
	}
	dryRun, _ := strconv.ParseBool(c.DefaultPostForm("dry_run", "false"))

	req := findingaidsapp.ImportFolderListRequest{ContainerID: containerID, DryRun: dryRun}
	if d := c.PostForm("delimiter"); d != "" {
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) || r == '"' || r == '\n' || r == '\r' {
			h.BadRequest(c, "delimiter must be a single character")
			return
		}
		req.Delimiter = r
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()
	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 10MB")
		return
	}

	result, err := h.imports.ImportFolderList(c.Request.Context(), req, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	switch {
	case result.TotalErrors > 0:
		resp := dto.NewErrorResponseWithRequestID("IMPORT_ROWS_INVALID", "Folder list has invalid rows", getRequestID(c))
		resp.Data = result
		c.JSON(http.StatusUnprocessableEntity, resp)
	case result.Created > 0:
		h.Created(c, result)
	default:
		h.Success(c, result)
	}
}

// Create handles POST /finding-aids
func (h *FindingAidsHandler) Create(c *gin.Context) {
	var req findingaidsapp.CreateFindingAidsRequest
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

// GetByID handles GET /finding-aids/:id
func (h *FindingAidsHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.GetByID)
}

// List handles GET /finding-aids
func (h *FindingAidsHandler) List(c *gin.Context) {
	var filter findingaidsapp.ListFilter
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

// Update handles PUT /finding-aids/:id
func (h *FindingAidsHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req findingaidsapp.UpdateFindingAidsRequest
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

// Publish handles POST /finding-aids/:id/publish
func (h *FindingAidsHandler) Publish(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Publish)
}

// Unpublish handles POST /finding-aids/:id/unpublish
func (h *FindingAidsHandler) Unpublish(c *gin.Context) {
	withID(&h.BaseHandler, c, h.service.Unpublish)
}

// SetConfidential handles PUT /finding-aids/:id/confidential
func (h *FindingAidsHandler) SetConfidential(c *gin.Context) {
	var req findingaidsapp.ConfidentialRequest
	if !h.bindJSON(c, &req) {
		return
	}
	withID(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*findingaidsapp.FindingAidsResponse, error) {
		return h.service.SetConfidential(ctx, id, *req.Confidential)
	})
}

// Delete handles DELETE /finding-aids/:id
func (h *FindingAidsHandler) Delete(c *gin.Context) {
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
