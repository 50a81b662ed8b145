package handler

import (
	"strings"

	"github.com/ams/backend/internal/application/indexing"
	"github.com/ams/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the public catalog and its maintenance endpoints
type CatalogHandler struct {
	BaseHandler
	search  *indexing.SearchService
	reindex *indexing.ReindexService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(search *indexing.SearchService, reindex *indexing.ReindexService) *CatalogHandler {
	return &CatalogHandler{search: search, reindex: reindex}
}

// Search handles GET /catalog/search. Facets are passed as query
// parameters named after the facet, e.g. ?q=radio&level=folder&language=hu.
func (h *CatalogHandler) Search(c *gin.Context) {
	var req indexing.SearchRequest
	if !h.bindQuery(c, &req) {
		return
	}
	req.Facets = make(map[string]string)
	for _, name := range indexing.FacetNames {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			req.Facets[name] = v
		}
	}

	resp, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Hits, int64(resp.Total), resp.Page, resp.PageSize)
}

// Document handles GET /catalog/documents/:type/:id
func (h *CatalogHandler) Document(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.search.Document(c.Request.Context(), c.Param("type"), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Stats handles GET /catalog/stats
func (h *CatalogHandler) Stats(c *gin.Context) {
	resp, err := h.search.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reindex handles POST /catalog/reindex. An empty body rebuilds every type.
func (h *CatalogHandler) Reindex(c *gin.Context) {
	var req indexing.ReindexRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	logger.L(ctx).Info("catalog reindex requested",
		zap.String("subject", getSubject(c)),
		zap.Strings("types", req.Types),
	)

	resp, err := h.reindex.Run(ctx, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
