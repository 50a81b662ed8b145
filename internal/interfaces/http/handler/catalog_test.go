package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPublished creates a final series holding one published folder and
// one draft folder and returns the published folder id
func seedPublished(t *testing.T, h *apiHarness) string {
	t.Helper()
	_, _, series := h.seedSeries()
	containerID := h.mustCreate("/v1/containers", map[string]any{"archival_unit_id": series, "carrier_type": "Archival box"})
	published := h.mustCreate("/v1/finding-aids", map[string]any{
		"container_id": containerID,
		"level":        "F",
		"title":        "Samizdat periodicals",
	})
	h.mustCreate("/v1/finding-aids", map[string]any{
		"container_id": containerID,
		"level":        "F",
		"title":        "Samizdat leaflets",
	})
	w, _ := h.do(http.MethodPost, "/v1/finding-aids/"+published+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = h.do(http.MethodPost, "/v1/archival-units/"+series+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return published
}

func TestCatalogHandler_ReindexAndSearch(t *testing.T) {
	h := newAPIHarness(t)
	published := seedPublished(t, h)

	w, resp := h.do(http.MethodGet, "/v1/catalog/search?q=samizdat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp["data"])

	w, resp = h.do(http.MethodPost, "/v1/catalog/reindex", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, dataField(t, resp, "reports"))

	w, resp = h.do(http.MethodGet, "/v1/catalog/search?q=samizdat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hits := resp["data"].([]any)
	require.Len(t, hits, 1)
	assert.Equal(t, published, hits[0].(map[string]any)["id"])
	assert.EqualValues(t, 1, resp["meta"].(map[string]any)["total"])

	w, resp = h.do(http.MethodGet, "/v1/catalog/search?q=samizdat&level=I", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp["data"])

	w, resp = h.do(http.MethodGet, "/v1/catalog/documents/finding_aids/"+published, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Samizdat periodicals", dataField(t, resp, "title"))

	w, resp = h.do(http.MethodGet, "/v1/catalog/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	docs := dataField(t, resp, "documents").(map[string]any)
	assert.EqualValues(t, 1, docs["finding_aids"])
	assert.EqualValues(t, 1, docs["archival_unit"])
}

func TestCatalogHandler_ReindexSelectedTypes(t *testing.T) {
	h := newAPIHarness(t)
	seedPublished(t, h)

	w, _ := h.do(http.MethodPost, "/v1/catalog/reindex", map[string]any{"types": []string{"finding_aids"}})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := h.do(http.MethodGet, "/v1/catalog/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	docs := dataField(t, resp, "documents").(map[string]any)
	assert.EqualValues(t, 1, docs["finding_aids"])
	assert.EqualValues(t, 0, docs["archival_unit"])

	w, resp = h.do(http.MethodPost, "/v1/catalog/reindex", map[string]any{"types": []string{"donor"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_TYPE", errorCode(t, resp))
}

func TestCatalogHandler_DocumentErrors(t *testing.T) {
	h := newAPIHarness(t)

	w, resp := h.do(http.MethodGet, "/v1/catalog/documents/donor/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_TYPE", errorCode(t, resp))

	w, _ = h.do(http.MethodGet, "/v1/catalog/documents/isaar/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = h.do(http.MethodGet, "/v1/catalog/search?page_size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
