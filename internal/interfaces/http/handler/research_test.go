package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResearchRequestHandler_Flow(t *testing.T) {
	h := newAPIHarness(t)
	_, _, series := h.seedSeries()
	containerID := h.mustCreate("/v1/containers", map[string]any{"archival_unit_id": series, "carrier_type": "Archival box"})

	researcherID := h.mustCreate("/v1/researchers", map[string]any{
		"first_name": "Janos",
		"last_name":  "Szabo",
		"email":      "janos@example.org",
		"occupation": "academic",
	})

	request := map[string]any{"researcher_id": researcherID, "container_ids": []string{containerID}}
	w, resp := h.do(http.MethodPost, "/v1/research-requests", request)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "RESEARCHER_NOT_APPROVED", errorCode(t, resp))

	w, resp = h.do(http.MethodPost, "/v1/researchers/"+researcherID+"/approve", map[string]any{"card_number": "R-2024-001"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, dataField(t, resp, "approved"))

	w, resp = h.do(http.MethodPost, "/v1/researchers/"+researcherID+"/approve", map[string]any{"card_number": "R-2024-002"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_APPROVED", errorCode(t, resp))

	w, resp = h.do(http.MethodPost, "/v1/research-requests", map[string]any{
		"researcher_id": researcherID,
		"container_ids": []string{containerID, containerID},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_ITEM", errorCode(t, resp))

	requestID := h.mustCreate("/v1/research-requests", request)

	w, resp = h.do(http.MethodPost, "/v1/research-requests/"+requestID+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", dataField(t, resp, "status"))
	items := dataField(t, resp, "items").([]any)
	require.Len(t, items, 1)
	itemID := items[0].(map[string]any)["id"].(string)

	w, resp = h.do(http.MethodPost, "/v1/research-requests/"+requestID+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ERR_INVALID_STATE", errorCode(t, resp))

	itemPath := "/v1/research-requests/" + requestID + "/items/" + itemID
	w, _ = h.do(http.MethodPut, itemPath, map[string]any{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = h.do(http.MethodPut, itemPath, map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = h.do(http.MethodPost, "/v1/research-requests/"+requestID+"/finish", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ITEMS_OUTSTANDING", errorCode(t, resp))

	w, _ = h.do(http.MethodPut, itemPath, map[string]any{"status": "returned"})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = h.do(http.MethodPost, "/v1/research-requests/"+requestID+"/finish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "finished", dataField(t, resp, "status"))
}

func TestResearcherHandler_Validation(t *testing.T) {
	h := newAPIHarness(t)

	w, resp := h.do(http.MethodPost, "/v1/researchers", map[string]any{"first_name": "Janos"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", errorCode(t, resp))

	w, _ = h.do(http.MethodPost, "/v1/researchers/not-a-uuid/approve", map[string]any{"card_number": "R-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
