package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	accessionapp "github.com/ams/backend/internal/application/accession"
	unitapp "github.com/ams/backend/internal/application/archivalunit"
	authorityapp "github.com/ams/backend/internal/application/authority"
	containerapp "github.com/ams/backend/internal/application/container"
	digitizationapp "github.com/ams/backend/internal/application/digitization"
	donorapp "github.com/ams/backend/internal/application/donor"
	findingaidsapp "github.com/ams/backend/internal/application/findingaids"
	"github.com/ams/backend/internal/application/indexing"
	researchapp "github.com/ams/backend/internal/application/research"
	"github.com/ams/backend/internal/domain/accession"
	"github.com/ams/backend/internal/domain/archivalunit"
	"github.com/ams/backend/internal/domain/authority"
	"github.com/ams/backend/internal/domain/container"
	"github.com/ams/backend/internal/domain/digitization"
	"github.com/ams/backend/internal/domain/donor"
	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/research"
	"github.com/ams/backend/internal/infrastructure/catalogindex"
	"github.com/ams/backend/internal/infrastructure/persistence"
	"github.com/ams/backend/internal/infrastructure/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// apiHarness wires real services over an in-memory database and serves
// them without authentication
type apiHarness struct {
	t       *testing.T
	engine  *gin.Engine
	index   *catalogindex.MemoryIndex
	storage *storage.StubObjectStorage
	boxes   *stubBoxRenderer
}

// stubBoxRenderer records the last box list instead of running Chrome
type stubBoxRenderer struct {
	last *containerapp.BoxList
}

func (r *stubBoxRenderer) RenderBoxList(_ context.Context, list *containerapp.BoxList) ([]byte, error) {
	r.last = list
	return []byte("%PDF-1.7 stub"), nil
}

// newAPIHarness builds the harness; mw runs in front of every route
func newAPIHarness(t *testing.T, mw ...gin.HandlerFunc) *apiHarness {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), persistence.NewGormConfig(persistence.WithGormLogger(logger.Default.LogMode(logger.Silent))))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&donor.Donor{},
		&accession.Accession{},
		&authority.IsaarRecord{},
		&archivalunit.ArchivalUnit{},
		&container.Container{},
		&findingaids.FindingAidsEntity{},
		&digitization.DigitalVersion{},
		&research.Researcher{},
		&research.ResearchRequest{},
		&research.RequestItem{},
	))

	log := zap.NewNop()
	donors := persistence.NewGormDonorRepository(db)
	accessions := persistence.NewGormAccessionRepository(db)
	isaar := persistence.NewGormIsaarRepository(db)
	units := persistence.NewGormArchivalUnitRepository(db)
	containers := persistence.NewGormContainerRepository(db)
	findings := persistence.NewGormFindingAidsRepository(db)
	versions := persistence.NewGormDigitalVersionRepository(db)
	researchers := persistence.NewGormResearcherRepository(db)
	requests := persistence.NewGormResearchRequestRepository(db)
	objects := storage.NewStubObjectStorage()
	index := catalogindex.NewMemoryIndex()

	builders := indexing.DefaultBuilders(indexing.Sources{
		Isaar:           isaar,
		Units:           units,
		Containers:      containers,
		FindingAids:     findings,
		DigitalVersions: versions,
	})
	search := indexing.NewSearchService(index, nil)
	reindex := indexing.NewReindexService(builders, index, 0, log)

	donorH := NewDonorHandler(donorapp.NewService(donors, accessions))
	accessionH := NewAccessionHandler(accessionapp.NewService(accessions, donors, units))
	isaarH := NewIsaarHandler(authorityapp.NewService(isaar))
	unitH := NewArchivalUnitHandler(unitapp.NewService(units, isaar, containers))
	boxes := &stubBoxRenderer{}
	containerH := NewContainerHandler(
		containerapp.NewService(containers, units, findings, versions),
		containerapp.NewBoxListService(containers, units, findings, boxes),
	)
	findingH := NewFindingAidsHandler(
		findingaidsapp.NewService(findings, containers),
		findingaidsapp.NewImportService(findings, containers, log),
	)
	versionH := NewDigitalVersionHandler(digitizationapp.NewService(versions, containers, findings, objects, log))
	researcherH := NewResearcherHandler(researchapp.NewResearcherService(researchers, requests, log))
	requestH := NewResearchRequestHandler(researchapp.NewRequestService(requests, researchers, containers, log))
	catalogH := NewCatalogHandler(search, reindex)

	engine := gin.New()
	engine.Use(mw...)
	v1 := engine.Group("/v1")

	v1.POST("/donors", donorH.Create)
	v1.GET("/donors", donorH.List)
	v1.GET("/donors/:id", donorH.GetByID)
	v1.PUT("/donors/:id", donorH.Update)
	v1.DELETE("/donors/:id", donorH.Delete)

	v1.POST("/accessions", accessionH.Create)
	v1.GET("/accessions/:id", accessionH.GetByID)
	v1.GET("/accessions/years/:year", accessionH.YearSummary)

	v1.POST("/isaar", isaarH.Create)
	v1.POST("/isaar/:id/finalize", isaarH.Finalize)

	v1.POST("/archival-units", unitH.Create)
	v1.GET("/archival-units/reference", unitH.GetByReference)
	v1.GET("/archival-units/:id", unitH.GetByID)
	v1.GET("/archival-units/:id/children", unitH.Children)
	v1.POST("/archival-units/:id/finalize", unitH.Finalize)
	v1.DELETE("/archival-units/:id", unitH.Delete)

	v1.POST("/containers", containerH.Create)
	v1.GET("/containers/:id", containerH.GetByID)
	v1.GET("/containers/barcode/:barcode", containerH.GetByBarcode)
	v1.GET("/containers/:id/box-list.pdf", containerH.BoxList)
	v1.DELETE("/containers/:id", containerH.Delete)

	v1.POST("/finding-aids", findingH.Create)
	v1.POST("/finding-aids/import", findingH.Import)
	v1.GET("/finding-aids", findingH.List)
	v1.GET("/finding-aids/:id", findingH.GetByID)
	v1.POST("/finding-aids/:id/publish", findingH.Publish)
	v1.POST("/finding-aids/:id/unpublish", findingH.Unpublish)
	v1.PUT("/finding-aids/:id/confidential", findingH.SetConfidential)

	v1.POST("/digital-versions", versionH.Register)
	v1.PUT("/digital-versions/:id/availability", versionH.SetAvailability)
	v1.GET("/digital-versions/:id/download", versionH.Download)

	v1.POST("/researchers", researcherH.Create)
	v1.POST("/researchers/:id/approve", researcherH.Approve)
	v1.POST("/research-requests", requestH.Create)
	v1.POST("/research-requests/:id/submit", requestH.Submit)
	v1.PUT("/research-requests/:id/items/:item_id", requestH.SetItemStatus)
	v1.POST("/research-requests/:id/finish", requestH.Finish)

	v1.GET("/catalog/search", catalogH.Search)
	v1.GET("/catalog/documents/:type/:id", catalogH.Document)
	v1.GET("/catalog/stats", catalogH.Stats)
	v1.POST("/catalog/reindex", catalogH.Reindex)

	return &apiHarness{t: t, engine: engine, index: index, storage: objects, boxes: boxes}
}

// do sends a request and returns the recorder and decoded envelope
func (h *apiHarness) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	if w.Code == http.StatusNoContent {
		return w, nil
	}
	var out map[string]any
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

// uploadRequest builds a multipart form with the CSV in the "file" part
func (h *apiHarness) uploadRequest(path string, fields map[string]string, csv string) *http.Request {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(h.t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", "folders.csv")
	require.NoError(h.t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(h.t, err)
	require.NoError(h.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// upload posts a folder list and decodes the envelope
func (h *apiHarness) upload(path string, fields map[string]string, csv string) (*httptest.ResponseRecorder, map[string]any) {
	h.t.Helper()
	req := h.uploadRequest(path, fields, csv)
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	var out map[string]any
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

// mustCreate posts body and returns the created id
func (h *apiHarness) mustCreate(path string, body any) string {
	h.t.Helper()
	w, resp := h.do(http.MethodPost, path, body)
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return dataField(h.t, resp, "id").(string)
}

func dataField(t *testing.T, resp map[string]any, key string) any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return data[key]
}

func errorCode(t *testing.T, resp map[string]any) string {
	t.Helper()
	e, ok := resp["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %v", resp)
	return e["code"].(string)
}

// seedSeries creates fonds 300, subfonds 300-1 and series 300-1-2 and
// returns their ids
func (h *apiHarness) seedSeries() (fonds, subfonds, series string) {
	h.t.Helper()
	fonds = h.mustCreate("/v1/archival-units", map[string]any{"level": "F", "number": 300, "title": "Records of the Research Institute"})
	subfonds = h.mustCreate("/v1/archival-units", map[string]any{"level": "SF", "parent_id": fonds, "number": 1, "title": "Research Department"})
	series = h.mustCreate("/v1/archival-units", map[string]any{"level": "S", "parent_id": subfonds, "number": 2, "title": "Subject Files"})
	return fonds, subfonds, series
}
