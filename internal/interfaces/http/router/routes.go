package router

import (
	"github.com/ams/backend/internal/infrastructure/auth"
	"github.com/ams/backend/internal/interfaces/http/handler"
	"github.com/ams/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers mounted under the versioned API
type Handlers struct {
	Donor           *handler.DonorHandler
	Accession       *handler.AccessionHandler
	Isaar           *handler.IsaarHandler
	ArchivalUnit    *handler.ArchivalUnitHandler
	Container       *handler.ContainerHandler
	FindingAids     *handler.FindingAidsHandler
	DigitalVersion  *handler.DigitalVersionHandler
	Researcher      *handler.ResearcherHandler
	ResearchRequest *handler.ResearchRequestHandler
	Catalog         *handler.CatalogHandler
	Outbox          *handler.OutboxHandler
}

// PublicPathPrefixes are the catalog reads served without a token
func PublicPathPrefixes(basePath string) []string {
	return []string{
		basePath + "/catalog/search",
		basePath + "/catalog/documents/",
	}
}

// RegisterArchive mounts the archival API. Description records are read by
// archivists and the reading room and written by archivists; reading room
// staff manage researchers and their requests; catalog maintenance is
// reserved to admins.
func RegisterArchive(r *Router, h Handlers, roles middleware.RoleConfig) {
	staff := []string{auth.RoleArchivist, auth.RoleReadingRoom}
	description := middleware.RequireRoleByMethod(roles, staff, []string{auth.RoleArchivist})
	readingRoom := middleware.RequireRoleWithConfig(roles, staff...)
	admin := middleware.RequireRoleWithConfig(roles, auth.RoleAdmin)

	donors := NewDomainGroup("donors", "/donors").Use(description)
	donors.POST("", h.Donor.Create).
		GET("", h.Donor.List).
		GET("/:id", h.Donor.GetByID).
		PUT("/:id", h.Donor.Update).
		DELETE("/:id", h.Donor.Delete)

	accessions := NewDomainGroup("accessions", "/accessions").Use(description)
	accessions.POST("", h.Accession.Create).
		GET("", h.Accession.List).
		GET("/years/:year", h.Accession.YearSummary).
		GET("/:id", h.Accession.GetByID).
		PUT("/:id", h.Accession.Update).
		DELETE("/:id", h.Accession.Delete)

	isaar := NewDomainGroup("isaar", "/isaar").Use(description)
	isaar.POST("", h.Isaar.Create).
		GET("", h.Isaar.List).
		GET("/:id", h.Isaar.GetByID).
		PUT("/:id", h.Isaar.Update).
		POST("/:id/finalize", h.Isaar.Finalize).
		POST("/:id/revert", h.Isaar.Revert).
		DELETE("/:id", h.Isaar.Delete)

	units := NewDomainGroup("archival-units", "/archival-units").Use(description)
	units.POST("", h.ArchivalUnit.Create).
		GET("", h.ArchivalUnit.List).
		GET("/reference", h.ArchivalUnit.GetByReference).
		GET("/:id", h.ArchivalUnit.GetByID).
		GET("/:id/children", h.ArchivalUnit.Children).
		PUT("/:id", h.ArchivalUnit.Update).
		POST("/:id/finalize", h.ArchivalUnit.Finalize).
		DELETE("/:id", h.ArchivalUnit.Delete)

	containers := NewDomainGroup("containers", "/containers").Use(description)
	containers.POST("", h.Container.Create).
		GET("", h.Container.List).
		GET("/barcode/:barcode", h.Container.GetByBarcode).
		GET("/:id", h.Container.GetByID).
		GET("/:id/box-list.pdf", h.Container.BoxList).
		PUT("/:id", h.Container.Update).
		DELETE("/:id", h.Container.Delete)

	findingAids := NewDomainGroup("finding-aids", "/finding-aids").Use(description)
	findingAids.POST("", h.FindingAids.Create).
		POST("/import", h.FindingAids.Import).
		GET("", h.FindingAids.List).
		GET("/:id", h.FindingAids.GetByID).
		PUT("/:id", h.FindingAids.Update).
		POST("/:id/publish", h.FindingAids.Publish).
		POST("/:id/unpublish", h.FindingAids.Unpublish).
		PUT("/:id/confidential", h.FindingAids.SetConfidential).
		DELETE("/:id", h.FindingAids.Delete)

	digitalVersions := NewDomainGroup("digital-versions", "/digital-versions").Use(description)
	digitalVersions.POST("", h.DigitalVersion.Register).
		GET("", h.DigitalVersion.List).
		GET("/:id", h.DigitalVersion.GetByID).
		GET("/:id/download", h.DigitalVersion.Download).
		PUT("/:id/availability", h.DigitalVersion.SetAvailability).
		DELETE("/:id", h.DigitalVersion.Delete)

	researchers := NewDomainGroup("researchers", "/researchers").Use(readingRoom)
	researchers.POST("", h.Researcher.Create).
		GET("", h.Researcher.List).
		GET("/:id", h.Researcher.GetByID).
		PUT("/:id", h.Researcher.Update).
		POST("/:id/approve", h.Researcher.Approve).
		DELETE("/:id", h.Researcher.Delete)

	requests := NewDomainGroup("research-requests", "/research-requests").Use(readingRoom)
	requests.POST("", h.ResearchRequest.Create).
		GET("", h.ResearchRequest.List).
		GET("/:id", h.ResearchRequest.GetByID).
		POST("/:id/submit", h.ResearchRequest.Submit).
		POST("/:id/finish", h.ResearchRequest.Finish).
		POST("/:id/cancel", h.ResearchRequest.Cancel).
		PUT("/:id/items/:item_id", h.ResearchRequest.SetItemStatus)

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.GET("/search", h.Catalog.Search).
		GET("/documents/:type/:id", h.Catalog.Document).
		GET("/stats", readingRoom, h.Catalog.Stats).
		POST("/reindex", admin, h.Catalog.Reindex)

	outbox := catalog.Group("outbox", "/outbox").Use(admin)
	outbox.GET("/dead", h.Outbox.DeadLetters).
		POST("/dead/retry", h.Outbox.RetryAll).
		GET("/stats", h.Outbox.Stats).
		GET("/:id", h.Outbox.GetByID).
		POST("/:id/retry", h.Outbox.Retry)

	r.Register(donors).
		Register(accessions).
		Register(isaar).
		Register(units).
		Register(containers).
		Register(findingAids).
		Register(digitalVersions).
		Register(researchers).
		Register(requests).
		Register(catalog)
}
