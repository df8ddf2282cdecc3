package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lojacrm/backend/internal/interfaces/http/handler"
)

// CRMHandlers holds every handler the CRM API exposes
type CRMHandlers struct {
	Import   *handler.ImportHandler
	Progress *handler.ProgressHandler
	History  *handler.ImportHistoryHandler
	Data     *handler.DataHandler
	Report   *handler.ReportHandler
	Client   *handler.ClientHandler
	Health   *handler.HealthHandler
}

// CRMGroups builds the domain groups of the CRM API. uploadLimit is applied to
// the upload route only, so the SSE stream is not wrapped in a body reader.
func CRMGroups(h CRMHandlers, uploadLimit gin.HandlerFunc) []*DomainGroup {
	imports := NewDomainGroup("import", "/imports")
	upload := []gin.HandlerFunc{h.Import.ImportClients}
	if uploadLimit != nil {
		upload = append([]gin.HandlerFunc{uploadLimit}, upload...)
	}
	imports.POST("/clients", upload...).
		GET("/progress", h.Progress.Latest).
		GET("/progress/stream", h.Progress.Stream).
		GET("", h.History.ListHistory).
		GET("/:id", h.History.GetHistory)

	data := NewDomainGroup("data", "/data").
		DELETE("", h.Data.ClearAll)

	reports := NewDomainGroup("report", "/reports").
		GET("/ranking", h.Report.GetSalespersonRanking).
		GET("/birthdays", h.Report.GetUpcomingBirthdays).
		GET("/dashboard", h.Report.GetDashboard)

	clients := NewDomainGroup("client", "/clients").
		GET("/:id/brands", h.Client.GetBrands).
		PUT("/:id/brands", h.Client.ReplaceBrands)

	return []*DomainGroup{imports, data, reports, clients}
}

// SetupCRM mounts the CRM API on the engine. The health check lives at
// /health outside the versioned prefix.
func SetupCRM(engine *gin.Engine, h CRMHandlers, uploadLimit gin.HandlerFunc, opts ...RouterOption) *Router {
	r := NewRouter(engine, opts...)
	for _, group := range CRMGroups(h, uploadLimit) {
		r.Register(group)
	}
	r.Setup()

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}
	return r
}
