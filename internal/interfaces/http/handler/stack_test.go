package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	importapp "github.com/lojacrm/backend/internal/application/import"
	partnerapp "github.com/lojacrm/backend/internal/application/partner"
	reportapp "github.com/lojacrm/backend/internal/application/report"
	"github.com/lojacrm/backend/internal/infrastructure/cache"
	"github.com/lojacrm/backend/internal/infrastructure/config"
	"github.com/lojacrm/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
)

const clientSheet = "cliente;cpf;vendedora;total_gasto;qtde_compras_total;data_ultima_compra;marcas;tamanhos_roupa;tamanhos_calcado\n" +
	"Ana Silva;111;Maria;1.500,00;3;45000;['FARM','Animale'];['M'];['n-36']\n" +
	";222;Maria;10,00;1;45000;[];[];[]\n" +
	"Bruno;;Joana;;;;['farm'];[];['37']\n"

// testStack wires every handler over a migrated in-memory SQLite database
type testStack struct {
	db       *persistence.Database
	progress *cache.InMemoryProgressStore
	clients  *persistence.GormClientRepository
	engine   *gin.Engine
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	clientRepo := persistence.NewGormClientRepository(db.DB)
	prefRepo := persistence.NewGormPreferenceRepository(db.DB)
	historyRepo := persistence.NewGormImportHistoryRepository(db.DB)
	capability, err := persistence.NewPurchaseCountCapability(db.DB, persistence.PurchaseCountAuto)
	require.NoError(t, err)

	importer := importapp.NewClientImportService(
		clientRepo,
		prefRepo,
		persistence.NewGormBrandRepository(db.DB),
		persistence.NewGormSizeRepository(db.DB),
		persistence.NewGormSaleRepository(db.DB),
		capability,
		historyRepo,
		nil,
	)
	progress := cache.NewInMemoryProgressStore()
	t.Cleanup(func() { _ = progress.Close() })

	importHandler := NewImportHandler(importer, progress)
	progressHandler := NewProgressHandler(progress)
	historyHandler := NewImportHistoryHandler(importapp.NewImportHistoryService(historyRepo))
	dataHandler := NewDataHandler(importapp.NewDataPurgeService(persistence.NewGormTableTruncater(db.DB), nil), nil)
	reportHandler := NewReportHandler(reportapp.NewReportService(persistence.NewGormCRMReportRepository(db.DB), clientRepo))
	clientHandler := NewClientHandler(partnerapp.NewClientPreferenceService(clientRepo, prefRepo))
	healthHandler := NewHealthHandler("CRM Backend", "test", db)

	engine := gin.New()
	engine.GET("/health", healthHandler.Health)
	api := engine.Group("/api/v1")
	api.POST("/imports/clients", importHandler.ImportClients)
	api.GET("/imports/progress", progressHandler.Latest)
	api.GET("/imports/progress/stream", progressHandler.Stream)
	api.GET("/imports", historyHandler.ListHistory)
	api.GET("/imports/:id", historyHandler.GetHistory)
	api.DELETE("/data", dataHandler.ClearAll)
	api.GET("/reports/ranking", reportHandler.GetSalespersonRanking)
	api.GET("/reports/birthdays", reportHandler.GetUpcomingBirthdays)
	api.GET("/reports/dashboard", reportHandler.GetDashboard)
	api.GET("/clients/:id/brands", clientHandler.GetBrands)
	api.PUT("/clients/:id/brands", clientHandler.ReplaceBrands)

	return &testStack{
		db:       db,
		progress: progress,
		clients:  clientRepo,
		engine:   engine,
	}
}

func (s *testStack) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testStack) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func uploadRequest(t *testing.T, fileName, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/clients", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// importSheet uploads the sheet and fails the test unless the run succeeds
func (s *testStack) importSheet(t *testing.T, body string) map[string]any {
	t.Helper()
	w := s.do(uploadRequest(t, "clientes.csv", body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	return resp.Data.(map[string]any)
}
