package router

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lojacrm/backend/internal/infrastructure/cache"
	"github.com/lojacrm/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routeSet(groups []*DomainGroup) map[Route]bool {
	set := make(map[Route]bool)
	for _, g := range groups {
		for _, r := range g.Routes() {
			set[r] = true
		}
	}
	return set
}

func TestCRMGroups(t *testing.T) {
	groups := CRMGroups(CRMHandlers{}, nil)
	routes := routeSet(groups)

	for _, want := range []Route{
		{http.MethodPost, "/imports/clients"},
		{http.MethodGet, "/imports/progress"},
		{http.MethodGet, "/imports/progress/stream"},
		{http.MethodGet, "/imports"},
		{http.MethodGet, "/imports/:id"},
		{http.MethodDelete, "/data"},
		{http.MethodGet, "/reports/ranking"},
		{http.MethodGet, "/reports/birthdays"},
		{http.MethodGet, "/reports/dashboard"},
		{http.MethodGet, "/clients/:id/brands"},
		{http.MethodPut, "/clients/:id/brands"},
	} {
		assert.True(t, routes[want], "missing %s %s", want.Method, want.Path)
	}
	assert.Len(t, routes, 11)
}

func TestSetupCRM(t *testing.T) {
	store := cache.NewInMemoryProgressStore()
	defer store.Close()

	limited := false
	uploadLimit := func(c *gin.Context) {
		limited = true
		c.AbortWithStatus(http.StatusRequestEntityTooLarge)
	}

	engine := gin.New()
	SetupCRM(engine, CRMHandlers{
		Progress: handler.NewProgressHandler(store),
		Health:   handler.NewHealthHandler("CRM Backend", "test", nil),
	}, uploadLimit)

	w := serve(engine, http.MethodGet, "/api/v1/imports/progress")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"idle"`)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)

	w = serve(engine, http.MethodPost, "/api/v1/imports/clients")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.True(t, limited)
}
