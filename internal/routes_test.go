package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cptrack/internal/controllers"
	"cptrack/internal/models"
	"cptrack/internal/testutil"
)

type routeTestSnapshots struct{}

func (routeTestSnapshots) Load() (*models.CachedSnapshot, bool) { return nil, false }

func (routeTestSnapshots) Refresh(_ context.Context) (*models.CachedSnapshot, error) {
	return &models.CachedSnapshot{Result: &models.AggregateResult{}}, nil
}

func routeTestControllers() (*controllers.ProfileController, *controllers.DashboardController, *controllers.HandleController) {
	logger := &testutil.MockLogger{}
	identity := &testutil.MockIdentity{}
	snapshots := routeTestSnapshots{}
	pc := controllers.NewProfileController(logger, identity, nil, testutil.NewMockCache())
	dc := controllers.NewDashboardController(logger, snapshots)
	hc := controllers.NewHandleController(logger, identity)
	return pc, dc, hc
}

func TestInitRoutes_RegistersSixRoutes(t *testing.T) {
	router := InitRoutes(routeTestControllers())
	routes := router.GetRoutes()

	require.Len(t, routes, 6)

	type pair struct{ method, url string }
	seen := make([]pair, len(routes))
	for i, r := range routes {
		seen[i] = pair{r.Method, r.Url}
	}

	assert.Contains(t, seen, pair{http.MethodGet, "/profile"})
	assert.Contains(t, seen, pair{http.MethodGet, "/performance"})
	assert.Contains(t, seen, pair{http.MethodGet, "/dashboard"})
	assert.Contains(t, seen, pair{http.MethodPost, "/dashboard/refresh"})
	assert.Contains(t, seen, pair{http.MethodGet, "/handles"})
	assert.Contains(t, seen, pair{http.MethodPost, "/handles"})
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(routeTestControllers())

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Method+" "+r.Url, r.Handler)
	}

	// GET-only endpoint rejects POST
	req := httptest.NewRequest(http.MethodPost, "/dashboard", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST-only endpoint rejects GET
	req = httptest.NewRequest(http.MethodGet, "/dashboard/refresh", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// /handles serves both methods
	req = httptest.NewRequest(http.MethodGet, "/handles", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
