package controllers

import (
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"cptrack/internal/models"
	"cptrack/internal/platform"
	"cptrack/internal/providers"
	"cptrack/internal/services"
)

// ProfileController serves the thin per-platform proxy endpoints. The
// username query parameter falls back to the stored handle, so the
// frontend can ask for "the configured codeforces profile" without
// repeating the name.
type ProfileController struct {
	logger   providers.Logger
	identity services.IdentityServiceInterface
	adapters map[models.Platform]platform.Adapter
	cache    providers.CacheProviderInterface
}

func NewProfileController(
	logger providers.Logger,
	identity services.IdentityServiceInterface,
	adapters []platform.Adapter,
	cache providers.CacheProviderInterface,
) *ProfileController {
	return &ProfileController{
		logger:   logger,
		identity: identity,
		adapters: platform.ByPlatform(adapters),
		cache:    cache,
	}
}

func (pc *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	adapter, username, ok := pc.resolve(w, r)
	if !ok {
		return
	}

	cacheKey := "profile:" + string(adapter.Name()) + ":" + username
	pc.serveFromCacheOrFetch(w, cacheKey, func() (any, error) {
		return adapter.FetchProfile(r.Context(), username)
	})
}

func (pc *ProfileController) GetPerformance(w http.ResponseWriter, r *http.Request) {
	adapter, username, ok := pc.resolve(w, r)
	if !ok {
		return
	}

	fetcher, ok := adapter.(platform.PerformanceFetcher)
	if !ok {
		writeError(w, http.StatusBadRequest,
			"performance data is not available for "+string(adapter.Name()))
		return
	}

	cacheKey := "perf:" + string(adapter.Name()) + ":" + username
	pc.serveFromCacheOrFetch(w, cacheKey, func() (any, error) {
		return fetcher.FetchPerformance(r.Context(), username)
	})
}

// resolve validates the platform parameter and picks the username from
// the query or the identity store. Writes the error response itself and
// reports success via the bool.
func (pc *ProfileController) resolve(w http.ResponseWriter, r *http.Request) (platform.Adapter, string, bool) {
	p, err := models.ParsePlatform(r.URL.Query().Get("platform"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		username = strings.TrimSpace(pc.identity.Get()[p])
	}
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return nil, "", false
	}

	adapter, ok := pc.adapters[p]
	if !ok {
		writeError(w, http.StatusBadRequest, "no adapter registered for "+string(p))
		return nil, "", false
	}
	return adapter, username, true
}

func (pc *ProfileController) serveFromCacheOrFetch(w http.ResponseWriter, cacheKey string, fetch func() (any, error)) {
	if data, ok := pc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := fetch()
	if err != nil {
		pc.logger.Errorf(providers.TypeGet, "Fetch failed for %s: %s", cacheKey, err)
		writeError(w, fetchStatus(err), err.Error())
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
