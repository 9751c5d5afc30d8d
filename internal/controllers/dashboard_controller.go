package controllers

import (
	"net/http"

	"cptrack/internal/providers"
	"cptrack/internal/services"
)

// DashboardController serves the merged snapshot. Reads come from the
// snapshot cache; the refresh endpoint is the only way to force a
// re-aggregation.
type DashboardController struct {
	logger    providers.Logger
	snapshots services.SnapshotServiceInterface
}

func NewDashboardController(logger providers.Logger, snapshots services.SnapshotServiceInterface) *DashboardController {
	return &DashboardController{
		logger:    logger,
		snapshots: snapshots,
	}
}

// GetDashboard serves the cached snapshot when one exists, otherwise
// performs the first aggregation inline.
func (dc *DashboardController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if snapshot, ok := dc.snapshots.Load(); ok {
		writeJSON(w, http.StatusOK, snapshot)
		return
	}

	snapshot, err := dc.snapshots.Refresh(r.Context())
	if err != nil {
		dc.logger.Errorf(providers.TypeGet, "Initial aggregation failed: %s", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// Refresh re-runs the aggregation and replaces the cached snapshot.
func (dc *DashboardController) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := dc.snapshots.Refresh(r.Context())
	if err != nil {
		dc.logger.Errorf(providers.TypePost, "Refresh failed: %s", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
