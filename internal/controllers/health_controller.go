package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"cptrack/internal/services"
)

type HealthController struct {
	identity  services.IdentityServiceInterface
	snapshots services.SnapshotServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status              string  `json:"status"`
	Uptime              string  `json:"uptime"`
	UptimeSeconds       float64 `json:"uptime_seconds"`
	ConfiguredPlatforms int     `json:"configured_platforms"`
	SnapshotAgeSeconds  float64 `json:"snapshot_age_seconds"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshotAge := -1.0
	if snapshot, ok := hc.snapshots.Load(); ok {
		snapshotAge = time.Since(time.UnixMilli(snapshot.FetchedAt)).Seconds()
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:              "ok",
		Uptime:              formatDuration(uptime),
		UptimeSeconds:       uptime.Seconds(),
		ConfiguredPlatforms: len(hc.identity.Get().Configured()),
		SnapshotAgeSeconds:  snapshotAge,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(identity services.IdentityServiceInterface, snapshots services.SnapshotServiceInterface) *HealthController {
	return &HealthController{
		identity:  identity,
		snapshots: snapshots,
		startTime: time.Now(),
	}
}
