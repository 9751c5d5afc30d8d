package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"cptrack/internal/models"
)

const maxRequestBodySize = 1 << 20 // 1 MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fetchStatus maps adapter failure classes onto response codes: an
// unknown handle is the caller's problem, everything upstream is a bad
// gateway.
func fetchStatus(err error) int {
	switch models.FetchKind(err) {
	case models.FetchNotFound:
		return http.StatusNotFound
	case models.FetchTransport, models.FetchMalformedResponse:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
