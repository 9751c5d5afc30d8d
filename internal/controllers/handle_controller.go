package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"cptrack/internal/models"
	"cptrack/internal/providers"
	"cptrack/internal/services"
)

type HandleController struct {
	logger   providers.Logger
	identity services.IdentityServiceInterface
}

type setHandleRequest struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
}

func NewHandleController(logger providers.Logger, identity services.IdentityServiceInterface) *HandleController {
	return &HandleController{
		logger:   logger,
		identity: identity,
	}
}

func (hc *HandleController) GetHandles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hc.identity.Get())
}

func (hc *HandleController) SetHandle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload setHandleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := hc.identity.Set(payload.Platform, payload.Username); err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": ve})
			return
		}
		hc.logger.Errorf(providers.TypePost, "Unable to store handle: %s", err)
		writeError(w, http.StatusInternalServerError, "unable to store handle")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
