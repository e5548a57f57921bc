package handlers

import (
	"log/slog"
	"net/http"

	"camara-formacion/internal/apperrors"
	"camara-formacion/internal/middleware"
	"camara-formacion/internal/models"
)

// Common error message constants shared across handlers
const (
	ErrMsgUnauthorized       = "Unauthorized"
	ErrMsgInvalidRequestBody = "Invalid request body"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.WriteHeader(code)
	if err := JSONResponse(w, payload); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// writeEngineError maps the engine's error taxonomy to HTTP status codes.
// Internal errors never leak their message to the client.
func writeEngineError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindNotFound:
		respondWithError(w, http.StatusNotFound, apperrors.MessageOf(err))
	case apperrors.KindAccessDenied:
		respondWithError(w, http.StatusForbidden, apperrors.MessageOf(err))
	case apperrors.KindRuleViolation:
		respondWithError(w, http.StatusUnprocessableEntity, apperrors.MessageOf(err))
	case apperrors.KindConflict:
		respondWithError(w, http.StatusConflict, apperrors.MessageOf(err))
	default:
		slog.Error("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// requireActor extracts the authenticated actor placed by the auth
// middleware, replying 401 when it is missing
func requireActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
	}
	return actor, ok
}
