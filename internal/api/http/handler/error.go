package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/recipe-server/internal/api/http/render"
	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/model"
)

const (
	msgInvalidCredentials = "Unable to authenticate with provided credentials."
	msgNotFound           = "Not found."
	msgInternal           = "internal server error"
)

// writeError maps service errors to HTTP statuses. Unknown errors are logged
// and hidden behind a 500.
func writeError(w http.ResponseWriter, logger *logger.Logger, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		render.JSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, model.ErrInvalidCredentials):
		render.JSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {msgInvalidCredentials}})
	case errors.Is(err, model.ErrConflict):
		render.Detail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrUnauthenticated):
		render.Detail(w, http.StatusUnauthorized, "Invalid token.")
	case errors.Is(err, model.ErrNotFound):
		render.Detail(w, http.StatusNotFound, msgNotFound)
	default:
		logger.Error("HTTP handler: request failed",
			"error", err.Error())
		render.Detail(w, http.StatusInternalServerError, msgInternal)
	}
}

// badJSON reports a body that could not be decoded.
func badJSON(w http.ResponseWriter, err error) {
	render.Detail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
}
