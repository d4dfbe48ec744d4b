package handler

import (
	"net/http"

	"hospital-management-backend/internal/usecase"
	"hospital-management-backend/pkg/response"
)

// writeError maps a usecase error to its HTTP status. Internal errors are
// reported with fallback so storage details never leak.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch usecase.KindOf(err) {
	case usecase.KindInvalidInput:
		response.BadRequest(w, err.Error())
	case usecase.KindNotFound:
		response.NotFound(w, err.Error())
	case usecase.KindConflict:
		response.Conflict(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
