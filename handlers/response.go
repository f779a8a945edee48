package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AliShafique28/task-management-system-1/errs"
	"github.com/AliShafique28/task-management-system-1/logging"
)

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type listResponse struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Total      int64       `json:"total,omitempty"`
	Page       int64       `json:"page,omitempty"`
	TotalPages int64       `json:"totalPages,omitempty"`
	Data       interface{} `json:"data"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps the error's kind to an HTTP status and writes the
// rejection envelope. Internal errors are the only kind logged as faults,
// and their causes never reach the client.
func respondError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	if kind == errs.KindInternal {
		logging.Logger.Errorf("Unexpected error: %v", err)
	}
	respondJSON(w, statusForKind(kind), response{
		Success: false,
		Kind:    string(kind),
		Message: errs.MessageOf(err),
	})
}

func statusForKind(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// parsePagination reads page and limit query parameters, falling back to
// defaults on anything missing or malformed.
func parsePagination(r *http.Request) (page, limit int64) {
	page = defaultPage
	limit = defaultLimit

	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 {
		limit = v
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return page, limit
}

func totalPages(total, limit int64) int64 {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
