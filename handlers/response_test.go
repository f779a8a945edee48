package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AliShafique28/task-management-system-1/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusForKind(errs.KindValidation))
	assert.Equal(t, http.StatusNotFound, statusForKind(errs.KindNotFound))
	assert.Equal(t, http.StatusForbidden, statusForKind(errs.KindForbidden))
	assert.Equal(t, http.StatusConflict, statusForKind(errs.KindConflict))
	assert.Equal(t, http.StatusInternalServerError, statusForKind(errs.KindInternal))
}

func TestRespondErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errs.Forbidden("Access denied. You are not a member of this project."))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "forbidden", body.Kind)
	assert.Equal(t, "Access denied. You are not a member of this project.", body.Message)
}

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	page, limit := parsePagination(r)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/projects?page=3&limit=25", nil)
	page, limit := parsePagination(r)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(25), limit)
}

func TestParsePaginationRejectsGarbage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/projects?page=-1&limit=abc", nil)
	page, limit := parsePagination(r)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)
}

func TestParsePaginationCapsLimit(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/projects?limit=5000", nil)
	_, limit := parsePagination(r)
	assert.Equal(t, int64(100), limit)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), totalPages(0, 10))
	assert.Equal(t, int64(1), totalPages(1, 10))
	assert.Equal(t, int64(1), totalPages(10, 10))
	assert.Equal(t, int64(2), totalPages(11, 10))
	assert.Equal(t, int64(5), totalPages(41, 10))
}
