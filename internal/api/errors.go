package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/balkashynov/tempus/internal/store"
)

// Error codes in response bodies
const (
	codeValidation  = "validation"
	codeNotFound    = "not_found"
	codePersistence = "persistence"
	codeInternal    = "internal"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError maps a store error to its HTTP status. A persistence error
// means the change was applied in memory but is not durable yet.
func writeStoreError(w http.ResponseWriter, err error) {
	var serr *store.Error
	if !errors.As(err, &serr) {
		writeError(w, http.StatusInternalServerError, codeInternal, "server error")
		return
	}

	switch serr.Kind {
	case store.KindValidation:
		writeError(w, http.StatusBadRequest, codeValidation, serr.Msg)
	case store.KindNotFound:
		writeError(w, http.StatusNotFound, codeNotFound, serr.Msg)
	case store.KindPersistence:
		writeError(w, http.StatusServiceUnavailable, codePersistence, serr.Msg)
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "server error")
	}
}

// degradedHeader is set when a change was applied but could not be saved
const degradedHeader = "X-Tempus-Degraded"

// failed answers err unless it is nil or only a persistence failure. The store
// keeps such a change in memory, so the handler still answers normally and the
// client learns about degraded mode from the header.
func failed(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case store.IsKind(err, store.KindPersistence):
		w.Header().Set(degradedHeader, "true")
		return false
	default:
		writeStoreError(w, err)
		return true
	}
}

// decode reads a JSON body into v, answering 400 itself on failure
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
