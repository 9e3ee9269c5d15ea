package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// StatusClientClosedRequest is written when the caller went away before the handler finished.
const StatusClientClosedRequest = 499

// WriteJSON encodes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteError sends {"message": ...}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// WriteServerError answers an unexpected failure without exposing err. The error
// is attached to the request so AccessLog can record it.
func WriteServerError(w http.ResponseWriter, r *http.Request, err error) {
	recordError(r, err)
	if errors.Is(err, context.Canceled) {
		WriteError(w, StatusClientClosedRequest, "request canceled")
		return
	}
	WriteError(w, http.StatusInternalServerError, "internal error")
}

// Page describes a screen the client renders on its own. Fields lists the inputs
// the matching POST endpoint accepts.
type Page struct {
	Name   string   `json:"page"`
	Title  string   `json:"title,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

func WritePage(w http.ResponseWriter, page Page) {
	WriteJSON(w, http.StatusOK, page)
}
