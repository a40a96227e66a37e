package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, http.StatusBadRequest, ErrCodeValidation, "sort must be valid")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	resp := decodeError(t, rec)
	if resp.Error.Code != ErrCodeValidation {
		t.Errorf("code = %q, want %q", resp.Error.Code, ErrCodeValidation)
	}
	if resp.Error.Message != "sort must be valid" {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestWriteJSONEncodesPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rec := httptest.NewRecorder()

	writeJSON(rec, req, map[string]int{"n": 7})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "{\"n\":7}\n" {
		t.Errorf("body = %q", got)
	}
}
