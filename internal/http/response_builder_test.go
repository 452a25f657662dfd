package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"katha/internal/core"
)

func TestResponseBuilder(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponse().Status(http.StatusCreated).Header("Location", "/x").JSON(map[string]int{"n": 1}).Write(rec)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" || rec.Header().Get("Location") != "/x" {
		t.Errorf("headers = %v", rec.Header())
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["n"] != 1 {
		t.Errorf("body = %s (%v)", rec.Body, err)
	}
}

func TestResponseBuilder_UnencodableBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponse().JSON(map[string]any{"f": func() {}}).Write(rec)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestErrorResponseFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{core.ErrEmptyName, http.StatusUnprocessableEntity},
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{core.ErrNegativeAmount, http.StatusUnprocessableEntity},
		{core.ErrInvalidEntryType, http.StatusUnprocessableEntity},
		{core.ErrInvalidDate, http.StatusUnprocessableEntity},
		{fmt.Errorf("delete entry x: %w", core.ErrEntryNotFound), http.StatusNotFound},
		{fmt.Errorf("record entry: %w", core.ErrMissingKatha), http.StatusConflict},
		{core.ErrNoKathas, http.StatusConflict},
		{core.ErrDuplicateID, http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			errorResponseFor(tt.err).Write(rec)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tt.status == http.StatusInternalServerError && body.Error.Message == tt.err.Error() {
				t.Errorf("internal error text leaked: %q", body.Error.Message)
			}
		})
	}
}
