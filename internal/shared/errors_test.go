package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTurnError_KindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"decision", DecisionError(errors.New("bad verdict")), KindDecision},
		{"retrieval", RetrievalError(errors.New("qdrant down")), KindRetrieval},
		{"completion", CompletionError(errors.New("model down")), KindCompletion},
		{"storage", StorageError(errors.New("redis down")), KindStorage},
		{"wrapped", fmt.Errorf("turn failed: %w", StorageError(errors.New("redis down"))), KindStorage},
		{"untagged", errors.New("plain"), ErrorKind("")},
		{"nil-safe", nil, ErrorKind("")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTurnError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := CompletionError(fmt.Errorf("describe: %w", cause))

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause through the tag")
	}
	want := "completion error: describe: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTurnErrorToHTTP(t *testing.T) {
	httpErr := TurnErrorToHTTP(RetrievalError(errors.New("embed failed")))
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", httpErr.Code)
	}
	apiErr, ok := httpErr.Message.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError payload, got %T", httpErr.Message)
	}
	if apiErr.Code != "retrieval_error" {
		t.Errorf("expected code retrieval_error, got %q", apiErr.Code)
	}
}

func TestTurnErrorToHTTP_Untagged(t *testing.T) {
	httpErr := TurnErrorToHTTP(errors.New("boom"))
	apiErr := httpErr.Message.(*APIError)
	if apiErr.Code != "internal" {
		t.Errorf("expected code internal, got %q", apiErr.Code)
	}
}

func TestAPIErrorHelpers(t *testing.T) {
	cases := []struct {
		err  *echo.HTTPError
		code int
	}{
		{BadRequest("empty_request", "missing input"), http.StatusBadRequest},
		{NotFound("photo_not_found", "no such photo"), http.StatusNotFound},
		{Conflict("duplicate", "already uploaded"), http.StatusConflict},
		{InternalError("internal", "oops"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Errorf("expected status %d, got %d", tc.code, tc.err.Code)
		}
	}
}
