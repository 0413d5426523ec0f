package shared

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ErrorKind tags a chat-turn failure with the pipeline step that produced it.
type ErrorKind string

const (
	KindDecision   ErrorKind = "decision"
	KindRetrieval  ErrorKind = "retrieval"
	KindCompletion ErrorKind = "completion"
	KindStorage    ErrorKind = "storage"
)

// TurnError wraps a fatal failure from one step of a chat turn. The kind is
// stable and surfaces as the HTTP error code; the wrapped error carries detail.
type TurnError struct {
	Kind ErrorKind
	Err  error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

func DecisionError(err error) error {
	return &TurnError{Kind: KindDecision, Err: err}
}

func RetrievalError(err error) error {
	return &TurnError{Kind: KindRetrieval, Err: err}
}

func CompletionError(err error) error {
	return &TurnError{Kind: KindCompletion, Err: err}
}

func StorageError(err error) error {
	return &TurnError{Kind: KindStorage, Err: err}
}

// KindOf returns the tagged kind of err, or "" if err carries no TurnError.
func KindOf(err error) ErrorKind {
	var te *TurnError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

func (e *APIError) ToHTTP(status int) *echo.HTTPError {
	return echo.NewHTTPError(status, e)
}

func BadRequest(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusBadRequest)
}

func NotFound(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusNotFound)
}

func Conflict(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusConflict)
}

func InternalError(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusInternalServerError)
}

// TurnErrorToHTTP maps a tagged turn failure to the wire error contract:
// the kind becomes the code, the message stays human-readable.
func TurnErrorToHTTP(err error) *echo.HTTPError {
	kind := KindOf(err)
	if kind == "" {
		return InternalError("internal", err.Error())
	}
	return InternalError(string(kind)+"_error", err.Error())
}
