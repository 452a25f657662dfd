package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"katha/internal/core"
)

// ResponseBuilder provides a fluent API for JSON responses.
type ResponseBuilder struct {
	status  int
	headers map[string]string
	body    any
}

// NewResponse creates a builder with a 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		status:  http.StatusOK,
		headers: make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.status = code
	return b
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.body = v
	return b
}

// Write sends the response. A value that cannot be encoded yields a 500.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.status)
		return
	}

	data, err := json.Marshal(b.body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"internal","message":"Internal server error"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.status)
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n"))
}

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorResponse(status int, code, message string) *ResponseBuilder {
	return NewResponse().Status(status).JSON(ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

func BadRequestError(message string) *ResponseBuilder {
	return errorResponse(http.StatusBadRequest, "bad_request", message)
}

func ValidationError(message string) *ResponseBuilder {
	return errorResponse(http.StatusUnprocessableEntity, "validation_failed", message)
}

func NotFoundError(message string) *ResponseBuilder {
	return errorResponse(http.StatusNotFound, "not_found", message)
}

func ConflictError(message string) *ResponseBuilder {
	return errorResponse(http.StatusConflict, "conflict", message)
}

// TooManyRequestsError tells the client to retry after the given seconds.
func TooManyRequestsError(retryAfter int) *ResponseBuilder {
	return errorResponse(http.StatusTooManyRequests, "rate_limited", "Too many requests").
		Header("Retry-After", strconv.Itoa(retryAfter))
}

func InternalError() *ResponseBuilder {
	return errorResponse(http.StatusInternalServerError, "internal", "Internal server error")
}

var validationErrors = []error{
	core.ErrEmptyName,
	core.ErrInvalidAmount,
	core.ErrNegativeAmount,
	core.ErrInvalidEntryType,
	core.ErrInvalidDate,
	core.ErrEmptyID,
}

// errorResponseFor maps domain errors to status codes. Unknown errors are
// reported as 500 without leaking their text.
func errorResponseFor(err error) *ResponseBuilder {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return ValidationError(target.Error())
		}
	}
	switch {
	case errors.Is(err, core.ErrEntryNotFound):
		return NotFoundError(core.ErrEntryNotFound.Error())
	case errors.Is(err, core.ErrMissingKatha):
		return ConflictError(core.ErrMissingKatha.Error())
	case errors.Is(err, core.ErrNoKathas):
		return ConflictError("create a katha before recording entries")
	case errors.Is(err, core.ErrDuplicateID):
		return ConflictError(core.ErrDuplicateID.Error())
	default:
		return InternalError()
	}
}
