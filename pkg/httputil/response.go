package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/utafrali/product-catalog/pkg/errors"
	"github.com/utafrali/product-catalog/pkg/logger"
	"github.com/utafrali/product-catalog/pkg/pagination"
	"github.com/utafrali/product-catalog/pkg/validator"
)

// MessageSuccess is the envelope message for plain reads.
const MessageSuccess = "success"

// Response is the JSON envelope for every endpoint. Data is always present
// and renders as null when empty.
type Response struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// PagedResponse is the envelope for paginated lists.
type PagedResponse struct {
	Message    string              `json:"message"`
	Data       any                 `json:"data"`
	Pagination pagination.Metadata `json:"pagination"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteOK writes a 200 envelope with the given message and payload.
func WriteOK(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{Message: message, Data: data})
}

// WritePage writes a 200 paged envelope.
func WritePage[T any](w http.ResponseWriter, message string, page pagination.Page[T]) {
	WriteJSON(w, http.StatusOK, PagedResponse{
		Message:    message,
		Data:       page.Items,
		Pagination: page.Metadata(),
	})
}

// WriteNotFound writes a 404 envelope with a null payload and no error
// object. Filter endpoints use it for empty results.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusNotFound, Response{Message: message})
}

// WriteError writes a standardized error response based on the error type.
// Internal errors are logged with the request-scoped logger when the
// RequestLogger middleware is mounted, otherwise with fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status == http.StatusInternalServerError {
			logInternal(r, l, err)
		}
		writeErrorEnvelope(w, appErr.Status, appErr.Code, appErr.Message, requestID)
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "NOT_FOUND"
		message = "resource not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		code = "ALREADY_EXISTS"
		message = "resource already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code = "INVALID_INPUT"
		message = err.Error()
	default:
		logInternal(r, l, err)
	}

	writeErrorEnvelope(w, status, code, message, requestID)
}

func logInternal(r *http.Request, l *slog.Logger, err error) {
	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

func writeErrorEnvelope(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Response{
		Message: message,
		Error:   &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}

// WriteValidationError writes a 400 response. ValidationErrors from the
// validator package are rendered with field-level messages.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		const msg = "request validation failed"
		WriteJSON(w, http.StatusBadRequest, Response{
			Message: msg,
			Error: &ErrorResponse{
				Code:      "VALIDATION_ERROR",
				Message:   msg,
				Fields:    valErr.Fields(),
				RequestID: requestID,
			},
		})
		return
	}

	writeErrorEnvelope(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), requestID)
}

// ParseID parses a positive integer path parameter. On failure it writes a
// 400 response with code INVALID_PARAMETER and returns false, signaling the
// caller to return early.
func ParseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		msg := "invalid id: " + param
		writeErrorEnvelope(w, http.StatusBadRequest, "INVALID_PARAMETER", msg, logger.CorrelationIDFromContext(r.Context()))
		return 0, false
	}
	return id, true
}

// RequireQuery returns the values of the named query parameters in order,
// unmodified. Blank or missing parameters produce an InvalidInput error
// naming them all.
func RequireQuery(r *http.Request, names ...string) ([]string, error) {
	q := r.URL.Query()
	values := make([]string, len(names))
	var missing []string
	for i, name := range names {
		v := q.Get(name)
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
			continue
		}
		values[i] = v
	}
	if len(missing) > 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("missing required query parameter: %s", strings.Join(missing, ", ")))
	}
	return values, nil
}
