package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/product-catalog/pkg/errors"
	"github.com/utafrali/product-catalog/pkg/logger"
	"github.com/utafrali/product-catalog/pkg/pagination"
	"github.com/utafrali/product-catalog/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeRaw(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	return raw
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// --- WriteJSON / WriteOK ---

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Message: MessageSuccess, Data: "hello"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteOK_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOK(rec, "Delete product success!", 42)

	assert.Equal(t, http.StatusOK, rec.Code)
	raw := decodeRaw(t, rec)
	assert.JSONEq(t, `"Delete product success!"`, string(raw["message"]))
	assert.JSONEq(t, `42`, string(raw["data"]))
	assert.NotContains(t, raw, "error")
}

func TestResponse_NilData_RendersNull(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNotFound(rec, "No products found ")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	raw := decodeRaw(t, rec)
	assert.Equal(t, "null", string(raw["data"]))
	assert.JSONEq(t, `"No products found "`, string(raw["message"]))
	assert.NotContains(t, raw, "error")
}

// --- WritePage ---

func TestWritePage(t *testing.T) {
	page := pagination.NewPage([]string{"a", "b"}, pagination.Params{Page: 0, Size: 2}, 5)

	rec := httptest.NewRecorder()
	WritePage(rec, MessageSuccess, page)

	assert.Equal(t, http.StatusOK, rec.Code)
	raw := decodeRaw(t, rec)
	assert.JSONEq(t, `["a","b"]`, string(raw["data"]))
	assert.JSONEq(t, `{"pageNumber":"0","noOfPages":"3","hasNext":"true","totalElements":"5"}`, string(raw["pagination"]))
}

func TestWritePage_EmptyRendersEmptyArray(t *testing.T) {
	page := pagination.NewPage[string](nil, pagination.Params{Page: 0, Size: 10}, 0)

	rec := httptest.NewRecorder()
	WritePage(rec, MessageSuccess, page)

	raw := decodeRaw(t, rec)
	assert.Equal(t, "[]", string(raw["data"]))
}

// --- WriteError ---

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/9", nil)

	WriteError(rec, req, fmt.Errorf("get product: %w", apperrors.NotFound("product")), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "product not found", resp.Message)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "product not found", resp.Error.Message)
}

func TestWriteError_Sentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already exists", apperrors.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{"invalid input", apperrors.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown", fmt.Errorf("something unexpected"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			WriteError(rec, req, tt.err, testLogger())

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestWriteError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, fmt.Errorf("dial tcp 10.0.0.1:5432: connection refused"), testLogger())

	resp := decodeResponse(t, rec)
	assert.Equal(t, "an internal error occurred", resp.Error.Message)
	assert.NotContains(t, resp.Error.Message, "10.0.0.1")
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	WriteError(rec, req, apperrors.AlreadyExists("this product already exist"), testLogger())

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "corr-123", resp.Error.RequestID)
}

func TestWriteError_NoCorrelationID_OmitsRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	raw := decodeRaw(t, rec)
	var errObj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["error"], &errObj))
	assert.NotContains(t, errObj, "request_id")
}

// --- WriteValidationError ---

type sampleRequest struct {
	Name string `json:"name" validate:"required"`
}

func TestWriteValidationError_FieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products", nil)

	WriteValidationError(rec, req, validator.Validate(sampleRequest{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "is required", resp.Error.Fields["name"])
}

func TestWriteValidationError_NonValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products", nil)

	WriteValidationError(rec, req, fmt.Errorf("decode request body: unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Message, "unexpected EOF")
}

// --- ParseID ---

func TestParseID_Valid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/17", nil)

	id, ok := ParseID(rec, req, "17")

	assert.True(t, ok)
	assert.Equal(t, int64(17), id)
	assert.Equal(t, http.StatusOK, rec.Code) // nothing written
}

func TestParseID_Invalid(t *testing.T) {
	for _, param := range []string{"abc", "", "0", "-3", "1.5"} {
		t.Run(param, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/products/x", nil)

			_, ok := ParseID(rec, req, param)

			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
		})
	}
}

// --- RequireQuery ---

func TestRequireQuery_Present(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products/by/brand-and-name?brandName=Apple&productName=iPhone", nil)

	values, err := RequireQuery(req, "brandName", "productName")

	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "iPhone"}, values)
}

func TestRequireQuery_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products/by/brand-and-name?brandName=%20", nil)

	_, err := RequireQuery(req, "brandName", "productName")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "brandName, productName")
}

func TestRequireQuery_KeepsSurroundingWhitespace(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products/product/by-brand?brand=%20Acme%20", nil)

	values, err := RequireQuery(req, "brand")

	require.NoError(t, err)
	assert.Equal(t, []string{" Acme "}, values)
}
