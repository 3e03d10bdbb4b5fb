package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

type contactPayload struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"omitempty,dzphone"`
}

func bindBody(body string) error {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dst contactPayload
	return Bind(req, &dst)
}

func TestBindAcceptsValidPayload(t *testing.T) {
	require.NoError(t, bindBody(`{"name":"Amina","phone":"0555123456"}`))
}

func TestBindRejectsUnknownFields(t *testing.T) {
	err := bindBody(`{"name":"Amina","nickname":"A"}`)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "BAD_REQUEST", appErr.Code)
}

func TestBindReportsFieldErrors(t *testing.T) {
	err := bindBody(`{"name":"","phone":"12345"}`)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "VALIDATION_FAILED", appErr.Code)
	fields, ok := appErr.Details.([]FieldError)
	require.True(t, ok)
	require.ElementsMatch(t, []FieldError{
		{Field: "contactPayload.Name", Rule: "required"},
		{Field: "contactPayload.Phone", Rule: "dzphone"},
	}, fields)
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("dial tcp: secret host"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "secret host")

	rec = httptest.NewRecorder()
	WriteError(rec, NewAppError("NOT_FOUND", "pickup point not found", http.StatusNotFound, nil))
	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestClientIPFollowsRealIP(t *testing.T) {
	var seen string
	h := middleware.RealIP(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ClientIP(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "203.0.113.7", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.2:5555"
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "198.51.100.2", seen)
}

func TestClientIPWithoutPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9"
	require.Equal(t, "203.0.113.9", ClientIP(req))
	require.Empty(t, ClientIP(nil))
}
