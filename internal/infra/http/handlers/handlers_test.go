package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/database"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

type body struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details []json.RawMessage `json:"details"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) body {
	t.Helper()
	var b body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b), rec.Body.String())
	return b
}

func TestErrorWriter_Write(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		production  bool
		wantStatus  int
		wantError   string
		wantMessage string
		wantDetails int
	}{
		{
			name:        "validation",
			err:         usecase.ValidationErrors{{Field: "email", Message: "Valid email is required"}},
			wantStatus:  http.StatusBadRequest,
			wantError:   "Validation failed",
			wantDetails: 1,
		},
		{
			name:       "domain not found",
			err:        &usecase.DomainError{Code: usecase.CodeNotFound, Message: "Quote not found"},
			wantStatus: http.StatusNotFound,
			wantError:  "Quote not found",
		},
		{
			name:       "wrapped conflict",
			err:        fmt.Errorf("bind: %w", &usecase.DomainError{Code: usecase.CodeConflict, Message: "Quote must be approved before binding"}),
			wantStatus: http.StatusConflict,
			wantError:  "Quote must be approved before binding",
		},
		{
			name:       "forbidden",
			err:        &usecase.DomainError{Code: usecase.CodeForbidden, Message: "Insufficient permissions"},
			wantStatus: http.StatusForbidden,
			wantError:  "Insufficient permissions",
		},
		{
			name:       "duplicate",
			err:        fmt.Errorf("step create_policy: %w", entity.ErrDuplicate),
			wantStatus: http.StatusConflict,
			wantError:  "Duplicate entry - this record already exists",
		},
		{
			name:       "foreign key",
			err:        entity.ErrInvalidReference,
			wantStatus: http.StatusBadRequest,
			wantError:  "Referenced record not found",
		},
		{
			name:       "not null",
			err:        entity.ErrRequiredField,
			wantStatus: http.StatusBadRequest,
			wantError:  "Required field is missing",
		},
		{
			name:        "technical outside production",
			err:         &usecase.TechnicalError{Code: usecase.CodeDatabase, Message: "list leads", Err: errors.New("disk I/O error")},
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Internal Server Error",
			wantMessage: "list leads",
		},
		{
			name:        "technical in production",
			err:         errors.New("disk I/O error"),
			production:  true,
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Internal Server Error",
			wantMessage: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			ew := NewErrorWriter(zap.New(core), tt.production)

			rec := httptest.NewRecorder()
			ew.Write(rec, httptest.NewRequest(http.MethodGet, "/api/quotes", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			b := decodeBody(t, rec)
			assert.False(t, b.Success)
			assert.Equal(t, tt.wantError, b.Error)
			if tt.wantMessage != "" {
				assert.Contains(t, b.Message, tt.wantMessage)
			}
			assert.Len(t, b.Details, tt.wantDetails)

			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}

func TestErrorWriter_BadBody(t *testing.T) {
	ew := NewErrorWriter(nil, false)

	rec := httptest.NewRecorder()
	ew.BadBody(rec, &http.MaxBytesError{Limit: 10})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Request body too large", decodeBody(t, rec).Error)

	rec = httptest.NewRecorder()
	ew.BadBody(rec, errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, rec).Error)
}

func TestDecodeJSON(t *testing.T) {
	type target struct {
		Status string `json:"status"`
	}

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", `{"status":"read"}`, false},
		{"unknown field", `{"status":"read","role":"admin"}`, true},
		{"malformed", `{"status":`, true},
		{"trailing object", `{"status":"read"}{"status":"new"}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.in))
			var dst target
			err := decodeJSON(r, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "read", dst.Status)
		})
	}
}

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&limit=500", nil)
	assert.Equal(t, entity.Page{Page: 3, Limit: entity.MaxPageLimit}, pageParams(r, defaultPageLimit))

	r = httptest.NewRequest(http.MethodGet, "/?page=abc", nil)
	assert.Equal(t, entity.Page{Page: 1, Limit: defaultEventLimit}, pageParams(r, defaultEventLimit))
}

type fakeBroker struct{ closed bool }

func (b fakeBroker) IsClosed() bool { return b.closed }

func TestHealthHandler_DegradedWhenStoreDown(t *testing.T) {
	db, err := database.NewDBConnection(database.Options{
		Driver: database.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "health.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(context.Background(), db))

	h := NewHealthHandler(db, fakeBroker{closed: true}, "production")

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var ok HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.Equal(t, statusHealthy, ok.Status)
	assert.Equal(t, "production", ok.Environment)

	require.NoError(t, db.Close())

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var down HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &down))
	assert.Equal(t, statusDegraded, down.Status)
	assert.Equal(t, statusUnhealthy, down.Database)

	rec = httptest.NewRecorder()
	h.System(rec, httptest.NewRequest(http.MethodGet, "/api/admin/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var sys struct {
		Data SystemHealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sys))
	assert.Equal(t, statusUnhealthy, sys.Data.Database.Status)
	assert.NotEmpty(t, sys.Data.Database.Error)
	assert.Equal(t, DependencyStatus{Status: statusUnhealthy, Error: "connection closed"}, sys.Data.RabbitMQ)
	assert.Positive(t, sys.Data.Goroutines)
}
