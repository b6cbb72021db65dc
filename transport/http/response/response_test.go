package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fair/shared/failure"
	"fair/transport/http/response"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "conflict keeps its message",
			err:      fmt.Errorf("reserve: %w", failure.Conflict("booth A-01 is not available")),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"booth A-01 is not available"}`,
		},
		{
			name:     "not found",
			err:      failure.NotFound("transaction not found"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"transaction not found"}`,
		},
		{
			name:     "unclassified error is hidden",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
		})
	}
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusOK, map[string]int{"available": 3})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"available":3}}`, recorder.Body.String())
}

func TestWithRequestLimitExceeded(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithRequestLimitExceeded(recorder, 60*time.Second)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "60", recorder.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, recorder.Body.String())
}

func TestWithUnhealthy(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithUnhealthy(recorder)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, "5", recorder.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"SERVER UNHEALTHY"}`, recorder.Body.String())
}
