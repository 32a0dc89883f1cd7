package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"kinship/internal/service"
	"kinship/internal/utils"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, zap.NewNop(), 418, "Teapot", "", nil)

	assert.Equal(t, 418, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "Teapot", decodeError(t, recorder).Error)
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	recorder := httptest.NewRecorder()

	respondWithError(recorder, zap.New(core), 500, "Internal server error", "", errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Internal server error", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}

type failingWriter struct {
	*httptest.ResponseRecorder
}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestRespondJSONLogsWriteFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	respondJSON(failingWriter{httptest.NewRecorder()}, zap.New(core), http.StatusOK, map[string]string{"a": "b"})

	entries := logs.FilterMessage("failed to write response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "connection reset", entries[0].ContextMap()["error"])
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "validation", err: utils.ValidationError{Field: "fullName", Message: "full name is required"}, wantStatus: http.StatusBadRequest, wantMsg: ErrMissingFields},
		{name: "unknown relation", err: utils.ValidationError{Field: "relation", Message: "unknown relation aunt"}, wantStatus: http.StatusBadRequest, wantMsg: "Unknown relation aunt"},
		{name: "missing query", err: service.ErrMissingQuery, wantStatus: http.StatusBadRequest, wantMsg: ErrMissingQuery},
		{name: "member not found", err: fmt.Errorf("move: %w", service.ErrMemberNotFound), wantStatus: http.StatusNotFound, wantMsg: "Member not found"},
		{name: "not recipient", err: service.ErrNotConnectionPartner, wantStatus: http.StatusForbidden, wantMsg: ErrForbidden},
		{name: "dna failure", err: fmt.Errorf("%w: timeout", service.ErrAnalysisFailed), wantStatus: http.StatusInternalServerError, wantMsg: ErrDNAAnalysisFailed},
		{name: "family failure", err: service.ErrFamilySaveFailed, wantStatus: http.StatusInternalServerError, wantMsg: ErrFamilySaveFailed},
		{name: "assistant failure", err: service.ErrAssistantUnavailable, wantStatus: http.StatusInternalServerError, wantMsg: ErrAssistantUnavailable},
		{name: "unknown", err: errors.New("disk full"), wantStatus: http.StatusInternalServerError, wantMsg: "Fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithServiceError(rec, zap.NewNop(), tt.err, "Fallback")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec).Error)
		})
	}
}
