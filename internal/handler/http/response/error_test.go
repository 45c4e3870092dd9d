package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "latitude", Message: "bad"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"radius", &attendance.RadiusError{DistanceMeters: 812, RadiusMeters: 150}, http.StatusForbidden, "OUTSIDE_ALLOWED_RADIUS"},
		{"wrapped range", fmt.Errorf("report: %w", attendance.ErrInvalidRange), http.StatusBadRequest, "BAD_REQUEST"},
		{"token", attendance.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"manager", attendance.ErrManagerAccessRequired, http.StatusForbidden, "FORBIDDEN"},
		{"malformed", &attendance.MalformedEventError{EventID: "1", Field: "kind", Value: "X"}, http.StatusInternalServerError, "MALFORMED_EVENT_LOG"},
		{"export missing", report.ErrExportNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestHandleError_RadiusMessageCarriesDistance(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("failed to record entry event: %w", &attendance.RadiusError{DistanceMeters: 812.4, RadiusMeters: 150}))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "too far from the office: 812 meters (allowed 150)", body.Error.Message)
}
