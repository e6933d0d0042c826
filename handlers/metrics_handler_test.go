package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bidround/auction-system/metrics"
	"github.com/bidround/auction-system/middleware"
	"github.com/golang-jwt/jwt/v4"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

const metricsTestSecret = "metrics-test-secret"

func metricsToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(metricsTestSecret))
	assert.NoError(t, err)
	return signed
}

func TestMetricsHandler_AdminGate(t *testing.T) {
	tests := []struct {
		name       string
		claims     jwt.MapClaims
		wantStatus int
	}{
		{
			name:       "admin allowed",
			claims:     jwt.MapClaims{"user_id": "user-1", "role": "admin"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "player forbidden",
			claims:     jwt.MapClaims{"user_id": "user-1", "role": "player"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing role claim forbidden",
			claims:     jwt.MapClaims{"user_id": "user-1"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown role forbidden",
			claims:     jwt.MapClaims{"user_id": "user-1", "role": "superuser"},
			wantStatus: http.StatusForbidden,
		},
	}

	handler := NewMetricsHandler(metrics.NewTracker())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.Authenticate(metricsTestSecret)(http.HandlerFunc(handler.Snapshot))

			r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			r.Header.Set("Authorization", "Bearer "+metricsToken(t, tt.claims))
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, r)

			check.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestMetricsHandler_ResetClearsCounters(t *testing.T) {
	tracker := metrics.NewTracker()
	tracker.RecordRequest("GET /auctions", 200, time.Millisecond)
	handler := NewMetricsHandler(tracker)

	wrapped := middleware.Authenticate(metricsTestSecret)(http.HandlerFunc(handler.Reset))

	r := httptest.NewRequest(http.MethodPost, "/metrics", nil)
	r.Header.Set("Authorization", "Bearer "+metricsToken(t, jwt.MapClaims{"user_id": "user-1", "role": "admin"}))
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	check.Equal(t, 0, len(tracker.Snapshot().Requests))
}
