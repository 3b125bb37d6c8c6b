package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes event path",
			method:     http.MethodPost,
			path:       "/api/v1/events/01ABC123/reverse",
			statusCode: http.StatusOK,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodGet,
			path:       "/health",
			statusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatal("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			normalized := normalizePath(tc.path)
			counter := httpRequestsTotal.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "account path without suffix",
			input:    "/api/v1/accounts/01ABC123",
			expected: "/api/v1/accounts/:id",
		},
		{
			name:     "account balance path",
			input:    "/api/v1/accounts/01ABC123/balance",
			expected: "/api/v1/accounts/:id/balance",
		},
		{
			name:     "event reverse path",
			input:    "/api/v1/events/01XYZ789/reverse",
			expected: "/api/v1/events/:id/reverse",
		},
		{
			name:     "agreement rules path",
			input:    "/api/v1/agreements/01AGR001/rules",
			expected: "/api/v1/agreements/:id/rules",
		},
		{
			name:     "collection path untouched",
			input:    "/api/v1/accounts/",
			expected: "/api/v1/accounts/",
		},
		{
			name:     "non-matching path",
			input:    "/api/v1/ledger/consistency",
			expected: "/api/v1/ledger/consistency",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
