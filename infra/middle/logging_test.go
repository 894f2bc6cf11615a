package middle

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseLifecyclePath(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		wantMethod    string
		wantOperation string
	}{
		{
			name:          "initialize",
			path:          "/v1/checkout/cybersource/initialize",
			wantMethod:    "cybersource",
			wantOperation: "initialize",
		},
		{
			name:          "execute",
			path:          "/v1/checkout/amazonpay/execute",
			wantMethod:    "amazonpay",
			wantOperation: "execute",
		},
		{
			name:          "finalize",
			path:          "/v1/checkout/amazonpay/finalize",
			wantMethod:    "amazonpay",
			wantOperation: "finalize",
		},
		{
			name:          "deinitialize",
			path:          "/v1/checkout/googlepaystripe/deinitialize",
			wantMethod:    "googlepaystripe",
			wantOperation: "deinitialize",
		},
		{
			name: "unknown operation",
			path: "/v1/checkout/cybersource/refund",
		},
		{
			name: "wrong prefix",
			path: "/v2/checkout/cybersource/execute",
		},
		{
			name: "health endpoint",
			path: "/health",
		},
		{
			name: "too many segments",
			path: "/v1/checkout/cybersource/execute/extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, operation := parseLifecyclePath(tt.path)

			if method != tt.wantMethod {
				t.Errorf("Expected method %q, got %q", tt.wantMethod, method)
			}
			if operation != tt.wantOperation {
				t.Errorf("Expected operation %q, got %q", tt.wantOperation, operation)
			}
		})
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusConflict)

	if rw.statusCode != http.StatusConflict {
		t.Errorf("Expected captured status 409, got %d", rw.statusCode)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected written status 409, got %d", rec.Code)
	}
}

func TestResponseWriterDefaultsToOK(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected default status 200, got %d", rw.statusCode)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{
			name:       "x_forwarded_for_single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			expected:   "203.0.113.5",
		},
		{
			name:       "x_forwarded_for_chain",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"},
			expected:   "203.0.113.5",
		},
		{
			name:       "x_real_ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			expected:   "203.0.113.9",
		},
		{
			name:       "remote_addr_fallback",
			remoteAddr: "10.0.0.1:1234",
			expected:   "10.0.0.1",
		},
		{
			name:       "remote_addr_without_port",
			remoteAddr: "10.0.0.1",
			expected:   "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			if got := GetClientIP(req); got != tt.expected {
				t.Errorf("Expected IP %q, got %q", tt.expected, got)
			}
		})
	}
}
