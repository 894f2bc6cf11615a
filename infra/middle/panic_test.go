package middle

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecompay/checkout/infra/response"
)

func TestPanicRecoveryMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		expectedStatus int
		shouldPanic    bool
	}{
		{
			name: "Normal request - no panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("success"))
			},
			expectedStatus: http.StatusOK,
			shouldPanic:    false,
		},
		{
			name: "Handler panics with string",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("test panic")
			},
			expectedStatus: http.StatusInternalServerError,
			shouldPanic:    true,
		},
		{
			name: "Handler panics with error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic(http.ErrAbortHandler)
			},
			expectedStatus: http.StatusInternalServerError,
			shouldPanic:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := PanicRecoveryMiddleware()
			wrappedHandler := middleware(tt.handler)

			req := httptest.NewRequest("POST", "/v1/checkout/cybersource/execute", nil)
			req.Header.Set("X-Request-ID", "test-request-123")
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.shouldPanic {
				var resp response.Response
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if resp.Success {
					t.Error("Expected success to be false after panic")
				}
				if w.Header().Get("Cache-Control") == "" {
					t.Error("Expected cache-control headers on panic response")
				}
			}
		})
	}
}

func TestPanicRecoveryWithCustomHandler(t *testing.T) {
	var captured any

	middleware := PanicRecoveryWithCustomHandler(func(w http.ResponseWriter, r *http.Request, err any) {
		captured = err
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	wrappedHandler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("custom panic")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
	if captured != "custom panic" {
		t.Errorf("Expected captured panic 'custom panic', got %v", captured)
	}
}
