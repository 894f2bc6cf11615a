package opensearch

import (
	"context"
	"errors"
	"testing"

	"github.com/ecompay/checkout/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func disabledLogger(t *testing.T) *Logger {
	t.Helper()

	cfg := &config.AppConfig{
		OpenSearchURL: "http://localhost:9200",
		EnableLogging: false,
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)

	return NewLogger(client)
}

func TestNewLogger(t *testing.T) {
	logger := disabledLogger(t)

	assert.NotNil(t, logger)
	assert.NotNil(t, logger.client)
}

func TestLogger_LogLifecycleDisabled(t *testing.T) {
	logger := disabledLogger(t)

	// With logging disabled the call is a no-op and never touches the cluster.
	err := logger.LogLifecycle(context.Background(), "cybersource", "execute", 42, nil)
	assert.NoError(t, err)

	err = logger.LogLifecycle(context.Background(), "cybersource", "execute", 42, errors.New("card declined"))
	assert.NoError(t, err)
}

func TestLogger_SearchLogsDisabled(t *testing.T) {
	logger := disabledLogger(t)

	_, err := logger.SearchLogs(context.Background(), "cybersource", map[string]any{"match_all": map[string]any{}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "logging is disabled")
}

func TestLogger_GetMethodStatsDisabled(t *testing.T) {
	logger := disabledLogger(t)

	_, err := logger.GetMethodStats(context.Background(), "cybersource", 24)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "logging is disabled")
}

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		excludes string
	}{
		{
			name:     "card_number_redacted",
			input:    `{"cardNumber":"4111111111111111","amount":100}`,
			contains: "***REDACTED***",
			excludes: "4111111111111111",
		},
		{
			name:     "cvv_redacted",
			input:    `{"cvv":"123"}`,
			contains: "***REDACTED***",
			excludes: "123",
		},
		{
			name:     "token_redacted",
			input:    `{"token":"secret-jwt-value"}`,
			contains: "***REDACTED***",
			excludes: "secret-jwt-value",
		},
		{
			name:     "plain_fields_untouched",
			input:    `{"amount":100,"currency":"USD"}`,
			contains: `"amount":100`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeForLog(tt.input)

			assert.Contains(t, result, tt.contains)
			if tt.excludes != "" {
				assert.NotContains(t, result, tt.excludes)
			}
		})
	}
}
