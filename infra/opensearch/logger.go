package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// LifecycleLog represents a structured record of one strategy lifecycle call
type LifecycleLog struct {
	Timestamp        time.Time `json:"timestamp"`
	Method           string    `json:"method"`
	Operation        string    `json:"operation"`
	RequestID        string    `json:"request_id"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	Success          bool      `json:"success"`
	Error            ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Logger handles OpenSearch logging operations
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch logger
func NewLogger(client *Client) *Logger {
	return &Logger{
		client: client,
	}
}

// LogLifecycle records a strategy lifecycle call. It satisfies the
// lifecycle logger contract of the checkout service.
func (l *Logger) LogLifecycle(ctx context.Context, methodID, operation string, processingMs int64, callErr error) error {
	entry := LifecycleLog{
		Method:           methodID,
		Operation:        operation,
		ProcessingTimeMs: processingMs,
		Success:          callErr == nil,
	}
	if callErr != nil {
		entry.Error = ErrorInfo{Message: callErr.Error()}
	}
	return l.LogLifecycleEntry(ctx, entry)
}

// LogLifecycleEntry indexes a lifecycle log entry into the method's index
func (l *Logger) LogLifecycleEntry(ctx context.Context, entry LifecycleLog) error {
	if !l.client.IsEnabled() {
		return nil // Logging disabled
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if entry.RequestID == "" {
		entry.RequestID = uuid.New().String()
	}

	indexName := l.client.GetLogIndexName(entry.Method)

	logJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index: indexName,
		Body:  bytes.NewReader(logJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index log: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch error: %s", res.String())
	}

	return nil
}

// SearchLogs searches for lifecycle logs based on criteria
func (l *Logger) SearchLogs(ctx context.Context, method string, query map[string]any) ([]LifecycleLog, error) {
	if !l.client.IsEnabled() {
		return nil, fmt.Errorf("logging is disabled")
	}

	indexName := l.client.GetLogIndexName(method)

	searchQuery := map[string]any{
		"query": query,
		"sort": []map[string]any{
			{"timestamp": map[string]string{"order": "desc"}},
		},
		"size": 100, // Limit results
	}

	queryJSON, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch search error: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source LifecycleLog `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	logs := make([]LifecycleLog, len(searchResult.Hits.Hits))
	for i, hit := range searchResult.Hits.Hits {
		logs[i] = hit.Source
	}

	return logs, nil
}

// GetRecentErrorLogs retrieves recent failed lifecycle calls for a method
func (l *Logger) GetRecentErrorLogs(ctx context.Context, method string, hours int) ([]LifecycleLog, error) {
	query := map[string]any{
		"bool": map[string]any{
			"must": []map[string]any{
				{
					"range": map[string]any{
						"timestamp": map[string]any{
							"gte": fmt.Sprintf("now-%dh", hours),
						},
					},
				},
				{
					"term": map[string]any{
						"success": false,
					},
				},
			},
		},
	}

	return l.SearchLogs(ctx, method, query)
}

// GetMethodStats retrieves aggregated statistics for a payment method
func (l *Logger) GetMethodStats(ctx context.Context, method string, hours int) (map[string]any, error) {
	if !l.client.IsEnabled() {
		return nil, fmt.Errorf("logging is disabled")
	}

	indexName := l.client.GetLogIndexName(method)

	aggQuery := map[string]any{
		"query": map[string]any{
			"range": map[string]any{
				"timestamp": map[string]any{
					"gte": fmt.Sprintf("now-%dh", hours),
				},
			},
		},
		"aggs": map[string]any{
			"total_calls": map[string]any{
				"value_count": map[string]any{
					"field": "request_id",
				},
			},
			"error_count": map[string]any{
				"filter": map[string]any{
					"term": map[string]any{
						"success": false,
					},
				},
			},
			"avg_processing_time": map[string]any{
				"avg": map[string]any{
					"field": "processing_time_ms",
				},
			},
			"operations": map[string]any{
				"terms": map[string]any{
					"field": "operation",
					"size":  10,
				},
			},
		},
		"size": 0, // We only want aggregations
	}

	queryJSON, err := json.Marshal(aggQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal aggregation query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return nil, fmt.Errorf("aggregation search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch aggregation error: %s", res.String())
	}

	var result map[string]any
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation results: %w", err)
	}

	return result, nil
}

// LogSystem indexes a system log entry into the shared system index
func (l *Logger) LogSystem(timestamp time.Time, level, message, method string, fields map[string]any) error {
	if !l.client.IsEnabled() {
		return nil // Logging disabled
	}

	doc := map[string]any{
		"timestamp": timestamp,
		"level":     level,
		"message":   message,
	}
	if method != "" {
		doc["method"] = method
	}
	if len(fields) > 0 {
		doc["fields"] = fields
	}

	logJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal system log: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index: "checkout-system-logs",
		Body:  bytes.NewReader(logJSON),
	}

	res, err := req.Do(context.Background(), l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index system log: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch system log error: %s", res.String())
	}

	return nil
}

// SanitizeForLog removes sensitive information from data before logging
func SanitizeForLog(data string) string {
	sensitiveFields := []string{
		"cardNumber", "card_number", "cvv", "cvc", "cardHolderName", "card_holder_name",
		"apiKey", "api_key", "secretKey", "secret_key", "password", "token",
		"authorization", "x-api-key", "x-secret-key",
	}

	result := data
	for _, field := range sensitiveFields {
		patterns := []string{
			fmt.Sprintf(`"%s"\s*:\s*"[^"]*"`, field), // JSON format with double quotes
			fmt.Sprintf(`"%s"\s*:\s*'[^']*'`, field), // JSON format with single quotes
			fmt.Sprintf(`%s=\w+`, field),             // URL parameter format
		}

		for _, pattern := range patterns {
			re := regexp.MustCompile(pattern)
			result = re.ReplaceAllString(result, fmt.Sprintf(`"%s":"***REDACTED***"`, field))
		}
	}

	return result
}
