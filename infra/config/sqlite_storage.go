package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage handles persistent storage of payment method configurations
type SQLiteStorage struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// retryOperation executes a database operation with retry logic for SQLITE_BUSY errors
func (s *SQLiteStorage) retryOperation(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		if strings.Contains(err.Error(), "SQLITE_BUSY") || strings.Contains(err.Error(), "database is locked") {
			lastErr = err
			if attempt < maxRetries {
				// Exponential backoff: 10ms, 20ms, 40ms, 80ms
				backoff := time.Duration(10*(1<<attempt)) * time.Millisecond
				log.Printf("SQLite busy, retrying in %v (attempt %d/%d)", backoff, attempt+1, maxRetries+1)
				time.Sleep(backoff)
				continue
			}
		} else {
			return err
		}
	}

	return fmt.Errorf("operation failed after %d retries, last error: %w", maxRetries+1, lastErr)
}

// NewSQLiteStorage creates a new SQLite storage instance optimized for multiple processes
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_timeout=20000&_txlock=immediate", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	storage := &SQLiteStorage{
		db:   db,
		path: dbPath,
	}

	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := storage.optimizeForMultiProcess(); err != nil {
		log.Printf("Warning: Failed to apply optimizations: %v", err)
	}

	log.Printf("SQLite storage initialized at: %s (multi-process optimized)", dbPath)
	return storage, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStorage) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS method_configs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		method_id TEXT NOT NULL,
		config_data TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(method_id)
	);

	CREATE INDEX IF NOT EXISTS idx_method_id ON method_configs(method_id);

	-- Trigger to update updated_at column
	CREATE TRIGGER IF NOT EXISTS update_method_configs_updated_at
		AFTER UPDATE ON method_configs
	BEGIN
		UPDATE method_configs SET updated_at = CURRENT_TIMESTAMP WHERE id = NEW.id;
	END;
	`

	_, err := s.db.Exec(query)
	return err
}

// optimizeForMultiProcess applies SQLite optimizations for multi-process access
func (s *SQLiteStorage) optimizeForMultiProcess() error {
	optimizations := []string{
		"PRAGMA journal_mode = WAL;",    // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous = NORMAL;",  // Balance between safety and speed
		"PRAGMA cache_size = 1000;",     // Increase cache size
		"PRAGMA busy_timeout = 30000;",  // 30 second timeout for lock waits
		"PRAGMA temp_store = memory;",   // Store temp tables in memory
		"PRAGMA mmap_size = 268435456;", // 256MB memory mapping
		"PRAGMA optimize;",              // Optimize database
	}

	for _, pragma := range optimizations {
		if _, err := s.db.Exec(pragma); err != nil {
			log.Printf("Warning: Failed to execute %s: %v", pragma, err)
		}
	}

	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode)
	if err != nil {
		return fmt.Errorf("failed to check journal mode: %w", err)
	}

	log.Printf("SQLite journal mode: %s", journalMode)
	return nil
}

// SaveMethodConfig saves a payment method configuration to SQLite
func (s *SQLiteStorage) SaveMethodConfig(methodID string, config map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	configJSON, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return s.retryOperation(func() error {
		query := `
		INSERT INTO method_configs (method_id, config_data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(method_id)
		DO UPDATE SET
			config_data = excluded.config_data,
			updated_at = CURRENT_TIMESTAMP
		`

		_, err := s.db.Exec(query, methodID, string(configJSON))
		if err != nil {
			return fmt.Errorf("failed to save method config: %w", err)
		}

		log.Printf("Saved config for payment method %s", methodID)
		return nil
	}, 3) // Max 3 retries
}

// LoadMethodConfig loads a payment method configuration from SQLite
func (s *SQLiteStorage) LoadMethodConfig(methodID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config map[string]string
	err := s.retryOperation(func() error {
		query := `
		SELECT config_data
		FROM method_configs
		WHERE method_id = ?
		`

		var configJSON string
		err := s.db.QueryRow(query, methodID).Scan(&configJSON)
		if err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("no configuration found for payment method: %s", methodID)
			}
			return fmt.Errorf("failed to load method config: %w", err)
		}

		if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}

		return nil
	}, 3) // Max 3 retries

	return config, err
}

// LoadAllMethodConfigs loads all payment method configurations from SQLite
func (s *SQLiteStorage) LoadAllMethodConfigs() (map[string]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var configs map[string]map[string]string
	err := s.retryOperation(func() error {
		query := `
		SELECT method_id, config_data
		FROM method_configs
		ORDER BY method_id
		`

		rows, err := s.db.Query(query)
		if err != nil {
			return fmt.Errorf("failed to query method configs: %w", err)
		}
		defer rows.Close()

		configs = make(map[string]map[string]string)

		for rows.Next() {
			var methodID, configJSON string
			if err := rows.Scan(&methodID, &configJSON); err != nil {
				return fmt.Errorf("failed to scan row: %w", err)
			}

			var config map[string]string
			if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
				log.Printf("Warning: failed to unmarshal config for payment method %s: %v", methodID, err)
				continue
			}

			configs[methodID] = config
		}

		if err = rows.Err(); err != nil {
			return fmt.Errorf("error iterating rows: %w", err)
		}

		return nil
	}, 3) // Max 3 retries

	if err != nil {
		return nil, err
	}

	log.Printf("Loaded %d payment method configurations from SQLite", len(configs))
	return configs, nil
}

// DeleteMethodConfig deletes a payment method configuration from SQLite
func (s *SQLiteStorage) DeleteMethodConfig(methodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.retryOperation(func() error {
		query := `
		DELETE FROM method_configs
		WHERE method_id = ?
		`

		result, err := s.db.Exec(query, methodID)
		if err != nil {
			return fmt.Errorf("failed to delete method config: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			return fmt.Errorf("no configuration found for payment method: %s", methodID)
		}

		log.Printf("Deleted config for payment method %s", methodID)
		return nil
	}, 3) // Max 3 retries
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStats returns database statistics
func (s *SQLiteStorage) GetStats() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]any)

	var totalConfigs int
	err := s.db.QueryRow("SELECT COUNT(*) FROM method_configs").Scan(&totalConfigs)
	if err != nil {
		return nil, fmt.Errorf("failed to count total configs: %w", err)
	}
	stats["total_configs"] = totalConfigs

	if fileInfo, err := os.Stat(s.path); err == nil {
		stats["db_size_bytes"] = fileInfo.Size()
	}

	stats["db_path"] = s.path

	return stats, nil
}
