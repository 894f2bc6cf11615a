package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecompay/checkout/infra/config"
	"github.com/ecompay/checkout/infra/logger"
	"github.com/ecompay/checkout/infra/middle"
	"github.com/ecompay/checkout/infra/opensearch"
	"github.com/ecompay/checkout/infra/response"
	"github.com/ecompay/checkout/router"
	"github.com/ecompay/checkout/strategy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

var (
	PORT             string
	openSearchLogger *opensearch.Logger
	methodStorage    *config.SQLiteStorage
)

func init() {
	// Load Env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Load Env Warning: %v", err)
	}
	// init conf
	_ = config.App()

	PORT = config.GetEnv("APP_PORT", "9999")

	cfg := config.GetAppConfig()
	if cfg.EnableLogging {
		osClient, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("Failed to initialize OpenSearch client: %v", err)
			log.Println("Continuing without OpenSearch logging...")
		} else {
			openSearchLogger = opensearch.NewLogger(osClient)
			log.Println("OpenSearch logging initialized successfully")
		}
	} else {
		log.Println("OpenSearch logging is disabled")
	}

	logger.InitGlobalLogger(openSearchLogger, logger.SystemLoggerConfig{
		EnableConsole:    true,
		EnableOpenSearch: openSearchLogger != nil,
		MinLevel:         logger.LogLevel(cfg.LoggingLevel),
		Service:          "checkout-strategies",
		Version:          "1.0.0",
		Environment:      config.GetEnv("APP_ENV", "development"),
	})

	storage, err := config.NewSQLiteStorage(cfg.MethodDBPath)
	if err != nil {
		log.Printf("Failed to initialize method storage: %v", err)
	} else {
		methodStorage = storage
	}
}

func main() {
	// Chi Define Routes
	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middleware.Timeout(60 * time.Second))

	// OpenSearch Logging Middleware
	if openSearchLogger != nil {
		r.Use(middle.LifecycleLoggingMiddleware(openSearchLogger))
		log.Println("Lifecycle logging middleware enabled")
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "Content-Length", "Access-Control-Allow-Origin"},
		AllowCredentials: true,
		MaxAge:           300, // Preflight cache time (second)
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]any{
			"status":             "ok",
			"timestamp":          time.Now().UTC(),
			"version":            "1.0.0",
			"opensearch_enabled": openSearchLogger != nil,
		}
		response.WriteJSON(w, http.StatusOK, response.Response{
			Success: true,
			Message: "Service is healthy",
			Data:    health,
		})
	})

	// Stats endpoint for lifecycle statistics
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		if openSearchLogger == nil {
			response.Error(w, http.StatusServiceUnavailable, "Logging is disabled", nil)
			return
		}

		method := r.URL.Query().Get("method")
		if method == "" {
			response.Error(w, http.StatusBadRequest, "method parameter is required", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		stats, err := openSearchLogger.GetMethodStats(ctx, method, 24)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Failed to get stats", err)
			return
		}

		response.Success(w, http.StatusOK, "Stats retrieved", stats)
	})

	// Method configuration endpoints backed by SQLite
	if methodStorage != nil {
		r.Route("/methods/{methodID}/config", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				methodID := chi.URLParam(r, "methodID")
				cfg, err := methodStorage.LoadMethodConfig(methodID)
				if err != nil {
					response.Error(w, http.StatusNotFound, "Method config not found", err)
					return
				}
				response.Success(w, http.StatusOK, "Method config retrieved", cfg)
			})
			r.Put("/", func(w http.ResponseWriter, r *http.Request) {
				methodID := chi.URLParam(r, "methodID")
				var cfg map[string]string
				if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
					response.Error(w, http.StatusBadRequest, "Invalid request format", err)
					return
				}
				if err := methodStorage.SaveMethodConfig(methodID, cfg); err != nil {
					response.Error(w, http.StatusInternalServerError, "Failed to save method config", err)
					return
				}
				response.Success(w, http.StatusOK, "Method config saved", nil)
			})
			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				methodID := chi.URLParam(r, "methodID")
				if err := methodStorage.DeleteMethodConfig(methodID); err != nil {
					response.Error(w, http.StatusNotFound, "Method config not found", err)
					return
				}
				response.Success(w, http.StatusOK, "Method config deleted", nil)
			})
		})
	}

	// API routes
	router.Routes(r, lifecycleLoggerOrNil())

	// Not Found
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusNotFound, response.Response{Success: false, Message: "Not Found"})
	})

	// Create a context that listens for interrupt and terminate signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", PORT),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	log.Println("API is running on", PORT)

	// Block until a signal is received
	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	if methodStorage != nil {
		if err := methodStorage.Close(); err != nil {
			log.Printf("Failed to close method storage: %v", err)
		}
	}
}

// lifecycleLoggerOrNil avoids handing the service a typed nil logger
func lifecycleLoggerOrNil() strategy.LifecycleLogger {
	if openSearchLogger != nil {
		return openSearchLogger
	}
	return nil
}
