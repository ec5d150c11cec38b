package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apiqa/testforge/internal/api"
	"github.com/apiqa/testforge/internal/config"
	"github.com/apiqa/testforge/internal/generator"
	"github.com/apiqa/testforge/internal/stats"
	"github.com/apiqa/testforge/internal/storage"
	"github.com/apiqa/testforge/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TestForge server",
	Long: `Starts the TestForge test case generation server.

The server will:
  - Accept OpenAPI 3 specs at POST /api/v1/generate-tests
  - Archive generated suites for later retrieval
  - Expose generation traces and statistics under /api/v1/
  - Serve the frontend at /

Configuration is loaded from config.yaml in the current directory,
or specify a custom config file with the --config flag. The provider
credential can also be supplied via the GEMINI_API_KEY environment
variable.`,
	RunE: runServe,
}

var (
	portFlag int
	uiDir    string
)

func init() {
	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 0, "Override server port")
	serveCmd.Flags().StringVar(&uiDir, "ui", "./frontend", "Directory to serve the frontend from")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := configFromViper()

	if portFlag > 0 {
		cfg.Server.Port = portFlag
	}

	// Resolve relative storage path to absolute
	if cfg.Storage.Path != "" && !filepath.IsAbs(cfg.Storage.Path) {
		cwd, err := os.Getwd()
		if err == nil {
			cfg.Storage.Path = filepath.Join(cwd, cfg.Storage.Path)
		}
	}

	// Initialize storage
	var store storage.Storage
	var err error
	if cfg.Storage.Type == "file" {
		log.Printf("Using data directory: %s", cfg.Storage.Path)
		store, err = storage.NewFileStorage(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize file storage: %w", err)
		}
	} else {
		store = storage.NewMemoryStorage()
	}
	defer store.Close()

	// Initialize statistics collector
	statsCollector := stats.NewCollector()

	// Initialize tracing service
	tracingService := tracing.NewService(cfg.Tracing.MaxTraces)

	// Initialize generation client
	client := generator.NewClient(generator.Config{
		APIKey:          cfg.Generator.APIKey,
		URL:             cfg.Generator.URL,
		Temperature:     cfg.Generator.Temperature,
		MaxOutputTokens: cfg.Generator.MaxOutputTokens,
		Timeout:         cfg.Generator.Timeout,
		TestTimeout:     cfg.Generator.TestTimeout,
	})
	if !client.Configured() {
		log.Println("Warning: no provider credential configured, all suites will use the mock fallback")
	}

	// Setup router
	router := api.NewRouter(client, store, statsCollector, tracingService)
	router.ServeUIFromFS(uiDir)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // Generation requests can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting TestForge server on %s", addr)
		log.Printf("API available at http://%s/api/v1/", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// configFromViper assembles the effective configuration from viper state. The
// provider credential falls back to GEMINI_API_KEY for parity with common
// provider tooling.
func configFromViper() *config.Config {
	cfg := config.Default()

	cfg.Server.Port = viper.GetInt("server.port")
	cfg.Server.Host = viper.GetString("server.host")

	cfg.Generator.APIKey = viper.GetString("generator.apiKey")
	if cfg.Generator.APIKey == "" {
		cfg.Generator.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.Generator.URL = viper.GetString("generator.url")
	cfg.Generator.Temperature = viper.GetFloat64("generator.temperature")
	cfg.Generator.MaxOutputTokens = viper.GetInt("generator.maxOutputTokens")
	cfg.Generator.Timeout = viper.GetDuration("generator.timeout")
	cfg.Generator.TestTimeout = viper.GetDuration("generator.testTimeout")

	cfg.Storage.Type = viper.GetString("storage.type")
	cfg.Storage.Path = viper.GetString("storage.path")

	cfg.Tracing.MaxTraces = viper.GetInt("tracing.maxTraces")

	cfg.Logging.Level = viper.GetString("logging.level")
	cfg.Logging.Format = viper.GetString("logging.format")

	return cfg
}
