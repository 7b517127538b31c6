// Command manuals attaches reference manuals to conversations and serves
// retrieval over the CLI, HTTP and MCP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/extract"
	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-manuals/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/services"
	"github.com/custodia-labs/sercha-manuals/internal/logger"
	"github.com/custodia-labs/sercha-manuals/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

// Environment variables read at startup.
const (
	envHome         = "MANUALS_HOME"
	envEmbeddingKey = "MANUALS_EMBEDDING_API_KEY"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	defer logger.L().Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configDir, dataDir := dirs()

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if key := os.Getenv(envEmbeddingKey); key != "" {
		settings.Embedding.APIKey = key
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	embedder, err := ai.NewEmbeddingPipeline(*settings)
	if err != nil {
		return fmt.Errorf("building embedding pipeline: %w", err)
	}
	if embedder == nil {
		logger.Debug("embedding provider not configured; ingestion and retrieval are disabled")
	} else {
		defer embedder.Close()
	}

	go watchConfig(ctx, configStore, settingsService, settings.Embedding)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Manuals: services.NewManualService(
			store.ManualStore(),
			postprocessors.NewSplitter(settings.Chunker),
			embedder,
			settings.Ingest,
		),
		Retrieval: services.NewRetrievalService(store.VectorStore(), embedder, settings.Retrieval),
		Owners:    services.NewOwnerResolver(store.Directory()),
		Settings:  settingsService,
		Extractor: extract.Default(),
		Registry:  store.Directory(),
	})

	return cli.Execute(ctx)
}

// dirs returns the config and data directories.
// Empty values select the store defaults under the home directory.
func dirs() (configDir, dataDir string) {
	home := os.Getenv(envHome)
	if home == "" {
		return "", ""
	}
	return home, filepath.Join(home, "data")
}

// watchConfig reloads the config file on change. Services keep the settings
// they were built with; a changed embedding provider needs a restart.
func watchConfig(
	ctx context.Context,
	store *file.ConfigStore,
	settingsService *services.SettingsService,
	active domain.EmbeddingSettings,
) {
	err := store.Watch(ctx, func() {
		current, err := settingsService.Get()
		if err != nil {
			logger.Warnw("reading reloaded settings", "error", err)
			return
		}
		if current.Embedding.Provider != active.Provider || current.Embedding.Model != active.Model {
			logger.Warnw("embedding settings changed; restart to apply",
				"provider", current.Embedding.Provider,
				"model", current.Embedding.Model,
			)
			return
		}
		logger.Infow("configuration reloaded", "path", store.Path())
	})
	if err != nil {
		logger.Warnw("config watch stopped", "error", err)
	}
}
