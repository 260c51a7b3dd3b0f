package container

import (
	"fmt"
	"net/http"

	"phototriage/internal/analyzer"
	"phototriage/internal/config"
	"phototriage/internal/service"
	"phototriage/internal/storage"
	"phototriage/internal/store"
	"phototriage/internal/transport"
	"phototriage/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config        *config.Config
	batchAnalyzer *service.BatchAnalyzer
	resultStore   *store.Store
	handler       http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	imageAnalyzer := analyzer.NewImageAnalyzer(cfg.AnalysisMaxDimension)
	classifier := validation.NewFlagClassifier()
	batchAnalyzer := service.NewBatchAnalyzer(imageAnalyzer, classifier, cfg.Workers)

	fetchers := transport.Fetchers{
		HTTP: storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout),
	}
	if cfg.AzureAccountName != "" && cfg.AzureAccountKey != "" {
		blob, err := storage.NewBlobStorage(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to configure azure storage: %w", err)
		}
		fetchers.Blob = blob
	}

	var resultStore *store.Store
	if cfg.DBPath != "" {
		resultStore, err = store.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open result store: %w", err)
		}
	}

	handler := transport.NewHandler(batchAnalyzer, fetchers, resultStore, cfg)

	return &Container{
		config:        cfg,
		batchAnalyzer: batchAnalyzer,
		resultStore:   resultStore,
		handler:       handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases the worker pool and the result store.
func (c *Container) Close() error {
	c.batchAnalyzer.Close()
	if c.resultStore != nil {
		return c.resultStore.Close()
	}
	return nil
}
