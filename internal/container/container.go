package container

import (
	"fmt"
	"net/http"

	"go-ccv-extractor/internal/ccv"
	"go-ccv-extractor/internal/config"
	"go-ccv-extractor/internal/factory"
	"go-ccv-extractor/internal/repository"
	"go-ccv-extractor/internal/service"
	"go-ccv-extractor/internal/storage"
	"go-ccv-extractor/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config            *config.Config
	imageFetcher      storage.ImageFetcher
	extractor         ccv.Extractor
	imageRepository   repository.ImageRepository
	extractionService service.ExtractionService
	handler           http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Build dependency graph
	storageFactory := factory.NewStorageFactory()
	imageFetcher, err := storageFactory.CreateFetcher(factory.StorageType(cfg.StorageBackend), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create image fetcher: %w", err)
	}

	extractor, err := ccv.NewExtractor()
	if err != nil {
		return nil, err
	}

	imageRepository := repository.NewImageRepository(imageFetcher)
	extractionService := service.NewExtractionService(imageRepository, extractor, cfg.ExtractOptions())
	handler := transport.NewHandler(extractionService, cfg)

	return &Container{
		config:            cfg,
		imageFetcher:      imageFetcher,
		extractor:         extractor,
		imageRepository:   imageRepository,
		extractionService: extractionService,
		handler:           handler,
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

// Close releases the extractor's resources
func (c *Container) Close() error {
	return c.extractor.Close()
}
