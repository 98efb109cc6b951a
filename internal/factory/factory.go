package factory

import (
	"fmt"

	"go-ccv-extractor/internal/config"
	"go-ccv-extractor/internal/storage"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateFetcher(storageType StorageType, cfg *config.Config) (storage.ImageFetcher, error)
}

// storageFactory implements StorageFactory
type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateFetcher creates an image fetcher for the configured backend
func (f *storageFactory) CreateFetcher(storageType StorageType, cfg *config.Config) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(), nil
	case AzureStorage:
		return storage.NewAzureFetcher(cfg.AzureAccountName, cfg.AzureAccountKey)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
