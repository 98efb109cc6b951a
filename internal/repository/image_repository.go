package repository

import (
	"context"
	"image"

	"go-ccv-extractor/internal/storage"
	"go-ccv-extractor/pkg/validation"
)

// fetcherRepository implements ImageRepository on top of a storage fetcher
type fetcherRepository struct {
	fetcher   storage.ImageFetcher
	validator *validation.URLValidator
}

// NewImageRepository creates an image repository backed by the given fetcher
func NewImageRepository(fetcher storage.ImageFetcher) ImageRepository {
	return &fetcherRepository{
		fetcher:   fetcher,
		validator: validation.NewURLValidator(),
	}
}

// FetchImage retrieves an image from a URL
func (r *fetcherRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	return r.fetcher.FetchImage(ctx, imageURL)
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *fetcherRepository) ValidateImageURL(imageURL string) error {
	if imageURL == "" {
		return ErrInvalidImageURL
	}
	return r.validator.ValidateImageURL(imageURL)
}
