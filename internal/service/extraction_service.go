package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"go-ccv-extractor/internal/ccv"
	apperrors "go-ccv-extractor/internal/errors"
	"go-ccv-extractor/internal/logger"
	"go-ccv-extractor/internal/repository"
	"go-ccv-extractor/pkg/models"
	"go-ccv-extractor/pkg/validation"
)

// ExtractionService defines the interface for URL-based CCV extraction
type ExtractionService interface {
	ExtractFromURL(ctx context.Context, imageURL string) (*models.ExtractionResponse, error)
	ExtractFromURLWithOptions(ctx context.Context, imageURL string, options ccv.ExtractOptions) (*models.ExtractionResponse, error)
	ValidateImageURL(imageURL string) error
}

// extractionService implements ExtractionService
type extractionService struct {
	imageRepo      repository.ImageRepository
	extractor      ccv.Extractor
	paramValidator *validation.ParamValidator
	defaults       ccv.ExtractOptions
}

// NewExtractionService creates a new extraction service
func NewExtractionService(
	imageRepository repository.ImageRepository,
	extractor ccv.Extractor,
	defaults ccv.ExtractOptions,
) ExtractionService {
	return &extractionService{
		imageRepo:      imageRepository,
		extractor:      extractor,
		paramValidator: validation.NewParamValidator(),
		defaults:       defaults,
	}
}

// ExtractFromURL runs extraction with the service's default options
func (s *extractionService) ExtractFromURL(ctx context.Context, imageURL string) (*models.ExtractionResponse, error) {
	return s.ExtractFromURLWithOptions(ctx, imageURL, s.defaults)
}

// ExtractFromURLWithOptions fetches the image and runs the CCV pipeline.
// A failure for one image never affects later requests: each run owns its
// own label map and intermediate state.
func (s *extractionService) ExtractFromURLWithOptions(ctx context.Context, imageURL string, options ccv.ExtractOptions) (*models.ExtractionResponse, error) {
	if err := s.ValidateImageURL(imageURL); err != nil {
		return nil, apperrors.NewValidationError("invalid image URL", err)
	}

	img, err := s.imageRepo.FetchImage(ctx, imageURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("image fetch timeout", err)
		}
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}

	bounds := img.Bounds()
	issues := s.paramValidator.ValidateParams(validation.ExtractionParams{
		BinsPerChannel:    options.BinsPerChannel,
		SmoothingWindow:   options.SmoothingWindow,
		CoherenceFraction: options.CoherenceFraction,
		Width:             bounds.Dx(),
		Height:            bounds.Dy(),
	})
	if len(issues) > 0 {
		return nil, apperrors.NewValidationError(issues[0].Message, nil)
	}

	result, err := s.extractor.ExtractWithOptions(img, options)
	if err != nil {
		// Surface the offending image's identity with the violated invariant
		logger.WithError(err).WithFields(logrus.Fields{
			"url":    imageURL,
			"bins":   options.BinsPerChannel,
			"width":  bounds.Dx(),
			"height": bounds.Dy(),
		}).Error("CCV extraction failed")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"url":               imageURL,
		"bins":              result.BinsPerChannel,
		"vector_length":     len(result.Vector),
		"tau":               result.Tau,
		"coherent_pixels":   result.CoherentPixels,
		"incoherent_pixels": result.IncoherentPixels,
		"groups":            result.GroupCount,
		"processing_sec":    result.ProcessingTimeSec,
	}).Info("CCV extraction completed")

	return &models.ExtractionResponse{
		ImageURL: imageURL,
		Result:   result,
	}, nil
}

// ValidateImageURL validates the image URL
func (s *extractionService) ValidateImageURL(imageURL string) error {
	return s.imageRepo.ValidateImageURL(imageURL)
}
