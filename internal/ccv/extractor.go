package ccv

import (
	"fmt"
	"image"
	"time"

	apperrors "go-ccv-extractor/internal/errors"
)

// coreExtractor implements Extractor and orchestrates all pipeline stages:
// smooth, quantize, coherence analysis, vector assembly. One extraction run
// owns its label map exclusively; nothing is shared across invocations, so
// concurrent runs with different options never interfere.
type coreExtractor struct {
	workerPool *WorkerPool
	smoother   Smoother
	quantizer  Quantizer
}

// NewExtractor creates an extractor with all pipeline components
func NewExtractor() (Extractor, error) {
	workerPool := NewWorkerPool(0) // Use default CPU count
	workerPool.Start()

	return &coreExtractor{
		workerPool: workerPool,
		smoother:   NewSmoother(),
		quantizer:  NewQuantizer(),
	}, nil
}

// Extract runs the pipeline with default options
func (ce *coreExtractor) Extract(img image.Image) (*ExtractionResult, error) {
	return ce.ExtractWithOptions(img, DefaultOptions())
}

// ExtractWithOptions runs the pipeline with explicit configuration
func (ce *coreExtractor) ExtractWithOptions(img image.Image, options ExtractOptions) (*ExtractionResult, error) {
	start := time.Now()

	if err := validateInput(img, options); err != nil {
		return nil, err
	}
	if options.Grouping == "" {
		options.Grouping = GroupingLegacy
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	bins := options.BinsPerChannel
	tau := int(float64(width*height) * options.CoherenceFraction)

	result := &ExtractionResult{
		BinsPerChannel: bins,
		Width:          width,
		Height:         height,
		Tau:            tau,
		Grouping:       string(options.Grouping),
		Timestamp:      start,
	}

	stageStart := time.Now()
	smoothed, err := ce.smoother.Smooth(img, options.SmoothingWindow)
	if err != nil {
		return nil, err
	}
	result.Timings.SmoothSec = time.Since(stageStart).Seconds()

	stageStart = time.Now()
	lm, _, err := ce.quantizer.Quantize(smoothed, bins)
	if err != nil {
		return nil, err
	}
	result.Timings.QuantizeSec = time.Since(stageStart).Seconds()

	var pool *WorkerPool
	if options.UseWorkerPool {
		pool = ce.workerPool
		if options.MaxWorkers > 0 {
			pool = NewWorkerPool(options.MaxWorkers)
			pool.Start()
			defer pool.Close()
		}
	}

	stageStart = time.Now()
	analyzer := NewCoherenceAnalyzer(options.Grouping, pool)
	tallies, err := analyzer.Analyze(lm, tau)
	if err != nil {
		return nil, err
	}
	result.Timings.AnalyzeSec = time.Since(stageStart).Seconds()

	result.Vector = assembleVector(tallies, bins)
	result.LabelCount = len(tallies)
	for _, tally := range tallies {
		result.CoherentPixels += tally.coherent
		result.IncoherentPixels += tally.incoherent
		result.GroupCount += tally.groups
	}

	// Partition invariant: the vector must account for every pixel exactly
	// once. A mismatch means a labeling or grouping defect and is fatal for
	// this image.
	if sum := vectorSum(result.Vector); sum != uint64(width*height) {
		return nil, apperrors.NewQuantizationError(
			fmt.Sprintf("vector sums to %d, image has %d pixels", sum, width*height), nil)
	}

	result.ProcessingTimeSec = time.Since(start).Seconds()
	return result, nil
}

// Close shuts down the extractor's worker pool
func (ce *coreExtractor) Close() error {
	ce.workerPool.Close()
	return nil
}

// validateInput rejects malformed input before any processing
func validateInput(img image.Image, options ExtractOptions) error {
	if img == nil {
		return apperrors.NewValidationError("image is nil", nil)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return apperrors.NewValidationError("image has zero area", nil)
	}
	if options.BinsPerChannel <= 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("bins per channel must be positive, got %d", options.BinsPerChannel), nil)
	}
	if options.SmoothingWindow <= 0 || options.SmoothingWindow%2 == 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("smoothing window must be odd and positive, got %d", options.SmoothingWindow), nil)
	}
	if options.CoherenceFraction < 0 || options.CoherenceFraction > 1 {
		return apperrors.NewValidationError(
			fmt.Sprintf("coherence fraction must be in [0,1], got %g", options.CoherenceFraction), nil)
	}
	switch options.Grouping {
	case GroupingLegacy, GroupingUnionFind, "":
	default:
		return apperrors.NewValidationError(
			fmt.Sprintf("unknown grouping mode %q", options.Grouping), nil)
	}
	return nil
}
