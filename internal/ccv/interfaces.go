package ccv

import "image"

// Extractor defines the main interface for color coherence vector extraction
type Extractor interface {
	// Extract runs the pipeline with default options
	Extract(img image.Image) (*ExtractionResult, error)

	// ExtractWithOptions runs the pipeline with explicit configuration
	ExtractWithOptions(img image.Image, options ExtractOptions) (*ExtractionResult, error)

	// Lifecycle management
	Close() error
}

// Smoother suppresses single-pixel noise before discretization
type Smoother interface {
	Smooth(img image.Image, window int) (*planes, error)
}

// Quantizer maps smoothed pixels onto bins^3 discrete color bins
type Quantizer interface {
	Quantize(p *planes, bins int) (*labelMap, binEdges, error)
}

// CoherenceAnalyzer partitions each label's pixels into spatial groups and
// classifies every group against the area threshold tau
type CoherenceAnalyzer interface {
	Analyze(lm *labelMap, tau int) (map[int]labelTally, error)
}
