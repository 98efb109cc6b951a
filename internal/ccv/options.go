package ccv

// GroupingMode selects how same-label pixels are partitioned into groups
type GroupingMode string

const (
	// GroupingLegacy is the single-pass, first-match strategy. It never
	// merges two earlier groups that a later pixel connects, which can
	// over-count groups in pathological layouts. Kept as the default for
	// output compatibility with the reference behavior.
	GroupingLegacy GroupingMode = "legacy"

	// GroupingUnionFind is true connected-component grouping via a
	// disjoint-set over the label's pixels. Near-linear and strictly
	// correct; may diverge from legacy output on layouts where a pixel
	// bridges two existing groups.
	GroupingUnionFind GroupingMode = "unionfind"
)

// ExtractOptions provides flexible configuration for CCV extraction
type ExtractOptions struct {
	// Discretization parameters
	BinsPerChannel  int
	SmoothingWindow int

	// Coherence threshold: tau = floor(width*height*CoherenceFraction)
	CoherenceFraction float64

	// Grouping strategy
	Grouping GroupingMode

	// Performance options
	UseWorkerPool bool
	MaxWorkers    int
}

// DefaultOptions returns default extraction options
func DefaultOptions() ExtractOptions {
	return ExtractOptions{
		BinsPerChannel:    2,
		SmoothingWindow:   3,
		CoherenceFraction: 0.01,
		Grouping:          GroupingLegacy,
		UseWorkerPool:     true,
		MaxWorkers:        0, // Use default CPU count
	}
}

// CompatOptions returns the reference configuration: legacy grouping,
// sequential per-label analysis, 3x3 smoothing, 2 bins per channel.
func CompatOptions() ExtractOptions {
	opts := DefaultOptions()
	opts.Grouping = GroupingLegacy
	opts.UseWorkerPool = false
	return opts
}

// FastOptions returns options tuned for throughput over compatibility
func FastOptions() ExtractOptions {
	opts := DefaultOptions()
	opts.Grouping = GroupingUnionFind
	opts.UseWorkerPool = true
	return opts
}

// WithBins sets the per-channel bin count
func (opts ExtractOptions) WithBins(bins int) ExtractOptions {
	opts.BinsPerChannel = bins
	return opts
}

// WithSmoothingWindow sets the box filter window size
func (opts ExtractOptions) WithSmoothingWindow(window int) ExtractOptions {
	opts.SmoothingWindow = window
	return opts
}

// WithCoherenceFraction sets the area threshold fraction
func (opts ExtractOptions) WithCoherenceFraction(fraction float64) ExtractOptions {
	opts.CoherenceFraction = fraction
	return opts
}

// WithGrouping selects the grouping strategy
func (opts ExtractOptions) WithGrouping(mode GroupingMode) ExtractOptions {
	opts.Grouping = mode
	return opts
}

// WithoutWorkerPool forces sequential per-label analysis
func (opts ExtractOptions) WithoutWorkerPool() ExtractOptions {
	opts.UseWorkerPool = false
	return opts
}

// VectorLength returns the CCV length for the configured bin count
func (opts ExtractOptions) VectorLength() int {
	n := opts.BinsPerChannel
	return 2 * n * n * n
}
