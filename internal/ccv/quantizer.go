package ccv

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	apperrors "go-ccv-extractor/internal/errors"
)

// frequencyQuantizer implements Quantizer with independent per-channel
// equal-frequency binning. Edges are recomputed for every image from its own
// smoothed pixel distribution, so bin boundaries are image-dependent.
type frequencyQuantizer struct{}

// NewQuantizer creates the equal-frequency quantizer
func NewQuantizer() Quantizer {
	return &frequencyQuantizer{}
}

// Quantize computes bins+1 edges per channel and assigns every pixel the
// label i + j*bins + k*bins^2 from its per-channel interval indices.
// Interval 0 is closed on both ends; intervals 1..bins-1 are (lo, hi].
func (fq *frequencyQuantizer) Quantize(p *planes, bins int) (*labelMap, binEdges, error) {
	var edges binEdges
	for c := 0; c < 3; c++ {
		edges[c] = channelEdges(p.channel[c], bins)
	}

	total := p.width * p.height
	lm := &labelMap{
		width:  p.width,
		height: p.height,
		bins:   bins,
		labels: make([]int, total),
	}

	assigned := 0
	for idx := 0; idx < total; idx++ {
		i := findInterval(edges[0], p.channel[0][idx])
		j := findInterval(edges[1], p.channel[1][idx])
		k := findInterval(edges[2], p.channel[2][idx])
		if i < 0 || j < 0 || k < 0 {
			x, y := idx%p.width, idx/p.width
			return nil, edges, apperrors.NewQuantizationError(
				fmt.Sprintf("pixel (%d,%d) falls outside all bin intervals", x, y), nil)
		}
		lm.labels[idx] = i + j*bins + k*bins*bins
		assigned++
	}

	// Every pixel must receive exactly one label.
	if assigned != total {
		return nil, edges, apperrors.NewQuantizationError(
			fmt.Sprintf("labeled %d of %d pixels", assigned, total), nil)
	}

	return lm, edges, nil
}

// channelEdges returns bins+1 equal-frequency boundaries for one channel.
// The outer edges are the channel's min and max; interior edges are the
// empirical quantiles at i/bins.
func channelEdges(values []float64, bins int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, bins+1)
	edges[0] = sorted[0]
	edges[bins] = sorted[len(sorted)-1]
	for i := 1; i < bins; i++ {
		edges[i] = stat.Quantile(float64(i)/float64(bins), stat.Empirical, sorted, nil)
	}
	return edges
}

// findInterval returns the interval index for v, or -1 when v lies outside
// [edges[0], edges[last]]. Intervals follow the edges' own monotonic
// sequence: the first one is closed on both ends, the rest are (lo, hi].
func findInterval(edges []float64, v float64) int {
	last := len(edges) - 1
	if v < edges[0] || v > edges[last] {
		return -1
	}
	for i := 1; i <= last; i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return -1
}
