package ccv

import (
	"go-ccv-extractor/pkg/models"
)

// ExtractionResult is an alias to the shared models.ExtractionResult
// so callers inside and outside the package see the same type.
type ExtractionResult = models.ExtractionResult

// planes holds the smoothed image as three per-channel float64 planes in
// row-major order (index y*width+x). Channel values keep the native range
// returned by color.Color.RGBA(); bin edges are derived from the same data,
// so the pipeline is independent of the source channel depth.
type planes struct {
	width, height int
	channel       [3][]float64
}

func newPlanes(width, height int) *planes {
	p := &planes{width: width, height: height}
	for c := range p.channel {
		p.channel[c] = make([]float64, width*height)
	}
	return p
}

// binEdges holds the per-channel equal-frequency interval boundaries,
// n+1 monotonically non-decreasing values per channel.
type binEdges [3][]float64

// labelMap assigns every pixel a bin label in [0, bins^3). It is owned by a
// single extraction run and discarded afterwards.
type labelMap struct {
	width, height int
	bins          int
	labels        []int
}

func (lm *labelMap) at(x, y int) int {
	return lm.labels[y*lm.width+x]
}

// point is a pixel coordinate in the label map.
type point struct {
	x, y int
}

// labelTally accumulates the coherent/incoherent pixel totals for one label.
type labelTally struct {
	coherent   uint64
	incoherent uint64
	groups     int
}
