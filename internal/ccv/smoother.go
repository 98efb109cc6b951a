package ccv

import (
	"image"
	"runtime"
	"sync"
)

// boxSmoother implements Smoother with a window x window arithmetic-mean
// filter. Border pixels use edge replication: neighborhood coordinates are
// clamped to the image rectangle.
type boxSmoother struct{}

// NewSmoother creates the box filter smoother
func NewSmoother() Smoother {
	return &boxSmoother{}
}

// Smooth produces three per-channel float64 planes from the averaged image.
// The input image is read-only; window must be odd and positive.
func (bs *boxSmoother) Smooth(img image.Image, window int) (*planes, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	raw := readPlanes(img)
	if window == 1 {
		return raw, nil
	}

	out := newPlanes(width, height)
	radius := window / 2
	norm := 1.0 / float64(window*window)

	// Process the image in horizontal strips for better cache locality.
	// Strips write disjoint rows, so no synchronization beyond the wait.
	numWorkers := runtime.NumCPU()
	if height < numWorkers {
		numWorkers = height
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers // ceil division

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			for y := startY; y < endY; y++ {
				for x := 0; x < width; x++ {
					var sum [3]float64
					for dy := -radius; dy <= radius; dy++ {
						sy := clamp(y+dy, 0, height-1)
						for dx := -radius; dx <= radius; dx++ {
							sx := clamp(x+dx, 0, width-1)
							idx := sy*width + sx
							sum[0] += raw.channel[0][idx]
							sum[1] += raw.channel[1][idx]
							sum[2] += raw.channel[2][idx]
						}
					}
					idx := y*width + x
					out.channel[0][idx] = sum[0] * norm
					out.channel[1][idx] = sum[1] * norm
					out.channel[2][idx] = sum[2] * norm
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return out, nil
}

// readPlanes copies the image's channel data into float64 planes. Values are
// the 16-bit-range channel intensities from color.Color.RGBA().
func readPlanes(img image.Image) *planes {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	p := newPlanes(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*width + x
			p.channel[0][idx] = float64(r)
			p.channel[1][idx] = float64(g)
			p.channel[2][idx] = float64(b)
		}
	}
	return p
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
