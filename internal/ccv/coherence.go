package ccv

import (
	"fmt"
	"sync"

	apperrors "go-ccv-extractor/internal/errors"
)

// coherenceAnalyzer implements CoherenceAnalyzer. Labels are independent of
// one another, so per-label analysis can fan out across the worker pool;
// every label writes only its own entry of the result map behind a mutex
// guarding the map structure itself.
type coherenceAnalyzer struct {
	grouper grouper
	pool    *WorkerPool
}

// NewCoherenceAnalyzer creates an analyzer with the given grouping strategy.
// A nil pool means sequential per-label analysis.
func NewCoherenceAnalyzer(mode GroupingMode, pool *WorkerPool) CoherenceAnalyzer {
	return &coherenceAnalyzer{
		grouper: newGrouper(mode),
		pool:    pool,
	}
}

// Analyze partitions every distinct label's pixels into groups and splits
// each label's pixel count into coherent (group size >= tau) and incoherent
// totals. The tallies for a label always sum to that label's pixel count.
func (ca *coherenceAnalyzer) Analyze(lm *labelMap, tau int) (map[int]labelTally, error) {
	byLabel := collectCoords(lm)

	tallies := make(map[int]labelTally, len(byLabel))
	if ca.pool == nil {
		for label, coords := range byLabel {
			tally, err := ca.analyzeLabel(coords, tau)
			if err != nil {
				return nil, err
			}
			tallies[label] = tally
		}
		return tallies, nil
	}

	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup
	for label, coords := range byLabel {
		label, coords := label, coords
		task := func() {
			defer wg.Done()
			tally, err := ca.analyzeLabel(coords, tau)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			tallies[label] = tally
		}
		wg.Add(1)
		// A closed pool rejects the job; run it inline so Wait cannot
		// block on work that was never queued.
		if !ca.pool.Submit(task) {
			task()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return tallies, nil
}

// analyzeLabel groups one label's coordinates and classifies each group
// against tau. A zero-sized group cannot occur given the labeling invariant;
// the guard keeps a grouping defect from corrupting the totals silently.
func (ca *coherenceAnalyzer) analyzeLabel(coords []point, tau int) (labelTally, error) {
	var tally labelTally
	for _, size := range ca.grouper.groupSizes(coords) {
		if size <= 0 {
			return labelTally{}, apperrors.NewInternalError(
				fmt.Sprintf("grouping produced a group of size %d", size), nil)
		}
		if size >= tau {
			tally.coherent += uint64(size)
		} else {
			tally.incoherent += uint64(size)
		}
		tally.groups++
	}

	if tally.coherent+tally.incoherent != uint64(len(coords)) {
		return labelTally{}, apperrors.NewInternalError(
			fmt.Sprintf("group sizes sum to %d, label has %d pixels",
				tally.coherent+tally.incoherent, len(coords)), nil)
	}
	return tally, nil
}

// collectCoords gathers pixel coordinates per distinct label, in row-major
// scan order so grouping is deterministic.
func collectCoords(lm *labelMap) map[int][]point {
	byLabel := make(map[int][]point)
	for y := 0; y < lm.height; y++ {
		for x := 0; x < lm.width; x++ {
			label := lm.at(x, y)
			byLabel[label] = append(byLabel[label], point{x, y})
		}
	}
	return byLabel
}
