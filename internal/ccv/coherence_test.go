package ccv

import (
	"testing"
)

// labelMapFromGrid builds a label map from row-major label values
func labelMapFromGrid(width, height int, labels []int) *labelMap {
	return &labelMap{width: width, height: height, bins: 2, labels: labels}
}

func TestAnalyze_PerLabelConservation(t *testing.T) {
	// Two labels in a checkerboard-ish layout
	lm := labelMapFromGrid(4, 4, []int{
		0, 0, 1, 1,
		0, 0, 1, 1,
		1, 1, 0, 0,
		1, 1, 0, 0,
	})

	for _, mode := range []GroupingMode{GroupingLegacy, GroupingUnionFind} {
		t.Run(string(mode), func(t *testing.T) {
			analyzer := NewCoherenceAnalyzer(mode, nil)
			tallies, err := analyzer.Analyze(lm, 3)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if len(tallies) != 2 {
				t.Fatalf("Expected 2 labels, got %d", len(tallies))
			}
			for label, tally := range tallies {
				if tally.coherent+tally.incoherent != 8 {
					t.Errorf("Label %d tallies sum to %d, want 8", label, tally.coherent+tally.incoherent)
				}
			}
		})
	}
}

func TestAnalyze_TauBoundary(t *testing.T) {
	// A single connected run of pixels with label 1 on a label-0 field.
	// Size tau-1 must be incoherent, size tau coherent.
	const tau = 4

	buildRun := func(runLen int) *labelMap {
		labels := make([]int, 8*8)
		for i := 0; i < runLen; i++ {
			labels[3*8+2+i] = 1
		}
		return labelMapFromGrid(8, 8, labels)
	}

	t.Run("size tau-1 is incoherent", func(t *testing.T) {
		analyzer := NewCoherenceAnalyzer(GroupingLegacy, nil)
		tallies, err := analyzer.Analyze(buildRun(tau-1), tau)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if tallies[1].incoherent != tau-1 || tallies[1].coherent != 0 {
			t.Errorf("Got coherent=%d incoherent=%d, want 0 and %d",
				tallies[1].coherent, tallies[1].incoherent, tau-1)
		}
	})

	t.Run("size tau is coherent", func(t *testing.T) {
		analyzer := NewCoherenceAnalyzer(GroupingLegacy, nil)
		tallies, err := analyzer.Analyze(buildRun(tau), tau)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if tallies[1].coherent != tau || tallies[1].incoherent != 0 {
			t.Errorf("Got coherent=%d incoherent=%d, want %d and 0",
				tallies[1].coherent, tallies[1].incoherent, tau)
		}
	})
}

func TestAnalyze_ZeroTauMakesEverythingCoherent(t *testing.T) {
	lm := labelMapFromGrid(2, 2, []int{0, 1, 2, 3})

	analyzer := NewCoherenceAnalyzer(GroupingLegacy, nil)
	tallies, err := analyzer.Analyze(lm, 0)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	for label, tally := range tallies {
		if tally.incoherent != 0 || tally.coherent != 1 {
			t.Errorf("Label %d: coherent=%d incoherent=%d, want 1 and 0",
				label, tally.coherent, tally.incoherent)
		}
	}
}

func TestAnalyze_DiagonalPixelsStaySeparate(t *testing.T) {
	// Label 1 occupies (1,1) and (2,2): same bin, diagonal contact only.
	lm := labelMapFromGrid(4, 4, []int{
		0, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 0,
	})

	for _, mode := range []GroupingMode{GroupingLegacy, GroupingUnionFind} {
		t.Run(string(mode), func(t *testing.T) {
			analyzer := NewCoherenceAnalyzer(mode, nil)
			tallies, err := analyzer.Analyze(lm, 2)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			// Two singleton groups, both below tau=2
			if tallies[1].groups != 2 {
				t.Errorf("Got %d groups for the diagonal pair, want 2", tallies[1].groups)
			}
			if tallies[1].incoherent != 2 || tallies[1].coherent != 0 {
				t.Errorf("Got coherent=%d incoherent=%d, want 0 and 2",
					tallies[1].coherent, tallies[1].incoherent)
			}
		})
	}
}

func TestAnalyze_WithWorkerPool(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	// Many labels so the pool actually fans out
	width, height := 16, 16
	labels := make([]int, width*height)
	for i := range labels {
		labels[i] = i % 8
	}
	lm := labelMapFromGrid(width, height, labels)

	sequential := NewCoherenceAnalyzer(GroupingLegacy, nil)
	parallel := NewCoherenceAnalyzer(GroupingLegacy, pool)

	want, err := sequential.Analyze(lm, 3)
	if err != nil {
		t.Fatalf("Sequential analyze failed: %v", err)
	}
	got, err := parallel.Analyze(lm, 3)
	if err != nil {
		t.Fatalf("Parallel analyze failed: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("Parallel produced %d labels, sequential %d", len(got), len(want))
	}
	for label, tally := range want {
		if got[label] != tally {
			t.Errorf("Label %d: parallel %+v, sequential %+v", label, got[label], tally)
		}
	}
}

func TestAnalyze_WithClosedPoolFallsBackInline(t *testing.T) {
	// A pool that was already shut down rejects submissions; analysis must
	// still complete with the same result instead of blocking forever.
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Close()

	lm := labelMapFromGrid(4, 4, []int{
		0, 0, 1, 1,
		0, 0, 1, 1,
		2, 2, 3, 3,
		2, 2, 3, 3,
	})

	want, err := NewCoherenceAnalyzer(GroupingLegacy, nil).Analyze(lm, 3)
	if err != nil {
		t.Fatalf("Sequential analyze failed: %v", err)
	}
	got, err := NewCoherenceAnalyzer(GroupingLegacy, pool).Analyze(lm, 3)
	if err != nil {
		t.Fatalf("Analyze with closed pool failed: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("Closed-pool analyze produced %d labels, sequential %d", len(got), len(want))
	}
	for label, tally := range want {
		if got[label] != tally {
			t.Errorf("Label %d: closed-pool %+v, sequential %+v", label, got[label], tally)
		}
	}
}

func TestAssembleVector(t *testing.T) {
	tallies := map[int]labelTally{
		0: {coherent: 10, incoherent: 2},
		7: {coherent: 0, incoherent: 4},
	}

	vector := assembleVector(tallies, 2)
	if len(vector) != 16 {
		t.Fatalf("Expected vector length 16, got %d", len(vector))
	}
	if vector[0] != 10 || vector[1] != 2 {
		t.Errorf("Bin 0 entries are (%d,%d), want (10,2)", vector[0], vector[1])
	}
	if vector[14] != 0 || vector[15] != 4 {
		t.Errorf("Bin 7 entries are (%d,%d), want (0,4)", vector[14], vector[15])
	}
	// Unobserved bins stay zeroed
	for bin := 1; bin < 7; bin++ {
		if vector[2*bin] != 0 || vector[2*bin+1] != 0 {
			t.Errorf("Unobserved bin %d has entries (%d,%d)", bin, vector[2*bin], vector[2*bin+1])
		}
	}
	if vectorSum(vector) != 16 {
		t.Errorf("Vector sums to %d, want 16", vectorSum(vector))
	}
}
