package ccv

import (
	"github.com/theodesp/unionfind"
)

// grouper partitions one label's pixel coordinates into spatial groups and
// returns the group sizes. Both strategies use the same adjacency relation;
// they may disagree only on layouts where a pixel bridges two groups that
// formed separately.
type grouper interface {
	groupSizes(coords []point) []int
	name() GroupingMode
}

// adjacent reports whether two pixels are neighbors: Chebyshev distance at
// most 1, excluding pure diagonals. This is the 4-neighbor relation plus
// identity. Diagonal-only neighbors are deliberately not adjacent; the
// downstream classifier behavior was tuned against this exact definition,
// so it must not be "fixed" to 8-connectivity.
func adjacent(a, b point) bool {
	dx := a.x - b.x
	if dx < 0 {
		dx = -dx
	}
	dy := a.y - b.y
	if dy < 0 {
		dy = -dy
	}
	if dx > 1 || dy > 1 {
		return false
	}
	return !(dx == 1 && dy == 1)
}

// legacyGrouper reproduces the reference single-pass grouping. Each pixel
// joins the first existing group containing any adjacent coordinate, or
// starts a new one. Two groups later connected through a bridging pixel are
// never merged, which can over-count groups on pathological layouts. Worst
// case is quadratic in the label's pixel count.
type legacyGrouper struct{}

func (legacyGrouper) name() GroupingMode { return GroupingLegacy }

func (legacyGrouper) groupSizes(coords []point) []int {
	var groups [][]point
	for _, p := range coords {
		placed := false
		for gi := range groups {
			for _, q := range groups[gi] {
				if adjacent(p, q) {
					groups[gi] = append(groups[gi], p)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			groups = append(groups, []point{p})
		}
	}

	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g)
	}
	return sizes
}

// unionFindGrouper computes true connected components with a disjoint-set
// over the label's pixels, indexed by their position in the coords slice.
// Near-linear in the label's pixel count.
type unionFindGrouper struct{}

func (unionFindGrouper) name() GroupingMode { return GroupingUnionFind }

func (unionFindGrouper) groupSizes(coords []point) []int {
	index := make(map[point]int, len(coords))
	for i, p := range coords {
		index[p] = i
	}

	uf := unionfind.NewThreadSafeUnionFind(len(coords))
	// Right and down cover every axis-aligned pair once.
	for i, p := range coords {
		if j, ok := index[point{p.x + 1, p.y}]; ok {
			uf.Union(i, j)
		}
		if j, ok := index[point{p.x, p.y + 1}]; ok {
			uf.Union(i, j)
		}
	}

	counts := make(map[int]int, len(coords))
	for i := range coords {
		// A negative root means the pixel was never unioned: a singleton
		// group keyed by its own index.
		root := uf.Root(i)
		if root < 0 {
			root = i
		}
		counts[root]++
	}
	sizes := make([]int, 0, len(counts))
	for _, c := range counts {
		sizes = append(sizes, c)
	}
	return sizes
}

func newGrouper(mode GroupingMode) grouper {
	if mode == GroupingUnionFind {
		return unionFindGrouper{}
	}
	return legacyGrouper{}
}
