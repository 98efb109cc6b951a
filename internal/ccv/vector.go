package ccv

// assembleVector writes the per-label tallies into a flat vector of length
// 2*bins^3: index 2*label holds the coherent count, 2*label+1 the incoherent
// count. Bins never observed in the image stay (0,0); empty bins are a
// normal consequence of intersecting independent per-channel intervals, not
// an error. Pure function, no side effects.
func assembleVector(tallies map[int]labelTally, bins int) []uint64 {
	vector := make([]uint64, 2*bins*bins*bins)
	for label, tally := range tallies {
		vector[2*label] = tally.coherent
		vector[2*label+1] = tally.incoherent
	}
	return vector
}

// vectorSum returns the total pixel count recorded in the vector
func vectorSum(vector []uint64) uint64 {
	var sum uint64
	for _, v := range vector {
		sum += v
	}
	return sum
}
