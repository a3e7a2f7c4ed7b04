package composition

// Iterator streams every vector of parts non-negative integers summing to
// total, in ascending lexicographic order. For parts=3 and total=2:
//
//	[0 0 2] [0 1 1] [0 2 0] [1 0 1] [1 1 0] [2 0 0]
//
// The number of vectors is C(total+parts-1, parts-1); see package
// solutionspace.
type Iterator struct {
	parts   int
	total   int
	counts  []int
	started bool
	done    bool
}

// NewIterator creates an iterator. parts must be positive and total
// non-negative; otherwise the iterator is empty.
func NewIterator(parts, total int) *Iterator {
	it := &Iterator{parts: parts, total: total}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the first vector.
func (it *Iterator) Reset() {
	it.started = false
	it.done = it.parts <= 0 || it.total < 0
	if !it.done {
		it.counts = make([]int, it.parts)
	}
}

// Next advances to the next vector. Returns false when all were produced.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		for i := range it.counts {
			it.counts[i] = 0
		}
		it.counts[it.parts-1] = it.total
		return true
	}

	// Increment the rightmost position that still has molecules to its
	// right, then move all of those but one into the last position.
	last := it.parts - 1
	suffix := 0
	for i := last - 1; i >= 0; i-- {
		suffix += it.counts[i+1]
		if suffix > 0 {
			it.counts[i]++
			for j := i + 1; j < last; j++ {
				it.counts[j] = 0
			}
			it.counts[last] = suffix - 1
			return true
		}
	}
	it.done = true
	return false
}

// Counts returns the current vector. The slice is overwritten by Next;
// callers that keep it must copy it.
func (it *Iterator) Counts() []int {
	return it.counts
}
