package globe

// idAllocator hands out increasing, never reused, non-zero ids. Each Scene
// owns one; there is no process-wide counter.
type idAllocator struct {
	last uint64
}

func (a *idAllocator) next() uint64 {
	a.last++
	return a.last
}
