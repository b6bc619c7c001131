package playback

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func signum(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func resize(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

func resizeInts(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}
	return buf[:n]
}

func resizeEntries(buf []*TrackEntry, n int) []*TrackEntry {
	if cap(buf) < n {
		return make([]*TrackEntry, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
