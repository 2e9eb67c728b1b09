package mtbdd

// NodeCount walks diagram once to mark and count every internal and leaf
// node reached (sentinels excluded), then walks it again to clear the
// marks it set (spec §4.6.3). It uses the table's traversal mark bit,
// which is reserved for unsynchronized single-threaded walks and is
// orthogonal to the GC reachability bit — calling NodeCount concurrently
// with another traversal (NodeCount, FprintDot) on overlapping diagrams is
// not safe, matching spec §4.6.3's restriction.
func NodeCount(diagram MTBDD) int {
	n := markAndCount(diagram)
	unmarkTraversal(diagram)
	return n
}

func markAndCount(h MTBDD) int {
	if h == True || h == False {
		return 0
	}
	idx := h.StripMark().Index()
	if !engine().table.MarkTraversal(idx) {
		return 0
	}
	count := 1
	if !IsLeaf(h) {
		count += markAndCount(GetLow(h))
		count += markAndCount(GetHigh(h))
	}
	return count
}

func unmarkTraversal(h MTBDD) {
	if h == True || h == False {
		return
	}
	idx := h.StripMark().Index()
	if !engine().table.ClearTraversalMark(idx) {
		return
	}
	if !IsLeaf(h) {
		unmarkTraversal(GetLow(h))
		unmarkTraversal(GetHigh(h))
	}
}
