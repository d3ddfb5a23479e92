package scanio

// Region describes a requested half-open byte range [Offset, Offset+Length)
// of a file. Regions are immutable once enqueued. A zero Length is valid and
// denotes an empty request.
type Region struct {
	Offset uint64
	Length uint64
}

// End returns the exclusive end offset of the region.
func (r Region) End() uint64 { return r.Offset + r.Length }

// Empty reports whether the region requests zero bytes.
func (r Region) Empty() bool { return r.Length == 0 }

// pendingRead couples an enqueued region with the stream that will consume it.
type pendingRead struct {
	region Region
	stream *Stream
}

// mergeGroup is a maximal run of offset-ordered pending reads whose
// neighbour gaps all fit within the merge distance. span covers every member.
type mergeGroup struct {
	span    Region
	members []*pendingRead
}

// mergeRegions groups offset-ordered pending reads into merge groups.
//
// Two neighbours land in the same group when the gap between the end of the
// first and the start of the second is at most maxDistance. The gap test
// chains through directly adjacent members only; the accumulated group span
// never widens what a later neighbour may merge with. Overlapping neighbours
// have a non-positive gap and merge trivially.
func mergeRegions(pending []*pendingRead, maxDistance uint64) []mergeGroup {
	if len(pending) == 0 {
		return nil
	}

	groups := make([]mergeGroup, 0, len(pending))
	cur := mergeGroup{span: pending[0].region, members: pending[:1:1]}
	prevEnd := pending[0].region.End()

	for _, pr := range pending[1:] {
		start := pr.region.Offset
		if start < prevEnd || start-prevEnd <= maxDistance {
			cur.members = append(cur.members, pr)
			if end := pr.region.End(); end > cur.span.End() {
				cur.span.Length = end - cur.span.Offset
			}
		} else {
			groups = append(groups, cur)
			cur = mergeGroup{span: pr.region, members: []*pendingRead{pr}}
		}
		prevEnd = pr.region.End()
	}

	return append(groups, cur)
}

// splitRegions puts every pending read in its own group. Used when the
// coalesce policy suppresses merging.
func splitRegions(pending []*pendingRead) []mergeGroup {
	groups := make([]mergeGroup, len(pending))
	for i, pr := range pending {
		groups[i] = mergeGroup{span: pr.region, members: pending[i : i+1 : i+1]}
	}
	return groups
}
