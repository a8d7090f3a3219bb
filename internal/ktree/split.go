package ktree

// split partitions an overflowing node in two with count-weighted 2-means.
// n keeps the first cluster and the returned sibling takes the second.
// Seeds are deterministic: the first entry and the entry farthest from it.
func (t *Tree) split(n *node) *node {
	entries := n.entries
	assign := t.twoMeans(entries)

	left := make([]entry, 0, min(t.order+1, maxInitialEntries))
	sibling := newNode(n.leaf, t.order)
	for i, side := range assign {
		if side == 0 {
			left = append(left, entries[i])
		} else {
			sibling.entries = append(sibling.entries, entries[i])
		}
	}
	n.entries = left
	return sibling
}

// twoMeans returns a 0/1 side per entry; both sides are always non-empty.
func (t *Tree) twoMeans(entries []entry) []uint8 {
	assign := make([]uint8, len(entries))
	far, farDist := 0, float32(-1)
	for i := range entries {
		if d := t.distance(entries[0].vector, entries[i].vector); d > farDist {
			far, farDist = i, d
		}
	}
	if far == 0 {
		// every entry coincides with the first one
		return halves(assign)
	}
	centers := [2][]float32{
		append([]float32(nil), entries[0].vector...),
		append([]float32(nil), entries[far].vector...),
	}
	for i := range assign {
		assign[i] = 2
	}
	for iter := 0; iter < t.splitIterations; iter++ {
		changed := false
		var sizes [2]int
		for i := range entries {
			side := uint8(0)
			if t.distance(entries[i].vector, centers[1]) < t.distance(entries[i].vector, centers[0]) {
				side = 1
			}
			if assign[i] != side {
				assign[i] = side
				changed = true
			}
			sizes[side]++
		}
		if sizes[0] == 0 || sizes[1] == 0 {
			return halves(assign)
		}
		if !changed {
			break
		}
		t.recenter(entries, assign, &centers)
	}
	return assign
}

func (t *Tree) recenter(entries []entry, assign []uint8, centers *[2][]float32) {
	var weights [2]float32
	for side := range centers {
		for d := range centers[side] {
			centers[side][d] = 0
		}
	}
	for i := range entries {
		side := assign[i]
		w := float32(entries[i].count)
		weights[side] += w
		for d, v := range entries[i].vector {
			centers[side][d] += v * w
		}
	}
	for side := range centers {
		if weights[side] == 0 {
			continue
		}
		scale := 1 / weights[side]
		for d := range centers[side] {
			centers[side][d] *= scale
		}
	}
}

func halves(assign []uint8) []uint8 {
	mid := len(assign) / 2
	for i := range assign {
		if i < mid {
			assign[i] = 0
		} else {
			assign[i] = 1
		}
	}
	return assign
}
