package treeseq

// DiffIterator walks a tree sequence tree by tree, reporting only the
// edges that change between one tree and the next rather than the full
// topology — the cheap way to apply an operation that only cares about
// incremental changes (see SPEC_FULL.md's statistics components).
type DiffIterator struct {
	store         *Store
	index         int // index of the tree last reported, -1 before the first call
	outIdx, inIdx int
}

// NewDiffIterator allocates a diff cursor over store.
func NewDiffIterator(store *Store) *DiffIterator {
	store.acquire()
	return &DiffIterator{store: store, index: -1}
}

// Close releases the iterator's hold on its store.
func (d *DiffIterator) Close() error {
	if d.store == nil {
		return nil
	}
	d.store.release()
	d.store = nil
	return nil
}

// Next reports the edges removed and inserted in moving to the next
// tree, along with that tree's length. ok is false once the sequence is
// exhausted.
func (d *DiffIterator) Next() (length float64, edgesOut, edgesIn []Record, ok bool) {
	s := d.store
	numTrees := s.NumTrees()
	if d.index+1 >= numTrees {
		return 0, nil, nil, false
	}
	d.index++

	left := s.breakpoints[d.index]
	right := s.breakpoints[d.index+1]
	R := len(s.recordParent)

	if d.index > 0 {
		for d.outIdx < R && s.breakpoints[s.recordRightBP[s.removalOrder[d.outIdx]]] == left {
			edgesOut = append(edgesOut, d.materialize(s.removalOrder[d.outIdx]))
			d.outIdx++
		}
	}
	for d.inIdx < R && s.breakpoints[s.recordLeftBP[s.insertionOrder[d.inIdx]]] == left {
		edgesIn = append(edgesIn, d.materialize(s.insertionOrder[d.inIdx]))
		d.inIdx++
	}
	return right - left, edgesOut, edgesIn, true
}

func (d *DiffIterator) materialize(recordIndex int32) Record {
	s := d.store
	start, end := s.childrenStart[recordIndex], s.childrenStart[recordIndex+1]
	children := make([]NodeID, end-start)
	copy(children, s.childArena[start:end])
	parent := s.recordParent[recordIndex]
	return Record{
		Left:       s.breakpoints[s.recordLeftBP[recordIndex]],
		Right:      s.breakpoints[s.recordRightBP[recordIndex]],
		Parent:     parent,
		Children:   children,
		Time:       s.nodeTime[parent],
		Population: s.nodePopulation[parent],
	}
}
