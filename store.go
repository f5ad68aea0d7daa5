package treeseq

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Store is the canonical, immutable-after-construction in-memory
// representation of a set of coalescence records and mutations: the tree
// sequence itself.
//
// A Store owns its columnar arrays. A [SparseTree] or [DiffIterator]
// derived from it holds only non-owning references (slices) into those
// arrays — the arrays must outlive every iterator derived from the
// Store, which is exactly what the reference count below interlocks.
type Store struct {
	numNodes       int32
	sampleSize     int32
	sequenceLength float64

	nodeTime       []float64
	nodePopulation []PopulationID

	breakpoints []float64 // strictly increasing, breakpoints[0]==0, breakpoints[len-1]==sequenceLength

	// Columnar record storage, one entry per coalescence record, in the
	// order the caller supplied them (the "input order").
	recordParent   []NodeID
	recordLeftBP   []int32 // index into breakpoints
	recordRightBP  []int32
	childrenStart  []int32 // len == len(recordParent)+1; record i's children are childArena[childrenStart[i]:childrenStart[i+1]]
	childArena     []NodeID
	insertionOrder []int32 // permutation of record indices, sorted by (leftBP, inputOrder) ascending
	removalOrder   []int32 // permutation of record indices, sorted by rightBP ascending, then inputOrder descending

	// Mutations, columnar, sorted ascending by position.
	mutPosition []float64
	mutNode     []NodeID
	// treeMutStart[i]..treeMutStart[i+1] slices mutPosition/mutNode for
	// the tree covering [breakpoints[i], breakpoints[i+1]).
	treeMutStart []int32

	// Migrations are read/write through only; the core does not
	// interpret them. Peripheral per spec.
	migrations []Migration

	provenance [][]byte

	refcount atomic.Int64
	mu       sync.Mutex // guards SetMutations against concurrent refcount changes

	spanIdx treeSpanIndex // lazily built genomic range index, see overlap.go
}

// Migration is a peripheral record, loaded and stored but not surfaced
// through the sparse-tree iterator API.
type Migration struct {
	Node         NodeID
	Source, Dest PopulationID
	Left, Right  float64
	Time         float64
}

// NumNodes returns N, the number of distinct node ids used in the store.
func (s *Store) NumNodes() int32 { return s.numNodes }

// SampleSize returns n, the number of sample (leaf) nodes.
func (s *Store) SampleSize() int32 { return s.sampleSize }

// SequenceLength returns L, the length of the genome modeled.
func (s *Store) SequenceLength() float64 { return s.sequenceLength }

// NumTrees returns the number of distinct trees (breakpoints - 1).
func (s *Store) NumTrees() int { return len(s.breakpoints) - 1 }

// NumRecords returns the number of coalescence records in the store.
func (s *Store) NumRecords() int { return len(s.recordParent) }

// Breakpoints returns the sorted, deduplicated breakpoint vector,
// augmented with the sequence length. Callers must not modify the
// returned slice.
func (s *Store) Breakpoints() []float64 { return s.breakpoints }

// NodeTime returns the time of node u.
func (s *Store) NodeTime(u NodeID) float64 { return s.nodeTime[u] }

// NodePopulation returns the population of node u.
func (s *Store) NodePopulation(u NodeID) PopulationID { return s.nodePopulation[u] }

// Provenance returns the ordered sequence of opaque provenance records
// attached to the store.
func (s *Store) Provenance() [][]byte { return s.provenance }

// AddProvenance appends an opaque provenance record. Provenance is pure
// bookkeeping and carries no topology, so it is exempt from the
// refcount interlock that guards [Store.SetMutations].
func (s *Store) AddProvenance(record []byte) {
	cp := make([]byte, len(record))
	copy(cp, record)
	s.provenance = append(s.provenance, cp)
}

func (s *Store) acquire() {
	s.mu.Lock()
	s.refcount.Add(1)
	s.mu.Unlock()
}
func (s *Store) release() { s.refcount.Add(-1) }

// Load validates a set of coalescence records and builds a Store. See
// package doc and spec §3/§4.1 for the precise invariants checked.
func Load(records []Record, samples []Sample) (*Store, error) {
	const op = "Load"
	if len(records) == 0 {
		return nil, newErr(op, CodeZeroRecords, "no records supplied")
	}

	s := &Store{}

	// Pass 1: bounds, total child count, breakpoint candidates.
	s.sampleSize = int32(records[0].Parent)
	var maxNode int32
	totalChildren := 0
	lefts := make([]float64, 0, len(records)+1)
	for j, r := range records {
		if r.Parent == NullNode {
			return nil, newErr(op, CodeNullNodeInRecord, "record %d: parent is NullNode", j)
		}
		for _, c := range r.Children {
			if c == NullNode {
				return nil, newErr(op, CodeNullNodeInRecord, "record %d: child is NullNode", j)
			}
			if int32(c) > maxNode {
				maxNode = int32(c)
			}
		}
		if int32(r.Parent) > maxNode {
			maxNode = int32(r.Parent)
		}
		if int32(r.Parent) < s.sampleSize {
			s.sampleSize = int32(r.Parent)
		}
		if r.Right > s.sequenceLength {
			s.sequenceLength = r.Right
		}
		totalChildren += len(r.Children)
		lefts = append(lefts, r.Left)
	}
	if s.sampleSize < 2 {
		return nil, newErr(op, CodeBadCoalescenceRecords, "sample size %d < 2", s.sampleSize)
	}
	if s.sequenceLength <= 0 {
		return nil, newErr(op, CodeBadCoalescenceRecords, "sequence length %g <= 0", s.sequenceLength)
	}
	s.numNodes = maxNode + 1

	// Breakpoints: sort-unique the lefts, augmented with L.
	lefts = append(lefts, s.sequenceLength)
	sort.Float64s(lefts)
	s.breakpoints = make([]float64, 0, len(lefts))
	for i, v := range lefts {
		if i == 0 || v != lefts[i-1] {
			s.breakpoints = append(s.breakpoints, v)
		}
	}
	if s.breakpoints[0] != 0 {
		return nil, newErr(op, CodeBadCoalescenceRecords, "minimum left coordinate is not 0")
	}

	// Node time/population tables, populated from records (internal
	// nodes) then overlaid with the caller-supplied samples (leaves).
	s.nodeTime = make([]float64, s.numNodes)
	s.nodePopulation = make([]PopulationID, s.numNodes)
	for i := range s.nodePopulation {
		s.nodePopulation[i] = NullPopulation
	}
	timeSet := make([]bool, s.numNodes)
	for j, r := range records {
		u := r.Parent
		if timeSet[u] {
			if s.nodeTime[u] != r.Time {
				return nil, newErr(op, CodeInconsistentNodeTimes, "node %d: record %d disagrees on time", u, j)
			}
		} else {
			s.nodeTime[u] = r.Time
			timeSet[u] = true
		}
		if s.nodePopulation[u] == NullPopulation {
			s.nodePopulation[u] = r.Population
		} else if s.nodePopulation[u] != r.Population {
			return nil, newErr(op, CodeInconsistentPopulationIDs, "node %d: record %d disagrees on population", u, j)
		}
	}
	if len(samples) != int(s.sampleSize) {
		return nil, newErr(op, CodeBadSamples, "got %d samples, want %d", len(samples), s.sampleSize)
	}
	for i, sm := range samples {
		if sm.Time < 0 {
			return nil, newErr(op, CodeBadSamples, "sample %d: negative time", i)
		}
		s.nodeTime[i] = sm.Time
		s.nodePopulation[i] = sm.Population
	}

	// Columnar record storage.
	R := len(records)
	s.recordParent = make([]NodeID, R)
	s.recordLeftBP = make([]int32, R)
	s.recordRightBP = make([]int32, R)
	s.childrenStart = make([]int32, R+1)
	s.childArena = make([]NodeID, 0, totalChildren)

	for j, r := range records {
		s.recordParent[j] = r.Parent
		s.recordLeftBP[j] = int32(bpIndex(s.breakpoints, r.Left))
		right := bpIndex(s.breakpoints, r.Right)
		if right < 0 || s.breakpoints[right] != r.Right {
			return nil, newErr(op, CodeBadCoalescenceRecords, "record %d: right %g is not a breakpoint", j, r.Right)
		}
		s.recordRightBP[j] = int32(right)
		s.childrenStart[j] = int32(len(s.childArena))
		s.childArena = append(s.childArena, r.Children...)
	}
	s.childrenStart[R] = int32(len(s.childArena))

	// Second pass: structural validation requiring the fully populated
	// node time table, in original input order, exactly as the source
	// validates (lines 389-445 of tree_sequence_check).
	sawLeftZero := false
	for j, r := range records {
		if len(r.Children) < 1 {
			return nil, newErr(op, CodeZeroChildren, "record %d: no children", j)
		}
		if j > 0 && s.nodeTime[r.Parent] < s.nodeTime[records[j-1].Parent] {
			return nil, newErr(op, CodeRecordsNotTimeSorted, "record %d: parent time decreases", j)
		}
		for k, c := range r.Children {
			if k < len(r.Children)-1 && c >= r.Children[k+1] {
				return nil, newErr(op, CodeUnsortedChildren, "record %d: children out of order", j)
			}
			if s.nodeTime[c] >= s.nodeTime[r.Parent] {
				return nil, newErr(op, CodeBadNodeTimeOrdering, "record %d: child %d time >= parent time", j, c)
			}
		}
		if r.Left >= r.Right {
			return nil, newErr(op, CodeBadRecordInterval, "record %d: left >= right", j)
		}
		if s.recordLeftBP[j] == 0 {
			sawLeftZero = true
		}
	}
	if !sawLeftZero {
		return nil, newErr(op, CodeBadCoalescenceRecords, "no record starts at the sequence origin")
	}

	// Insertion order: (leftBP, inputOrder) ascending.
	s.insertionOrder = identityPerm(R)
	sort.SliceStable(s.insertionOrder, func(a, b int) bool {
		ia, ib := s.insertionOrder[a], s.insertionOrder[b]
		if s.recordLeftBP[ia] != s.recordLeftBP[ib] {
			return s.recordLeftBP[ia] < s.recordLeftBP[ib]
		}
		return ia < ib
	})
	// Removal order: (rightBP, inputOrder) with inputOrder descending
	// as the secondary key — see spec §4.2.
	s.removalOrder = identityPerm(R)
	sort.SliceStable(s.removalOrder, func(a, b int) bool {
		ia, ib := s.removalOrder[a], s.removalOrder[b]
		if s.recordRightBP[ia] != s.recordRightBP[ib] {
			return s.recordRightBP[ia] < s.recordRightBP[ib]
		}
		return ia > ib
	})

	return s, nil
}

// bpIndex returns the index of v in a sorted, deduplicated slice, or -1.
func bpIndex(bps []float64, v float64) int {
	i := sort.SearchFloat64s(bps, v)
	if i < len(bps) && bps[i] == v {
		return i
	}
	return -1
}

func identityPerm(n int) []int32 {
	p := make([]int32, n)
	for i := range p {
		p[i] = int32(i)
	}
	return p
}

// SetMutations replaces the mutation overlay on the store. It is refused
// with [ErrRefcountNonzero] while any derived iterator is live, and
// validates every mutation's position and node id unconditionally — the
// original core left this validation commented out (see SPEC_FULL.md §7);
// here it always runs.
func (s *Store) SetMutations(mutations []Mutation) error {
	const op = "SetMutations"
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refcount.Load() != 0 {
		return newErr(op, CodeRefcountNonzero, "cannot replace mutations while iterators are live")
	}
	for i, m := range mutations {
		if m.Position < 0 || m.Position >= s.sequenceLength {
			return newErr(op, CodeBadMutation, "mutation %d: position %g out of range", i, m.Position)
		}
		if m.Node == NullNode || int32(m.Node) >= s.numNodes {
			return newErr(op, CodeBadMutation, "mutation %d: invalid node %d", i, m.Node)
		}
	}

	sorted := make([]Mutation, len(mutations))
	copy(sorted, mutations)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Position < sorted[b].Position })

	s.mutPosition = make([]float64, len(sorted))
	s.mutNode = make([]NodeID, len(sorted))
	for i, m := range sorted {
		s.mutPosition[i] = m.Position
		s.mutNode[i] = m.Node
	}
	s.treeMutStart = buildTreeMutationIndex(s.breakpoints, s.mutPosition)
	return nil
}

// buildTreeMutationIndex computes, by a single linear merge against the
// breakpoints, the slice boundary in a position-sorted mutation array
// for each tree.
func buildTreeMutationIndex(breakpoints, positions []float64) []int32 {
	numTrees := len(breakpoints) - 1
	start := make([]int32, numTrees+1)
	p := 0
	for t := 0; t < numTrees; t++ {
		start[t] = int32(p)
		right := breakpoints[t+1]
		for p < len(positions) && positions[p] < right {
			p++
		}
	}
	start[numTrees] = int32(len(positions))
	return start
}

// treeMutations returns the mutations belonging to tree index ti.
func (s *Store) treeMutations(ti int) ([]float64, []NodeID) {
	if s.treeMutStart == nil {
		return nil, nil
	}
	a, b := s.treeMutStart[ti], s.treeMutStart[ti+1]
	return s.mutPosition[a:b], s.mutNode[a:b]
}

// SetMigrations replaces the (peripheral) migration records. Migrations
// are read/write through only and are not interpreted by the core.
func (s *Store) SetMigrations(migrations []Migration) {
	cp := make([]Migration, len(migrations))
	copy(cp, migrations)
	s.migrations = cp
}

// Migrations returns the peripheral migration records attached to the
// store, in input order.
func (s *Store) Migrations() []Migration { return s.migrations }
