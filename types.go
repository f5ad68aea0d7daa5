package treeseq

// NodeID identifies a node: a sample or an internal (coalescent) ancestor.
// Samples occupy the dense range [0, n); internal nodes occupy [n, N).
type NodeID int32

// NullNode is the sentinel for "no node" — an absent parent, an empty
// mapping, a tree with no root yet.
const NullNode NodeID = -1

// PopulationID identifies the population a node belongs to.
type PopulationID int32

// NullPopulation is the sentinel population id for a node whose population
// has not (yet) been assigned.
const NullPopulation PopulationID = -1

// Sample describes one of the n leaf nodes of every tree in the sequence.
// Sample times need not be zero: ancient samples are allowed.
type Sample struct {
	Population PopulationID
	Time       float64
}

// Record is a coalescence record in input form: over the half-open
// interval [Left, Right) on the genome, Parent is the immediate ancestor
// of every node listed in Children.
//
// Children must be strictly ascending by id. Records must be supplied in
// non-decreasing Time(Parent) order, ties broken by the order records are
// given in — that order is taken as a proxy for "the order events
// actually happened in", which the insertion/removal orderings rely on.
type Record struct {
	Left       float64
	Right      float64
	Parent     NodeID
	Children   []NodeID
	Time       float64
	Population PopulationID
}

// Mutation is a single site mutation: a position on the genome and the
// node at the bottom of the branch it arose on. Mutations do not thread
// state along a branch beyond this position+carrier-node pair.
type Mutation struct {
	Position float64
	Node     NodeID
}

// TreeFlags configures the auxiliary indices a SparseTree maintains.
// Declared as an explicit bitmask, the same shape as the original core's
// sparse_tree_alloc flags, rather than a set of boolean constructor
// arguments.
type TreeFlags uint8

const (
	// LeafCounts maintains num_leaves/num_tracked_leaves per node,
	// updated incrementally as edges are inserted and removed.
	LeafCounts TreeFlags = 1 << iota
	// LeafLists threads sample leaves into a per-node singly-linked
	// list so that the leaves under a node can be enumerated in
	// left-to-right order without a traversal.
	LeafLists
)

// SimplifyFlags configures [Simplify].
type SimplifyFlags uint8

const (
	// FilterRootMutations drops mutations that, after projection, sit
	// above the root of the simplified tree at their position.
	FilterRootMutations SimplifyFlags = 1 << iota
)

// DumpFlags configures [Dump].
type DumpFlags uint8

const (
	// ZlibCompression enables deflate compression on the persisted
	// columnar datasets.
	ZlibCompression DumpFlags = 1 << iota
)
