// Package treeseq is a succinct representation of the correlated genealogies
// of a set of sampled chromosomes across a recombining genome: a tree
// sequence.
//
// For each genomic interval the tree sequence encodes a rooted tree over a
// fixed set of sample nodes. Adjacent intervals share most of their
// structure; the representation stores only the differences between one
// tree and the next, as a pair of event orderings (insertion order and
// removal order) over a set of coalescence records. A [SparseTree] walks
// these orderings to materialize each tree in turn in amortized constant
// work per edge, rather than recomputing each tree from scratch.
//
// The package also implements simplification: projecting a tree sequence
// onto a subset of samples while preserving their exact genealogical
// relationships and collapsing internal nodes that become unary as a
// result.
//
// The author based the edge bookkeeping on the succinct-tree-sequence
// encoding used by the population genetics simulator msprime: a node is
// identified by a small integer, samples occupy the low end of the id
// space, and two permutations of the record indices (by left and by right
// breakpoint) drive a sweep across the genome. The coalescent simulator that
// would normally produce the input records is an external collaborator and
// out of scope here; [GenerateMutations] provides a simple Poisson mutation
// generator over an existing store.
//
// The space complexity is O(number of records + number of mutations). The
// time complexity to iterate every tree in the sequence is O(number of
// records), not O(number of records * number of trees), because each
// record is inserted and removed exactly once across the whole iteration.
//
//	Load()               O(E log E)      (the sort for the two orderings)
//	SparseTree.Next()     amortized O(1) per edge touched
//	Simplify()            O((E+M) log k)  k = max degree in the projected tree
package treeseq
