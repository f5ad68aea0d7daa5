package treeseq

// leafIndex is the auxiliary state a SparseTree maintains incrementally
// as edges are inserted and removed, when requested via [LeafCounts] or
// [LeafLists]. Kept as a separate type so SparseTree itself stays
// readable; grounded on sparse_tree_propagate_leaf_count_loss/gain and
// sparse_tree_update_leaf_lists in the original core.
type leafIndex struct {
	numLeaves        []int32
	numTrackedLeaves []int32
	tracked          []bool // len N, true for nodes in the tracked-leaf set
	sampleSize       int32  // nodes < sampleSize are the base samples

	// Per-node leaf list: the samples in the node's subtree, threaded
	// left-to-right. head/tail name the endpoints; next chains samples.
	head, tail []NodeID
	next       []NodeID
}

func newLeafIndex(n, sampleSize int32) *leafIndex {
	li := &leafIndex{
		numLeaves:        make([]int32, n),
		numTrackedLeaves: make([]int32, n),
		tracked:          make([]bool, n),
		sampleSize:       sampleSize,
		head:             make([]NodeID, n),
		tail:             make([]NodeID, n),
		next:             make([]NodeID, n),
	}
	for i := range li.head {
		li.head[i] = NullNode
		li.tail[i] = NullNode
		li.next[i] = NullNode
	}
	return li
}

// initSamples seeds the per-sample base case: a sample is its own
// singleton subtree, before any edge touches it. Re-derives
// numTrackedLeaves from the persistent tracked[] flags set by
// setTracked, so that designation survives a tree reset (First/Last
// repositioning) rather than needing to be reapplied per tree.
func (li *leafIndex) initSamples(sampleSize int32) {
	for u := NodeID(0); u < NodeID(sampleSize); u++ {
		li.numLeaves[u] = 1
		li.head[u] = u
		li.tail[u] = u
		if li.tracked[u] {
			li.numTrackedLeaves[u] = 1
		}
	}
}

func (li *leafIndex) setTracked(samples []NodeID) {
	for i := range li.tracked {
		li.tracked[i] = false
		li.numTrackedLeaves[i] = 0
	}
	for _, s := range samples {
		li.tracked[s] = true
		li.numTrackedLeaves[s] = 1
	}
}

// propagateLeafCountGain adds child's leaf counts to every ancestor of
// parent, inclusive, stopping at the root (parent of root is NullNode).
func (li *leafIndex) propagateLeafCountGain(t *SparseTree, parent, child NodeID) {
	gain := li.numLeaves[child]
	trackedGain := li.numTrackedLeaves[child]
	if gain == 0 && trackedGain == 0 {
		return
	}
	for u := parent; u != NullNode; u = t.parent[u] {
		li.numLeaves[u] += gain
		li.numTrackedLeaves[u] += trackedGain
	}
}

// propagateLeafCountLoss mirrors propagateLeafCountGain for removal; it
// must run before the edge is actually unlinked, while child's counts
// still reflect its subtree.
func (li *leafIndex) propagateLeafCountLoss(t *SparseTree, parent, child NodeID) {
	loss := li.numLeaves[child]
	trackedLoss := li.numTrackedLeaves[child]
	if loss == 0 && trackedLoss == 0 {
		return
	}
	for u := parent; u != NullNode; u = t.parent[u] {
		li.numLeaves[u] -= loss
		li.numTrackedLeaves[u] -= trackedLoss
	}
}

// recomputeLeafList rebuilds u's [head,tail] list by concatenating its
// current children's lists left to right, then does the same for every
// ancestor up to the root. Simpler than splicing the list incrementally
// on every insert/remove and gives identical results, since a node's
// list is a pure function of its current children's lists.
func (li *leafIndex) recomputeLeafList(t *SparseTree, u NodeID) {
	for ; u != NullNode; u = t.parent[u] {
		if t.leftChild[u] == NullNode {
			if u < NodeID(li.sampleSize) {
				li.head[u] = u
				li.tail[u] = u
			} else {
				li.head[u] = NullNode
				li.tail[u] = NullNode
			}
			continue
		}
		li.head[u] = NullNode
		li.tail[u] = NullNode
		for c := t.leftChild[u]; c != NullNode; c = t.rightSib[c] {
			li.appendList(u, li.head[c], li.tail[c])
		}
	}
}

func (li *leafIndex) appendList(u, childHead, childTail NodeID) {
	if childHead == NullNode {
		return
	}
	if li.head[u] == NullNode {
		li.head[u] = childHead
		li.tail[u] = childTail
		return
	}
	li.next[li.tail[u]] = childHead
	li.tail[u] = childTail
}

// leaves appends, in left-to-right order, every sample in u's subtree to
// dst and returns the extended slice.
func (li *leafIndex) leaves(u NodeID, dst []NodeID) []NodeID {
	for v := li.head[u]; v != NullNode; v = li.next[v] {
		dst = append(dst, v)
		if v == li.tail[u] {
			break
		}
	}
	return dst
}
