package treeseq

import (
	"sort"

	"github.com/foliage/treeseq/internal/nodeset"
)

// activeRecord is a coalescence record under construction by the
// simplify sweep: it grows across consecutive trees that agree on an
// output parent's children, and closes into a finished Record the
// moment that agreement breaks.
type activeRecord struct {
	left     float64
	children []NodeID
}

// Simplify projects store onto samples, the subset of its original
// sample set to retain, returning a new Store whose node ids are
// renumbered from scratch (samples first, in the order given, then
// internal nodes in the order first encountered as a branch point).
//
// Grounded on tree_sequence_simplify: each tree's topology is collapsed
// onto the retained samples by walking every node in time order and
// merging single-mapped-child chains, exactly as the original's
// mapping/w bookkeeping does; the walk-up that original performs with
// an AVL tree of touched nodes becomes, here, a full per-tree
// recomputation in global time order (§9 design notes). Mutations are
// reassigned in the same per-tree pass, each resolved against that
// tree's image rather than the permanent mapping, since a node that
// never becomes a branch point still has a perfectly good per-tree
// carrier to fall back to.
func Simplify(store *Store, samples []NodeID, flags SimplifyFlags) (*Store, error) {
	const op = "Simplify"
	if len(samples) < 2 {
		return nil, newErr(op, CodeCannotSimplify, "need at least 2 samples, got %d", len(samples))
	}
	seen := map[NodeID]bool{}
	for _, s := range samples {
		if s == NullNode || int32(s) >= store.numNodes {
			return nil, newErr(op, CodeBadSamples, "invalid sample node %d", s)
		}
		if seen[s] {
			return nil, newErr(op, CodeDuplicateSample, "duplicate sample node %d", s)
		}
		seen[s] = true
	}

	// mapping[v] is the permanent output id assigned to v once it is
	// first seen acting as a branch point (>=2 mapped children) in some
	// tree; NullNode until then.
	mapping := make([]NodeID, store.numNodes)
	for i := range mapping {
		mapping[i] = NullNode
	}
	var outNodeTime []float64
	var outNodePopulation []PopulationID
	for _, s := range samples {
		mapping[s] = NodeID(len(outNodeTime))
		outNodeTime = append(outNodeTime, store.nodeTime[s])
		outNodePopulation = append(outNodePopulation, store.nodePopulation[s])
	}

	// image[v] is the per-tree transient value: what v currently
	// presents as once single-child chains above the retained samples
	// are collapsed away. Recomputed fresh for every tree.
	image := make([]NodeID, store.numNodes)

	timeOrder := make([]NodeID, store.numNodes)
	for i := range timeOrder {
		timeOrder[i] = NodeID(i)
	}
	sort.SliceStable(timeOrder, func(a, b int) bool {
		return store.nodeTime[timeOrder[a]] < store.nodeTime[timeOrder[b]]
	})

	t := NewSparseTree(store, 0)
	defer t.Close()

	active := map[NodeID]*activeRecord{} // keyed by output parent
	var records []Record
	var mutations []Mutation

	ok, err := t.First()
	if err != nil {
		return nil, err
	}
	for ok {
		for i := range image {
			image[i] = NullNode
		}
		for _, v := range timeOrder {
			var single NodeID = NullNode
			count := 0
			for c := t.leftChild[v]; c != NullNode; c = t.rightSib[c] {
				if image[c] != NullNode {
					count++
					single = image[c]
				}
			}
			switch {
			case count == 0:
				image[v] = mapping[v] // NullNode unless v is itself a sample
			case count == 1:
				image[v] = single
			default:
				if mapping[v] == NullNode {
					mapping[v] = NodeID(len(outNodeTime))
					outNodeTime = append(outNodeTime, store.nodeTime[v])
					outNodePopulation = append(outNodePopulation, store.nodePopulation[v])
				}
				image[v] = mapping[v]
			}
		}

		// This tree's collapsed topology: for every node whose image is
		// resolved and whose tree-parent's image differs, that is an
		// active output edge (image[parent] -> image[v]).
		children := map[NodeID][]NodeID{}
		touchedParents := &nodeset.Set[int32]{}
		for v := NodeID(0); v < NodeID(store.numNodes); v++ {
			if image[v] == NullNode {
				continue
			}
			p := t.Parent(v)
			if p == NullNode || image[p] == NullNode || image[p] == image[v] {
				continue
			}
			children[image[p]] = append(children[image[p]], image[v])
			touchedParents.Insert(int32(image[p]))
		}
		for _, kids := range children {
			sort.Slice(kids, func(a, b int) bool { return kids[a] < kids[b] })
		}

		// Close active records whose children set changed or vanished;
		// the previous set's parents not re-seen this tree close too.
		for parent, rec := range active {
			kids, present := children[parent]
			if present && sameChildren(rec.children, kids) {
				continue
			}
			records = append(records, Record{
				Left: rec.left, Right: t.left,
				Parent: parent, Children: rec.children,
				Time: outNodeTime[parent], Population: outNodePopulation[parent],
			})
			delete(active, parent)
		}
		touchedParents.Each(func(p32 int32) {
			parent := NodeID(p32)
			if _, open := active[parent]; !open {
				active[parent] = &activeRecord{left: t.left, children: children[parent]}
			}
		})

		// Mutations under this tree are resolved against this tree's own
		// image, not the permanent mapping: a node that is never a branch
		// point anywhere (always a unary pass-through) never gets a
		// permanent id, but its image is the single mapped descendant it
		// collapses to here, already walked up through any chain of such
		// pass-through nodes by the loop above. NullNode means v has no
		// retained descendant left in this tree at all; that mutation has
		// nothing to attach to and is dropped, not pushed onto an
		// unrelated ancestor.
		rootImage := image[t.Root()]
		positions, nodes := t.Mutations()
		for mi, pos := range positions {
			carrier := image[nodes[mi]]
			if carrier == NullNode {
				continue
			}
			if flags&FilterRootMutations != 0 && carrier == rootImage {
				continue
			}
			mutations = append(mutations, Mutation{Position: pos, Node: carrier})
		}

		ok, err = t.Next()
		if err != nil {
			return nil, err
		}
	}
	for parent, rec := range active {
		records = append(records, Record{
			Left: rec.left, Right: store.sequenceLength,
			Parent: parent, Children: rec.children,
			Time: outNodeTime[parent], Population: outNodePopulation[parent],
		})
	}
	sort.SliceStable(records, func(a, b int) bool {
		if outNodeTime[records[a].Parent] != outNodeTime[records[b].Parent] {
			return outNodeTime[records[a].Parent] < outNodeTime[records[b].Parent]
		}
		return records[a].Left < records[b].Left
	})

	outSamples := make([]Sample, len(samples))
	for i, s := range samples {
		outSamples[i] = Sample{Population: store.nodePopulation[s], Time: store.nodeTime[s]}
	}

	out, err := Load(records, outSamples)
	if err != nil {
		return nil, newErr(op, CodeCannotSimplify, "%v", err)
	}
	if err := out.SetMutations(mutations); err != nil {
		return nil, newErr(op, CodeCannotSimplify, "%v", err)
	}
	return out, nil
}

func sameChildren(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
