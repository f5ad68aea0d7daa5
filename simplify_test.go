package treeseq

import "testing"

// fourTipRecords adds a fourth sample (3) that coalesces with 2 before
// joining the rest, giving Simplify a genuine internal node to drop
// when asked to retain only {0,1,2}.
func fourTipRecords() ([]Record, []Sample) {
	records := []Record{
		{Left: 0, Right: 10, Parent: 4, Children: []NodeID{0, 1}, Time: 1},
		{Left: 0, Right: 10, Parent: 5, Children: []NodeID{2, 3}, Time: 1},
		{Left: 0, Right: 10, Parent: 6, Children: []NodeID{4, 5}, Time: 2},
	}
	samples := []Sample{{}, {}, {}, {}}
	return records, samples
}

func TestSimplifyDropsUnusedSample(t *testing.T) {
	records, samples := fourTipRecords()
	s, err := Load(records, samples)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out, err := Simplify(s, []NodeID{0, 1, 2}, 0)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if out.SampleSize() != 3 {
		t.Errorf("SampleSize() = %d, want 3", out.SampleSize())
	}

	tr := NewSparseTree(out, 0)
	defer tr.Close()
	if _, err := tr.First(); err != nil {
		t.Fatalf("First: %v", err)
	}
	// Sample 3 was dropped, so node 5 (which only existed to join 2&3)
	// should have collapsed away: 2 attaches directly to whatever
	// replaces the old root.
	if tr.Parent(2) == NullNode {
		t.Errorf("sample 2 has no parent in the simplified tree")
	}
}

// TestSimplifyProjectsMutationOnUnaryCollapse is the E4 case: node 5
// (parent of samples 2 and 3) loses its branch-point status once sample
// 3 is dropped and becomes a unary pass-through onto sample 2. A
// mutation placed on node 5 must project onto sample 2's output node,
// not be dropped, because node 5 never gets a permanent mapping entry
// but still has a valid per-tree image. A second mutation on node 6
// (the root, which stays a genuine branch point since samples 0/1 and 2
// remain on separate sides) exercises FilterRootMutations actually
// filtering something.
func TestSimplifyProjectsMutationOnUnaryCollapse(t *testing.T) {
	records, samples := fourTipRecords()
	s, err := Load(records, samples)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.SetMutations([]Mutation{
		{Position: 2, Node: 5},
		{Position: 7, Node: 6},
	}); err != nil {
		t.Fatalf("SetMutations: %v", err)
	}

	t.Run("FilterRootMutations off", func(t *testing.T) {
		out, err := Simplify(s, []NodeID{0, 1, 2}, 0)
		if err != nil {
			t.Fatalf("Simplify: %v", err)
		}
		tr := NewSparseTree(out, 0)
		defer tr.Close()
		if _, err := tr.First(); err != nil {
			t.Fatalf("First: %v", err)
		}
		positions, nodes := tr.Mutations()
		if len(positions) != 2 {
			t.Fatalf("Mutations() = %d entries, want 2 (none dropped): positions=%v nodes=%v", len(positions), positions, nodes)
		}
		// Sample 2 is the 3rd element of {0,1,2}, so its output id is 2.
		if nodes[0] != 2 {
			t.Errorf("mutation at %g carried by node %d, want 2 (sample 2's output id)", positions[0], nodes[0])
		}
		if nodes[1] != tr.Root() {
			t.Errorf("mutation at %g carried by node %d, want %d (output root)", positions[1], nodes[1], tr.Root())
		}
	})

	t.Run("FilterRootMutations on", func(t *testing.T) {
		out, err := Simplify(s, []NodeID{0, 1, 2}, FilterRootMutations)
		if err != nil {
			t.Fatalf("Simplify: %v", err)
		}
		tr := NewSparseTree(out, 0)
		defer tr.Close()
		if _, err := tr.First(); err != nil {
			t.Fatalf("First: %v", err)
		}
		// The root mutation is filtered; the unary-collapse mutation on
		// sample 2 is not a root mutation and survives.
		positions, nodes := tr.Mutations()
		if len(positions) != 1 {
			t.Fatalf("Mutations() = %d entries, want 1 (root mutation filtered): positions=%v nodes=%v", len(positions), positions, nodes)
		}
		if nodes[0] != 2 {
			t.Errorf("surviving mutation carried by node %d, want 2 (sample 2's output id)", nodes[0])
		}
	})
}

func TestSimplifyRejectsTooFewSamples(t *testing.T) {
	records, samples := fourTipRecords()
	s, err := Load(records, samples)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := Simplify(s, []NodeID{0}, 0); err == nil {
		t.Errorf("Simplify with 1 sample: want error, got nil")
	}
}

func TestSimplifyRejectsDuplicateSample(t *testing.T) {
	records, samples := fourTipRecords()
	s, err := Load(records, samples)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := Simplify(s, []NodeID{0, 0}, 0); err == nil {
		t.Errorf("Simplify with duplicate sample: want error, got nil")
	}
}

func TestSimplifyPreservesAllSamples(t *testing.T) {
	records, samples := threeTipRecords()
	s, err := Load(records, samples)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := Simplify(s, []NodeID{0, 1, 2}, 0)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if out.NumTrees() != s.NumTrees() {
		t.Errorf("NumTrees() = %d, want %d (topology unchanged when no samples dropped)", out.NumTrees(), s.NumTrees())
	}
}
