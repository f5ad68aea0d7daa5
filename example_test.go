package treeseq_test

import (
	"fmt"

	"github.com/foliage/treeseq"
)

func Example() {
	records := []treeseq.Record{
		{Left: 0, Right: 5, Parent: 3, Children: []treeseq.NodeID{0, 1}, Time: 1},
		{Left: 5, Right: 10, Parent: 3, Children: []treeseq.NodeID{1, 2}, Time: 1},
		{Left: 0, Right: 5, Parent: 4, Children: []treeseq.NodeID{2, 3}, Time: 2},
		{Left: 5, Right: 10, Parent: 4, Children: []treeseq.NodeID{0, 3}, Time: 2},
	}
	samples := []treeseq.Sample{{}, {}, {}}

	store, err := treeseq.Load(records, samples)
	if err != nil {
		fmt.Println("load error:", err)
		return
	}

	tr := treeseq.NewSparseTree(store, 0)
	defer tr.Close()

	ok, err := tr.First()
	for ; ok; ok, err = tr.Next() {
		fmt.Printf("tree [%g, %g): root %d\n", tr.Left(), tr.Right(), tr.Root())
	}
	if err != nil {
		fmt.Println("walk error:", err)
	}

	// Output:
	// tree [0, 5): root 4
	// tree [5, 10): root 4
}

func ExamplePairwiseDiversity() {
	records := []treeseq.Record{
		{Left: 0, Right: 10, Parent: 3, Children: []treeseq.NodeID{0, 1}, Time: 1},
		{Left: 0, Right: 10, Parent: 4, Children: []treeseq.NodeID{2, 3}, Time: 2},
	}
	samples := []treeseq.Sample{{}, {}, {}}

	store, err := treeseq.Load(records, samples)
	if err != nil {
		fmt.Println("load error:", err)
		return
	}
	if err := store.SetMutations([]treeseq.Mutation{{Position: 5, Node: 0}}); err != nil {
		fmt.Println("set mutations error:", err)
		return
	}

	pi, err := treeseq.PairwiseDiversity(store, []treeseq.NodeID{0, 1, 2})
	if err != nil {
		fmt.Println("diversity error:", err)
		return
	}
	fmt.Printf("%.4f\n", pi)

	// Output:
	// 0.6667
}
