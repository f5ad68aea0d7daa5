package treeseq

import (
	"github.com/scigolib/hdf5"
)

// Dump writes store to an HDF5-like columnar container at path: one
// dataset per column (breakpoints, node times, populations, record
// parents and breakpoint indices, children offsets and arena,
// insertion/removal orders) in group /trees, mutation positions/nodes in
// group /mutations, and each provenance record as an attribute of group
// /provenance. No format-version or other metadata attributes are
// written, and migrations are not written. This is an adapter around
// store, not part of the in-memory core: Load/Simplify never touch disk.
func Dump(path string, store *Store, flags DumpFlags) error {
	const op = "Dump"
	f, err := hdf5.Create(path)
	if err != nil {
		return newErr(op, CodePersistence, "create %s: %v", path, err)
	}
	defer f.Close()

	root, err := f.CreateGroup("/trees")
	if err != nil {
		return newErr(op, CodePersistence, "create group: %v", err)
	}

	opts := hdf5.DatasetOptions{}
	if flags&ZlibCompression != 0 {
		opts.Compression = hdf5.CompressionDeflate
	}

	writes := []struct {
		name string
		data any
	}{
		{"breakpoints", store.breakpoints},
		{"node_time", store.nodeTime},
		{"node_population", int32Slice(store.nodePopulation)},
		{"record_parent", int32Slice(store.recordParent)},
		{"record_left_bp", store.recordLeftBP},
		{"record_right_bp", store.recordRightBP},
		{"children_start", store.childrenStart},
		{"child_arena", int32Slice(store.childArena)},
		{"insertion_order", store.insertionOrder},
		{"removal_order", store.removalOrder},
	}
	for _, w := range writes {
		if err := root.WriteDataset(w.name, w.data, opts); err != nil {
			return newErr(op, CodePersistence, "write %s: %v", w.name, err)
		}
	}

	if store.mutPosition != nil {
		mg, err := f.CreateGroup("/mutations")
		if err != nil {
			return newErr(op, CodePersistence, "create mutations group: %v", err)
		}
		if err := mg.WriteDataset("position", store.mutPosition, opts); err != nil {
			return newErr(op, CodePersistence, "write mutation positions: %v", err)
		}
		if err := mg.WriteDataset("node", int32Slice(store.mutNode), opts); err != nil {
			return newErr(op, CodePersistence, "write mutation nodes: %v", err)
		}
	}

	if len(store.provenance) > 0 {
		pg, err := f.CreateGroup("/provenance")
		if err != nil {
			return newErr(op, CodePersistence, "create provenance group: %v", err)
		}
		for i, rec := range store.provenance {
			if err := pg.WriteAttribute(provenanceKey(i), rec); err != nil {
				return newErr(op, CodePersistence, "write provenance %d: %v", i, err)
			}
		}
	}

	return nil
}

// LoadFile reads a Dump-produced container back into a Store. It reads
// the /trees and /mutations datasets only: provenance is not read back,
// no format version is checked, and dataset lengths are not cross-checked
// against each other.
func LoadFile(path string) (*Store, error) {
	const op = "LoadFile"
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, newErr(op, CodeFileFormat, "open %s: %v", path, err)
	}
	defer f.Close()

	root, err := f.OpenGroup("/trees")
	if err != nil {
		return nil, newErr(op, CodeFileFormat, "open /trees: %v", err)
	}

	s := &Store{}
	if err := root.ReadDataset("breakpoints", &s.breakpoints); err != nil {
		return nil, newErr(op, CodeFileFormat, "read breakpoints: %v", err)
	}
	if err := root.ReadDataset("node_time", &s.nodeTime); err != nil {
		return nil, newErr(op, CodeFileFormat, "read node_time: %v", err)
	}
	var pop []int32
	if err := root.ReadDataset("node_population", &pop); err != nil {
		return nil, newErr(op, CodeFileFormat, "read node_population: %v", err)
	}
	s.nodePopulation = populationSlice(pop)

	var parent []int32
	if err := root.ReadDataset("record_parent", &parent); err != nil {
		return nil, newErr(op, CodeFileFormat, "read record_parent: %v", err)
	}
	s.recordParent = nodeIDSlice(parent)
	if err := root.ReadDataset("record_left_bp", &s.recordLeftBP); err != nil {
		return nil, newErr(op, CodeFileFormat, "read record_left_bp: %v", err)
	}
	if err := root.ReadDataset("record_right_bp", &s.recordRightBP); err != nil {
		return nil, newErr(op, CodeFileFormat, "read record_right_bp: %v", err)
	}
	if err := root.ReadDataset("children_start", &s.childrenStart); err != nil {
		return nil, newErr(op, CodeFileFormat, "read children_start: %v", err)
	}
	var arena []int32
	if err := root.ReadDataset("child_arena", &arena); err != nil {
		return nil, newErr(op, CodeFileFormat, "read child_arena: %v", err)
	}
	s.childArena = nodeIDSlice(arena)
	if err := root.ReadDataset("insertion_order", &s.insertionOrder); err != nil {
		return nil, newErr(op, CodeFileFormat, "read insertion_order: %v", err)
	}
	if err := root.ReadDataset("removal_order", &s.removalOrder); err != nil {
		return nil, newErr(op, CodeFileFormat, "read removal_order: %v", err)
	}

	s.numNodes = int32(len(s.nodeTime))
	s.sampleSize = minParent(s.recordParent)
	if n := len(s.breakpoints); n > 0 {
		s.sequenceLength = s.breakpoints[n-1]
	}

	if mg, err := f.OpenGroup("/mutations"); err == nil {
		if err := mg.ReadDataset("position", &s.mutPosition); err != nil {
			return nil, newErr(op, CodeFileFormat, "read mutation positions: %v", err)
		}
		var nodes []int32
		if err := mg.ReadDataset("node", &nodes); err != nil {
			return nil, newErr(op, CodeFileFormat, "read mutation nodes: %v", err)
		}
		s.mutNode = nodeIDSlice(nodes)
		s.treeMutStart = buildTreeMutationIndex(s.breakpoints, s.mutPosition)
	}

	return s, nil
}

func int32Slice[T ~int32](in []T) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

func nodeIDSlice(in []int32) []NodeID {
	out := make([]NodeID, len(in))
	for i, v := range in {
		out[i] = NodeID(v)
	}
	return out
}

func populationSlice(in []int32) []PopulationID {
	out := make([]PopulationID, len(in))
	for i, v := range in {
		out[i] = PopulationID(v)
	}
	return out
}

func minParent(parents []NodeID) int32 {
	if len(parents) == 0 {
		return 0
	}
	m := int32(parents[0])
	for _, p := range parents[1:] {
		if int32(p) < m {
			m = int32(p)
		}
	}
	return m
}

func provenanceKey(i int) string {
	const hex = "0123456789abcdef"
	b := []byte("rec-0000")
	for p := 7; i > 0 && p > 3; p-- {
		b[p] = hex[i%16]
		i /= 16
	}
	return string(b)
}
