package treeseq

import (
	"path/filepath"
	"testing"
)

func TestDumpAndLoadFileRoundTrip(t *testing.T) {
	records, samples := threeTipRecords()
	s, err := Load(records, samples)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.SetMutations([]Mutation{{Position: 2, Node: 0}, {Position: 7, Node: 1}}); err != nil {
		t.Fatalf("SetMutations: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sequence.h5")
	if err := Dump(path, s, ZlibCompression); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	back, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if back.SampleSize() != s.SampleSize() {
		t.Errorf("SampleSize() = %d, want %d", back.SampleSize(), s.SampleSize())
	}
	if back.NumTrees() != s.NumTrees() {
		t.Errorf("NumTrees() = %d, want %d", back.NumTrees(), s.NumTrees())
	}
	if back.SequenceLength() != s.SequenceLength() {
		t.Errorf("SequenceLength() = %g, want %g", back.SequenceLength(), s.SequenceLength())
	}
}
