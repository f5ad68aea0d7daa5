package treeseq

import (
	"math/rand"
	"testing"
)

func TestGenerateMutationsDeterministicWithSeed(t *testing.T) {
	records, samples := threeTipRecords()
	s, err := Load(records, samples)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	a, err := GenerateMutations(s, 0.1, rand.NewSource(42))
	if err != nil {
		t.Fatalf("GenerateMutations: %v", err)
	}
	b, err := GenerateMutations(s, 0.1, rand.NewSource(42))
	if err != nil {
		t.Fatalf("GenerateMutations: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("two runs with the same seed produced %d and %d mutations", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("mutation %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
	for i := 1; i < len(a); i++ {
		if a[i-1].Position > a[i].Position {
			t.Errorf("mutations not sorted by position at %d: %v", i, a)
		}
	}
}

func TestGenerateMutationsZeroRateProducesNone(t *testing.T) {
	records, samples := threeTipRecords()
	s, err := Load(records, samples)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	muts, err := GenerateMutations(s, 0, rand.NewSource(1))
	if err != nil {
		t.Fatalf("GenerateMutations: %v", err)
	}
	if len(muts) != 0 {
		t.Errorf("rate 0 produced %d mutations, want 0", len(muts))
	}
}

func TestGenerateMutationsRejectsNegativeRate(t *testing.T) {
	records, samples := threeTipRecords()
	s, err := Load(records, samples)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := GenerateMutations(s, -1, rand.NewSource(1)); err == nil {
		t.Errorf("negative rate: want error, got nil")
	}
}
