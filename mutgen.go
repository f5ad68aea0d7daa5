package treeseq

import (
	"math/rand"
	"sort"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// GenerateMutations lays mutations down on store under the infinite
// sites model: for each edge, the number of mutations is Poisson with
// mean branch_length * edge_span * rate, and each mutation's position is
// drawn uniformly within the edge's genomic span. Grounded on
// mutgen_generate_record_mutations; the Poisson draw comes from gonum,
// not a hand-rolled sampler, and the uniform positions are drawn from
// the same adapted random source.
func GenerateMutations(store *Store, rate float64, src rand.Source) ([]Mutation, error) {
	const op = "GenerateMutations"
	if rate < 0 {
		return nil, newErr(op, CodeBadParamValue, "mutation rate %g < 0", rate)
	}
	rng := xrand.New(expSource{src})

	var out []Mutation
	for ri, parent := range store.recordParent {
		left := store.breakpoints[store.recordLeftBP[ri]]
		right := store.breakpoints[store.recordRightBP[ri]]
		span := right - left
		start, end := store.childrenStart[ri], store.childrenStart[ri+1]
		for _, child := range store.childArena[start:end] {
			branchLength := store.nodeTime[parent] - store.nodeTime[child]
			mu := branchLength * span * rate
			if mu <= 0 {
				continue
			}
			n := distuv.Poisson{Lambda: mu, Src: rng}.Rand()
			for k := 0; k < int(n); k++ {
				pos := left + rng.Float64()*span
				out = append(out, Mutation{Position: pos, Node: child})
			}
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Position < out[b].Position })
	return out, nil
}

// expSource adapts the standard library's math/rand.Source into the
// golang.org/x/exp/rand.Source interface gonum's distributions expect
// (Uint64 rather than Int63/Seed), by folding two draws from the
// wrapped source into one 64-bit word.
type expSource struct{ src rand.Source }

func (s expSource) Uint64() uint64 {
	return uint64(s.src.Int63())<<32 ^ uint64(s.src.Int63())
}
