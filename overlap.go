package treeseq

import (
	"sync"

	"github.com/foliage/treeseq/internal/genomeindex"
)

// treeSpanIndex lazily builds and caches a genomeindex.Tree over a store's
// tree intervals, so repeated range queries don't each re-scan breakpoints.
type treeSpanIndex struct {
	once sync.Once
	tree *genomeindex.Tree[genomeindex.Span]
}

func (s *Store) spanIndex() *genomeindex.Tree[genomeindex.Span] {
	s.spanIdx.once.Do(func() {
		spans := make([]genomeindex.Span, s.NumTrees())
		for i := range spans {
			spans[i] = genomeindex.Span{
				Left:      s.breakpoints[i],
				Right:     s.breakpoints[i+1],
				TreeIndex: i,
			}
		}
		s.spanIdx.tree = genomeindex.NewTree(spans)
	})
	return s.spanIdx.tree
}

// TreeAt returns the index of the tree covering genomic position pos, and
// false if pos lies outside [0, SequenceLength()).
func (s *Store) TreeAt(pos float64) (treeIndex int, ok bool) {
	if pos < 0 || pos >= s.sequenceLength {
		return 0, false
	}
	match, ok := s.spanIndex().Shortest(genomeindex.Span{Left: pos, Right: pos})
	if !ok {
		return 0, false
	}
	return match.TreeIndex, true
}

// TreesWithin returns the indices, in ascending order, of every tree whose
// genomic interval lies entirely within [left, right).
func (s *Store) TreesWithin(left, right float64) []int {
	subsets := s.spanIndex().Subsets(genomeindex.Span{Left: left, Right: right})
	out := make([]int, len(subsets))
	for i, sp := range subsets {
		out[i] = sp.TreeIndex
	}
	return out
}
