package treeseq

// PairwiseDiversity computes the mean number of pairwise differences
// (π) among samples: for every tree and every mutation it carries, a
// pair of samples differs at that site iff exactly one of them descends
// from the mutation's carrier node, so the site contributes
// below(carrier)*(n-below(carrier)) / C(n,2), and π is the sum of these
// contributions over all mutations. Tree spans are not used as weights.
func PairwiseDiversity(store *Store, samples []NodeID) (float64, error) {
	const op = "PairwiseDiversity"
	n := len(samples)
	if n < 2 {
		return 0, newErr(op, CodeBadParamValue, "need at least 2 samples, got %d", n)
	}
	pairs := float64(n*(n-1)) / 2

	t := NewSparseTree(store, LeafCounts)
	defer t.Close()
	if err := t.SetTrackedLeaves(samples); err != nil {
		return 0, err
	}

	var total float64
	ok, err := t.First()
	if err != nil {
		return 0, err
	}
	for ok {
		_, nodes := t.Mutations()
		for _, carrier := range nodes {
			below := float64(t.NumTrackedLeaves(carrier))
			total += below * (float64(n) - below) / pairs
		}
		ok, err = t.Next()
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
