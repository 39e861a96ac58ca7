package hnsw

import (
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// bruteForceTopK scans every live node and returns the k nearest to
// query, sorted ascending by distance then id — the ground truth
// TestGraphRecall compares approximate search against.
func (idx *Index) bruteForceTopK(query []float32, k int) []Result {
	all := make([]candHeapItem, 0, idx.Len())
	idx.Range(func(n *Node) bool {
		all = append(all, candHeapItem{id: n.id, dist: idx.distance(query, n)})
		return true
	})
	insertionSort(all)
	if k > len(all) {
		k = len(all)
	}
	out := make([]Result, k)
	for i := 0; i < k; i++ {
		out[i] = Result{Node: idx.nodes[all[i].id], Distance: all[i].dist}
	}
	return out
}

// TestGraphRecall samples sampleN live nodes, runs approximate Search
// for k neighbors against a brute-force scan for each, and reports the
// mean recall@k across the sample. Sampled queries are fanned out via
// errgroup, one goroutine per sampled query with no concurrency limit,
// matching the recall test's read-only, embarrassingly-parallel workload.
func (idx *Index) TestGraphRecall(sampleN, k, efSearch int) (float64, error) {
	if idx.Len() == 0 {
		return 0, wrapError("TestGraphRecall", ErrEmptyIndex)
	}

	ids := make([]int64, 0, idx.Len())
	idx.Range(func(n *Node) bool {
		ids = append(ids, n.id)
		return true
	})
	if sampleN > len(ids) {
		sampleN = len(ids)
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	sample := ids[:sampleN]

	recalls := make([]float64, sampleN)
	var g errgroup.Group
	for i, id := range sample {
		i, id := i, id
		g.Go(func() error {
			node := idx.nodes[id]
			if node == nil {
				return nil
			}
			query := vectorOf(idx, node)

			approx, err := idx.Search(query, k, efSearch)
			if err != nil {
				return err
			}
			truth := idx.bruteForceTopK(query, k)

			recalls[i] = recallAt(approx, truth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var sum float64
	for _, r := range recalls {
		sum += r
	}
	return sum / float64(sampleN), nil
}

func recallAt(approx, truth []Result) float64 {
	if len(truth) == 0 {
		return 1
	}
	truthSet := make(map[int64]bool, len(truth))
	for _, r := range truth {
		truthSet[r.Node.id] = true
	}
	hits := 0
	for _, r := range approx {
		if truthSet[r.Node.id] {
			hits++
		}
	}
	return float64(hits) / float64(len(truth))
}
