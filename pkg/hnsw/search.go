package hnsw

import "container/heap"

// candHeapItem is one entry in the min/max heaps used by searchLayer,
// in the manner of the teacher's heapItem/distHeap.
type candHeapItem struct {
	id   int64
	dist float32
}

type minHeap []candHeapItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].id < h[j].id
}
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(candHeapItem)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type maxHeap []candHeapItem

func (h maxHeap) Len() int { return len(h) }
func (h maxHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist > h[j].dist
	}
	return h[i].id > h[j].id
}
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(candHeapItem)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// searchLayer runs the standard HNSW layered beam search: a min-heap
// of candidates to expand, a max-heap of the current ef best results,
// and a search-scoped visited set. Expansion stops once the nearest
// unexpanded candidate is farther than the farthest current result.
// Returns up to ef results, nearest first.
func (idx *Index) searchLayer(query []float32, entryPoints []int64, ef int, layer int) []candHeapItem {
	visited := make(map[int64]bool, ef*2)
	candidates := &minHeap{}
	results := &maxHeap{}

	for _, id := range entryPoints {
		if visited[id] {
			continue
		}
		visited[id] = true
		n := idx.nodes[id]
		if n == nil {
			continue
		}
		d := idx.distance(query, n)
		heap.Push(candidates, candHeapItem{id: id, dist: d})
		heap.Push(results, candHeapItem{id: id, dist: d})
	}

	for candidates.Len() > 0 {
		nearest := (*candidates)[0]
		if results.Len() >= ef && nearest.dist > (*results)[0].dist {
			break
		}
		current := heap.Pop(candidates).(candHeapItem)
		node := idx.nodes[current.id]
		if node == nil || layer >= len(node.neighbors) {
			continue
		}

		node.mu.Lock()
		neighbors := append([]int64(nil), node.neighbors[layer]...)
		node.mu.Unlock()

		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			nbNode := idx.nodes[nb]
			if nbNode == nil {
				continue
			}
			d := idx.distance(query, nbNode)
			if results.Len() < ef || d < (*results)[0].dist {
				heap.Push(candidates, candHeapItem{id: nb, dist: d})
				heap.Push(results, candHeapItem{id: nb, dist: d})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]candHeapItem, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(results).(candHeapItem)
	}
	return out
}

// greedyDescend moves from entry through layers (fromLayer down to,
// but not including, toLayer), keeping only the single closest node at
// each step, per §4.A.2's greedy descent.
func (idx *Index) greedyDescend(query []float32, entry int64, fromLayer, toLayer int) int64 {
	current := entry
	for layer := fromLayer; layer > toLayer; layer-- {
		best := idx.searchLayer(query, []int64{current}, 1, layer)
		if len(best) > 0 {
			current = best[0].id
		}
	}
	return current
}

// selectNeighborsHeuristic implements §4.A.2's admission-test variant:
// among the candidates (assumed already the ef closest to query), walk
// them in ascending distance order and admit a candidate only if no
// already-admitted neighbor is strictly closer to it than query is,
// keeping at most m.
func (idx *Index) selectNeighborsHeuristic(query []float32, candidates []candHeapItem, m int) []int64 {
	sorted := append([]candHeapItem(nil), candidates...)
	insertionSort(sorted)

	admitted := make([]int64, 0, m)
	for _, c := range sorted {
		if len(admitted) >= m {
			break
		}
		cNode := idx.nodes[c.id]
		if cNode == nil {
			continue
		}
		ok := true
		for _, a := range admitted {
			aNode := idx.nodes[a]
			if aNode == nil {
				continue
			}
			if idx.distance(vectorOf(idx, aNode), cNode) < c.dist {
				ok = false
				break
			}
		}
		if ok {
			admitted = append(admitted, c.id)
		}
	}
	return admitted
}

// vectorOf returns an f32 vector usable as a distance-function query
// argument for a stored node, decoding quantized forms on demand. Used
// wherever a node-to-node distance is needed: the admission test,
// neighbor re-pruning on insert and delete, and the recall self-test.
func vectorOf(idx *Index, n *Node) []float32 {
	switch idx.Quant {
	case QuantQ8:
		return decodeQ8(n.q8, n.q8Scale)
	case QuantBin:
		return decodeBin(n.bin, idx.D)
	default:
		return n.vector
	}
}

func insertionSort(items []candHeapItem) {
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && (items[j].dist < items[j-1].dist || (items[j].dist == items[j-1].dist && items[j].id < items[j-1].id)) {
			items[j], items[j-1] = items[j-1], items[j]
			j--
		}
	}
}

// Result is one search hit.
type Result struct {
	Node     *Node
	Distance float32
}

// Search greedy-descends from the head to layer 0, runs one
// searchLayer with ef = max(k, efSearch), and returns the k smallest
// results sorted ascending by distance, ties by id.
func (idx *Index) Search(query []float32, k int, efSearch int) ([]Result, error) {
	if len(query) != idx.D {
		return nil, wrapError("Search", ErrDimensionMismatch)
	}
	head := idx.head
	if head == nil {
		return nil, wrapError("Search", ErrEmptyIndex)
	}

	ef := efSearch
	if ef < k {
		ef = k
	}

	entry := idx.greedyDescend(query, head.id, head.level, 0)
	candidates := idx.searchLayer(query, []int64{entry}, ef, 0)
	insertionSort(candidates)

	if k > len(candidates) {
		k = len(candidates)
	}
	out := make([]Result, 0, k)
	for _, c := range candidates[:k] {
		n := idx.nodes[c.id]
		if n == nil || n.Deleted() {
			continue
		}
		out = append(out, Result{Node: n, Distance: c.dist})
	}
	return out, nil
}
