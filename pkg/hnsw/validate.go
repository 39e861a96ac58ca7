package hnsw

import "github.com/google/uuid"

// ValidationReport is the result of ValidateGraph: the BFS-reachable
// component size at layer 0 from the head, and whether every link
// checked was reciprocal. A mismatch in either is a diagnostic, not a
// panic — validation never fails, per §7. ReportID lets a caller
// correlate a report with the log lines a concurrent validator run
// emitted, since multiple runs may be in flight from different
// goroutines.
type ValidationReport struct {
	ReportID            string
	ConnectedCount      int
	AllLinksReciprocal  bool
	ReciprocityFailures int
	CapViolations       int
}

// ValidateGraph walks the enumeration list and checks neighbor-list
// caps, reciprocity, and layer-0 connectivity from the head. It does
// not check that the head's level is the maximum level, and it does
// not check version counters. It should be called from single-threaded code
// or with external synchronization (§5): it reads node.neighbors
// without taking the write lock.
func (idx *Index) ValidateGraph() ValidationReport {
	report := ValidationReport{ReportID: uuid.New().String(), AllLinksReciprocal: true}

	for n := idx.enumHead; n != nil; n = n.next {
		if n.Deleted() {
			continue
		}
		for layer, neighbors := range n.neighbors {
			if len(neighbors) > idx.maxMForLayer(layer) {
				report.CapViolations++
			}
			for _, nbID := range neighbors {
				nb := idx.nodes[nbID]
				if nb == nil || nb.Deleted() {
					report.ReciprocityFailures++
					continue
				}
				if !hasBackLink(nb, n.id, layer) {
					report.ReciprocityFailures++
				}
			}
		}
	}
	if report.ReciprocityFailures > 0 {
		report.AllLinksReciprocal = false
	}

	report.ConnectedCount = idx.bfsLayer0Count()
	return report
}

func hasBackLink(n *Node, target int64, layer int) bool {
	if layer >= len(n.neighbors) {
		return false
	}
	for _, id := range n.neighbors[layer] {
		if id == target {
			return true
		}
	}
	return false
}

// bfsLayer0Count counts the live nodes reachable from head via layer-0
// edges, per §4.A.2's validator contract.
func (idx *Index) bfsLayer0Count() int {
	if idx.head == nil || idx.head.Deleted() {
		return 0
	}
	visited := map[int64]bool{idx.head.id: true}
	queue := []int64{idx.head.id}
	count := 0

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := idx.nodes[id]
		if n == nil || n.Deleted() {
			continue
		}
		count++
		if len(n.neighbors) == 0 {
			continue
		}
		for _, nbID := range n.neighbors[0] {
			if !visited[nbID] {
				visited[nbID] = true
				queue = append(queue, nbID)
			}
		}
	}
	return count
}
