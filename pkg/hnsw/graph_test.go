package hnsw

import "testing"

func TestInsertAndSearchBasic(t *testing.T) {
	idx := NewIndex(2, QuantNone)

	if _, err := idx.Insert([]float32{0, 0}, 1, "a", 0); err != nil {
		t.Fatalf("Insert(1): %v", err)
	}
	if _, err := idx.Insert([]float32{1, 0}, 2, "b", 0); err != nil {
		t.Fatalf("Insert(2): %v", err)
	}
	if _, err := idx.Insert([]float32{0, 1}, 3, "c", 0); err != nil {
		t.Fatalf("Insert(3): %v", err)
	}

	results, err := idx.Search([]float32{0.1, 0.1}, 2, DefaultEfSearch)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search returned %d results, want 2", len(results))
	}
	got := map[int64]bool{results[0].Node.ID(): true, results[1].Node.ID(): true}
	if !got[1] || !got[2] {
		t.Errorf("Search results = {%d, %d}, want {1, 2}", results[0].Node.ID(), results[1].Node.ID())
	}
}

func TestInsertDuplicateID(t *testing.T) {
	idx := NewIndex(2, QuantNone)
	if _, err := idx.Insert([]float32{0, 0}, 1, nil, 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := idx.Insert([]float32{1, 1}, 1, nil, 0); err == nil {
		t.Fatalf("Insert with duplicate id: expected an error")
	}
}

func TestInsertDimensionMismatch(t *testing.T) {
	idx := NewIndex(3, QuantNone)
	if _, err := idx.Insert([]float32{0, 0}, 1, nil, 0); err == nil {
		t.Fatalf("Insert with wrong dimension: expected an error")
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := NewIndex(2, QuantNone)
	if _, err := idx.Search([]float32{0, 0}, 1, DefaultEfSearch); err == nil {
		t.Fatalf("Search on empty index: expected an error")
	}
}

func TestSelfSearchFindsExactMatch(t *testing.T) {
	idx := NewIndex(4, QuantNone)
	vecs := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{1, 1, 0, 0},
		{0, 1, 1, 0},
	}
	for i, v := range vecs {
		if _, err := idx.Insert(v, int64(i), nil, 0); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	for i, v := range vecs {
		results, err := idx.Search(v, 1, DefaultEfSearch)
		if err != nil {
			t.Fatalf("Search(%d): %v", i, err)
		}
		if len(results) != 1 || results[0].Node.ID() != int64(i) {
			t.Errorf("Search(vecs[%d]) top hit = %+v, want id %d", i, results, i)
		}
	}
}

func TestValidateGraphAfterInsertAndDelete(t *testing.T) {
	idx := NewIndex(4, QuantNone)
	ids := make([]*Node, 0, 50)
	for i := 0; i < 50; i++ {
		v := []float32{float32(i), float32(i % 7), float32(i % 3), 1}
		n, err := idx.Insert(v, int64(i), nil, 0)
		if err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
		ids = append(ids, n)
	}

	report := idx.ValidateGraph()
	if report.ConnectedCount != 50 {
		t.Errorf("ConnectedCount = %d, want 50", report.ConnectedCount)
	}
	if !report.AllLinksReciprocal {
		t.Errorf("AllLinksReciprocal = false, failures=%d", report.ReciprocityFailures)
	}

	for i, n := range ids {
		if i%2 == 0 {
			idx.DeleteNode(n, nil)
		}
	}
	if idx.Len() != 25 {
		t.Errorf("Len() = %d, want 25", idx.Len())
	}

	report = idx.ValidateGraph()
	if report.ConnectedCount != 25 {
		t.Errorf("ConnectedCount after delete = %d, want 25", report.ConnectedCount)
	}
}

func TestDeleteDisposerCalled(t *testing.T) {
	idx := NewIndex(2, QuantNone)
	n, _ := idx.Insert([]float32{0, 0}, 1, "payload", 0)

	disposed := make(chan interface{}, 1)
	idx.DeleteNode(n, func(v interface{}) { disposed <- v })

	select {
	case v := <-disposed:
		if v != "payload" {
			t.Errorf("disposer got %v, want \"payload\"", v)
		}
	default:
		t.Fatalf("disposer was never called")
	}
}

func TestInsertOverwrite(t *testing.T) {
	idx := NewIndex(2, QuantNone).WithAllowOverwrite(true)
	if _, err := idx.Insert([]float32{0, 0}, 1, "old", 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := idx.Insert([]float32{5, 5}, 1, "new", 0); err != nil {
		t.Fatalf("Insert with AllowOverwrite: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", idx.Len())
	}

	results, err := idx.Search([]float32{5, 5}, 1, DefaultEfSearch)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Node.Value() != "new" {
		t.Errorf("Search after overwrite = %+v, want payload \"new\"", results)
	}
}

func TestStats(t *testing.T) {
	idx := NewIndex(2, QuantNone)
	for i := 0; i < 10; i++ {
		if _, err := idx.Insert([]float32{float32(i), 0}, int64(i), nil, 0); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	n, _ := idx.Insert([]float32{99, 99}, 10, nil, 0)
	idx.DeleteNode(n, nil)

	stats := idx.Stats()
	if stats.ActiveNodes != 10 {
		t.Errorf("ActiveNodes = %d, want 10", stats.ActiveNodes)
	}
	if stats.DeletedNodes != 1 {
		t.Errorf("DeletedNodes = %d, want 1", stats.DeletedNodes)
	}
	if stats.TotalNodes != 11 {
		t.Errorf("TotalNodes = %d, want 11", stats.TotalNodes)
	}
	if !stats.HasEntryPoint {
		t.Errorf("HasEntryPoint = false, want true")
	}
	if stats.TotalEdges == 0 {
		t.Errorf("TotalEdges = 0, want > 0")
	}
}

func TestFreeCallsDisposerAndResetsIndex(t *testing.T) {
	idx := NewIndex(2, QuantNone)
	for i := 0; i < 5; i++ {
		if _, err := idx.Insert([]float32{float32(i), 0}, int64(i), i, 0); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	var disposed []interface{}
	idx.Free(func(v interface{}) { disposed = append(disposed, v) })

	if len(disposed) != 5 {
		t.Fatalf("disposer called %d times, want 5", len(disposed))
	}
	if idx.Len() != 0 {
		t.Errorf("Len() after Free = %d, want 0", idx.Len())
	}
	if _, err := idx.Search([]float32{0, 0}, 1, DefaultEfSearch); err == nil {
		t.Errorf("Search after Free: expected an error on the now-empty index")
	}
}
