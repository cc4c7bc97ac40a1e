package vector

import "testing"

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	c := []float32{1, 0}

	// Orthogonal vectors -> similarity 0
	if sim, err := CosineSimilarity(a, b); err != nil || sim != 0 {
		t.Fatalf("CosineSimilarity(a,b) = %v, %v; want 0, nil", sim, err)
	}

	// Identical vectors -> similarity 1
	if sim, err := CosineSimilarity(a, c); err != nil || sim != 1 {
		t.Fatalf("CosineSimilarity(a,c) = %v, %v; want 1, nil", sim, err)
	}

	// Dimension mismatch -> error
	if _, err := CosineSimilarity(a, []float32{1}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}

	// Zero magnitude -> error
	if _, err := CosineSimilarity(a, []float32{0, 0}); err == nil {
		t.Fatal("expected zero-magnitude error")
	}
}

func TestL2Distance(t *testing.T) {
	a := []float32{0, 0}
	b := []float32{3, 4}

	d, err := L2Distance(a, b)
	if err != nil {
		t.Fatalf("L2Distance failed: %v", err)
	}
	if d != 5 {
		t.Fatalf("L2Distance(0,0)-(3,4) = %v, want 5", d)
	}
}

func TestDotProduct(t *testing.T) {
	d, err := DotProduct([]float32{1, 2, 3}, []float32{4, 5, 6})
	if err != nil {
		t.Fatalf("DotProduct failed: %v", err)
	}
	if d != 32 {
		t.Fatalf("DotProduct = %v, want 32", d)
	}
	if _, err := DotProduct([]float32{1}, []float32{1, 2}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}
