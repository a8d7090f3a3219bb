package vector

import "testing"

func TestCosineSimilarity(t *testing.T) {
	if sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); err != nil || sim != 0 {
		t.Fatalf("orthogonal: got %v, %v; want 0, nil", sim, err)
	}
	if sim, err := CosineSimilarity([]float32{1, 0}, []float32{3, 0}); err != nil || sim != 1 {
		t.Fatalf("parallel: got %v, %v; want 1, nil", sim, err)
	}
	if _, err := CosineSimilarity([]float32{1}, []float32{1, 2}); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
	if _, err := CosineSimilarity(nil, nil); err == nil {
		t.Fatalf("expected empty vector error")
	}
	if _, err := CosineSimilarity([]float32{0, 0}, []float32{1, 1}); err == nil {
		t.Fatalf("expected zero magnitude error")
	}
}

func TestL2Distance(t *testing.T) {
	d, err := L2Distance([]float32{0, 0}, []float32{3, 4})
	if err != nil {
		t.Fatalf("L2Distance failed: %v", err)
	}
	if d != 5 {
		t.Fatalf("L2Distance(0,0)-(3,4) = %v, want 5", d)
	}
	if _, err := L2Distance([]float32{1}, nil); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
