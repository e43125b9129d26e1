package embedding

import (
	"context"
	"math"
	"testing"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(32)
	ctx := context.Background()
	a, err := e.Embed(ctx, "하도급거래 공정화에 관한 법률")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := e.Embed(ctx, "하도급거래 공정화에 관한 법률")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same text must embed identically")
		}
	}
}

func TestHashEmbedder_UnitLength(t *testing.T) {
	e := NewHashEmbedder(32)
	vec, err := e.Embed(context.Background(), "독점규제")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("norm^2 = %v, want 1", sum)
	}
}

func TestHashEmbedder_Dimensions(t *testing.T) {
	if NewHashEmbedder(0).Dimensions() != 256 {
		t.Error("non-positive dimensions should fall back to default")
	}
	e := NewHashEmbedder(64)
	vec, _ := e.Embed(context.Background(), "x")
	if len(vec) != 64 || e.Dimensions() != 64 {
		t.Errorf("dimensions mismatch: %d / %d", len(vec), e.Dimensions())
	}
}

func TestHashEmbedder_EmbedBatch(t *testing.T) {
	e := NewHashEmbedder(16)
	vecs, err := e.EmbedBatch(context.Background(), []string{"가", "나"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
}
