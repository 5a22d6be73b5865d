package search

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/memdex/internal/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero norm a", []float32{0, 0}, []float32{1, 1}, 0},
		{"zero norm b", []float32{1, 1}, []float32{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cosineSimilarity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2})
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}

	var dm *domain.DimensionMismatchError
	if !errors.As(err, &dm) {
		t.Fatal("expected DimensionMismatchError")
	}
	if dm.Want != 3 || dm.Got != 2 {
		t.Errorf("dims = %d/%d, want 3/2", dm.Want, dm.Got)
	}
}

func TestCombineScores(t *testing.T) {
	w := DefaultHybridWeights()
	lexical := map[string]float64{"both": 2.0, "lex-only": 1.5}
	semantic := map[string]float64{"both": 0.8, "sem-only": 0.9}

	combined := combineScores(lexical, semantic, w)

	if len(combined) != 3 {
		t.Fatalf("len = %d, want 3", len(combined))
	}

	checks := map[string]float64{
		"both":     2.0*w.Lexical + 0.8*w.Semantic,
		"lex-only": 1.5 * w.Lexical,
		"sem-only": 0.9 * w.Semantic,
	}
	for id, want := range checks {
		if got := combined[id]; math.Abs(got-want) > 1e-9 {
			t.Errorf("combined[%s] = %f, want %f", id, got, want)
		}
	}
}

func TestCombineScores_Empty(t *testing.T) {
	combined := combineScores(nil, nil, DefaultHybridWeights())
	if len(combined) != 0 {
		t.Errorf("len = %d, want 0", len(combined))
	}
}
