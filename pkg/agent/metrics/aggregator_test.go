package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAggregator(t *testing.T) {
	tests := []struct {
		name      string
		subScores map[string]float64
		want      float64
	}{
		{
			name:      "empty",
			subScores: nil,
			want:      0,
		},
		{
			name:      "single score",
			subScores: map[string]float64{"accuracy": 0.8},
			want:      0.8,
		},
		{
			name: "mean of several",
			subScores: map[string]float64{
				"accuracy":  1.0,
				"relevance": 0.5,
			},
			want: 0.75,
		},
		{
			name: "out of range inputs are clamped",
			subScores: map[string]float64{
				"a": 1.7,
				"b": -0.3,
			},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeanAggregator{}.Aggregate(tt.subScores)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestWeightedAggregator(t *testing.T) {
	agg := WeightedAggregator{Weights: map[string]float64{
		"accuracy":  3,
		"relevance": 1,
	}}

	got := agg.Aggregate(map[string]float64{
		"accuracy":  1.0,
		"relevance": 0.0,
	})
	assert.InDelta(t, 0.75, got, 1e-9)

	// Unknown names fall back to weight 1.
	got = agg.Aggregate(map[string]float64{
		"tone": 0.6,
	})
	assert.InDelta(t, 0.6, got, 1e-9)

	assert.Zero(t, agg.Aggregate(nil))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-1))
	assert.Equal(t, 0.0, Clamp01(0))
	assert.Equal(t, 0.42, Clamp01(0.42))
	assert.Equal(t, 1.0, Clamp01(1))
	assert.Equal(t, 1.0, Clamp01(2.5))
}
