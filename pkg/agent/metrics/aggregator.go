package metrics

// Aggregator folds sub-scores into a single metric value in [0,1]. The
// recorder takes it as a dependency so scoring policy can change without
// touching persistence.
type Aggregator interface {
	Aggregate(subScores map[string]float64) float64
}

// MeanAggregator is the default policy: the unweighted mean of all
// sub-scores.
type MeanAggregator struct{}

func (MeanAggregator) Aggregate(subScores map[string]float64) float64 {
	if len(subScores) == 0 {
		return 0
	}
	var sum float64
	for _, score := range subScores {
		sum += Clamp01(score)
	}
	return Clamp01(sum / float64(len(subScores)))
}

// WeightedAggregator weights sub-scores by name; unknown names fall back to
// weight 1.
type WeightedAggregator struct {
	Weights map[string]float64
}

func (a WeightedAggregator) Aggregate(subScores map[string]float64) float64 {
	if len(subScores) == 0 {
		return 0
	}
	var sum, totalWeight float64
	for name, score := range subScores {
		weight, ok := a.Weights[name]
		if !ok {
			weight = 1
		}
		sum += Clamp01(score) * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return Clamp01(sum / totalWeight)
}

// Clamp01 bounds a score to [0,1]. Every score that leaves this package
// goes through it.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
