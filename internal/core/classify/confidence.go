package classify

import "protokoll/internal/core/route"

// Signal weights are fixed constants of the scoring contract.
// There is deliberately no tuning surface for them
const (
	weightExplicitPhrase = 0.9
	weightPerson         = 0.6
	weightCompany        = 0.5
	weightTopic          = 0.3
	weightContextType    = 0.2

	// positionDecay dampens each successive signal's contribution
	positionDecay = 0.3
	// maxConfidence keeps every classified score strictly below the 1.0
	// reserved for the pure default fallback decision
	maxConfidence = 0.99
)

// Confidence folds ordered signals into a single score in [0, 0.99].
// Signal i is scaled by 1/(1+0.3i), so the first signal counts at full
// weight and later evidence counts progressively less. The result is the
// decayed weighted average, capped at 0.99.
// Callers must pass signals in emission order; reordering them changes
// the score
func Confidence(signals []route.Signal) float64 {
	if len(signals) == 0 {
		return 0
	}
	var weighted, scale float64
	for i, s := range signals {
		pf := 1 / (1 + positionDecay*float64(i))
		weighted += s.Weight * pf
		scale += pf
	}
	if scale < 1 {
		scale = 1
	}
	if conf := weighted / scale; conf < maxConfidence {
		return conf
	}
	return maxConfidence
}
