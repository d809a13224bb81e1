package gate

// Fusion weights. The validator dominates because it is deterministic and
// cheap to audit; ASR and the model each contribute a smaller vote.
const (
	WeightASR       = 0.20
	WeightValidator = 0.60
	WeightLLM       = 0.20
)

// DefaultAutoFillThreshold is the combined confidence a turn must reach
// before its value is written into the session without re-asking.
const DefaultAutoFillThreshold = 0.60

// Validator confidence mapping. The validator itself only reports a
// confident/value/none trichotomy; the gate assigns the numbers.
const (
	ValidatorConfident = 0.95
	ValidatorValueOnly = 0.70
	ValidatorNone      = 0.10
)

// Signals carries the per-source confidences for one turn.
type Signals struct {
	ASR       float64
	Validator float64
	LLM       float64
}

// Policy decides whether a turn's extracted value is trustworthy enough
// to auto-fill. The zero value is not usable; construct via NewPolicy.
type Policy struct {
	autoFillThreshold float64
}

func NewPolicy(autoFillThreshold float64) *Policy {
	if autoFillThreshold <= 0 {
		autoFillThreshold = DefaultAutoFillThreshold
	}
	return &Policy{autoFillThreshold: autoFillThreshold}
}

// Combined fuses the three signals into a single confidence, clamped to [0, 1].
func (p *Policy) Combined(s Signals) float64 {
	combined := WeightASR*s.ASR + WeightValidator*s.Validator + WeightLLM*s.LLM
	if combined < 0 {
		return 0
	}
	if combined > 1 {
		return 1
	}
	return combined
}

// ShouldAutoFill accepts a turn when the validator is independently
// confident, regardless of the fused score, or when the fused score
// clears the threshold.
func (p *Policy) ShouldAutoFill(s Signals, validatorConfident bool) bool {
	if validatorConfident {
		return true
	}
	return p.Combined(s) >= p.autoFillThreshold
}

// Threshold reports the configured auto-fill threshold.
func (p *Policy) Threshold() float64 {
	return p.autoFillThreshold
}

// EstimateLLMConfidence scores a generated helper response by its shape.
// There is no ground truth for generation quality, so length plus grounding
// chunk count is the proxy the audit trail records.
func EstimateLLMConfidence(responseText string, chunkCount int) float64 {
	if responseText == "" || len(responseText) < 20 {
		return 0.40
	}
	if chunkCount >= 3 && len(responseText) > 100 {
		return 0.85
	}
	if chunkCount >= 1 {
		return 0.70
	}
	return 0.50
}
