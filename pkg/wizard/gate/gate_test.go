package gate

import (
	"math"
	"strings"
	"testing"
)

func TestCombined(t *testing.T) {
	p := NewPolicy(0)

	tests := []struct {
		name    string
		signals Signals
		want    float64
	}{
		{"all perfect", Signals{ASR: 1.0, Validator: 1.0, LLM: 1.0}, 1.0},
		{"validator confident only", Signals{ASR: 1.0, Validator: 0.95, LLM: 0}, 0.77},
		{"weak everywhere", Signals{ASR: 0.5, Validator: 0.10, LLM: 0.40}, 0.24},
		{"zero", Signals{}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Combined(tt.signals)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Combined(%+v) = %v, want %v", tt.signals, got, tt.want)
			}
		})
	}
}

func TestShouldAutoFill(t *testing.T) {
	p := NewPolicy(0)

	// Validator confidence short-circuits regardless of the other signals
	if !p.ShouldAutoFill(Signals{ASR: 0, Validator: 0, LLM: 0}, true) {
		t.Error("validator-confident turn must auto-fill")
	}

	// 0.20*1.0 + 0.60*0.70 = 0.62 clears the default threshold
	if !p.ShouldAutoFill(Signals{ASR: 1.0, Validator: ValidatorValueOnly}, false) {
		t.Error("value-only turn with clean ASR should auto-fill")
	}

	// 0.20*1.0 + 0.60*0.10 = 0.26 does not
	if p.ShouldAutoFill(Signals{ASR: 1.0, Validator: ValidatorNone}, false) {
		t.Error("unvalidated turn should not auto-fill")
	}
}

func TestThresholdBoundary(t *testing.T) {
	p := NewPolicy(0.50)
	if p.Threshold() != 0.50 {
		t.Fatalf("Threshold() = %v, want 0.50", p.Threshold())
	}
	// Exactly at the threshold counts as accepted
	if !p.ShouldAutoFill(Signals{Validator: 0.50, ASR: 0.50, LLM: 0.50}, false) {
		t.Error("combined score equal to threshold should auto-fill")
	}
}

func TestNewPolicyDefault(t *testing.T) {
	if p := NewPolicy(-1); p.Threshold() != DefaultAutoFillThreshold {
		t.Errorf("Threshold() = %v, want default", p.Threshold())
	}
}

func TestEstimateLLMConfidence(t *testing.T) {
	long := strings.Repeat("step one dig a small hole. ", 5)

	tests := []struct {
		name       string
		response   string
		chunkCount int
		want       float64
	}{
		{"empty", "", 3, 0.40},
		{"too short", "try again", 3, 0.40},
		{"long and grounded", long, 3, 0.85},
		{"some grounding", "take a handful of soil and press it firmly", 1, 0.70},
		{"no grounding", "take a handful of soil and press it firmly", 0, 0.50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateLLMConfidence(tt.response, tt.chunkCount); got != tt.want {
				t.Errorf("EstimateLLMConfidence(%q, %d) = %v, want %v", tt.response, tt.chunkCount, got, tt.want)
			}
		})
	}
}
