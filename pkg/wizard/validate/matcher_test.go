package validate

import (
	"math"
	"testing"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name  string
		text1 string
		text2 string
		want  float64
	}{
		{"exact", "black", "black", 1.0},
		{"exact after normalization", "  Black ", "black", 1.0},
		{"substring in longer text", "black soil", "black", 0.85},
		{"substring the other way", "lo", "loamy", 0.85},
		{"character overlap", "abc", "cab", 0.7},
		{"no overlap", "xyz", "abc", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fuzzyMatch(tt.text1, tt.text2)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("fuzzyMatch(%q, %q) = %v, want %v", tt.text1, tt.text2, got, tt.want)
			}
		})
	}
}

func TestMatchCanonical(t *testing.T) {
	m := NewMatcher(nil, 0, nil)

	label, score := m.MatchCanonical("Black soil", colorLabels)
	if label != "black" || score != 0.85 {
		t.Errorf("MatchCanonical = (%q, %v), want (black, 0.85)", label, score)
	}

	label, score = m.MatchCanonical("kali", colorLabels)
	if label != "black" || score != 1.0 {
		t.Errorf("MatchCanonical exact synonym = (%q, %v), want (black, 1.0)", label, score)
	}
}

func TestAccepts(t *testing.T) {
	m := NewMatcher(nil, 0, nil)
	if m.Threshold() != DefaultSimilarityThreshold {
		t.Fatalf("Threshold() = %v, want default %v", m.Threshold(), DefaultSimilarityThreshold)
	}
	if !m.Accepts(0.40) {
		t.Error("score at the threshold should be accepted")
	}
	if m.Accepts(0.39) {
		t.Error("score below the threshold should be rejected")
	}

	strict := NewMatcher(nil, 0.90, nil)
	if strict.Accepts(0.85) {
		t.Error("custom threshold not applied")
	}
}

func TestSimilarityWithoutEmbedder(t *testing.T) {
	m := NewMatcher(nil, 0, nil)
	if got := m.Similarity("clay", "clay"); got != 1.0 {
		t.Errorf("Similarity fallback = %v, want 1.0", got)
	}
}
