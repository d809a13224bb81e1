package intent

import (
	"context"
	"errors"
	"testing"

	"argovers-soil-be/pkg/llm"
	"argovers-soil-be/pkg/wizard"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func TestClassifyDeterministicStages(t *testing.T) {
	c := NewClassifier(nil, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		text       string
		param      wizard.Parameter
		language   string
		wantIntent string
		wantConf   float64
	}{
		{"name is an answer", "Ramesh Kumar", wizard.ParamName, "en", IntentAnswer, 0.99},
		{"name help request falls through", "I don't know", wizard.ParamName, "en", IntentHelpRequest, 0.95},
		{"vocabulary hit", "it looks black to me", wizard.ParamColor, "en", IntentAnswer, 0.95},
		{"hindi vocabulary hit", "काली मिट्टी", wizard.ParamColor, "hi", IntentAnswer, 0.95},
		{"standalone help phrase", "not sure", wizard.ParamColor, "en", IntentHelpRequest, 0.95},
		{"hindi standalone help", "नहीं पता", wizard.ParamMoisture, "hi", IntentHelpRequest, 0.95},
		{"follow-up question", "what about the problem underneath", wizard.ParamColor, "en", IntentHelpRequest, FollowUpConfidence},
		{"short utterance defaults to answer", "ok fine", wizard.ParamColor, "en", IntentAnswer, 0.85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, conf := c.Classify(ctx, tt.text, tt.param, tt.language)
			if intent != tt.wantIntent || conf != tt.wantConf {
				t.Errorf("Classify(%q, %s) = (%s, %v), want (%s, %v)",
					tt.text, tt.param, intent, conf, tt.wantIntent, tt.wantConf)
			}
		})
	}
}

func TestClassifyLocationProbes(t *testing.T) {
	c := NewClassifier(nil, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		wantConf float64
	}{
		{"multi-word sentence", "Sonipat village near Haryana", 0.99},
		{"indicator word", "in Delhi", 0.98},
		{"capitalized proper noun", "Delhi", 0.97},
		{"plausible lowercase place", "ramgarh", 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, conf := c.Classify(ctx, tt.text, wizard.ParamLocation, "en")
			if intent != IntentAnswer || conf != tt.wantConf {
				t.Errorf("Classify(%q, location) = (%s, %v), want (answer, %v)", tt.text, intent, conf, tt.wantConf)
			}
		})
	}

	// Explicit help on location bypasses every probe
	intent, conf := c.Classify(ctx, "don't know", wizard.ParamLocation, "en")
	if intent != IntentHelpRequest || conf != 0.95 {
		t.Errorf("Classify(don't know, location) = (%s, %v), want (help_request, 0.95)", intent, conf)
	}
}

func TestClassifyModelVerdict(t *testing.T) {
	ctx := context.Background()

	c := NewClassifier(&fakeProvider{response: "HELP"}, nil)
	intent, conf := c.Classify(ctx, "the surface layer confuses me completely", wizard.ParamColor, "en")
	if intent != IntentHelpRequest || conf != 0.90 {
		t.Errorf("model HELP verdict = (%s, %v), want (help_request, 0.90)", intent, conf)
	}

	c = NewClassifier(&fakeProvider{response: " answer\n"}, nil)
	intent, conf = c.Classify(ctx, "the surface layer confuses me completely", wizard.ParamColor, "en")
	if intent != IntentAnswer || conf != 0.90 {
		t.Errorf("model ANSWER verdict = (%s, %v), want (answer, 0.90)", intent, conf)
	}
}

func TestClassifyKeywordFallback(t *testing.T) {
	ctx := context.Background()
	c := NewClassifier(&fakeProvider{err: errors.New("model unavailable")}, nil)

	intent, conf := c.Classify(ctx, "please explain this thing to me", wizard.ParamColor, "en")
	if intent != IntentHelpRequest || conf != 0.70 {
		t.Errorf("fallback help = (%s, %v), want (help_request, 0.70)", intent, conf)
	}

	intent, conf = c.Classify(ctx, "the ground seems quite unusual", wizard.ParamColor, "en")
	if intent != IntentAnswer || conf != 0.60 {
		t.Errorf("fallback answer = (%s, %v), want (answer, 0.60)", intent, conf)
	}
}
