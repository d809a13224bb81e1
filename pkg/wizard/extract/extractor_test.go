package extract

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

func TestParseResponse(t *testing.T) {
	expected := []string{"black", "red", "brown", "yellow", "grey"}

	tests := []struct {
		name      string
		response  string
		wantValue string
		wantConf  float64
	}{
		{"exact", "black", "black", 0.95},
		{"exact with punctuation", `"Black".`, "black", 0.95},
		{"exact with whitespace", "  red \n", "red", 0.95},
		{"substring in reply", "the color is brown", "brown", 0.85},
		{"help sentinel", "HELP", "", 0},
		{"none sentinel", "None.", "", 0},
		{"empty response", "   ", "", 0},
		{"unrelated text", "purple", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, conf := parseResponse(tt.response, expected)
			if value != tt.wantValue || conf != tt.wantConf {
				t.Errorf("parseResponse(%q) = (%q, %v), want (%q, %v)",
					tt.response, value, conf, tt.wantValue, tt.wantConf)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	ctx := context.Background()

	e := NewExtractor(&fakeProvider{response: "black"}, nil)
	value, conf := e.Extract(ctx, "my soil is blackish", wizard.ParamColor, "en")
	if value != "black" || conf != 0.95 {
		t.Errorf("Extract = (%q, %v), want (black, 0.95)", value, conf)
	}

	// Open-vocabulary parameters have no expected list, so extraction skips
	// the model entirely.
	value, conf = e.Extract(ctx, "Sonipat", wizard.ParamLocation, "en")
	if value != "" || conf != 0 {
		t.Errorf("Extract(location) = (%q, %v), want empty", value, conf)
	}

	e = NewExtractor(&fakeProvider{err: errors.New("timeout")}, nil)
	value, conf = e.Extract(ctx, "my soil is blackish", wizard.ParamColor, "en")
	if value != "" || conf != 0 {
		t.Errorf("Extract with provider error = (%q, %v), want empty", value, conf)
	}

	e = NewExtractor(nil, nil)
	value, conf = e.Extract(ctx, "black", wizard.ParamColor, "en")
	if value != "" || conf != 0 {
		t.Errorf("Extract without provider = (%q, %v), want empty", value, conf)
	}
}
