package helper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"argovers-soil-be/pkg/llm"
	"argovers-soil-be/pkg/wizard"
)

type fakeProvider struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestBuildQuery(t *testing.T) {
	got := BuildQuery(wizard.ParamColor, "I can't tell", "en")
	want := "How to identify soil color at home step by step I can't tell"
	if got != want {
		t.Errorf("BuildQuery = %q, want %q", got, want)
	}

	// Unknown language falls back to the raw parameter name
	if got := BuildQuery(wizard.ParamColor, "hmm", "fr"); got != "color hmm" {
		t.Errorf("BuildQuery fallback = %q", got)
	}
}

func TestIsFollowUp(t *testing.T) {
	tests := []struct {
		text     string
		language string
		want     bool
	}{
		{"what comes after Step 2?", "en", true},
		{"I have a problem with this", "en", true},
		{"I don't know", "en", false},
		{"कदम 2 के बाद क्या?", "hi", true},
		{"नहीं पता", "hi", false},
	}
	for _, tt := range tests {
		if got := IsFollowUp(tt.text, tt.language); got != tt.want {
			t.Errorf("IsFollowUp(%q, %s) = %v, want %v", tt.text, tt.language, got, tt.want)
		}
	}
}

func TestGenerateFallbacks(t *testing.T) {
	ctx := context.Background()

	// No provider
	g := NewGenerator(nil, nil)
	if got := g.Generate(ctx, wizard.ParamColor, "help", "en", nil); !strings.Contains(got, "color") {
		t.Errorf("nil-provider fallback = %q", got)
	}

	// Provider error
	g = NewGenerator(&fakeProvider{err: errors.New("down")}, nil)
	if got := g.Generate(ctx, wizard.ParamColor, "मदद", "hi", nil); !strings.Contains(got, "किसान भाई") {
		t.Errorf("hindi fallback = %q", got)
	}

	// Blank response
	g = NewGenerator(&fakeProvider{response: "   "}, nil)
	if got := g.Generate(ctx, wizard.ParamColor, "help", "en", nil); !strings.Contains(got, "try again") {
		t.Errorf("blank-response fallback = %q", got)
	}
}

func TestGenerateTruncatesContext(t *testing.T) {
	ctx := context.Background()
	fake := &fakeProvider{response: "Step 1: take a handful of soil."}
	g := NewGenerator(fake, nil)

	chunks := []string{"chunk one text", "chunk two text", "chunk three text", "chunk four text", "chunk five text"}
	got := g.Generate(ctx, wizard.ParamColor, "how do I check", "en", chunks)
	if got != "Step 1: take a handful of soil." {
		t.Fatalf("Generate = %q", got)
	}
	if strings.Contains(fake.lastPrompt, "chunk four text") {
		t.Error("prompt should only carry the top chunks")
	}
	if !strings.Contains(fake.lastPrompt, "chunk three text") {
		t.Error("prompt missing an expected context chunk")
	}
}
