package report

import (
	"context"
	"strings"
	"sync"
	"testing"

	"argovers-soil-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	analysisJSON = `{"assessment":"Dark loamy soil with good biological activity and near-neutral pH.","pros":["good structure","rich organic matter","active earthworms","neutral pH"],"cons":["moderate drainage","needs micronutrients","location-specific risks"],"rating":"Good"}`

	cropsJSON = `[
		{"crop":"Wheat","reason":"suits loamy soil","season":"Rabi (Nov-Dec)"},
		{"crop":"Rice","reason":"tolerates moisture","season":"Kharif (Jun-Jul)"},
		{"crop":"Mustard","reason":"fits neutral pH","season":"Rabi (Oct-Nov)"},
		{"crop":"","reason":"should be dropped","season":"never"}
	]`

	fertilizersJSON = "```json\n" + `[
		{"fertilizer":"Compost","type":"Organic","application":"5 tons/acre","timing":"Pre-planting","purpose":"organic matter"},
		{"fertilizer":"Urea","type":"","application":"","timing":"","purpose":""},
		{"fertilizer":"DAP","type":"Chemical","application":"50 kg/acre","timing":"At sowing","purpose":"phosphorus"}
	]` + "\n```"
)

// routingProvider answers each agent by its system prompt, the way three
// separately-prompted model calls would.
type routingProvider struct {
	mu          sync.Mutex
	fertPrompt  string
	failAnalysis bool
}

func (p *routingProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return "", nil
}

func (p *routingProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	system := messages[0].Content
	switch {
	case strings.Contains(system, "soil science expert"):
		if p.failAnalysis {
			return "not json at all", nil
		}
		return "Here is the result: " + analysisJSON, nil
	case strings.Contains(system, "crop specialist"):
		return cropsJSON, nil
	default:
		p.mu.Lock()
		p.fertPrompt = messages[1].Content
		p.mu.Unlock()
		return fertilizersJSON, nil
	}
}

func sampleData() SoilData {
	return SoilData{
		SessionID:           "s-1",
		Language:            "en",
		SoilColor:           "black",
		MoistureLevel:       "moist",
		SoilSmell:           "earthy",
		PHLevel:             "7.2",
		SoilType:            "loamy",
		Earthworms:          "many",
		Location:            "sonipat, haryana",
		PreviousFertilizers: "compost",
	}
}

func TestOrchestratorGenerate(t *testing.T) {
	provider := &routingProvider{}
	o := NewOrchestrator(provider, nil)

	report, err := o.Generate(context.Background(), sampleData())
	require.NoError(t, err)

	assert.Equal(t, "Good", report.SoilAnalysis.Rating)
	assert.Len(t, report.SoilAnalysis.Pros, 4)

	// The unnamed crop is dropped, the rest survive
	require.Len(t, report.CropRecommendations, 3)
	assert.Equal(t, "Wheat", report.CropRecommendations[0].Crop)

	// Blank fertilizer fields are filled with defaults
	require.Len(t, report.FertilizerRecommendations, 3)
	urea := report.FertilizerRecommendations[1]
	assert.Equal(t, "Chemical", urea.Type)
	assert.Equal(t, "As per soil test", urea.Application)
	assert.Equal(t, "As recommended", urea.Timing)
	assert.Equal(t, "Nutrient supplementation", urea.Purpose)

	// The fertilizer agent is told which crops were recommended
	assert.Contains(t, provider.fertPrompt, "Wheat, Rice, Mustard")
}

type fixedProvider struct{ response string }

func (p *fixedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.response, nil
}

func (p *fixedProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return p.response, nil
}

func TestOrchestratorInvalidRatingDefaults(t *testing.T) {
	response := `{"assessment":"ok soil","pros":["a"],"cons":["b"],"rating":"Superb"}`
	o := NewOrchestrator(&fixedProvider{response: response}, nil)

	analysis, err := o.generateSoilAnalysis(context.Background(), sampleData())
	require.NoError(t, err)
	assert.Equal(t, "Good", analysis.Rating)
}

func TestOrchestratorAnalysisFailure(t *testing.T) {
	o := NewOrchestrator(&routingProvider{failAnalysis: true}, nil)
	_, err := o.Generate(context.Background(), sampleData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soil analysis")
}

func TestOrchestratorRequiresProvider(t *testing.T) {
	o := NewOrchestrator(nil, nil)
	_, err := o.Generate(context.Background(), sampleData())
	assert.Error(t, err)
}
