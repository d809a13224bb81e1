package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"argovers-soil-be/pkg/llm"
	"argovers-soil-be/pkg/store"
)

// Agent generation settings. Analysis runs cooler than the two
// recommendation agents.
const (
	analysisTemperature  = 0.3
	recommendTemperature = 0.4
	agentMaxTokens       = 2000

	maxCrops       = 6
	maxFertilizers = 6
	minValidItems  = 3
)

var validRatings = map[string]bool{
	"Excellent": true,
	"Good":      true,
	"Fair":      true,
	"Poor":      true,
}

// Orchestrator runs the three report agents: soil analysis, crop
// recommendations, and fertilizer recommendations. Analysis and crops run
// concurrently; fertilizers wait on crops because the prompt names them.
type Orchestrator struct {
	llmProvider llm.Provider
	logger      *log.Logger
}

func NewOrchestrator(llmProvider llm.Provider, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Generate produces the complete report for one session's soil data.
func (o *Orchestrator) Generate(ctx context.Context, data SoilData) (*Report, error) {
	if o.llmProvider == nil {
		return nil, fmt.Errorf("report generation requires an LLM provider")
	}

	var (
		wg          sync.WaitGroup
		analysis    *SoilAnalysis
		analysisErr error
		crops       []CropRecommendation
		cropsErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		analysis, analysisErr = o.generateSoilAnalysis(ctx, data)
	}()
	go func() {
		defer wg.Done()
		crops, cropsErr = o.generateCropRecommendations(ctx, data)
	}()
	wg.Wait()

	if analysisErr != nil {
		return nil, fmt.Errorf("failed to generate soil analysis: %w", analysisErr)
	}
	if cropsErr != nil {
		return nil, fmt.Errorf("failed to generate crop recommendations: %w", cropsErr)
	}

	fertilizers, err := o.generateFertilizerRecommendations(ctx, data, crops)
	if err != nil {
		return nil, fmt.Errorf("failed to generate fertilizer recommendations: %w", err)
	}

	o.logger.Printf("[INFO] report generated for session %s (%s, %d crops, %d fertilizers)",
		data.SessionID, analysis.Rating, len(crops), len(fertilizers))

	return &Report{
		SoilAnalysis:              *analysis,
		CropRecommendations:       crops,
		FertilizerRecommendations: fertilizers,
	}, nil
}

func (o *Orchestrator) generateSoilAnalysis(ctx context.Context, data SoilData) (*SoilAnalysis, error) {
	system, user := soilAnalysisPrompts(data)

	response, err := o.chat(ctx, system, user, analysisTemperature)
	if err != nil {
		return nil, err
	}

	var analysis SoilAnalysis
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &analysis); err != nil {
		return nil, fmt.Errorf("unparseable analysis response: %w", err)
	}
	if analysis.Assessment == "" || len(analysis.Pros) == 0 || len(analysis.Cons) == 0 {
		return nil, fmt.Errorf("analysis response missing required fields")
	}
	if !validRatings[analysis.Rating] {
		analysis.Rating = "Good"
	}
	return &analysis, nil
}

func (o *Orchestrator) generateCropRecommendations(ctx context.Context, data SoilData) ([]CropRecommendation, error) {
	system, user := cropPrompts(data)

	response, err := o.chat(ctx, system, user, recommendTemperature)
	if err != nil {
		return nil, err
	}

	var raw []CropRecommendation
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &raw); err != nil {
		return nil, fmt.Errorf("unparseable crop response: %w", err)
	}

	var crops []CropRecommendation
	for _, crop := range raw {
		if len(crops) == maxCrops {
			break
		}
		if crop.Crop == "" {
			continue
		}
		if crop.Reason == "" {
			crop.Reason = "Suitable for local conditions"
		}
		if crop.Season == "" {
			crop.Season = "Season varies by region"
		}
		crops = append(crops, crop)
	}
	if len(crops) < minValidItems {
		return nil, fmt.Errorf("too few valid crops: %d", len(crops))
	}
	return crops, nil
}

func (o *Orchestrator) generateFertilizerRecommendations(ctx context.Context, data SoilData, crops []CropRecommendation) ([]FertilizerRecommendation, error) {
	names := make([]string, 0, 3)
	for _, crop := range crops {
		if len(names) == 3 {
			break
		}
		names = append(names, crop.Crop)
	}
	system, user := fertilizerPrompts(data, strings.Join(names, ", "))

	response, err := o.chat(ctx, system, user, recommendTemperature)
	if err != nil {
		return nil, err
	}

	var raw []FertilizerRecommendation
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &raw); err != nil {
		return nil, fmt.Errorf("unparseable fertilizer response: %w", err)
	}

	var fertilizers []FertilizerRecommendation
	for _, fert := range raw {
		if len(fertilizers) == maxFertilizers {
			break
		}
		if fert.Fertilizer == "" {
			continue
		}
		if fert.Type == "" {
			fert.Type = "Chemical"
		}
		if fert.Application == "" {
			fert.Application = "As per soil test"
		}
		if fert.Timing == "" {
			fert.Timing = "As recommended"
		}
		if fert.Purpose == "" {
			fert.Purpose = "Nutrient supplementation"
		}
		fertilizers = append(fertilizers, fert)
	}
	if len(fertilizers) < minValidItems {
		return nil, fmt.Errorf("too few valid fertilizers: %d", len(fertilizers))
	}
	return fertilizers, nil
}

func (o *Orchestrator) chat(ctx context.Context, system, user string, temperature float64) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	return o.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(temperature),
		llm.WithMaxTokens(agentMaxTokens),
	)
}

func orUnknown(value, language string) string {
	if value != "" {
		return value
	}
	if language == store.LanguageHindi {
		return "अज्ञात"
	}
	return "unknown"
}

func orNone(value, language string) string {
	if value != "" {
		return value
	}
	if language == store.LanguageHindi {
		return "कोई नहीं"
	}
	return "none"
}

func soilAnalysisPrompts(data SoilData) (string, string) {
	if data.Language == store.LanguageHindi {
		system := `आप एक मिट्टी विज्ञान विशेषज्ञ हैं जो भारतीय कृषि में विशेषज्ञता रखते हैं।

कार्य: मिट्टी के डेटा का विश्लेषण करें और प्रदान करें:
1) assessment: मिट्टी के स्वास्थ्य का विस्तृत विश्लेषण (3-4 वाक्य) जिसमें रंग, नमी, गंध, pH, मिट्टी का प्रकार, जैविक गतिविधि और स्थान का उल्लेख हो
2) pros: 4-5 सकारात्मक विशेषताएं (छोटे, किसान-अनुकूल बिंदु)
3) cons: 3-4 सीमाएं या चिंताएं
4) rating: इनमें से एक [Excellent, Good, Fair, Poor]

JSON format में return करें:
{"assessment":"...","pros":["..."],"cons":["..."],"rating":"..."}

कोई markdown नहीं, कोई अतिरिक्त keys नहीं। किसानों के लिए सरल भाषा का उपयोग करें।`
		user := fmt.Sprintf(`इस मिट्टी के डेटा का विश्लेषण करें:

मिट्टी का रंग: %s
नमी का स्तर: %s
मिट्टी की गंध: %s
pH स्तर: %s
मिट्टी का प्रकार: %s
केंचुए/जैविक गतिविधि: %s
स्थान: %s
पिछली खाद: %s

JSON format में व्यापक मिट्टी विश्लेषण प्रदान करें।`,
			orUnknown(data.SoilColor, data.Language),
			orUnknown(data.MoistureLevel, data.Language),
			orUnknown(data.SoilSmell, data.Language),
			orUnknown(data.PHLevel, data.Language),
			orUnknown(data.SoilType, data.Language),
			orUnknown(data.Earthworms, data.Language),
			orUnknown(data.Location, data.Language),
			orNone(data.PreviousFertilizers, data.Language))
		return system, user
	}

	system := `You are a soil science expert specializing in Indian agriculture.

Task: Analyze the soil data and provide:
1) assessment: detailed soil-health analysis (3-4 sentences) referencing color, moisture, smell, pH, soil_type, biological_activity, and location
2) pros: list 4-5 positive characteristics (short, farmer-friendly bullets)
3) cons: list 3-4 limitations or concerns
4) rating: one of [Excellent, Good, Fair, Poor]

Return as JSON object exactly:
{"assessment":"...","pros":["..."],"cons":["..."],"rating":"..."}

No markdown, no additional keys. Use simple language for farmers.`
	user := fmt.Sprintf(`Analyze this soil data:

Soil Color: %s
Moisture Level: %s
Soil Smell: %s
pH Level: %s
Soil Type: %s
Earthworms/Biological Activity: %s
Location: %s
Previous Fertilizers: %s

Provide comprehensive soil analysis in JSON format.`,
		orUnknown(data.SoilColor, data.Language),
		orUnknown(data.MoistureLevel, data.Language),
		orUnknown(data.SoilSmell, data.Language),
		orUnknown(data.PHLevel, data.Language),
		orUnknown(data.SoilType, data.Language),
		orUnknown(data.Earthworms, data.Language),
		orUnknown(data.Location, data.Language),
		orNone(data.PreviousFertilizers, data.Language))
	return system, user
}

func cropPrompts(data SoilData) (string, string) {
	location := data.Location
	if location == "" {
		location = "India"
	}

	if data.Language == store.LanguageHindi {
		system := `आप एक कृषि फसल विशेषज्ञ हैं जो भारतीय खेती में विशेषज्ञता रखते हैं।

कार्य: मिट्टी और स्थान के आधार पर 6 फसलों की सिफारिश करें। प्रत्येक फसल के लिए शामिल करें:
- crop: फसल का नाम (हिंदी में)
- reason: एक वाक्य में कारण (मिट्टी के मापदंडों से जुड़ा)
- season: स्थानीय बुवाई का मौसम

JSON array में return करें:
[{"crop":"धान","reason":"...","season":"खरीफ (जून-जुलाई)"}]

कोई markdown नहीं। किसानों के लिए सरल भाषा का उपयोग करें।`
		user := fmt.Sprintf(`इन परिस्थितियों के लिए 6 उपयुक्त फसलों की सिफारिश करें:

मिट्टी का प्रकार: %s
pH स्तर: %s
नमी: %s
स्थान: %s
केंचुए: %s

आवश्यकताएं:
- मिट्टी के प्रकार और pH के लिए उपयुक्त
- स्थान/जलवायु के लिए उपयुक्त
- भारत में आमतौर पर उगाई जाने वाली
- अनाज, दालें, सब्जियां, नकदी फसलों का मिश्रण

6 फसल सिफारिशों के साथ JSON array return करें।`,
			orUnknown(data.SoilType, data.Language),
			orUnknown(data.PHLevel, data.Language),
			orUnknown(data.MoistureLevel, data.Language),
			location,
			orUnknown(data.Earthworms, data.Language))
		return system, user
	}

	system := `You are an agricultural crop specialist with expertise in Indian farming.

Task: Based on soil and location, recommend 6 crops. For each crop include:
- crop: string (crop name in English)
- reason: single-sentence justification tied to soil parameters
- season: local growing season or seeding months

Return as JSON array of objects:
[{"crop":"Rice","reason":"tolerates waterlogged conditions","season":"Kharif (Jun-Jul)"}]

No markdown, no explanations. Use simple language for farmers.`
	user := fmt.Sprintf(`Recommend 6 suitable crops for:

Soil Type: %s
pH Level: %s
Moisture: %s
Location: %s
Earthworms: %s

Requirements:
- Suitable for the soil type and pH
- Appropriate for location/climate
- Commonly grown in India
- Mix of cereals, pulses, vegetables, cash crops

Return JSON array with 6 crop recommendations.`,
		orUnknown(data.SoilType, data.Language),
		orUnknown(data.PHLevel, data.Language),
		orUnknown(data.MoistureLevel, data.Language),
		location,
		orUnknown(data.Earthworms, data.Language))
	return system, user
}

func fertilizerPrompts(data SoilData, cropNames string) (string, string) {
	if data.Language == store.LanguageHindi {
		system := `आप एक उर्वरक और मिट्टी पोषण विशेषज्ञ हैं।

कार्य: 6 उर्वरक सिफारिशें प्रदान करें। प्रत्येक के लिए:
- fertilizer: नाम (जैविक या रासायनिक)
- type: "Organic" या "Chemical"
- application: मात्रा इकाइयों के साथ (जैसे "50 किग्रा/एकड़" या "5 टन/एकड़")
- timing: कब लगाएं (जैसे "बुवाई से पहले", "फूल आने पर")
- purpose: यह उर्वरक क्यों सिफारिश किया गया है

JSON array में return करें:
[{"fertilizer":"गोबर की खाद","type":"Organic","application":"5 टन/एकड़","timing":"बुवाई से पहले","purpose":"..."}]

कोई markdown नहीं। किसानों के लिए सरल भाषा का उपयोग करें।`
		user := fmt.Sprintf(`इन परिस्थितियों के लिए 6 उर्वरकों की सिफारिश करें:

मिट्टी का प्रकार: %s
pH स्तर: %s
पिछली खाद: %s
केंचुए: %s
सिफारिश की गई फसलें: %s

शामिल करें:
- 2-3 जैविक विकल्प (गोबर की खाद, कंपोस्ट, जैव-उर्वरक)
- 3-4 रासायनिक विकल्प (NPK, यूरिया, DAP, सूक्ष्म पोषक तत्व)
- विशिष्ट मात्रा
- स्पष्ट समय

6 उर्वरक सिफारिशों के साथ JSON array return करें।`,
			orUnknown(data.SoilType, data.Language),
			orUnknown(data.PHLevel, data.Language),
			orNone(data.PreviousFertilizers, data.Language),
			orUnknown(data.Earthworms, data.Language),
			cropNames)
		return system, user
	}

	system := `You are a fertilizer and soil nutrition expert.

Task: Provide 6 fertilizer recommendations. For each:
- fertilizer: name (organic or chemical)
- type: "Organic" or "Chemical"
- application: rate with units (e.g., "50 kg/acre" or "5 tons/acre")
- timing: when to apply (e.g., "pre-planting", "at flowering")
- purpose: why this fertilizer is recommended

Return as JSON array:
[{"fertilizer":"Compost","type":"Organic","application":"5 tons/acre","timing":"Pre-planting","purpose":"..."}]

No markdown, no explanations. Use simple language for farmers.`
	user := fmt.Sprintf(`Recommend 6 fertilizers for:

Soil Type: %s
pH Level: %s
Previous Fertilizers: %s
Earthworms: %s
Recommended Crops: %s

Include:
- 2-3 organic options (FYM, compost, bio-fertilizers)
- 3-4 chemical options (NPK, urea, DAP, micronutrients)
- Specific application rates
- Clear timing

Return JSON array with 6 fertilizer recommendations.`,
		orUnknown(data.SoilType, data.Language),
		orUnknown(data.PHLevel, data.Language),
		orNone(data.PreviousFertilizers, data.Language),
		orUnknown(data.Earthworms, data.Language),
		cropNames)
	return system, user
}
