package report

// SoilAnalysis is the narrative assessment section of a report.
type SoilAnalysis struct {
	Assessment string   `json:"assessment"`
	Pros       []string `json:"pros"`
	Cons       []string `json:"cons"`
	Rating     string   `json:"rating"`
}

// CropRecommendation ties a crop to the soil conditions that favor it.
type CropRecommendation struct {
	Crop   string `json:"crop"`
	Reason string `json:"reason"`
	Season string `json:"season"`
}

// FertilizerRecommendation is one amendment with rate and timing.
type FertilizerRecommendation struct {
	Fertilizer  string `json:"fertilizer"`
	Type        string `json:"type"`
	Application string `json:"application"`
	Timing      string `json:"timing"`
	Purpose     string `json:"purpose"`
}

// Report is the complete generated assessment for one finished session.
type Report struct {
	SoilAnalysis              SoilAnalysis               `json:"soilAnalysis"`
	CropRecommendations       []CropRecommendation       `json:"cropRecommendations"`
	FertilizerRecommendations []FertilizerRecommendation `json:"fertilizerRecommendations"`
}

// SoilData is the flattened session input the report agents consume.
type SoilData struct {
	SessionID           string
	Language            string
	SoilColor           string
	MoistureLevel       string
	SoilSmell           string
	PHLevel             string
	SoilType            string
	Earthworms          string
	Location            string
	PreviousFertilizers string
}
