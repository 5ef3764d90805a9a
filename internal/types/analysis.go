// Package types defines the shared domain types for the competitor monitor.
package types

// TextAnalysis is the structured result of analyzing competitor marketing text.
// It mirrors the JSON object the model is instructed to return.
type TextAnalysis struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	UniqueOffers    []string `json:"unique_offers"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// ImageAnalysis is the structured result of analyzing a competitor image
// (banner, site screenshot, project visualization).
type ImageAnalysis struct {
	Description         string   `json:"description"`
	MarketingInsights   []string `json:"marketing_insights"`
	VisualStyleScore    int      `json:"visual_style_score"`
	VisualStyleAnalysis string   `json:"visual_style_analysis"`
	DesignScore         int      `json:"design_score"`
	AnimationPotential  string   `json:"animation_potential"`
	Recommendations     []string `json:"recommendations"`
}
