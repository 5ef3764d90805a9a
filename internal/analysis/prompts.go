// Package analysis - prompts.go holds the domain-specialized instruction
// prompts. The service targets competitors in the field of author
// supervision of construction projects in Belarus, so the prompts anchor
// the model in that industry.
package analysis

import "fmt"

const textSystemPrompt = `You are an expert in marketing analysis and competitive intelligence for the construction and author supervision industry in the Republic of Belarus. You know the specifics of the Belarusian construction market, its regulatory framework (SNB, TKP), licensing requirements and the particulars of working with state customers. Always respond with valid JSON only.`

const imageSystemPrompt = `You are an expert in visual analysis for the construction and architecture industry. You specialize in evaluating construction projects, advertising materials of construction companies and author supervision in the Republic of Belarus. You can assess the potential of materials for creating animations and visualizations.`

// buildTextPrompt embeds the competitor text into the fixed analysis
// instruction with the expected JSON shape.
func buildTextPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following competitor text from the field of author supervision of construction projects in the Republic of Belarus and provide a structured analysis in JSON format.

Text to analyze:
%s

Focus on the specifics of the Belarusian construction industry:
- Regulatory framework (SNB, TKP, SNiP)
- Licensing and SRO approvals
- Quality of materials and technologies
- Compliance with standards and requirements
- Experience with state customers
- Regional specifics of construction in Belarus

Return a JSON object with the following structure:
{
    "strengths": ["strength 1", "strength 2"],
    "weaknesses": ["weakness 1", "weakness 2"],
    "unique_offers": ["unique offer 1", "unique offer 2"],
    "recommendations": ["recommendation 1", "recommendation 2"],
    "summary": "a short overall summary of the analysis focused on the construction specifics of Belarus"
}

Important: return ONLY valid JSON, with no additional text.`, text)
}

// imagePrompt is the fixed instruction for image analysis.
const imagePrompt = `Analyze this image from the marketing and visual style perspective of a competitor in the field of author supervision of construction projects in the Republic of Belarus.

The image may contain:
- Photos of construction sites and construction processes
- Project documentation, drawings, diagrams
- Advertising materials, banners, presentations
- Infographics about construction services

Return a JSON object with the following structure:
{
    "description": "a detailed description of the image focused on construction specifics",
    "marketing_insights": ["insight 1", "insight 2"],
    "visual_style_score": 7,
    "visual_style_analysis": "a detailed analysis of the visual style of the service presentation",
    "design_score": 8,
    "animation_potential": "a description of the potential for creating animation, 3D visualization or interactive presentations of construction processes or projects",
    "recommendations": ["recommendation 1", "recommendation 2"]
}

Evaluation criteria:
- visual_style_score (0-10): overall attractiveness and professionalism of the visual style
- design_score (0-10): quality of the architectural/design solution, if the image contains project solutions or object visualizations
- animation_potential: assess whether the image/concept can be used for animation (construction processes, project evolution, interactive presentations)

Important:
- All scores are numbers from 0 to 10
- animation_potential is a textual assessment of the potential
- Return ONLY valid JSON, with no additional text`
