package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fixhub/models"
)

const geminiModel = "gemini-2.5-flash"

const promptTemplate = `You are an expert insurance damage triage assistant.

You receive a description of damage to a household item.
You must output a JSON object that will be used by an insurance claim system.

Input description:
"%s"

Your task:
1. Analyze the damage and provide:
   - issueSummary: A clear, user-friendly 1-2 sentence summary of the problem
   - recommendedFix: Specific repair/replacement action recommended (1-2 sentences)
   - difficulty: one of "easy", "medium", "hard" (repair complexity)
   - urgency: one of "low", "normal", "high" (how quickly it should be addressed)
   - category: one of "appliance", "electronics", "plumbing", "furniture", "other"
   - subCategory: a short specific type (e.g. "dishwasher", "smartphone", "pipe leak")
   - severity: one of "minor", "moderate", "severe"
   - estimatedCost: a **DKK cost range string** like "400–800 DKK" or "1200–2000 DKK"
   - repairOrReplace: one of "repair" or "replace"
   - insuranceSummary: 1–3 sentences in formal insurance language summarizing
     what the customer reports, visible damage, and recommended next step.

2. Guidelines:
   - Difficulty: "easy" for simple fixes, "medium" for standard repairs, "hard" for complex/specialized work
   - Urgency: "high" for safety/water damage, "normal" for functional issues, "low" for cosmetic
   - If damage is cosmetic or small and the device is usable, choose "minor" and "repair".
   - If the device is heavily damaged or likely more expensive to fix than replace, choose "severe" and "replace".

3. Output:
Return ONLY a valid JSON object with these exact keys:

{
  "issueSummary": "string",
  "recommendedFix": "string",
  "difficulty": "easy | medium | hard",
  "urgency": "low | normal | high",
  "category": "appliance | electronics | plumbing | furniture | other",
  "subCategory": "string",
  "severity": "minor | moderate | severe",
  "estimatedCost": "string, e.g. '600–900 DKK'",
  "repairOrReplace": "repair | replace",
  "insuranceSummary": "string"
}`

// requiredKeys is the full key set an AI response must carry, each as a
// non-empty string.
var requiredKeys = []string{
	"issueSummary",
	"recommendedFix",
	"difficulty",
	"urgency",
	"category",
	"subCategory",
	"severity",
	"estimatedCost",
	"repairOrReplace",
	"insuranceSummary",
}

// GeminiAnalyzer implements the AI strategy against Google Gemini.
type GeminiAnalyzer struct {
	model *genai.GenerativeModel
}

// NewGeminiAnalyzer builds a Gemini-backed analyzer.
func NewGeminiAnalyzer(apiKey string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiAnalyzer{model: client.GenerativeModel(geminiModel)}, nil
}

// Analyze sends the fixed prompt, strips any Markdown code fences from the
// response, parses it as JSON and validates every required key. Any
// failure is returned to the caller, who falls back to the mock strategy.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, description string) (models.AnalysisResult, error) {
	var result models.AnalysisResult

	resp, err := g.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(promptTemplate, description)))
	if err != nil {
		return result, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return result, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	raw := stripCodeFences(sb.String())

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return result, fmt.Errorf("AI response was not valid JSON: %w", err)
	}

	for _, key := range requiredKeys {
		val, ok := parsed[key].(string)
		if !ok || val == "" {
			return result, fmt.Errorf("AI response missing or invalid key: %s", key)
		}
	}

	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return result, fmt.Errorf("decode AI response: %w", err)
	}
	return result, nil
}

// stripCodeFences removes a leading ```json (or bare ```) wrapper the
// model sometimes adds around its JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
