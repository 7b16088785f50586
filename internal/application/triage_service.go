package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pawfect-care/service-marketplace/internal/domain"
)

const triageModel = "gemini-2.5-flash-lite"

// TriageRequest describes a pet and its symptoms for an urgency assessment.
type TriageRequest struct {
	Species  string `json:"species" binding:"required"`
	AgeYears int    `json:"age_years"`
	Symptoms string `json:"symptoms" binding:"required"`
}

// TriageResult is the structured assessment returned by the model.
type TriageResult struct {
	Urgency        string   `json:"urgency"`
	Recommendation string   `json:"recommendation"`
	WarningSigns   []string `json:"warning_signs"`
	Disclaimer     string   `json:"disclaimer"`
}

// TriageService assesses pet symptom descriptions with the Gemini API and
// returns a structured urgency recommendation. It gives general guidance
// only, never a diagnosis.
type TriageService struct {
	client *genai.Client
	logger *zap.Logger
}

// NewTriageService creates a Gemini-backed triage service.
func NewTriageService(ctx context.Context, apiKey string, logger *zap.Logger) (*TriageService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &TriageService{client: client, logger: logger}, nil
}

// AssessSymptoms asks the model for an urgency assessment of the described
// symptoms. The response is constrained to a fixed JSON shape.
func (s *TriageService) AssessSymptoms(ctx context.Context, req TriageRequest) (*TriageResult, error) {
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, domain.NewValidationError("symptoms description is required")
	}

	prompt := fmt.Sprintf(`You are a veterinary triage assistant. Assess the urgency of the described pet symptoms. Return ONLY valid JSON, no prose.

Pet species: %s
Pet age in years: %d
Symptoms: %s

Required JSON format:
{
  "urgency": string,          // one of: "emergency", "urgent", "routine", "monitor"
  "recommendation": string,   // one short paragraph of plain-language advice
  "warning_signs": [string],  // signs that should escalate the urgency
  "disclaimer": string        // remind the owner this is not a diagnosis
}`, req.Species, req.AgeYears, req.Symptoms)

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	result, err := s.client.Models.GenerateContent(
		ctx,
		triageModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.2)),
		},
	)
	if err != nil {
		s.logger.Error("triage generation failed", zap.Error(err))
		return nil, domain.NewInternalError("triage assistant unavailable")
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, domain.NewInternalError("triage assistant returned no content")
	}
	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, domain.NewInternalError("triage assistant returned an empty response")
	}

	var assessment TriageResult
	if err := json.Unmarshal([]byte(extractJSONFromMarkdown(responseText)), &assessment); err != nil {
		s.logger.Error("failed to parse triage response",
			zap.String("response", responseText),
			zap.Error(err),
		)
		return nil, domain.NewInternalError("triage assistant returned an unreadable response")
	}
	return &assessment, nil
}

// extractJSONFromMarkdown strips markdown code fences the model sometimes
// wraps around its JSON output.
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
