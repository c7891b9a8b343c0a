package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tabiplan/internal/models/db_models"
	"tabiplan/internal/models/request_models"
	"tabiplan/pkg/utils"
)

const plannerMaxAttempts = 3

type PlannerServiceInterface interface {
	GenerateCandidates(ctx context.Context, req request_models.PlanGenerateRequest, catalog []db_models.Spot) ([]request_models.CandidateSpot, error)
}

type GeminiPlannerService struct {
	client *genai.Client
	model  string
}

func NewGeminiPlannerService(apiKey, model string) (PlannerServiceInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiPlannerService{
		client: client,
		model:  model,
	}, nil
}

// GenerateCandidates asks the model for a day-by-day spot selection drawn
// from the given catalog subset. The output is only a proposal; every name
// goes through catalog resolution before it can appear in an itinerary.
func (s *GeminiPlannerService) GenerateCandidates(
	ctx context.Context,
	req request_models.PlanGenerateRequest,
	catalog []db_models.Spot,
) ([]request_models.CandidateSpot, error) {

	if len(catalog) == 0 {
		return nil, utils.ErrPoorQualityInput
	}

	m := s.client.GenerativeModel(s.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.1)
	m.SetTopP(0.5)
	m.SetTopK(20)

	prompt := buildPlannerPrompt(req, catalog)

	var lastErr error
	for attempt := 1; attempt <= plannerMaxAttempts; attempt++ {
		resp, err := m.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = fmt.Errorf("gemini: %w", err)
			log.Printf("plan generation attempt %d failed: %v", attempt, err)
			continue
		}
		if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("no content generated")
			continue
		}

		content := cleanJSONResponse(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))

		candidates, err := parseCandidates(content)
		if err != nil {
			lastErr = err
			log.Printf("plan generation attempt %d returned unparseable JSON: %v", attempt, err)
			continue
		}
		return candidates, nil
	}

	log.Printf("plan generation exhausted %d attempts: %v", plannerMaxAttempts, lastErr)
	return nil, utils.ErrUnexpectedBehaviorOfAI
}

func buildPlannerPrompt(req request_models.PlanGenerateRequest, catalog []db_models.Spot) string {
	var spots strings.Builder
	for _, spot := range catalog {
		fmt.Fprintf(&spots, "- Name:%s | Area:%s | Category:%s | StayMinutes:%d\n",
			spot.Name, spot.Area, spot.Category, spot.DurationMinutes)
	}

	var musts strings.Builder
	for _, p := range req.PendingSpots {
		if p.Name != "" {
			fmt.Fprintf(&musts, "- %s (day %d)\n", p.Name, p.Day)
		}
	}
	if musts.Len() == 0 {
		musts.WriteString("(none)\n")
	}

	themes := strings.Join(req.Themes, ", ")
	if themes == "" {
		themes = "general sightseeing"
	}

	return fmt.Sprintf(`You are planning a %d-day trip to %s. Return **JSON only** matching this schema:
{"spots":[{"name":"<Name from the list>","day":1,"category":"...","startTime":"09:00","durationMinutes":60,"transportMode":"train"}]}

Rules:
- Use ONLY spot names from the list below, copied exactly.
- 3-5 spots per day, day = 1..%d with no gaps.
- Every must-visit spot appears on its requested day.
- Times formatted HH:MM, between %s and %s, no overlaps.
- Themes to favor: %s.

Must-visit spots:
%s
Available spots:
%s
Return JSON only. No comments, no markdown.`,
		req.Days, req.Destination, req.Days,
		orDefault(req.StartTime, "09:00"), orDefault(req.EndTime, "20:00"),
		themes, musts.String(), spots.String())
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func parseCandidates(content string) ([]request_models.CandidateSpot, error) {
	var payload struct {
		Spots []request_models.CandidateSpot `json:"spots"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	if len(payload.Spots) == 0 {
		return nil, fmt.Errorf("plan contains no spots")
	}
	return payload.Spots, nil
}

// cleanJSONResponse strips markdown fences and surrounding prose so the
// payload parses even when the model ignores the JSON-only instruction.
func cleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	if start == -1 {
		return response
	}
	end := strings.LastIndex(response, "}")
	if end <= start {
		return response
	}
	return strings.TrimSpace(response[start : end+1])
}

// Close releases the underlying Gemini connection.
func (s *GeminiPlannerService) Close() error {
	return s.client.Close()
}
