package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Axolotls/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const geminiModelName = "gemini-1.5-flash"

// Upstream calls are bounded; a timeout degrades to the fail-safe result.
const geminiCallTimeout = 60 * time.Second

// Fixed strings surfaced to students when the model cannot be used. These are
// part of the API contract, not just log noise.
const (
	FeedbackUnavailable = "Sorry, an error occurred while getting feedback."
	FeedbackMissing     = "Could not generate feedback."
	GradeError          = "Error"
	GradeUnknown        = "N/A"
)

// GeminiLLMService wraps every generative-model interaction: grading student
// answers, judging AI authorship, and summarizing answer batches. All three
// swallow upstream failures and return degraded results instead of errors.
type GeminiLLMService interface {
	EvaluateAnswer(ctx context.Context, aiPrompt, studentAnswer string) (feedback string, grade string)
	ClassifyAuthorship(ctx context.Context, studentAnswer string) bool
	SummarizeAnswers(ctx context.Context, answers []string) string
	ListModels(ctx context.Context) ([]string, error)
}

type geminiLLMService struct {
	client *genai.Client
	model  *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiLLMService(cfg *config.Config) (GeminiLLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return &geminiLLMService{cfg: cfg}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiLLMService{client: client, model: client.GenerativeModel(geminiModelName), cfg: cfg}, nil
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// extractJSONObject pulls a JSON object out of a model reply that may be
// wrapped in a markdown code fence. Unfenced replies are returned trimmed.
func extractJSONObject(raw string) string {
	if m := fencedJSONRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}

// generateText runs one bounded model call and concatenates the text parts of
// the first candidate.
func (s *geminiLLMService) generateText(ctx context.Context, prompt string) (string, error) {
	if s.model == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	callCtx, cancel := context.WithTimeout(ctx, geminiCallTimeout)
	defer cancel()

	resp, err := s.model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text.String(), nil
}

// EvaluateAnswer grades a student answer against the question's rubric. The
// model must reply with one JSON object carrying "grade" and "feedback";
// absent keys default independently, and any failure yields the fixed
// apology with grade "Error".
func (s *geminiLLMService) EvaluateAnswer(ctx context.Context, aiPrompt, studentAnswer string) (string, string) {
	var prompt strings.Builder
	prompt.WriteString(aiPrompt)
	prompt.WriteString("\n---\nTASK:\n")
	prompt.WriteString("Based on the rubric and guidelines above, analyze the following student's answer.\n")
	prompt.WriteString("You MUST respond with only a valid JSON object containing two keys:\n")
	prompt.WriteString("1. \"grade\": A string classifying the student's performance.\n")
	prompt.WriteString("2. \"feedback\": A string containing helpful, warm, and encouraging feedback.\n\n")
	prompt.WriteString(fmt.Sprintf("Student's answer: %q\n", studentAnswer))

	raw, err := s.generateText(ctx, prompt.String())
	if err != nil {
		log.Error().Err(err).Msg("EvaluateAnswer: model call failed")
		return FeedbackUnavailable, GradeError
	}

	var parsed struct {
		Grade    string `json:"grade"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("EvaluateAnswer: model reply was not valid JSON")
		return FeedbackUnavailable, GradeError
	}

	grade := parsed.Grade
	if grade == "" {
		grade = GradeUnknown
	}
	feedback := parsed.Feedback
	if feedback == "" {
		feedback = FeedbackMissing
	}
	return feedback, grade
}

// ClassifyAuthorship asks the model whether the answer reads as AI-written.
// Any failure reports false so submissions are never blocked.
func (s *geminiLLMService) ClassifyAuthorship(ctx context.Context, studentAnswer string) bool {
	var prompt strings.Builder
	prompt.WriteString("You are an expert text classifier. Your task is to determine if the following student's response was likely written by an AI or a human.\n")
	prompt.WriteString("You must respond with only a valid JSON object containing a single key: \"classification\".\n")
	prompt.WriteString("The value for \"classification\" must be one of two strings: \"AI\" or \"Human\".\n\n")
	prompt.WriteString("Example Response:\n{\n  \"classification\": \"AI\"\n}\n\n")
	prompt.WriteString("Now, analyze the following text:\n---\n")
	prompt.WriteString(fmt.Sprintf("Student's text: %q\n---\n", studentAnswer))

	raw, err := s.generateText(ctx, prompt.String())
	if err != nil {
		log.Warn().Err(err).Msg("ClassifyAuthorship: model call failed, defaulting to human")
		return false
	}

	var parsed struct {
		Classification string `json:"classification"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("ClassifyAuthorship: model reply was not valid JSON, defaulting to human")
		return false
	}
	return strings.EqualFold(parsed.Classification, "ai")
}

// SummarizeAnswers produces the instructor-facing narrative over a batch of
// answers. The caller is expected to short-circuit empty batches.
func (s *geminiLLMService) SummarizeAnswers(ctx context.Context, answers []string) string {
	joined := strings.Join(answers, "\n\n---\n\n")

	var prompt strings.Builder
	prompt.WriteString("You are an expert teaching assistant. Below is a collection of student answers to the same question.\n")
	prompt.WriteString("Write a concise summary for the instructor covering:\n")
	prompt.WriteString("1. Overall performance: categorize how the class did as a whole.\n")
	prompt.WriteString("2. Common confusions: recurring mistakes or misconceptions.\n")
	prompt.WriteString("3. Notable answers: anything unusually strong or unusually weak worth a closer look.\n\n")
	prompt.WriteString("Here are the student answers to analyze:\n---\n")
	prompt.WriteString(joined)
	prompt.WriteString("\n---\n")

	summary, err := s.generateText(ctx, prompt.String())
	if err != nil {
		log.Error().Err(err).Msg("SummarizeAnswers: model call failed")
		return fmt.Sprintf("Error generating summary: %s", err.Error())
	}
	return summary
}

// ListModels is a connectivity probe for the diagnostics endpoint.
func (s *geminiLLMService) ListModels(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	callCtx, cancel := context.WithTimeout(ctx, geminiCallTimeout)
	defer cancel()

	var names []string
	it := s.client.ListModels(callCtx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		names = append(names, m.Name)
	}
	return names, nil
}
