package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	gradingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "grader",
		Subsystem: "ai",
		Name:      "grading_duration_seconds",
		Help:      "Duration of oracle grading requests",
	}, []string{"model"})

	gradingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grader",
		Subsystem: "ai",
		Name:      "grading_failures_total",
		Help:      "Number of oracle grading failures",
	}, []string{"model"})
)

// gradingSchema validates the shape of oracle output. Every key is optional
// (missing keys are defaulted afterwards) but a present key of the wrong type
// fails the whole response.
var gradingSchema = jsonschema.MustCompileString("grading.json", `{
	"type": "object",
	"properties": {
		"score": {"type": "number"},
		"max_score": {"type": "number"},
		"feedback": {"type": "string"},
		"summary": {"type": "string"}
	}
}`)

const (
	defaultFeedback = "No feedback provided."
	defaultSummary  = "No summary provided."
)

// OpenAIConfig defines configuration options for the OpenAI grader.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGrader implements Grader against the OpenAI chat completion API.
type OpenAIGrader struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGrader builds a new grader using the provided configuration.
func NewOpenAIGrader(cfg OpenAIConfig) (*OpenAIGrader, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 768
	}

	tracer := otel.Tracer("github.com/daehan-coding/grader-go-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIGrader{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Grade sends the grading prompt to OpenAI and normalizes the response into a
// GradingResult. Missing keys in the oracle payload are defaulted; anything
// else wrong with the payload is an error for the caller to absorb.
func (g *OpenAIGrader) Grade(parent context.Context, input GradingInput) (GradingResult, error) {
	model := g.model(input)

	ctx, span := g.tracer.Start(parent, "openai.grade", trace.WithAttributes(
		attribute.String("model", model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: UserPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	gradingDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		gradingFailures.WithLabelValues(model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GradingResult{}, fmt.Errorf("openai grade: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		gradingFailures.WithLabelValues(model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GradingResult{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := parseGradingResponse(content, input.MaxScore)
	if err != nil {
		gradingFailures.WithLabelValues(model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return GradingResult{}, err
	}

	result.Model = resp.Model
	if result.Model == "" {
		result.Model = model
	}
	result.Raw = map[string]interface{}{
		"usage": resp.Usage,
	}

	return result, nil
}

func (g *OpenAIGrader) model(input GradingInput) string {
	if strings.TrimSpace(input.Model) != "" {
		return strings.TrimSpace(input.Model)
	}
	return g.cfg.Model
}

func parseGradingResponse(content string, problemMax float64) (GradingResult, error) {
	var decoded interface{}
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return GradingResult{}, fmt.Errorf("parse grading json: %w", err)
	}

	if err := gradingSchema.Validate(decoded); err != nil {
		return GradingResult{}, fmt.Errorf("validate grading json: %w", err)
	}

	payload, ok := decoded.(map[string]interface{})
	if !ok {
		return GradingResult{}, fmt.Errorf("grading payload is not a json object")
	}

	fallbackMax := problemMax
	if fallbackMax <= 0 {
		fallbackMax = 10
	}

	result := GradingResult{
		Score:    numberKey(payload, "score", 0),
		MaxScore: numberKey(payload, "max_score", fallbackMax),
		Feedback: stringKey(payload, "feedback", defaultFeedback),
		Summary:  stringKey(payload, "summary", defaultSummary),
	}

	if result.Score < 0 {
		result.Score = 0
	}

	return result, nil
}

func numberKey(payload map[string]interface{}, key string, fallback float64) float64 {
	value, ok := payload[key]
	if !ok {
		return fallback
	}
	number, ok := value.(float64)
	if !ok {
		return fallback
	}
	return number
}

func stringKey(payload map[string]interface{}, key string, fallback string) string {
	value, ok := payload[key]
	if !ok {
		return fallback
	}
	text, ok := value.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}
