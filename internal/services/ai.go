package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/tidwall/gjson"
	"github.com/yukikurage/video-task-dashboard/internal/constants"
	"github.com/yukikurage/video-task-dashboard/internal/models"
)

var (
	ErrAIServiceNotConfigured   = errors.New("AI service is not configured")
	ErrRecommendationInProgress = errors.New("a recommendation request is already in progress")
)

const (
	fieldTaskOrdering     = "taskOrdering"
	fieldBottleneckAlerts = "bottleneckAlerts"
	fieldWorkloadBalance  = "workloadBalance"
)

var recommendationFields = []string{fieldTaskOrdering, fieldBottleneckAlerts, fieldWorkloadBalance}

// Recommendation is the three-part workload summary produced by the model.
type Recommendation struct {
	TaskOrdering     string `json:"taskOrdering"`
	BottleneckAlerts string `json:"bottleneckAlerts"`
	WorkloadBalance  string `json:"workloadBalance"`
}

// RecommendationError is returned for any failure of the recommendation call.
// Its message is meant to be shown to the user as is.
type RecommendationError struct {
	Message string
	Err     error
}

func (e *RecommendationError) Error() string {
	return e.Message
}

func (e *RecommendationError) Unwrap() error {
	return e.Err
}

// AIService asks an OpenAI-compatible model for workload recommendations.
type AIService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	busy    atomic.Bool
}

// AIServiceConfig holds the connection settings of the recommendation model
type AIServiceConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewAIService(cfg AIServiceConfig) *AIService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = constants.DefaultAIModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.AIRequestTimeout
	}

	return &AIService{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
	}
}

// Recommend sends the current tasks and editor roster to the model and
// returns its parsed recommendation. Only one request runs at a time.
func (s *AIService) Recommend(ctx context.Context, tasks []models.Task, editors []models.Editor) (*Recommendation, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrRecommendationInProgress
	}
	defer s.busy.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, s.buildRequest(tasks, editors))
	if err != nil {
		log.Printf("[ai] recommendation request failed: %v", err)
		return nil, &RecommendationError{
			Message: "Failed to get recommendations from AI. Please check the API key and connection.",
			Err:     err,
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &RecommendationError{Message: "Malformed AI response: no choices returned."}
	}

	return ParseRecommendation(resp.Choices[0].Message.Content)
}

func (s *AIService) buildRequest(tasks []models.Task, editors []models.Editor) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert project manager for a busy video production agency.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildRecommendationPrompt(tasks, editors),
			},
		},
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   constants.AIRecommendationName,
				Schema: recommendationSchema(),
				Strict: true,
			},
		},
	}
}

func recommendationSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			fieldTaskOrdering: {
				Type:        jsonschema.String,
				Description: "Suggestions for prioritizing the next tasks.",
			},
			fieldBottleneckAlerts: {
				Type:        jsonschema.String,
				Description: "Alerts about potential delays or overloaded editors.",
			},
			fieldWorkloadBalance: {
				Type:        jsonschema.String,
				Description: "Recommendations for re-assigning tasks to balance workload.",
			},
		},
		Required:             recommendationFields,
		AdditionalProperties: false,
	}
}

// BuildRecommendationPrompt renders the editor roster and task list into
// the request text.
func BuildRecommendationPrompt(tasks []models.Task, editors []models.Editor) string {
	var b strings.Builder

	b.WriteString("Analyze the following task list and editor assignments.\n")
	b.WriteString("Provide actionable recommendations to optimize the workflow.\n\n")

	b.WriteString("Current Editors:\n")
	for _, e := range editors {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", e.Name, e.ID)
	}

	b.WriteString("\nCurrent Tasks:\n")
	for _, t := range tasks {
		assignee := "Unassigned"
		if editor, ok := models.FindEditor(editors, t.EditorID); ok {
			assignee = editor.Name
		}
		fmt.Fprintf(&b, "- %q (Priority: %s, Urgent: %t, Deadline: %s, Assigned to: %s, Progress: %d%%)\n",
			t.Title, t.Priority, t.IsUrgent, t.Deadline.Format(time.RFC3339), assignee, t.Progress)
	}

	b.WriteString("\nBased on this data, provide:\n")
	b.WriteString("1. Task Ordering: A brief suggestion on the top 3-5 tasks that should be tackled immediately, considering urgency, priority, and deadlines.\n")
	b.WriteString("2. Bottleneck Alerts: Identify any editors who are overloaded or tasks that are at high risk of delay. Mention specific tasks or editors.\n")
	b.WriteString("3. Workload Balance: Suggest any task re-assignments that could balance the workload more effectively and prevent burnout.\n")
	b.WriteString("\nRespond with a JSON object with the string fields taskOrdering, bottleneckAlerts and workloadBalance.\n")

	return b.String()
}

// ParseRecommendation validates the model output against the three-field
// shape and decodes it.
func ParseRecommendation(content string) (*Recommendation, error) {
	content = stripCodeFence(strings.TrimSpace(content))

	if !gjson.Valid(content) {
		return nil, &RecommendationError{Message: "Malformed AI response: reply is not valid JSON."}
	}
	parsed := gjson.Parse(content)
	if !parsed.IsObject() {
		return nil, &RecommendationError{Message: "Malformed AI response: reply is not a JSON object."}
	}

	values := make(map[string]string, len(recommendationFields))
	for _, field := range recommendationFields {
		value := parsed.Get(field)
		if !value.Exists() {
			return nil, &RecommendationError{Message: fmt.Sprintf("Malformed AI response: missing field %q.", field)}
		}
		if value.Type != gjson.String {
			return nil, &RecommendationError{Message: fmt.Sprintf("Malformed AI response: field %q is not a string.", field)}
		}
		values[field] = value.String()
	}

	return &Recommendation{
		TaskOrdering:     values[fieldTaskOrdering],
		BottleneckAlerts: values[fieldBottleneckAlerts],
		WorkloadBalance:  values[fieldWorkloadBalance],
	}, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
