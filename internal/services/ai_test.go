package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/video-task-dashboard/internal/constants"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/repository"
)

func chatCompletionBody(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1717322400,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
}

func newAIServer(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAIService(AIServiceConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Timeout: 5 * time.Second,
	})
}

func replyWith(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(chatCompletionBody(content)))
	}
}

func recommendationFixture() ([]models.Task, []models.Editor) {
	tasks := []models.Task{
		viewTask("teaser", func(t *models.Task) {
			t.Title = "Product teaser"
			t.EditorID = "1"
			t.IsUrgent = true
			t.Priority = models.PriorityHigh
			t.Progress = 40
		}),
		viewTask("recap", func(t *models.Task) {
			t.Title = "Event recap"
			t.EditorID = "unknown"
		}),
	}
	return tasks, constants.DefaultEditors
}

func TestAIService_Recommend(t *testing.T) {
	var captured map[string]any
	service := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &captured))
		replyWith(t, `{"taskOrdering":"Do the teaser first.","bottleneckAlerts":"Alex is overloaded.","workloadBalance":"Move the recap to Chen."}`)(w, r)
	})
	tasks, editors := recommendationFixture()

	rec, err := service.Recommend(context.Background(), tasks, editors)

	require.NoError(t, err)
	assert.Equal(t, "Do the teaser first.", rec.TaskOrdering)
	assert.Equal(t, "Alex is overloaded.", rec.BottleneckAlerts)
	assert.Equal(t, "Move the recap to Chen.", rec.WorkloadBalance)

	assert.Equal(t, constants.DefaultAIModel, captured["model"])
	format, ok := captured["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestAIService_MissingFieldIsRecommendationError(t *testing.T) {
	service := newAIServer(t, replyWith(t, `{"taskOrdering":"a","workloadBalance":"c"}`))
	store := NewTaskService(repository.NewMemorySnapshotRepository())
	store.Add(CreateTaskInput{Title: "untouched"})
	before := store.Tasks()

	rec, err := service.Recommend(context.Background(), store.Tasks(), constants.DefaultEditors)

	assert.Nil(t, rec)
	var recErr *RecommendationError
	require.True(t, errors.As(err, &recErr))
	assert.Contains(t, recErr.Message, "bottleneckAlerts")
	assert.Equal(t, before, store.Tasks())
}

func TestAIService_InvalidJSONReply(t *testing.T) {
	service := newAIServer(t, replyWith(t, "Sure! Here are my thoughts."))

	_, err := service.Recommend(context.Background(), nil, nil)

	var recErr *RecommendationError
	require.True(t, errors.As(err, &recErr))
	assert.Contains(t, recErr.Message, "not valid JSON")
}

func TestAIService_TransportFailure(t *testing.T) {
	service := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	})

	_, err := service.Recommend(context.Background(), nil, nil)

	var recErr *RecommendationError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, "Failed to get recommendations from AI. Please check the API key and connection.", recErr.Message)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestAIService_NoChoices(t *testing.T) {
	service := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})

	_, err := service.Recommend(context.Background(), nil, nil)

	var recErr *RecommendationError
	require.True(t, errors.As(err, &recErr))
	assert.Contains(t, recErr.Message, "no choices")
}

func TestAIService_NotConfigured(t *testing.T) {
	var service *AIService

	_, err := service.Recommend(context.Background(), nil, nil)

	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
}

func TestAIService_SingleRequestInFlight(t *testing.T) {
	release := make(chan struct{})
	service := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		replyWith(t, `{"taskOrdering":"a","bottleneckAlerts":"b","workloadBalance":"c"}`)(w, r)
	})

	done := make(chan error, 1)
	go func() {
		_, err := service.Recommend(context.Background(), nil, nil)
		done <- err
	}()

	require.Eventually(t, service.busy.Load, time.Second, 5*time.Millisecond)
	_, err := service.Recommend(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrRecommendationInProgress)

	close(release)
	require.NoError(t, <-done)

	_, err = service.Recommend(context.Background(), nil, nil)
	assert.NoError(t, err)
}

func TestBuildRecommendationPrompt(t *testing.T) {
	tasks, editors := recommendationFixture()

	prompt := BuildRecommendationPrompt(tasks, editors)

	assert.Contains(t, prompt, "- Alex Johnson (ID: 1)")
	assert.Contains(t, prompt, "- Samira Khan (ID: 4)")
	assert.Contains(t, prompt, `"Product teaser" (Priority: High, Urgent: true, Deadline: 2025-06-02T20:00:00Z, Assigned to: Alex Johnson, Progress: 40%)`)
	assert.Contains(t, prompt, `"Event recap" (Priority: Medium, Urgent: false`)
	assert.Contains(t, prompt, "Assigned to: Unassigned")
}

func TestParseRecommendation(t *testing.T) {
	valid := `{"taskOrdering":"a","bottleneckAlerts":"b","workloadBalance":"c"}`

	rec, err := ParseRecommendation(valid)
	require.NoError(t, err)
	assert.Equal(t, &Recommendation{TaskOrdering: "a", BottleneckAlerts: "b", WorkloadBalance: "c"}, rec)

	rec, err = ParseRecommendation("```json\n" + valid + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "b", rec.BottleneckAlerts)

	cases := map[string]string{
		`[1,2,3]`: "not a JSON object",
		`{"taskOrdering":"a","bottleneckAlerts":["b"],"workloadBalance":"c"}`: `"bottleneckAlerts" is not a string`,
		`{"taskOrdering":"a","bottleneckAlerts":"b"}`:                          `missing field "workloadBalance"`,
		``: "not valid JSON",
	}
	for input, want := range cases {
		_, err := ParseRecommendation(input)
		var recErr *RecommendationError
		require.True(t, errors.As(err, &recErr), input)
		assert.Contains(t, recErr.Message, want, input)
	}
}
