package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/video-task-dashboard/internal/models"
	"github.com/yukikurage/video-task-dashboard/internal/services"
)

func (suite *TaskHandlerTestSuite) withModelReply(content string) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	suite.T().Cleanup(server.Close)

	suite.ai = services.NewAIService(services.AIServiceConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Timeout: 5 * time.Second,
	})
	suite.buildRouter()
}

func (suite *TaskHandlerTestSuite) TestRecommend_NotConfigured() {
	suite.ai = nil
	suite.buildRouter()

	w := suite.perform("POST", "/api/recommendations", nil)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func (suite *TaskHandlerTestSuite) TestRecommend_Success() {
	suite.createTestTask("teaser", models.PriorityHigh)
	suite.withModelReply(`{"taskOrdering":"Start with the teaser.","bottleneckAlerts":"None.","workloadBalance":"Balanced."}`)

	w := suite.perform("POST", "/api/recommendations", map[string]any{"date": "2025-06-02"})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response services.Recommendation
	suite.decode(w, &response)
	assert.Equal(suite.T(), "Start with the teaser.", response.TaskOrdering)
	assert.Equal(suite.T(), "None.", response.BottleneckAlerts)
	assert.Equal(suite.T(), "Balanced.", response.WorkloadBalance)
}

func (suite *TaskHandlerTestSuite) TestRecommend_MalformedReply() {
	task := suite.createTestTask("teaser", models.PriorityHigh)
	revision := suite.tasks.Revision()
	suite.withModelReply(`{"taskOrdering":"a","workloadBalance":"c"}`)

	w := suite.perform("POST", "/api/recommendations", nil)

	assert.Equal(suite.T(), http.StatusBadGateway, w.Code)
	var response map[string]any
	suite.decode(w, &response)
	assert.Equal(suite.T(), "RECOMMENDATION_FAILED", response["code"])
	assert.Contains(suite.T(), response["message"], "bottleneckAlerts")

	assert.Equal(suite.T(), revision, suite.tasks.Revision())
	stored, _ := suite.tasks.Get(task.ID)
	assert.Equal(suite.T(), task, stored)
}

func (suite *TaskHandlerTestSuite) TestRecommend_InvalidDate() {
	suite.withModelReply(`{}`)

	w := suite.perform("POST", "/api/recommendations", map[string]any{"date": "yesterday"})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestRecommend_ChunkedBodyKeepsDate() {
	suite.withModelReply(`{"taskOrdering":"a","bottleneckAlerts":"b","workloadBalance":"c"}`)

	req := httptest.NewRequest("POST", "/api/recommendations", nil)
	req.Body = io.NopCloser(strings.NewReader(`{"date":"yesterday"}`))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "INVALID_FORMAT")
}

func (suite *TaskHandlerTestSuite) TestRecommend_MalformedBody() {
	suite.withModelReply(`{"taskOrdering":"a","bottleneckAlerts":"b","workloadBalance":"c"}`)

	w := suite.perform("POST", "/api/recommendations", "not an object")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "INVALID_INPUT")
}
