package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teachgen/internal/api"
	"teachgen/internal/api/handlers"
	"teachgen/internal/dto"
	"teachgen/internal/service"
	"teachgen/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, generatorBody string, generatorStatus int) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(generatorStatus)
		_, _ = w.Write([]byte(generatorBody))
	}))
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	renderer := service.NewRenderer()
	pipeline := service.NewPipeline(
		service.NewExtractor(),
		service.NewGeneratorClient(&config.GeneratorConfig{URL: srv.URL, Timeout: 5 * time.Second}, logger),
		renderer,
		config.StreamConfig{},
		logger,
	)

	return api.SetupRouter(handlers.NewPipeHandler(pipeline, renderer, logger), logger)
}

func postPipe(t *testing.T, app *fiber.App, body dto.PipeRequest) (*http.Response, dto.PipeResponse) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out dto.PipeResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestPipeEndpoint(t *testing.T) {
	app := newTestApp(t, `{"teaching_note": {"教学大纲": "A"}}`, http.StatusOK)

	resp, out := postPipe(t, app, dto.PipeRequest{
		UserMessage: "请生成关于牛顿第二定律的教学内容，使用探究式教学法，难度级别为4",
		ModelID:     "teaching-pipeline",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "teaching-pipeline", out.ModelID)
	assert.Equal(t, "markdown", out.Format)
	assert.Contains(t, out.Content, "# 牛顿第二定律 教学设计 (4级)")
	assert.Contains(t, out.Content, "## 教学大纲\nA")
}

func TestPipeEndpointHTMLFormat(t *testing.T) {
	app := newTestApp(t, `{"teaching_note": {"教学大纲": "A"}}`, http.StatusOK)

	resp, out := postPipe(t, app, dto.PipeRequest{
		UserMessage: "请生成关于牛顿第二定律的教学内容，使用探究式教学法",
		Options:     map[string]interface{}{"format": "html"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "html", out.Format)
	assert.Contains(t, out.Content, "<h2>教学大纲</h2>")
}

func TestPipeEndpointFallsBackToLastUserTurn(t *testing.T) {
	app := newTestApp(t, `{"teaching_note": {}}`, http.StatusOK)

	resp, out := postPipe(t, app, dto.PipeRequest{
		Messages: []dto.Message{
			{Role: "assistant", Content: "你好"},
			{Role: "user", Content: "请生成关于光合作用的教学内容，使用讲授式教学法"},
		},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out.Content, "# 光合作用 教学设计 (3级)")
}

func TestPipeEndpointGenerationFailureIsContent(t *testing.T) {
	app := newTestApp(t, "boom", http.StatusInternalServerError)

	resp, out := postPipe(t, app, dto.PipeRequest{
		UserMessage: "请生成关于牛顿第二定律的教学内容，使用探究式教学法",
	})

	// Remote failure still answers 200 with a user-facing string
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "生成教学内容失败: boom", out.Content)
}

func TestPipeEndpointMissingMessage(t *testing.T) {
	app := newTestApp(t, `{}`, http.StatusOK)

	resp, _ := postPipe(t, app, dto.PipeRequest{ModelID: "teaching-pipeline"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPipeStreamEndpoint(t *testing.T) {
	app := newTestApp(t, `{"teaching_note": {"教学大纲": "A"}}`, http.StatusOK)

	payload, err := json.Marshal(dto.PipeRequest{
		UserMessage: "请生成关于牛顿第二定律的教学内容，使用探究式教学法",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipe/stream", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "data: ")
	assert.Contains(t, text, "教学大纲")
	assert.Contains(t, text, "data: [DONE]")
}

func TestPipeEndpointStreamKeywordUpgradesToSSE(t *testing.T) {
	app := newTestApp(t, `{"teaching_note": {"教学大纲": "A"}}`, http.StatusOK)

	payload, err := json.Marshal(dto.PipeRequest{
		UserMessage: "请以流式输出生成关于牛顿第二定律的教学内容，使用探究式教学法",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")
}

func TestPipelineInfoEndpoint(t *testing.T) {
	app := newTestApp(t, `{}`, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pipeline", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var valves service.Valves
	require.NoError(t, json.Unmarshal(body, &valves))
	assert.Equal(t, "教学内容生成器", valves.Name)
	assert.True(t, valves.Enabled)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, `{}`, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
