package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"teachgen/internal/dto"
	"teachgen/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type PipeHandler struct {
	pipeline *service.Pipeline
	renderer *service.Renderer
	logger   *zap.Logger
}

func NewPipeHandler(pipeline *service.Pipeline, renderer *service.Renderer, logger *zap.Logger) *PipeHandler {
	return &PipeHandler{
		pipeline: pipeline,
		renderer: renderer,
		logger:   logger,
	}
}

// Pipe godoc
// @Summary Generate teaching content
// @Description Extract parameters from the free-text message, call the generation service and return the rendered teaching design. Failures are returned as user-facing content, not as transport errors.
// @Tags pipeline
// @Accept json
// @Produce json
// @Param request body dto.PipeRequest true "User message with routing metadata"
// @Success 200 {object} dto.PipeResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/pipe [post]
func (h *PipeHandler) Pipe(c *fiber.Ctx) error {
	var req dto.PipeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	message := req.ResolveMessage()
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_message is required",
		})
	}

	requestID := uuid.New().String()
	h.logger.Info("Pipe request received",
		zap.String("request_id", requestID),
		zap.String("model_id", req.ModelID),
	)

	// A stream keyword in the message upgrades the response to SSE
	if h.pipeline.StreamRequested(message) {
		return h.streamResponse(c, requestID, message)
	}

	content := h.pipeline.Pipe(c.Context(), message)

	format := req.Format()
	if format == "html" {
		html, err := h.renderer.ToHTML(content)
		if err != nil {
			h.logger.Error("Failed to render HTML", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to render HTML",
			})
		}
		content = html
	} else {
		format = "markdown"
	}

	return c.JSON(dto.PipeResponse{
		ID:      requestID,
		ModelID: req.ModelID,
		Format:  format,
		Content: content,
	})
}

// PipeStream godoc
// @Summary Generate teaching content as a stream
// @Description Same contract as /pipe but the rendered output is delivered incrementally as server-sent events, one data event per chunk, closed by a [DONE] sentinel.
// @Tags pipeline
// @Accept json
// @Produce text/event-stream
// @Param request body dto.PipeRequest true "User message with routing metadata"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} map[string]string
// @Router /api/v1/pipe/stream [post]
func (h *PipeHandler) PipeStream(c *fiber.Ctx) error {
	var req dto.PipeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	message := req.ResolveMessage()
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_message is required",
		})
	}

	requestID := uuid.New().String()
	h.logger.Info("Stream request received",
		zap.String("request_id", requestID),
		zap.String("model_id", req.ModelID),
	)

	return h.streamResponse(c, requestID, message)
}

// streamResponse emits the pipeline's chunk sequence as server-sent events.
func (h *PipeHandler) streamResponse(c *fiber.Ctx, requestID, message string) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// The stream writer runs after this handler returns, so the producer gets
	// its own context; cancelling it on a failed flush stops the goroutine
	// when the client goes away.
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		for chunk := range h.pipeline.Stream(ctx, message) {
			event := dto.StreamEvent{Content: chunk.Content, Done: chunk.Done}
			if chunk.Err != nil {
				event.Error = string(chunk.Err.Kind)
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("Failed to marshal stream event", zap.Error(err))
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				h.logger.Info("Stream consumer disconnected", zap.String("request_id", requestID))
				return
			}
		}

		fmt.Fprint(w, "data: [DONE]\n\n")
		_ = w.Flush()
	}))

	return nil
}

// PipelineInfo godoc
// @Summary Pipeline metadata
// @Description Name, description, usage help and enabled state of the teaching content pipeline.
// @Tags pipeline
// @Produce json
// @Success 200 {object} service.Valves
// @Router /api/v1/pipeline [get]
func (h *PipeHandler) PipelineInfo(c *fiber.Ctx) error {
	return c.JSON(h.pipeline.Valves())
}
