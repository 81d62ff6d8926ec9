package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"teachgen/internal/models"
	"teachgen/pkg/config"

	"go.uber.org/zap"
)

// GeneratorClient calls the remote teaching content generation service.
type GeneratorClient struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

func NewGeneratorClient(cfg *config.GeneratorConfig, logger *zap.Logger) *GeneratorClient {
	return &GeneratorClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		logger:     logger,
	}
}

// Generate performs a single POST to the generation endpoint. No retries.
// A non-200 response becomes a generation_failed PipeError carrying the raw
// response body; a response without a teaching_note yields an empty note.
func (c *GeneratorClient) Generate(ctx context.Context, params models.RequestParams) (models.TeachingNote, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call generation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.logger.Error("Generation request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
			zap.String("knowledge_point", params.KnowledgePoint),
		)
		return nil, &PipeError{
			Kind:    ErrGenerationFailed,
			Message: fmt.Sprintf("generation service returned status %d", resp.StatusCode),
			Detail:  string(bodyBytes),
		}
	}

	var genResp struct {
		TeachingNote models.TeachingNote `json:"teaching_note"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}
	if genResp.TeachingNote == nil {
		genResp.TeachingNote = models.TeachingNote{}
	}

	c.logger.Info("Teaching note generated",
		zap.String("knowledge_point", params.KnowledgePoint),
		zap.String("teaching_method", params.TeachingMethod),
		zap.Int("sections", len(genResp.TeachingNote)),
	)

	return genResp.TeachingNote, nil
}
