package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"teachgen/internal/models"
	"teachgen/pkg/config"

	"go.uber.org/zap"
)

// Pipeline metadata exposed to the chat UI layer.
const (
	PipelineName        = "教学内容生成器"
	PipelineDescription = "根据知识点、教学方法和难度级别生成详细的教学设计"
	PipelineHelpText    = "请提供知识点、教学方法和难度级别。例如：'请生成关于牛顿第二定律的教学内容，使用探究式教学法，难度级别为4'"
)

// Progress notices emitted in streaming mode.
const (
	noticeGenerating = "⏳ 正在生成教学内容，请稍候..."
	noticeRetrieving = "🔍 正在检索相关知识..."
	noticeComplete   = "✅ 教学内容生成完成"
)

// Valves is the pipeline's user-visible metadata.
type Valves struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HelpText    string `json:"help_text"`
	Enabled     bool   `json:"enabled"`
}

// Chunk is one streamed fragment of output. Done marks the last chunk of the
// sequence; Err is set instead of propagating when the sequence terminates on
// a failure.
type Chunk struct {
	Content string
	Done    bool
	Err     *PipeError
}

// Pipeline wires extraction, remote generation and rendering into one
// message-driven adapter. Each invocation owns its parameter set and response
// data exclusively; there is no shared mutable state between requests.
type Pipeline struct {
	extractor *Extractor
	generator *GeneratorClient
	renderer  *Renderer
	stream    config.StreamConfig
	logger    *zap.Logger
}

func NewPipeline(
	extractor *Extractor,
	generator *GeneratorClient,
	renderer *Renderer,
	streamCfg config.StreamConfig,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		generator: generator,
		renderer:  renderer,
		stream:    streamCfg,
		logger:    logger,
	}
}

// Valves returns the pipeline metadata.
func (p *Pipeline) Valves() Valves {
	return Valves{
		Name:        PipelineName,
		Description: PipelineDescription,
		HelpText:    PipelineHelpText,
		Enabled:     true,
	}
}

// OnStartup is a log-only lifecycle hook; the pipeline holds no state to
// restore.
func (p *Pipeline) OnStartup() {
	p.logger.Info("Teaching content pipeline started", zap.String("name", PipelineName))
}

// OnShutdown is a log-only lifecycle hook; there is no state to persist.
func (p *Pipeline) OnShutdown() {
	p.logger.Info("Teaching content pipeline stopped", zap.String("name", PipelineName))
}

// StreamRequested reports whether the message asks for incremental output.
func (p *Pipeline) StreamRequested(message string) bool {
	return p.extractor.StreamRequested(message)
}

// Pipe processes one message synchronously and returns the complete markdown
// document. Every failure path returns a user-facing string, never an error:
// missing parameters yield the guidance text, a failed generation yields the
// raw remote response, anything else yields the diagnostic text.
func (p *Pipeline) Pipe(ctx context.Context, userMessage string) string {
	result, perr := p.run(ctx, userMessage)
	if perr != nil {
		return perr.UserMessage()
	}
	return result
}

func (p *Pipeline) run(ctx context.Context, userMessage string) (out string, perr *PipeError) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Pipeline panic", zap.Any("panic", r))
			perr = &PipeError{
				Kind:    ErrUnexpectedFailure,
				Message: fmt.Sprint(r),
				Detail:  string(debug.Stack()),
			}
		}
	}()

	p.logger.Info("Processing user message", zap.Int("length", len(userMessage)))

	params, perr := p.buildParams(userMessage)
	if perr != nil {
		return "", perr
	}

	note, err := p.generator.Generate(ctx, params)
	if err != nil {
		return "", asPipeError(err)
	}

	return p.renderer.RenderMarkdown(params, note), nil
}

func (p *Pipeline) buildParams(userMessage string) (models.RequestParams, *PipeError) {
	params := p.extractor.ExtractParams(userMessage)
	if params.KnowledgePoint == "" || params.TeachingMethod == "" {
		p.logger.Warn("Message is missing required parameters",
			zap.Bool("has_knowledge_point", params.KnowledgePoint != ""),
			zap.Bool("has_teaching_method", params.TeachingMethod != ""),
		)
		return params, &PipeError{
			Kind:    ErrMissingParameters,
			Message: "knowledge point and teaching method are required",
		}
	}

	p.logger.Info("Parameters extracted",
		zap.String("knowledge_point", params.KnowledgePoint),
		zap.String("teaching_method", params.TeachingMethod),
		zap.String("difficulty", params.Difficulty),
		zap.String("api_type", string(params.APIType)),
		zap.Bool("use_advanced_rag", params.UseAdvancedRAG),
		zap.Bool("use_web_search", params.UseWebSearch),
	)
	return params, nil
}

// Stream processes one message and emits the output as a finite sequence of
// chunks: title and wait notice, retrieval progress, then for each section a
// heading chunk followed by one chunk per content line, and a completion
// marker. Failures truncate the sequence with a single error chunk instead of
// propagating. The channel is closed after the final chunk; the consumer may
// stop pulling at any chunk boundary by cancelling ctx.
func (p *Pipeline) Stream(ctx context.Context, userMessage string) <-chan Chunk {
	out := make(chan Chunk)
	go p.streamLoop(ctx, userMessage, out)
	return out
}

func (p *Pipeline) streamLoop(ctx context.Context, userMessage string, out chan<- Chunk) {
	defer close(out)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Pipeline panic in stream", zap.Any("panic", r))
			perr := &PipeError{
				Kind:    ErrUnexpectedFailure,
				Message: fmt.Sprint(r),
				Detail:  string(debug.Stack()),
			}
			p.emit(ctx, out, Chunk{Content: perr.UserMessage(), Done: true, Err: perr})
		}
	}()

	params, perr := p.buildParams(userMessage)
	if perr != nil {
		p.emit(ctx, out, Chunk{Content: perr.UserMessage(), Done: true, Err: perr})
		return
	}

	// Announcing
	if !p.emit(ctx, out, Chunk{Content: p.renderer.Title(params) + "\n\n"}) {
		return
	}
	if !p.emit(ctx, out, Chunk{Content: noticeGenerating + "\n\n"}) {
		return
	}

	// Retrieving
	if !p.emit(ctx, out, Chunk{Content: noticeRetrieving + "\n\n"}) {
		return
	}
	if !p.pause(ctx, p.stream.RetrievalPause) {
		return
	}

	// Invoking
	note, err := p.generator.Generate(ctx, params)
	if err != nil {
		failure := asPipeError(err)
		p.emit(ctx, out, Chunk{Content: failure.UserMessage(), Done: true, Err: failure})
		return
	}

	for _, section := range models.SectionOrder {
		if !p.emit(ctx, out, Chunk{Content: "## " + section + "\n"}) {
			return
		}
		for _, line := range strings.Split(p.renderer.SectionText(note, section), "\n") {
			if !p.emit(ctx, out, Chunk{Content: line + "\n"}) {
				return
			}
			if !p.pause(ctx, p.sectionPause(section)) {
				return
			}
		}
		if !p.emit(ctx, out, Chunk{Content: "\n"}) {
			return
		}
	}

	p.emit(ctx, out, Chunk{Content: noticeComplete, Done: true})
}

// sectionPause returns the pacing for a section: the three design sections
// stream faster than the outline, key/difficult points and references.
func (p *Pipeline) sectionPause(section string) time.Duration {
	switch section {
	case models.SectionIntroDesign, models.SectionKeyPointDesign, models.SectionBreakthroughDesign:
		return p.stream.DesignPause
	default:
		return p.stream.SectionPause
	}
}

// emit delivers one chunk, returning false when the consumer is gone.
func (p *Pipeline) emit(ctx context.Context, out chan<- Chunk, c Chunk) bool {
	select {
	case out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

// pause is a cooperative yield point between chunks.
func (p *Pipeline) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
