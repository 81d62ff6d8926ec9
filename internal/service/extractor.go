package service

import (
	"regexp"
	"strings"

	"teachgen/internal/models"
)

const defaultDifficulty = "3"

const quoteRunes = `"'“”‘’`

// Ordered patterns; the first one that matches wins. The colon forms capture
// up to the next quote, punctuation or line break so a trailing sentence does
// not leak into the value.
var knowledgePointPatterns = []*regexp.Regexp{
	regexp.MustCompile(`关于["'“”‘’]?(.+?)["'“”‘’]?的教学`),
	regexp.MustCompile(`知识点[：:]\s*["'“”‘’]?([^"'“”‘’，。,\n]+)`),
	regexp.MustCompile(`生成(.+?)的教学`),
}

var teachingMethodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`使用["'“”‘’]?(.+?教学法)["'“”‘’]?`),
	regexp.MustCompile(`教学方法[：:]\s*["'“”‘’]?([^"'“”‘’，。,\n]+)`),
	regexp.MustCompile(`采用["'“”‘’]?(.+?教学法)["'“”‘’]?`),
}

var difficultyPattern = regexp.MustCompile(`难度(?:级别)?[为是:：]?\s*(\d+)`)

// Feature flag keyword sets. Flags are independent booleans detected by plain
// substring containment; the Chinese keywords are matched case-sensitively,
// "openai" and "stream" against the lowercased message.
var (
	advancedRAGKeywords = []string{"高级RAG", "高级检索"}
	webSearchKeywords   = []string{"网络搜索", "联网"}
	streamKeywords      = []string{"流式输出", "流式", "stream"}
)

// Extractor derives structured request parameters from a free-text message.
// Extraction is best-effort: ambiguous text silently takes the first
// pattern's result.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractParams bundles all extractions into one immutable parameter set.
// KnowledgePoint and TeachingMethod are empty when no pattern matched;
// validation happens downstream.
func (e *Extractor) ExtractParams(message string) models.RequestParams {
	knowledgePoint, _ := e.ExtractKnowledgePoint(message)
	teachingMethod, _ := e.ExtractTeachingMethod(message)

	return models.RequestParams{
		KnowledgePoint: knowledgePoint,
		TeachingMethod: teachingMethod,
		Difficulty:     e.ExtractDifficulty(message),
		APIType:        e.ExtractAPIType(message),
		UseAdvancedRAG: containsAny(message, advancedRAGKeywords),
		UseWebSearch:   containsAny(message, webSearchKeywords),
	}
}

// ExtractKnowledgePoint returns the subject the teaching content is about.
// ok is false when no pattern matches.
func (e *Extractor) ExtractKnowledgePoint(message string) (string, bool) {
	return firstMatch(knowledgePointPatterns, message)
}

// ExtractTeachingMethod returns the requested pedagogical approach.
func (e *Extractor) ExtractTeachingMethod(message string) (string, bool) {
	return firstMatch(teachingMethodPatterns, message)
}

// ExtractDifficulty returns the difficulty level digits, defaulting to "3".
func (e *Extractor) ExtractDifficulty(message string) string {
	if m := difficultyPattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return defaultDifficulty
}

// ExtractAPIType selects openai when the message mentions it, ollama otherwise.
func (e *Extractor) ExtractAPIType(message string) models.APIType {
	if strings.Contains(strings.ToLower(message), "openai") {
		return models.APITypeOpenAI
	}
	return models.APITypeOllama
}

// StreamRequested reports whether the message asks for incremental output.
func (e *Extractor) StreamRequested(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range streamKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func firstMatch(patterns []*regexp.Regexp, message string) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		value := strings.Trim(strings.TrimSpace(m[1]), quoteRunes)
		if value != "" {
			return value, true
		}
	}
	return "", false
}

func containsAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}
