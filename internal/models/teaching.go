package models

// APIType selects the backend the generation service uses.
type APIType string

const (
	APITypeOpenAI APIType = "openai"
	APITypeOllama APIType = "ollama"
)

// RequestParams is the structured form of a user request. It is built once
// per incoming message by the extractor and immutable afterwards; the JSON
// tags are the wire format of the generation request body.
type RequestParams struct {
	KnowledgePoint string  `json:"knowledge_point"`
	TeachingMethod string  `json:"teaching_method"`
	Difficulty     string  `json:"difficulty"`
	APIType        APIType `json:"api_type"`
	UseAdvancedRAG bool    `json:"use_advanced_rag"`
	UseWebSearch   bool    `json:"use_web_search"`
}

// TeachingNote maps section names to generated text. It is produced entirely
// by the generation service; the adapter only reads it.
type TeachingNote map[string]string

// Teaching note section names, in Chinese as delivered by the generation
// service and rendered to the user.
const (
	SectionOutline            = "教学大纲"
	SectionKeyPoints          = "教学重点"
	SectionDifficultPoints    = "教学难点"
	SectionIntroDesign        = "教学引入设计"
	SectionKeyPointDesign     = "教学重点讲解设计"
	SectionBreakthroughDesign = "教学难点突破设计"
	SectionReferences         = "参考资料"
)

// SectionOrder is the fixed order in which sections are rendered.
var SectionOrder = []string{
	SectionOutline,
	SectionKeyPoints,
	SectionDifficultPoints,
	SectionIntroDesign,
	SectionKeyPointDesign,
	SectionBreakthroughDesign,
	SectionReferences,
}
