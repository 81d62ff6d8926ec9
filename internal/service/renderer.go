package service

import (
	"bytes"
	"fmt"
	"strings"

	"teachgen/internal/models"

	"github.com/yuin/goldmark"
)

const (
	placeholderMissing    = "未生成"
	placeholderReferences = "未提供参考资料"
)

// Renderer turns a teaching note into user-facing markdown.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Title renders the document title line.
func (r *Renderer) Title(params models.RequestParams) string {
	return fmt.Sprintf("# %s 教学设计 (%s级)", params.KnowledgePoint, params.Difficulty)
}

// SectionText returns the note's text for a section, or the section's
// placeholder when the service did not produce it.
func (r *Renderer) SectionText(note models.TeachingNote, section string) string {
	if text, ok := note[section]; ok && text != "" {
		return text
	}
	if section == models.SectionReferences {
		return placeholderReferences
	}
	return placeholderMissing
}

// RenderMarkdown builds the complete markdown document: title line followed
// by the seven sections in fixed order. Output is deterministic for identical
// input.
func (r *Renderer) RenderMarkdown(params models.RequestParams, note models.TeachingNote) string {
	var b strings.Builder
	b.WriteString(r.Title(params))
	b.WriteString("\n")
	for _, section := range models.SectionOrder {
		b.WriteString("\n## ")
		b.WriteString(section)
		b.WriteString("\n")
		b.WriteString(r.SectionText(note, section))
		b.WriteString("\n")
	}
	return b.String()
}

// ToHTML converts rendered markdown into HTML for consumers that cannot
// display markdown.
func (r *Renderer) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}
