package service

import (
	"strings"
	"testing"

	"teachgen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() models.RequestParams {
	return models.RequestParams{
		KnowledgePoint: "牛顿第二定律",
		TeachingMethod: "探究式教学法",
		Difficulty:     "4",
		APIType:        models.APITypeOllama,
	}
}

func TestRenderMarkdownFull(t *testing.T) {
	r := NewRenderer()

	note := models.TeachingNote{}
	for _, section := range models.SectionOrder {
		note[section] = "内容:" + section
	}

	out := r.RenderMarkdown(testParams(), note)

	assert.True(t, strings.HasPrefix(out, "# 牛顿第二定律 教学设计 (4级)\n"))

	// Section headings appear in the fixed order
	last := -1
	for _, section := range models.SectionOrder {
		idx := strings.Index(out, "## "+section+"\n")
		require.GreaterOrEqual(t, idx, 0, "missing section %s", section)
		assert.Greater(t, idx, last)
		last = idx
		assert.Contains(t, out, "## "+section+"\n内容:"+section+"\n")
	}
}

func TestRenderMarkdownPlaceholders(t *testing.T) {
	r := NewRenderer()

	out := r.RenderMarkdown(testParams(), models.TeachingNote{models.SectionOutline: "A"})

	assert.Contains(t, out, "## 教学大纲\nA\n")
	assert.Contains(t, out, "## 教学重点\n未生成\n")
	assert.Contains(t, out, "## 教学难点\n未生成\n")
	assert.Contains(t, out, "## 教学引入设计\n未生成\n")
	assert.Contains(t, out, "## 教学重点讲解设计\n未生成\n")
	assert.Contains(t, out, "## 教学难点突破设计\n未生成\n")
	assert.Contains(t, out, "## 参考资料\n未提供参考资料\n")
}

func TestRenderMarkdownDeterministic(t *testing.T) {
	r := NewRenderer()
	note := models.TeachingNote{models.SectionOutline: "A", models.SectionReferences: "B"}

	first := r.RenderMarkdown(testParams(), note)
	second := r.RenderMarkdown(testParams(), note)
	assert.Equal(t, first, second)
}

func TestToHTML(t *testing.T) {
	r := NewRenderer()

	md := r.RenderMarkdown(testParams(), models.TeachingNote{models.SectionOutline: "A"})
	html, err := r.ToHTML(md)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>牛顿第二定律 教学设计 (4级)</h1>")
	assert.Contains(t, html, "<h2>教学大纲</h2>")
}
