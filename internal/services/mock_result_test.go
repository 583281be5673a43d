package services

import (
	"strings"
	"testing"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMockResult(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	job := &entity.Job{ID: "j1", FileName: "a.pdf", FileSize: 1234, PageCount: 3, CreatedAt: created.UnixMilli()}

	res := BuildMockResult(job, created.Add(2500*time.Millisecond))

	require.Len(t, res.Pages, 3)
	assert.Len(t, res.LayoutAnalysis, 3*4)
	assert.Equal(t, 2.5, res.ProcessingTime)
	assert.Equal(t, 0.95, res.Confidence)
	assert.Equal(t, "2025-03-01T12:00:02Z", res.Metadata.ProcessedAt)
	assert.True(t, strings.HasPrefix(res.ExtractedText, "PDF OCR Test Document"))

	title := res.Pages[1].Blocks[0]
	assert.Equal(t, entity.BlockTitle, title.Type)
	assert.Equal(t, entity.BBox{50, 50, 500, 100}, title.BBox)
	assert.Equal(t, 2, title.Page)

	var types []entity.BlockType
	var boxes []entity.BBox
	for _, b := range res.Pages[0].Blocks {
		types = append(types, b.Type)
		boxes = append(boxes, b.BBox)
	}
	assert.Equal(t, []entity.BlockType{entity.BlockTitle, entity.BlockParagraph, entity.BlockList, entity.BlockTable}, types)
	assert.Equal(t, []entity.BBox{{50, 50, 500, 100}, {50, 120, 500, 180}, {50, 200, 500, 320}, {50, 400, 500, 520}}, boxes)

	text := res.Pages[0].Text
	assert.Contains(t, text, "Email: hong@example.com")
	assert.Less(t, strings.Index(text, "Contact:"), strings.Index(text, "Table example:"))
	assert.True(t, strings.HasSuffix(text, "exercise OCR accuracy."))
}

func TestBuildMockResultCapsPages(t *testing.T) {
	job := &entity.Job{ID: "j2", PageCount: 500}

	res := BuildMockResult(job, time.UnixMilli(0))

	assert.Len(t, res.Pages, maxMockPages)
	assert.Equal(t, 500, res.PageCount)
}
