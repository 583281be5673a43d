package services

import (
	"math"
	"strings"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
)

// maxMockPages bounds the size of generated results for long documents.
const maxMockPages = 50

const mockConfidence = 0.95

type mockBlock struct {
	typ        entity.BlockType
	bbox       entity.BBox
	confidence float64
	text       string
}

const (
	mockContact = "Contact:\nName: Gildong Hong\nPhone: 010-1234-5678\nEmail: hong@example.com"
	mockClosing = "This document mixes several kinds of text and layout to exercise OCR accuracy."
)

// mockBlocks are the recognised regions of a page. The contact details and
// closing line appear in the page text only.
var mockBlocks = []mockBlock{
	{
		typ:        entity.BlockTitle,
		bbox:       entity.BBox{50, 50, 500, 100},
		confidence: 0.98,
		text:       "PDF OCR Test Document",
	},
	{
		typ:        entity.BlockParagraph,
		bbox:       entity.BBox{50, 120, 500, 180},
		confidence: 0.96,
		text:       "This is a sample document for testing the PDF OCR feature.",
	},
	{
		typ:        entity.BlockList,
		bbox:       entity.BBox{50, 200, 500, 320},
		confidence: 0.94,
		text:       "Key features:\n• Text extraction\n• Layout analysis\n• Table recognition\n• Image region detection",
	},
	{
		typ:        entity.BlockTable,
		bbox:       entity.BBox{50, 400, 500, 520},
		confidence: 0.91,
		text: "Table example:\n" +
			"Item        Qty    Price\n" +
			"Apple       10     5,000 KRW\n" +
			"Banana      5      3,000 KRW\n" +
			"Orange      8      4,000 KRW\n" +
			"Total       23     12,000 KRW",
	},
}

// mockPageText is the full text of a sample page in reading order.
func mockPageText() string {
	parts := []string{mockBlocks[0].text, mockBlocks[1].text, mockBlocks[2].text, mockContact, mockBlocks[3].text, mockClosing}
	return strings.Join(parts, "\n\n")
}

// BuildMockResult produces the fixed sample extraction for a completed job,
// one identical page per page of the uploaded document.
func BuildMockResult(job *entity.Job, now time.Time) *entity.Result {
	pageCount := job.PageCount
	if pageCount < 1 {
		pageCount = 1
	}
	generated := min(pageCount, maxMockPages)

	pages := make([]entity.Page, 0, generated)
	layout := make([]entity.LayoutElement, 0, generated*len(mockBlocks))
	texts := make([]string, 0, generated)

	for n := 1; n <= generated; n++ {
		blocks := make([]entity.LayoutElement, 0, len(mockBlocks))
		for _, b := range mockBlocks {
			blocks = append(blocks, entity.LayoutElement{
				Type:       b.typ,
				Content:    b.text,
				BBox:       b.bbox,
				Confidence: b.confidence,
				Page:       n,
			})
		}

		text := mockPageText()
		pages = append(pages, entity.Page{
			PageNumber: n,
			Text:       text,
			Confidence: mockConfidence,
			Blocks:     blocks,
		})
		layout = append(layout, blocks...)
		texts = append(texts, text)
	}

	elapsed := now.Sub(time.UnixMilli(job.CreatedAt)).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	return &entity.Result{
		JobID:          job.ID,
		Status:         entity.StatusCompleted,
		ExtractedText:  strings.Join(texts, "\n\n"),
		Pages:          pages,
		LayoutAnalysis: layout,
		Confidence:     mockConfidence,
		ProcessingTime: math.Round(elapsed*10) / 10,
		PageCount:      pageCount,
		Metadata: entity.ResultMetadata{
			FileName:    job.FileName,
			FileSize:    job.FileSize,
			ProcessedAt: now.UTC().Format(time.RFC3339),
		},
	}
}
