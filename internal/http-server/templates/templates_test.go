package templates

import (
	"bytes"
	"testing"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefinesPages(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	for _, name := range []string{"home.html", "process.html", "result.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestHomeRendersError(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "home.html", map[string]any{
		"Version":   "test",
		"MaxSize":   int64(1024),
		"MaxSizeMB": int64(1),
		"Error":     "only PDF files can be uploaded",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "only PDF files can be uploaded")
}

func TestResultRendersBlocks(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	result := &entity.Result{
		ExtractedText: "Hello <world>",
		Confidence:    0.95,
		PageCount:     1,
		Pages: []entity.Page{{
			PageNumber: 1,
			Blocks: []entity.LayoutElement{{
				Type: entity.BlockTable, Content: "cells", Confidence: 0.91, Page: 1,
			}},
		}},
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "result.html", map[string]any{
		"Version": "test",
		"Job":     &entity.Job{ID: "j1", FileName: "scan.pdf"},
		"Result":  result,
		"RawJSON": "{}",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Hello &lt;world&gt;")
	assert.Contains(t, out, "block-table")
	assert.Contains(t, out, "91.0%")
	assert.Contains(t, out, "95.0%")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "95.0%", percent(0.95))
}
