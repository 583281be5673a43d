// Package view holds presentation helpers shared by the web pages and the CLI.
package view

import (
	"fmt"
	"strings"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
)

type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepUpcoming  StepState = "upcoming"
)

type Step struct {
	Name  string
	State StepState
}

// Clamp limits a progress percentage to 0..100.
func Clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

var blockLabels = map[entity.BlockType]string{
	entity.BlockTitle:     "Title",
	entity.BlockParagraph: "Paragraph",
	entity.BlockList:      "List",
	entity.BlockTable:     "Table",
	entity.BlockImage:     "Image",
	entity.BlockText:      "Text",
	entity.BlockHeader:    "Header",
	entity.BlockFooter:    "Footer",
}

var blockClasses = map[entity.BlockType]string{
	entity.BlockTitle:     "block-title",
	entity.BlockParagraph: "block-paragraph",
	entity.BlockList:      "block-list",
	entity.BlockTable:     "block-table",
	entity.BlockImage:     "block-image",
	entity.BlockText:      "block-text",
	entity.BlockHeader:    "block-header",
	entity.BlockFooter:    "block-footer",
}

// BlockLabel returns the display name of a block type. Unknown types are
// shown as they are.
func BlockLabel(t entity.BlockType) string {
	if l, ok := blockLabels[t]; ok {
		return l
	}
	return string(t)
}

// BlockClass returns the CSS class used to colour a block type.
func BlockClass(t entity.BlockType) string {
	if c, ok := blockClasses[t]; ok {
		return c
	}
	return "block-default"
}

// StepStates marks every step before the current one completed. A finished
// job has all steps completed.
func StepStates(steps []string, current string, status entity.JobStatus) []Step {
	out := make([]Step, len(steps))
	idx := -1
	for i, s := range steps {
		if s == current {
			idx = i
			break
		}
	}

	for i, s := range steps {
		state := StepUpcoming
		switch {
		case status == entity.StatusCompleted:
			state = StepCompleted
		case i < idx:
			state = StepCompleted
		case i == idx:
			state = StepCurrent
		}
		out[i] = Step{Name: s, State: state}
	}
	return out
}

// ProgressBar renders a fixed-width text bar such as "[#####-----]  50%".
func ProgressBar(p float64, width int) string {
	if width < 1 {
		width = 1
	}
	p = Clamp(p)
	filled := int(p / 100 * float64(width))
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("#", filled),
		strings.Repeat("-", width-filled),
		p)
}

// FormatSize prints a byte count the way the upload page shows it.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// TextFileName and JSONFileName name the download artifacts of a result.
func TextFileName(fileName string) string {
	return strings.TrimSuffix(fileName, ".pdf") + "_extracted.txt"
}

func JSONFileName(fileName string) string {
	return strings.TrimSuffix(fileName, ".pdf") + "_result.json"
}
