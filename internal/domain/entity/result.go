package entity

type BlockType string

const (
	BlockTitle     BlockType = "title"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockTable     BlockType = "table"
	BlockImage     BlockType = "image"
	BlockText      BlockType = "text"
	BlockHeader    BlockType = "header"
	BlockFooter    BlockType = "footer"
)

// BlockTypes lists the layout block types in display order.
var BlockTypes = []BlockType{
	BlockTitle, BlockParagraph, BlockList, BlockTable, BlockImage,
	BlockText, BlockHeader, BlockFooter,
}

// BBox is [x1, y1, x2, y2] in page coordinates.
type BBox [4]float64

type LayoutElement struct {
	Type       BlockType `json:"type"`
	Content    string    `json:"content"`
	BBox       BBox      `json:"bbox"`
	Confidence float64   `json:"confidence"`
	Page       int       `json:"page"`
}

type Page struct {
	PageNumber int             `json:"pageNumber"`
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"`
	Blocks     []LayoutElement `json:"blocks"`
}

type ResultMetadata struct {
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ProcessedAt string `json:"processedAt"`
}

// Result is the extraction output of a completed job.
type Result struct {
	JobID          string          `json:"jobId"`
	Status         JobStatus       `json:"status"`
	ExtractedText  string          `json:"extractedText"`
	Pages          []Page          `json:"pages"`
	LayoutAnalysis []LayoutElement `json:"layoutAnalysis"`
	Confidence     float64         `json:"confidence"`
	ProcessingTime float64         `json:"processingTime"`
	PageCount      int             `json:"pageCount"`
	Metadata       ResultMetadata  `json:"metadata"`
}
