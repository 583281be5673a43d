package validator

import (
	"errors"
	"testing"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/testutil/pdffixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Code
}

func TestValidateCount(t *testing.T) {
	v := New(50 << 20)
	assert.NoError(t, v.ValidateCount(1))
	assert.Equal(t, CodeNoFile, codeOf(t, v.ValidateCount(0)))
	assert.Equal(t, CodeTooManyFiles, codeOf(t, v.ValidateCount(2)))
}

func TestValidate(t *testing.T) {
	v := New(1 << 20)
	pdf := pdffixture.Minimal(1)

	tests := []struct {
		name        string
		fileName    string
		contentType string
		size        int64
		head        []byte
		code        string
	}{
		{name: "valid", fileName: "report.pdf", contentType: PDFContentType, size: 100, head: pdf},
		{name: "hangul name", fileName: "보고서 2024 (final).PDF", contentType: PDFContentType, size: 100, head: pdf},
		{name: "sniffed octet stream", fileName: "scan_01.pdf", contentType: "application/octet-stream", size: 100, head: pdf},
		{name: "no declared type", fileName: "scan-01.pdf", size: 100, head: pdf},
		{name: "wrong type", fileName: "a.pdf", contentType: "image/png", size: 100, head: pdf, code: CodeInvalidFileType},
		{name: "too large", fileName: "a.pdf", contentType: PDFContentType, size: 2 << 20, head: pdf, code: CodeFileTooLarge},
		{name: "empty", fileName: "a.pdf", contentType: PDFContentType, size: 0, head: nil, code: CodeEmptyFile},
		{name: "empty without declared type", fileName: "a.pdf", size: 0, head: nil, code: CodeEmptyFile},
		{name: "empty octet stream", fileName: "a.pdf", contentType: "application/octet-stream", size: 0, head: []byte{}, code: CodeEmptyFile},
		{name: "special chars", fileName: "a$b.pdf", contentType: PDFContentType, size: 100, head: pdf, code: CodeInvalidFileName},
		{name: "wrong extension", fileName: "a.txt", contentType: PDFContentType, size: 100, head: pdf, code: CodeInvalidFileName},
		{name: "not a pdf body", fileName: "a.pdf", contentType: PDFContentType, size: 100, head: []byte("hello"), code: CodeInvalidFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.fileName, tt.contentType, tt.size, tt.head)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.code, codeOf(t, err))
		})
	}
}

func TestFileTooLargeMessageUsesMegabytes(t *testing.T) {
	v := New(50 << 20)
	err := v.Validate("a.pdf", PDFContentType, 51<<20, pdffixture.Minimal(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "50MB")
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 3, PageCount(pdffixture.Minimal(3)))
	assert.Equal(t, 0, PageCount([]byte("%PDF-1.4 garbage")))
	assert.Equal(t, 0, PageCount(nil))
}
