// Package validator checks PDF uploads before they become OCR jobs. The same
// rules run in the web server and in the API client.
package validator

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	CodeNoFile          = "NO_FILE"
	CodeTooManyFiles    = "TOO_MANY_FILES"
	CodeInvalidFileType = "INVALID_FILE_TYPE"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeEmptyFile       = "EMPTY_FILE"
	CodeInvalidFileName = "INVALID_FILE_NAME"

	PDFContentType = "application/pdf"
)

var (
	pdfMagic         = []byte("%PDF-")
	validNamePattern = regexp.MustCompile(`(?i)^[가-힣a-zA-Z0-9\s\-_().]+\.pdf$`)
)

type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Validator struct {
	maxSize       int64
	acceptedTypes []string
}

func New(maxSize int64) *Validator {
	return &Validator{
		maxSize:       maxSize,
		acceptedTypes: []string{PDFContentType},
	}
}

func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// MaxSizeMB is the size limit rounded to whole megabytes, for messages.
func (v *Validator) MaxSizeMB() int64 {
	return (v.maxSize + (1<<20)/2) / (1 << 20)
}

// ValidateCount enforces exactly one file per upload.
func (v *Validator) ValidateCount(n int) error {
	switch {
	case n == 0:
		return &ValidationError{Code: CodeNoFile, Message: "no file was uploaded"}
	case n > 1:
		return &ValidationError{Code: CodeTooManyFiles, Message: "only one file can be uploaded at a time"}
	}
	return nil
}

// Validate checks name, declared type, size and the leading bytes of the
// content. head may be shorter than the file; only the magic is inspected.
func (v *Validator) Validate(name, contentType string, size int64, head []byte) error {
	// an empty body has nothing to sniff
	if size == 0 {
		return &ValidationError{Code: CodeEmptyFile, Message: "the file is empty"}
	}
	if !v.acceptsType(contentType, head) {
		return &ValidationError{Code: CodeInvalidFileType, Message: "only PDF files can be uploaded"}
	}
	if size > v.maxSize {
		return &ValidationError{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("file size must be %dMB or less", v.MaxSizeMB()),
		}
	}
	if !validNamePattern.MatchString(filepath.Base(name)) {
		return &ValidationError{
			Code:    CodeInvalidFileName,
			Message: "file name may only contain Hangul, Latin letters, digits, spaces and - _ ( ) .",
		}
	}
	if !bytes.HasPrefix(head, pdfMagic) {
		return &ValidationError{Code: CodeInvalidFileType, Message: "file content is not a PDF document"}
	}
	return nil
}

func (v *Validator) acceptsType(contentType string, head []byte) bool {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && v.accepted(mediaType) {
			return true
		}
		if !isGenericType(contentType) {
			return false
		}
	}
	// Declared type missing or generic, fall back to sniffing.
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	return v.accepted(sniffed)
}

func (v *Validator) accepted(mediaType string) bool {
	for _, t := range v.acceptedTypes {
		if strings.EqualFold(t, mediaType) {
			return true
		}
	}
	return false
}

func isGenericType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	return mediaType == "application/octet-stream" || mediaType == "binary/octet-stream"
}
