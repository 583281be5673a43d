package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	domain "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/service"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/validator"
	"github.com/gin-gonic/gin"
)

const (
	uploadField = "file"
	// multipartOverhead covers boundaries and part headers around the file.
	multipartOverhead = 1 << 20
)

// readUpload opens every file part of the request. The returned func closes
// them and must be called once the files have been consumed.
func readUpload(c *gin.Context, maxSize int64) ([]domain.UploadFile, func(), error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, func() {}, &validator.ValidationError{
				Code:    validator.CodeFileTooLarge,
				Message: fmt.Sprintf("file size must be %dMB or less", maxSize/(1024*1024)),
			}
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, func() {}, &validator.ValidationError{Code: validator.CodeNoFile, Message: "no file was uploaded"}
		}
		return nil, func() {}, fmt.Errorf("parse multipart form: %w", err)
	}

	headers := form.File[uploadField]
	files := make([]domain.UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		files = append(files, domain.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Content:     f,
		})
	}
	return files, closeAll, nil
}
