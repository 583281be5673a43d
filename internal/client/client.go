// Package client talks to the OCR backend API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/config"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/validator"
)

// APIError is returned for every failed call. Code is one of the envelope
// error codes.
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type Client struct {
	client  *http.Client
	baseURL string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.client = &http.Client{Timeout: d}
	}
}

// New returns a client for baseURL, or the default local backend when empty.
func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = config.DefaultAPIURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &Client{
		client:  http.DefaultClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) UploadPDF(ctx context.Context, name string, data []byte) (*dto.UploadResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(name)))
	header.Set("Content-Type", validator.PDFContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, &APIError{Code: dto.CodeUploadError, Message: err.Error()}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &APIError{Code: dto.CodeUploadError, Message: err.Error()}
	}
	if err := w.Close(); err != nil {
		return nil, &APIError{Code: dto.CodeUploadError, Message: err.Error()}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", &body)
	if err != nil {
		return nil, &APIError{Code: dto.CodeUploadError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return send[dto.UploadResponse](c, req, dto.CodeUploadError)
}

func (c *Client) GetJobStatus(ctx context.Context, jobID string) (*dto.JobStatus, error) {
	return get[dto.JobStatus](ctx, c, jobPath(jobID, "status"))
}

func (c *Client) GetJobResult(ctx context.Context, jobID string) (*dto.OCRResult, error) {
	return get[dto.OCRResult](ctx, c, jobPath(jobID, "result"))
}

func (c *Client) CancelJob(ctx context.Context, jobID string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodPost, jobPath(jobID, "cancel"), nil)
	if err != nil {
		return false, &APIError{Code: dto.CodeNetworkError, Message: err.Error()}
	}
	resp, err := send[dto.CancelResponse](c, req, dto.CodeNetworkError)
	if err != nil {
		return false, err
	}
	return resp.Cancelled, nil
}

func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, jobPath(jobID, ""), nil)
	if err != nil {
		return &APIError{Code: dto.CodeNetworkError, Message: err.Error()}
	}
	_, err = send[dto.DeleteResponse](c, req, dto.CodeNetworkError)
	return err
}

func (c *Client) ListJobs(ctx context.Context) ([]dto.JobSummary, error) {
	jobs, err := get[[]dto.JobSummary](ctx, c, "/api/jobs")
	if err != nil {
		return nil, err
	}
	return *jobs, nil
}

func (c *Client) HealthCheck(ctx context.Context) (*dto.HealthStatus, error) {
	return get[dto.HealthStatus](ctx, c, "/api/health")
}

func jobPath(jobID, action string) string {
	p := "/api/job/" + url.PathEscape(jobID)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &APIError{Code: dto.CodeNetworkError, Message: err.Error()}
	}
	return send[T](c, req, dto.CodeNetworkError)
}

// send performs req and unwraps the response envelope. Transport failures
// and non-envelope error responses are reported with transportCode.
func send[T any](c *Client, req *http.Request, transportCode string) (*T, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &APIError{Code: transportCode, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Code: transportCode, Message: err.Error(), StatusCode: resp.StatusCode}
	}

	var envelope dto.APIResponse[T]
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && envelope.Error != nil {
			return nil, &APIError{Code: envelope.Error.Code, Message: envelope.Error.Message, StatusCode: resp.StatusCode}
		}
		return nil, &APIError{
			Code:       transportCode,
			Message:    fmt.Sprintf("HTTP error, status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	if decodeErr != nil {
		return nil, &APIError{Code: dto.CodeDecodeError, Message: decodeErr.Error(), StatusCode: resp.StatusCode}
	}
	if !envelope.Success || envelope.Data == nil {
		if envelope.Error != nil {
			return nil, &APIError{Code: envelope.Error.Code, Message: envelope.Error.Message, StatusCode: resp.StatusCode}
		}
		return nil, &APIError{Code: dto.CodeDecodeError, Message: "response carries no data", StatusCode: resp.StatusCode}
	}
	return envelope.Data, nil
}
