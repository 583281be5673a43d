package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/entity"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/handler"
	domain "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/service"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services/processing"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/validator"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var _ handler.PagesHandlerInterface = (*PagesHandler)(nil)

const (
	FormatText = "txt"
	FormatJSON = "json"
)

type PagesHandler struct {
	log        *zap.Logger
	jobService domain.JobServiceInterface
	validator  *validator.Validator
	opts       Options
}

func NewPagesHandler(logger *zap.Logger, jobService domain.JobServiceInterface, v *validator.Validator, opts Options) *PagesHandler {
	return &PagesHandler{
		log:        logger,
		jobService: jobService,
		validator:  v,
		opts:       opts,
	}
}

func (h *PagesHandler) Home(c *gin.Context) {
	h.renderHome(c, http.StatusOK, "")
}

func (h *PagesHandler) renderHome(c *gin.Context, status int, message string) {
	c.HTML(status, "home.html", gin.H{
		"Version":   h.opts.Version,
		"MaxSize":   h.validator.MaxSize(),
		"MaxSizeMB": h.validator.MaxSizeMB(),
		"Error":     message,
	})
}

// Upload handles the form post of the home page.
func (h *PagesHandler) Upload(c *gin.Context) {
	files, closeFiles, err := readUpload(c, h.validator.MaxSize())
	defer closeFiles()

	var job *entity.Job
	if err == nil {
		job, err = h.jobService.Upload(c.Request.Context(), files)
	}

	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		if verr.Code == validator.CodeFileTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		h.renderHome(c, status, verr.Message)
	case err != nil:
		h.log.Error("upload from page failed", zap.Error(err))
		h.renderHome(c, http.StatusInternalServerError, "upload failed, please try again")
	default:
		c.Redirect(http.StatusSeeOther, "/process?jobId="+url.QueryEscape(job.ID))
	}
}

func (h *PagesHandler) Process(c *gin.Context) {
	job, ok := h.lookupJob(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "process.html", gin.H{
		"Version":         h.opts.Version,
		"Job":             job,
		"Progress":        view.Clamp(job.Progress),
		"Steps":           view.StepStates(processing.DefaultSteps, job.CurrentStep, job.Status),
		"PollIntervalMs":  h.opts.PollInterval.Milliseconds(),
		"RedirectDelayMs": h.opts.RedirectDelay.Milliseconds(),
	})
}

func (h *PagesHandler) Result(c *gin.Context) {
	job, ok := h.lookupJob(c)
	if !ok {
		return
	}

	result, ok := h.lookupResult(c, job)
	if !ok {
		return
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		h.log.Error("failed to encode result", zap.String("job_id", job.ID), zap.Error(err))
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "result.html", gin.H{
		"Version": h.opts.Version,
		"Job":     job,
		"Result":  result,
		"RawJSON": string(raw),
	})
}

func (h *PagesHandler) Download(c *gin.Context) {
	job, ok := h.lookupJob(c)
	if !ok {
		return
	}
	result, ok := h.lookupResult(c, job)
	if !ok {
		return
	}

	switch c.DefaultQuery("format", FormatText) {
	case FormatText:
		attachment(c, view.TextFileName(job.FileName))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(result.ExtractedText))
	case FormatJSON:
		raw, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		attachment(c, view.JSONFileName(job.FileName))
		c.Data(http.StatusOK, "application/json", raw)
	default:
		c.JSON(http.StatusBadRequest, dto.Fail(dto.CodeInvalidRequest, "format must be txt or json"))
	}
}

// lookupJob resolves the jobId query parameter. Missing or unknown jobs send
// the browser back to the upload page.
func (h *PagesHandler) lookupJob(c *gin.Context) (*entity.Job, bool) {
	jobID := c.Query("jobId")
	if jobID == "" {
		c.Redirect(http.StatusFound, "/")
		return nil, false
	}

	job, err := h.jobService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if !errors.Is(err, services.ErrJobNotFound) {
			h.log.Error("failed to load job", zap.String("job_id", jobID), zap.Error(err))
		}
		c.Redirect(http.StatusFound, "/")
		return nil, false
	}
	return job, true
}

func (h *PagesHandler) lookupResult(c *gin.Context, job *entity.Job) (*entity.Result, bool) {
	result, err := h.jobService.GetResult(c.Request.Context(), job.ID)
	switch {
	case err == nil:
		return result, true
	case errors.Is(err, services.ErrResultNotReady):
		c.Redirect(http.StatusFound, "/process?jobId="+url.QueryEscape(job.ID))
	default:
		if !errors.Is(err, services.ErrJobNotFound) {
			h.log.Error("failed to load result", zap.String("job_id", job.ID), zap.Error(err))
		}
		c.Redirect(http.StatusFound, "/")
	}
	return nil, false
}

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", name, url.PathEscape(name)))
}

