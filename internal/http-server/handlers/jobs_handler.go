package handlers

import (
	"net/http"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/handler"
	domain "github.com/chaemni0706/PaddleOCR-Interface/internal/domain/service"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var _ handler.JobsHandlerInterface = (*JobsHandler)(nil)

type JobsHandler struct {
	log        *zap.Logger
	jobService domain.JobServiceInterface
	maxSize    int64
	version    string
}

func NewJobsHandler(logger *zap.Logger, jobService domain.JobServiceInterface, maxSize int64, version string) *JobsHandler {
	return &JobsHandler{
		log:        logger,
		jobService: jobService,
		maxSize:    maxSize,
		version:    version,
	}
}

func (h *JobsHandler) UploadPDF(c *gin.Context) {
	files, closeFiles, err := readUpload(c, h.maxSize)
	defer closeFiles()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	job, err := h.jobService.Upload(c.Request.Context(), files)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.UploadResponse{
		Success: true,
		JobID:   job.ID,
		Message: "file uploaded, processing started",
	}))
}

func (h *JobsHandler) GetJobs(c *gin.Context) {
	jobs, err := h.jobService.GetJobs(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	summaries := make([]dto.JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, dto.NewJobSummary(job))
	}
	c.JSON(http.StatusOK, dto.OK(summaries))
}

func (h *JobsHandler) GetJobStatus(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.NewJobStatus(job)))
}

func (h *JobsHandler) GetJobResult(c *gin.Context) {
	result, err := h.jobService.GetResult(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(*result))
}

func (h *JobsHandler) CancelJob(c *gin.Context) {
	cancelled, err := h.jobService.CancelJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.CancelResponse{Cancelled: cancelled}))
}

func (h *JobsHandler) DeleteJob(c *gin.Context) {
	if err := h.jobService.DeleteJob(c.Request.Context(), c.Param("job_id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.DeleteResponse{Deleted: true}))
}

func (h *JobsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK(dto.HealthStatus{Status: "ok", Version: h.version}))
}
