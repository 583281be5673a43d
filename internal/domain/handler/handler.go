package handler

import "github.com/gin-gonic/gin"

type JobsHandlerInterface interface {
	UploadPDF(c *gin.Context)
	GetJobs(c *gin.Context)
	GetJobStatus(c *gin.Context)
	GetJobResult(c *gin.Context)
	CancelJob(c *gin.Context)
	DeleteJob(c *gin.Context)
	HealthCheck(c *gin.Context)
}

type PagesHandlerInterface interface {
	Home(c *gin.Context)
	Upload(c *gin.Context)
	Process(c *gin.Context)
	Result(c *gin.Context)
	Download(c *gin.Context)
}
