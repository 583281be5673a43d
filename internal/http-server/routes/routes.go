package routes

import (
	"github.com/chaemni0706/PaddleOCR-Interface/internal/domain/handler"
	"github.com/gin-gonic/gin"
)

func SetupJobsRoutes(router *gin.RouterGroup, jobHandler handler.JobsHandlerInterface, uploadLimit gin.HandlerFunc) {
	router.POST("/upload", uploadLimit, jobHandler.UploadPDF)
	router.GET("/jobs", jobHandler.GetJobs)
	router.GET("/health", jobHandler.HealthCheck)

	job := router.Group("/job/:job_id")
	{
		job.GET("/status", jobHandler.GetJobStatus)
		job.GET("/result", jobHandler.GetJobResult)
		job.POST("/cancel", jobHandler.CancelJob)
		job.DELETE("", jobHandler.DeleteJob)
	}
}

func SetupPagesRoutes(router gin.IRoutes, pagesHandler handler.PagesHandlerInterface, uploadLimit gin.HandlerFunc) {
	router.GET("/", pagesHandler.Home)
	router.POST("/upload", uploadLimit, pagesHandler.Upload)
	router.GET("/process", pagesHandler.Process)
	router.GET("/result", pagesHandler.Result)
	router.GET("/result/download", pagesHandler.Download)
}
