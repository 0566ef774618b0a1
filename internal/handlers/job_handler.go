package handlers

import (
	"net/http"

	"campusjobs_backend/internal/services"
	"campusjobs_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Публичные: аноним видит только активные вакансии
	public := r.Group("/jobs")
	public.Use(h.OptionalAuth())
	{
		public.GET("", h.ListJobs)
		public.GET("/:id", h.GetJob)
	}

	protected := r.Group("/jobs")
	protected.Use(h.RequireAuth())
	{
		protected.POST("", h.CreateJob)
		protected.PATCH("/:id", h.UpdateJob)
		protected.DELETE("/:id", h.DeleteJob)
		protected.GET("/:id/applications", h.ListJobApplications)
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.jobService.ListJobs(c.Request.Context(), h.GetDB(c), actor, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), h.GetDB(c), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JobHandler) ListJobApplications(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var query dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.jobService.ListJobApplications(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
