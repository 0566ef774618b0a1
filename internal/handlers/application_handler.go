package handlers

import (
	"net/http"

	"campusjobs_backend/internal/services"
	"campusjobs_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	applications := r.Group("/applications")
	applications.Use(h.RequireAuth())
	{
		applications.GET("", h.ListApplications)
		applications.POST("", h.Apply)
		applications.GET("/:id", h.GetApplication)
		applications.PATCH("/:id/status", h.UpdateStatus)
		applications.DELETE("/:id", h.Withdraw)
	}
}

// ListApplications - студент видит свои отклики, компания - отклики на свои вакансии
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var query dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.applicationService.ListApplications(c.Request.Context(), h.GetDB(c), actor, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.CreateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.Apply(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	application, err := h.applicationService.GetApplication(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.UpdateStatus(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.applicationService.Withdraw(c.Request.Context(), h.GetDB(c), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
