package handlers

import (
	"net/http"

	"campusjobs_backend/internal/services"
	"campusjobs_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	notifications.Use(h.RequireAuth())
	{
		notifications.GET("", h.GetUserNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.PUT("/:id/read", h.MarkAsRead)
		notifications.PUT("/read-all", h.MarkAllAsRead)
	}
}

func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var query dto.NotificationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.notificationService.ListNotifications(c.Request.Context(), h.GetDB(c), actor, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), h.GetDB(c), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	count, err := h.notificationService.MarkAllAsRead(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}
