package handlers

import (
	"net/http"

	"campusjobs_backend/internal/services"
	"campusjobs_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
	postService services.PostService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, postService services.PostService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
		postService: postService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(h.RequireAuth())
	{
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateMe)
		users.GET("/:id/posts", h.ListUserPosts)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetMe(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUserPosts - посты конкретного пользователя, новые сверху
func (h *UserHandler) ListUserPosts(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var page dto.PageQuery
	if !h.BindAndValidate_Query(c, &page) {
		return
	}

	response, err := h.postService.ListUserPosts(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
