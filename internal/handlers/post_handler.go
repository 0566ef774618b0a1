package handlers

import (
	"net/http"

	"campusjobs_backend/internal/services"
	"campusjobs_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	*BaseHandler
	postService services.PostService
}

func NewPostHandler(base *BaseHandler, postService services.PostService) *PostHandler {
	return &PostHandler{
		BaseHandler: base,
		postService: postService,
	}
}

func (h *PostHandler) RegisterRoutes(r *gin.RouterGroup) {
	posts := r.Group("/posts")
	posts.Use(h.RequireAuth())
	{
		posts.GET("", h.Feed)
		posts.POST("", h.CreatePost)
		posts.GET("/:id", h.GetPost)
		posts.PATCH("/:id", h.UpdatePost)
		posts.DELETE("/:id", h.DeletePost)
	}
}

// Feed - лента: посты и активные вакансии, новые сверху
func (h *PostHandler) Feed(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var query dto.FeedQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	items, err := h.postService.Feed(c.Request.Context(), h.GetDB(c), actor, query.Limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreatePost принимает JSON или multipart с необязательным полем "image"
func (h *PostHandler) CreatePost(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.CreatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	image, closeImage, ok := h.FormImage(c, "image")
	if !ok {
		return
	}
	defer closeImage()

	item, err := h.postService.CreatePost(c.Request.Context(), h.GetDB(c), actor, &req, image)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	item, err := h.postService.GetPost(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.UpdatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	item, err := h.postService.UpdatePost(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), h.GetDB(c), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
