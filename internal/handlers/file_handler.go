package handlers

import (
	"io"
	"strconv"
	"strings"

	"campusjobs_backend/internal/services"
	"campusjobs_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// FileHandler отдает объекты локального хранилища. Для S3 ссылки ведут прямо в бакет.
type FileHandler struct {
	*BaseHandler
	uploads services.UploadService
}

func NewFileHandler(base *BaseHandler, uploads services.UploadService) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		uploads:     uploads,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.GET("/*path", h.ServeFile)
	}
}

// ServeFile serves a stored object by its key
func (h *FileHandler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")
	if key == "" {
		apperrors.HandleError(c, apperrors.NewNotFoundError("File not found"))
		return
	}

	obj, err := h.uploads.Open(c.Request.Context(), key)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		c.Header("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	// Ключи содержат uuid и не переиспользуются
	c.Header("Cache-Control", "public, max-age=31536000")
	c.Header("Content-Disposition", "inline")

	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		// заголовки уже отправлены
		_ = c.Error(err)
	}
}
