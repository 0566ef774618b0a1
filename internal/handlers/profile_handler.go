package handlers

import (
	"net/http"

	"campusjobs_backend/internal/middleware"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/services"
	"campusjobs_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	students := r.Group("/students")
	students.Use(h.RequireAuth())
	{
		students.GET("", h.ListStudentProfiles)
		students.POST("", h.CreateStudentProfile)
		students.GET("/me", h.GetMyStudentProfile)
		students.GET("/:id", h.GetStudentProfile)
		students.PATCH("/:id", h.UpdateStudentProfile)
		students.DELETE("/:id", h.DeleteStudentProfile)
		students.POST("/:id/picture", h.UploadStudentPicture)
	}

	companies := r.Group("/companies")
	companies.Use(h.RequireAuth())
	{
		companies.GET("", h.ListCompanyProfiles)
		companies.POST("", h.CreateCompanyProfile)
		companies.GET("/me", h.GetMyCompanyProfile)
		companies.GET("/:id", h.GetCompanyProfile)
		companies.PATCH("/:id", h.UpdateCompanyProfile)
		companies.DELETE("/:id", h.DeleteCompanyProfile)
		companies.POST("/:id/logo", h.UploadCompanyLogo)
	}

	admin := r.Group("/admin")
	admin.Use(h.RequireAuth(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.PATCH("/companies/:id/verify", h.VerifyCompany)
	}
}

// --- Студенты ---

func (h *ProfileHandler) ListStudentProfiles(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var query dto.ProfileListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.profileService.ListStudentProfiles(c.Request.Context(), h.GetDB(c), actor, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ProfileHandler) CreateStudentProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.CreateStudentProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.CreateStudentProfile(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) GetMyStudentProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetMyStudentProfile(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetStudentProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetStudentProfile(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateStudentProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateStudentProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateStudentProfile(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteStudentProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.profileService.DeleteStudentProfile(c.Request.Context(), h.GetDB(c), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadStudentPicture - multipart, поле "file"
func (h *ProfileHandler) UploadStudentPicture(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	file, closeFile, ok := h.RequireFormImage(c, "file")
	if !ok {
		return
	}
	defer closeFile()

	profile, err := h.profileService.UploadStudentPicture(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), file.Reader, file.Size)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// --- Компании ---

func (h *ProfileHandler) ListCompanyProfiles(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var query dto.ProfileListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.profileService.ListCompanyProfiles(c.Request.Context(), h.GetDB(c), actor, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ProfileHandler) CreateCompanyProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.CreateCompanyProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.CreateCompanyProfile(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) GetMyCompanyProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetMyCompanyProfile(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetCompanyProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetCompanyProfile(c.Request.Context(), h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateCompanyProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateCompanyProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateCompanyProfile(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteCompanyProfile(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.profileService.DeleteCompanyProfile(c.Request.Context(), h.GetDB(c), actor, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadCompanyLogo - multipart, поле "file"
func (h *ProfileHandler) UploadCompanyLogo(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	file, closeFile, ok := h.RequireFormImage(c, "file")
	if !ok {
		return
	}
	defer closeFile()

	profile, err := h.profileService.UploadCompanyLogo(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), file.Reader, file.Size)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// VerifyCompany - админ выставляет или снимает флаг верификации
func (h *ProfileHandler) VerifyCompany(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	var req dto.VerifyCompanyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.SetCompanyVerified(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), *req.IsVerified)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
