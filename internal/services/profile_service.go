package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/repositories"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	// === Студенты ===
	ListStudentProfiles(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.ProfileListQuery) (*dto.PaginatedResponse, error)
	CreateStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateStudentProfileRequest) (*dto.StudentProfileResponse, error)
	GetMyStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor) (*dto.StudentProfileResponse, error)
	GetStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.StudentProfileResponse, error)
	UpdateStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateStudentProfileRequest) (*dto.StudentProfileResponse, error)
	DeleteStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error
	UploadStudentPicture(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, file io.Reader, size int64) (*dto.StudentProfileResponse, error)

	// === Компании ===
	ListCompanyProfiles(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.ProfileListQuery) (*dto.PaginatedResponse, error)
	CreateCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateCompanyProfileRequest) (*dto.CompanyProfileResponse, error)
	GetMyCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor) (*dto.CompanyProfileResponse, error)
	GetCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.CompanyProfileResponse, error)
	UpdateCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateCompanyProfileRequest) (*dto.CompanyProfileResponse, error)
	DeleteCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error
	UploadCompanyLogo(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, file io.Reader, size int64) (*dto.CompanyProfileResponse, error)
	// SetCompanyVerified - действие администратора
	SetCompanyVerified(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, verified bool) (*dto.CompanyProfileResponse, error)
}

type ProfileServiceImpl struct {
	profileRepo repositories.ProfileRepository
	uploads     UploadService
	resolve     algorithms.MediaResolver
}

func NewProfileService(profileRepo repositories.ProfileRepository, uploads UploadService) ProfileService {
	s := &ProfileServiceImpl{profileRepo: profileRepo, uploads: uploads, resolve: noMedia}
	if uploads != nil {
		s.resolve = uploads.Resolve
	}
	return s
}

func studentResource(p *models.StudentProfile) auth.Resource {
	return auth.Resource{Kind: auth.KindStudentProfile, OwnerID: p.UserID}
}

func companyResource(p *models.CompanyProfile) auth.Resource {
	return auth.Resource{Kind: auth.KindCompanyProfile, OwnerID: p.UserID}
}

func profileFilter(q *dto.ProfileListQuery) repositories.ProfileFilter {
	return repositories.ProfileFilter{Search: q.Search, Industry: q.Industry, Verified: q.Verified}
}

func handleProfileError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, repositories.ErrProfileAlreadyExists) {
		return apperrors.ErrProfileAlreadyExists
	}
	return notFoundOr(err, repositories.ErrProfileNotFound, notFound)
}

// ==========================
// Студенты
// ==========================

func (s *ProfileServiceImpl) ListStudentProfiles(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.ProfileListQuery) (*dto.PaginatedResponse, error) {
	decision := auth.Evaluate(actor, auth.ActionList, auth.Resource{Kind: auth.KindStudentProfile})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	page := pageFrom(query.PageQuery)
	profiles, total, err := s.profileRepo.ListStudentProfiles(db, decision.Scope, profileFilter(query), page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.StudentProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, toStudentProfileResponse(&profiles[i], s.resolve))
	}
	return buildPaginatedResponse(items, total, page), nil
}

func (s *ProfileServiceImpl) CreateStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateStudentProfileRequest) (*dto.StudentProfileResponse, error) {
	if err := auth.Evaluate(actor, auth.ActionCreate, auth.Resource{Kind: auth.KindStudentProfile}).Err(); err != nil {
		return nil, err
	}

	profile := &models.StudentProfile{
		UserID:         actor.UserID(),
		University:     strings.TrimSpace(req.University),
		Career:         strings.TrimSpace(req.Career),
		Semester:       req.Semester,
		GraduationYear: req.GraduationYear,
		Bio:            req.Bio,
		Skills:         req.Skills,
		CVURL:          req.CVURL,
		LinkedinURL:    req.LinkedinURL,
	}
	if err := s.profileRepo.CreateStudentProfile(db, profile); err != nil {
		return nil, handleProfileError(err, apperrors.ErrStudentProfileNotFound)
	}

	logger.CtxInfo(ctx, "student profile created", "profile_id", profile.ID)
	return s.reloadStudent(db, profile.ID)
}

func (s *ProfileServiceImpl) GetMyStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor) (*dto.StudentProfileResponse, error) {
	if auth.IsAnonymous(actor) {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	profile, err := s.profileRepo.FindStudentProfileByUserID(db, actor.UserID())
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrStudentProfileNotFound)
	}
	return toStudentProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) GetStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.StudentProfileResponse, error) {
	profile, err := s.profileRepo.FindStudentProfileByID(db, id)
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrStudentProfileNotFound)
	}
	if err := visible(auth.Evaluate(actor, auth.ActionRead, studentResource(profile)), apperrors.ErrStudentProfileNotFound); err != nil {
		return nil, err
	}
	return toStudentProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) UpdateStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateStudentProfileRequest) (*dto.StudentProfileResponse, error) {
	profile, err := s.profileRepo.FindStudentProfileByID(db, id)
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrStudentProfileNotFound)
	}
	if err := auth.Evaluate(actor, auth.ActionUpdate, studentResource(profile)).Err(); err != nil {
		return nil, err
	}

	if req.University != nil {
		profile.University = strings.TrimSpace(*req.University)
	}
	if req.Career != nil {
		profile.Career = strings.TrimSpace(*req.Career)
	}
	if req.Semester != nil {
		profile.Semester = *req.Semester
	}
	if req.GraduationYear != nil {
		profile.GraduationYear = req.GraduationYear
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Skills != nil {
		profile.Skills = *req.Skills
	}
	if req.CVURL != nil {
		profile.CVURL = *req.CVURL
	}
	if req.LinkedinURL != nil {
		profile.LinkedinURL = *req.LinkedinURL
	}

	if err := s.profileRepo.UpdateStudentProfile(db, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toStudentProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) DeleteStudentProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error {
	profile, err := s.profileRepo.FindStudentProfileByID(db, id)
	if err != nil {
		return handleProfileError(err, apperrors.ErrStudentProfileNotFound)
	}
	if err := auth.Evaluate(actor, auth.ActionDelete, studentResource(profile)).Err(); err != nil {
		return err
	}
	if err := s.profileRepo.DeleteStudentProfile(db, id); err != nil {
		return handleProfileError(err, apperrors.ErrStudentProfileNotFound)
	}
	s.removeMedia(ctx, profile.UserID, profile.ProfilePicture)
	return nil
}

func (s *ProfileServiceImpl) UploadStudentPicture(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, file io.Reader, size int64) (*dto.StudentProfileResponse, error) {
	profile, err := s.profileRepo.FindStudentProfileByID(db, id)
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrStudentProfileNotFound)
	}
	if err := auth.Evaluate(actor, auth.ActionUpdate, studentResource(profile)).Err(); err != nil {
		return nil, err
	}

	if s.uploads == nil {
		return nil, apperrors.InternalError(errors.New("uploads are not configured"))
	}
	uploaded, err := s.uploads.UploadImage(ctx, actor.UserID(), PurposeAvatar, file, size)
	if err != nil {
		return nil, err
	}

	previous := profile.ProfilePicture
	profile.ProfilePicture = uploaded.Key
	if err := s.profileRepo.UpdateStudentProfile(db, profile); err != nil {
		s.removeMedia(ctx, actor.UserID(), uploaded.Key)
		return nil, apperrors.InternalError(err)
	}
	s.removeMedia(ctx, profile.UserID, previous)
	return toStudentProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) reloadStudent(db *gorm.DB, id string) (*dto.StudentProfileResponse, error) {
	profile, err := s.profileRepo.FindStudentProfileByID(db, id)
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrStudentProfileNotFound)
	}
	return toStudentProfileResponse(profile, s.resolve), nil
}

// ==========================
// Компании
// ==========================

func (s *ProfileServiceImpl) ListCompanyProfiles(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.ProfileListQuery) (*dto.PaginatedResponse, error) {
	decision := auth.Evaluate(actor, auth.ActionList, auth.Resource{Kind: auth.KindCompanyProfile})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	page := pageFrom(query.PageQuery)
	profiles, total, err := s.profileRepo.ListCompanyProfiles(db, decision.Scope, profileFilter(query), page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.CompanyProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, toCompanyProfileResponse(&profiles[i], s.resolve))
	}
	return buildPaginatedResponse(items, total, page), nil
}

func (s *ProfileServiceImpl) CreateCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateCompanyProfileRequest) (*dto.CompanyProfileResponse, error) {
	if err := auth.Evaluate(actor, auth.ActionCreate, auth.Resource{Kind: auth.KindCompanyProfile}).Err(); err != nil {
		return nil, err
	}

	profile := &models.CompanyProfile{
		UserID:      actor.UserID(),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Industry:    req.Industry,
		Description: req.Description,
		Website:     req.Website,
		Address:     req.Address,
	}
	if err := s.profileRepo.CreateCompanyProfile(db, profile); err != nil {
		return nil, handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}

	logger.CtxInfo(ctx, "company profile created", "profile_id", profile.ID)
	return s.reloadCompany(db, profile.ID)
}

func (s *ProfileServiceImpl) GetMyCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor) (*dto.CompanyProfileResponse, error) {
	if auth.IsAnonymous(actor) {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	profile, err := s.profileRepo.FindCompanyProfileByUserID(db, actor.UserID())
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}
	return toCompanyProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) GetCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.CompanyProfileResponse, error) {
	profile, err := s.profileRepo.FindCompanyProfileByID(db, id)
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}
	if err := visible(auth.Evaluate(actor, auth.ActionRead, companyResource(profile)), apperrors.ErrCompanyProfileNotFound); err != nil {
		return nil, err
	}
	return toCompanyProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) UpdateCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateCompanyProfileRequest) (*dto.CompanyProfileResponse, error) {
	profile, err := s.profileRepo.FindCompanyProfileByID(db, id)
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}
	if err := auth.Evaluate(actor, auth.ActionUpdate, companyResource(profile)).Err(); err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		profile.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.Industry != nil {
		profile.Industry = *req.Industry
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}

	// is_verified владелец не меняет: UpdateCompanyProfile его не пишет
	if err := s.profileRepo.UpdateCompanyProfile(db, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toCompanyProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) DeleteCompanyProfile(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error {
	profile, err := s.profileRepo.FindCompanyProfileByID(db, id)
	if err != nil {
		return handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}
	if err := auth.Evaluate(actor, auth.ActionDelete, companyResource(profile)).Err(); err != nil {
		return err
	}
	if err := s.profileRepo.DeleteCompanyProfile(db, id); err != nil {
		return handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}
	s.removeMedia(ctx, profile.UserID, profile.Logo)
	return nil
}

func (s *ProfileServiceImpl) UploadCompanyLogo(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, file io.Reader, size int64) (*dto.CompanyProfileResponse, error) {
	profile, err := s.profileRepo.FindCompanyProfileByID(db, id)
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}
	if err := auth.Evaluate(actor, auth.ActionUpdate, companyResource(profile)).Err(); err != nil {
		return nil, err
	}

	if s.uploads == nil {
		return nil, apperrors.InternalError(errors.New("uploads are not configured"))
	}
	uploaded, err := s.uploads.UploadImage(ctx, actor.UserID(), PurposeLogo, file, size)
	if err != nil {
		return nil, err
	}

	previous := profile.Logo
	profile.Logo = uploaded.Key
	if err := s.profileRepo.UpdateCompanyProfile(db, profile); err != nil {
		s.removeMedia(ctx, actor.UserID(), uploaded.Key)
		return nil, apperrors.InternalError(err)
	}
	s.removeMedia(ctx, profile.UserID, previous)
	return toCompanyProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) SetCompanyVerified(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, verified bool) (*dto.CompanyProfileResponse, error) {
	profile, err := s.profileRepo.FindCompanyProfileByID(db, id)
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}
	if err := auth.Evaluate(actor, auth.ActionVerify, companyResource(profile)).Err(); err != nil {
		return nil, err
	}

	if err := s.profileRepo.SetCompanyVerified(db, id, verified); err != nil {
		return nil, handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}
	profile.IsVerified = verified

	logger.CtxInfo(ctx, "company verification changed", "profile_id", id, "verified", verified, "admin_id", actor.UserID())
	return toCompanyProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) reloadCompany(db *gorm.DB, id string) (*dto.CompanyProfileResponse, error) {
	profile, err := s.profileRepo.FindCompanyProfileByID(db, id)
	if err != nil {
		return nil, handleProfileError(err, apperrors.ErrCompanyProfileNotFound)
	}
	return toCompanyProfileResponse(profile, s.resolve), nil
}

func (s *ProfileServiceImpl) removeMedia(ctx context.Context, ownerID, ref string) {
	if s.uploads == nil || ref == "" {
		return
	}
	bestEffort(ctx, "failed to remove old media", s.uploads.Remove(ctx, ownerID, ref), "ref", ref)
}
