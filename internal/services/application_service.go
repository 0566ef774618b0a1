package services

import (
	"context"
	"errors"
	"strings"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/email"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/repositories"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService interface {
	ListApplications(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.ApplicationListQuery) (*dto.PaginatedResponse, error)
	// Apply - отклик студента на активную вакансию. Повторный отклик - Conflict.
	Apply(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	GetApplication(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.ApplicationResponse, error)
	// UpdateStatus - смена статуса компанией-владельцем вакансии
	UpdateStatus(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error)
	// Withdraw - студент отзывает свой отклик
	Withdraw(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error
}

type ApplicationServiceImpl struct {
	appRepo          repositories.ApplicationRepository
	jobRepo          repositories.JobRepository
	notificationRepo repositories.NotificationRepository
	mailer           email.Provider
	resolve          algorithms.MediaResolver
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	notificationRepo repositories.NotificationRepository,
	mailer email.Provider,
	resolve algorithms.MediaResolver,
) ApplicationService {
	if resolve == nil {
		resolve = noMedia
	}
	return &ApplicationServiceImpl{
		appRepo:          appRepo,
		jobRepo:          jobRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		resolve:          resolve,
	}
}

func (s *ApplicationServiceImpl) ListApplications(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.ApplicationListQuery) (*dto.PaginatedResponse, error) {
	decision := auth.Evaluate(actor, auth.ActionList, auth.Resource{Kind: auth.KindJobApplication})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	page := pageFrom(query.PageQuery)
	filter := repositories.ApplicationFilter{JobID: query.JobID, Status: query.Status}
	apps, total, err := s.appRepo.List(db, decision.Scope, filter, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, toApplicationResponse(&apps[i], s.resolve))
	}
	return buildPaginatedResponse(items, total, page), nil
}

func (s *ApplicationServiceImpl) Apply(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	if err := auth.Evaluate(actor, auth.ActionCreate, auth.Resource{Kind: auth.KindJobApplication}).Err(); err != nil {
		return nil, err
	}
	student := actor.(auth.Student)

	job, err := s.jobRepo.FindByID(db, req.JobID)
	if err != nil {
		return nil, notFoundOr(err, repositories.ErrJobNotFound, apperrors.ErrJobNotFound)
	}
	// черновик чужой компании для студента не существует
	if job.Status == models.JobStatusDraft {
		return nil, apperrors.ErrJobNotFound
	}
	if !job.IsActive() {
		return nil, apperrors.ErrJobNotActive
	}

	app := &models.JobApplication{
		StudentID:   student.ProfileID,
		JobID:       job.ID,
		CoverLetter: strings.TrimSpace(req.CoverLetter),
		Status:      models.ApplicationStatusPending,
	}
	if err := s.appRepo.Create(db, app); err != nil {
		if errors.Is(err, repositories.ErrApplicationAlreadyExists) {
			return nil, apperrors.ErrApplicationAlreadyExists.WithError(err)
		}
		return nil, apperrors.InternalError(err)
	}

	created, err := s.appRepo.FindByID(db, app.ID)
	if err != nil {
		return nil, notFoundOr(err, repositories.ErrApplicationNotFound, apperrors.ErrApplicationNotFound)
	}
	logger.CtxInfo(ctx, "application submitted", "application_id", created.ID, "job_id", job.ID)

	s.notifyNewApplication(ctx, db, created, job)
	return toApplicationResponse(created, s.resolve), nil
}

func (s *ApplicationServiceImpl) GetApplication(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.ApplicationResponse, error) {
	app, err := s.findApplication(db, id)
	if err != nil {
		return nil, err
	}
	if err := visible(auth.Evaluate(actor, auth.ActionRead, auth.ApplicationResource(app)), apperrors.ErrApplicationNotFound); err != nil {
		return nil, err
	}
	return toApplicationResponse(app, s.resolve), nil
}

func (s *ApplicationServiceImpl) UpdateStatus(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error) {
	app, err := s.findApplication(db, id)
	if err != nil {
		return nil, err
	}

	next, err := algorithms.ApplyStatusTransition(app, req.Status, actor)
	if err != nil {
		return nil, err
	}
	if next == app.Status && req.Notes == nil {
		return toApplicationResponse(app, s.resolve), nil
	}

	if err := s.appRepo.UpdateStatus(db, app.ID, app.Status, next, req.Notes); err != nil {
		if errors.Is(err, repositories.ErrApplicationStatusChanged) {
			return nil, apperrors.ErrConflict(err, "application", "Application status was changed by another request, reload and retry")
		}
		return nil, notFoundOr(err, repositories.ErrApplicationNotFound, apperrors.ErrApplicationNotFound)
	}
	if req.Notes != nil {
		app.Notes = *req.Notes
	}
	if next == app.Status {
		return toApplicationResponse(app, s.resolve), nil
	}

	previous := app.Status
	app.Status = next
	logger.CtxInfo(ctx, "application status changed",
		"application_id", app.ID, "from", previous, "to", next)

	s.notifyStatusChange(ctx, db, app)
	return toApplicationResponse(app, s.resolve), nil
}

func (s *ApplicationServiceImpl) Withdraw(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error {
	app, err := s.findApplication(db, id)
	if err != nil {
		return err
	}
	res := auth.ApplicationResource(app)
	if err := visible(auth.Evaluate(actor, auth.ActionRead, res), apperrors.ErrApplicationNotFound); err != nil {
		return err
	}
	if err := auth.Evaluate(actor, auth.ActionDelete, res).Err(); err != nil {
		return err
	}

	if err := s.appRepo.Delete(db, app.ID); err != nil {
		return notFoundOr(err, repositories.ErrApplicationNotFound, apperrors.ErrApplicationNotFound)
	}
	logger.CtxInfo(ctx, "application withdrawn", "application_id", app.ID)

	if app.Job != nil && app.Job.Company != nil {
		_, err := s.notificationRepo.CreateApplicationWithdrawnNotification(
			db, app.Job.Company.UserID, app, app.Job.Title, studentName(app))
		bestEffort(ctx, "failed to create withdraw notification", err, "application_id", app.ID)
	}
	return nil
}

func (s *ApplicationServiceImpl) findApplication(db *gorm.DB, id string) (*models.JobApplication, error) {
	app, err := s.appRepo.FindByID(db, id)
	if err != nil {
		return nil, notFoundOr(err, repositories.ErrApplicationNotFound, apperrors.ErrApplicationNotFound)
	}
	return app, nil
}

// =======================
// Уведомления
// =======================

func (s *ApplicationServiceImpl) notifyNewApplication(ctx context.Context, db *gorm.DB, app *models.JobApplication, job *models.JobPosting) {
	if job.Company == nil {
		return
	}
	name := studentName(app)
	_, err := s.notificationRepo.CreateNewApplicationNotification(db, job.Company.UserID, app, job, name)
	bestEffort(ctx, "failed to create application notification", err, "application_id", app.ID)

	if job.Company.User != nil {
		s.sendEmail(ctx, job.Company.User.Email, "New application: "+job.Title, email.TemplateNewApplication, email.TemplateData{
			"CompanyName": job.Company.CompanyName,
			"StudentName": name,
			"JobTitle":    job.Title,
		})
	}
}

func (s *ApplicationServiceImpl) notifyStatusChange(ctx context.Context, db *gorm.DB, app *models.JobApplication) {
	if app.Student == nil || app.Job == nil {
		return
	}
	_, err := s.notificationRepo.CreateApplicationStatusNotification(db, app.Student.UserID, app, app.Job.Title)
	bestEffort(ctx, "failed to create status notification", err, "application_id", app.ID)

	if app.Student.User != nil {
		companyName := ""
		if app.Job.Company != nil {
			companyName = app.Job.Company.CompanyName
		}
		s.sendEmail(ctx, app.Student.User.Email, "Application update: "+app.Job.Title, email.TemplateApplicationStatus, email.TemplateData{
			"CompanyName": companyName,
			"StudentName": studentName(app),
			"JobTitle":    app.Job.Title,
			"Status":      string(app.Status),
		})
	}
}

// sendEmail отправляет письмо в фоне, ошибки только логируются
func (s *ApplicationServiceImpl) sendEmail(ctx context.Context, to, subject, template string, data email.TemplateData) {
	if s.mailer == nil || to == "" {
		return
	}
	log := logger.FromContext(ctx)
	go func() {
		if err := s.mailer.SendTemplate([]string{to}, subject, template, data); err != nil {
			log.Warn("failed to send email", "template", template, "error", err)
		}
	}()
}

func studentName(app *models.JobApplication) string {
	if app.Student == nil || app.Student.User == nil {
		return ""
	}
	return app.Student.User.DisplayName()
}
