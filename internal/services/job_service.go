package services

import (
	"context"
	"strings"
	"time"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/repositories"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type JobService interface {
	ListJobs(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.JobListQuery) (*dto.PaginatedResponse, error)
	GetJob(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.JobResponse, error)
	CreateJob(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	UpdateJob(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	DeleteJob(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error
	// ListJobApplications - отклики на вакансию, только для компании-владельца
	ListJobApplications(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID string, query *dto.ApplicationListQuery) (*dto.PaginatedResponse, error)
}

type JobServiceImpl struct {
	jobRepo   repositories.JobRepository
	appRepo   repositories.ApplicationRepository
	publisher FeedPublisher
	resolve   algorithms.MediaResolver
}

func NewJobService(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	publisher FeedPublisher,
	resolve algorithms.MediaResolver,
) JobService {
	if resolve == nil {
		resolve = noMedia
	}
	return &JobServiceImpl{
		jobRepo:   jobRepo,
		appRepo:   appRepo,
		publisher: publisher,
		resolve:   resolve,
	}
}

func (s *JobServiceImpl) ListJobs(ctx context.Context, db *gorm.DB, actor auth.Actor, query *dto.JobListQuery) (*dto.PaginatedResponse, error) {
	decision := auth.Evaluate(actor, auth.ActionList, auth.Resource{Kind: auth.KindJobPosting})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	filter := repositories.JobFilter{
		Search:   query.Search,
		JobType:  query.JobType,
		Location: query.Location,
		Status:   query.Status,
	}
	page := pageFrom(query.PageQuery)
	jobs, total, err := s.jobRepo.List(db, decision.Scope, filter, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, toJobResponse(&jobs[i], s.resolve))
	}
	return buildPaginatedResponse(items, total, page), nil
}

func (s *JobServiceImpl) GetJob(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*dto.JobResponse, error) {
	job, err := s.findJob(db, id)
	if err != nil {
		return nil, err
	}
	if err := visible(auth.Evaluate(actor, auth.ActionRead, auth.JobResource(job)), apperrors.ErrJobNotFound); err != nil {
		return nil, err
	}
	return toJobResponse(job, s.resolve), nil
}

func (s *JobServiceImpl) CreateJob(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if err := auth.Evaluate(actor, auth.ActionCreate, auth.Resource{Kind: auth.KindJobPosting}).Err(); err != nil {
		return nil, err
	}
	company := actor.(auth.Company)

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}
	if err := checkSalaryRange(req.SalaryMin, req.SalaryMax); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.JobStatusActive
	}

	job := &models.JobPosting{
		CompanyID:        company.ProfileID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Requirements:     req.Requirements,
		Responsibilities: req.Responsibilities,
		Location:         strings.TrimSpace(req.Location),
		JobType:          req.JobType,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		Status:           status,
		Deadline:         deadline,
	}
	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	created, err := s.findJob(db, job.ID)
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "job posting created", "job_id", created.ID, "status", created.Status)

	s.publish(created, actor)
	return toJobResponse(created, s.resolve), nil
}

// publish отправляет активную вакансию в живую ленту
func (s *JobServiceImpl) publish(job *models.JobPosting, actor auth.Actor) {
	if s.publisher == nil || !job.IsActive() {
		return
	}
	for _, item := range algorithms.ComposeFeed(nil, []models.JobPosting{*job}, actor, s.resolve) {
		s.publisher.Publish(item)
	}
}

func (s *JobServiceImpl) UpdateJob(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.findJob(db, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Evaluate(actor, auth.ActionUpdate, auth.JobResource(job)).Err(); err != nil {
		return nil, err
	}

	wasActive := job.IsActive()
	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = *req.Requirements
	}
	if req.Responsibilities != nil {
		job.Responsibilities = *req.Responsibilities
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.SalaryMin != nil {
		job.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = req.SalaryMax
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			job.Deadline = nil
		} else {
			deadline, err := parseDeadline(req.Deadline)
			if err != nil {
				return nil, err
			}
			job.Deadline = deadline
		}
	}
	if err := checkSalaryRange(job.SalaryMin, job.SalaryMax); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, notFoundOr(err, repositories.ErrJobNotFound, apperrors.ErrJobNotFound)
	}
	// черновик или закрытая вакансия попадает в ленту в момент публикации
	if !wasActive {
		s.publish(job, actor)
	}
	return toJobResponse(job, s.resolve), nil
}

func (s *JobServiceImpl) DeleteJob(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error {
	job, err := s.findJob(db, id)
	if err != nil {
		return err
	}
	if err := auth.Evaluate(actor, auth.ActionDelete, auth.JobResource(job)).Err(); err != nil {
		return err
	}
	if err := s.jobRepo.Delete(db, id); err != nil {
		return notFoundOr(err, repositories.ErrJobNotFound, apperrors.ErrJobNotFound)
	}
	logger.CtxInfo(ctx, "job posting deleted", "job_id", id)
	return nil
}

func (s *JobServiceImpl) ListJobApplications(ctx context.Context, db *gorm.DB, actor auth.Actor, jobID string, query *dto.ApplicationListQuery) (*dto.PaginatedResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}
	if err := visible(auth.Evaluate(actor, auth.ActionRead, auth.JobResource(job)), apperrors.ErrJobNotFound); err != nil {
		return nil, err
	}
	if err := auth.Evaluate(actor, auth.ActionReviewApplications, jobOwnerResource(job)).Err(); err != nil {
		return nil, err
	}

	page := pageFrom(query.PageQuery)
	filter := repositories.ApplicationFilter{JobID: job.ID, Status: query.Status}
	apps, total, err := s.appRepo.List(db, auth.Scope{JobOwnerID: actor.UserID()}, filter, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, toApplicationResponse(&apps[i], s.resolve))
	}
	return buildPaginatedResponse(items, total, page), nil
}

func (s *JobServiceImpl) findJob(db *gorm.DB, id string) (*models.JobPosting, error) {
	job, err := s.jobRepo.FindByID(db, id)
	if err != nil {
		return nil, notFoundOr(err, repositories.ErrJobNotFound, apperrors.ErrJobNotFound)
	}
	return job, nil
}

// jobOwnerResource - снимок для проверок, требующих компанию-владельца вакансии
func jobOwnerResource(job *models.JobPosting) auth.Resource {
	res := auth.JobResource(job)
	res.JobOwnerID = res.OwnerID
	return res
}

func parseDeadline(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, *raw)
	if err != nil {
		return nil, apperrors.FieldError("deadline", "Must be a date in format YYYY-MM-DD")
	}
	return &t, nil
}

func checkSalaryRange(minSalary, maxSalary *float64) error {
	if minSalary != nil && maxSalary != nil && *maxSalary < *minSalary {
		return apperrors.ErrInvalidSalaryRange
	}
	return nil
}
