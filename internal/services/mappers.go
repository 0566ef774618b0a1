package services

import (
	"encoding/json"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/services/dto"
)

func noMedia(string) *string { return nil }

func toUserResponse(u *models.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	switch {
	case u.StudentProfile != nil:
		resp.HasProfile = true
		resp.ProfileID = strPtr(u.StudentProfile.ID)
	case u.CompanyProfile != nil:
		resp.HasProfile = true
		resp.ProfileID = strPtr(u.CompanyProfile.ID)
	}
	return resp
}

func toUserRef(u *models.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	resp := toUserResponse(u)
	return &resp
}

func toStudentProfileResponse(p *models.StudentProfile, resolve algorithms.MediaResolver) *dto.StudentProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.StudentProfileResponse{
		ID:                p.ID,
		User:              toUserRef(p.User),
		University:        p.University,
		Career:            p.Career,
		Semester:          p.Semester,
		GraduationYear:    p.GraduationYear,
		Bio:               p.Bio,
		Skills:            p.Skills,
		CVURL:             p.CVURL,
		LinkedinURL:       p.LinkedinURL,
		ProfilePictureURL: resolve(p.ProfilePicture),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toCompanyProfileResponse(p *models.CompanyProfile, resolve algorithms.MediaResolver) *dto.CompanyProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.CompanyProfileResponse{
		ID:          p.ID,
		User:        toUserRef(p.User),
		CompanyName: p.CompanyName,
		Industry:    p.Industry,
		Description: p.Description,
		Website:     p.Website,
		Address:     p.Address,
		LogoURL:     resolve(p.Logo),
		IsVerified:  p.IsVerified,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toJobResponse(j *models.JobPosting, resolve algorithms.MediaResolver) *dto.JobResponse {
	if j == nil {
		return nil
	}
	resp := &dto.JobResponse{
		ID:                j.ID,
		Company:           toCompanyProfileResponse(j.Company, resolve),
		Title:             j.Title,
		Description:       j.Description,
		Requirements:      j.Requirements,
		Responsibilities:  j.Responsibilities,
		Location:          j.Location,
		JobType:           j.JobType,
		SalaryMin:         j.SalaryMin,
		SalaryMax:         j.SalaryMax,
		Status:            j.Status,
		ApplicationsCount: j.ApplicationsCount,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
	if j.Deadline != nil {
		resp.Deadline = strPtr(j.Deadline.Format(dto.DateLayout))
	}
	return resp
}

func toApplicationResponse(a *models.JobApplication, resolve algorithms.MediaResolver) *dto.ApplicationResponse {
	return &dto.ApplicationResponse{
		ID:          a.ID,
		Student:     toStudentProfileResponse(a.Student, resolve),
		Job:         toJobResponse(a.Job, resolve),
		CoverLetter: a.CoverLetter,
		Status:      a.Status,
		Notes:       a.Notes,
		AppliedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toNotificationResponse(n *models.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		resp.Data = json.RawMessage(n.Data)
	}
	return resp
}
