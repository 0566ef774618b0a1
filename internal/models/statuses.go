package models

type UserRole string
type JobStatus string
type JobType string
type ApplicationStatus string
type Industry string

const (
	UserRoleStudent UserRole = "student"
	UserRoleCompany UserRole = "company"
	UserRoleAdmin   UserRole = "admin"

	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"

	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeInternship JobType = "internship"
	JobTypeContract   JobType = "contract"

	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusInterview ApplicationStatus = "interview"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"

	IndustryTech          Industry = "tech"
	IndustryFinance       Industry = "finance"
	IndustryHealthcare    Industry = "healthcare"
	IndustryEducation     Industry = "education"
	IndustryRetail        Industry = "retail"
	IndustryManufacturing Industry = "manufacturing"
	IndustryServices      Industry = "services"
	IndustryOther         Industry = "other"
)

var (
	AllUserRoles = []UserRole{UserRoleStudent, UserRoleCompany, UserRoleAdmin}

	AllJobStatuses = []JobStatus{JobStatusActive, JobStatusClosed, JobStatusDraft}

	AllJobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract}

	AllApplicationStatuses = []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusReviewing,
		ApplicationStatusInterview,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
	}

	AllIndustries = []Industry{
		IndustryTech, IndustryFinance, IndustryHealthcare, IndustryEducation,
		IndustryRetail, IndustryManufacturing, IndustryServices, IndustryOther,
	}
)

func (r UserRole) IsValid() bool {
	for _, v := range AllUserRoles {
		if v == r {
			return true
		}
	}
	return false
}

func (s JobStatus) IsValid() bool {
	for _, v := range AllJobStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (t JobType) IsValid() bool {
	for _, v := range AllJobTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) IsValid() bool {
	for _, v := range AllApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsFinal - из финального статуса переходов нет
func (s ApplicationStatus) IsFinal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

func (i Industry) IsValid() bool {
	for _, v := range AllIndustries {
		if v == i {
			return true
		}
	}
	return false
}
