package models

import "time"

type JobPosting struct {
	BaseModel
	CompanyID        string     `gorm:"type:uuid;not null;index"`
	Title            string     `gorm:"size:200;not null"`
	Description      string     `gorm:"type:text;not null"`
	Requirements     string     `gorm:"type:text;not null"`
	Responsibilities string     `gorm:"type:text"`
	Location         string     `gorm:"size:200;not null"`
	JobType          JobType    `gorm:"type:varchar(20);not null"`
	SalaryMin        *float64   `gorm:"type:numeric(10,2)"`
	SalaryMax        *float64   `gorm:"type:numeric(10,2)"`
	Status           JobStatus  `gorm:"type:varchar(20);not null;default:'active';index"`
	Deadline         *time.Time `gorm:"type:date"`

	Company      *CompanyProfile  `gorm:"foreignKey:CompanyID"`
	Applications []JobApplication `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`

	// ApplicationsCount заполняется запросом, в таблице не хранится
	ApplicationsCount int64 `gorm:"->;-:migration"`
}

// IsActive - принимает ли вакансия отклики
func (j *JobPosting) IsActive() bool {
	return j.Status == JobStatusActive
}

type JobApplication struct {
	BaseModel
	StudentID   string            `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_job"`
	JobID       string            `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_job;index"`
	CoverLetter string            `gorm:"type:text"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes       string            `gorm:"type:text"`

	Student *StudentProfile `gorm:"foreignKey:StudentID"`
	Job     *JobPosting     `gorm:"foreignKey:JobID"`
}
