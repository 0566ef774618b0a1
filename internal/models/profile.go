package models

type StudentProfile struct {
	BaseModel
	UserID         string `gorm:"type:uuid;not null;uniqueIndex"`
	University     string `gorm:"size:200;not null"`
	Career         string `gorm:"size:200;not null"`
	Semester       int    `gorm:"not null"`
	GraduationYear *int
	Bio            string `gorm:"type:text"`
	Skills         string `gorm:"type:text"`
	CVURL          string `gorm:"size:500"`
	LinkedinURL    string `gorm:"size:500"`
	// ProfilePicture - ключ в хранилище или абсолютный URL
	ProfilePicture string `gorm:"size:500"`

	User *User `gorm:"foreignKey:UserID"`
}

type CompanyProfile struct {
	BaseModel
	UserID      string   `gorm:"type:uuid;not null;uniqueIndex"`
	CompanyName string   `gorm:"size:200;not null"`
	Industry    Industry `gorm:"type:varchar(50);not null"`
	Description string   `gorm:"type:text"`
	Website     string   `gorm:"size:500"`
	Address     string   `gorm:"type:text"`
	Logo        string   `gorm:"size:500"`
	IsVerified  bool     `gorm:"default:false"`

	User     *User        `gorm:"foreignKey:UserID"`
	Postings []JobPosting `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}
