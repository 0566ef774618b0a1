package models

import (
	"strings"
	"time"
)

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	FirstName    string   `gorm:"size:150"`
	LastName     string   `gorm:"size:150"`
	Phone        string   `gorm:"size:20"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
	IsActive     bool     `gorm:"default:true"`

	// Relations
	StudentProfile *StudentProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CompanyProfile *CompanyProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RefreshTokens  []RefreshToken  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// NormalizeEmail - email хранится в нижнем регистре без пробелов по краям
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DisplayName - "Имя Фамилия", пустые части отбрасываются
func (u *User) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
