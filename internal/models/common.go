package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate проставляет ID на стороне приложения, чтобы он был известен до INSERT
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// All возвращает все модели для AutoMigrate (порядок важен из-за внешних ключей)
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&StudentProfile{},
		&CompanyProfile{},
		&JobPosting{},
		&JobApplication{},
		&Post{},
		&Notification{},
	}
}
