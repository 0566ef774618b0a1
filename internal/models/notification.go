package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationNewApplication      NotificationType = "new_application"
	NotificationApplicationStatus   NotificationType = "application_status"
	NotificationApplicationWithdraw NotificationType = "application_withdrawn"
)

type Notification struct {
	BaseModel
	UserID  string           `gorm:"type:uuid;not null;index"`
	Type    NotificationType `gorm:"type:varchar(40);not null"`
	Title   string           `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"job_id": "...", "application_id": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
