package dto

import (
	"encoding/json"
	"time"

	"campusjobs_backend/internal/models"
)

type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Data      json.RawMessage         `json:"data,omitempty"`
	IsRead    bool                    `json:"is_read"`
	ReadAt    *time.Time              `json:"read_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

type NotificationListQuery struct {
	PageQuery
	UnreadOnly bool                    `form:"unread_only"`
	Type       models.NotificationType `form:"type" validate:"omitempty,max=40"`
}
