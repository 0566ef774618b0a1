package models

type Post struct {
	BaseModel
	UserID  string `gorm:"type:uuid;not null;index"`
	Content string `gorm:"type:text;not null"`
	Image   string `gorm:"size:500"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
