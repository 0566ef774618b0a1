package dto

// CreatePostRequest принимается как JSON или multipart (изображение - поле image)
type CreatePostRequest struct {
	Content  string `json:"content" form:"content" validate:"required,max=5000"`
	ImageURL string `json:"image_url" form:"image_url" validate:"omitempty,url,max=500"`
}

type UpdatePostRequest struct {
	Content  *string `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
}

type FeedQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}
