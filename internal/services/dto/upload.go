package dto

// UploadResponse - результат загрузки изображения
type UploadResponse struct {
	Key         string  `json:"key"`
	URL         *string `json:"url"`
	ContentType string  `json:"content_type"`
	Size        int     `json:"size"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}
