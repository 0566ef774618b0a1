package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("storage object not found")
	ErrInvalidKey     = errors.New("invalid storage key")
)

// Object - содержимое объекта хранилища
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Storage - хранилище медиафайлов (аватары, логотипы, изображения постов).
// Ключи - относительные пути вида "avatars/<user>/<uuid>.jpg".
type Storage interface {
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	Open(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// URL - публичный адрес объекта (может быть относительным к API)
	URL(key string) string
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	UseSSL     bool   // For S3/R2
	PublicRead bool   // Make files public by default
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// CleanKey нормализует ключ и отклоняет выход за пределы хранилища
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// IsExternalURL - ссылка уже абсолютная (например, cv_url или старые данные)
func IsExternalURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Resolver превращает ссылку из БД в адрес для клиента.
// Пустая ссылка дает nil, абсолютный URL возвращается как есть.
func Resolver(s Storage, publicBase string) func(ref string) *string {
	publicBase = strings.TrimRight(publicBase, "/")
	return func(ref string) *string {
		if ref == "" {
			return nil
		}
		if IsExternalURL(ref) {
			return &ref
		}
		url := s.URL(ref)
		if publicBase != "" && strings.HasPrefix(url, "/") {
			url = publicBase + url
		}
		return &url
	}
}
