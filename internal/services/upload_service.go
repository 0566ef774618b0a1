package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/imageprocessor"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/internal/storage"
	"campusjobs_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ImagePurpose определяет каталог в хранилище и ограничение размеров
type ImagePurpose string

const (
	PurposeAvatar    ImagePurpose = "avatars"
	PurposeLogo      ImagePurpose = "logos"
	PurposePostImage ImagePurpose = "posts"
)

func (p ImagePurpose) preset() imageprocessor.Preset {
	switch p {
	case PurposeAvatar:
		return imageprocessor.PresetAvatar
	case PurposeLogo:
		return imageprocessor.PresetLogo
	default:
		return imageprocessor.PresetPostImage
	}
}

type UploadConfig struct {
	MaxSize      int64
	AllowedTypes []string
	MaxDimension int
}

type UploadService interface {
	// UploadImage проверяет, сжимает и сохраняет изображение под ключом <purpose>/<ownerID>/<uuid><ext>
	UploadImage(ctx context.Context, ownerID string, purpose ImagePurpose, r io.Reader, size int64) (*dto.UploadResponse, error)
	// Remove удаляет объект ownerID по ссылке из БД; внешние URL и пустые ссылки игнорируются.
	// Ключ вне <purpose>/<ownerID>/ не удаляется: ErrForeignObject.
	Remove(ctx context.Context, ownerID, ref string) error
	Open(ctx context.Context, key string) (*storage.Object, error)
	Resolve(ref string) *string
}

type UploadServiceImpl struct {
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    UploadConfig
	allowed   map[string]bool
	resolve   algorithms.MediaResolver
}

func NewUploadService(store storage.Storage, processor *imageprocessor.Processor, cfg UploadConfig, resolve algorithms.MediaResolver) UploadService {
	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	if resolve == nil {
		resolve = noMedia
	}
	return &UploadServiceImpl{
		storage:   store,
		processor: processor,
		config:    cfg,
		allowed:   allowed,
		resolve:   resolve,
	}
}

func (s *UploadServiceImpl) UploadImage(ctx context.Context, ownerID string, purpose ImagePurpose, r io.Reader, size int64) (*dto.UploadResponse, error) {
	if s.config.MaxSize > 0 && size > s.config.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	limit := s.config.MaxSize
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("read upload: %w", err))
	}
	if int64(len(data)) > limit {
		return nil, apperrors.ErrFileTooLarge
	}

	mime := mimetype.Detect(data)
	if len(s.allowed) > 0 && !s.allowed[strings.ToLower(mime.String())] {
		logger.CtxWarn(ctx, "rejected upload", "mime", mime.String(), "purpose", purpose)
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"file": "Unsupported file type " + mime.String()})
	}

	preset := purpose.preset()
	if d := s.config.MaxDimension; d > 0 {
		preset.MaxWidth = min(preset.MaxWidth, d)
		preset.MaxHeight = min(preset.MaxHeight, d)
	}

	img, err := s.processor.Process(bytes.NewReader(data), preset)
	if err != nil {
		if errors.Is(err, imageprocessor.ErrUnsupportedFormat) {
			return nil, apperrors.ErrInvalidFileType
		}
		return nil, apperrors.InternalError(err)
	}

	key := fmt.Sprintf("%s/%s/%s%s", purpose, ownerID, uuid.NewString(), img.Ext)
	if err := s.storage.Save(ctx, key, bytes.NewReader(img.Data), img.ContentType); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageUnavailable, "storage", "Failed to store file", http.StatusBadGateway)
	}

	logger.CtxInfo(ctx, "image uploaded", "key", key, "bytes", len(img.Data))
	return &dto.UploadResponse{
		Key:         key,
		URL:         s.resolve(key),
		ContentType: img.ContentType,
		Size:        len(img.Data),
		Width:       img.Width,
		Height:      img.Height,
	}, nil
}

// ErrForeignObject - ключ в хранилище принадлежит другому пользователю
var ErrForeignObject = errors.New("storage object belongs to another owner")

// OwnsObject проверяет, что ключ лежит под <purpose>/<ownerID>/
func OwnsObject(ownerID, key string) bool {
	parts := strings.Split(key, "/")
	return ownerID != "" && len(parts) == 3 && parts[0] != "" && parts[1] == ownerID && parts[2] != ""
}

func (s *UploadServiceImpl) Remove(ctx context.Context, ownerID, ref string) error {
	if ref == "" || storage.IsExternalURL(ref) {
		return nil
	}
	if !OwnsObject(ownerID, ref) {
		return fmt.Errorf("remove %q for %s: %w", ref, ownerID, ErrForeignObject)
	}
	err := s.storage.Delete(ctx, ref)
	if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return err
	}
	return nil
}

func (s *UploadServiceImpl) Open(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := s.storage.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, apperrors.NewNotFoundError("File not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return obj, nil
}

func (s *UploadServiceImpl) Resolve(ref string) *string {
	return s.resolve(ref)
}
