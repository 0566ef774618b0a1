package services

import (
	"context"
	"io"
	"strings"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/repositories"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/internal/storage"
	"campusjobs_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 100
)

// ImageFile - изображение из multipart-формы
type ImageFile struct {
	Reader io.Reader
	Size   int64
}

type PostService interface {
	// Feed - общая лента: посты и активные вакансии по убыванию времени
	Feed(ctx context.Context, db *gorm.DB, actor auth.Actor, limit int) ([]algorithms.FeedItem, error)
	CreatePost(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreatePostRequest, image *ImageFile) (*algorithms.FeedItem, error)
	GetPost(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*algorithms.FeedItem, error)
	UpdatePost(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdatePostRequest) (*algorithms.FeedItem, error)
	DeletePost(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error
	ListUserPosts(ctx context.Context, db *gorm.DB, actor auth.Actor, userID string, page dto.PageQuery) (*dto.PaginatedResponse, error)
}

type PostServiceImpl struct {
	postRepo  repositories.PostRepository
	jobRepo   repositories.JobRepository
	uploads   UploadService
	publisher FeedPublisher
	resolve   algorithms.MediaResolver
}

func NewPostService(
	postRepo repositories.PostRepository,
	jobRepo repositories.JobRepository,
	uploads UploadService,
	publisher FeedPublisher,
) PostService {
	s := &PostServiceImpl{
		postRepo:  postRepo,
		jobRepo:   jobRepo,
		uploads:   uploads,
		publisher: publisher,
		resolve:   noMedia,
	}
	if uploads != nil {
		s.resolve = uploads.Resolve
	}
	return s
}

func (s *PostServiceImpl) Feed(ctx context.Context, db *gorm.DB, actor auth.Actor, limit int) ([]algorithms.FeedItem, error) {
	if err := auth.Evaluate(actor, auth.ActionList, auth.Resource{Kind: auth.KindPost}).Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	posts, err := s.postRepo.ListRecent(db, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	jobs, err := s.jobRepo.ListActive(db, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := algorithms.ComposeFeed(posts, jobs, actor, s.resolve)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *PostServiceImpl) CreatePost(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.CreatePostRequest, image *ImageFile) (*algorithms.FeedItem, error) {
	if err := auth.Evaluate(actor, auth.ActionCreate, auth.Resource{Kind: auth.KindPost}).Err(); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.FieldError("content", "This field is required")
	}

	imageURL := strings.TrimSpace(req.ImageURL)
	if err := checkExternalImage(imageURL); err != nil {
		return nil, err
	}
	post := &models.Post{
		UserID:  actor.UserID(),
		Content: content,
		Image:   imageURL,
	}
	if image != nil && s.uploads != nil {
		uploaded, err := s.uploads.UploadImage(ctx, actor.UserID(), PurposePostImage, image.Reader, image.Size)
		if err != nil {
			return nil, err
		}
		post.Image = uploaded.Key
	}

	if err := s.postRepo.Create(db, post); err != nil {
		s.removeImage(ctx, post.UserID, post.Image)
		return nil, apperrors.InternalError(err)
	}

	created, err := s.findPost(db, post.ID)
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "post created", "post_id", created.ID)

	item := s.toItem(created, actor)
	if s.publisher != nil {
		s.publisher.Publish(item)
	}
	return &item, nil
}

func (s *PostServiceImpl) GetPost(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) (*algorithms.FeedItem, error) {
	post, err := s.findPost(db, id)
	if err != nil {
		return nil, err
	}
	if err := visible(auth.Evaluate(actor, auth.ActionRead, postResource(post)), apperrors.ErrPostNotFound); err != nil {
		return nil, err
	}
	item := s.toItem(post, actor)
	return &item, nil
}

func (s *PostServiceImpl) UpdatePost(ctx context.Context, db *gorm.DB, actor auth.Actor, id string, req *dto.UpdatePostRequest) (*algorithms.FeedItem, error) {
	post, err := s.findPost(db, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Evaluate(actor, auth.ActionUpdate, postResource(post)).Err(); err != nil {
		return nil, err
	}

	oldImage := post.Image
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, apperrors.FieldError("content", "This field is required")
		}
		post.Content = content
	}
	if req.ImageURL != nil {
		image := strings.TrimSpace(*req.ImageURL)
		if image != post.Image {
			if err := checkExternalImage(image); err != nil {
				return nil, err
			}
		}
		post.Image = image
	}

	if err := s.postRepo.Update(db, post); err != nil {
		return nil, notFoundOr(err, repositories.ErrPostNotFound, apperrors.ErrPostNotFound)
	}
	if oldImage != post.Image {
		s.removeImage(ctx, post.UserID, oldImage)
	}

	item := s.toItem(post, actor)
	return &item, nil
}

func (s *PostServiceImpl) DeletePost(ctx context.Context, db *gorm.DB, actor auth.Actor, id string) error {
	post, err := s.findPost(db, id)
	if err != nil {
		return err
	}
	if err := auth.Evaluate(actor, auth.ActionDelete, postResource(post)).Err(); err != nil {
		return err
	}
	if err := s.postRepo.Delete(db, post.ID); err != nil {
		return notFoundOr(err, repositories.ErrPostNotFound, apperrors.ErrPostNotFound)
	}
	s.removeImage(ctx, post.UserID, post.Image)
	logger.CtxInfo(ctx, "post deleted", "post_id", post.ID)
	return nil
}

func (s *PostServiceImpl) ListUserPosts(ctx context.Context, db *gorm.DB, actor auth.Actor, userID string, query dto.PageQuery) (*dto.PaginatedResponse, error) {
	if err := auth.Evaluate(actor, auth.ActionList, auth.Resource{Kind: auth.KindPost}).Err(); err != nil {
		return nil, err
	}

	page := pageFrom(query)
	posts, total, err := s.postRepo.ListByUser(db, userID, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := algorithms.ComposeFeed(posts, nil, actor, s.resolve)
	return buildPaginatedResponse(items, total, page), nil
}

func (s *PostServiceImpl) findPost(db *gorm.DB, id string) (*models.Post, error) {
	post, err := s.postRepo.FindByID(db, id)
	if err != nil {
		return nil, notFoundOr(err, repositories.ErrPostNotFound, apperrors.ErrPostNotFound)
	}
	return post, nil
}

func (s *PostServiceImpl) toItem(post *models.Post, viewer auth.Actor) algorithms.FeedItem {
	return algorithms.ComposeFeed([]models.Post{*post}, nil, viewer, s.resolve)[0]
}

func (s *PostServiceImpl) removeImage(ctx context.Context, ownerID, ref string) {
	if s.uploads == nil || ref == "" {
		return
	}
	bestEffort(ctx, "failed to remove post image", s.uploads.Remove(ctx, ownerID, ref), "ref", ref)
}

// checkExternalImage: через image_url принимается только абсолютная ссылка,
// ключи хранилища появляются только после загрузки файла
func checkExternalImage(ref string) error {
	if ref == "" || storage.IsExternalURL(ref) {
		return nil
	}
	return apperrors.FieldError("image_url", "Must be a valid URL")
}

func postResource(p *models.Post) auth.Resource {
	return auth.Resource{Kind: auth.KindPost, OwnerID: p.UserID}
}
