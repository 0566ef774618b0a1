package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/models"
	"campusjobs_backend/internal/repositories"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, db *gorm.DB, refreshToken string) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tokens           *auth.TokenManager
	refreshTTL       time.Duration
	now              func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tokens *auth.TokenManager,
	refreshTTL time.Duration,
) AuthService {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthServiceImpl{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokens:           tokens,
		refreshTTL:       refreshTTL,
		now:              time.Now,
	}
}

// Register - регистрация студента или компании вместе с профилем роли
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := models.NormalizeEmail(req.Email)

	if req.Password != req.PasswordConfirm {
		return nil, apperrors.ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.FieldError("password", err.Error())
	}
	if req.Role != models.UserRoleStudent && req.Role != models.UserRoleCompany {
		return nil, apperrors.ErrInvalidUserRole
	}
	if missing := missingProfileFields(req); len(missing) > 0 {
		return nil, apperrors.ValidationError(missing)
	}

	exists, err := s.userRepo.ExistsByEmail(db, email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
		IsActive:     true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		switch req.Role {
		case models.UserRoleStudent:
			profile := &models.StudentProfile{
				UserID:         user.ID,
				University:     req.University,
				Career:         req.Career,
				Semester:       req.Semester,
				GraduationYear: req.GraduationYear,
			}
			if err := s.profileRepo.CreateStudentProfile(tx, profile); err != nil {
				return err
			}
			user.StudentProfile = profile
		case models.UserRoleCompany:
			profile := &models.CompanyProfile{
				UserID:      user.ID,
				CompanyName: req.CompanyName,
				Industry:    req.Industry,
				Description: req.Description,
				Address:     req.Address,
			}
			if err := s.profileRepo.CreateCompanyProfile(tx, profile); err != nil {
				return err
			}
			user.CompanyProfile = profile
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	resp := toUserResponse(user)
	return &resp, nil
}

// missingProfileFields - обязательные поля профиля для выбранной роли
func missingProfileFields(req *dto.RegisterRequest) map[string]string {
	missing := map[string]string{}
	switch req.Role {
	case models.UserRoleStudent:
		if strings.TrimSpace(req.University) == "" {
			missing["university"] = "Required for students"
		}
		if strings.TrimSpace(req.Career) == "" {
			missing["career"] = "Required for students"
		}
		if req.Semester <= 0 {
			missing["semester"] = "Required for students"
		}
		if req.GraduationYear == nil {
			missing["graduation_year"] = "Required for students"
		}
	case models.UserRoleCompany:
		if strings.TrimSpace(req.CompanyName) == "" {
			missing["company_name"] = "Required for companies"
		}
		if req.Industry == "" {
			missing["industry"] = "Required for companies"
		}
		if strings.TrimSpace(req.Description) == "" {
			missing["description"] = "Required for companies"
		}
		if strings.TrimSpace(req.Address) == "" {
			missing["address"] = "Required for companies"
		}
	}
	return missing
}

// Login - аутентификация по email и паролю
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, models.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "failed login attempt", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	return s.issueTokens(db, user)
}

// RefreshToken - выдает новую пару токенов, старый refresh-токен отзывается
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	var resp *dto.AuthResponse
	err := db.Transaction(func(tx *gorm.DB) error {
		token, err := s.refreshTokenRepo.FindValid(tx, refreshToken, s.now())
		if err != nil {
			if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
				return apperrors.ErrInvalidToken
			}
			return err
		}

		user, err := s.userRepo.FindByID(tx, token.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return apperrors.ErrInvalidToken
			}
			return err
		}
		if !user.IsActive {
			return apperrors.ErrUserInactive
		}

		if err := s.refreshTokenRepo.DeleteByToken(tx, refreshToken); err != nil {
			return err
		}
		resp, err = s.issueTokens(tx, user)
		return err
	})
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, err
		}
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// Logout отзывает refresh-токен; повторный выход не ошибка
func (s *AuthServiceImpl) Logout(ctx context.Context, db *gorm.DB, refreshToken string) error {
	err := s.refreshTokenRepo.DeleteByToken(db, refreshToken)
	if err != nil && !errors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	access, expiresAt, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     auth.NewRefreshToken(),
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.refreshTokenRepo.Create(db, refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
		User:         toUserResponse(user),
	}, nil
}
