package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stayhub-backend/internal/infrastructure/cache"
	"stayhub-backend/internal/infrastructure/queue"
	"stayhub-backend/internal/shared/apperror"
	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/query"
	"stayhub-backend/internal/shared/store"
	"stayhub-backend/pkg/jwt"
	"stayhub-backend/pkg/logger"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accessToken string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	ListUsers(ctx context.Context, opts *query.Options) ([]UserDTO, store.Metadata, error)
	UpdateUserRole(ctx context.Context, userID uuid.UUID, role string) error
	UpdateUserStatus(ctx context.Context, userID uuid.UUID, isActive bool) error
}

type userService struct {
	repo      Repository
	jwt       *jwt.Manager
	blacklist *cache.TokenBlacklist
	tasks     queue.Enqueuer
}

func NewService(repo Repository, manager *jwt.Manager, blacklist *cache.TokenBlacklist, tasks queue.Enqueuer) Service {
	return &userService{
		repo:      repo,
		jwt:       manager,
		blacklist: blacklist,
		tasks:     tasks,
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Email:    req.Email,
		Password: string(hash),
		FullName: req.FullName,
		Role:     auth.RoleCustomer,
		IsActive: true,
	}
	if req.Phone != "" {
		u.Phone = &req.Phone
	}

	id, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.tasks != nil {
		if err := s.tasks.Enqueue(ctx, queue.TypeWelcomeEmail, queue.WelcomeEmailPayload{
			Email:    created.Email,
			FullName: created.FullName,
		}); err != nil {
			logger.Error("failed to enqueue welcome email", err)
		}
	}

	dto := created.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if !u.IsActive {
		return nil, apperror.Forbidden("account is deactivated")
	}

	if err := s.repo.TouchLastLogin(ctx, u.ID); err != nil {
		logger.Error("failed to record last login", err)
	}

	return s.issueTokens(u)
}

func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*LoginResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, apperror.Unauthorized("account unavailable")
	}

	return s.issueTokens(u)
}

// Logout blacklists the presented access token until its natural expiry.
func (s *userService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return apperror.Unauthorized("invalid token")
	}

	until := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.blacklist.Blacklist(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("user")
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	if err := s.repo.UpdateProfile(ctx, userID, req.FullName, req.Phone); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	return s.repo.ChangePassword(ctx, userID, func(currentHash string) (string, error) {
		if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.CurrentPassword)); err != nil {
			return "", apperror.Forbidden("current password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(hash), nil
	})
}

func (s *userService) ListUsers(ctx context.Context, opts *query.Options) ([]UserDTO, store.Metadata, error) {
	users, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, store.Metadata{}, err
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, u.ToDTO())
	}

	return dtos, store.Metadata{
		Pagination: store.NewPagination(opts.Page, opts.PageSize, total),
		Filters:    opts.Filters,
		Order:      opts.Order,
	}, nil
}

func (s *userService) UpdateUserRole(ctx context.Context, userID uuid.UUID, role string) error {
	return s.repo.UpdateRole(ctx, userID, role)
}

func (s *userService) UpdateUserStatus(ctx context.Context, userID uuid.UUID, isActive bool) error {
	return s.repo.UpdateStatus(ctx, userID, isActive)
}

func (s *userService) issueTokens(u *User) (*LoginResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	claims, err := s.jwt.ValidateAccessToken(access)
	if err != nil {
		return nil, fmt.Errorf("failed to read issued token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt.Time,
		User:         u.ToDTO(),
	}, nil
}
