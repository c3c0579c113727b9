package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/repository"
	"github.com/fonoflow/clinic-api/pkg/auth"
	apperrors "github.com/fonoflow/clinic-api/pkg/errors"
	"github.com/fonoflow/clinic-api/pkg/logger"
)

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
)

// Service authenticates clinic staff. Repeated failures lock the account
// for a cool-down window.
type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	expiry   time.Duration
	logger   *logger.Logger
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, expiry time.Duration, logger *logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		expiry:   expiry,
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same response as a wrong password so the endpoint does not
		// reveal which accounts exist.
		return nil, apperrors.Unauthorized(nil)
	}

	if s.isLocked(user) {
		return nil, apperrors.NewBadRequest("account temporarily locked, try again later", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, user)
		return nil, apperrors.Unauthorized(nil)
	}

	now := time.Now()
	user.LoginAttempts = 0
	user.Status = model.UserStatusActive
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to record login", map[string]interface{}{"user_id": user.ID})
	}

	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   now.Add(s.expiry),
	}, nil
}

// isLocked reports whether the account is inside its lockout window. A lock
// older than the window expires on the next attempt.
func (s *Service) isLocked(user *model.User) bool {
	if user.Status != model.UserStatusLocked {
		return false
	}
	if time.Since(user.LastLoginAttempt) > lockoutWindow {
		return false
	}
	return true
}

func (s *Service) recordFailure(ctx context.Context, user *model.User) {
	user.LoginAttempts++
	user.LastLoginAttempt = time.Now()
	if user.LoginAttempts >= maxLoginAttempts {
		user.Status = model.UserStatusLocked
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error(err, "failed to record login attempt", map[string]interface{}{"user_id": user.ID})
	}
}
