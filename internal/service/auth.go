package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/Skotchmaster/marketplace/internal/hash"
	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/tokens"
	"github.com/google/uuid"
)

type AuthService struct {
	Users         UserStore
	Events        EventPublisher
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type RegisterInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Avatar   string `json:"avatar"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
		Avatar:       in.Avatar,
	}
	if err := s.Users.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 409, "reason", "user already exists")
			return nil, apperr.Conflict("user already exists")
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, apperr.Internal(err)
	}

	publish(ctx, s.Events, mykafka.TopicUser, user.ID.String(), mykafka.UserRegistered, map[string]string{
		"userId": user.ID.String(),
		"email":  user.Email,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, tokens.Pair, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return nil, tokens.Pair{}, err
	}

	user, err := s.Users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, tokens.Pair{}, apperr.Unauthorized("invalid email or password")
		}
		return nil, tokens.Pair{}, apperr.Internal(err)
	}
	if !hash.CheckPassword(user.PasswordHash, in.Password) {
		return nil, tokens.Pair{}, apperr.Unauthorized("invalid email or password")
	}

	pair, jti, err := s.issue(user)
	if err != nil {
		return nil, tokens.Pair{}, apperr.Internal(err)
	}
	if err := s.Users.SaveRefresh(ctx, user.ID, pair.RefreshToken, jti, pair.RefreshExp); err != nil {
		return nil, tokens.Pair{}, apperr.Internal(err)
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the old one is revoked and a new pair is
// issued for the same account.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return tokens.Pair{}, apperr.Unauthorized("invalid refresh token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return tokens.Pair{}, apperr.Unauthorized("invalid refresh token")
	}
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return tokens.Pair{}, apperr.Unauthorized("user doesn't exist")
		}
		return tokens.Pair{}, apperr.Internal(err)
	}

	pair, jti, err := s.issue(user)
	if err != nil {
		return tokens.Pair{}, apperr.Internal(err)
	}
	next := models.RefreshToken{
		Token:     pair.RefreshToken,
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: pair.RefreshExp,
	}
	if err := s.Users.RotateRefresh(ctx, claims.ID, refreshToken, next); err != nil {
		if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrTokenRevoked) {
			l.Warn("refresh_rejected", "status", 401, "user_id", userID.String(), "error", err)
			return tokens.Pair{}, apperr.Unauthorized("refresh token expired or revoked")
		}
		return tokens.Pair{}, apperr.Internal(err)
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.Users.RevokeRefresh(ctx, refreshToken); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id string) (*models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Unauthorized("invalid user id")
	}
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user doesn't exist")
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (tokens.Pair, string, error) {
	now := time.Now()
	accessExp := now.Add(s.AccessTTL)
	refreshExp := now.Add(s.RefreshTTL)

	access, err := tokens.SignAccess(user.ID.String(), user.Role, accessExp, s.JWTSecret)
	if err != nil {
		return tokens.Pair{}, "", err
	}
	refresh, jti, err := tokens.SignRefresh(user.ID.String(), refreshExp, s.RefreshSecret)
	if err != nil {
		return tokens.Pair{}, "", err
	}
	return tokens.Pair{
		AccessToken:  access,
		AccessExp:    accessExp,
		RefreshToken: refresh,
		RefreshExp:   refreshExp,
	}, jti, nil
}
