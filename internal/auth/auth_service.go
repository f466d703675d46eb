package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "leaveflow/internal/auth/errors"
	"leaveflow/internal/middleware"
	"leaveflow/internal/policy"
	"leaveflow/internal/user"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
	Me(ctx context.Context, actor policy.Actor) (MeResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

type service struct {
	users  user.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(users user.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, rdb: rdb, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		s.logger.Warn("login attempt on deactivated account", zap.String("user_id", u.ID.String()))
		return LoginResponse{}, autherrors.ErrUserInactive
	}

	if _, ok := u.PolicyRole(); !ok {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(u.ID.String(), u.Role, accessTokenTTL)
	if err != nil {
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(u.ID.String(), u.Role, refreshTokenTTL)
	if err != nil {
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))

	return LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapProfile(u),
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return LoginResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return LoginResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return LoginResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return LoginResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, autherrors.ErrUserNotFound
		}
		return LoginResponse{}, err
	}
	if !u.IsActive {
		return LoginResponse{}, autherrors.ErrUserInactive
	}

	newAccessToken, err := s.generateToken(u.ID.String(), u.Role, accessTokenTTL)
	if err != nil {
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(u.ID.String(), u.Role, refreshTokenTTL)
	if err != nil {
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return LoginResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		User:         mapProfile(u),
	}, nil
}

func (s *service) Me(ctx context.Context, actor policy.Actor) (MeResponse, error) {
	u, err := s.users.FindByID(ctx, actor.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MeResponse{}, autherrors.ErrUserNotFound
		}
		return MeResponse{}, err
	}

	return MeResponse{
		Profile:      mapProfile(u),
		Capabilities: policy.Capabilities(actor.Role),
	}, nil
}

// Logout denylists the access token for its remaining lifetime, so the
// server-side session dies together with the client-side copy.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" || s.rdb == nil {
		return nil
	}

	ttl := accessTokenTTL
	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err == nil {
		if exp, expErr := token.Claims.GetExpirationTime(); expErr == nil && exp != nil {
			if remaining := time.Until(exp.Time); remaining > 0 {
				ttl = remaining
			}
		}
	}

	return s.rdb.Set(ctx, middleware.DenylistKey(accessToken), "revoked", ttl).Err()
}

func (s *service) generateToken(userID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapProfile(u *user.User) Profile {
	return Profile{
		ID:           u.ID.String(),
		EmployeeID:   u.EmployeeID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		LeaveBalance: u.LeaveBalance,
	}
}
