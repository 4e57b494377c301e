package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nomadecampers/nomade-api/internal/config"
	"github.com/nomadecampers/nomade-api/internal/middleware"
	"github.com/nomadecampers/nomade-api/internal/models"
	"github.com/nomadecampers/nomade-api/internal/repository"
)

// refreshTokenTTL is how long a refresh token stays valid. Access tokens are
// short-lived (config.JWTExpirationHours); this keeps sellers logged in
// between visits without re-entering credentials.
const refreshTokenTTL = 30 * 24 * time.Hour

var errInvalidCredentials = errors.New("credenciales inválidas")

// AuthService issues and rotates the session tokens
type AuthService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	cfg              *config.Config
}

func NewAuthService(userRepo repository.UserRepository, rtRepo repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: rtRepo,
		cfg:              cfg,
	}
}

// LoginResult is the token pair plus the authenticated user's profile
type LoginResult struct {
	Token        string              `json:"token"`
	RefreshToken string              `json:"refresh_token"`
	User         models.UserResponse `json:"user"`
}

// Login checks the credentials and issues a fresh token pair. Unknown email
// and wrong password return the same error so the response leaks nothing.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errInvalidCredentials
	}
	if !user.IsActive() {
		return nil, errors.New("cuenta inactiva o suspendida")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a valid refresh token for a new pair. The presented
// token is consumed either way: expired tokens are deleted, valid ones are
// replaced.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	rt, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("token inválido")
	}
	if rt.IsExpired() {
		s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, errors.New("token expirado")
	}

	user, err := s.userRepo.FindByID(ctx, rt.UserID)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}
	if !user.IsActive() {
		return nil, errors.New("cuenta inactiva o suspendida")
	}

	s.refreshTokenRepo.Delete(ctx, refreshToken)
	return s.issueTokens(ctx, user)
}

// Logout invalidates the refresh token; the access token just expires
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokenRepo.Delete(ctx, refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	access, err := s.signAccessToken(user)
	if err != nil {
		return nil, errors.New("error al generar token")
	}
	refresh, err := s.createRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, errors.New("error al generar refresh token")
	}
	return &LoginResult{
		Token:        access,
		RefreshToken: refresh,
		User:         user.ToResponse(),
	}, nil
}

// signAccessToken builds the JWT with the claims the Auth middleware expects
func (s *AuthService) signAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) createRefreshToken(ctx context.Context, userID uint) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	expiresAt := time.Now().Add(refreshTokenTTL)
	rt := &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: &expiresAt,
	}
	if err := s.refreshTokenRepo.Create(ctx, rt); err != nil {
		return "", err
	}
	return token, nil
}

// HashPassword hashes a password with bcrypt at the default cost
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashed), err
}

// VerifyPassword reports whether password matches the stored bcrypt hash
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
