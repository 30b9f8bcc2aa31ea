package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/imoveis/catalog/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRegistrationClosed = errors.New("registration is disabled")
	ErrWeakPassword       = errors.New("password must have at least 8 characters")
)

type Service struct {
	store             UserStore
	config            *config.JWTConfig
	allowRegistration bool
	now               func() time.Time
}

func NewService(store UserStore, jwtCfg *config.JWTConfig, authCfg *config.AuthConfig) *Service {
	return &Service{
		store:             store,
		config:            jwtCfg,
		allowRegistration: authCfg.AllowRegistration,
		now:               time.Now,
	}
}

type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if !s.allowRegistration {
		return nil, ErrRegistrationClosed
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != StatusActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.GetUserByID(ctx, id)
}

// EnsureAdmin creates the admin account, or resets its password when the
// email is already registered. It reports whether a new account was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	existing, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, err
	}
	if existing == nil {
		if _, err := s.createUser(ctx, email, password, name); err != nil {
			return false, err
		}
		return true, nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	if err := s.store.UpdatePassword(ctx, existing.ID, hash); err != nil {
		return false, fmt.Errorf("failed to reset password for %s: %w", existing.Email, err)
	}
	return false, nil
}

func (s *Service) createUser(ctx context.Context, email, password, name string) (*User, error) {
	email = normalizeEmail(email)
	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Status:       StatusActive,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) issue(user *User) (*AuthResponse, error) {
	expiresAt := s.now().Add(s.config.ExpirationDuration())
	token, err := s.generateToken(user, expiresAt)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) generateToken(user *User, expiresAt time.Time) (string, error) {
	claims := JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrUnauthorized
}

// SessionFromToken validates a bearer token and returns the session it
// grants.
func (s *Service) SessionFromToken(tokenString string) (*Session, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	sess := &Session{UserID: claims.UserID, Email: claims.Email}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}
