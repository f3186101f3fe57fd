package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrReservedUsername    = apperr.New(apperr.KindValidation, "username 'me' is reserved")
	ErrSignupConflict      = apperr.New(apperr.KindConflict, "username or email already registered under a different account")
	ErrUserNotFound        = apperr.New(apperr.KindNotFound, "user not found")
	ErrBadConfirmationCode = apperr.New(apperr.KindAuthorization, "incorrect confirmation code")
	ErrCodeNotIssued       = apperr.New(apperr.KindAuthorization, "no confirmation code has been issued for this user")
	ErrDeliveryFailed      = apperr.New(apperr.KindDelivery, "failed to send confirmation code")
	ErrInvalidToken        = errors.New("invalid token")
)

const confirmationSubject = "Registration confirmation"

// Claims carried by the access token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Signup runs the passwordless registration step: get-or-create the
	// user and email a fresh confirmation code.
	Signup(ctx context.Context, username, email string) (*models.User, error)
	// IssueToken exchanges (username, confirmation code) for a signed
	// access token.
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	sender         mailer.Sender
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, sender mailer.Sender, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		sender:         sender,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

// Signup is idempotent for a repeated (username, email) pair: the same user
// row is reused and a fresh code is issued each call, rotating any prior
// one. When delivery fails the user created by this call is deleted and a
// delivery error is surfaced; a pre-existing user is kept.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if username == "me" {
		return nil, ErrReservedUsername
	}

	user, created, err := s.userRepo.GetOrCreate(ctx, username, email)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSignupConflict
		}
		return nil, fmt.Errorf("get or create user: %w", err)
	}

	code, err := generateConfirmationCode()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}
	// Only the hash is persisted; the code itself leaves the system in the
	// mail body alone.
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}
	hashStr := string(hash)
	user.ConfirmationCode = &hashStr
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("store confirmation code: %w", err)
	}

	body := fmt.Sprintf("Your confirmation code to continue registration: %s", code)
	if err := s.sender.Send(user.Email, confirmationSubject, body); err != nil {
		if created {
			// compensating delete of the unconfirmed user
			_ = s.userRepo.Delete(ctx, user.ID)
		}
		return nil, apperr.Wrap(apperr.KindDelivery, ErrDeliveryFailed.Message, err)
	}

	return user, nil
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if user.ConfirmationCode == nil {
		return "", ErrCodeNotIssued
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.ConfirmationCode), []byte(code)) != nil {
		return "", ErrBadConfirmationCode
	}
	// The code is deliberately not rotated here; it stays valid until the
	// next signup call overwrites it.
	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Type:     "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// generateConfirmationCode returns a URL-safe random code with 32 bytes of
// entropy.
func generateConfirmationCode() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
