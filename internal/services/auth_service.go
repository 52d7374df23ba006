package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"recipebox/internal/apperr"
	"recipebox/internal/models"
	"recipebox/internal/repositories"
)

const minPasswordLen = 5

// AuthService handles business logic for users, authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterUser normalizes the email, hashes the password and saves the user.
// A registered email is an integrity error.
func (s *AuthService) RegisterUser(ctx context.Context, req models.UserCreateRequest) (*models.User, error) {
	if verr := checkPassword(req.Password); verr != nil {
		return nil, verr
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.FieldError("name", msgBlank)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:    models.NormalizeEmail(req.Email),
		Password: hash,
		Name:     name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
// Unknown emails and wrong passwords fail the same way.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperr.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperr.ErrUnauthorized.WithCause(fmt.Errorf("invalid token: %w", err))
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperr.ErrUnauthorized.WithCause(errors.New("invalid token"))
}

// Authenticate resolves a token to its user. A token whose user no longer
// exists is rejected.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	raw, ok := claims["user_id"].(float64)
	if !ok || raw <= 0 {
		return nil, apperr.ErrUnauthorized.WithCause(errors.New("token has no user_id claim"))
	}

	user, err := s.userRepo.GetByID(ctx, uint(raw))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthorized.WithCause(err)
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser changes the authenticated user's email, name or password. A full
// update (partial=false) requires all three.
func (s *AuthService) UpdateUser(ctx context.Context, user *models.User, req models.UserUpdateRequest, partial bool) (*models.User, error) {
	if !partial {
		if missing := req.MissingRequired(); len(missing) > 0 {
			return nil, apperr.Validation(missing)
		}
	}

	updated := *user
	if req.Email != nil {
		updated.Email = models.NormalizeEmail(*req.Email)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.FieldError("name", msgBlank)
		}
		updated.Name = name
	}
	if req.Password != nil {
		if verr := checkPassword(*req.Password); verr != nil {
			return nil, verr
		}
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		updated.Password = hash
	}

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes the user and everything they own.
func (s *AuthService) DeleteUser(ctx context.Context, user *models.User) error {
	return s.userRepo.Delete(ctx, user.ID)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(password string) *apperr.Error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return apperr.FieldError("password", fmt.Sprintf("Ensure this field has at least %d characters.", minPasswordLen))
	}
	return nil
}
