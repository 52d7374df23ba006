package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"recipebox/internal/apperr"
	"recipebox/internal/models"
	"recipebox/internal/services"
)

const testJWTSecret = "test_jwt_secret"

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	req := models.UserCreateRequest{Email: "test@EXAMPLE.com", Password: "password123", Name: " Test "}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "test@example.com" &&
			u.Name == "Test" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")) == nil
	})).Return(nil).Once()

	user, err := authService.RegisterUser(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(apperr.Integrity(fmt.Errorf("duplicate key"))).Once()
	_, err = authService.RegisterUser(ctx, req)
	assert.ErrorIs(t, err, apperr.ErrIntegrity)
	mockRepo.AssertExpectations(t)

	// Password too short never reaches the repository
	_, err = authService.RegisterUser(ctx, models.UserCreateRequest{Email: "a@b.c", Password: "pw", Name: "A"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:       7,
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
	token, err := authService.LoginUser(ctx, "test@Example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, "test@example.com", claims["email"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
	_, err = authService.LoginUser(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	// Unknown user fails the same way
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, apperr.NotFound(nil)).Once()
	_, err = authService.LoginUser(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 3,
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, float64(3), claims["user_id"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 3,
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	otherSecret, _ := token.SignedString([]byte("another secret"))
	_, err = authService.ValidateToken(otherSecret)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	sign := func(claims jwt.MapClaims) string {
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
		return s
	}
	exp := jwt.TimeFunc().Add(time.Hour).Unix()

	mockRepo.On("GetByID", ctx, uint(3)).Return(&models.User{ID: 3}, nil).Once()
	user, err := authService.Authenticate(ctx, sign(jwt.MapClaims{"user_id": 3, "exp": exp}))
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)

	mockRepo.On("GetByID", ctx, uint(4)).Return(nil, apperr.NotFound(nil)).Once()
	_, err = authService.Authenticate(ctx, sign(jwt.MapClaims{"user_id": 4, "exp": exp}))
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = authService.Authenticate(ctx, sign(jwt.MapClaims{"exp": exp}))
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	user := &models.User{ID: 1, Email: "old@example.com", Name: "Old", Password: "hash"}

	name := "New"
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "New" && u.Email == "old@example.com" && u.Password == "hash"
	})).Return(nil).Once()
	updated, err := authService.UpdateUser(ctx, user, models.UserUpdateRequest{Name: &name}, true)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "Old", user.Name)

	// Full update without password
	_, err = authService.UpdateUser(ctx, user, models.UserUpdateRequest{Name: &name}, false)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	password := "newpassword"
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *models.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	})).Return(nil).Once()
	_, err = authService.UpdateUser(ctx, user, models.UserUpdateRequest{Password: &password}, true)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	mockRepo.On("Delete", ctx, uint(5)).Return(nil).Once()
	assert.NoError(t, authService.DeleteUser(ctx, &models.User{ID: 5}))
	mockRepo.AssertExpectations(t)
}
