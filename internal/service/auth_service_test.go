package service_test

import (
	"context"
	"testing"

	"alcyxob/fittrack/internal/service"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	user, err := s.auth.Register(ctx, service.RegisterInput{
		Username:     "ana",
		Email:        " Ana@Example.com ",
		Password:     "secret1",
		FirstName:    "Ana",
		FitnessGoals: map[string][]string{"strength": {"Build muscle"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	token, loggedIn, err := s.auth.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims := &service.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.auth.GetJWTSecret()), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestRegister_Validation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   service.RegisterInput
	}{
		{"missing username", service.RegisterInput{Email: "a@b.co", Password: "secret1"}},
		{"bad email", service.RegisterInput{Username: "a", Email: "nope", Password: "secret1"}},
		{"short password", service.RegisterInput{Username: "a", Email: "a@b.co", Password: "12345"}},
		{"bad birth date", service.RegisterInput{Username: "a", Email: "a@b.co", Password: "secret1", DateOfBirth: "01/02/1990"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.auth.Register(ctx, tt.in)
			assert.ErrorIs(t, err, service.ErrValidationFailed)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newServices(t)
	s.register(t, "dup@example.com")

	_, err := s.auth.Register(context.Background(), service.RegisterInput{Username: "x", Email: "DUP@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newServices(t)
	s.register(t, "ana@example.com")

	_, _, err := s.auth.Login(context.Background(), "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)

	_, _, err = s.auth.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	user := s.register(t, "ana@example.com")
	other := s.register(t, "bo@example.com")

	updated, err := s.users.UpdateUser(ctx, user.ID, service.UserUpdate{
		Username: "ana", Email: "ana@example.com", FirstName: " Ana ", Height: 170,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.FirstName)
	assert.Equal(t, 170.0, updated.Height)

	_, _, err = s.auth.Login(ctx, "ana@example.com", "secret1")
	assert.NoError(t, err, "password is kept when not provided")

	updated, err = s.users.UpdateUser(ctx, user.ID, service.UserUpdate{Weight: 62})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.FirstName)
	assert.Equal(t, "ana@example.com", updated.Email)
	assert.Equal(t, 62.0, updated.Weight)

	_, err = s.users.UpdateUser(ctx, other.ID, service.UserUpdate{Username: "bo", Email: "ana@example.com"})
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)

	require.NoError(t, s.users.DeleteUser(ctx, user.ID))
	_, err = s.users.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
