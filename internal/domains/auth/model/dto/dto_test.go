package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shutter/infras/jwt"
	"shutter/internal/domains/auth/model/dto"
	"shutter/shared/constant"
	"shutter/shared/timezone"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantRole string
	}{
		{"defaults to client", "", constant.RoleClient},
		{"photographer", constant.RolePhotographer, constant.RolePhotographer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.RegisterRequest{
				Email:    "new@example.com",
				Password: "plain-password",
				Role:     tt.role,
				FullName: stringPtr("New User"),
			}

			user := req.ToUserModel(constant.ContextGuest, "hashed")

			assert.NotEmpty(t, user.ID)
			assert.Equal(t, "new@example.com", user.Email)
			assert.Equal(t, "hashed", user.Password)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, "New User", *user.FullName)
			assert.True(t, user.Active)
			assert.Equal(t, constant.ContextGuest, user.CreatedBy)
		})
	}
}

func TestUpdateLastLoginRequest(t *testing.T) {
	now := timezone.Now()

	req := dto.UpdateLastLoginRequest{
		LastLogin: now,
	}

	assert.Equal(t, now, req.LastLogin)
}

func TestUpdatePasswordRequest(t *testing.T) {
	hashedPassword := "hashed-new-password"

	req := dto.UpdatePasswordRequest{
		Password: hashedPassword,
	}

	assert.Equal(t, hashedPassword, req.Password)
}

func stringPtr(s string) *string {
	return &s
}
