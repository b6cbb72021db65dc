package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fair/infras/jwt"
	"fair/internal/domains/auth/model/dto"
	"fair/shared/constant"
	"fair/shared/validator"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	name := "Rina"
	req := dto.RegisterRequest{Email: "Rina@Acme.TEST", Password: "secret123", FullName: &name}

	user := req.ToUserModel("hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "rina@acme.test", user.Email)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleExhibitor, user.Role)
	assert.True(t, user.Active)
	assert.Equal(t, user.ID, user.CreatedBy)
	assert.Equal(t, &name, user.FullName)
}

func TestTokenResponse_FromTokenPair(t *testing.T) {
	pair := &jwt.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var res dto.TokenResponse
	res.FromTokenPair(pair)

	assert.Equal(t, dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}, res)
}

func TestChangePasswordRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ChangePasswordRequest
		wantErr bool
	}{
		{name: "valid", req: dto.ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret"}},
		{name: "too short", req: dto.ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "short"}, wantErr: true},
		{name: "unchanged", req: dto.ChangePasswordRequest{CurrentPassword: "same-secret", NewPassword: "same-secret"}, wantErr: true},
		{name: "missing current", req: dto.ChangePasswordRequest{NewPassword: "new-secret"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}
