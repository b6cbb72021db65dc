package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"fair/config"
	"fair/infras/jwt"
	jwtMocks "fair/infras/jwt/mocks"
	"fair/infras/otel/mocks"
	"fair/internal/domains/auth/model/dto"
	"fair/internal/domains/auth/service"
	exhibitorMocks "fair/internal/domains/exhibitor/mocks"
	exhibitorModel "fair/internal/domains/exhibitor/model"
	userMocks "fair/internal/domains/user/mocks"
	userModel "fair/internal/domains/user/model"
	"fair/shared/constant"
	"fair/shared/failure"
)

// bcrypt hash of "password"
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

type deps struct {
	users      *userMocks.MockUser
	exhibitors *exhibitorMocks.MockExhibitor
	jwt        *jwtMocks.MockJWT
}

func newService(t *testing.T) (service.Auth, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := deps{
		users:      userMocks.NewMockUser(ctrl),
		exhibitors: exhibitorMocks.NewMockExhibitor(ctrl),
		jwt:        jwtMocks.NewMockJWT(ctrl),
	}

	return service.New(d.users, d.exhibitors, &config.Config{}, mocks.NewOtel(), d.jwt), d
}

func account(role string, active bool) userModel.User {
	return userModel.User{
		ID:       "user-1",
		Email:    "sales@acme.test",
		Password: passwordHash,
		Role:     role,
		Active:   active,
	}
}

func tokenPair() *jwt.TokenPair {
	return &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name: "creates an exhibitor account",
			setupMock: func(d deps) {
				d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				d.users.EXPECT().
					Insert(gomock.Any(), gomock.Cond(func(u userModel.User) bool {
						return u.Role == constant.RoleExhibitor && u.Email == "sales@acme.test" && u.Password != "password123"
					})).
					Return(nil)
			},
		},
		{
			name: "email taken",
			setupMock: func(d deps) {
				d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "lookup fails",
			setupMock: func(d deps) {
				d.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			err := svc.Register(context.Background(), dto.RegisterRequest{Email: "Sales@Acme.test", Password: "password123"})
			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name:     "exhibitor token carries the linked profile",
			password: "password",
			setupMock: func(d deps) {
				d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account(constant.RoleExhibitor, true), nil)
				d.exhibitors.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(exhibitorModel.Exhibitor{ID: "exh-1"}, nil)
				d.jwt.EXPECT().
					GenerateTokenPair(jwt.Subject{UserID: "user-1", Email: "sales@acme.test", Role: constant.RoleExhibitor, ExhibitorID: "exh-1"}).
					Return(tokenPair(), nil)
				d.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:     "staff token has no exhibitor",
			password: "password",
			setupMock: func(d deps) {
				d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account(constant.RoleAdmin, true), nil)
				d.jwt.EXPECT().
					GenerateTokenPair(jwt.Subject{UserID: "user-1", Email: "sales@acme.test", Role: constant.RoleAdmin}).
					Return(tokenPair(), nil)
				d.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
		{
			name:     "unknown email",
			password: "password",
			setupMock: func(d deps) {
				d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: 401,
		},
		{
			name:     "wrong password",
			password: "not-the-password",
			setupMock: func(d deps) {
				d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account(constant.RoleAdmin, true), nil)
			},
			wantCode: 401,
		},
		{
			name:     "deactivated account",
			password: "password",
			setupMock: func(d deps) {
				d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account(constant.RoleAdmin, false), nil)
			},
			wantCode: 403,
		},
		{
			name:     "token generation fails",
			password: "password",
			setupMock: func(d deps) {
				d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account(constant.RoleAdmin, true), nil)
				d.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(nil, errors.New("no secret"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			res, err := svc.Login(context.Background(), dto.LoginRequest{Email: "sales@acme.test", Password: tt.password})
			if tt.wantCode == 0 {
				assert.NoError(t, err)
				assert.Equal(t, "access", res.AccessToken)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates the pair", func(t *testing.T) {
		svc, d := newService(t)
		d.jwt.EXPECT().RefreshTokens("refresh").Return(tokenPair(), nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
		assert.NoError(t, err)
		assert.Equal(t, "refresh", res.RefreshToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc, d := newService(t)
		d.jwt.EXPECT().RefreshTokens("stale").Return(nil, errors.New("expired"))

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "stale"})
		assert.Equal(t, 401, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	signedIn := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")

	tests := []struct {
		name      string
		ctx       context.Context
		current   string
		setupMock func(d deps)
		wantCode  int
	}{
		{
			name:    "changed",
			ctx:     signedIn,
			current: "password",
			setupMock: func(d deps) {
				d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account(constant.RoleExhibitor, true), nil)
				d.users.EXPECT().
					Update(gomock.Any(), gomock.Cond(func(fields map[string]any) bool {
						hash, ok := fields["password"].(string)

						return ok && hash != passwordHash && fields[constant.FieldModifiedBy] == "user-1"
					}), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:      "anonymous",
			ctx:       context.Background(),
			current:   "password",
			setupMock: func(deps) {},
			wantCode:  401,
		},
		{
			name:    "wrong current password",
			ctx:     signedIn,
			current: "guess",
			setupMock: func(d deps) {
				d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(account(constant.RoleExhibitor, true), nil)
			},
			wantCode: 400,
		},
		{
			name:    "account gone",
			ctx:     signedIn,
			current: "password",
			setupMock: func(d deps) {
				d.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			tt.setupMock(d)

			err := svc.ChangePassword(tt.ctx, dto.ChangePasswordRequest{CurrentPassword: tt.current, NewPassword: "new-password"})
			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}
