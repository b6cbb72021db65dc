package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"fair/config"
	otelMocks "fair/infras/otel/mocks"
	userMocks "fair/internal/domains/user/mocks"
	"fair/internal/domains/user/model"
	"fair/internal/domains/user/model/dto"
	"fair/internal/domains/user/service"
	cacheMocks "fair/shared/cache/mocks"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/failure"
	"fair/shared/password"
)

var errCacheMiss = errors.New("cache miss")

func newService(t *testing.T) (service.User, *userMocks.MockUser, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, otelMocks.NewOtel()), mockRepo, mockCache
}

func staffContext(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateUserRequest
		setupMock func(repo *userMocks.MockUser)
		check     func(t *testing.T, err error)
	}{
		{
			name: "admin opens an exhibitor account",
			ctx:  staffContext("admin-1", constant.RoleAdmin),
			req:  dto.CreateUserRequest{Email: "Sales@Acme.test", Password: "secret123", Role: constant.RoleExhibitor},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Cond(func(u model.User) bool {
						return u.Email == "sales@acme.test" &&
							u.CreatedBy == "admin-1" &&
							password.Verify("secret123", u.Password) == nil
					})).
					Return(nil)
			},
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.NoError(t, err)
			},
		},
		{
			name:      "admin cannot create a superadmin",
			ctx:       staffContext("admin-1", constant.RoleAdmin),
			req:       dto.CreateUserRequest{Email: "root@fair.test", Password: "secret123", Role: constant.RoleSuperAdmin},
			setupMock: func(*userMocks.MockUser) {},
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.Equal(t, 403, failure.GetCode(err))
			},
		},
		{
			name: "email already registered",
			ctx:  staffContext("root-1", constant.RoleSuperAdmin),
			req:  dto.CreateUserRequest{Email: "sales@acme.test", Password: "secret123", Role: constant.RoleAdmin},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, failure.IsConflict(err))
			},
		},
		{
			name: "insert fails",
			ctx:  staffContext("root-1", constant.RoleSuperAdmin),
			req:  dto.CreateUserRequest{Email: "sales@acme.test", Password: "secret123", Role: constant.RoleAdmin},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.Equal(t, 500, failure.GetCode(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			tt.setupMock(repo)

			res, err := svc.Create(tt.ctx, tt.req)
			tt.check(t, err)

			if err == nil {
				assert.NotEmpty(t, res.ID)
				assert.True(t, res.Active)
			}
		})
	}
}

func TestUserService_GetAll(t *testing.T) {
	t.Run("served from cache", func(t *testing.T) {
		svc, _, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.UserFilter{})
		assert.NoError(t, err)
	})

	t.Run("loads from repository", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.User{
			{ID: "u-1", Email: "a@fair.test", Role: constant.RoleAdmin, Active: true},
			{ID: "u-2", Email: "b@fair.test", Role: constant.RoleExhibitor, Active: true},
		}, nil)

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, dto.UserFilter{Role: constant.RoleExhibitor})
		assert.NoError(t, err)
		assert.Len(t, res.Users, 2)
		assert.Equal(t, 3, res.TotalData)
		assert.Equal(t, 2, res.TotalPage)
	})

	t.Run("count fails", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.UserFilter{})
		assert.Error(t, err)
	})
}

func TestUserService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1", Email: "a@fair.test", Password: "hash"}, nil)

		res, err := svc.Get(context.Background(), "u-1")
		assert.NoError(t, err)
		assert.Equal(t, "a@fair.test", res.Email)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.True(t, failure.IsNotFound(err))
	})
}

func TestUserService_Update(t *testing.T) {
	role := constant.RoleAdmin
	inactive := false
	name := "Dewi"

	tests := []struct {
		name      string
		id        string
		req       dto.UpdateUserRequest
		setupMock func(repo *userMocks.MockUser)
		wantCode  int
	}{
		{
			name:      "empty request",
			id:        "u-2",
			setupMock: func(*userMocks.MockUser) {},
			wantCode:  400,
		},
		{
			name:      "cannot demote yourself",
			id:        "admin-1",
			req:       dto.UpdateUserRequest{Role: &role},
			setupMock: func(*userMocks.MockUser) {},
			wantCode:  400,
		},
		{
			name:      "cannot deactivate yourself",
			id:        "admin-1",
			req:       dto.UpdateUserRequest{Active: &inactive},
			setupMock: func(*userMocks.MockUser) {},
			wantCode:  400,
		},
		{
			name: "not found",
			id:   "u-2",
			req:  dto.UpdateUserRequest{FullName: &name},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: 404,
		},
		{
			name: "updated",
			id:   "u-2",
			req:  dto.UpdateUserRequest{FullName: &name, Active: &inactive},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Cond(func(fields map[string]any) bool {
						_, hasName := fields["full_name"]
						_, hasRole := fields["role"]

						return hasName && !hasRole
					}), gomock.Any()).
					Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			tt.setupMock(repo)

			err := svc.Update(staffContext("admin-1", constant.RoleAdmin), tt.req, tt.id)
			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	t.Run("cannot delete yourself", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.Delete(staffContext("admin-1", constant.RoleAdmin), "admin-1")
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("still referenced", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(failure.Conflict("user is still referenced"))

		err := svc.Delete(staffContext("admin-1", constant.RoleAdmin), "u-2")
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("deleted", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Delete(staffContext("admin-1", constant.RoleAdmin), "u-2"))
	})
}
