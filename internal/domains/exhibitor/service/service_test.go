package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"fair/config"
	"fair/infras/otel/mocks"
	s3Mocks "fair/infras/s3/mocks"
	exhibitorMocks "fair/internal/domains/exhibitor/mocks"
	"fair/internal/domains/exhibitor/model"
	"fair/internal/domains/exhibitor/model/dto"
	"fair/internal/domains/exhibitor/service"
	cacheMocks "fair/shared/cache/mocks"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/failure"
)

// 1x1 transparent png
const pngLogo = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type fixture struct {
	svc   service.Exhibitor
	repo  *exhibitorMocks.MockExhibitor
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  exhibitorMocks.NewMockExhibitor(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.s3)

	return f
}

func adminContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func exhibitorContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleExhibitor)
}

func TestExhibitorService_Create(t *testing.T) {
	t.Run("without logo", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Cond(func(e model.Exhibitor) bool {
				return e.Active && !e.Verified && e.LogoURL == nil
			})).
			Return(nil)

		res, err := f.svc.Create(adminContext(), dto.CreateExhibitorRequest{CompanyName: "Acme", ContactName: "Ann", Email: "ann@acme.test"})

		assert.NoError(t, err)
		assert.Equal(t, "Acme", res.CompanyName)
		assert.Nil(t, res.LogoURL)
	})

	t.Run("with logo", func(t *testing.T) {
		f := newFixture(t)

		f.s3.EXPECT().
			UploadFileBytes(gomock.Any(), model.LogoDirectory, gomock.Any(), "image/png", gomock.Any()).
			Return("https://cdn.test/exhibitors/x.png", nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(adminContext(), dto.CreateExhibitorRequest{CompanyName: "Acme", ContactName: "Ann", Email: "ann@acme.test", Logo: pngLogo})

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.test/exhibitors/x.png", *res.LogoURL)
	})

	t.Run("malformed logo", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(adminContext(), dto.CreateExhibitorRequest{CompanyName: "Acme", Logo: "not-a-data-uri"})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newFixture(t)

		f.s3.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket gone"))

		_, err := f.svc.Create(adminContext(), dto.CreateExhibitorRequest{CompanyName: "Acme", Logo: pngLogo})
		assert.Error(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(failure.Conflict("exhibitor already exists"))

		_, err := f.svc.Create(adminContext(), dto.CreateExhibitorRequest{CompanyName: "Acme", Email: "ann@acme.test"})

		assert.True(t, failure.IsConflict(err))
	})
}

func TestExhibitorService_GetAll(t *testing.T) {
	f := newFixture(t)
	verified := true

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Exhibitor{{ID: "e-1", CompanyName: "Acme", Verified: true, Active: true}}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ExhibitorFilter{Verified: &verified})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Exhibitors, 1)
	assert.True(t, res.Exhibitors[0].Verified)
}

func TestExhibitorService_Get(t *testing.T) {
	tests := []struct {
		name     string
		found    model.Exhibitor
		repoErr  error
		wantCode int
	}{
		{name: "found", found: model.Exhibitor{ID: "e-1", CompanyName: "Acme"}},
		{name: "not found", wantCode: 404},
		{name: "repository error", repoErr: errors.New("database error"), wantCode: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.cache.EXPECT().Get(gomock.Any(), "exhibitor:get:e-1", gomock.Any()).Return(errors.New("miss"))
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.found, tt.repoErr)

			res, err := f.svc.Get(context.Background(), "e-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "Acme", res.CompanyName)
		})
	}
}

func TestExhibitorService_GetByUser(t *testing.T) {
	f := newFixture(t)
	user := "u-1"

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Exhibitor{ID: "e-1", UserID: &user}, nil)

	res, err := f.svc.GetByUser(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, "e-1", res.ID)
}

func TestExhibitorService_Update(t *testing.T) {
	oldLogo := "https://cdn.test/exhibitors/e-1.jpg"
	verified := true

	t.Run("verifies and swaps logo", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Exhibitor{ID: "e-1", LogoURL: &oldLogo}, nil)
		f.s3.EXPECT().UploadFileBytes(gomock.Any(), model.LogoDirectory, "e-1.png", "image/png", gomock.Any()).Return("https://cdn.test/exhibitors/e-1.png", nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Cond(func(fields map[string]any) bool {
				return fields[model.FieldVerified] == true && fields[model.FieldLogoURL] == "https://cdn.test/exhibitors/e-1.png"
			}), gomock.Any()).
			Return(nil)
		f.s3.EXPECT().GetObjectNameFromURL(oldLogo).Return("e-1.jpg").AnyTimes()
		f.s3.EXPECT().DeleteFile(gomock.Any(), model.LogoDirectory, "e-1.jpg").Return(nil).AnyTimes()

		err := f.svc.Update(adminContext(), dto.UpdateExhibitorRequest{Verified: &verified, Logo: pngLogo}, "e-1")
		assert.NoError(t, err)
	})

	t.Run("missing exhibitor", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Exhibitor{}, nil)

		err := f.svc.Update(adminContext(), dto.UpdateExhibitorRequest{Verified: &verified}, "e-1")
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("exhibitor cannot edit another profile", func(t *testing.T) {
		f := newFixture(t)
		owner := "u-2"
		phone := "0812"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Exhibitor{ID: "e-1", UserID: &owner}, nil)

		err := f.svc.Update(exhibitorContext("u-1"), dto.UpdateExhibitorRequest{Phone: phone}, "e-1")
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("exhibitor cannot verify itself", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(exhibitorContext("u-1"), dto.UpdateExhibitorRequest{Verified: &verified}, "e-1")
		assert.True(t, failure.HasCode(err, 403))
	})

	t.Run("exhibitor edits own profile", func(t *testing.T) {
		f := newFixture(t)
		owner := "u-1"
		phone := "0812"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Exhibitor{ID: "e-1", UserID: &owner}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Update(exhibitorContext("u-1"), dto.UpdateExhibitorRequest{Phone: phone}, "e-1"))
	})
}

func TestExhibitorService_Delete(t *testing.T) {
	t.Run("removes row and logo", func(t *testing.T) {
		f := newFixture(t)
		logo := "https://cdn.test/exhibitors/e-1.png"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Exhibitor{ID: "e-1", LogoURL: &logo}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().GetObjectNameFromURL(logo).Return("e-1.png").AnyTimes()
		f.s3.EXPECT().DeleteFile(gomock.Any(), model.LogoDirectory, "e-1.png").Return(nil).AnyTimes()

		assert.NoError(t, f.svc.Delete(adminContext(), "e-1"))
	})

	t.Run("missing exhibitor", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Exhibitor{}, nil)

		assert.True(t, failure.IsNotFound(f.svc.Delete(adminContext(), "e-1")))
	})
}
