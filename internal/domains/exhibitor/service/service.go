package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"fair/config"
	"fair/infras/otel"
	"fair/infras/s3"
	"fair/internal/domains/exhibitor/model"
	"fair/internal/domains/exhibitor/model/dto"
	"fair/internal/domains/exhibitor/repository"
	"fair/shared"
	"fair/shared/base64"
	"fair/shared/cache"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/failure"
)

type Exhibitor interface {
	Create(ctx context.Context, req dto.CreateExhibitorRequest) (dto.ExhibitorResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ExhibitorFilter) (dto.GetExhibitorsResponse, error)
	Count(ctx context.Context, filter dto.ExhibitorFilter) (int, error)
	Get(ctx context.Context, id string) (dto.ExhibitorResponse, error)
	GetByUser(ctx context.Context, userID string) (dto.ExhibitorResponse, error)
	Update(ctx context.Context, req dto.UpdateExhibitorRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Exhibitor
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Exhibitor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Exhibitor {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateExhibitorRequest) (res dto.ExhibitorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Exhibitor.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	exhibitor := req.ToModel(user)

	// exhibitors can only open a profile for their own account
	if role, _ := ctx.Value(constant.ContextKeyUserRole).(string); role == constant.RoleExhibitor {
		exhibitor.UserID = &user
	}

	if req.Logo != "" {
		url, err := s.uploadLogo(ctx, exhibitor.ID, req.Logo)
		if err != nil {
			return res, err
		}

		exhibitor.LogoURL = &url
	}

	if err = s.repo.Insert(ctx, exhibitor); err != nil {
		log.Error().Err(err).Str("company", req.CompanyName).Msg("failed to create exhibitor")

		if exhibitor.LogoURL != nil {
			s.deleteLogo(ctx, *exhibitor.LogoURL)
		}

		return res, fmt.Errorf("failed to create exhibitor: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheKeyCount)
	}()

	res.FromModel(exhibitor)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ExhibitorFilter) (res dto.GetExhibitorsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Exhibitor.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(dto.SortableFields...)

	filterGroup := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGetAll, req, filterGroup)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for exhibitors")

		return res, nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		return res, err
	}

	exhibitors, err := s.repo.GetAll(ctx, req, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get exhibitors")

		return res, fmt.Errorf("failed to get exhibitors: %w", err)
	}

	res.FromModels(exhibitors, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save exhibitors to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter dto.ExhibitorFilter) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Exhibitor.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filterGroup := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyCount, gDto.QueryParams{}, filterGroup)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count exhibitors")

		return total, fmt.Errorf("failed to count exhibitors: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save exhibitor count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ExhibitorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Exhibitor.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.find(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save exhibitor to cache")
		}
	}()

	return res, nil
}

// GetByUser returns the exhibitor profile linked to a signed-in account.
func (s *serviceImpl) GetByUser(ctx context.Context, userID string) (res dto.ExhibitorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Exhibitor.GetByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.find(ctx, shared.FilterByID(userID, model.FieldUserID, model.TableName))
}

func (s *serviceImpl) find(ctx context.Context, filter gDto.FilterGroup) (res dto.ExhibitorResponse, err error) {
	exhibitor, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get exhibitor")

		return res, fmt.Errorf("failed to get exhibitor: %w", err)
	}

	if exhibitor.ID == constant.Empty {
		return res, failure.NotFound("exhibitor not found") // nolint:wrapcheck
	}

	res.FromModel(exhibitor)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateExhibitorRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Exhibitor.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if role, _ := ctx.Value(constant.ContextKeyUserRole).(string); role == constant.RoleExhibitor && (req.Verified != nil || req.Active != nil) {
		return failure.Forbidden("only staff can change verification or activation") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldUserID, model.FieldLogoURL)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get exhibitor")

		return fmt.Errorf("failed to get exhibitor: %w", err)
	}

	if current.ID == constant.Empty || !ownedBy(ctx, current) {
		return failure.NotFound("exhibitor not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	if req.Logo != "" {
		url, err := s.uploadLogo(ctx, id, req.Logo)
		if err != nil {
			return err
		}

		updatedFields[model.FieldLogoURL] = url
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update exhibitor")

		return fmt.Errorf("failed to update exhibitor: %w", err)
	}

	// the previous object is only dropped once the row points at the new one
	if req.Logo != "" && current.LogoURL != nil && *current.LogoURL != updatedFields[model.FieldLogoURL] {
		s.deleteLogo(ctx, *current.LogoURL)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Exhibitor.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldLogoURL)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get exhibitor")

		return fmt.Errorf("failed to get exhibitor: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("exhibitor not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete exhibitor")

		return fmt.Errorf("failed to delete exhibitor: %w", err)
	}

	if current.LogoURL != nil {
		s.deleteLogo(ctx, *current.LogoURL)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) uploadLogo(ctx context.Context, id, dataURI string) (string, error) {
	contentType, data, err := base64.Decode(dataURI)
	if err != nil {
		if errors.Is(err, base64.ErrInvalidDataURI) {
			return "", failure.BadRequest(err) // nolint:wrapcheck
		}

		return "", fmt.Errorf("failed to decode logo: %w", err)
	}

	url, err := s.s3.UploadFileBytes(ctx, model.LogoDirectory, id+base64.Extension(contentType), contentType, data)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to upload exhibitor logo")

		return "", fmt.Errorf("failed to upload logo: %w", err)
	}

	return url, nil
}

// deleteLogo runs in the background, an orphaned object is only a storage leak.
func (s *serviceImpl) deleteLogo(ctx context.Context, url string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.s3.DeleteFile(c, model.LogoDirectory, s.s3.GetObjectNameFromURL(url)); err != nil {
			log.Error().Err(err).Str("url", url).Msg("failed to delete exhibitor logo")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheKeyGet, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete exhibitor cache")
		}

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheKeyCount)
	}()
}

// ownedBy reports whether the caller may change the profile. Staff may change any.
func ownedBy(ctx context.Context, exhibitor model.Exhibitor) bool {
	if role, _ := ctx.Value(constant.ContextKeyUserRole).(string); role != constant.RoleExhibitor {
		return true
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return exhibitor.UserID != nil && *exhibitor.UserID == user
}
