package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"fair/config"
	"fair/infras/otel"
	"fair/internal/domains/booth/model"
	"fair/internal/domains/booth/model/dto"
	"fair/internal/domains/booth/repository"
	"fair/shared"
	"fair/shared/cache"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/failure"
)

type Booth interface {
	Create(ctx context.Context, req dto.CreateBoothRequest) (dto.BoothResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.BoothFilter) (dto.GetBoothsResponse, error)
	Count(ctx context.Context, filter dto.BoothFilter) (int, error)
	Get(ctx context.Context, id string) (dto.BoothResponse, error)
	Update(ctx context.Context, req dto.UpdateBoothRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Booth
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Booth, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booth {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBoothRequest) (res dto.BoothResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booth.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	booth := req.ToModel(user)

	if err = s.repo.Insert(ctx, booth); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("failed to create booth")

		return res, fmt.Errorf("failed to create booth: %w", err)
	}

	s.invalidateLists(ctx)

	res.FromModel(booth)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.BoothFilter) (res dto.GetBoothsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booth.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(dto.SortableFields...)

	filterGroup := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGetAll, req, filterGroup)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booths")

		return res, nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booths")

		return res, fmt.Errorf("failed to get booths: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	s.saveCache(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter dto.BoothFilter) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booth.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filterGroup := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyCount, gDto.QueryParams{}, filterGroup)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count booths")

		return res, fmt.Errorf("failed to count booths: %w", err)
	}

	s.saveCache(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BoothResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booth.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	booth, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booth")

		return res, fmt.Errorf("failed to get booth: %w", err)
	}

	if booth.ID == constant.Empty {
		return res, failure.NotFound("booth not found") // nolint:wrapcheck
	}

	res.FromModel(booth)

	s.saveCache(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBoothRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booth.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to check booth existence")

		return fmt.Errorf("failed to check booth existence: %w", err)
	}

	if !exist {
		return failure.NotFound("booth not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	updatedFields[model.FieldUpdatedBy] = user

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update booth")

		return fmt.Errorf("failed to update booth: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes a booth that is not held by any reservation.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booth.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booth, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldStatus)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booth")

		return fmt.Errorf("failed to get booth: %w", err)
	}

	if booth.ID == constant.Empty {
		return failure.NotFound("booth not found") // nolint:wrapcheck
	}

	if !booth.IsAvailable() {
		return failure.Conflictf("booth %s is %s and cannot be deleted", id, booth.Status) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete booth")

		return fmt.Errorf("failed to delete booth: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) saveCache(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save booth cache")
		}
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheKeyCount)
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheKeyGet, id)); err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to delete booth cache")
		}

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheKeyCount)
	}()
}
