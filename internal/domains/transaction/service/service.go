package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"fair/config"
	"fair/infras/otel"
	"fair/internal/domains/transaction/model"
	"fair/internal/domains/transaction/model/dto"
	"fair/internal/domains/transaction/repository"
	"fair/shared"
	"fair/shared/cache"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/failure"
)

// Transaction serves transaction reads. Exhibitors only ever see their own.
type Transaction interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.TransactionFilter) (dto.GetTransactionsResponse, error)
	Get(ctx context.Context, id string) (dto.TransactionResponse, error)
}

type serviceImpl struct {
	repo  repository.Transaction
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Transaction, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Transaction {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// ownerScope returns the user a caller is restricted to, or empty for staff.
func ownerScope(ctx context.Context) string {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleExhibitor {
		return constant.Empty
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return user
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.TransactionFilter) (res dto.GetTransactionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transaction.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if owner := ownerScope(ctx); owner != constant.Empty {
		filter.UserID = owner
	}

	req.RestrictSort(dto.SortableFields...)

	filterGroup := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGetAll, req, filterGroup)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count transactions")

		return res, fmt.Errorf("failed to count transactions: %w", err)
	}

	trxs, err := s.repo.GetAll(ctx, req, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get transactions")

		return res, fmt.Errorf("failed to get transactions: %w", err)
	}

	ids := make([]string, len(trxs))
	for i, trx := range trxs {
		ids[i] = trx.ID
	}

	items, err := s.repo.GetLineItems(ctx, ids...)
	if err != nil {
		log.Error().Err(err).Msg("failed to get transaction booths")

		return res, fmt.Errorf("failed to get transaction booths: %w", err)
	}

	res.FromModels(trxs, items, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save transactions to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TransactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transaction.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelTransactionIDAttributeKey, id)

	owner := ownerScope(ctx)
	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		res, err = s.load(ctx, id)
		if err != nil {
			return res, err
		}

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save transaction to cache")
			}
		}()
	}

	// someone else's transaction is reported as missing
	if owner != constant.Empty && res.UserID != owner {
		return dto.TransactionResponse{}, failure.NotFound("transaction not found") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (res dto.TransactionResponse, err error) {
	trx, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get transaction")

		return res, fmt.Errorf("failed to get transaction: %w", err)
	}

	if trx.ID == constant.Empty {
		return res, failure.NotFound("transaction not found") // nolint:wrapcheck
	}

	items, err := s.repo.GetLineItems(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get transaction booths")

		return res, fmt.Errorf("failed to get transaction booths: %w", err)
	}

	res.FromModel(trx, items)

	return res, nil
}
