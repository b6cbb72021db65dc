package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"fair/config"
	"fair/infras/otel"
	boothModel "fair/internal/domains/booth/model"
	boothDto "fair/internal/domains/booth/model/dto"
	boothRepo "fair/internal/domains/booth/repository"
	exhibitorModel "fair/internal/domains/exhibitor/model"
	exhibitorRepo "fair/internal/domains/exhibitor/repository"
	"fair/internal/domains/stats/model"
	trxModel "fair/internal/domains/transaction/model"
	trxRepo "fair/internal/domains/transaction/repository"
	"fair/shared"
	"fair/shared/cache"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/timezone"
)

// Stats serves read-only aggregates over the current booths, exhibitors and
// transactions.
type Stats interface {
	Booths(ctx context.Context, filter boothDto.BoothFilter) (model.BoothStats, error)
	Exhibitors(ctx context.Context) (model.ExhibitorStats, error)
	Transactions(ctx context.Context) (model.TransactionStats, error)
}

type serviceImpl struct {
	booths       boothRepo.Booth
	exhibitors   exhibitorRepo.Exhibitor
	transactions trxRepo.Transaction
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	booths boothRepo.Booth,
	exhibitors exhibitorRepo.Exhibitor,
	transactions trxRepo.Transaction,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Stats {
	return &serviceImpl{
		booths:       booths,
		exhibitors:   exhibitors,
		transactions: transactions,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Booths(ctx context.Context, filter boothDto.BoothFilter) (res model.BoothStats, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats.Booths")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKey(model.CacheKeyBooths, filter.Status, filter.Sector, filter.Category)

	return cached(ctx, s, key, func() (model.BoothStats, error) {
		booths, err := s.booths.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{},
			boothModel.FieldID, boothModel.FieldStatus, boothModel.FieldSector, boothModel.FieldCategory)
		if err != nil {
			return res, fmt.Errorf("failed to load booths: %w", err)
		}

		return model.ProjectBooths(booths, filter), nil
	})
}

func (s *serviceImpl) Exhibitors(ctx context.Context) (res model.ExhibitorStats, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats.Exhibitors")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cached(ctx, s, model.CacheKeyExhibitors, func() (model.ExhibitorStats, error) {
		exhibitors, err := s.exhibitors.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{},
			exhibitorModel.FieldID, exhibitorModel.FieldVerified, exhibitorModel.FieldActive)
		if err != nil {
			return res, fmt.Errorf("failed to load exhibitors: %w", err)
		}

		return model.ProjectExhibitors(exhibitors), nil
	})
}

func (s *serviceImpl) Transactions(ctx context.Context) (res model.TransactionStats, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats.Transactions")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cached(ctx, s, model.CacheKeyTransactions, func() (model.TransactionStats, error) {
		trxs, err := s.transactions.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{},
			trxModel.FieldID, trxModel.FieldTotalAmount, trxModel.FieldPaymentStatus, trxModel.FieldValidityStatus,
			trxModel.FieldBoothTransStatus, trxModel.FieldReservationDate)
		if err != nil {
			return res, fmt.Errorf("failed to load transactions: %w", err)
		}

		return model.ProjectTransactions(trxs, timezone.Location()), nil
	})
}

// cached serves key from redis, or projects a fresh snapshot and stores it
// in the background.
func cached[T any](ctx context.Context, s *serviceImpl, key string, project func() (T, error)) (T, error) {
	var res T

	if err := s.cache.Get(ctx, key, &res); err == nil {
		log.Debug().Str("cacheKey", key).Msg("cache hit for stats")

		return res, nil
	}

	res, err := project()
	if err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to project stats")

		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save stats cache")
		}
	}()

	return res, nil
}
