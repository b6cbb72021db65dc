package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"fair/config"
	"fair/infras/otel/mocks"
	boothMocks "fair/internal/domains/booth/mocks"
	boothModel "fair/internal/domains/booth/model"
	boothDto "fair/internal/domains/booth/model/dto"
	exhibitorMocks "fair/internal/domains/exhibitor/mocks"
	exhibitorModel "fair/internal/domains/exhibitor/model"
	"fair/internal/domains/stats/model"
	"fair/internal/domains/stats/service"
	trxMocks "fair/internal/domains/transaction/mocks"
	trxModel "fair/internal/domains/transaction/model"
	cacheMocks "fair/shared/cache/mocks"
)

var errCacheMiss = errors.New("cache miss")

type fixture struct {
	svc          service.Stats
	booths       *boothMocks.MockBooth
	exhibitors   *exhibitorMocks.MockExhibitor
	transactions *trxMocks.MockTransaction
	cache        *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		booths:       boothMocks.NewMockBooth(ctrl),
		exhibitors:   exhibitorMocks.NewMockExhibitor(ctrl),
		transactions: trxMocks.NewMockTransaction(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.booths, f.exhibitors, f.transactions, cfg, f.cache, mocks.NewOtel())

	return f
}

func TestBooths(t *testing.T) {
	t.Run("projects a fresh snapshot on cache miss", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "stats:booths::Hall A:", gomock.Any()).Return(errCacheMiss)
		f.booths.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]boothModel.Booth{
				{ID: "1", Sector: "Hall A", Status: boothModel.StatusReserved},
				{ID: "2", Sector: "Hall B", Status: boothModel.StatusAvailable},
			}, nil)

		res, err := f.svc.Booths(context.Background(), boothDto.BoothFilter{Sector: "Hall A"})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, 1, res.ByStatus["reserved"])
		assert.Equal(t, 0, res.ByStatus["available"])
	})

	t.Run("serves the cached projection", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "stats:booths:::", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*value.(*model.BoothStats) = model.BoothStats{Total: 7}

				return nil
			})

		res, err := f.svc.Booths(context.Background(), boothDto.BoothFilter{})

		require.NoError(t, err)
		assert.Equal(t, 7, res.Total)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		f.booths.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		_, err := f.svc.Booths(context.Background(), boothDto.BoothFilter{})

		assert.ErrorContains(t, err, "failed to load booths")
	})
}

func TestExhibitors(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), model.CacheKeyExhibitors, gomock.Any()).Return(errCacheMiss)
	f.exhibitors.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]exhibitorModel.Exhibitor{{ID: "1", Verified: true, Active: true}, {ID: "2"}}, nil)

	res, err := f.svc.Exhibitors(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.ExhibitorStats{Total: 2, Verified: 1, Unverified: 1, Active: 1, Inactive: 1}, res)
}

func TestTransactions(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), model.CacheKeyTransactions, gomock.Any()).Return(errCacheMiss)
	f.transactions.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]trxModel.Transaction{}, nil)

	res, err := f.svc.Transactions(context.Background())

	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Contains(t, res.ByPaymentStatus, "pending")
	assert.Empty(t, res.ByMonth)
}
