package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"fair/config"
	"fair/infras/kafka"
	kafkaMocks "fair/infras/kafka/mocks"
	metricsMocks "fair/infras/metrics/mocks"
	"fair/infras/otel/mocks"
	boothModel "fair/internal/domains/booth/model"
	"fair/internal/domains/reservation/model/dto"
	"fair/internal/domains/reservation/service"
	"fair/internal/domains/reservation/store"
	trxModel "fair/internal/domains/transaction/model"
	cacheMocks "fair/shared/cache/mocks"
	"fair/shared/constant"
	"fair/transport/worker"
)

var reservedAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// flakyStore fails the next failures units of work before reaching the store.
type flakyStore struct {
	store.Store

	mu       sync.Mutex
	failures int
}

func (s *flakyStore) failNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures = n
}

func (s *flakyStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	s.mu.Lock()
	if s.failures > 0 {
		s.failures--
		s.mu.Unlock()

		return errors.New("connection reset by peer")
	}
	s.mu.Unlock()

	return s.Store.WithinTx(ctx, fn)
}

// callbackReader serves a fixed backlog of callbacks and stops the consumer
// once it is drained.
type callbackReader struct {
	backlog   []kafkaGo.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *callbackReader) FetchMessage(ctx context.Context) (kafkaGo.Message, error) {
	if len(r.backlog) == 0 {
		r.cancel()

		return kafkaGo.Message{}, ctx.Err()
	}

	msg := r.backlog[0]
	r.backlog = r.backlog[1:]

	return msg, nil
}

func (r *callbackReader) CommitMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	for _, msg := range msgs {
		r.committed = append(r.committed, msg.Offset)
	}

	return nil
}

type fixture struct {
	worker *worker.Worker
	engine service.Reservation
	store  *store.Memory
	flaky  *flakyStore
	cache  *cacheMocks.MockRedisCache
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Reservation.ValidityPeriodDays = 3
	cfg.Reservation.Currency = "IDR"
	cfg.Reservation.SweepBatchSize = 10
	cfg.Reservation.SweepLockSeconds = 30

	f := &fixture{
		store: store.NewMemory(boothModel.Booth{ID: "b-1", Name: "A-01", Price: 1000, Status: boothModel.StatusAvailable}),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		now:   reservedAt,
	}

	f.flaky = &flakyStore{Store: f.store}

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.engine = service.NewWithClock(f.flaky, cfg, f.cache, mocks.NewOtel(), mockKafka, metricsMocks.NewMetrics(), func() time.Time {
		return f.now
	})
	f.worker = worker.New(cfg, f.engine, mockKafka, f.cache, mocks.NewOtel())

	return f
}

func (f *fixture) reserve(t *testing.T) string {
	t.Helper()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "u-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleExhibitor)

	res, err := f.engine.Reserve(ctx, dto.ReserveRequest{BoothIDs: []string{"b-1"}})
	require.NoError(t, err)

	return res.ID
}

func callback(t *testing.T, id, status string) kafkaGo.Message {
	t.Helper()

	value, err := json.Marshal(dto.PaymentCallback{TransactionID: id, Status: status})
	require.NoError(t, err)

	return kafkaGo.Message{Key: []byte(id), Value: value}
}

func TestWorker_HandlePaymentCallback(t *testing.T) {
	t.Run("paid callback books the booth", func(t *testing.T) {
		f := newFixture(t)
		id := f.reserve(t)

		require.NoError(t, f.worker.HandlePaymentCallback(context.Background(), callback(t, id, "success")))

		trx, _, ok := f.store.Transaction(id)
		require.True(t, ok)
		assert.Equal(t, trxModel.PaymentPaid, trx.PaymentStatus)
		assert.Equal(t, constant.SystemActor, trx.ModifiedBy)

		booth, _ := f.store.Booth("b-1")
		assert.Equal(t, boothModel.StatusBooked, booth.Status)
	})

	t.Run("garbage is dropped", func(t *testing.T) {
		f := newFixture(t)

		assert.NoError(t, f.worker.HandlePaymentCallback(context.Background(), kafkaGo.Message{Value: []byte("{not json")}))
	})

	t.Run("rejected callbacks are not retried", func(t *testing.T) {
		f := newFixture(t)
		id := f.reserve(t)

		assert.NoError(t, f.worker.HandlePaymentCallback(context.Background(), callback(t, id, "teleported")))
		assert.NoError(t, f.worker.HandlePaymentCallback(context.Background(), callback(t, "missing", "paid")))

		trx, _, _ := f.store.Transaction(id)
		assert.Equal(t, trxModel.PaymentPending, trx.PaymentStatus)
	})
}

func TestWorker_PaymentCallbackSurvivesTransientFailure(t *testing.T) {
	f := newFixture(t)
	id := f.reserve(t)

	msg := callback(t, id, "paid")
	msg.Offset = 42

	t.Run("store failure asks for redelivery", func(t *testing.T) {
		f.flaky.failNext(1)

		assert.Error(t, f.worker.HandlePaymentCallback(context.Background(), msg))

		trx, _, _ := f.store.Transaction(id)
		assert.Equal(t, trxModel.PaymentPending, trx.PaymentStatus)
	})

	t.Run("consumer commits only once the payment is applied", func(t *testing.T) {
		f.flaky.failNext(1)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := &callbackReader{backlog: []kafkaGo.Message{msg}, cancel: cancel}
		consumer := kafka.NewConsumer(reader, "payment.callback", f.worker.HandlePaymentCallback, kafka.RetryPolicy{
			InitialBackoff: time.Millisecond,
			MaxBackoff:     time.Millisecond,
		})

		require.NoError(t, consumer.Run(ctx))

		assert.Equal(t, []int64{42}, reader.committed)

		trx, _, _ := f.store.Transaction(id)
		assert.Equal(t, trxModel.PaymentPaid, trx.PaymentStatus)

		booth, _ := f.store.Booth("b-1")
		assert.Equal(t, boothModel.StatusBooked, booth.Status)
	})

	t.Run("later sweep leaves the paid booth booked", func(t *testing.T) {
		f.now = reservedAt.Add(96 * time.Hour)

		gomock.InOrder(
			f.cache.EXPECT().Lock(gomock.Any(), gomock.Any(), 30).Return(true, nil),
			f.cache.EXPECT().Unlock(gomock.Any(), gomock.Any()).Return(nil),
		)

		f.worker.Sweep(context.Background())

		booth, _ := f.store.Booth("b-1")
		assert.Equal(t, boothModel.StatusBooked, booth.Status)
	})
}

func TestWorker_Sweep(t *testing.T) {
	t.Run("expires overdue holds under the lock", func(t *testing.T) {
		f := newFixture(t)
		id := f.reserve(t)
		f.now = reservedAt.Add(72*time.Hour + time.Second)

		gomock.InOrder(
			f.cache.EXPECT().Lock(gomock.Any(), gomock.Any(), 30).Return(true, nil),
			f.cache.EXPECT().Unlock(gomock.Any(), gomock.Any()).Return(nil),
		)

		f.worker.Sweep(context.Background())

		trx, _, _ := f.store.Transaction(id)
		assert.Equal(t, trxModel.ValidityExpired, trx.ValidityStatus)

		booth, _ := f.store.Booth("b-1")
		assert.Equal(t, boothModel.StatusAvailable, booth.Status)
	})

	t.Run("skips when another replica holds the lock", func(t *testing.T) {
		f := newFixture(t)
		id := f.reserve(t)
		f.now = reservedAt.Add(96 * time.Hour)

		f.cache.EXPECT().Lock(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		f.worker.Sweep(context.Background())

		trx, _, _ := f.store.Transaction(id)
		assert.Equal(t, trxModel.ValidityActive, trx.ValidityStatus)
	})

	t.Run("skips when redis is down", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Lock(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("redis down"))

		f.worker.Sweep(context.Background())
	})
}
