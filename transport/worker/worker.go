package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"fair/config"
	"fair/infras/kafka"
	"fair/infras/otel"
	"fair/internal/domains/reservation/model/dto"
	"fair/internal/domains/reservation/service"
	"fair/shared/cache"
	"fair/shared/constant"
	"fair/shared/failure"
)

const (
	cacheKeySweepLock = "lock:reservation:sweep"
	traceFlushTimeout = 5 * time.Second
)

// Worker runs the background side of the reservation lifecycle: it applies
// payment gateway callbacks from Kafka and periodically expires unpaid holds.
type Worker struct {
	cfg         *config.Config
	reservation service.Reservation
	kafka       kafka.Client
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(cfg *config.Config, reservation service.Reservation, kafka kafka.Client, cache cache.RedisCache, otel otel.Otel) *Worker {
	return &Worker{
		cfg:         cfg,
		reservation: reservation,
		kafka:       kafka,
		cache:       cache,
		otel:        otel,
	}
}

// Run blocks until ctx is cancelled and both loops have returned.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(2) //nolint:mnd

	go func() {
		defer wg.Done()

		topic := w.cfg.Kafka.Topic.PaymentCallback
		log.Info().Str("topic", topic).Msg("payment callback consumer started")

		if err := w.kafka.Consume(ctx, w.cfg.Kafka.ConsumerGroup, topic, w.HandlePaymentCallback); err != nil {
			log.Error().Err(err).Msg("payment callback consumer stopped")
		}
	}()

	go func() {
		defer wg.Done()

		w.sweepLoop(ctx)
	}()

	wg.Wait()

	if err := w.kafka.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka client")
	}

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), traceFlushTimeout)
	defer cancel()

	if err := w.otel.Shutdown(flushCtx); err != nil {
		log.Error().Err(err).Msg("failed to flush traces")
	}
}

// HandlePaymentCallback applies one gateway callback. Malformed or stale
// callbacks are logged and dropped, since redelivery would not fix them. Any
// other failure is returned so the consumer retries the same message.
func (w *Worker) HandlePaymentCallback(ctx context.Context, msg kafkaGo.Message) (err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".PaymentCallback")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("kafka.offset", msg.Offset)

	callback, err := kafka.Decode[dto.PaymentCallback](msg)
	if err != nil {
		log.Warn().Err(err).Str("key", string(msg.Key)).Msg("dropping undecodable payment callback")

		return nil
	}

	ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.SystemActor)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleSuperAdmin)

	if _, err = w.reservation.HandlePaymentCallback(ctx, callback); err != nil {
		if failure.GetCode(err) < 500 { //nolint:mnd
			log.Warn().Err(err).Str("transaction_id", callback.TransactionID).Str("status", callback.Status).
				Msg("payment callback rejected")

			return nil
		}

		return fmt.Errorf("failed to apply payment callback: %w", err)
	}

	return nil
}

func (w *Worker) sweepLoop(ctx context.Context) {
	interval := time.Duration(w.cfg.Reservation.SweepIntervalSeconds) * time.Second
	if interval <= 0 {
		log.Warn().Msg("reservation sweeper disabled")

		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("reservation sweeper started")

	for {
		select {
		case <-ticker.C:
			w.Sweep(ctx)
		case <-ctx.Done():
			log.Info().Msg("reservation sweeper stopped")

			return
		}
	}
}

// Sweep runs one expiry batch unless another replica holds the sweep lock.
func (w *Worker) Sweep(ctx context.Context) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".Sweep")
	defer scope.End()

	acquired, err := w.cache.Lock(ctx, cacheKeySweepLock, w.cfg.Reservation.SweepLockSeconds)
	if err != nil || !acquired {
		log.Debug().Err(err).Msg("sweep skipped, lock held elsewhere")

		return
	}

	defer func() {
		if err := w.cache.Unlock(context.WithoutCancel(ctx), cacheKeySweepLock); err != nil {
			log.Error().Err(err).Msg("failed to release sweep lock")
		}
	}()

	ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.SystemActor)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleSuperAdmin)

	res, err := w.reservation.Sweep(ctx, w.cfg.Reservation.SweepBatchSize)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("reservation sweep failed")

		return
	}

	if res.Expired > 0 {
		log.Info().Int("expired", res.Expired).Msg("reservation sweep expired holds")
	}
}
