package service

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"fair/config"
	"fair/infras/kafka"
	"fair/infras/metrics"
	"fair/infras/otel"
	boothModel "fair/internal/domains/booth/model"
	"fair/internal/domains/reservation/model"
	"fair/internal/domains/reservation/model/dto"
	"fair/internal/domains/reservation/store"
	statsModel "fair/internal/domains/stats/model"
	trxModel "fair/internal/domains/transaction/model"
	trxDto "fair/internal/domains/transaction/model/dto"
	"fair/shared"
	"fair/shared/cache"
	"fair/shared/constant"
	"fair/shared/failure"
	sharedModel "fair/shared/model"
	"fair/shared/timezone"
	"fair/shared/validator"
)

// Reservation drives booths and their transaction through the reservation
// lifecycle. Every method is one unit of work against the store.
type Reservation interface {
	Reserve(ctx context.Context, req dto.ReserveRequest) (trxDto.TransactionResponse, error)
	MarkPaid(ctx context.Context, id string) (trxDto.TransactionResponse, error)
	MarkRefunded(ctx context.Context, id string) (trxDto.TransactionResponse, error)
	MarkProcessing(ctx context.Context, id string) (trxDto.TransactionResponse, error)
	MarkAbandoned(ctx context.Context, id string) (trxDto.TransactionResponse, error)
	Expire(ctx context.Context, id string) (trxDto.TransactionResponse, error)
	Cancel(ctx context.Context, id string) (trxDto.TransactionResponse, error)
	Sweep(ctx context.Context, limit int) (dto.SweepResponse, error)
	HandlePaymentCallback(ctx context.Context, callback dto.PaymentCallback) (trxDto.TransactionResponse, error)
}

type serviceImpl struct {
	store   store.Store
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	kafka   kafka.Client
	metrics metrics.Metrics
	now     func() time.Time
}

func New(
	store store.Store,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
	metrics metrics.Metrics,
) Reservation {
	return NewWithClock(store, cfg, cache, otel, kafka, metrics, timezone.Now)
}

// NewWithClock is New with an injected clock.
func NewWithClock(
	store store.Store,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
	metrics metrics.Metrics,
	now func() time.Time,
) Reservation {
	return &serviceImpl{
		store:   store,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		kafka:   kafka,
		metrics: metrics,
		now:     now,
	}
}

func (s *serviceImpl) Reserve(ctx context.Context, req dto.ReserveRequest) (res trxDto.TransactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Reserve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	defer func() { s.metrics.RecordTransition(model.OperationReserve, outcome(err == nil, err)) }()

	ids := dedupe(req.BoothIDs)
	if len(ids) == 0 {
		return res, failure.BadRequestFromString("at least one booth is required") // nolint:wrapcheck
	}

	holder := holderOf(ctx, req)
	if holder == constant.Empty {
		return res, failure.BadRequestFromString("user is required") // nolint:wrapcheck
	}

	actor := actorOf(ctx)
	now := s.now()

	scope.SetAttribute(constant.OtelBoothCountAttributeKey, len(ids))

	var (
		trx   trxModel.Transaction
		items []trxModel.LineItem
	)

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		booths, err := tx.LockBooths(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to lock booths: %w", err)
		}

		if err := checkReservable(ids, booths); err != nil {
			return err
		}

		trx = trxModel.Transaction{
			ID:                 uuid.NewString(),
			UserID:             holder,
			Currency:           s.cfg.Reservation.Currency,
			Remark:             req.Remark,
			BoothTransStatus:   trxModel.BoothTransActive,
			PaymentStatus:      trxModel.PaymentPending,
			ValidityStatus:     trxModel.ValidityActive,
			ReservationDate:    now,
			ValidityPeriodDays: s.cfg.Reservation.ValidityPeriodDays,
			Version:            1,
			Metadata:           sharedModel.NewMetadata(actor, now),
		}

		items = lineItems(trx, ids, booths, actor, now)
		trx.TotalAmount = trxModel.Total(items)

		if trx.TotalAmount <= 0 {
			return failure.BadRequestFromString("total amount must be positive") // nolint:wrapcheck
		}

		reserved, err := tx.ReserveBooths(ctx, ids, holder, now)
		if err != nil {
			return fmt.Errorf("failed to reserve booths: %w", err)
		}

		if lost := missed(ids, reserved); len(lost) > 0 {
			return failure.Conflictf("booths no longer available: %s", strings.Join(lost, ", ")) // nolint:wrapcheck
		}

		if err := tx.InsertTransaction(ctx, trx, items); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) >= http.StatusInternalServerError {
			log.Error().Err(err).Strs("booth_ids", ids).Str("user_id", holder).Msg("failed to reserve booths")
		} else {
			log.Warn().Err(err).Strs("booth_ids", ids).Str("user_id", holder).Msg("reservation rejected")
		}

		return res, err
	}

	scope.SetAttribute(constant.OtelTransactionIDAttributeKey, trx.ID)

	log.Info().Str("transaction_id", trx.ID).Strs("booth_ids", ids).Str("user_id", holder).Msg("booths reserved")

	s.afterCommit(ctx, model.EventReserved, trx, items, actor, now)

	res.FromModel(trx, items)

	return res, nil
}

// MarkPaid settles the transaction and books its booths. Paying an already
// paid transaction returns it unchanged.
func (s *serviceImpl) MarkPaid(ctx context.Context, id string) (trxDto.TransactionResponse, error) {
	return s.transition(ctx, model.OperationMarkPaid, model.EventPaid, id, func(ctx context.Context, c change) (bool, error) {
		if c.trx.PaymentStatus.IsPaid() {
			return false, nil
		}

		if !c.trx.HoldsBooths() || c.trx.ValidityStatus == trxModel.ValidityExpired || c.trx.PaymentStatus.IsTerminal() {
			return false, failure.Conflictf("transaction %s is %s/%s and cannot be paid", c.trx.ID, c.trx.BoothTransStatus, c.trx.PaymentStatus) // nolint:wrapcheck
		}

		c.trx.PaymentStatus = trxModel.PaymentPaid
		c.trx.ValidityStatus = trxModel.ValidityPaid

		return true, c.tx.BookBooths(ctx, c.boothIDs, c.actor, c.now)
	})
}

func (s *serviceImpl) MarkRefunded(ctx context.Context, id string) (trxDto.TransactionResponse, error) {
	return s.transition(ctx, model.OperationRefund, model.EventRefunded, id, func(ctx context.Context, c change) (bool, error) {
		switch {
		case c.trx.PaymentStatus == trxModel.PaymentRefunded || c.trx.PaymentStatus == trxModel.PaymentReversed:
			return false, nil
		case !c.trx.PaymentStatus.IsPaid():
			return false, failure.Conflictf("transaction %s is %s and cannot be refunded", c.trx.ID, c.trx.PaymentStatus) // nolint:wrapcheck
		}

		c.trx.PaymentStatus = trxModel.PaymentRefunded

		if !s.cfg.Reservation.ReleaseOnRefund {
			return true, nil
		}

		c.trx.BoothTransStatus = trxModel.BoothTransCancelled

		return true, c.tx.ReleaseBooths(ctx, c.boothIDs, c.trx.UserID, c.actor, c.now)
	})
}

// MarkProcessing records that the gateway accepted the charge. The
// transaction stops being eligible for expiry.
func (s *serviceImpl) MarkProcessing(ctx context.Context, id string) (trxDto.TransactionResponse, error) {
	return s.transition(ctx, model.OperationProcessing, model.EventProcessing, id, func(_ context.Context, c change) (bool, error) {
		if c.trx.PaymentStatus == trxModel.PaymentProcessing {
			return false, nil
		}

		awaiting := c.trx.PaymentStatus == trxModel.PaymentPending || c.trx.PaymentStatus == trxModel.PaymentQueued
		if !awaiting || !c.trx.HoldsBooths() || c.trx.ValidityStatus != trxModel.ValidityActive {
			return false, failure.Conflictf("transaction %s is %s/%s and cannot move to processing", c.trx.ID, c.trx.BoothTransStatus, c.trx.PaymentStatus) // nolint:wrapcheck
		}

		c.trx.PaymentStatus = trxModel.PaymentProcessing

		return true, nil
	})
}

func (s *serviceImpl) MarkAbandoned(ctx context.Context, id string) (trxDto.TransactionResponse, error) {
	return s.transition(ctx, model.OperationAbandon, model.EventAbandoned, id, func(ctx context.Context, c change) (bool, error) {
		if c.trx.PaymentStatus == trxModel.PaymentAbandoned {
			return false, nil
		}

		if !c.trx.PaymentStatus.IsAwaiting() || !c.trx.HoldsBooths() {
			return false, failure.Conflictf("transaction %s is %s/%s and cannot be abandoned", c.trx.ID, c.trx.BoothTransStatus, c.trx.PaymentStatus) // nolint:wrapcheck
		}

		c.trx.PaymentStatus = trxModel.PaymentAbandoned
		c.trx.BoothTransStatus = trxModel.BoothTransCancelled
		c.trx.ValidityStatus = trxModel.ValidityExpired

		return true, c.tx.ReleaseBooths(ctx, c.boothIDs, c.trx.UserID, c.actor, c.now)
	})
}

// Expire releases the booths of an unpaid reservation whose validity window
// has ended. Eligibility is checked again under the row lock, so a payment
// committed first always wins.
func (s *serviceImpl) Expire(ctx context.Context, id string) (trxDto.TransactionResponse, error) {
	return s.transition(ctx, model.OperationExpire, model.EventExpired, id, func(ctx context.Context, c change) (bool, error) {
		if !c.trx.IsExpirable(c.now) {
			return false, failure.Conflictf("transaction %s is not eligible for expiry", c.trx.ID) // nolint:wrapcheck
		}

		c.trx.ValidityStatus = trxModel.ValidityExpired
		c.trx.BoothTransStatus = trxModel.BoothTransExpired

		return true, c.tx.ReleaseBooths(ctx, c.boothIDs, c.trx.UserID, c.actor, c.now)
	})
}

// Cancel withdraws a reservation whose payment has not started. Once the
// gateway is processing the charge only its callback may settle or abandon
// the reservation. Exhibitors may only cancel their own.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (trxDto.TransactionResponse, error) {
	owner := ownerScope(ctx)

	return s.transition(ctx, model.OperationCancel, model.EventCancelled, id, func(ctx context.Context, c change) (bool, error) {
		if owner != constant.Empty && c.trx.UserID != owner {
			return false, failure.NotFound("transaction not found") // nolint:wrapcheck
		}

		if !c.trx.HoldsBooths() || c.trx.PaymentStatus != trxModel.PaymentPending {
			return false, failure.Conflictf("transaction %s is %s/%s and cannot be cancelled", c.trx.ID, c.trx.BoothTransStatus, c.trx.PaymentStatus) // nolint:wrapcheck
		}

		c.trx.BoothTransStatus = trxModel.BoothTransCancelled
		c.trx.ValidityStatus = trxModel.ValidityExpired

		return true, c.tx.ReleaseBooths(ctx, c.boothIDs, c.trx.UserID, c.actor, c.now)
	})
}

// Sweep expires up to limit overdue reservations. A reservation that was
// paid or cancelled after it was listed is skipped.
func (s *serviceImpl) Sweep(ctx context.Context, limit int) (res dto.SweepResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Sweep")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	started := time.Now()

	if limit <= 0 {
		limit = s.cfg.Reservation.SweepBatchSize
	}

	ids, err := s.store.ListExpirable(ctx, s.now(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list expirable transactions")
		s.metrics.RecordTransition(model.OperationSweep, metrics.OutcomeError)

		return res, fmt.Errorf("failed to list expirable transactions: %w", err)
	}

	for _, id := range ids {
		if _, err := s.Expire(ctx, id); err != nil {
			if !failure.IsConflict(err) && !failure.IsNotFound(err) {
				log.Error().Err(err).Str("transaction_id", id).Msg("failed to expire transaction")
			}

			continue
		}

		res.Expired++
	}

	scope.SetAttribute("sweep.expired", res.Expired)

	s.metrics.ObserveSweep(res.Expired, time.Since(started))
	s.metrics.RecordTransition(model.OperationSweep, outcome(res.Expired > 0, nil))

	if res.Expired > 0 {
		log.Info().Int("expired", res.Expired).Int("candidates", len(ids)).Msg("expired overdue reservations")
	}

	return res, nil
}

// HandlePaymentCallback applies a gateway status report. Redelivered
// callbacks are harmless because every mapped transition is idempotent.
func (s *serviceImpl) HandlePaymentCallback(ctx context.Context, callback dto.PaymentCallback) (res trxDto.TransactionResponse, err error) {
	if err = validator.ValidateStruct(&callback); err != nil {
		return res, err
	}

	switch status := trxModel.PaymentStatus(callback.NormalizedStatus()); status {
	case trxModel.PaymentPaid, trxModel.PaymentSuccess:
		return s.MarkPaid(ctx, callback.TransactionID)
	case trxModel.PaymentProcessing, trxModel.PaymentQueued:
		return s.MarkProcessing(ctx, callback.TransactionID)
	case trxModel.PaymentRefunded, trxModel.PaymentReversed:
		return s.MarkRefunded(ctx, callback.TransactionID)
	case trxModel.PaymentAbandoned, paymentFailed:
		return s.MarkAbandoned(ctx, callback.TransactionID)
	default:
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown payment status %q", callback.Status)) // nolint:wrapcheck
	}
}

const paymentFailed trxModel.PaymentStatus = "failed"

// change is the locked state a transition works on.
type change struct {
	tx       store.Tx
	trx      *trxModel.Transaction
	boothIDs []string
	actor    string
	now      time.Time
}

type applyFunc func(ctx context.Context, c change) (bool, error)

// transition locks the transaction, lets apply mutate it and persists the
// result with a bumped version. apply returns false for an idempotent no-op,
// which commits nothing and publishes nothing.
func (s *serviceImpl) transition(
	ctx context.Context,
	operation string,
	eventType model.EventType,
	id string,
	apply applyFunc,
) (res trxDto.TransactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation."+operation)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelTransactionIDAttributeKey, id)

	var (
		trx     trxModel.Transaction
		items   []trxModel.LineItem
		changed bool
	)

	defer func() { s.metrics.RecordTransition(operation, outcome(changed, err)) }()

	actor := actorOf(ctx)
	now := s.now()

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		locked, err := tx.LockTransaction(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to lock transaction: %w", err)
		}

		if locked.ID == constant.Empty {
			return failure.NotFound("transaction not found") // nolint:wrapcheck
		}

		items, err = tx.LineItems(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get transaction booths: %w", err)
		}

		changed, err = apply(ctx, change{tx: tx, trx: &locked, boothIDs: boothIDs(items), actor: actor, now: now})
		if err != nil {
			changed = false

			return err
		}

		trx = locked

		if !changed {
			return nil
		}

		trx.Version++
		trx.Touch(actor, now)

		if err := tx.SaveTransaction(ctx, trx); err != nil {
			changed = false

			return fmt.Errorf("failed to save transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) >= http.StatusInternalServerError {
			log.Error().Err(err).Str("transaction_id", id).Str("operation", operation).Msg("reservation transition failed")
		}

		return res, err
	}

	if changed {
		log.Info().
			Str("transaction_id", trx.ID).
			Str("operation", operation).
			Str("payment_status", string(trx.PaymentStatus)).
			Str("booth_trans_status", string(trx.BoothTransStatus)).
			Msg("reservation transition committed")

		s.afterCommit(ctx, eventType, trx, items, actor, now)
	}

	res.FromModel(trx, items)

	return res, nil
}

// afterCommit publishes the lifecycle event and drops every cache that can
// show the affected booths or transaction. Failures are only logged.
func (s *serviceImpl) afterCommit(
	ctx context.Context,
	eventType model.EventType,
	trx trxModel.Transaction,
	items []trxModel.LineItem,
	actor string,
	at time.Time,
) {
	c := context.WithoutCancel(ctx)
	event := model.NewEvent(eventType, trx, items, actor, at)

	err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.ReservationEvents, kafka.Message{
		Key:   trx.ID,
		Value: event,
		Headers: map[string]string{
			"event_type": string(eventType),
		},
	})
	if err != nil {
		log.Error().Err(err).Str("transaction_id", trx.ID).Str("event", string(eventType)).Msg("failed to publish reservation event")
	}

	go func() {
		for _, id := range event.BoothIDs {
			if err := s.cache.Delete(c, shared.BuildCacheKey(boothModel.CacheKeyGet, id)); err != nil {
				log.Error().Err(err).Str("id", id).Msg("failed to delete booth cache")
			}
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(trxModel.CacheKeyGet, trx.ID)); err != nil {
			log.Error().Err(err).Str("id", trx.ID).Msg("failed to delete transaction cache")
		}

		for _, prefix := range []string{
			boothModel.CacheKeyGetAll,
			boothModel.CacheKeyCount,
			trxModel.CacheKeyGetAll,
			trxModel.CacheKeyCount,
			statsModel.CacheKeyPrefix,
		} {
			shared.InvalidateCaches(c, s.cache, prefix)
		}
	}()
}

// checkReservable fails with NotFound when an id is unknown and with Conflict
// listing every booth that is already held.
func checkReservable(ids []string, booths []boothModel.Booth) error {
	found := make(map[string]boothModel.Booth, len(booths))
	for _, booth := range booths {
		found[booth.ID] = booth
	}

	var missing, unavailable []string

	for _, id := range ids {
		booth, ok := found[id]

		switch {
		case !ok:
			missing = append(missing, id)
		case !booth.IsAvailable():
			unavailable = append(unavailable, id)
		}
	}

	if len(missing) > 0 {
		return failure.NotFound("booths not found: " + strings.Join(missing, ", ")) // nolint:wrapcheck
	}

	if len(unavailable) > 0 {
		return failure.Conflictf("booths no longer available: %s", strings.Join(unavailable, ", ")) // nolint:wrapcheck
	}

	return nil
}

// missed returns the ids, in request order, that are absent from moved.
func missed(ids, moved []string) []string {
	done := make(map[string]struct{}, len(moved))
	for _, id := range moved {
		done[id] = struct{}{}
	}

	var lost []string

	for _, id := range ids {
		if _, ok := done[id]; !ok {
			lost = append(lost, id)
		}
	}

	return lost
}

// lineItems snapshots the booths in request order.
func lineItems(trx trxModel.Transaction, ids []string, booths []boothModel.Booth, actor string, at time.Time) []trxModel.LineItem {
	byID := make(map[string]boothModel.Booth, len(booths))
	for _, booth := range booths {
		byID[booth.ID] = booth
	}

	items := make([]trxModel.LineItem, len(ids))
	for i, id := range ids {
		booth := byID[id]

		items[i] = trxModel.LineItem{
			ID:            uuid.NewString(),
			TransactionID: trx.ID,
			BoothID:       booth.ID,
			Sector:        booth.Sector,
			BoothNumber:   booth.Name,
			BoothType:     booth.Category,
			Price:         booth.Price,
			BoothStatus:   string(boothModel.StatusReserved),
			Position:      i,
			Metadata:      sharedModel.NewMetadata(actor, at),
		}
	}

	return items
}

func boothIDs(items []trxModel.LineItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.BoothID
	}

	return ids
}

// dedupe drops blank and repeated ids, keeping the first occurrence.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == constant.Empty || slices.Contains(out, id) {
			continue
		}

		out = append(out, id)
	}

	return out
}

func actorOf(ctx context.Context) string {
	if user, _ := ctx.Value(constant.ContextKeyUserID).(string); user != constant.Empty {
		return user
	}

	return constant.SystemActor
}

// holderOf is the account the booths are reserved for. Staff may reserve on
// behalf of an exhibitor account.
func holderOf(ctx context.Context, req dto.ReserveRequest) string {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if ownerScope(ctx) == constant.Empty && req.UserID != constant.Empty {
		return req.UserID
	}

	return user
}

func ownerScope(ctx context.Context) string {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleExhibitor {
		return constant.Empty
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return user
}

func outcome(changed bool, err error) string {
	switch {
	case err == nil && changed:
		return metrics.OutcomeSuccess
	case err == nil:
		return metrics.OutcomeNoop
	case failure.IsConflict(err):
		return metrics.OutcomeConflict
	case failure.IsNotFound(err):
		return metrics.OutcomeNotFound
	case failure.HasCode(err, http.StatusBadRequest):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
