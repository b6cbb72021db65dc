package model

import (
	"time"

	trxModel "fair/internal/domains/transaction/model"
)

// Operations name the lifecycle transitions in events, metrics and spans.
const (
	OperationReserve    = "reserve"
	OperationMarkPaid   = "mark_paid"
	OperationRefund     = "mark_refunded"
	OperationExpire     = "expire"
	OperationCancel     = "cancel"
	OperationProcessing = "mark_processing"
	OperationAbandon    = "mark_abandoned"
	OperationSweep      = "sweep"
)

type EventType string

const (
	EventReserved   EventType = "reservation.reserved"
	EventPaid       EventType = "reservation.paid"
	EventRefunded   EventType = "reservation.refunded"
	EventExpired    EventType = "reservation.expired"
	EventCancelled  EventType = "reservation.cancelled"
	EventProcessing EventType = "reservation.processing"
	EventAbandoned  EventType = "reservation.abandoned"
)

// Event is published after every committed transition, keyed by transaction id
// so consumers see the events of one reservation in order.
type Event struct {
	Type             EventType                 `json:"type"`
	TransactionID    string                    `json:"transaction_id"`
	UserID           string                    `json:"user_id"`
	BoothIDs         []string                  `json:"booth_ids"`
	TotalAmount      int64                     `json:"total_amount"`
	Currency         string                    `json:"currency"`
	PaymentStatus    trxModel.PaymentStatus    `json:"payment_status"`
	ValidityStatus   trxModel.ValidityStatus   `json:"validity_status"`
	BoothTransStatus trxModel.BoothTransStatus `json:"booth_trans_status"`
	ExpirationDate   time.Time                 `json:"expiration_date"`
	Version          int64                     `json:"version"`
	Actor            string                    `json:"actor"`
	OccurredAt       time.Time                 `json:"occurred_at"`
}

func NewEvent(eventType EventType, trx trxModel.Transaction, items []trxModel.LineItem, actor string, at time.Time) Event {
	boothIDs := make([]string, len(items))
	for i, item := range items {
		boothIDs[i] = item.BoothID
	}

	return Event{
		Type:             eventType,
		TransactionID:    trx.ID,
		UserID:           trx.UserID,
		BoothIDs:         boothIDs,
		TotalAmount:      trx.TotalAmount,
		Currency:         trx.Currency,
		PaymentStatus:    trx.PaymentStatus,
		ValidityStatus:   trx.ValidityStatus,
		BoothTransStatus: trx.BoothTransStatus,
		ExpirationDate:   trx.ExpirationDate(),
		Version:          trx.Version,
		Actor:            actor,
		OccurredAt:       at,
	}
}
