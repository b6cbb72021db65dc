package model

import (
	"time"

	"fair/shared/model"
	"fair/shared/timezone"
)

const (
	TableName          = "transactions"
	EntityName         = "transaction"
	LineItemTableName  = "transaction_booths"
	LineItemEntityName = "transaction booth"

	FieldID                 = "id"
	FieldUserID             = "user_id"
	FieldTotalAmount        = "total_amount"
	FieldCurrency           = "currency"
	FieldRemark             = "remark"
	FieldBoothTransStatus   = "booth_trans_status"
	FieldPaymentStatus      = "payment_status"
	FieldValidityStatus     = "validity_status"
	FieldReservationDate    = "reservation_date"
	FieldValidityPeriodDays = "validity_period_days"
	FieldVersion            = "version"

	FieldTransactionID = "transaction_id"
	FieldBoothID       = "booth_id"
	FieldPosition      = "position"
)

const (
	CacheKeyGet    = "transaction:get"
	CacheKeyGetAll = "transaction:gets"
	CacheKeyCount  = "transaction:count"
)

type BoothTransStatus string

const (
	BoothTransActive    BoothTransStatus = "active"
	BoothTransExpired   BoothTransStatus = "expired"
	BoothTransCancelled BoothTransStatus = "cancelled"
)

var BoothTransStatuses = []BoothTransStatus{BoothTransActive, BoothTransExpired, BoothTransCancelled}

// PaymentStatus mirrors the gateway vocabulary. success, queued and reversed
// are gateway spellings the engine normalises to paid, processing and refunded.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentAbandoned  PaymentStatus = "abandoned"
	PaymentReversed   PaymentStatus = "reversed"
	PaymentSuccess    PaymentStatus = "success"
	PaymentQueued     PaymentStatus = "queued"
)

var PaymentStatuses = []PaymentStatus{
	PaymentPending, PaymentProcessing, PaymentPaid, PaymentRefunded,
	PaymentAbandoned, PaymentReversed, PaymentSuccess, PaymentQueued,
}

// IsPaid reports whether the gateway has settled the charge.
func (p PaymentStatus) IsPaid() bool {
	return p == PaymentPaid || p == PaymentSuccess
}

// IsAwaiting reports whether the charge can still settle.
func (p PaymentStatus) IsAwaiting() bool {
	return p == PaymentPending || p == PaymentProcessing || p == PaymentQueued
}

// IsTerminal reports whether no further payment transition is possible.
func (p PaymentStatus) IsTerminal() bool {
	return p == PaymentRefunded || p == PaymentReversed || p == PaymentAbandoned
}

type ValidityStatus string

const (
	ValidityActive  ValidityStatus = "active"
	ValidityExpired ValidityStatus = "expired"
	ValidityPaid    ValidityStatus = "paid"
)

var ValidityStatuses = []ValidityStatus{ValidityActive, ValidityExpired, ValidityPaid}

// Transaction groups the booths of one reservation under a single payment.
// The expiration date is derived from ReservationDate and ValidityPeriodDays
// and never stored.
type Transaction struct {
	ID                 string           `db:"id"`
	UserID             string           `db:"user_id"`
	TotalAmount        int64            `db:"total_amount"`
	Currency           string           `db:"currency"`
	Remark             string           `db:"remark"`
	BoothTransStatus   BoothTransStatus `db:"booth_trans_status"`
	PaymentStatus      PaymentStatus    `db:"payment_status"`
	ValidityStatus     ValidityStatus   `db:"validity_status"`
	ReservationDate    time.Time        `db:"reservation_date"`
	ValidityPeriodDays int              `db:"validity_period_days"`
	Version            int64            `db:"version"`
	model.Metadata
}

// ExpirationDate is the reservation date plus the validity period in calendar
// days of the fair timezone.
func (t *Transaction) ExpirationDate() time.Time {
	return timezone.In(t.ReservationDate).AddDate(0, 0, t.ValidityPeriodDays)
}

// IsExpirable reports whether the sweeper may expire the transaction at now.
func (t *Transaction) IsExpirable(now time.Time) bool {
	return t.ValidityStatus == ValidityActive &&
		t.PaymentStatus == PaymentPending &&
		t.BoothTransStatus == BoothTransActive &&
		now.After(t.ExpirationDate())
}

// HoldsBooths reports whether the booths of the transaction are still claimed by it.
func (t *Transaction) HoldsBooths() bool {
	return t.BoothTransStatus == BoothTransActive
}

// LineItem snapshots one booth at reservation time.
type LineItem struct {
	ID            string `db:"id"`
	TransactionID string `db:"transaction_id"`
	BoothID       string `db:"booth_id"`
	Sector        string `db:"sector"`
	BoothNumber   string `db:"booth_number"`
	BoothType     string `db:"booth_type"`
	Price         int64  `db:"price"`
	BoothStatus   string `db:"booth_status"`
	Position      int    `db:"position"`
	model.Metadata
}

// Total sums the line item prices.
func Total(items []LineItem) int64 {
	var total int64

	for _, item := range items {
		total += item.Price
	}

	return total
}
