package store

import (
	"context"
	"errors"
	"time"

	boothModel "fair/internal/domains/booth/model"
	trxModel "fair/internal/domains/transaction/model"
)

// ErrStaleTransaction is returned when a transaction row changed between the
// lock and the write. It cannot happen while the row lock is held and signals
// a bug in the caller.
var ErrStaleTransaction = errors.New("transaction was modified concurrently")

// Store persists booths and transactions for the lifecycle engine. Every
// mutation happens inside WithinTx; the callback's writes commit together or
// not at all.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// ListExpirable returns ids of pending, active transactions whose
	// validity window ended before now, oldest first.
	ListExpirable(ctx context.Context, now time.Time, limit int) ([]string, error)
}

// Tx is the set of writes the engine needs inside one unit of work.
type Tx interface {
	// LockBooths locks the existing booths among ids in id order and returns them.
	LockBooths(ctx context.Context, ids []string) ([]boothModel.Booth, error)
	// ReserveBooths moves the available booths among ids to reserved and
	// returns the ids that moved.
	ReserveBooths(ctx context.Context, ids []string, holder string, at time.Time) ([]string, error)
	// BookBooths moves the reserved booths among ids to booked, keeping the holder.
	BookBooths(ctx context.Context, ids []string, updatedBy string, at time.Time) error
	// ReleaseBooths returns the booths among ids held by holder to available.
	ReleaseBooths(ctx context.Context, ids []string, holder, updatedBy string, at time.Time) error

	InsertTransaction(ctx context.Context, trx trxModel.Transaction, items []trxModel.LineItem) error
	// LockTransaction returns the locked transaction, or a zero value when it does not exist.
	LockTransaction(ctx context.Context, id string) (trxModel.Transaction, error)
	LineItems(ctx context.Context, transactionID string) ([]trxModel.LineItem, error)
	// SaveTransaction writes the statuses, remark and metadata of trx. trx.Version
	// must be one past the stored version.
	SaveTransaction(ctx context.Context, trx trxModel.Transaction) error
}
