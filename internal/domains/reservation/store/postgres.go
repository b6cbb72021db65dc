package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"fair/infras/otel"
	"fair/infras/postgres"
	boothModel "fair/internal/domains/booth/model"
	trxModel "fair/internal/domains/transaction/model"
	"fair/shared"
	"fair/shared/constant"
	gDto "fair/shared/dto"
	"fair/shared/logger"
	gRepo "fair/shared/repository"
	"fair/shared/timezone"
)

const (
	boothColumns = "id, name, sector, category, size, area, price, status, booked_by, bookdate, updated_by, created_at, modified_at, created_by, modified_by"

	queryLockBooths = "SELECT " + boothColumns + " FROM booths WHERE id = ANY($1) ORDER BY id FOR UPDATE"

	queryReserveBooths = `UPDATE booths SET status = 'reserved', booked_by = $2, bookdate = $3, updated_by = $2, modified_at = $3, modified_by = $2
		WHERE id = ANY($1) AND status = 'available'
		RETURNING id`

	queryBookBooths = `UPDATE booths SET status = 'booked', updated_by = $2, modified_at = $3, modified_by = $2
		WHERE id = ANY($1) AND status = 'reserved'`

	queryReleaseBooths = `UPDATE booths SET status = 'available', booked_by = NULL, bookdate = NULL, updated_by = $3, modified_at = $4, modified_by = $3
		WHERE id = ANY($1) AND booked_by = $2 AND status IN ('reserved', 'booked')`

	querySaveTransaction = `UPDATE transactions SET payment_status = :payment_status, validity_status = :validity_status,
		booth_trans_status = :booth_trans_status, remark = :remark, version = :version, modified_at = :modified_at, modified_by = :modified_by
		WHERE id = :id AND version = :version - 1`

	// Days are added to the wall clock of the fair timezone ($3), the way
	// Transaction.ExpirationDate does, so both agree across DST changes.
	queryListExpirable = `SELECT id FROM transactions
		WHERE booth_trans_status = 'active' AND validity_status = 'active' AND payment_status = 'pending'
		AND ((reservation_date AT TIME ZONE $3) + make_interval(days => validity_period_days)) AT TIME ZONE $3 < $1
		ORDER BY ((reservation_date AT TIME ZONE $3) + make_interval(days => validity_period_days)) AT TIME ZONE $3 ASC
		LIMIT $2`
)

// Postgres runs every unit of work in one database transaction on the write
// pool. Booth rows are locked in id order so overlapping reservations cannot
// deadlock, and status moves are compare-and-set on the current status.
type Postgres struct {
	db           *postgres.Connection
	otel         otel.Otel
	transactions gRepo.Repository[trxModel.Transaction]
	lineItems    gRepo.Repository[trxModel.LineItem]
}

func NewPostgres(db *postgres.Connection, otel otel.Otel) Store {
	return &Postgres{
		db:           db,
		otel:         otel,
		transactions: gRepo.NewRepository[trxModel.Transaction](trxModel.EntityName, trxModel.TableName, trxModel.FieldID, db, otel),
		lineItems:    gRepo.NewRepository[trxModel.LineItem](trxModel.LineItemEntityName, trxModel.LineItemTableName, trxModel.FieldID, db, otel),
	}
}

func (s *Postgres) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.WithinTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	sqltx, err := s.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := sqltx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to roll back reservation transaction")
		}
	}()

	if err = fn(ctx, &postgresTx{store: s, tx: sqltx}); err != nil {
		return err
	}

	if err = sqltx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *Postgres) ListExpirable(ctx context.Context, now time.Time, limit int) ([]string, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ListExpirable")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryListExpirable)

	ids := []string{}

	if err := s.db.Write.SelectContext(ctx, &ids, queryListExpirable, now, limit, timezone.Location().String()); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list expirable transactions: %w", err)
	}

	return ids, nil
}

type postgresTx struct {
	store *Postgres
	tx    *sqlx.Tx
}

func (t *postgresTx) LockBooths(ctx context.Context, ids []string) ([]boothModel.Booth, error) {
	booths := []boothModel.Booth{}

	if err := t.tx.SelectContext(ctx, &booths, queryLockBooths, pq.Array(ids)); err != nil {
		logger.ErrorWithStack(err)

		return nil, gRepo.MapPqError(fmt.Errorf("failed to lock booths: %w", err), boothModel.EntityName)
	}

	return booths, nil
}

func (t *postgresTx) ReserveBooths(ctx context.Context, ids []string, holder string, at time.Time) ([]string, error) {
	reserved := []string{}

	if err := t.tx.SelectContext(ctx, &reserved, queryReserveBooths, pq.Array(ids), holder, at); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to reserve booths: %w", err)
	}

	return reserved, nil
}

func (t *postgresTx) BookBooths(ctx context.Context, ids []string, updatedBy string, at time.Time) error {
	if _, err := t.tx.ExecContext(ctx, queryBookBooths, pq.Array(ids), updatedBy, at); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to book booths: %w", err)
	}

	return nil
}

func (t *postgresTx) ReleaseBooths(ctx context.Context, ids []string, holder, updatedBy string, at time.Time) error {
	if _, err := t.tx.ExecContext(ctx, queryReleaseBooths, pq.Array(ids), holder, updatedBy, at); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to release booths: %w", err)
	}

	return nil
}

func (t *postgresTx) InsertTransaction(ctx context.Context, trx trxModel.Transaction, items []trxModel.LineItem) error {
	if err := t.store.transactions.InsertTx(ctx, t.tx, trx); err != nil {
		return gRepo.MapPqError(err, trxModel.EntityName)
	}

	if err := t.store.lineItems.InsertBulkTx(ctx, t.tx, items); err != nil {
		return gRepo.MapPqError(err, trxModel.LineItemEntityName)
	}

	return nil
}

func (t *postgresTx) LockTransaction(ctx context.Context, id string) (trxModel.Transaction, error) {
	trx, err := t.store.transactions.GetForUpdateTx(ctx, t.tx, shared.FilterByID(id, trxModel.FieldID, trxModel.TableName))

	return trx, gRepo.MapPqError(err, trxModel.EntityName)
}

func (t *postgresTx) LineItems(ctx context.Context, transactionID string) ([]trxModel.LineItem, error) {
	params := gDto.QueryParams{SortBy: trxModel.FieldPosition, SortDir: gDto.SortDirAsc}
	filter := shared.FilterByID(transactionID, trxModel.FieldTransactionID, trxModel.LineItemTableName)

	return t.store.lineItems.GetAllTx(ctx, t.tx, params, filter) //nolint:wrapcheck
}

func (t *postgresTx) SaveTransaction(ctx context.Context, trx trxModel.Transaction) error {
	result, err := t.tx.NamedExecContext(ctx, querySaveTransaction, trx)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to save transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read saved transaction count: %w", err)
	}

	if affected != 1 {
		return ErrStaleTransaction
	}

	return nil
}
