package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"fair/infras/otel"
	"fair/infras/postgres"
	"fair/internal/domains/transaction/model"
	gDto "fair/shared/dto"
	gRepo "fair/shared/repository"
)

// Transaction is the read side of transactions. Writes belong to the reservation store.
type Transaction interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Transaction, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Transaction, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	GetLineItems(ctx context.Context, transactionIDs ...string) ([]model.LineItem, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Transaction]
	lineItems gRepo.Repository[model.LineItem]
}

func New(db *postgres.Connection, otel otel.Otel) Transaction {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Transaction](model.EntityName, model.TableName, model.FieldID, db, otel),
		lineItems:  gRepo.NewRepository[model.LineItem](model.LineItemEntityName, model.LineItemTableName, model.FieldID, db, otel),
	}
}

// GetLineItems loads the booths of the given transactions in reservation order.
func (r *repositoryImpl) GetLineItems(ctx context.Context, transactionIDs ...string) ([]model.LineItem, error) {
	if len(transactionIDs) == 0 {
		return []model.LineItem{}, nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldTransactionID,
				Value:    transactionIDs,
				Operator: gDto.FilterOperatorIn,
				Table:    model.LineItemTableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldPosition, SortDir: gDto.SortDirAsc}

	return r.lineItems.GetAll(ctx, params, filter) //nolint:wrapcheck
}
