package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"fair/infras/otel"
	"fair/infras/postgres"
	"fair/internal/domains/booth/model"
	gDto "fair/shared/dto"
	gRepo "fair/shared/repository"
)

type Booth interface {
	Insert(ctx context.Context, model model.Booth) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booth, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booth, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booth]
}

func New(db *postgres.Connection, otel otel.Otel) Booth {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booth](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// Delete maps the foreign key violation raised by booths still referenced
// from a transaction line item to a conflict.
func (r *repositoryImpl) Delete(ctx context.Context, filter gDto.FilterGroup) error {
	return gRepo.MapPqError(r.Repository.Delete(ctx, filter), model.EntityName)
}

// Insert maps a duplicate booth number to a conflict.
func (r *repositoryImpl) Insert(ctx context.Context, booth model.Booth) error {
	return gRepo.MapPqError(r.Repository.Insert(ctx, booth), model.EntityName)
}
