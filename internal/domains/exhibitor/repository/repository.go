package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"fair/infras/otel"
	"fair/infras/postgres"
	"fair/internal/domains/exhibitor/model"
	gDto "fair/shared/dto"
	gRepo "fair/shared/repository"
)

type Exhibitor interface {
	Insert(ctx context.Context, model model.Exhibitor) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Exhibitor, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Exhibitor, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Exhibitor]
}

func New(db *postgres.Connection, otel otel.Otel) Exhibitor {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Exhibitor](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, exhibitor model.Exhibitor) error {
	return gRepo.MapPqError(r.Repository.Insert(ctx, exhibitor), model.EntityName)
}

func (r *repositoryImpl) Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error {
	return gRepo.MapPqError(r.Repository.Update(ctx, req, filter), model.EntityName)
}
