package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"strings"

	"fair/infras/otel"
	"fair/infras/postgres"
	"fair/internal/domains/user/model"
	"fair/shared"
	gDto "fair/shared/dto"
	gRepo "fair/shared/repository"
)

// User stores accounts of staff and exhibitors. Emails are unique and kept
// lowercase.
type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// ByID selects one account.
func ByID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

// ByEmail selects the account registered under email, ignoring case.
func ByEmail(email string) gDto.FilterGroup {
	return shared.FilterByID(strings.ToLower(strings.TrimSpace(email)), model.FieldEmail, model.TableName)
}

// Insert maps a duplicate email to a conflict.
func (r *repositoryImpl) Insert(ctx context.Context, user model.User) error {
	user.Email = strings.ToLower(user.Email)

	return gRepo.MapPqError(r.Repository.Insert(ctx, user), model.EntityName)
}

// Delete maps a user still referenced by a reservation to a conflict.
func (r *repositoryImpl) Delete(ctx context.Context, filter gDto.FilterGroup) error {
	return gRepo.MapPqError(r.Repository.Delete(ctx, filter), model.EntityName)
}
