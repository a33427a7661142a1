package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"shutter/infras/otel"
	"shutter/infras/postgres"
	"shutter/internal/domains/deliverable/model"
	gDto "shutter/shared/dto"
	gRepo "shutter/shared/repository"
)

type Deliverable interface {
	Insert(ctx context.Context, model model.Deliverable) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Deliverable, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Deliverable, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Deliverable]
}

func New(db *postgres.Connection, otel otel.Otel) Deliverable {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Deliverable](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
