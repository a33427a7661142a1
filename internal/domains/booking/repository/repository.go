package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"shutter/infras/otel"
	"shutter/infras/postgres"
	"shutter/internal/domains/booking/model"
	gDto "shutter/shared/dto"
	gRepo "shutter/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	LockTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	UpdateAffectedTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
	DeleteAffected(ctx context.Context, filter gDto.FilterGroup) (int64, error)
}

type AddOn interface {
	InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []model.AddOn) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AddOn, error)
}

// History is append-only.
type History interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.StatusHistory) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.StatusHistory, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type addOnRepositoryImpl struct {
	gRepo.Repository[model.AddOn]
}

func NewAddOn(db *postgres.Connection, otel otel.Otel) AddOn {
	return &addOnRepositoryImpl{
		Repository: gRepo.NewRepository[model.AddOn](model.AddOnEntityName, model.AddOnTableName, model.AddOnFieldID, db, otel),
	}
}

type historyRepositoryImpl struct {
	gRepo.Repository[model.StatusHistory]
}

func NewHistory(db *postgres.Connection, otel otel.Otel) History {
	return &historyRepositoryImpl{
		Repository: gRepo.NewRepository[model.StatusHistory](model.HistoryEntityName, model.HistoryTableName, model.HistoryFieldID, db, otel),
	}
}
