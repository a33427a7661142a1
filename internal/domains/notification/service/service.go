package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"shutter/config"
	"shutter/infras/otel"
	"shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/model/dto"
	"shutter/internal/domains/notification/repository"
	userModel "shutter/internal/domains/user/model"
	userRepo "shutter/internal/domains/user/repository"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/failure"
	gModel "shutter/shared/model"
	"shutter/shared/timezone"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Dispatcher turns an event into inbox rows.
type Dispatcher interface {
	Dispatch(ctx context.Context, event model.Event) error
}

type Notification interface {
	Dispatch(ctx context.Context, event model.Event) error
	GetAll(ctx context.Context, req gDto.QueryParams, isRead *bool) (dto.GetNotificationsResponse, error)
	UnreadCount(ctx context.Context) (dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Notification
	userRepo userRepo.User
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Notification, userRepo userRepo.User, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) Dispatch(ctx context.Context, event model.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dispatch")
	defer scope.End()
	defer scope.TraceIfError(err)

	recipients, err := s.resolveRecipients(ctx, event)
	if err != nil {
		return err
	}

	if len(recipients) == 0 {
		log.Debug().Str("type", event.Type).Msg("notification has no recipients")

		return nil
	}

	now := timezone.Now()
	rows := make([]model.Notification, len(recipients))

	for i, userID := range recipients {
		rows[i] = model.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			BookingID: event.BookingID,
			Type:      event.Type,
			Title:     event.Title,
			Message:   event.Message,
			Metadata:  gModel.NewMetadata(event.ActorID, now),
		}
	}

	if err = s.repo.InsertBulk(ctx, rows); err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("failed to insert notifications")

		return fmt.Errorf("failed to insert notifications: %w", err)
	}

	scope.AddEvent(fmt.Sprintf("%d notifications dispatched", len(rows)))

	return nil
}

// resolveRecipients expands role audiences to active users and drops the actor.
func (s *serviceImpl) resolveRecipients(ctx context.Context, event model.Event) ([]string, error) {
	recipients := slices.Clone(event.Recipients)

	if len(event.RecipientRoles) > 0 {
		filter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{Field: userModel.FieldRole, Operator: gDto.FilterOperatorIn, Value: event.RecipientRoles, Table: userModel.TableName},
				gDto.Filter{Field: userModel.FieldActive, Operator: gDto.FilterOperatorEq, Value: true, Table: userModel.TableName},
			},
		}

		users, err := s.userRepo.GetAll(ctx, gDto.QueryParams{}, filter, userModel.FieldID)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve notification recipients")

			return nil, fmt.Errorf("failed to resolve notification recipients: %w", err)
		}

		for _, user := range users {
			recipients = append(recipients, user.ID)
		}
	}

	slices.Sort(recipients)

	return slices.DeleteFunc(slices.Compact(recipients), func(id string) bool {
		return id == constant.Empty || id == event.ActorID
	}), nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, isRead *bool) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.ActorFromContext(ctx)
	filter := dto.OwnerFilter(user, isRead)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) UnreadCount(ctx context.Context) (res dto.UnreadCountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UnreadCount")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.ActorFromContext(ctx)
	unread := false

	res.Count, err = s.repo.Count(ctx, dto.OwnerFilter(user, &unread))
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.ActorFromContext(ctx)

	filter, err := s.ownedFilter(ctx, id, user)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(dto.MarkReadRequest{IsRead: true, ReadAt: timezone.Now()}, user)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkAllRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.ActorFromContext(ctx)
	unread := false

	updatedFields := shared.TransformFields(dto.MarkReadRequest{IsRead: true, ReadAt: timezone.Now()}, user)

	if err = s.repo.Update(ctx, updatedFields, dto.OwnerFilter(user, &unread)); err != nil {
		log.Error().Err(err).Msg("failed to mark notifications as read")

		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.ActorFromContext(ctx)

	filter, err := s.ownedFilter(ctx, id, user)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete notification")

		return fmt.Errorf("failed to delete notification: %w", err)
	}

	return nil
}

// ownedFilter returns a filter for the user's notification, or 404 when it belongs to someone else.
func (s *serviceImpl) ownedFilter(ctx context.Context, id, user string) (gDto.FilterGroup, error) {
	filter := dto.OwnerFilter(user, nil)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldID,
		Operator: gDto.FilterOperatorEq,
		Value:    id,
		Table:    model.TableName,
	})

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if notification exists")

		return filter, fmt.Errorf("failed to check if notification exists: %w", err)
	}

	if !exist {
		return filter, failure.NotFound("notification not found")
	}

	return filter, nil
}
