package service

import (
	"context"
	"fmt"
	"shutter/config"
	"shutter/infras/otel"
	bookingRepo "shutter/internal/domains/booking/repository"
	bookingService "shutter/internal/domains/booking/service"
	"shutter/internal/domains/message/model"
	"shutter/internal/domains/message/model/dto"
	"shutter/internal/domains/message/repository"
	notificationModel "shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/publisher"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Message interface {
	Send(ctx context.Context, req dto.SendMessageRequest, bookingID string) (dto.MessageResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, bookingID string) (dto.GetMessagesResponse, error)
	MarkRead(ctx context.Context, bookingID string) (dto.MarkReadResponse, error)
}

type serviceImpl struct {
	repo        repository.Message
	bookingRepo bookingRepo.Booking
	publisher   publisher.Publisher
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Message, bookingRepo bookingRepo.Booking, publisher publisher.Publisher, cfg *config.Config, otel otel.Otel) Message {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) Send(ctx context.Context, req dto.SendMessageRequest, bookingID string) (res dto.MessageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _, err := shared.UserActorFromContext(ctx)
	if err != nil {
		return res, err
	}

	booking, err := bookingService.LoadForParticipant(ctx, s.bookingRepo, bookingID)
	if err != nil {
		return res, err
	}

	message := req.ToModel(booking.ID, user)

	if err = s.repo.Insert(ctx, message); err != nil {
		log.Error().Err(err).Msg("failed to send message")

		return res, fmt.Errorf("failed to send message: %w", err)
	}

	s.publisher.Publish(ctx, notificationModel.NewMessage(bookingService.Participants(booking), user))

	res.FromModel(message)

	return res, nil
}

// GetAll returns the conversation oldest first.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, bookingID string) (res dto.GetMessagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := bookingService.LoadForParticipant(ctx, s.bookingRepo, bookingID)
	if err != nil {
		return res, err
	}

	filter := shared.FilterByField(model.FieldBookingID, booking.ID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count messages")

		return res, fmt.Errorf("failed to count messages: %w", err)
	}

	req.SortBy = model.FieldCreatedAt
	req.SortDir = gDto.SortDirAsc

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get messages")

		return res, fmt.Errorf("failed to get messages: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// MarkRead marks every unread message sent by the other participants as read.
func (s *serviceImpl) MarkRead(ctx context.Context, bookingID string) (res dto.MarkReadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _, err := shared.UserActorFromContext(ctx)
	if err != nil {
		return res, err
	}

	booking, err := bookingService.LoadForParticipant(ctx, s.bookingRepo, bookingID)
	if err != nil {
		return res, err
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: booking.ID, Table: model.TableName},
			gDto.Filter{Field: model.FieldSenderID, Operator: gDto.FilterOperatorNotEq, Value: user, Table: model.TableName},
			gDto.Filter{ArgName: "filter_" + model.FieldIsRead, Field: model.FieldIsRead, Operator: gDto.FilterOperatorEq, Value: false, Table: model.TableName},
		},
	}

	updatedFields := map[string]any{
		model.FieldIsRead:        true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	res.Updated, err = s.repo.UpdateAffected(ctx, updatedFields, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to mark messages as read")

		return res, fmt.Errorf("failed to mark messages as read: %w", err)
	}

	return res, nil
}
