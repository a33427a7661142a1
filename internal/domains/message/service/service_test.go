package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shutter/config"
	otelMocks "shutter/infras/otel/mocks"
	bookingMocks "shutter/internal/domains/booking/mocks"
	bookingModel "shutter/internal/domains/booking/model"
	messageMocks "shutter/internal/domains/message/mocks"
	"shutter/internal/domains/message/model"
	"shutter/internal/domains/message/model/dto"
	"shutter/internal/domains/message/service"
	notificationMocks "shutter/internal/domains/notification/mocks"
	notificationModel "shutter/internal/domains/notification/model"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/failure"
)

func newService(t *testing.T) (service.Message, *messageMocks.MockMessage, *bookingMocks.MockBooking, *notificationMocks.MockPublisher) {
	ctrl := gomock.NewController(t)

	repo := messageMocks.NewMockMessage(ctrl)
	bookings := bookingMocks.NewMockBooking(ctrl)
	pub := notificationMocks.NewMockPublisher(ctrl)

	return service.New(repo, bookings, pub, &config.Config{}, otelMocks.NewOtel()), repo, bookings, pub
}

func assignedBooking() bookingModel.Booking {
	photographer := "photographer-1"

	return bookingModel.Booking{
		ID:             "booking-1",
		ClientID:       "client-1",
		PhotographerID: &photographer,
		Status:         "SHOOTING",
	}
}

func TestMessageService_Send(t *testing.T) {
	t.Run("client messages photographer", func(t *testing.T) {
		svc, repo, bookings, pub := newService(t)
		ctx := shared.WithActor(context.Background(), "client-1", constant.RoleClient)

		bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m model.Message) error {
			assert.Equal(t, "client-1", m.SenderID)
			assert.Equal(t, "booking-1", m.BookingID)
			assert.False(t, m.IsRead)

			return nil
		})
		pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, event notificationModel.Event) {
			assert.Equal(t, notificationModel.TypeNewMessage, event.Type)
			assert.Equal(t, []string{"photographer-1"}, event.Recipients)
		})

		res, err := svc.Send(ctx, dto.SendMessageRequest{Content: "See you at 9"}, "booking-1")
		require.NoError(t, err)
		assert.Equal(t, "See you at 9", res.Content)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		svc, _, bookings, _ := newService(t)
		ctx := shared.WithActor(context.Background(), "photographer-2", constant.RolePhotographer)

		bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)

		_, err := svc.Send(ctx, dto.SendMessageRequest{Content: "hi"}, "booking-1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("booking not found", func(t *testing.T) {
		svc, _, bookings, _ := newService(t)
		ctx := shared.WithActor(context.Background(), "admin-1", constant.RoleAdmin)

		bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

		_, err := svc.Send(ctx, dto.SendMessageRequest{Content: "hi"}, "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("api key caller has no sender id", func(t *testing.T) {
		svc, _, _, _ := newService(t)
		ctx := shared.WithActor(context.Background(), constant.ContextSystem, constant.RoleAdmin)

		_, err := svc.Send(ctx, dto.SendMessageRequest{Content: "hi"}, "booking-1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("insert failure", func(t *testing.T) {
		svc, repo, bookings, _ := newService(t)
		ctx := shared.WithActor(context.Background(), "admin-1", constant.RoleAdmin)

		bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := svc.Send(ctx, dto.SendMessageRequest{Content: "hi"}, "booking-1")
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestMessageService_GetAll_OldestFirst(t *testing.T) {
	svc, repo, bookings, _ := newService(t)
	ctx := shared.WithActor(context.Background(), "photographer-1", constant.RolePhotographer)

	bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Message, error) {
		assert.Equal(t, model.FieldCreatedAt, params.SortBy)
		assert.Equal(t, gDto.SortDirAsc, params.SortDir)
		assert.Equal(t, 2, params.Page)

		_, args := filter.GetWhereClause()
		assert.Equal(t, "booking-1", args[model.FieldBookingID])

		return []model.Message{{ID: "m-1"}, {ID: "m-2"}}, nil
	})

	res, err := svc.GetAll(ctx, gDto.QueryParams{Page: 2, Limit: 1, SortBy: "content", SortDir: gDto.SortDirDesc}, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Messages, 2)
}

func TestMessageService_MarkRead(t *testing.T) {
	svc, repo, bookings, _ := newService(t)
	ctx := shared.WithActor(context.Background(), "client-1", constant.RoleClient)

	bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(assignedBooking(), nil)
	repo.EXPECT().UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) (int64, error) {
		assert.Equal(t, true, fields[model.FieldIsRead])

		where, args := filter.GetWhereClause()
		assert.Contains(t, where, "messages.sender_id != :sender_id")
		assert.Equal(t, "client-1", args[model.FieldSenderID])
		assert.Equal(t, false, args["filter_is_read"])

		return 3, nil
	})

	res, err := svc.MarkRead(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Updated)
}

func TestMessageService_MarkRead_APIKeyCaller(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := shared.WithActor(context.Background(), constant.ContextSystem, constant.RoleAdmin)

	_, err := svc.MarkRead(ctx, "booking-1")
	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
}
