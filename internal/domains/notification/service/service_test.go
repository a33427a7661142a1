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
	notificationMocks "shutter/internal/domains/notification/mocks"
	"shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/service"
	userMocks "shutter/internal/domains/user/mocks"
	userModel "shutter/internal/domains/user/model"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/failure"
)

func newService(t *testing.T) (service.Notification, *notificationMocks.MockNotification, *userMocks.MockUser) {
	ctrl := gomock.NewController(t)

	repo := notificationMocks.NewMockNotification(ctrl)
	users := userMocks.NewMockUser(ctrl)

	return service.New(repo, users, &config.Config{}, otelMocks.NewOtel()), repo, users
}

func userCtx() context.Context {
	return shared.WithActor(context.Background(), "user-1", constant.RoleClient)
}

func TestNotificationService_Dispatch(t *testing.T) {
	photographer := "photographer-1"
	participants := model.Participants{BookingID: "booking-1", ClientID: "client-1", PhotographerID: &photographer}

	t.Run("direct recipients minus actor", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().InsertBulk(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rows []model.Notification) error {
			require.Len(t, rows, 1)
			assert.Equal(t, "client-1", rows[0].UserID)
			assert.Equal(t, model.TypeStatusChanged, rows[0].Type)
			assert.Equal(t, "booking-1", *rows[0].BookingID)
			assert.False(t, rows[0].IsRead)

			return nil
		})

		err := svc.Dispatch(context.Background(), model.StatusChanged(participants, "photographer-1", "SHOOTING", "EDITING"))
		assert.NoError(t, err)
	})

	t.Run("role audience is expanded and deduplicated", func(t *testing.T) {
		svc, repo, users := newService(t)

		users.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), userModel.FieldID).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]userModel.User, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, constant.RoleAdmin, args["role_0"])
				assert.Equal(t, true, args[userModel.FieldActive])

				return []userModel.User{{ID: "admin-2"}, {ID: "admin-1"}, {ID: "admin-2"}}, nil
			})
		repo.EXPECT().InsertBulk(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rows []model.Notification) error {
			require.Len(t, rows, 2)
			assert.Equal(t, "admin-1", rows[0].UserID)
			assert.Equal(t, "admin-2", rows[1].UserID)

			return nil
		})

		err := svc.Dispatch(context.Background(), model.PaymentUpdated(participants, "client-1", "PENDING", 250))
		assert.NoError(t, err)
	})

	t.Run("no recipients", func(t *testing.T) {
		svc, _, _ := newService(t)

		event := model.StatusChanged(model.Participants{BookingID: "booking-1", ClientID: "client-1"}, "client-1", "A", "B")

		assert.NoError(t, svc.Dispatch(context.Background(), event))
	})

	t.Run("insert failure", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().InsertBulk(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		err := svc.Dispatch(context.Background(), model.NewMessage(participants, "client-1"))
		assert.Error(t, err)
	})
}

func TestNotificationService_GetAll(t *testing.T) {
	svc, repo, _ := newService(t)
	unread := false

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
		_, args := filter.GetWhereClause()
		assert.Equal(t, "user-1", args[model.FieldUserID])
		assert.Equal(t, false, args["filter_is_read"])

		return 1, nil
	})
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Notification{{ID: "n-1", UserID: "user-1"}}, nil)

	res, err := svc.GetAll(userCtx(), gDto.QueryParams{Page: 1, Limit: 10}, &unread)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Notifications, 1)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(4, nil)

	res, err := svc.UnreadCount(userCtx())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("own notification", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, true, fields[model.FieldIsRead])
			assert.Contains(t, fields, model.FieldReadAt)

			return nil
		})

		assert.NoError(t, svc.MarkRead(userCtx(), "n-1"))
	})

	t.Run("someone else's notification", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.MarkRead(userCtx(), "n-2")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
		_, args := filter.GetWhereClause()
		assert.Equal(t, false, args["filter_is_read"])
		assert.Equal(t, true, fields[model.FieldIsRead])

		return nil
	})

	assert.NoError(t, svc.MarkAllRead(userCtx()))
}

func TestNotificationService_Delete(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, svc.Delete(userCtx(), "n-1"))
}
