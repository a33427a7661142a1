package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shutter/config"
	otelMocks "shutter/infras/otel/mocks"
	"shutter/infras/s3"
	s3Mocks "shutter/infras/s3/mocks"
	bookingMocks "shutter/internal/domains/booking/mocks"
	bookingModel "shutter/internal/domains/booking/model"
	deliverableMocks "shutter/internal/domains/deliverable/mocks"
	"shutter/internal/domains/deliverable/model"
	"shutter/internal/domains/deliverable/model/dto"
	"shutter/internal/domains/deliverable/service"
	notificationMocks "shutter/internal/domains/notification/mocks"
	notificationModel "shutter/internal/domains/notification/model"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/failure"
)

type fixture struct {
	svc      service.Deliverable
	repo     *deliverableMocks.MockDeliverable
	bookings *bookingMocks.MockBooking
	pub      *notificationMocks.MockPublisher
	s3       *s3Mocks.MockS3
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     deliverableMocks.NewMockDeliverable(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		pub:      notificationMocks.NewMockPublisher(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
	}

	f.s3.EXPECT().PublicURL(gomock.Any()).DoAndReturn(func(key string) string {
		return "https://cdn.example.com/" + key
	}).AnyTimes()

	cfg := &config.Config{}
	cfg.App.Upload.MaxSizeMB = 5

	f.svc = service.New(f.repo, f.bookings, f.pub, f.s3, cfg, otelMocks.NewOtel())

	return f
}

func photographerCtx() context.Context {
	return shared.WithActor(context.Background(), "photographer-1", constant.RolePhotographer)
}

func booking(status string) bookingModel.Booking {
	photographer := "photographer-1"

	return bookingModel.Booking{ID: "booking-1", ClientID: "client-1", PhotographerID: &photographer, Status: status}
}

func upload(size int64) dto.UploadDeliverableRequest {
	header := &multipart.FileHeader{
		Filename: "Final-01.JPG",
		Size:     size,
		Header:   textproto.MIMEHeader{constant.RequestHeaderContentType: []string{"image/jpeg"}},
	}

	return dto.UploadDeliverableRequest{File: header}
}

func TestDeliverableService_Upload(t *testing.T) {
	t.Run("stores under booking directory and notifies client", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking("EDITING"), nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), "deliverables/booking-1", gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, dir string, _ multipart.File, _ *multipart.FileHeader, name string) (s3.Object, error) {
				assert.True(t, strings.HasSuffix(name, ".jpg"))

				return s3.Object{Key: dir + "/" + name}, nil
			})
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d model.Deliverable) error {
			assert.Equal(t, "photographer-1", d.UploadedBy)
			assert.Equal(t, "Final-01.JPG", d.FileName)
			assert.Equal(t, "image/jpeg", d.ContentType)
			assert.True(t, strings.HasPrefix(d.ObjectKey, "deliverables/booking-1/"+d.ID))

			return nil
		})
		f.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, event notificationModel.Event) {
			assert.Equal(t, notificationModel.TypeDeliverableUploaded, event.Type)
			assert.Equal(t, []string{"client-1"}, event.Recipients)
		})

		res, err := f.svc.Upload(photographerCtx(), upload(1024), "booking-1")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.URL, "https://cdn.example.com/deliverables/booking-1/"))
	})

	t.Run("booking still shooting", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking("SHOOTING"), nil)

		_, err := f.svc.Upload(photographerCtx(), upload(1024), "booking-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("file too large", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking("COMPLETED"), nil)

		_, err := f.svc.Upload(photographerCtx(), upload(6<<20), "booking-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("admin is not the photographer", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking("EDITING"), nil)

		ctx := shared.WithActor(context.Background(), "admin-1", constant.RoleAdmin)

		_, err := f.svc.Upload(ctx, upload(1024), "booking-1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("insert failure removes object", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking("EDITING"), nil)
		f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(s3.Object{Key: "deliverables/booking-1/x.jpg"}, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
		f.s3.EXPECT().DeleteFile(gomock.Any(), "deliverables/booking-1/x.jpg").Return(nil)

		_, err := f.svc.Upload(photographerCtx(), upload(1024), "booking-1")
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestDeliverableService_GetAll(t *testing.T) {
	f := newFixture(t)
	ctx := shared.WithActor(context.Background(), "client-1", constant.RoleClient)

	f.bookings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking("COMPLETED"), nil)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Deliverable{{ID: "d-1", ObjectKey: "deliverables/booking-1/d-1.png"}}, nil)

	res, err := f.svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, "booking-1")
	require.NoError(t, err)
	require.Len(t, res.Deliverables, 1)
	assert.Equal(t, "https://cdn.example.com/deliverables/booking-1/d-1.png", res.Deliverables[0].URL)
}

func TestDeliverableService_Delete(t *testing.T) {
	stored := model.Deliverable{ID: "d-1", UploadedBy: "photographer-1", ObjectKey: "deliverables/booking-1/d-1.png"}

	t.Run("uploader deletes row and object", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().DeleteFile(gomock.Any(), stored.ObjectKey).Return(nil)

		assert.NoError(t, f.svc.Delete(photographerCtx(), "d-1"))
	})

	t.Run("object removal failure is not fatal", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().DeleteFile(gomock.Any(), gomock.Any()).Return(errors.New("s3 down"))

		ctx := shared.WithActor(context.Background(), "admin-1", constant.RoleAdmin)

		assert.NoError(t, f.svc.Delete(ctx, "d-1"))
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		ctx := shared.WithActor(context.Background(), "client-1", constant.RoleClient)

		err := f.svc.Delete(ctx, "d-1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Deliverable{}, nil)

		err := f.svc.Delete(photographerCtx(), "d-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
