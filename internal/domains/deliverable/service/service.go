package service

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"shutter/config"
	"shutter/infras/otel"
	"shutter/infras/s3"
	"shutter/internal/domains/booking/lifecycle"
	bookingRepo "shutter/internal/domains/booking/repository"
	bookingService "shutter/internal/domains/booking/service"
	"shutter/internal/domains/deliverable/model"
	"shutter/internal/domains/deliverable/model/dto"
	"shutter/internal/domains/deliverable/repository"
	notificationModel "shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/publisher"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/failure"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const bytesPerMB = 1 << 20

type Deliverable interface {
	Upload(ctx context.Context, req dto.UploadDeliverableRequest, bookingID string) (dto.DeliverableResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, bookingID string) (dto.GetDeliverablesResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Deliverable
	bookingRepo bookingRepo.Booking
	publisher   publisher.Publisher
	s3          s3.S3
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Deliverable, bookingRepo bookingRepo.Booking, publisher publisher.Publisher, s3 s3.S3, cfg *config.Config, otel otel.Otel) Deliverable {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		s3:          s3,
		cfg:         cfg,
		otel:        otel,
	}
}

// Upload stores an edited photo for the booking. Only the assigned photographer may
// deliver, and only once the booking reached editing.
func (s *serviceImpl) Upload(ctx context.Context, req dto.UploadDeliverableRequest, bookingID string) (res dto.DeliverableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Upload")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := bookingService.LoadForParticipant(ctx, s.bookingRepo, bookingID)
	if err != nil {
		return res, err
	}

	user, _ := shared.ActorFromContext(ctx)
	if !booking.HasPhotographer(user) {
		return res, failure.Forbidden("only the assigned photographer can upload deliverables")
	}

	if status := booking.CurrentStatus(); status != lifecycle.StatusEditing && status != lifecycle.StatusCompleted {
		return res, failure.BadRequestFromString("deliverables can only be uploaded while editing or after completion")
	}

	if maxSize := s.cfg.App.Upload.MaxSizeMB; maxSize > 0 && float64(req.File.Size) > maxSize*bytesPerMB {
		return res, failure.BadRequestFromString(fmt.Sprintf("file exceeds the %.0f MB limit", maxSize))
	}

	id := uuid.NewString()
	fileName := id + strings.ToLower(filepath.Ext(req.File.Filename))

	object, err := s.s3.UploadFile(ctx, path.Join(model.Directory, booking.ID), req.FileReader, req.File, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload deliverable")

		return res, fmt.Errorf("failed to upload deliverable: %w", err)
	}

	deliverable := req.ToModel(id, booking.ID, user, object.Key)

	if err = s.repo.Insert(ctx, deliverable); err != nil {
		log.Error().Err(err).Msg("failed to save deliverable")

		s.removeObject(ctx, object.Key)

		return res, fmt.Errorf("failed to save deliverable: %w", err)
	}

	s.publisher.Publish(ctx, notificationModel.DeliverableUploaded(bookingService.Participants(booking), user, deliverable.FileName))

	res.FromModel(deliverable, s.s3.PublicURL)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, bookingID string) (res dto.GetDeliverablesResponse, err error) {
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
		log.Error().Err(err).Msg("failed to count deliverables")

		return res, fmt.Errorf("failed to count deliverables: %w", err)
	}

	if req.SortBy == constant.Empty {
		req.SortBy = model.FieldCreatedAt
		req.SortDir = gDto.SortDirAsc
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get deliverables")

		return res, fmt.Errorf("failed to get deliverables: %w", err)
	}

	res.FromModels(models, total, req.Limit, s.s3.PublicURL)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	deliverable, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get deliverable")

		return fmt.Errorf("failed to get deliverable: %w", err)
	}

	if deliverable.ID == constant.Empty {
		return failure.NotFound("deliverable not found")
	}

	user, role := shared.ActorFromContext(ctx)
	if role != constant.RoleAdmin && deliverable.UploadedBy != user {
		return failure.Forbidden("only the uploader or an admin can delete a deliverable")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete deliverable")

		return fmt.Errorf("failed to delete deliverable: %w", err)
	}

	s.removeObject(ctx, deliverable.ObjectKey)

	return nil
}

// removeObject deletes the stored file; the row is the source of truth so failures are only logged.
func (s *serviceImpl) removeObject(ctx context.Context, objectKey string) {
	if err := s.s3.DeleteFile(context.WithoutCancel(ctx), objectKey); err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to remove deliverable object")
	}
}
