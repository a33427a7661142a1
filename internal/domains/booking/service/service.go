package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"shutter/config"
	"shutter/infras/otel"
	"shutter/infras/postgres"
	"shutter/internal/domains/booking/lifecycle"
	"shutter/internal/domains/booking/model"
	"shutter/internal/domains/booking/model/dto"
	"shutter/internal/domains/booking/repository"
	notificationModel "shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/publisher"
	packageModel "shutter/internal/domains/packages/model"
	packageRepo "shutter/internal/domains/packages/repository"
	userModel "shutter/internal/domains/user/model"
	userRepo "shutter/internal/domains/user/repository"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/failure"
	gRepo "shutter/shared/repository"
	"shutter/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const argCurrentStatus = "current_status"

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetAvailable(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, req dto.AssignPhotographerRequest, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (dto.BookingResponse, error)
	GetHistory(ctx context.Context, id string) ([]dto.HistoryResponse, error)
	SendShootReminders(ctx context.Context, window time.Duration) (int, error)
}

type serviceImpl struct {
	repo        repository.Booking
	addOnRepo   repository.AddOn
	historyRepo repository.History
	packageRepo packageRepo.Package
	userRepo    userRepo.User
	transactor  postgres.Transactor
	publisher   publisher.Publisher
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	addOnRepo repository.AddOn,
	historyRepo repository.History,
	packageRepo packageRepo.Package,
	userRepo userRepo.User,
	transactor postgres.Transactor,
	publisher publisher.Publisher,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		addOnRepo:   addOnRepo,
		historyRepo: historyRepo,
		packageRepo: packageRepo,
		userRepo:    userRepo,
		transactor:  transactor,
		publisher:   publisher,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.ActorFromContext(ctx)
	if role != constant.RoleClient {
		return res, failure.Forbidden("only clients can create bookings")
	}

	pkg, err := s.packageRepo.Get(ctx, shared.FilterByID(req.PackageID, packageModel.FieldID, packageModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get package")

		return res, fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == constant.Empty {
		return res, failure.NotFound("package not found")
	}

	if !pkg.Active {
		return res, failure.BadRequestFromString("package is not available")
	}

	booking, addOns, err := req.ToModel(user, pkg.Price)
	if err != nil {
		return res, failure.BadRequestFromString("invalid shoot date")
	}

	if !booking.ShootDate.After(timezone.Now()) {
		return res, failure.BadRequestFromString("shoot date must be in the future")
	}

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		if len(addOns) > 0 {
			if err := s.addOnRepo.InsertBulkTx(ctx, tx, addOns); err != nil {
				return fmt.Errorf("failed to insert add-ons: %w", err)
			}
		}

		history := dto.NewHistory(booking.ID, constant.Empty, lifecycle.StatusBookingCreated, user, nil)
		if err := s.historyRepo.InsertTx(ctx, tx, history); err != nil {
			return fmt.Errorf("failed to insert booking history: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.PackageName = &pkg.Name

	s.publisher.Publish(ctx, notificationModel.BookingCreated(Participants(booking), pkg.Name, booking.ShootDate))

	res.FromModel(booking)
	res.WithAddOns(addOns)

	return res, nil
}

// GetAll lists bookings visible to the caller: clients see their own, photographers
// their assignments and admins everything.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.ActorFromContext(ctx)

	scoped := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	switch role {
	case constant.RoleAdmin:
	case constant.RoleClient:
		scoped.Filters = append(scoped.Filters, eq(model.FieldClientID, user))
	case constant.RolePhotographer:
		scoped.Filters = append(scoped.Filters, eq(model.FieldPhotographerID, user))
	default:
		return res, failure.Forbidden("unknown role")
	}

	if len(filter.Filters) > 0 {
		scoped.Filters = append(scoped.Filters, filter)
	}

	return s.list(ctx, req, scoped)
}

// GetAvailable lists unassigned bookings photographers may claim.
func (s *serviceImpl) GetAvailable(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.list(ctx, req, availableFilter())
}

func (s *serviceImpl) list(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.ActorFromContext(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !booking.CanView(user, role) && !isClaimable(booking, role) {
		return res, failure.Forbidden("you are not a participant of this booking")
	}

	addOns, err := s.addOnRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByField(model.AddOnFieldBookingID, booking.ID, model.AddOnTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get add-ons")

		return res, fmt.Errorf("failed to get add-ons: %w", err)
	}

	res.FromModel(booking)
	res.WithAddOns(addOns)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user, role := shared.ActorFromContext(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if role != constant.RoleAdmin && booking.ClientID != user {
		return failure.Forbidden("only the booking client or an admin can edit a booking")
	}

	if booking.CurrentStatus() != lifecycle.StatusBookingCreated {
		return failure.BadRequestFromString("booking can only be edited before a photographer is assigned")
	}

	updatedFields := shared.TransformFields(req, user)

	if req.ShootDate != nil {
		shootDate, err := time.Parse(constant.DateFormat, *req.ShootDate)
		if err != nil {
			return failure.BadRequestFromString("invalid shoot date")
		}

		if !shootDate.After(timezone.Now()) {
			return failure.BadRequestFromString("shoot date must be in the future")
		}

		updatedFields[model.FieldShootDate] = shootDate
	}

	affected, err := s.repo.UpdateAffected(ctx, updatedFields, inStatus(id, lifecycle.StatusBookingCreated))
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking was modified concurrently, reload and try again")
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.ActorFromContext(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if role != constant.RoleAdmin && booking.ClientID != user {
		return failure.Forbidden("only the booking client or an admin can delete a booking")
	}

	// Only created bookings are hard-deleted, admins included.
	if booking.CurrentStatus() != lifecycle.StatusBookingCreated {
		return failure.BadRequestFromString("booking can only be deleted before a photographer is assigned, cancel it instead")
	}

	affected, err := s.repo.DeleteAffected(ctx, inStatus(id, lifecycle.StatusBookingCreated))
	if err != nil {
		if gRepo.IsFkViolation(err) {
			return failure.Conflict("booking has recorded payments or deliverables, cancel it instead")
		}

		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking was modified concurrently, reload and try again")
	}

	return nil
}

func (s *serviceImpl) Assign(ctx context.Context, req dto.AssignPhotographerRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.ActorFromContext(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	decision, err := lifecycle.DecideAssignment(booking.CurrentStatus(), role)
	if err != nil {
		return res, lifecycleFailure(err)
	}

	photographer, err := s.userRepo.Get(ctx, shared.FilterByID(req.PhotographerID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get photographer")

		return res, fmt.Errorf("failed to get photographer: %w", err)
	}

	if photographer.ID == constant.Empty {
		return res, failure.NotFound("photographer not found")
	}

	if photographer.Role != constant.RolePhotographer || !photographer.Active {
		return res, failure.BadRequestFromString("user is not an active photographer")
	}

	decision.AssignPhotographer = &photographer.ID

	booking, err = s.applyTransition(ctx, booking, decision, user, req.Note)
	if err != nil {
		return res, err
	}

	s.publisher.Publish(ctx, notificationModel.PhotographerAssigned(Participants(booking), user))

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.ActorFromContext(ctx)

	target, err := lifecycle.Parse(req.Status)
	if err != nil {
		return res, failure.BadRequest(err)
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	decision, err := lifecycle.Decide(lifecycle.Request{
		Current:        booking.CurrentStatus(),
		Target:         target,
		ActorID:        user,
		ActorRole:      role,
		PhotographerID: booking.PhotographerID,
	})
	if err != nil {
		return res, lifecycleFailure(err)
	}

	booking, err = s.applyTransition(ctx, booking, decision, user, req.Note)
	if err != nil {
		return res, err
	}

	if decision.AssignPhotographer != nil {
		s.publisher.Publish(ctx, notificationModel.PhotographerAssigned(Participants(booking), user))
	} else {
		s.publisher.Publish(ctx, notificationModel.StatusChanged(Participants(booking), user, decision.From.String(), decision.To.String()))
	}

	scope.AddEvent(fmt.Sprintf("booking %s moved from %s to %s", booking.ID, decision.From, decision.To))

	res.FromModel(booking)

	return res, nil
}

// applyTransition writes the new status, conditional on the status that was read, and its
// audit row in one transaction. A concurrent change makes the write match no rows.
func (s *serviceImpl) applyTransition(ctx context.Context, booking model.Booking, decision lifecycle.Decision, actor string, note *string) (model.Booking, error) {
	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:        decision.To.String(),
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actor,
	}

	if decision.AssignPhotographer != nil {
		updatedFields[model.FieldPhotographerID] = *decision.AssignPhotographer
	}

	filter := inStatus(booking.ID, decision.From)

	err := s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.repo.UpdateAffectedTx(ctx, tx, updatedFields, filter)
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		if affected == 0 {
			return failure.Conflict("booking was modified concurrently, reload and try again")
		}

		history := dto.NewHistory(booking.ID, decision.From, decision.To, actor, note)
		if err := s.historyRepo.InsertTx(ctx, tx, history); err != nil {
			return fmt.Errorf("failed to insert booking history: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to apply status transition")

		return booking, err
	}

	booking.Status = decision.To.String()
	booking.ModifiedAt = now
	booking.ModifiedBy = actor

	if decision.AssignPhotographer != nil {
		booking.PhotographerID = decision.AssignPhotographer
	}

	return booking, nil
}

func (s *serviceImpl) GetHistory(ctx context.Context, id string) (res []dto.HistoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetHistory")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := LoadForParticipant(ctx, s.repo, id)
	if err != nil {
		return res, err
	}

	params := gDto.QueryParams{SortBy: model.HistoryFieldCreatedAt, SortDir: gDto.SortDirAsc}

	histories, err := s.historyRepo.GetAll(ctx, params, shared.FilterByField(model.HistoryFieldBookingID, booking.ID, model.HistoryTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking history")

		return res, fmt.Errorf("failed to get booking history: %w", err)
	}

	res = make([]dto.HistoryResponse, len(histories))
	for i, history := range histories {
		res[i].FromModel(history)
	}

	return res, nil
}

// SendShootReminders notifies participants of assigned bookings whose shoot starts within
// window and marks them reminded. It returns how many bookings were reminded.
func (s *serviceImpl) SendShootReminders(ctx context.Context, window time.Duration) (sent int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SendShootReminders")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	bookings, err := s.repo.GetAll(ctx, gDto.QueryParams{}, reminderFilter(now, now.Add(window)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings to remind")

		return 0, fmt.Errorf("failed to get bookings to remind: %w", err)
	}

	for _, booking := range bookings {
		filter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				eq(model.FieldID, booking.ID),
				gDto.Filter{Field: model.FieldRemindedAt, Operator: gDto.FilterIsNull, Table: model.TableName},
			},
		}

		updatedFields := map[string]any{
			model.FieldRemindedAt:    now,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: constant.ContextSystem,
		}

		affected, err := s.repo.UpdateAffected(ctx, updatedFields, filter)
		if err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to mark booking as reminded")

			continue
		}

		// Another worker already claimed this booking.
		if affected == 0 {
			continue
		}

		s.publisher.Publish(ctx, notificationModel.ShootReminder(Participants(booking), booking.ShootDate, booking.Location))

		sent++
	}

	scope.AddEvent(fmt.Sprintf("%d shoot reminders sent", sent))

	return sent, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

func lifecycleFailure(err error) error {
	if lifecycle.IsForbidden(err) {
		return failure.Forbidden(err.Error())
	}

	return failure.BadRequest(err)
}

func isClaimable(booking model.Booking, role string) bool {
	return role == constant.RolePhotographer &&
		booking.CurrentStatus() == lifecycle.StatusBookingCreated &&
		(booking.PhotographerID == nil || *booking.PhotographerID == constant.Empty)
}

func eq(field string, value any) gDto.Filter {
	return gDto.Filter{Field: field, Operator: gDto.FilterOperatorEq, Value: value, Table: model.TableName}
}

// inStatus matches the booking only while it still has the status that was read.
func inStatus(id string, status lifecycle.Status) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			eq(model.FieldID, id),
			gDto.Filter{
				ArgName:  argCurrentStatus,
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    status.String(),
				Table:    model.TableName,
			},
		},
	}
}

func availableFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			eq(model.FieldStatus, lifecycle.StatusBookingCreated.String()),
			gDto.Filter{Field: model.FieldPhotographerID, Operator: gDto.FilterIsNull, Table: model.TableName},
		},
	}
}

func reminderFilter(from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    []string{lifecycle.StatusPhotographerAssigned.String(), lifecycle.StatusPhotographerAccepted.String()},
				Table:    model.TableName,
			},
			gDto.Filter{ArgName: "shoot_from", Field: model.FieldShootDate, Operator: gDto.FilterOperatorGreaterEq, Value: from, Table: model.TableName},
			gDto.Filter{ArgName: "shoot_to", Field: model.FieldShootDate, Operator: gDto.FilterOperatorLessEq, Value: to, Table: model.TableName},
			gDto.Filter{Field: model.FieldRemindedAt, Operator: gDto.FilterIsNull, Table: model.TableName},
		},
	}
}
