package service

import (
	"context"
	"fmt"
	"math"
	"shutter/config"
	"shutter/infras/otel"
	"shutter/infras/postgres"
	"shutter/internal/domains/booking/lifecycle"
	bookingModel "shutter/internal/domains/booking/model"
	bookingRepo "shutter/internal/domains/booking/repository"
	bookingService "shutter/internal/domains/booking/service"
	notificationModel "shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/publisher"
	"shutter/internal/domains/payment/model"
	"shutter/internal/domains/payment/model/dto"
	"shutter/internal/domains/payment/repository"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/failure"
	"shutter/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Payment interface {
	Create(ctx context.Context, req dto.CreatePaymentRequest, bookingID string) (dto.PaymentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, bookingID string) (dto.GetPaymentsResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) (dto.PaymentResponse, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	publisher   publisher.Publisher
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Payment, bookingRepo bookingRepo.Booking, transactor postgres.Transactor, publisher publisher.Publisher, cfg *config.Config, otel otel.Otel) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		publisher:   publisher,
		cfg:         cfg,
		otel:        otel,
	}
}

// Create records a pending payment. Without an amount the remaining balance is charged.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePaymentRequest, bookingID string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role, err := shared.UserActorFromContext(ctx)
	if err != nil {
		return res, err
	}

	booking, err := bookingService.LoadForParticipant(ctx, s.bookingRepo, bookingID)
	if err != nil {
		return res, err
	}

	if role != constant.RoleAdmin && booking.ClientID != user {
		return res, failure.Forbidden("only the booking client or an admin can record payments")
	}

	if status := booking.CurrentStatus(); status == lifecycle.StatusCancelled || status == lifecycle.StatusPhotographerRejected {
		return res, failure.BadRequestFromString("booking is closed and accepts no payments")
	}

	var payment model.Payment

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		// Payments for one booking serialize on its row so the balance read below stays current.
		open, err := s.bookingRepo.LockTx(ctx, tx, openBookingFilter(booking.ID))
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if !open {
			return failure.BadRequestFromString("booking is closed and accepts no payments")
		}

		committed, err := s.repo.SumTx(ctx, tx, model.FieldAmount, balanceFilter(booking.ID, model.OutstandingStatuses))
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		remaining := round(booking.TotalPrice - committed)
		if remaining <= 0 {
			return failure.BadRequestFromString("booking is already fully paid")
		}

		amount := remaining
		if req.Amount != nil {
			amount = round(*req.Amount)
		}

		if amount <= 0 || amount > remaining {
			return failure.BadRequestFromString(fmt.Sprintf("amount must be greater than 0 and at most %.2f", remaining))
		}

		payment = req.ToModel(booking.ID, user, amount)

		if err := s.repo.InsertTx(ctx, tx, payment); err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to create payment")

		return res, err
	}

	s.publisher.Publish(ctx, notificationModel.PaymentUpdated(bookingService.Participants(booking), user, payment.Status, payment.Amount))

	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, bookingID string) (res dto.GetPaymentsResponse, err error) {
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
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	if req.SortBy == constant.Empty {
		req.SortBy = model.FieldCreatedAt
		req.SortDir = gDto.SortDirAsc
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	paid, err := s.repo.Sum(ctx, model.FieldAmount, balanceFilter(booking.ID, []string{model.StatusPaid}))
	if err != nil {
		log.Error().Err(err).Msg("failed to sum payments")

		return res, fmt.Errorf("failed to sum payments: %w", err)
	}

	res.FromModels(models, total, req.Limit)
	res.Balance = dto.BalanceResponse{
		TotalPrice: booking.TotalPrice,
		Paid:       round(paid),
		Remaining:  math.Max(round(booking.TotalPrice-paid), 0),
	}

	return res, nil
}

// UpdateStatus settles a payment. The write is conditional on the status that was read.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.ActorFromContext(ctx)
	if role != constant.RoleAdmin {
		return res, failure.Forbidden("only admins can update payment status")
	}

	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found")
	}

	if !payment.CanMoveTo(req.Status) {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid payment transition from %s to %s", payment.Status, req.Status))
	}

	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if req.Status == model.StatusPaid {
		updatedFields[model.FieldPaidAt] = now
		payment.PaidAt = &now
	}

	if req.TransactionRef != nil {
		updatedFields[model.FieldTransactionRef] = *req.TransactionRef
		payment.TransactionRef = req.TransactionRef
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: payment.ID, Table: model.TableName},
			gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: payment.Status, Table: model.TableName},
		},
	}

	affected, err := s.repo.UpdateAffected(ctx, updatedFields, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to update payment status")

		return res, fmt.Errorf("failed to update payment status: %w", err)
	}

	if affected == 0 {
		return res, failure.Conflict("payment was modified concurrently, reload and try again")
	}

	payment.Status = req.Status

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(payment.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil || booking.ID == constant.Empty {
		log.Warn().Err(err).Str("payment_id", payment.ID).Msg("skipping payment notification, booking not loaded")
	} else {
		s.publisher.Publish(ctx, notificationModel.PaymentUpdated(bookingService.Participants(booking), user, payment.Status, payment.Amount))
	}

	res.FromModel(payment)

	return res, nil
}

func balanceFilter(bookingID string, statuses []string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: bookingID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: statuses, Table: model.TableName},
		},
	}
}

// openBookingFilter matches the booking while it still accepts payments.
func openBookingFilter(bookingID string) gDto.FilterGroup {
	open := []string{}

	for _, status := range lifecycle.All() {
		if status != lifecycle.StatusCancelled && status != lifecycle.StatusPhotographerRejected {
			open = append(open, status.String())
		}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldID, Operator: gDto.FilterOperatorEq, Value: bookingID, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldStatus, Operator: gDto.FilterOperatorIn, Value: open, Table: bookingModel.TableName},
		},
	}
}

func round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
