package service

import (
	"context"
	"fmt"
	"shutter/internal/domains/booking/model"
	"shutter/internal/domains/booking/repository"
	notificationModel "shutter/internal/domains/notification/model"
	"shutter/shared"
	"shutter/shared/constant"
	"shutter/shared/failure"

	"github.com/rs/zerolog/log"
)

// LoadForParticipant returns the booking when the acting user is its client, its assigned
// photographer or an admin.
func LoadForParticipant(ctx context.Context, repo repository.Booking, id string) (model.Booking, error) {
	booking, err := repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	user, role := shared.ActorFromContext(ctx)
	if !booking.CanView(user, role) {
		return booking, failure.Forbidden("you are not a participant of this booking")
	}

	return booking, nil
}

// Participants lists who takes part in the booking for notification fan-out.
func Participants(booking model.Booking) notificationModel.Participants {
	return notificationModel.Participants{
		BookingID:      booking.ID,
		ClientID:       booking.ClientID,
		PhotographerID: booking.PhotographerID,
	}
}
