package model

import (
	"fmt"
	"slices"
	"time"

	"shutter/shared/constant"
	"shutter/shared/timezone"

	"github.com/google/uuid"
)

// Event is a notification request before recipients are resolved. It is also the
// payload published on the notification topic.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	BookingID      *string   `json:"booking_id,omitempty"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Recipients     []string  `json:"recipients,omitempty"`
	RecipientRoles []string  `json:"recipient_roles,omitempty"`
	ActorID        string    `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Participants are the users attached to a booking.
type Participants struct {
	BookingID      string
	ClientID       string
	PhotographerID *string
}

func (p Participants) all() []string {
	users := []string{p.ClientID}
	if p.PhotographerID != nil && *p.PhotographerID != constant.Empty {
		users = append(users, *p.PhotographerID)
	}

	return users
}

// UserIDs returns the participants except the given user.
func (p Participants) UserIDs(except string) []string {
	return slices.DeleteFunc(p.all(), func(id string) bool {
		return id == except || id == constant.Empty
	})
}

func newEvent(eventType string, p Participants, actor, title, message string) Event {
	bookingID := p.BookingID

	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  &bookingID,
		Title:      title,
		Message:    message,
		ActorID:    actor,
		OccurredAt: timezone.Now(),
	}
}

func BookingCreated(p Participants, packageName string, shootDate time.Time) Event {
	event := newEvent(TypeBookingCreated, p, p.ClientID, "New booking",
		fmt.Sprintf("A new %s booking was requested for %s.", packageName, shootDate.Format(time.DateOnly)))
	event.RecipientRoles = []string{constant.RoleAdmin}

	return event
}

func PhotographerAssigned(p Participants, actor string) Event {
	event := newEvent(TypePhotographerAssigned, p, actor, "Photographer assigned",
		"A photographer has been assigned to your booking.")
	event.Recipients = p.UserIDs(actor)

	return event
}

func StatusChanged(p Participants, actor, from, to string) Event {
	event := newEvent(TypeStatusChanged, p, actor, "Booking status updated",
		fmt.Sprintf("Booking status changed from %s to %s.", from, to))
	event.Recipients = p.UserIDs(actor)

	return event
}

func NewMessage(p Participants, sender string) Event {
	event := newEvent(TypeNewMessage, p, sender, "New message",
		"You have a new message on your booking.")
	event.Recipients = p.UserIDs(sender)

	return event
}

// PaymentUpdated notifies the client, and admins when the client initiated the payment.
func PaymentUpdated(p Participants, actor, status string, amount float64) Event {
	event := newEvent(TypePaymentUpdated, p, actor, "Payment "+status,
		fmt.Sprintf("A payment of %.2f is %s.", amount, status))

	if actor != p.ClientID {
		event.Recipients = []string{p.ClientID}
	} else {
		event.RecipientRoles = []string{constant.RoleAdmin}
	}

	return event
}

func DeliverableUploaded(p Participants, actor, fileName string) Event {
	event := newEvent(TypeDeliverableUploaded, p, actor, "Photos delivered",
		fmt.Sprintf("%s is ready to download.", fileName))
	event.Recipients = []string{p.ClientID}

	return event
}

func ShootReminder(p Participants, shootDate time.Time, location string) Event {
	event := newEvent(TypeShootReminder, p, constant.ContextSystem, "Upcoming shoot",
		fmt.Sprintf("Reminder: shoot on %s at %s.", shootDate.Format(time.DateTime), location))
	event.Recipients = p.UserIDs(constant.Empty)

	return event
}
