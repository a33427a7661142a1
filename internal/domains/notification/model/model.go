package model

import (
	"shutter/shared/model"
	"time"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldBookingID = "booking_id"
	FieldType      = "type"
	FieldIsRead    = "is_read"
	FieldReadAt    = "read_at"
)

const (
	TypeBookingCreated       = "BOOKING_CREATED"
	TypePhotographerAssigned = "PHOTOGRAPHER_ASSIGNED"
	TypeStatusChanged        = "STATUS_CHANGED"
	TypeNewMessage           = "NEW_MESSAGE"
	TypePaymentUpdated       = "PAYMENT_UPDATED"
	TypeDeliverableUploaded  = "DELIVERABLE_UPLOADED"
	TypeShootReminder        = "SHOOT_REMINDER"
)

type Notification struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	BookingID *string    `db:"booking_id"`
	Type      string     `db:"type"`
	Title     string     `db:"title"`
	Message   string     `db:"message"`
	IsRead    bool       `db:"is_read"`
	ReadAt    *time.Time `db:"read_at"`
	model.Metadata
}
