package model

import (
	userModel "shutter/internal/domains/user/model"
	"shutter/shared/model"
)

const (
	TableName  = "messages"
	EntityName = "message"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldSenderID  = "sender_id"
	FieldIsRead    = "is_read"
	FieldCreatedAt = "created_at"
)

type Message struct {
	ID         string  `db:"id"`
	BookingID  string  `db:"booking_id"`
	SenderID   string  `db:"sender_id"`
	Content    string  `db:"content"`
	IsRead     bool    `db:"is_read"`
	SenderName *string `db:"sender_name" table:"users" column:"full_name"`
	SenderRole *string `db:"sender_role" table:"users" column:"role"`
	model.Metadata
}

func (Message) GetJoinQuery() string {
	return "LEFT JOIN " + userModel.TableName + " ON " + userModel.TableName + ".id = " + TableName + ".sender_id"
}
