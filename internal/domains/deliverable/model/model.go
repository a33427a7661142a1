package model

import "shutter/shared/model"

const (
	TableName  = "deliverables"
	EntityName = "deliverable"

	FieldID         = "id"
	FieldBookingID  = "booking_id"
	FieldUploadedBy = "uploaded_by"
	FieldCreatedAt  = "created_at"

	// Directory is the object key prefix; files live under Directory/{bookingID}/.
	Directory = "deliverables"
)

type Deliverable struct {
	ID          string `db:"id"`
	BookingID   string `db:"booking_id"`
	UploadedBy  string `db:"uploaded_by"`
	ObjectKey   string `db:"object_key"`
	FileName    string `db:"file_name"`
	ContentType string `db:"content_type"`
	Size        int64  `db:"size"`
	model.Metadata
}
