package model

import (
	"shutter/internal/domains/booking/lifecycle"
	packageModel "shutter/internal/domains/packages/model"
	"shutter/shared/constant"
	"shutter/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldClientID       = "client_id"
	FieldPhotographerID = "photographer_id"
	FieldPackageID      = "package_id"
	FieldStatus         = "status"
	FieldShootDate      = "shoot_date"
	FieldLocation       = "location"
	FieldNotes          = "notes"
	FieldTotalPrice     = "total_price"
	FieldRemindedAt     = "reminded_at"
)

type Booking struct {
	ID             string     `db:"id"`
	ClientID       string     `db:"client_id"`
	PhotographerID *string    `db:"photographer_id"`
	PackageID      string     `db:"package_id"`
	Status         string     `db:"status"`
	ShootDate      time.Time  `db:"shoot_date"`
	Location       string     `db:"location"`
	Notes          *string    `db:"notes"`
	TotalPrice     float64    `db:"total_price"`
	RemindedAt     *time.Time `db:"reminded_at"`
	PackageName    *string    `db:"package_name" table:"packages" column:"name"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN " + packageModel.TableName + " ON " + packageModel.TableName + ".id = " + TableName + ".package_id"
}

func (b Booking) CurrentStatus() lifecycle.Status {
	return lifecycle.Status(b.Status)
}

func (b Booking) HasPhotographer(userID string) bool {
	return b.PhotographerID != nil && *b.PhotographerID != constant.Empty && *b.PhotographerID == userID
}

// CanView reports whether the user is a participant or an admin.
func (b Booking) CanView(userID, role string) bool {
	switch role {
	case constant.RoleAdmin:
		return true
	case constant.RoleClient:
		return b.ClientID == userID
	case constant.RolePhotographer:
		return b.HasPhotographer(userID)
	default:
		return false
	}
}

const (
	AddOnTableName  = "add_ons"
	AddOnEntityName = "add_on"

	AddOnFieldID        = "id"
	AddOnFieldBookingID = "booking_id"
)

type AddOn struct {
	ID        string  `db:"id"`
	BookingID string  `db:"booking_id"`
	Name      string  `db:"name"`
	Price     float64 `db:"price"`
	Quantity  int     `db:"quantity"`
	model.Metadata
}

func (a AddOn) Subtotal() float64 {
	return a.Price * float64(a.Quantity)
}

const (
	HistoryTableName  = "booking_status_histories"
	HistoryEntityName = "booking_status_history"

	HistoryFieldID        = "id"
	HistoryFieldBookingID = "booking_id"
	HistoryFieldCreatedAt = "created_at"
)

// StatusHistory is one audited transition. FromStatus is nil for the creation row.
type StatusHistory struct {
	ID         string    `db:"id"`
	BookingID  string    `db:"booking_id"`
	FromStatus *string   `db:"from_status"`
	ToStatus   string    `db:"to_status"`
	ChangedBy  string    `db:"changed_by"`
	Note       *string   `db:"note"`
	CreatedAt  time.Time `db:"created_at"`
}
