package dto

import (
	"shutter/internal/domains/booking/lifecycle"
	"shutter/internal/domains/booking/model"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	gModel "shutter/shared/model"
	"shutter/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type AddOnRequest struct {
	Name     string  `json:"name"     validate:"required,max=100"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"omitempty,gt=0"`
}

type CreateBookingRequest struct {
	PackageID string         `json:"package_id" validate:"required,uuid"`
	ShootDate string         `json:"shoot_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Location  string         `json:"location"   validate:"required,max=255"`
	Notes     *string        `json:"notes"      validate:"omitempty,max=2000"`
	AddOns    []AddOnRequest `json:"add_ons"    validate:"omitempty,dive"`
}

// ToModel builds the booking and its add-ons. The total is the package price plus every
// add-on subtotal; a missing quantity counts as one.
func (c *CreateBookingRequest) ToModel(user string, packagePrice float64) (model.Booking, []model.AddOn, error) {
	shootDate, err := time.Parse(constant.DateFormat, c.ShootDate)
	if err != nil {
		return model.Booking{}, nil, err
	}

	now := timezone.Now()
	metadata := gModel.NewMetadata(user, now)

	booking := model.Booking{
		ID:         uuid.NewString(),
		ClientID:   user,
		PackageID:  c.PackageID,
		Status:     string(lifecycle.StatusBookingCreated),
		ShootDate:  shootDate,
		Location:   c.Location,
		Notes:      c.Notes,
		TotalPrice: packagePrice,
		Metadata:   metadata,
	}

	addOns := make([]model.AddOn, len(c.AddOns))
	for i, req := range c.AddOns {
		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}

		addOns[i] = model.AddOn{
			ID:        uuid.NewString(),
			BookingID: booking.ID,
			Name:      req.Name,
			Price:     req.Price,
			Quantity:  quantity,
			Metadata:  metadata,
		}

		booking.TotalPrice += addOns[i].Subtotal()
	}

	return booking, addOns, nil
}

type UpdateBookingRequest struct {
	ShootDate *string `json:"shoot_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Location  *string `db:"location" json:"location" validate:"omitempty,max=255"`
	Notes     *string `db:"notes" json:"notes" validate:"omitempty,max=2000"`
}

type AssignPhotographerRequest struct {
	PhotographerID string  `json:"photographer_id" validate:"required,uuid"`
	Note           *string `json:"note"            validate:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=BOOKING_CREATED PHOTOGRAPHER_ASSIGNED PHOTOGRAPHER_ACCEPTED SHOOTING EDITING COMPLETED PHOTOGRAPHER_REJECTED CANCELLED"`
	Note   *string `json:"note"   validate:"omitempty,max=500"`
}

type AddOnResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (r *AddOnResponse) FromModel(model model.AddOn) {
	r.ID = model.ID
	r.Name = model.Name
	r.Price = model.Price
	r.Quantity = model.Quantity
}

type BookingResponse struct {
	ID             string          `json:"id"`
	ClientID       string          `json:"client_id"`
	PhotographerID *string         `json:"photographer_id,omitempty"`
	PackageID      string          `json:"package_id"`
	PackageName    *string         `json:"package_name,omitempty"`
	Status         string          `json:"status"`
	AllowedNext    []string        `json:"allowed_next"`
	ShootDate      string          `json:"shoot_date"`
	Location       string          `json:"location"`
	Notes          *string         `json:"notes,omitempty"`
	TotalPrice     float64         `json:"total_price"`
	AddOns         []AddOnResponse `json:"add_ons,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.ClientID = model.ClientID
	r.PhotographerID = model.PhotographerID
	r.PackageID = model.PackageID
	r.PackageName = model.PackageName
	r.Status = model.Status
	r.ShootDate = timezone.Format(model.ShootDate, constant.DateFormat)
	r.Location = model.Location
	r.Notes = model.Notes
	r.TotalPrice = model.TotalPrice

	r.AllowedNext = []string{}
	for _, status := range lifecycle.AllowedNext(model.CurrentStatus()) {
		r.AllowedNext = append(r.AllowedNext, status.String())
	}

	r.Metadata.FromModel(model.Metadata)
}

func (r *BookingResponse) WithAddOns(addOns []model.AddOn) {
	r.AddOns = make([]AddOnResponse, len(addOns))
	for i, addOn := range addOns {
		r.AddOns[i].FromModel(addOn)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type HistoryResponse struct {
	ID         string  `json:"id"`
	FromStatus *string `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	ChangedBy  string  `json:"changed_by"`
	Note       *string `json:"note,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func (r *HistoryResponse) FromModel(model model.StatusHistory) {
	r.ID = model.ID
	r.FromStatus = model.FromStatus
	r.ToStatus = model.ToStatus
	r.ChangedBy = model.ChangedBy
	r.Note = model.Note
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

// NewHistory builds the audit row for a transition; from is empty for the creation row.
func NewHistory(bookingID string, from, to lifecycle.Status, actor string, note *string) model.StatusHistory {
	history := model.StatusHistory{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		ToStatus:  to.String(),
		ChangedBy: actor,
		Note:      note,
		CreatedAt: timezone.Now(),
	}

	if from != constant.Empty {
		fromStatus := from.String()
		history.FromStatus = &fromStatus
	}

	return history
}
