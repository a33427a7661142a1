package dto

import (
	"shutter/internal/domains/notification/model"
	"shutter/shared"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/timezone"
	"time"
)

type NotificationResponse struct {
	ID        string  `json:"id"`
	BookingID *string `json:"booking_id,omitempty"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	IsRead    bool    `json:"is_read"`
	ReadAt    *string `json:"read_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Type = model.Type
	r.Title = model.Title
	r.Message = model.Message
	r.IsRead = model.IsRead
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)

	if model.ReadAt != nil {
		readAt := timezone.Format(*model.ReadAt, constant.DateFormat)
		r.ReadAt = &readAt
	}
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkReadRequest struct {
	IsRead bool      `db:"is_read"`
	ReadAt time.Time `db:"read_at"`
}

// OwnerFilter matches the user's rows, optionally narrowed by read state. The read-state
// argument is renamed so the filter can be combined with an is_read update.
func OwnerFilter(userID string, isRead *bool) gDto.FilterGroup {
	filter := shared.FilterByField(model.FieldUserID, userID, model.TableName)

	if isRead != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "filter_" + model.FieldIsRead,
			Field:    model.FieldIsRead,
			Operator: gDto.FilterOperatorEq,
			Value:    *isRead,
			Table:    model.TableName,
		})
	}

	return filter
}
