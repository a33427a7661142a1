package dto

import (
	"shutter/internal/domains/message/model"
	"shutter/shared"
	"shutter/shared/constant"
	gModel "shutter/shared/model"
	"shutter/shared/timezone"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

func (r *SendMessageRequest) ToModel(bookingID, sender string) model.Message {
	return model.Message{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		SenderID:  sender,
		Content:   r.Content,
		Metadata:  gModel.NewMetadata(sender, timezone.Now()),
	}
}

type MessageResponse struct {
	ID         string  `json:"id"`
	BookingID  string  `json:"booking_id"`
	SenderID   string  `json:"sender_id"`
	SenderName *string `json:"sender_name,omitempty"`
	SenderRole *string `json:"sender_role,omitempty"`
	Content    string  `json:"content"`
	IsRead     bool    `json:"is_read"`
	CreatedAt  string  `json:"created_at"`
}

func (r *MessageResponse) FromModel(model model.Message) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.SenderID = model.SenderID
	r.SenderName = model.SenderName
	r.SenderRole = model.SenderRole
	r.Content = model.Content
	r.IsRead = model.IsRead
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetMessagesResponse struct {
	Messages  []MessageResponse `json:"messages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetMessagesResponse) FromModels(models []model.Message, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Messages = make([]MessageResponse, len(models))
	for i, mod := range models {
		r.Messages[i].FromModel(mod)
	}
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
