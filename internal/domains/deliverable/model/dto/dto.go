package dto

import (
	"mime/multipart"
	"shutter/internal/domains/deliverable/model"
	"shutter/shared"
	"shutter/shared/constant"
	gModel "shutter/shared/model"
	"shutter/shared/timezone"
)

type UploadDeliverableRequest struct {
	File       *multipart.FileHeader `json:"file" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg"`
	FileReader multipart.File        `json:"-"`
}

// ToModel builds the row for an uploaded object; the row and the object share id.
func (r *UploadDeliverableRequest) ToModel(id, bookingID, user, objectKey string) model.Deliverable {
	return model.Deliverable{
		ID:          id,
		BookingID:   bookingID,
		UploadedBy:  user,
		ObjectKey:   objectKey,
		FileName:    r.File.Filename,
		ContentType: r.File.Header.Get(constant.RequestHeaderContentType),
		Size:        r.File.Size,
		Metadata:    gModel.NewMetadata(user, timezone.Now()),
	}
}

type DeliverableResponse struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	UploadedBy  string `json:"uploaded_by"`
	URL         string `json:"url"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	CreatedAt   string `json:"created_at"`
}

func (r *DeliverableResponse) FromModel(model model.Deliverable, publicURL func(string) string) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.UploadedBy = model.UploadedBy
	r.URL = publicURL(model.ObjectKey)
	r.FileName = model.FileName
	r.ContentType = model.ContentType
	r.Size = model.Size
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetDeliverablesResponse struct {
	Deliverables []DeliverableResponse `json:"deliverables"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetDeliverablesResponse) FromModels(models []model.Deliverable, totalData, limit int, publicURL func(string) string) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Deliverables = make([]DeliverableResponse, len(models))
	for i, m := range models {
		r.Deliverables[i].FromModel(m, publicURL)
	}
}
