package dto

import (
	"mime/multipart"

	"shutter/internal/domains/packages/model"
	"shutter/shared"
	gDto "shutter/shared/dto"
	gModel "shutter/shared/model"
	"shutter/shared/timezone"

	"github.com/google/uuid"
)

type CreatePackageRequest struct {
	Name            string                `json:"name"             validate:"required,max=100"`
	Description     *string               `json:"description"      validate:"omitempty,max=1000"`
	Price           float64               `json:"price"            validate:"gte=0"`
	DurationMinutes int                   `json:"duration_minutes" validate:"required,gt=0"`
	PhotoCount      int                   `json:"photo_count"      validate:"gte=0"`
	Active          *bool                 `json:"active"           validate:"omitempty"`
	Cover           *multipart.FileHeader `json:"cover"            validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	CoverFile       multipart.File        `json:"-"`
}

func (c *CreatePackageRequest) ToModel(user string, coverKey *string) model.Package {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Package{
		ID:              uuid.NewString(),
		Name:            c.Name,
		Description:     c.Description,
		Price:           c.Price,
		DurationMinutes: c.DurationMinutes,
		PhotoCount:      c.PhotoCount,
		CoverImage:      coverKey,
		Active:          active,
		Metadata:        gModel.NewMetadata(user, timezone.Now()),
	}
}

type UpdatePackageRequest struct {
	Name            *string               `db:"name"             json:"name"             validate:"omitempty,max=100"`
	Description     *string               `db:"description"      json:"description"      validate:"omitempty,max=1000"`
	Price           *float64              `db:"price"            json:"price"            validate:"omitempty,gte=0"`
	DurationMinutes *int                  `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,gt=0"`
	PhotoCount      *int                  `db:"photo_count"      json:"photo_count"      validate:"omitempty,gte=0"`
	Active          *bool                 `db:"active"           json:"active"           validate:"omitempty"`
	Cover           *multipart.FileHeader `json:"cover"          validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	CoverFile       multipart.File        `json:"-"`
}

// Empty reports whether the request changes nothing.
func (u *UpdatePackageRequest) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.DurationMinutes == nil &&
		u.PhotoCount == nil && u.Active == nil && u.Cover == nil
}

type PackageResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	PhotoCount      int     `json:"photo_count"`
	CoverImage      *string `json:"cover_image,omitempty"`
	Active          bool    `json:"active"`
	gDto.Metadata
}

// FromModel maps a package; publicURL resolves the stored cover object key.
func (r *PackageResponse) FromModel(model model.Package, publicURL func(string) string) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Price = model.Price
	r.DurationMinutes = model.DurationMinutes
	r.PhotoCount = model.PhotoCount
	r.Active = model.Active

	if model.CoverImage != nil && *model.CoverImage != "" {
		url := publicURL(*model.CoverImage)
		r.CoverImage = &url
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetPackagesResponse struct {
	Packages  []PackageResponse `json:"packages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPackagesResponse) FromModels(models []model.Package, totalData, limit int, publicURL func(string) string) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Packages = make([]PackageResponse, len(models))
	for i, mod := range models {
		r.Packages[i].FromModel(mod, publicURL)
	}
}
