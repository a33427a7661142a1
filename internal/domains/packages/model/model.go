package model

import "shutter/shared/model"

const (
	TableName  = "packages"
	EntityName = "package"

	FieldID              = "id"
	FieldName            = "name"
	FieldDescription     = "description"
	FieldPrice           = "price"
	FieldDurationMinutes = "duration_minutes"
	FieldPhotoCount      = "photo_count"
	FieldCoverImage      = "cover_image"
	FieldActive          = "active"
)

type Package struct {
	ID              string  `db:"id"`
	Name            string  `db:"name"`
	Description     *string `db:"description"`
	Price           float64 `db:"price"`
	DurationMinutes int     `db:"duration_minutes"`
	PhotoCount      int     `db:"photo_count"`
	CoverImage      *string `db:"cover_image"`
	Active          bool    `db:"active"`
	model.Metadata
}
