package dto_test

import (
	"testing"
	"time"

	"shutter/internal/domains/booking/lifecycle"
	"shutter/internal/domains/booking/model"
	"shutter/internal/domains/booking/model/dto"
	gModel "shutter/shared/model"
	"shutter/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		PackageID: "package-1",
		ShootDate: "2026-12-01T09:00:00Z",
		Location:  "Central Park",
		AddOns: []dto.AddOnRequest{
			{Name: "Extra hour", Price: 50, Quantity: 2},
			{Name: "Prints", Price: 25},
		},
	}

	booking, addOns, err := req.ToModel("client-1", 300)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID, "expected ID to be generated")
	assert.Equal(t, "client-1", booking.ClientID)
	assert.Equal(t, lifecycle.StatusBookingCreated.String(), booking.Status)
	assert.Nil(t, booking.PhotographerID)
	assert.True(t, booking.ShootDate.Equal(time.Date(2026, 12, 1, 9, 0, 0, 0, time.UTC)))
	assert.InDelta(t, 425.0, booking.TotalPrice, 0.001)
	assert.Equal(t, "client-1", booking.CreatedBy)

	require.Len(t, addOns, 2)
	assert.Equal(t, booking.ID, addOns[0].BookingID)
	assert.Equal(t, 2, addOns[0].Quantity)
	assert.Equal(t, 1, addOns[1].Quantity, "missing quantity counts as one")
}

func TestCreateBookingRequest_ToModel_InvalidDate(t *testing.T) {
	req := dto.CreateBookingRequest{PackageID: "package-1", ShootDate: "tomorrow", Location: "Studio"}

	_, _, err := req.ToModel("client-1", 100)
	assert.Error(t, err)
}

func TestBookingResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	photographer := "photographer-1"

	booking := model.Booking{
		ID:             "booking-1",
		ClientID:       "client-1",
		PhotographerID: &photographer,
		PackageID:      "package-1",
		Status:         lifecycle.StatusPhotographerAssigned.String(),
		ShootDate:      now,
		Location:       "Studio",
		TotalPrice:     300,
		Metadata:       gModel.NewMetadata("client-1", now),
	}

	var response dto.BookingResponse
	response.FromModel(booking)
	response.WithAddOns([]model.AddOn{{ID: "addon-1", Name: "Prints", Price: 25, Quantity: 1}})

	assert.Equal(t, booking.ID, response.ID)
	assert.Equal(t, &photographer, response.PhotographerID)
	assert.Equal(t, booking.Status, response.Status)
	assert.Contains(t, response.AllowedNext, lifecycle.StatusShooting.String())
	assert.Contains(t, response.AllowedNext, lifecycle.StatusCancelled.String())
	require.Len(t, response.AddOns, 1)
	assert.Equal(t, "Prints", response.AddOns[0].Name)
}

func TestBookingResponse_FromModel_TerminalHasNoNextStates(t *testing.T) {
	var response dto.BookingResponse
	response.FromModel(model.Booking{ID: "booking-1", Status: lifecycle.StatusCompleted.String()})

	assert.NotNil(t, response.AllowedNext)
	assert.Empty(t, response.AllowedNext)
}

func TestNewHistory(t *testing.T) {
	created := dto.NewHistory("booking-1", "", lifecycle.StatusBookingCreated, "client-1", nil)
	assert.Nil(t, created.FromStatus)
	assert.Equal(t, lifecycle.StatusBookingCreated.String(), created.ToStatus)

	note := "on location"
	moved := dto.NewHistory("booking-1", lifecycle.StatusPhotographerAssigned, lifecycle.StatusShooting, "photographer-1", &note)
	require.NotNil(t, moved.FromStatus)
	assert.Equal(t, lifecycle.StatusPhotographerAssigned.String(), *moved.FromStatus)
	assert.Equal(t, &note, moved.Note)
	assert.False(t, moved.CreatedAt.IsZero())
}
