package deliverable

import (
	"net/http"
	"shutter/infras/otel"
	"shutter/internal/domains/deliverable/model/dto"
	"shutter/internal/domains/deliverable/service"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/failure"
	"shutter/shared/validator"
	"shutter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Deliverable
	otel    otel.Otel
}

func New(service service.Deliverable, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Delete("/deliverables/{id}", handler.DeleteDeliverable)
}

// BookingRouter mounts the deliverable routes under /bookings/{id}.
func (handler *Handler) BookingRouter(router chi.Router) {
	router.Route("/deliverables", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.UploadDeliverable)
		routerGroup.Get("/", handler.GetDeliverables)
	})
}

// UploadDeliverable stores an edited photo for the booking.
// @Summary Upload a deliverable
// @Description The assigned photographer uploads edited photos once the booking is in editing.
// @Tags Deliverable
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Booking ID"
// @Param file formData file true "Edited photo"
// @Success 201 {object} response.Data[dto.DeliverableResponse] "Deliverable uploaded"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/deliverables [post]
// @Security BearerAuth
func (handler *Handler) UploadDeliverable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadDeliverable")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.UploadDeliverableRequest{}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err == nil {
		req.File = fileHeader
		req.FileReader = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	deliverable, err := handler.service.Upload(ctx, req, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload deliverable")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Deliverable uploaded successfully")

	response.WithJSON(w, http.StatusCreated, deliverable)
}

// GetDeliverables lists the delivered photos of a booking.
// @Summary Get booking deliverables
// @Tags Deliverable
// @Produce json
// @Param id path string true "Booking ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetDeliverablesResponse] "List of deliverables"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/deliverables [get]
// @Security BearerAuth
func (handler *Handler) GetDeliverables(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDeliverables")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	deliverables, err := handler.service.GetAll(ctx, queryParams, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get deliverables")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, deliverables)
}

// DeleteDeliverable removes a deliverable and its stored file.
// @Summary Delete a deliverable
// @Tags Deliverable
// @Produce json
// @Param id path string true "Deliverable ID"
// @Success 200 {object} response.Message "Deliverable deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/deliverables/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteDeliverable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteDeliverable")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete deliverable")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Deliverable deleted successfully")

	response.WithMessage(w, http.StatusOK, "Deliverable deleted successfully")
}
