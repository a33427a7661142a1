package message

import (
	"net/http"
	"shutter/infras/otel"
	"shutter/internal/domains/message/model/dto"
	"shutter/internal/domains/message/service"
	"shutter/shared/constant"
	gDto "shutter/shared/dto"
	"shutter/shared/validator"
	"shutter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Message
	otel    otel.Otel
}

func New(service service.Message, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// BookingRouter mounts the conversation routes under /bookings/{id}.
func (handler *Handler) BookingRouter(router chi.Router) {
	router.Route("/messages", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SendMessage)
		routerGroup.Get("/", handler.GetMessages)
		routerGroup.Patch("/read", handler.MarkRead)
	})
}

// SendMessage posts a message to the booking conversation.
// @Summary Send a booking message
// @Tags Message
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.SendMessageRequest true "Send Message Request"
// @Success 201 {object} response.Data[dto.MessageResponse] "Message sent"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/messages [post]
// @Security BearerAuth
func (handler *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SendMessage")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	req := dto.SendMessageRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	message, err := handler.service.Send(ctx, req, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send message")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Message sent successfully")

	response.WithJSON(w, http.StatusCreated, message)
}

// GetMessages returns the booking conversation, oldest first.
// @Summary Get booking messages
// @Tags Message
// @Produce json
// @Param id path string true "Booking ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetMessagesResponse] "List of messages"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/messages [get]
// @Security BearerAuth
func (handler *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMessages")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	messages, err := handler.service.GetAll(ctx, queryParams, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get messages")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, messages)
}

// MarkRead marks the other participants' messages as read.
// @Summary Mark booking messages as read
// @Tags Message
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.MarkReadResponse] "Number of messages marked"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/messages/read [patch]
// @Security BearerAuth
func (handler *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkRead")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.MarkRead(ctx, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark messages as read")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
