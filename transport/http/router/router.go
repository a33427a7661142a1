package router

import (
	"shutter/internal/handlers/auth"
	"shutter/internal/handlers/booking"
	"shutter/internal/handlers/deliverable"
	"shutter/internal/handlers/message"
	"shutter/internal/handlers/notification"
	"shutter/internal/handlers/packages"
	"shutter/internal/handlers/payment"
	"shutter/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Package      packages.Handler
	Booking      booking.Handler
	Notification notification.Handler
	Message      message.Handler
	Payment      payment.Handler
	Deliverable  deliverable.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Package.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup,
			r.DomainHandlers.Message.BookingRouter,
			r.DomainHandlers.Payment.BookingRouter,
			r.DomainHandlers.Deliverable.BookingRouter,
		)
		r.DomainHandlers.Notification.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Deliverable.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
