//go:build wireinject
// +build wireinject

package di

import (
	"shutter/config"
	"shutter/infras/jwt"
	"shutter/infras/kafka"
	"shutter/infras/otel"
	"shutter/infras/postgres"
	"shutter/infras/redis"
	"shutter/infras/s3"
	"shutter/permissions"
	"shutter/shared/cache"
	"shutter/transport/http"
	"shutter/transport/http/middleware"
	"shutter/transport/http/router"
	kafkaTransport "shutter/transport/kafka"
	"shutter/transport/worker"

	authService "shutter/internal/domains/auth/service"
	bookingRepository "shutter/internal/domains/booking/repository"
	bookingService "shutter/internal/domains/booking/service"
	deliverableRepository "shutter/internal/domains/deliverable/repository"
	deliverableService "shutter/internal/domains/deliverable/service"
	messageRepository "shutter/internal/domains/message/repository"
	messageService "shutter/internal/domains/message/service"
	"shutter/internal/domains/notification/publisher"
	notificationRepository "shutter/internal/domains/notification/repository"
	notificationService "shutter/internal/domains/notification/service"
	packageRepository "shutter/internal/domains/packages/repository"
	packageService "shutter/internal/domains/packages/service"
	paymentRepository "shutter/internal/domains/payment/repository"
	paymentService "shutter/internal/domains/payment/service"
	userRepository "shutter/internal/domains/user/repository"
	userService "shutter/internal/domains/user/service"

	authHandler "shutter/internal/handlers/auth"
	bookingHandler "shutter/internal/handlers/booking"
	deliverableHandler "shutter/internal/handlers/deliverable"
	messageHandler "shutter/internal/handlers/message"
	notificationHandler "shutter/internal/handlers/notification"
	packageHandler "shutter/internal/handlers/packages"
	paymentHandler "shutter/internal/handlers/payment"
	userHandler "shutter/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var packageDomain = wire.NewSet(
	packageRepository.New,
	packageService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
	wire.Bind(new(notificationService.Dispatcher), new(notificationService.Notification)),
	publisher.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewAddOn,
	bookingRepository.NewHistory,
	bookingService.New,
)

var messageDomain = wire.NewSet(
	messageRepository.New,
	messageService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var deliverableDomain = wire.NewSet(
	deliverableRepository.New,
	deliverableService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	packageDomain,
	notificationDomain,
	bookingDomain,
	messageDomain,
	paymentDomain,
	deliverableDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	packageHandler.New,
	bookingHandler.New,
	notificationHandler.New,
	messageHandler.New,
	paymentHandler.New,
	deliverableHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *Worker {
	wire.Build(
		config.Get,
		postgres.New,
		postgres.NewTransactor,
		otel.New,
		kafka.New,
		userRepository.New,
		packageRepository.New,
		notificationDomain,
		bookingDomain,
		worker.New,
		kafkaTransport.New,
		wire.Struct(new(Worker), "*"),
	)

	return &Worker{}
}
