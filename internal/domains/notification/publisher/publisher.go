// Package publisher hands notification events off without blocking the caller.
package publisher

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=../mocks/publisher_mock.go -package=mocks

import (
	"context"
	"shutter/config"
	"shutter/infras/kafka"
	"shutter/infras/otel"
	"shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/service"
	"shutter/shared/constant"

	"github.com/rs/zerolog/log"
)

type Publisher interface {
	Publish(ctx context.Context, event model.Event)
}

type publisherImpl struct {
	cfg        *config.Config
	kafka      kafka.Client
	dispatcher service.Dispatcher
	otel       otel.Otel
}

func New(cfg *config.Config, kafka kafka.Client, dispatcher service.Dispatcher, otel otel.Otel) Publisher {
	return &publisherImpl{
		cfg:        cfg,
		kafka:      kafka,
		dispatcher: dispatcher,
		otel:       otel,
	}
}

// Publish sends the event to the notification topic when Kafka is enabled and inserts
// the rows in process otherwise. Failures are logged and never reach the caller.
func (p *publisherImpl) Publish(ctx context.Context, event model.Event) {
	go func() {
		c, scope := p.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
		defer scope.End()

		scope.SetAttribute("notification.type", event.Type)

		if p.cfg.Kafka.Enable {
			err := p.kafka.SendMessages(c, p.cfg.Kafka.Topic.Notification, kafka.Message{Key: event.ID, Value: event})
			if err == nil {
				return
			}

			scope.TraceError(err)
			log.Error().Err(err).Str("type", event.Type).Msg("failed to publish notification, dispatching in process")
		}

		if err := p.dispatcher.Dispatch(c, event); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("type", event.Type).Msg("failed to dispatch notification")
		}
	}()
}
