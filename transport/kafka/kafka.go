// Package kafka consumes the notification topic and stores the notifications it carries.
package kafka

import (
	"context"
	"fmt"
	"shutter/config"
	kafkaInfra "shutter/infras/kafka"
	"shutter/infras/otel"
	"shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/service"
	"shutter/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Consumer struct {
	cfg        *config.Config
	client     kafkaInfra.Client
	dispatcher service.Dispatcher
	otel       otel.Otel
}

func New(cfg *config.Config, client kafkaInfra.Client, dispatcher service.Dispatcher, otel otel.Otel) *Consumer {
	return &Consumer{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		otel:       otel,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	log.Info().Str("topic", c.cfg.Kafka.Topic.Notification).Msg("Starting notification consumer.")

	c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.Topic.Notification, c.HandleNotification)
}

// HandleNotification decodes one event and resolves its recipients. Undecodable
// messages are reported and skipped.
func (c *Consumer) HandleNotification(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleNotification")
	defer scope.End()
	defer scope.TraceIfError(err)

	event, err := kafkaInfra.DecodeKafkaMessage[model.Event](message)
	if err != nil {
		return fmt.Errorf("failed to decode notification event: %w", err)
	}

	scope.SetAttributes(map[string]any{
		"notification.id":   event.ID,
		"notification.type": event.Type,
	})

	if err = c.dispatcher.Dispatch(ctx, event); err != nil {
		return fmt.Errorf("failed to dispatch notification %s: %w", event.ID, err)
	}

	return nil
}
