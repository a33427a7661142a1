package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shutter/config"
	kafkaMocks "shutter/infras/kafka/mocks"
	otelMocks "shutter/infras/otel/mocks"
	"shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/service/mocks"
	"shutter/transport/kafka"
)

func newConsumer(t *testing.T) (*kafka.Consumer, *kafkaMocks.MockClient, *mocks.MockDispatcher, *config.Config) {
	ctrl := gomock.NewController(t)

	client := kafkaMocks.NewMockClient(ctrl)
	dispatcher := mocks.NewMockDispatcher(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.ConsumerGroup = "shutter"
	cfg.Kafka.Topic.Notification = "booking.notifications"

	return kafka.New(cfg, client, dispatcher, otelMocks.NewOtel()), client, dispatcher, cfg
}

func TestConsumer_HandleNotification(t *testing.T) {
	bookingID := "booking-1"
	event := model.Event{
		ID:         "evt-1",
		Type:       model.TypeStatusChanged,
		BookingID:  &bookingID,
		Title:      "Booking status updated",
		Recipients: []string{"client-1"},
		ActorID:    "photographer-1",
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	t.Run("dispatches decoded event", func(t *testing.T) {
		consumer, _, dispatcher, _ := newConsumer(t)

		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, got model.Event) error {
			assert.Equal(t, event.ID, got.ID)
			assert.Equal(t, event.Recipients, got.Recipients)
			assert.Equal(t, bookingID, *got.BookingID)

			return nil
		})

		err := consumer.HandleNotification(context.Background(), kafkaGo.Message{Key: []byte(event.ID), Value: payload})
		assert.NoError(t, err)
	})

	t.Run("undecodable payload is skipped", func(t *testing.T) {
		consumer, _, _, _ := newConsumer(t)

		err := consumer.HandleNotification(context.Background(), kafkaGo.Message{Value: []byte("not json")})
		assert.Error(t, err)
	})

	t.Run("dispatch failure is reported", func(t *testing.T) {
		consumer, _, dispatcher, _ := newConsumer(t)

		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		err := consumer.HandleNotification(context.Background(), kafkaGo.Message{Value: payload})
		assert.ErrorContains(t, err, "evt-1")
	})
}

func TestConsumer_Run(t *testing.T) {
	consumer, client, _, cfg := newConsumer(t)

	client.EXPECT().Consume(gomock.Any(), cfg.Kafka.ConsumerGroup, cfg.Kafka.Topic.Notification, gomock.Any())

	consumer.Run(context.Background())
}
