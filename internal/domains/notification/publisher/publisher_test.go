package publisher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"shutter/config"
	"shutter/infras/kafka"
	kafkaMocks "shutter/infras/kafka/mocks"
	otelMocks "shutter/infras/otel/mocks"
	"shutter/internal/domains/notification/model"
	"shutter/internal/domains/notification/publisher"
	"shutter/internal/domains/notification/service/mocks"
)

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for publish")
	}
}

func TestPublish_InProcess(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	done := make(chan struct{})

	event := model.Event{ID: "evt-1", Type: model.TypeNewMessage}

	dispatcher.EXPECT().Dispatch(gomock.Any(), event).DoAndReturn(func(context.Context, model.Event) error {
		close(done)

		return nil
	})

	pub := publisher.New(&config.Config{}, kafkaMocks.NewMockClient(ctrl), dispatcher, otelMocks.NewOtel())
	pub.Publish(context.Background(), event)

	waitFor(t, done)
}

func TestPublish_Kafka(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)
	done := make(chan struct{})

	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Topic.Notification = "booking.notifications"

	event := model.Event{ID: "evt-2", Type: model.TypeStatusChanged}

	client.EXPECT().
		SendMessages(gomock.Any(), "booking.notifications", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			assert.Len(t, messages, 1)
			assert.Equal(t, "evt-2", messages[0].Key)
			close(done)

			return nil
		})

	pub := publisher.New(cfg, client, mocks.NewMockDispatcher(ctrl), otelMocks.NewOtel())
	pub.Publish(context.Background(), event)

	waitFor(t, done)
}

func TestPublish_KafkaFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	done := make(chan struct{})

	cfg := &config.Config{}
	cfg.Kafka.Enable = true

	event := model.Event{ID: "evt-3", Type: model.TypeShootReminder}

	client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	dispatcher.EXPECT().Dispatch(gomock.Any(), event).DoAndReturn(func(context.Context, model.Event) error {
		close(done)

		return nil
	})

	pub := publisher.New(cfg, client, dispatcher, otelMocks.NewOtel())
	pub.Publish(context.Background(), event)

	waitFor(t, done)
}
