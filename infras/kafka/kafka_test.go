package kafka_test

import (
	"shutter/infras/kafka"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

func TestMessageRoundTrip(t *testing.T) {
	message := kafka.Message{Key: "booking-1", Value: payload{UserID: "u1", Title: "hello"}}

	encoded, err := message.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("booking-1"), encoded.Key)

	decoded, err := kafka.DecodeKafkaMessage[payload](encoded)
	require.NoError(t, err)
	assert.Equal(t, "u1", decoded.UserID)
	assert.Equal(t, "hello", decoded.Title)
}

func TestDecodeKafkaMessage_Invalid(t *testing.T) {
	_, err := kafka.DecodeKafkaMessage[payload](kafkaGo.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}
