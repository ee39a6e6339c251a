package kafka_test

import (
	"testing"

	"realty/infras/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Kind string `json:"kind"`
	To   string `json:"to"`
}

func TestMessage_RoundTrip(t *testing.T) {
	msg := kafka.Message{Key: "reservation.customer", Value: envelope{Kind: "reservation.customer", To: "a@example.com"}}

	raw, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("reservation.customer"), raw.Key)

	decoded, err := kafka.DecodeKafkaMessage[envelope](raw)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", decoded.To)
}

func TestMessage_Invalid(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)

	raw, err := (&kafka.Message{Key: "k", Value: "not an object"}).ToKafkaMessage()
	require.NoError(t, err)

	_, err = kafka.DecodeKafkaMessage[envelope](raw)
	assert.Error(t, err)
}
