package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Emit(t *testing.T) {
	ch := make(chan EventChannelData, 1)
	pub := NewLocal(ch)

	require.NoError(t, pub.Emit(context.Background(), MatchUpdated, map[string]any{"id": 4}))

	ev := <-ch
	assert.Equal(t, MatchUpdated, ev.Action)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(ev.Data, &payload))
	assert.EqualValues(t, 4, payload["id"])
}

func TestLocal_EmitRespectsContext(t *testing.T) {
	pub := NewLocal(make(chan EventChannelData))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := pub.Emit(ctx, MatchCreated, struct{}{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocal_EmitEncodeError(t *testing.T) {
	pub := NewLocal(make(chan EventChannelData, 1))
	assert.Error(t, pub.Emit(context.Background(), MatchCreated, make(chan int)))
}

func TestDecodeDelivery(t *testing.T) {
	ev, err := decodeDelivery(amqp.Delivery{
		Headers: amqp.Table{RabbitMQActionHeader: MessageCreated},
		Body:    []byte(`{"id":1}`),
	})
	require.NoError(t, err)
	assert.Equal(t, MessageCreated, ev.Action)

	_, err = decodeDelivery(amqp.Delivery{Body: []byte(`{}`)})
	assert.Error(t, err)
}
