package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
)

type fakeNATSConn struct {
	msgs       []*nats.Msg
	publishErr error
	drained    bool
}

func (c *fakeNATSConn) PublishMsg(msg *nats.Msg) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeNATSConn) Drain() error {
	c.drained = true
	return nil
}

func TestNATSPublisher_Publish(t *testing.T) {
	conn := &fakeNATSConn{}
	pub := newNATSPublisherWithConn(conn, "stock.movements")

	require.NoError(t, pub.Publish(context.Background(), sampleEvent()))
	require.Len(t, conn.msgs, 1)

	msg := conn.msgs[0]
	assert.Equal(t, "stock.movements.purchase", msg.Subject, "el subject lleva el action_type")
	assert.Equal(t, "stock.movement.created", msg.Header.Get("event-type"))
	assert.Equal(t, "evt-1", msg.Header.Get("event-id"))
	assert.Equal(t, "prod-1", msg.Header.Get("product-id"))

	var evt dto.StockEvent
	require.NoError(t, json.Unmarshal(msg.Data, &evt))
	assert.Equal(t, 10, evt.Movement.QuantityAfter)
	assert.Equal(t, 10, evt.Status.Available)

	require.NoError(t, pub.Close())
	assert.True(t, conn.drained)
}

func TestNATSPublisher_ErrorDelServidor(t *testing.T) {
	conn := &fakeNATSConn{publishErr: nats.ErrConnectionClosed}
	pub := newNATSPublisherWithConn(conn, "stock.movements")

	err := pub.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, nats.ErrConnectionClosed)
}

func TestNATSPublisher_ContextoCancelado(t *testing.T) {
	conn := &fakeNATSConn{}
	pub := newNATSPublisherWithConn(conn, "stock.movements")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.Publish(ctx, sampleEvent()), context.Canceled)
	assert.Empty(t, conn.msgs)
}
