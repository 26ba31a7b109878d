package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/ports"
)

var _ ports.StockEventPublisher = (*NATSPublisher)(nil)

// natsConn lo que el publicador usa de *nats.Conn.
type natsConn interface {
	PublishMsg(msg *nats.Msg) error
	Drain() error
}

// NATSPublisher publica cada movimiento en <subject>.<action_type>, por ejemplo stock.movements.sale.
type NATSPublisher struct {
	conn    natsConn
	subject string
}

// NewNATSPublisher conecta al servidor NATS.
func NewNATSPublisher(url, subject, clientName string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newNATSPublisherWithConn(conn, subject), nil
}

func newNATSPublisherWithConn(conn natsConn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// Publish serializa el evento y lo envía con headers de tipo e id.
func (p *NATSPublisher) Publish(ctx context.Context, event dto.StockEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := nats.NewMsg(p.subject + "." + event.Movement.ActionType)
	msg.Data = data
	msg.Header.Set("event-type", event.EventType)
	msg.Header.Set("event-id", event.EventID)
	msg.Header.Set("product-id", event.Movement.ProductID)
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Close vacía el buffer pendiente y cierra la conexión.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
