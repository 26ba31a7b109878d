// Package events publica los movimientos de stock confirmados hacia NATS o Kafka.
package events

import (
	"context"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/ports"
)

var _ ports.StockEventPublisher = NopPublisher{}

// NopPublisher descarta los eventos (EVENTS_DRIVER=none).
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, dto.StockEvent) error { return nil }
func (NopPublisher) Close() error { return nil }
