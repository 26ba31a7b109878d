package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
)

func sampleEvent() dto.StockEvent {
	return dto.StockEvent{
		EventID:   "evt-1",
		EventType: "stock.movement.created",
		Movement: dto.StockMovementResponse{
			ID: "mov-1", ProductID: "prod-1", ActionType: "purchase",
			QuantityChange: 10, QuantityBefore: 0, QuantityAfter: 10,
		},
		Status:     dto.StockStatusResponse{ProductID: "prod-1", StockQuantity: 10, Available: 10, Status: "in_stock"},
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "prod-1" {
			return errors.New("la clave debe ser el product_id")
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var evt dto.StockEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			return err
		}
		if evt.Movement.QuantityAfter != 10 {
			return errors.New("quantity_after inesperado")
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "stock.movements")
	require.NoError(t, pub.Publish(context.Background(), sampleEvent()))
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_ErrorDelBroker(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

	pub := NewKafkaPublisherWithProducer(producer, "stock.movements")
	err := pub.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, sarama.ErrNotLeaderForPartition)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_ContextoCancelado(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaPublisherWithProducer(producer, "stock.movements")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.Publish(ctx, sampleEvent()), context.Canceled)
	require.NoError(t, pub.Close())
}
