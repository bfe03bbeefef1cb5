// Package events publishes domain events to Kafka.
//
// Publishing is best effort: a nil or disabled Publisher accepts every
// event and drops it, so callers never branch on configuration.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/consultas-api/internal/config"
	"github.com/deppfellow/consultas-api/internal/model"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	TypePedidoRegistrado = "pedido.registrado"

	writeTimeout = 5 * time.Second
)

// messageWriter is the subset of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON events to a single topic.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *zerolog.Logger
}

// PedidoRegistrado is emitted after a pedido is inserted.
type PedidoRegistrado struct {
	Type       string    `json:"type"`
	ID         int64     `json:"id"`
	Producto   string    `json:"producto"`
	Cantidad   int32     `json:"cantidad"`
	Total      string    `json:"total"`
	IDUsuario  int64     `json:"id_usuario"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewPublisher builds a Kafka-backed publisher, or a disabled one when no
// brokers are configured.
func NewPublisher(cfg *config.EventsConfig, logger *zerolog.Logger) *Publisher {
	if !cfg.Enabled() {
		logger.Info().Msg("event publishing disabled, no kafka brokers configured")
		return &Publisher{logger: logger}
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafka.RequireOne,
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("kafka publisher configured")

	return &Publisher{writer: w, topic: cfg.Topic, logger: logger}
}

// Enabled reports whether events actually leave the process.
func (p *Publisher) Enabled() bool {
	return p != nil && p.writer != nil
}

// PedidoRegistrado publishes the event for a freshly inserted pedido.
// Messages are keyed by pedido id so retries land on the same partition.
func (p *Publisher) PedidoRegistrado(ctx context.Context, pedido model.Pedido) error {
	if !p.Enabled() {
		return nil
	}

	body, err := json.Marshal(PedidoRegistrado{
		Type:       TypePedidoRegistrado,
		ID:         pedido.ID,
		Producto:   pedido.Producto,
		Cantidad:   pedido.Cantidad,
		Total:      pedido.Total.StringFixed(2),
		IDUsuario:  pedido.IDUsuario,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", TypePedidoRegistrado, err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("pedido-registrado-%d", pedido.ID)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypePedidoRegistrado)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing %s to %s: %w", TypePedidoRegistrado, p.topic, err)
	}

	p.logger.Debug().
		Int64("pedido_id", pedido.ID).
		Str("topic", p.topic).
		Msg("event published")
	return nil
}

// Close flushes pending writes and releases broker connections.
func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
