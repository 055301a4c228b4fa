package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/abhisek/prepdeck/internal/logger"
	"github.com/abhisek/prepdeck/internal/session"
)

const publishTimeout = 5 * time.Second

// Channel is the part of an AMQP channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends session events to a durable topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       Channel
	exchange string
	log      *logger.Logger

	mu sync.Mutex // amqp channels are not safe for concurrent publishes
}

// Dial connects to url and declares exchange.
func Dial(url, exchange string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := NewPublisher(ch, exchange, log)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares exchange on an open channel.
func NewPublisher(ch Channel, exchange string, log *logger.Logger) (*Publisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{ch: ch, exchange: exchange, log: log.With("component", "amqp")}, nil
}

// Publish sends one event as persistent JSON.
func (p *Publisher) Publish(ctx context.Context, ev session.Event) error {
	body, err := json.Marshal(FromEvent(ev))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(ev.Kind), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%s-%s-%d", ev.SessionID, ev.Kind, ev.At.UnixNano()),
		Timestamp:    ev.At,
		Type:         RoutingKey(ev.Kind),
		Body:         body,
	})
}

// OnEvent publishes ev and logs failures; engine flow never waits on the
// broker's outcome.
func (p *Publisher) OnEvent(ev session.Event) {
	if err := p.Publish(context.Background(), ev); err != nil {
		p.log.Warn("publish session event", "kind", ev.Kind, "session_id", ev.SessionID, "error", err)
	}
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
