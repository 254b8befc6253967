package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	zlog "github.com/rs/zerolog/log"
	"github.com/sabq/behavior-service/internal/domain"
)

const (
	DefaultExchange = "sabq.behavior"

	// Wait window for Return / Confirm before treating the attempt as done.
	publishWait = 150 * time.Millisecond
)

// envelope is the wire shape of one interaction on the analytics exchange.
type envelope struct {
	EventID    string            `json:"event_id"`
	UserID     string            `json:"user_id"`
	SessionID  string            `json:"session_id,omitempty"`
	EventType  string            `json:"event_type"`
	ContentID  string            `json:"content_id,omitempty"`
	Category   string            `json:"category,omitempty"`
	TimeSpent  int               `json:"time_spent,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Publisher fans accepted interactions out to a topic exchange with
// mandatory routing and publisher confirms. Downstream analytics consumers
// own their own retries; the tracking path never blocks on them.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	// enable publisher confirms
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}

// PublishInteraction publishes the event under routing key
// "interaction.<event_type>". The event ID doubles as the stable message ID.
func (p *Publisher) PublishInteraction(ctx context.Context, e domain.InteractionEvent) error {
	body, err := json.Marshal(envelope{
		EventID:    e.ID.String(),
		UserID:     e.UserID,
		SessionID:  e.SessionID,
		EventType:  string(e.EventType),
		ContentID:  e.ContentID,
		Category:   e.ContentCategory,
		TimeSpent:  e.TimeSpentSec,
		Metadata:   e.Metadata,
		OccurredAt: e.OccurredAt,
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return errors.New("publisher channel not ready")
	}

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,
		"interaction."+string(e.EventType),
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:   e.ID.String(),
			ContentType: "application/json",
			Timestamp:   time.Now().UTC(),
			Body:        body,
		},
	)
	if err != nil {
		return err
	}

	// Wait for either Return (NO_ROUTE) or Confirm
	select {
	case ret := <-p.returnCh:
		return errors.New("NO_ROUTE: " + ret.RoutingKey)
	case conf := <-p.confirmCh:
		if !conf.Ack {
			return errors.New("publish nack")
		}
		return nil
	case <-time.After(publishWait):
		// best-effort window; a late confirm is indistinguishable from a
		// slow broker and the event is already durable in the log
		zlog.Debug().Str("event_id", e.ID.String()).Msg("publish confirm window elapsed")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
