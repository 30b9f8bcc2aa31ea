package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/imoveis/catalog/internal/core/contact"
)

const SubjectContactCreated = "contact.created"

type Publisher struct {
	conn *nats.Conn
	log  *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) (*Publisher, error) {
	log = log.Named("nats")
	conn, err := nats.Connect(url,
		nats.Name("imoveis-catalog"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return &Publisher{conn: conn, log: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, payload)
}

func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.log.Warn("nats drain failed", zap.Error(err))
		p.conn.Close()
	}
}

// ContactCreated is the payload of SubjectContactCreated. The message body
// stays in the database; subscribers fetch it through the admin API.
type ContactCreated struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactNotifier publishes a contact.created event for every stored message.
type ContactNotifier struct {
	publisher interface {
		Publish(ctx context.Context, subject string, data interface{}) error
	}
}

func NewContactNotifier(p *Publisher) *ContactNotifier {
	return &ContactNotifier{publisher: p}
}

func (n *ContactNotifier) Channel() string {
	return "nats"
}

func (n *ContactNotifier) Notify(ctx context.Context, m *contact.Message) error {
	return n.publisher.Publish(ctx, SubjectContactCreated, ContactCreated{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	})
}
