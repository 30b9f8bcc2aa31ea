package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imoveis/catalog/internal/core/contact"
)

type recordingPublisher struct {
	subject string
	data    interface{}
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.subject = subject
	p.data = data
	return nil
}

func TestContactNotifier(t *testing.T) {
	pub := &recordingPublisher{}
	n := &ContactNotifier{publisher: pub}
	created := time.Date(2024, time.June, 3, 15, 0, 0, 0, time.UTC)

	err := n.Notify(context.Background(), &contact.Message{
		ID:        "6f1c2d7e-0000-4000-8000-000000000001",
		Name:      "Ana",
		Email:     "ana@example.com",
		Body:      "texto que não sai do banco",
		CreatedAt: created,
	})

	require.NoError(t, err)
	assert.Equal(t, "nats", n.Channel())
	assert.Equal(t, SubjectContactCreated, pub.subject)
	assert.Equal(t, ContactCreated{
		ID:        "6f1c2d7e-0000-4000-8000-000000000001",
		Name:      "Ana",
		Email:     "ana@example.com",
		CreatedAt: created,
	}, pub.data)
}
