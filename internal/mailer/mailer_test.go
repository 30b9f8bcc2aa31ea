package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/imoveis/catalog/config"
	"github.com/imoveis/catalog/internal/core/contact"
	"github.com/imoveis/catalog/internal/core/inquiry"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func newTestNotifier(s sender) *AdminNotifier {
	n := NewAdminNotifier(&config.SMTPConfig{
		Host:       "smtp.test",
		Port:       587,
		Username:   "site@imoveis.test",
		AdminEmail: "corretor@imoveis.test",
	})
	n.dialer = s
	return n
}

func TestAdminNotifier_ListingInquiry(t *testing.T) {
	s := &captureSender{}
	n := newTestNotifier(s)

	ref := inquiry.Ref{ID: "exemplo-2", Title: "Casa de Luxo com Piscina", Location: "Savassi, Belo Horizonte"}
	draft := &inquiry.Draft{Status: inquiry.StatusResolved, Listing: &ref}
	err := n.Notify(context.Background(), &contact.Message{
		Name:  "Ana",
		Email: "ana@example.com",
		Phone: "31 97777-6666",
		Body:  draft.SubmissionBody("Aceita permuta?"),
	})

	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	msg := s.sent[0]
	assert.Equal(t, []string{"Interesse em: Casa de Luxo com Piscina"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"site@imoveis.test"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"corretor@imoveis.test"}, msg.GetHeader("To"))
	require.Len(t, msg.GetHeader("Reply-To"), 1)
	assert.Contains(t, msg.GetHeader("Reply-To")[0], "ana@example.com")
}

func TestAdminNotifier_PlainMessage(t *testing.T) {
	s := &captureSender{}
	n := newTestNotifier(s)

	require.NoError(t, n.Notify(context.Background(), &contact.Message{Name: "Ana", Email: "ana@example.com", Body: "Olá"}))

	assert.Equal(t, []string{"Nova mensagem de contato"}, s.sent[0].GetHeader("Subject"))
}

func TestAdminNotifier_Errors(t *testing.T) {
	s := &captureSender{err: errors.New("connection refused")}
	n := newTestNotifier(s)

	assert.Error(t, n.Notify(context.Background(), &contact.Message{Email: "ana@example.com"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.sent = nil
	assert.ErrorIs(t, n.Notify(ctx, &contact.Message{Email: "ana@example.com"}), context.Canceled)
	assert.Empty(t, s.sent)
}
