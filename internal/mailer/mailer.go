package mailer

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/imoveis/catalog/config"
	"github.com/imoveis/catalog/internal/core/contact"
	"github.com/imoveis/catalog/internal/core/inquiry"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// AdminNotifier e-mails the agency inbox whenever a visitor leaves a message.
type AdminNotifier struct {
	dialer sender
	from   string
	to     string
}

func NewAdminNotifier(cfg *config.SMTPConfig) *AdminNotifier {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &AdminNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
		to:     cfg.AdminEmail,
	}
}

func (n *AdminNotifier) Channel() string {
	return "smtp"
}

func (n *AdminNotifier) Notify(ctx context.Context, m *contact.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.dialer.DialAndSend(n.build(m))
}

func (n *AdminNotifier) build(m *contact.Message) *gomail.Message {
	subject := "Nova mensagem de contato"
	ref, text, ok := inquiry.ParseHeader(m.Body)
	if ok {
		subject = fmt.Sprintf("Interesse em: %s", ref.Title)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Nome: %s\n", m.Name)
	fmt.Fprintf(&body, "Email: %s\n", m.Email)
	fmt.Fprintf(&body, "Telefone: %s\n", m.Phone)
	if ok {
		fmt.Fprintf(&body, "Imóvel: %s (ID: %s)\n", ref.Title, ref.ID)
		fmt.Fprintf(&body, "Localização: %s\n", ref.Location)
	}
	body.WriteString("\n")
	body.WriteString(text)

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", n.to)
	msg.SetAddressHeader("Reply-To", m.Email, m.Name)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body.String())
	return msg
}
