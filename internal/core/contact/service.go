package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imoveis/catalog/internal/core/auth"
	"github.com/imoveis/catalog/internal/core/validation"
	"github.com/imoveis/catalog/internal/platform/metrics"
)

var (
	ErrNotFound = errors.New("contact message not found")

	// ErrRetryable marks a write that failed without storing anything. The
	// visitor can resubmit the same form.
	ErrRetryable = errors.New("contact message could not be stored, try again")
)

const notifyTimeout = 15 * time.Second

// Notifier is told about every stored message. Failures never affect the
// stored record.
type Notifier interface {
	Channel() string
	Notify(ctx context.Context, m *Message) error
}

var formSchema = validation.NewSchema("contact", map[string]*validation.SchemaProperty{
	"name":    validation.RequiredText("Nome", 200),
	"email":   {Type: validation.PropertyTypeString, Title: "Email", Format: "email"},
	"phone":   validation.RequiredText("Telefone", 40),
	"message": validation.RequiredText("Mensagem", 10000),
}, []string{"name", "email", "phone", "message"})

type Service struct {
	repo      Repository
	validator *validation.Validator
	notifiers []Notifier
	metrics   *metrics.Metrics
	log       *zap.Logger
	pending   sync.WaitGroup
}

func NewService(repo Repository, validator *validation.Validator, m *metrics.Metrics, log *zap.Logger, notifiers ...Notifier) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		notifiers: notifiers,
		metrics:   m,
		log:       log.Named("contact"),
	}
}

// Validate checks a form without storing it.
func (s *Service) Validate(form *Form) error {
	clean := normalize(form)
	return s.validator.ValidateValue(&clean, formSchema)
}

// Create stores a visitor's message. Invalid forms are rejected before any
// write; a failed write stores nothing and returns ErrRetryable.
func (s *Service) Create(ctx context.Context, form *Form) (*Message, error) {
	clean := normalize(form)
	if err := s.validator.ValidateValue(&clean, formSchema); err != nil {
		return nil, err
	}

	m := &Message{
		ID:    uuid.New().String(),
		Name:  clean.Name,
		Email: clean.Email,
		Phone: clean.Phone,
		Body:  clean.Body,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		s.log.Error("failed to store contact message", zap.String("email", m.Email), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRetryable, err)
	}

	s.log.Info("contact message stored", zap.String("message_id", m.ID))
	s.metrics.ContactCreated()
	s.notify(ctx, m)
	return m, nil
}

func (s *Service) notify(ctx context.Context, m *Message) {
	if len(s.notifiers) == 0 {
		return
	}

	base := context.WithoutCancel(ctx)
	for _, n := range s.notifiers {
		s.pending.Add(1)
		go func(n Notifier) {
			defer s.pending.Done()
			nctx, cancel := context.WithTimeout(base, notifyTimeout)
			defer cancel()
			if err := n.Notify(nctx, m); err != nil {
				s.log.Warn("contact notification failed",
					zap.String("channel", n.Channel()),
					zap.String("message_id", m.ID),
					zap.Error(err))
				s.metrics.NotifyFailed(n.Channel())
			}
		}(n)
	}
}

// Wait blocks until in-flight notifications finish.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) List(ctx context.Context, sess *auth.Session) (*ListResponse, error) {
	if err := sess.Authorize(); err != nil {
		return nil, err
	}

	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	if messages == nil {
		messages = []*Message{}
	}

	resp := &ListResponse{Messages: messages, Total: len(messages)}
	for _, m := range messages {
		if !m.Read {
			resp.Unread++
		}
	}
	return resp, nil
}

// MarkRead flags a message as read. Marking an already read message is a
// no-op success.
func (s *Service) MarkRead(ctx context.Context, sess *auth.Session, id string) error {
	if err := sess.Authorize(); err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, sess *auth.Session, id string) error {
	if err := sess.Authorize(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete message %s: %w", id, err)
	}
	s.log.Info("contact message deleted", zap.String("message_id", id), zap.String("admin", sess.Email))
	return nil
}

// normalize trims the contact fields. The body is stored exactly as
// submitted; the NonBlank pattern still rejects whitespace-only messages.
func normalize(form *Form) Form {
	if form == nil {
		return Form{}
	}
	return Form{
		Name:  strings.TrimSpace(form.Name),
		Email: strings.TrimSpace(form.Email),
		Phone: strings.TrimSpace(form.Phone),
		Body:  form.Body,
	}
}
