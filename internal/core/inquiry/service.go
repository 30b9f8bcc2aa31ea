package inquiry

import (
	"context"

	"github.com/imoveis/catalog/internal/core/contact"
)

// Submission is the public contact form as posted by a visitor.
type Submission struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	ListingID string `json:"listing_id"`
}

type ContactStore interface {
	Validate(form *contact.Form) error
	Create(ctx context.Context, form *contact.Form) (*contact.Message, error)
}

type Service struct {
	composer *Composer
	contacts ContactStore
}

func NewService(composer *Composer, contacts ContactStore) *Service {
	return &Service{composer: composer, contacts: contacts}
}

// Draft prepares the form for an optional listing reference.
func (s *Service) Draft(ctx context.Context, listingID string) *Draft {
	return s.composer.Compose(ctx, listingID)
}

// Submit validates the visitor's fields, recomposes the listing header on
// the server and stores exactly one contact message.
func (s *Service) Submit(ctx context.Context, sub *Submission) (*contact.Message, error) {
	form := &contact.Form{
		Name:  sub.Name,
		Email: sub.Email,
		Phone: sub.Phone,
		Body:  sub.Message,
	}
	if err := s.contacts.Validate(form); err != nil {
		return nil, err
	}

	draft := s.composer.Compose(ctx, sub.ListingID)
	form.Body = draft.SubmissionBody(sub.Message)
	return s.contacts.Create(ctx, form)
}
