package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/imoveis/catalog/internal/core/listing"
)

const (
	labelListing  = "Imóvel de Interesse: "
	labelID       = "ID: "
	labelLocation = "Localização: "
	separator     = "\n\n---\n\n"

	// GenericDraft pre-fills the form when a referenced listing could not be
	// resolved. It never names a listing.
	GenericDraft = "Olá, gostaria de mais informações sobre um imóvel."
)

type Status string

const (
	// StatusNone means the inquiry does not reference a listing.
	StatusNone Status = "none"
	// StatusResolved means the referenced listing was found.
	StatusResolved Status = "resolved"
	// StatusLookupFailed means a reference was given but could not be
	// resolved, either because the listing is gone or the lookup errored.
	StatusLookupFailed Status = "lookup_failed"
)

// ListingLookup resolves a listing reference. Implementations return
// listing.ErrNotFound for unknown ids.
type ListingLookup interface {
	Get(ctx context.Context, id string) (*listing.Listing, error)
}

// Ref is the part of a listing an inquiry carries.
type Ref struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

type Draft struct {
	Status      Status `json:"status"`
	ReferenceID string `json:"reference_id,omitempty"`
	Listing     *Ref   `json:"listing,omitempty"`
	Body        string `json:"body"`
}

// SubmissionBody is the text stored for the inquiry. A resolved listing adds
// a header block in front of the visitor's text; otherwise the text is kept
// as typed.
func (d *Draft) SubmissionBody(userText string) string {
	if d == nil || d.Status != StatusResolved || d.Listing == nil {
		return userText
	}
	return Header(*d.Listing) + separator + userText
}

// Header renders the listing header block. The labels are stable so admins
// and ParseHeader can read them back.
func Header(ref Ref) string {
	return labelListing + singleLine(ref.Title) + "\n" +
		labelID + singleLine(ref.ID) + "\n" +
		labelLocation + singleLine(ref.Location)
}

// ParseHeader splits a stored body into the listing it references and the
// visitor's text. ok is false for bodies without a header.
func ParseHeader(body string) (ref Ref, text string, ok bool) {
	head, rest, found := strings.Cut(body, separator)
	if !found {
		return Ref{}, body, false
	}

	lines := strings.Split(head, "\n")
	if len(lines) != 3 ||
		!strings.HasPrefix(lines[0], labelListing) ||
		!strings.HasPrefix(lines[1], labelID) ||
		!strings.HasPrefix(lines[2], labelLocation) {
		return Ref{}, body, false
	}

	ref = Ref{
		Title:    strings.TrimPrefix(lines[0], labelListing),
		ID:       strings.TrimPrefix(lines[1], labelID),
		Location: strings.TrimPrefix(lines[2], labelLocation),
	}
	return ref, rest, true
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func draftText(title string) string {
	return fmt.Sprintf("Olá, tenho interesse no imóvel \"%s\". Gostaria de mais informações.", title)
}

type Composer struct {
	lookup ListingLookup
	log    *zap.Logger
}

func NewComposer(lookup ListingLookup, log *zap.Logger) *Composer {
	return &Composer{lookup: lookup, log: log.Named("inquiry")}
}

// Compose prepares the contact form for an optional listing reference. It
// never fails: an unresolvable reference yields a generic draft.
func (c *Composer) Compose(ctx context.Context, reference string) *Draft {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return &Draft{Status: StatusNone}
	}

	l, err := c.lookup.Get(ctx, reference)
	if err != nil || l == nil {
		if err != nil && !errors.Is(err, listing.ErrNotFound) {
			c.log.Warn("listing lookup failed", zap.String("listing_id", reference), zap.Error(err))
		}
		return &Draft{Status: StatusLookupFailed, ReferenceID: reference, Body: GenericDraft}
	}

	ref := &Ref{ID: l.ID, Title: l.Title, Location: l.Location}
	return &Draft{
		Status:      StatusResolved,
		ReferenceID: reference,
		Listing:     ref,
		Body:        draftText(ref.Title),
	}
}
