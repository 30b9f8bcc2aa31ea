package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imoveis/catalog/internal/core/auth"
	"github.com/imoveis/catalog/internal/core/validation"
	"github.com/imoveis/catalog/internal/platform/metrics"
)

var (
	ErrNotFound    = errors.New("listing not found")
	ErrUnavailable = errors.New("listing store unavailable")
)

const (
	SubjectCreated = "listing.created"
	SubjectUpdated = "listing.updated"
	SubjectDeleted = "listing.deleted"
)

// Publisher sends domain events. Publishing is best effort.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type Event struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

var inputSchema = validation.NewSchema("listing", map[string]*validation.SchemaProperty{
	"title":          validation.RequiredText("Título", 200),
	"type":           validation.RequiredText("Tipo", 60),
	"price":          validation.RequiredText("Preço", 60),
	"location":       validation.RequiredText("Localização", 200),
	"bedrooms":       validation.Count("Quartos"),
	"bathrooms":      validation.Count("Banheiros"),
	"suites":         validation.Count("Suítes"),
	"area":           validation.Count("Área"),
	"covered_garage": {Type: validation.PropertyTypeBoolean},
	"featured":       {Type: validation.PropertyTypeBoolean},
	"images": {
		Type:     validation.PropertyTypeArray,
		Title:    "Imagens",
		MinItems: validation.Int(1),
		Items:    validation.RequiredText("", 0),
	},
	"notes": {Type: validation.PropertyTypeString, MaxLength: validation.Int(5000)},
}, []string{"title", "type", "price", "location", "bedrooms", "bathrooms", "suites", "area", "images"})

type Service struct {
	repo      Repository
	validator *validation.Validator
	events    Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	example   bool
}

type Option func(*Service)

func WithEvents(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithExampleData marks search results as coming from the built-in example
// catalog.
func WithExampleData() Option {
	return func(s *Service) { s.example = true }
}

func NewService(repo Repository, validator *validation.Validator, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		validator: validator,
		log:       log.Named("listing"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs a public catalog search. It never fails: a store error yields
// an empty, degraded result and a log entry.
func (s *Service) Search(ctx context.Context, f Filter) *SearchResult {
	result := &SearchResult{
		Listings: []*Listing{},
		Example:  s.example,
		Query:    f.QueryString(),
	}

	listings, err := s.repo.List(ctx, f.Criteria())
	if err != nil {
		s.log.Error("listing search failed", zap.String("query", result.Query), zap.Error(err))
		s.metrics.SearchFailed()
		result.Degraded = true
		result.Diagnostic = "Não foi possível carregar os imóveis no momento."
		return result
	}

	if listings != nil {
		result.Listings = listings
	}
	result.Total = len(result.Listings)
	s.metrics.SearchServed(s.source())
	return result
}

func (s *Service) source() string {
	if s.example {
		return "example"
	}
	return "database"
}

func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if l == nil {
		return nil, ErrNotFound
	}
	return l, nil
}

// ListAll returns every listing newest first for the admin panel.
func (s *Service) ListAll(ctx context.Context, sess *auth.Session) ([]*Listing, error) {
	if err := sess.Authorize(); err != nil {
		return nil, err
	}

	listings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if listings == nil {
		listings = []*Listing{}
	}
	return listings, nil
}

func (s *Service) Create(ctx context.Context, sess *auth.Session, in *Input) (*Listing, error) {
	if err := sess.Authorize(); err != nil {
		return nil, err
	}

	l, err := s.build(in)
	if err != nil {
		return nil, err
	}
	l.ID = uuid.New().String()

	if err := s.repo.Create(ctx, l); err != nil {
		s.log.Error("failed to create listing", zap.String("admin", sess.Email), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.log.Info("listing created", zap.String("listing_id", l.ID), zap.String("admin", sess.Email))
	s.metrics.ListingMutated("create")
	s.publish(ctx, SubjectCreated, Event{ID: l.ID, Title: l.Title})
	return l, nil
}

// Update replaces every editable field of the listing.
func (s *Service) Update(ctx context.Context, sess *auth.Session, id string, in *Input) (*Listing, error) {
	if err := sess.Authorize(); err != nil {
		return nil, err
	}

	l, err := s.build(in)
	if err != nil {
		return nil, err
	}
	l.ID = id

	if err := s.repo.Update(ctx, l); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("failed to update listing", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.log.Info("listing updated", zap.String("listing_id", id), zap.String("admin", sess.Email))
	s.metrics.ListingMutated("update")
	s.publish(ctx, SubjectUpdated, Event{ID: l.ID, Title: l.Title})
	return l, nil
}

func (s *Service) Delete(ctx context.Context, sess *auth.Session, id string) error {
	if err := sess.Authorize(); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.log.Info("listing deleted", zap.String("listing_id", id), zap.String("admin", sess.Email))
	s.metrics.ListingMutated("delete")
	s.publish(ctx, SubjectDeleted, Event{ID: id})
	return nil
}

// build validates the input and turns it into a listing with its derived
// fields set.
func (s *Service) build(in *Input) (*Listing, error) {
	if in == nil {
		in = &Input{}
	}

	clean := *in
	clean.Title = strings.TrimSpace(in.Title)
	clean.Type = strings.TrimSpace(in.Type)
	clean.Price = strings.TrimSpace(in.Price)
	clean.Location = strings.TrimSpace(in.Location)
	clean.Notes = strings.TrimSpace(in.Notes)
	clean.Images = make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		clean.Images = append(clean.Images, strings.TrimSpace(img))
	}

	ve := &validation.ValidationErrors{}
	if err := s.validator.ValidateValue(&clean, inputSchema); err != nil {
		schemaErrs := validation.GetValidationErrors(err)
		if schemaErrs == nil {
			return nil, err
		}
		ve.Errors = append(ve.Errors, schemaErrs.Errors...)
	}

	priceValue, err := ParseDisplayPrice(clean.Price)
	switch {
	case errors.Is(err, ErrPriceOutOfRange):
		ve.Add("price", "preço acima do valor máximo aceito")
	case err != nil && clean.Price != "":
		ve.Add("price", "preço sem valor numérico")
	}
	if clean.Suites > clean.Bedrooms {
		ve.Add("suites", "suítes não podem exceder o número de quartos")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	l := &Listing{
		Title:         clean.Title,
		Type:          clean.Type,
		Price:         clean.Price,
		PriceValue:    priceValue,
		Location:      clean.Location,
		Bedrooms:      clean.Bedrooms,
		Bathrooms:     clean.Bathrooms,
		Suites:        clean.Suites,
		Area:          clean.Area,
		CoveredGarage: clean.CoveredGarage,
		Featured:      clean.Featured,
		Images:        clean.Images,
		Notes:         clean.Notes,
	}
	l.syncCover()
	return l, nil
}

func (s *Service) publish(ctx context.Context, subject string, event Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, subject, event); err != nil {
		s.log.Warn("failed to publish listing event", zap.String("subject", subject), zap.Error(err))
	}
}
