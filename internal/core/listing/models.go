package listing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Common property types offered by the public filter. The set is open:
// listings may carry any non-empty type.
var Types = []string{"Apartamento", "Casa", "Cobertura", "Studio", "Sobrado", "Loft"}

type Listing struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Type          string          `json:"type"`
	Price         string          `json:"price"`
	PriceValue    decimal.Decimal `json:"price_value"`
	Location      string          `json:"location"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     int             `json:"bathrooms"`
	Suites        int             `json:"suites"`
	Area          int             `json:"area"`
	CoveredGarage bool            `json:"covered_garage"`
	Featured      bool            `json:"featured"`
	Images        []string        `json:"images"`
	CoverImage    string          `json:"cover_image"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// syncCover keeps CoverImage pointing at the first image.
func (l *Listing) syncCover() {
	if len(l.Images) > 0 {
		l.CoverImage = l.Images[0]
	} else {
		l.CoverImage = ""
	}
}

func (l *Listing) clone() *Listing {
	cp := *l
	cp.Images = append([]string(nil), l.Images...)
	return &cp
}

// Input carries the admin-editable fields of a listing. Updates replace the
// whole record with the submitted values.
type Input struct {
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	Price         string   `json:"price"`
	Location      string   `json:"location"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Suites        int      `json:"suites"`
	Area          int      `json:"area"`
	CoveredGarage bool     `json:"covered_garage"`
	Featured      bool     `json:"featured"`
	Images        []string `json:"images"`
	Notes         string   `json:"notes"`
}

// SearchResult is what the public catalog renders. Degraded results carry a
// diagnostic instead of an error so the page still loads.
type SearchResult struct {
	Listings   []*Listing `json:"listings"`
	Total      int        `json:"total"`
	Example    bool       `json:"example"`
	Degraded   bool       `json:"degraded,omitempty"`
	Diagnostic string     `json:"diagnostic,omitempty"`
	Query      string     `json:"query"`
}
