package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Query parameter names of the shareable catalog URL.
const (
	ParamTerm      = "termo"
	ParamLocation  = "localizacao"
	ParamPriceMin  = "precoMin"
	ParamPriceMax  = "precoMax"
	ParamType      = "tipo"
	ParamBedrooms  = "quartos"
	ParamBathrooms = "banheiros"
	ParamSuites    = "suites"
	ParamGarage    = "garagem"
)

// Values the public form uses for "no constraint". They are accepted on input
// and never written back out.
const (
	SentinelAnyType   = "todos"
	SentinelAnyCount  = "qualquer"
	SentinelAnyGarage = "indiferente"
	garageRequired    = "sim"
)

// Filter is the public filter form state. A nil count means "any"; Suites
// set to zero means "exactly zero suites".
type Filter struct {
	Term           string
	Location       string
	PriceMin       string
	PriceMax       string
	Type           string
	MinBedrooms    *int
	MinBathrooms   *int
	Suites         *int
	GarageRequired bool
}

// DecodeFilter reads a filter from query parameters. Unknown keys, sentinels
// and malformed counts are treated as absent.
func DecodeFilter(values url.Values) Filter {
	f := Filter{
		Term:     values.Get(ParamTerm),
		Location: values.Get(ParamLocation),
		PriceMin: values.Get(ParamPriceMin),
		PriceMax: values.Get(ParamPriceMax),
	}

	if t := values.Get(ParamType); t != SentinelAnyType {
		f.Type = t
	}
	f.MinBedrooms = decodeCount(values.Get(ParamBedrooms))
	f.MinBathrooms = decodeCount(values.Get(ParamBathrooms))
	f.Suites = decodeCount(values.Get(ParamSuites))
	f.GarageRequired = values.Get(ParamGarage) == garageRequired

	return f
}

func decodeCount(raw string) *int {
	if raw == "" || raw == SentinelAnyCount {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// Encode writes the active parts of the filter as query parameters.
// DecodeFilter(f.Encode()) returns f for every filter DecodeFilter can
// produce.
func (f Filter) Encode() url.Values {
	values := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}

	setIf(ParamTerm, f.Term)
	setIf(ParamLocation, f.Location)
	setIf(ParamPriceMin, f.PriceMin)
	setIf(ParamPriceMax, f.PriceMax)
	if f.Type != SentinelAnyType {
		setIf(ParamType, f.Type)
	}
	if f.MinBedrooms != nil {
		values.Set(ParamBedrooms, strconv.Itoa(*f.MinBedrooms))
	}
	if f.MinBathrooms != nil {
		values.Set(ParamBathrooms, strconv.Itoa(*f.MinBathrooms))
	}
	if f.Suites != nil {
		values.Set(ParamSuites, strconv.Itoa(*f.Suites))
	}
	if f.GarageRequired {
		values.Set(ParamGarage, garageRequired)
	}

	return values
}

// QueryString is the canonical shareable query, sorted by key.
func (f Filter) QueryString() string {
	return f.Encode().Encode()
}

type SuitesMode int

const (
	SuitesAny SuitesMode = iota
	SuitesNone
	SuitesAtLeast
)

// Criteria is the normalized set of active constraints. The SQL builder and
// the in-memory matcher both consume it, which keeps the two data sources in
// agreement.
type Criteria struct {
	Term           string
	Location       string
	Type           string
	MinBedrooms    *int
	MinBathrooms   *int
	SuitesMode     SuitesMode
	MinSuites      int
	GarageRequired bool
	PriceMin       *decimal.Decimal
	PriceMax       *decimal.Decimal
}

func (f Filter) Criteria() Criteria {
	c := Criteria{
		Term:           strings.TrimSpace(f.Term),
		Location:       strings.TrimSpace(f.Location),
		GarageRequired: f.GarageRequired,
		PriceMin:       parseBound(f.PriceMin),
		PriceMax:       parseBound(f.PriceMax),
	}

	if f.Type != SentinelAnyType {
		c.Type = strings.TrimSpace(f.Type)
	}
	if f.MinBedrooms != nil && *f.MinBedrooms >= 0 {
		n := *f.MinBedrooms
		c.MinBedrooms = &n
	}
	if f.MinBathrooms != nil && *f.MinBathrooms >= 0 {
		n := *f.MinBathrooms
		c.MinBathrooms = &n
	}
	if f.Suites != nil {
		switch {
		case *f.Suites == 0:
			c.SuitesMode = SuitesNone
		case *f.Suites > 0:
			c.SuitesMode = SuitesAtLeast
			c.MinSuites = *f.Suites
		}
	}

	return c
}

// IsEmpty reports whether the criteria match every listing.
func (c Criteria) IsEmpty() bool {
	return c.Term == "" && c.Location == "" && c.Type == "" &&
		c.MinBedrooms == nil && c.MinBathrooms == nil &&
		c.SuitesMode == SuitesAny && !c.GarageRequired &&
		c.PriceMin == nil && c.PriceMax == nil
}
