package listing

import (
	"fmt"
	"strings"
)

// PublicOrder is the ordering of the public catalog: featured first, then
// newest first.
const PublicOrder = "featured DESC, created_at DESC"

// Query is the WHERE part of a listing search with its positional arguments.
type Query struct {
	Conditions []string
	Args       []interface{}
}

func (q Query) Where() string {
	if len(q.Conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(q.Conditions, " AND ")
}

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{argID: 1}
}

func (qb *queryBuilder) addCondition(condition, field string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, field, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

func (qb *queryBuilder) addLiteral(condition string) {
	qb.conditions = append(qb.conditions, condition)
}

func (qb *queryBuilder) build() Query {
	return Query{Conditions: qb.conditions, Args: qb.args}
}

// BuildQuery turns criteria into SQL conditions over the listings table.
// Only active criteria contribute; empty criteria produce no WHERE clause.
func BuildQuery(c Criteria) Query {
	qb := newQueryBuilder()

	if c.Term != "" {
		qb.addCondition("%s ILIKE $%d", "title", containsPattern(c.Term))
	}
	if c.Location != "" {
		qb.addCondition("%s ILIKE $%d", "location", containsPattern(c.Location))
	}
	if c.Type != "" {
		qb.addCondition("%s = $%d", "type", c.Type)
	}
	if c.MinBedrooms != nil {
		qb.addCondition("%s >= $%d", "bedrooms", *c.MinBedrooms)
	}
	if c.MinBathrooms != nil {
		qb.addCondition("%s >= $%d", "bathrooms", *c.MinBathrooms)
	}

	switch c.SuitesMode {
	case SuitesNone:
		qb.addLiteral("suites = 0")
	case SuitesAtLeast:
		qb.addCondition("%s >= $%d", "suites", c.MinSuites)
	}

	if c.GarageRequired {
		qb.addLiteral("covered_garage = true")
	}
	if c.PriceMin != nil {
		qb.addCondition("%s >= $%d", "price_value", c.PriceMin.String())
	}
	if c.PriceMax != nil {
		qb.addCondition("%s <= $%d", "price_value", c.PriceMax.String())
	}

	return qb.build()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
