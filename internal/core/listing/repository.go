package listing

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/imoveis/catalog/internal/storage/postgres"
)

// Repository is the listing store. The server picks the Postgres or the
// in-memory implementation at startup.
type Repository interface {
	// List returns listings matching the criteria in public order.
	List(ctx context.Context, c Criteria) ([]*Listing, error)
	// ListAll returns every listing, newest first.
	ListAll(ctx context.Context) ([]*Listing, error)
	// GetByID returns nil, nil when no listing has the id.
	GetByID(ctx context.Context, id string) (*Listing, error)
	Create(ctx context.Context, l *Listing) error
	// Update replaces every editable field. ErrNotFound for unknown ids.
	Update(ctx context.Context, l *Listing) error
	// Delete removes the listing. ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
}

const listingColumns = `id, title, type, price, price_value, location, bedrooms, bathrooms, suites,
		area, covered_garage, featured, images, notes, created_at, updated_at`

type PostgresRepository struct {
	db *postgres.Client
}

func NewPostgresRepository(db *postgres.Client) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, c Criteria) ([]*Listing, error) {
	q := BuildQuery(c)
	query := fmt.Sprintf(`
		SELECT %s
		FROM listings
		%s
		ORDER BY %s`, listingColumns, q.Where(), PublicOrder)

	rows, err := r.db.DB.QueryContext(ctx, query, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanListings(rows)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings ORDER BY created_at DESC`, listingColumns)

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanListings(rows)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = $1`, listingColumns)
	l, err := r.scanListing(r.db.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return l, err
}

func (r *PostgresRepository) Create(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (id, title, type, price, price_value, location, bedrooms, bathrooms,
			suites, area, covered_garage, featured, images, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`
	return r.db.DB.QueryRowContext(ctx, query,
		l.ID, l.Title, l.Type, l.Price, l.PriceValue, l.Location, l.Bedrooms, l.Bathrooms,
		l.Suites, l.Area, l.CoveredGarage, l.Featured, pq.Array(l.Images), l.Notes,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *PostgresRepository) Update(ctx context.Context, l *Listing) error {
	query := `
		UPDATE listings
		SET title = $2, type = $3, price = $4, price_value = $5, location = $6, bedrooms = $7,
			bathrooms = $8, suites = $9, area = $10, covered_garage = $11, featured = $12,
			images = $13, notes = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.db.DB.QueryRowContext(ctx, query,
		l.ID, l.Title, l.Type, l.Price, l.PriceValue, l.Location, l.Bedrooms, l.Bathrooms,
		l.Suites, l.Area, l.CoveredGarage, l.Featured, pq.Array(l.Images), l.Notes,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresRepository) scanListing(row rowScanner) (*Listing, error) {
	l := &Listing{}
	err := row.Scan(
		&l.ID, &l.Title, &l.Type, &l.Price, &l.PriceValue, &l.Location, &l.Bedrooms, &l.Bathrooms,
		&l.Suites, &l.Area, &l.CoveredGarage, &l.Featured, pq.Array(&l.Images), &l.Notes,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.syncCover()
	return l, nil
}

func (r *PostgresRepository) scanListings(rows *sql.Rows) ([]*Listing, error) {
	var listings []*Listing
	for rows.Next() {
		l, err := r.scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
