package contact

import (
	"context"
	"database/sql"

	"github.com/imoveis/catalog/internal/storage/postgres"
)

type Repository interface {
	// List returns all messages, newest first.
	List(ctx context.Context) ([]*Message, error)
	// Create stores the message in a single write.
	Create(ctx context.Context, m *Message) error
	// MarkRead sets the read flag. Repeated calls succeed.
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type PostgresRepository struct {
	db *postgres.Client
}

func NewPostgresRepository(db *postgres.Client) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Message, error) {
	query := `
		SELECT id, name, email, phone, body, read, created_at
		FROM contact_messages
		ORDER BY created_at DESC`

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO contact_messages (id, name, email, phone, body, read)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING created_at`
	return r.db.DB.QueryRowContext(ctx, query,
		m.ID, m.Name, m.Email, m.Phone, m.Body,
	).Scan(&m.CreatedAt)
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `UPDATE contact_messages SET read = true WHERE id = $1`, id)
	return checkAffected(result, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	return checkAffected(result, err)
}

func checkAffected(result sql.Result, err error) error {
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
