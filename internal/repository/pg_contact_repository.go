package repository

import (
	"context"
	"errors"
	"time"

	"github.com/contacthub/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository defines the persistence interface for contacts.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) error
	GetByID(ctx context.Context, id int64) (*model.Contact, error)
	List(ctx context.Context) ([]*model.Contact, error)
	Update(ctx context.Context, c *model.Contact) error
	Delete(ctx context.Context, id int64) (*model.Contact, error)
	UpdatePhoto(ctx context.Context, id int64, photo *string, updatedAt time.Time) error
}

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

const contactColumns = `id, first_name, last_name, phone_number, email, photo, created_at, updated_at`

func scanContact(row pgx.Row) (*model.Contact, error) {
	var c model.Contact
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Email, &c.Photo, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new contacts row and populates c.ID from the database
// RETURNING clause. Timestamps are supplied by the caller.
func (r *PgContactRepository) Create(ctx context.Context, c *model.Contact) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contacts (first_name, last_name, phone_number, email, photo, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		c.FirstName, c.LastName, c.PhoneNumber, c.Email, c.Photo, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

// GetByID returns the contact with the given id, or ErrNotFound.
func (r *PgContactRepository) GetByID(ctx context.Context, id int64) (*model.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
}

// List returns all contacts ordered by id ascending.
func (r *PgContactRepository) List(ctx context.Context) ([]*model.Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Email, &c.Photo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

// Update overwrites all mutable fields of the row identified by c.ID.
func (r *PgContactRepository) Update(ctx context.Context, c *model.Contact) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contacts
		 SET first_name = $2, last_name = $3, phone_number = $4, email = $5, updated_at = $6
		 WHERE id = $1`,
		c.ID, c.FirstName, c.LastName, c.PhoneNumber, c.Email, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row and returns the deleted snapshot, or ErrNotFound.
func (r *PgContactRepository) Delete(ctx context.Context, id int64) (*model.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx,
		`DELETE FROM contacts WHERE id = $1 RETURNING `+contactColumns, id))
}

// UpdatePhoto sets (or clears, with nil) the photo blob reference.
func (r *PgContactRepository) UpdatePhoto(ctx context.Context, id int64, photo *string, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contacts SET photo = $2, updated_at = $3 WHERE id = $1`,
		id, photo, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
