package service

import (
	"context"
	"fmt"

	"github.com/contacthub/backend/internal/model"
	"github.com/contacthub/backend/internal/storage"
)

// ValidationError reports a missing or invalid required input field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// ContactService owns the lifecycle of a contact record, including the
// photo-attachment workflow that keeps the database row and the blob store
// in an eventually-consistent relationship.
type ContactService interface {
	// Create stores a new contact with no photo. All four input fields are
	// required; a missing one yields a *ValidationError.
	Create(ctx context.Context, in model.CreateContactInput) (*model.Contact, error)

	// Get returns the contact, or repository.ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Contact, error)

	// List returns all contacts ordered by id ascending.
	List(ctx context.Context) ([]*model.Contact, error)

	// Update applies a partial update: nil fields are left untouched,
	// non-nil fields overwrite (an explicit empty string is a valid
	// overwrite). UpdatedAt is refreshed even for an empty partial.
	Update(ctx context.Context, id int64, in model.UpdateContactInput) (*model.Contact, error)

	// Delete removes the contact and returns the deleted snapshot. An
	// attached photo blob is deleted best-effort after the row is gone.
	Delete(ctx context.Context, id int64) (*model.Contact, error)

	// AttachPhoto stores the photo bytes under a fresh blob name, records
	// the reference on the contact, then best-effort deletes the previous
	// blob. The old blob is never deleted before the new reference is
	// durably recorded.
	AttachPhoto(ctx context.Context, id int64, data []byte, contentType, filename string) (*model.Contact, error)

	// DetachPhoto clears the photo reference and best-effort deletes the
	// blob. Detaching a contact without a photo is a successful no-op.
	DetachPhoto(ctx context.Context, id int64) (*model.Contact, error)

	// ReadPhoto returns the photo bytes. A contact without a photo, or
	// with a reference whose blob is gone, reads as repository.ErrNotFound.
	ReadPhoto(ctx context.Context, id int64) (*storage.Object, error)
}
