package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/contacthub/backend/internal/model"
	"github.com/contacthub/backend/internal/repository"
	"github.com/contacthub/backend/internal/storage"
	"github.com/google/uuid"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo  repository.ContactRepository
	blobs storage.Storage
}

// NewContactService creates a ContactService backed by the given repository
// and blob store.
func NewContactService(repo repository.ContactRepository, blobs storage.Storage) ContactService {
	return &contactServiceImpl{repo: repo, blobs: blobs}
}

func (s *contactServiceImpl) Create(ctx context.Context, in model.CreateContactInput) (*model.Contact, error) {
	switch {
	case in.FirstName == "":
		return nil, &ValidationError{Field: "firstName"}
	case in.LastName == "":
		return nil, &ValidationError{Field: "lastName"}
	case in.PhoneNumber == "":
		return nil, &ValidationError{Field: "phoneNumber"}
	case in.Email == "":
		return nil, &ValidationError{Field: "email"}
	}

	now := time.Now().UTC()
	c := &model.Contact{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contactServiceImpl) Get(ctx context.Context, id int64) (*model.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *contactServiceImpl) List(ctx context.Context) ([]*model.Contact, error) {
	return s.repo.List(ctx)
}

func (s *contactServiceImpl) Update(ctx context.Context, id int64, in model.UpdateContactInput) (*model.Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		c.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		c.LastName = *in.LastName
	}
	if in.PhoneNumber != nil {
		c.PhoneNumber = *in.PhoneNumber
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contactServiceImpl) Delete(ctx context.Context, id int64) (*model.Contact, error) {
	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	// The row is gone; the blob would otherwise be orphaned. Cleanup is
	// best-effort — a failed delete leaves an orphan for out-of-band cleanup.
	if c.Photo != nil {
		if err := s.blobs.Delete(ctx, *c.Photo); err != nil {
			slog.Warn("photo blob cleanup failed after contact delete",
				"contact_id", id, "blob", *c.Photo, "error", err)
		}
	}
	return c, nil
}

func (s *contactServiceImpl) AttachPhoto(ctx context.Context, id int64, data []byte, contentType, filename string) (*model.Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := photoBlobName(id, filename)
	if err := s.blobs.Put(ctx, name, bytes.NewReader(data), contentType); err != nil {
		return nil, err
	}

	old := c.Photo
	now := time.Now().UTC()
	if err := s.repo.UpdatePhoto(ctx, id, &name, now); err != nil {
		// The new blob is unreferenced; the old reference (if any) is
		// still intact, so the contact never loses a valid photo.
		slog.Warn("photo reference update failed, new blob left unreferenced",
			"contact_id", id, "blob", name, "error", err)
		return nil, err
	}
	c.Photo = &name
	c.UpdatedAt = now

	// Only after the new reference is durably recorded may the old blob go.
	if old != nil {
		if err := s.blobs.Delete(ctx, *old); err != nil {
			slog.Warn("previous photo blob delete failed",
				"contact_id", id, "blob", *old, "error", err)
		}
	}
	return c, nil
}

func (s *contactServiceImpl) DetachPhoto(ctx context.Context, id int64) (*model.Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Photo == nil {
		return c, nil
	}

	old := *c.Photo
	now := time.Now().UTC()
	if err := s.repo.UpdatePhoto(ctx, id, nil, now); err != nil {
		return nil, err
	}
	c.Photo = nil
	c.UpdatedAt = now

	if err := s.blobs.Delete(ctx, old); err != nil {
		slog.Warn("photo blob delete failed on detach",
			"contact_id", id, "blob", old, "error", err)
	}
	return c, nil
}

func (s *contactServiceImpl) ReadPhoto(ctx context.Context, id int64) (*storage.Object, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Photo == nil {
		return nil, repository.ErrNotFound
	}

	obj, err := s.blobs.Get(ctx, *c.Photo)
	if err != nil {
		// A dangling reference reads the same as no photo.
		if errors.Is(err, storage.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return obj, nil
}

// photoBlobName builds a globally unique blob name scoped under the contact
// id, e.g. "contacts/42/6f1a….jpg". The filename extension is kept only when
// it is 1–5 characters after the dot; anything longer (or absent) is dropped.
func photoBlobName(id int64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if n := len(ext) - 1; n < 1 || n > 5 {
		ext = ""
	}
	return fmt.Sprintf("contacts/%d/%s%s", id, uuid.NewString(), ext)
}
