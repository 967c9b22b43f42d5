package model

import "time"

// Contact represents a single address-book entry. Photo holds the blob name
// of the attached photo, or nil when no photo is attached.
type Contact struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	Photo       *string   `json:"photo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateContactInput carries the fields for creating a contact.
// All fields are required.
type CreateContactInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// UpdateContactInput carries a partial update. A nil field is left unchanged;
// a non-nil field overwrites, even when it points at an empty string.
type UpdateContactInput struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
}
