package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/contacthub/backend/internal/model"
	"github.com/contacthub/backend/internal/service"
)

// ContactHandler handles the contact CRUD endpoints.
type ContactHandler struct {
	contacts service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contacts service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// contactID parses the {id} path segment. A non-numeric id reads as not found,
// matching the behavior of looking up an id that cannot exist.
func contactID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// List handles GET /api/contacts.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Return [] not null for empty lists
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

// Create handles POST /api/contacts.
// firstName, lastName, phoneNumber and email are all required.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.CreateContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	c, err := h.contacts.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Get handles GET /api/contacts/{id}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	c, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Update handles PUT /api/contacts/{id}. The body is a partial update: absent
// fields are left unchanged, explicit empty strings overwrite.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	var in model.UpdateContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	c, err := h.contacts.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/contacts/{id} and returns the deleted snapshot.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	c, err := h.contacts.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
