package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/contacthub/backend/internal/model"
	"github.com/contacthub/backend/internal/service"
)

const maxPhotoSize = 5 << 20 // 5 MB

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// PhotoHandler handles attaching, detaching and serving contact photos.
type PhotoHandler struct {
	contacts service.ContactService
}

// NewPhotoHandler creates a PhotoHandler with the given service.
func NewPhotoHandler(contacts service.ContactService) *PhotoHandler {
	return &PhotoHandler{contacts: contacts}
}

// photoResponse is the JSON body for attach and detach.
type photoResponse struct {
	OK      bool           `json:"ok"`
	Contact *model.Contact `json:"contact"`
}

// Attach handles POST /api/contacts/{id}/photo. The photo is the multipart
// part named "file".
func (h *PhotoHandler) Attach(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoSize {
		writeError(w, http.StatusBadRequest, "file too large")
		return
	}

	ct := header.Header.Get("Content-Type")
	if !allowedPhotoTypes[ct] {
		writeError(w, http.StatusBadRequest, "unsupported content type")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "file read failed")
		return
	}
	if len(data) > maxPhotoSize {
		writeError(w, http.StatusBadRequest, "file too large")
		return
	}

	c, err := h.contacts.AttachPhoto(r.Context(), id, data, ct, header.Filename)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, photoResponse{OK: true, Contact: c})
}

// Detach handles DELETE /api/contacts/{id}/photo. Detaching a contact that
// has no photo succeeds.
func (h *PhotoHandler) Detach(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	c, err := h.contacts.DetachPhoto(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photoResponse{OK: true, Contact: c})
}

// Read handles GET /api/contacts/{id}/photo and streams the raw bytes.
func (h *PhotoHandler) Read(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Contact not found")
		return
	}

	obj, err := h.contacts.ReadPhoto(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	if obj.ETag != "" {
		w.Header().Set("ETag", obj.ETag)
	}
	_, _ = io.Copy(w, obj.Body)
}
