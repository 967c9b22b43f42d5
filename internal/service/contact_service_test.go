package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/contacthub/backend/internal/model"
	"github.com/contacthub/backend/internal/repository"
	"github.com/contacthub/backend/internal/storage"
)

// ---------------------------------------------------------------------------
// In-memory fakes. Both append to a shared operation log so tests can assert
// the ordering of cross-store calls, not just the end state.
// ---------------------------------------------------------------------------

type fakeContactRepository struct {
	ops      *[]string
	nextID   int64
	contacts map[int64]*model.Contact

	updatePhotoErr error
}

func newFakeRepo(ops *[]string) *fakeContactRepository {
	return &fakeContactRepository{ops: ops, nextID: 1, contacts: map[int64]*model.Contact{}}
}

func (f *fakeContactRepository) log(format string, args ...any) {
	*f.ops = append(*f.ops, fmt.Sprintf(format, args...))
}

func (f *fakeContactRepository) Create(_ context.Context, c *model.Contact) error {
	c.ID = f.nextID
	f.nextID++
	clone := *c
	f.contacts[c.ID] = &clone
	f.log("repo.create:%d", c.ID)
	return nil
}

func (f *fakeContactRepository) GetByID(_ context.Context, id int64) (*model.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeContactRepository) List(_ context.Context) ([]*model.Contact, error) {
	var out []*model.Contact
	for id := int64(1); id < f.nextID; id++ {
		if c, ok := f.contacts[id]; ok {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeContactRepository) Update(_ context.Context, c *model.Contact) error {
	if _, ok := f.contacts[c.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *c
	f.contacts[c.ID] = &clone
	f.log("repo.update:%d", c.ID)
	return nil
}

func (f *fakeContactRepository) Delete(_ context.Context, id int64) (*model.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.contacts, id)
	f.log("repo.delete:%d", id)
	return c, nil
}

func (f *fakeContactRepository) UpdatePhoto(_ context.Context, id int64, photo *string, updatedAt time.Time) error {
	if f.updatePhotoErr != nil {
		return f.updatePhotoErr
	}
	c, ok := f.contacts[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Photo = photo
	c.UpdatedAt = updatedAt
	if photo == nil {
		f.log("repo.updatePhoto:%d:nil", id)
	} else {
		f.log("repo.updatePhoto:%d:%s", id, *photo)
	}
	return nil
}

type blobEntry struct {
	data        []byte
	contentType string
}

type fakeBlobStorage struct {
	ops   *[]string
	blobs map[string]blobEntry

	putErr    error
	deleteErr error
}

func newFakeBlobs(ops *[]string) *fakeBlobStorage {
	return &fakeBlobStorage{ops: ops, blobs: map[string]blobEntry{}}
}

func (f *fakeBlobStorage) Put(_ context.Context, name string, data io.Reader, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.blobs[name] = blobEntry{data: b, contentType: contentType}
	*f.ops = append(*f.ops, "blob.put:"+name)
	return nil
}

func (f *fakeBlobStorage) Get(_ context.Context, name string) (*storage.Object, error) {
	e, ok := f.blobs[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{
		Body:          io.NopCloser(strings.NewReader(string(e.data))),
		ContentType:   e.contentType,
		ContentLength: int64(len(e.data)),
		ETag:          "fake-etag",
	}, nil
}

func (f *fakeBlobStorage) Delete(_ context.Context, name string) error {
	*f.ops = append(*f.ops, "blob.delete:"+name)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.blobs, name)
	return nil
}

func newTestService(t *testing.T) (ContactService, *fakeContactRepository, *fakeBlobStorage, *[]string) {
	t.Helper()
	ops := &[]string{}
	repo := newFakeRepo(ops)
	blobs := newFakeBlobs(ops)
	return NewContactService(repo, blobs), repo, blobs, ops
}

func mustCreate(t *testing.T, svc ContactService) *model.Contact {
	t.Helper()
	c, err := svc.Create(context.Background(), model.CreateContactInput{
		FirstName:   "Alice",
		LastName:    "Smith",
		PhoneNumber: "123-456-7890",
		Email:       "alice@example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return c
}

func mustAttach(t *testing.T, svc ContactService, id int64, data []byte, filename string) *model.Contact {
	t.Helper()
	c, err := svc.AttachPhoto(context.Background(), id, data, "image/jpeg", filename)
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestContactService_Create_SetsTimestampsAndNoPhoto(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	c := mustCreate(t, svc)

	if c.ID == 0 {
		t.Error("expected an assigned id")
	}
	if c.Photo != nil {
		t.Errorf("expected photo=nil, got %q", *c.Photo)
	}
	if !c.CreatedAt.Equal(c.UpdatedAt) {
		t.Errorf("expected createdAt == updatedAt, got %v / %v", c.CreatedAt, c.UpdatedAt)
	}
}

func TestContactService_Create_RequiredFields(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	valid := model.CreateContactInput{
		FirstName: "Alice", LastName: "Smith", PhoneNumber: "123", Email: "a@example.com",
	}
	cases := []struct {
		field string
		mod   func(*model.CreateContactInput)
	}{
		{"firstName", func(in *model.CreateContactInput) { in.FirstName = "" }},
		{"lastName", func(in *model.CreateContactInput) { in.LastName = "" }},
		{"phoneNumber", func(in *model.CreateContactInput) { in.PhoneNumber = "" }},
		{"email", func(in *model.CreateContactInput) { in.Email = "" }},
	}

	for _, tc := range cases {
		in := valid
		tc.mod(&in)
		_, err := svc.Create(context.Background(), in)

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %v", tc.field, err)
			continue
		}
		if ve.Field != tc.field {
			t.Errorf("expected field %q, got %q", tc.field, ve.Field)
		}
	}
	if len(repo.contacts) != 0 {
		t.Errorf("expected no inserts for invalid input, got %d", len(repo.contacts))
	}
}

// ---------------------------------------------------------------------------
// Missing-id behavior
// ---------------------------------------------------------------------------

func TestContactService_MissingID_AllOperationsNotFound(t *testing.T) {
	svc, repo, blobs, ops := newTestService(t)
	ctx := context.Background()
	const id = int64(99)

	checks := map[string]func() error{
		"get": func() error { _, err := svc.Get(ctx, id); return err },
		"update": func() error {
			_, err := svc.Update(ctx, id, model.UpdateContactInput{})
			return err
		},
		"delete": func() error { _, err := svc.Delete(ctx, id); return err },
		"attachPhoto": func() error {
			_, err := svc.AttachPhoto(ctx, id, []byte("x"), "image/png", "x.png")
			return err
		},
		"detachPhoto": func() error { _, err := svc.DetachPhoto(ctx, id); return err },
		"readPhoto":   func() error { _, err := svc.ReadPhoto(ctx, id); return err },
	}

	for name, call := range checks {
		if err := call(); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
	if len(*ops) != 0 {
		t.Errorf("expected no store mutations, got %v", *ops)
	}
	if len(repo.contacts) != 0 || len(blobs.blobs) != 0 {
		t.Error("expected stores to remain empty")
	}
}

// ---------------------------------------------------------------------------
// Update tests
// ---------------------------------------------------------------------------

func TestContactService_Update_PartialFields(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	c := mustCreate(t, svc)

	first := "Alicia"
	got, err := svc.Update(context.Background(), c.ID, model.UpdateContactInput{FirstName: &first})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.FirstName != "Alicia" {
		t.Errorf("expected firstName=Alicia, got %q", got.FirstName)
	}
	if got.LastName != "Smith" || got.Email != "alice@example.com" {
		t.Error("expected omitted fields to be unchanged")
	}
}

func TestContactService_Update_ExplicitEmptyStringOverwrites(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	c := mustCreate(t, svc)

	empty := ""
	got, err := svc.Update(context.Background(), c.ID, model.UpdateContactInput{Email: &empty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Email != "" {
		t.Errorf("expected email overwritten with empty string, got %q", got.Email)
	}
	if got.FirstName != "Alice" {
		t.Errorf("expected firstName unchanged, got %q", got.FirstName)
	}
}

func TestContactService_Update_EmptyPartialRefreshesUpdatedAt(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	c := mustCreate(t, svc)
	time.Sleep(2 * time.Millisecond)

	got, err := svc.Update(context.Background(), c.ID, model.UpdateContactInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.FirstName != c.FirstName || got.Email != c.Email {
		t.Error("expected all fields unchanged")
	}
	if !got.UpdatedAt.After(c.UpdatedAt) {
		t.Errorf("expected updatedAt refreshed: %v -> %v", c.UpdatedAt, got.UpdatedAt)
	}
}

// ---------------------------------------------------------------------------
// Delete tests
// ---------------------------------------------------------------------------

func TestContactService_Delete_ReturnsSnapshot(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	c := mustCreate(t, svc)

	got, err := svc.Delete(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != c.ID || got.FirstName != "Alice" {
		t.Errorf("expected deleted snapshot, got %+v", got)
	}
	if len(repo.contacts) != 0 {
		t.Error("expected row to be gone")
	}
}

func TestContactService_Delete_CascadesPhotoBlob(t *testing.T) {
	svc, _, blobs, _ := newTestService(t)
	c := mustCreate(t, svc)
	c = mustAttach(t, svc, c.ID, []byte("jpeg!"), "a.jpg")

	if _, err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blobs.blobs) != 0 {
		t.Errorf("expected photo blob deleted with the contact, still have %d", len(blobs.blobs))
	}
}

func TestContactService_Delete_BlobCleanupFailureIgnored(t *testing.T) {
	svc, _, blobs, _ := newTestService(t)
	c := mustCreate(t, svc)
	mustAttach(t, svc, c.ID, []byte("jpeg!"), "a.jpg")

	blobs.deleteErr = errors.New("blob store down")
	if _, err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("expected delete to succeed despite blob failure, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// AttachPhoto tests
// ---------------------------------------------------------------------------

func TestContactService_AttachPhoto_BlobNameScopedUnderContact(t *testing.T) {
	svc, _, blobs, _ := newTestService(t)
	c := mustCreate(t, svc)

	got := mustAttach(t, svc, c.ID, []byte("jpeg!"), "a.jpg")

	if got.Photo == nil {
		t.Fatal("expected photo reference to be set")
	}
	prefix := fmt.Sprintf("contacts/%d/", c.ID)
	if !strings.HasPrefix(*got.Photo, prefix) {
		t.Errorf("expected blob name under %q, got %q", prefix, *got.Photo)
	}
	if !strings.HasSuffix(*got.Photo, ".jpg") {
		t.Errorf("expected .jpg extension kept, got %q", *got.Photo)
	}
	if _, ok := blobs.blobs[*got.Photo]; !ok {
		t.Error("expected blob written under the referenced name")
	}
}

func TestContactService_AttachPhoto_ExtensionRules(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	cases := []struct {
		filename string
		wantExt  string
	}{
		{"a.jpg", ".jpg"},
		{"photo.jpeg", ".jpeg"},
		{"UPPER.PNG", ".png"},
		{"archive.verylong", ""}, // longer than 5 chars: dropped
		{"noextension", ""},
		{"", ""},
		{"trailingdot.", ""},
	}

	for _, tc := range cases {
		c := mustCreate(t, svc)
		got := mustAttach(t, svc, c.ID, []byte("x"), tc.filename)
		name := *got.Photo
		if tc.wantExt == "" {
			if strings.Contains(name[strings.LastIndex(name, "/"):], ".") {
				t.Errorf("%q: expected extension dropped, got %q", tc.filename, name)
			}
		} else if !strings.HasSuffix(name, tc.wantExt) {
			t.Errorf("%q: expected suffix %q, got %q", tc.filename, tc.wantExt, name)
		}
	}
}

func TestContactService_AttachPhoto_ReplaceKeepsWriteBeforeDeleteOrder(t *testing.T) {
	svc, _, blobs, ops := newTestService(t)
	c := mustCreate(t, svc)
	first := mustAttach(t, svc, c.ID, []byte("one"), "a.jpg")

	*ops = (*ops)[:0]
	second := mustAttach(t, svc, c.ID, []byte("two"), "b.png")

	if *second.Photo == *first.Photo {
		t.Fatal("expected a fresh blob name on replace")
	}
	want := []string{
		"blob.put:" + *second.Photo,
		"repo.updatePhoto:" + fmt.Sprintf("%d:%s", c.ID, *second.Photo),
		"blob.delete:" + *first.Photo,
	}
	if len(*ops) != len(want) {
		t.Fatalf("expected ops %v, got %v", want, *ops)
	}
	for i := range want {
		if (*ops)[i] != want[i] {
			t.Errorf("op[%d]: expected %q, got %q", i, want[i], (*ops)[i])
		}
	}
	if _, ok := blobs.blobs[*first.Photo]; ok {
		t.Error("expected old blob deleted")
	}
}

func TestContactService_AttachPhoto_OldBlobDeleteFailureIgnored(t *testing.T) {
	svc, _, blobs, _ := newTestService(t)
	c := mustCreate(t, svc)
	first := mustAttach(t, svc, c.ID, []byte("one"), "a.jpg")

	blobs.deleteErr = errors.New("delete refused")
	second, err := svc.AttachPhoto(context.Background(), c.ID, []byte("two"), "image/png", "b.png")
	if err != nil {
		t.Fatalf("expected attach to succeed despite old-blob delete failure, got %v", err)
	}
	if *second.Photo == *first.Photo {
		t.Error("expected the reference to have switched to the new blob")
	}

	got, _ := svc.Get(context.Background(), c.ID)
	if got.Photo == nil || *got.Photo != *second.Photo {
		t.Error("expected the stored reference to be the new blob")
	}
}

func TestContactService_AttachPhoto_BlobWriteFailureAborts(t *testing.T) {
	svc, _, blobs, _ := newTestService(t)
	c := mustCreate(t, svc)
	first := mustAttach(t, svc, c.ID, []byte("one"), "a.jpg")

	blobs.putErr = errors.New("blob store down")
	_, err := svc.AttachPhoto(context.Background(), c.ID, []byte("two"), "image/png", "b.png")
	if err == nil {
		t.Fatal("expected error when the new blob write fails")
	}

	// The old photo must still be referenced and readable.
	got, _ := svc.Get(context.Background(), c.ID)
	if got.Photo == nil || *got.Photo != *first.Photo {
		t.Error("expected the old reference to survive a failed replace")
	}
	blobs.putErr = nil
	if _, err := svc.ReadPhoto(context.Background(), c.ID); err != nil {
		t.Errorf("expected old photo still readable, got %v", err)
	}
}

func TestContactService_AttachPhoto_ReferenceUpdateFailurePropagates(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	c := mustCreate(t, svc)
	first := mustAttach(t, svc, c.ID, []byte("one"), "a.jpg")

	repo.updatePhotoErr = errors.New("row lock timeout")
	if _, err := svc.AttachPhoto(context.Background(), c.ID, []byte("two"), "image/png", "b.png"); err == nil {
		t.Fatal("expected error when the reference update fails")
	}

	repo.updatePhotoErr = nil
	got, _ := svc.Get(context.Background(), c.ID)
	if got.Photo == nil || *got.Photo != *first.Photo {
		t.Error("expected the old reference untouched when the update fails")
	}
}

// ---------------------------------------------------------------------------
// DetachPhoto tests
// ---------------------------------------------------------------------------

func TestContactService_DetachPhoto_ClearsReferenceThenDeletes(t *testing.T) {
	svc, _, blobs, ops := newTestService(t)
	c := mustCreate(t, svc)
	attached := mustAttach(t, svc, c.ID, []byte("one"), "a.jpg")

	*ops = (*ops)[:0]
	got, err := svc.DetachPhoto(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Photo != nil {
		t.Errorf("expected photo=nil, got %q", *got.Photo)
	}

	want := []string{
		fmt.Sprintf("repo.updatePhoto:%d:nil", c.ID),
		"blob.delete:" + *attached.Photo,
	}
	for i := range want {
		if i >= len(*ops) || (*ops)[i] != want[i] {
			t.Fatalf("expected ops %v, got %v", want, *ops)
		}
	}
	if len(blobs.blobs) != 0 {
		t.Error("expected blob removed")
	}
}

func TestContactService_DetachPhoto_Idempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	c := mustCreate(t, svc)
	mustAttach(t, svc, c.ID, []byte("one"), "a.jpg")

	for i := 0; i < 2; i++ {
		got, err := svc.DetachPhoto(context.Background(), c.ID)
		if err != nil {
			t.Fatalf("detach #%d: unexpected error: %v", i+1, err)
		}
		if got.Photo != nil {
			t.Errorf("detach #%d: expected photo=nil", i+1)
		}
	}
}

func TestContactService_DetachPhoto_BlobDeleteFailureIgnored(t *testing.T) {
	svc, _, blobs, _ := newTestService(t)
	c := mustCreate(t, svc)
	mustAttach(t, svc, c.ID, []byte("one"), "a.jpg")

	blobs.deleteErr = errors.New("delete refused")
	got, err := svc.DetachPhoto(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("expected detach to succeed despite blob failure, got %v", err)
	}
	if got.Photo != nil {
		t.Error("expected reference cleared even when the blob delete fails")
	}
}

// ---------------------------------------------------------------------------
// ReadPhoto tests
// ---------------------------------------------------------------------------

func TestContactService_ReadPhoto_RoundTrip(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	c := mustCreate(t, svc)
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}
	mustAttach(t, svc, c.ID, payload, "a.jpg")

	obj, err := svc.ReadPhoto(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer obj.Body.Close()

	got, _ := io.ReadAll(obj.Body)
	if string(got) != string(payload) {
		t.Errorf("expected %v back, got %v", payload, got)
	}
	if obj.ContentType != "image/jpeg" {
		t.Errorf("expected content type image/jpeg, got %q", obj.ContentType)
	}
	if obj.ContentLength != int64(len(payload)) {
		t.Errorf("expected length %d, got %d", len(payload), obj.ContentLength)
	}
}

func TestContactService_ReadPhoto_NoPhotoIsNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	c := mustCreate(t, svc)

	if _, err := svc.ReadPhoto(context.Background(), c.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestContactService_ReadPhoto_DanglingReferenceIsNotFound(t *testing.T) {
	svc, _, blobs, _ := newTestService(t)
	c := mustCreate(t, svc)
	attached := mustAttach(t, svc, c.ID, []byte("one"), "a.jpg")

	// Simulate the blob disappearing out from under the reference.
	delete(blobs.blobs, *attached.Photo)

	if _, err := svc.ReadPhoto(context.Background(), c.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for a dangling reference, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List tests
// ---------------------------------------------------------------------------

func TestContactService_List_OrderedByID(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		mustCreate(t, svc)
	}

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ID <= got[i-1].ID {
			t.Errorf("expected ascending ids, got %d then %d", got[i-1].ID, got[i].ID)
		}
	}
}
