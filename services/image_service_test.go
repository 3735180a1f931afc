package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/yoshifumik/snapdetect/models"
)

func dirEntryCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: []string{"dog"}}, newTestLogger())
	user := createUser(t, db, "alice")

	for _, filename := range []string{"notes.txt", "archive.zip", "noextension", ""} {
		_, err := svc.Upload(context.Background(), user.ID, filename, []byte("data"))
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Upload(%q) error = %v, want ValidationError", filename, err)
		}
	}

	if n := dirEntryCount(t, store.Root()); n != 0 {
		t.Errorf("%d files written for rejected uploads, want 0", n)
	}
	if n := countRows(t, db, &models.Image{}); n != 0 {
		t.Errorf("%d image rows for rejected uploads, want 0", n)
	}
}

func TestUploadExtensionCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: []string{"cat"}}, newTestLogger())
	user := createUser(t, db, "alice")

	if _, err := svc.Upload(context.Background(), user.ID, "PHOTO.JPG", []byte("data")); err != nil {
		t.Errorf("Upload(PHOTO.JPG): %v", err)
	}
}

func TestUploadDetectionFailureCleansUp(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	detErr := errors.New("unreadable image")
	svc := NewImageService(db, store, &stubDetector{err: detErr}, newTestLogger())
	user := createUser(t, db, "alice")

	_, err := svc.Upload(context.Background(), user.ID, "broken.png", []byte("data"))
	var de *DetectionError
	if !errors.As(err, &de) {
		t.Fatalf("Upload error = %v, want DetectionError", err)
	}
	if !errors.Is(err, detErr) {
		t.Errorf("DetectionError does not wrap the detector's error: %v", err)
	}

	if n := dirEntryCount(t, store.Root()); n != 0 {
		t.Errorf("stored file left behind after detection failure (%d files)", n)
	}
	if n := countRows(t, db, &models.Image{}); n != 0 {
		t.Errorf("image row created despite detection failure")
	}
}

func TestUploadSuccess(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: []string{"dog", "person"}}, newTestLogger())
	user := createUser(t, db, "alice")

	res, err := svc.Upload(context.Background(), user.ID, "valid.png", []byte("raw bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if res.Image.DetectionResults != "dog, person" {
		t.Errorf("DetectionResults = %q, want %q", res.Image.DetectionResults, "dog, person")
	}
	if res.Summary != "dog, person" {
		t.Errorf("Summary = %q, want %q", res.Summary, "dog, person")
	}
	if res.Image.OriginalFilename != "valid.png" {
		t.Errorf("OriginalFilename = %q", res.Image.OriginalFilename)
	}
	if res.Image.DetectedFilename != "detected_"+res.Image.StoredFilename {
		t.Errorf("DetectedFilename = %q not paired with %q", res.Image.DetectedFilename, res.Image.StoredFilename)
	}
	if !store.Exists(res.Image.StoredFilename) || !store.Exists(res.Image.DetectedFilename) {
		t.Error("stored/detected files missing after successful upload")
	}
	if n := countRows(t, db, &models.Image{}); n != 1 {
		t.Errorf("image rows = %d, want exactly 1", n)
	}
}

func TestUploadNoObjectsDetected(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: nil}, newTestLogger())
	user := createUser(t, db, "alice")

	res, err := svc.Upload(context.Background(), user.ID, "empty.png", []byte("raw"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Image.DetectionResults != "" {
		t.Errorf("persisted results = %q, want empty string", res.Image.DetectionResults)
	}
	if res.Summary != "No objects detected" {
		t.Errorf("Summary = %q, want %q", res.Summary, "No objects detected")
	}
}

func TestUploadSameNameNeverCollides(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: []string{"cat"}}, newTestLogger())
	user := createUser(t, db, "alice")

	first, err := svc.Upload(context.Background(), user.ID, "same.png", []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Upload(context.Background(), user.ID, "same.png", []byte("two"))
	if err != nil {
		t.Fatal(err)
	}
	if first.Image.StoredFilename == second.Image.StoredFilename {
		t.Error("re-uploading the same original name collided on disk")
	}
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: []string{"x"}}, newTestLogger())
	user := createUser(t, db, "alice")

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if _, err := svc.Upload(context.Background(), user.ID, name, []byte(name)); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	images, err := svc.List(user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"c.png", "b.png", "a.png"}
	if len(images) != len(want) {
		t.Fatalf("List returned %d images, want %d", len(images), len(want))
	}
	for i, w := range want {
		if images[i].OriginalFilename != w {
			t.Errorf("images[%d] = %q, want %q", i, images[i].OriginalFilename, w)
		}
	}
}

func TestListOnlyOwnImages(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: []string{"x"}}, newTestLogger())
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	if _, err := svc.Upload(context.Background(), alice.ID, "hers.png", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Upload(context.Background(), bob.ID, "his.png", []byte("b")); err != nil {
		t.Fatal(err)
	}

	images, err := svc.List(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 1 || images[0].OriginalFilename != "hers.png" {
		t.Errorf("List(alice) = %v, want only hers.png", images)
	}
}

func TestDeleteByNonOwnerRefused(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: []string{"x"}}, newTestLogger())
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	res, err := svc.Upload(context.Background(), alice.ID, "hers.png", []byte("a"))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(bob.ID, res.Image.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Delete by non-owner: err = %v, want ErrNotOwner", err)
	}

	// Row and both files are intact.
	if n := countRows(t, db, &models.Image{}); n != 1 {
		t.Errorf("image rows = %d, want 1", n)
	}
	if !store.Exists(res.Image.StoredFilename) || !store.Exists(res.Image.DetectedFilename) {
		t.Error("files removed by refused delete")
	}
}

func TestDeleteByOwner(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: []string{"x"}}, newTestLogger())
	alice := createUser(t, db, "alice")

	res, err := svc.Upload(context.Background(), alice.ID, "hers.png", []byte("a"))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(alice.ID, res.Image.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if store.Exists(res.Image.StoredFilename) || store.Exists(res.Image.DetectedFilename) {
		t.Error("files still present after owner delete")
	}
	images, err := svc.List(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 0 {
		t.Errorf("List after delete = %d images, want 0", len(images))
	}
}

func TestDeleteRowRemovedEvenWhenFilesMissing(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{labels: []string{"x"}}, newTestLogger())
	alice := createUser(t, db, "alice")

	res, err := svc.Upload(context.Background(), alice.ID, "hers.png", []byte("a"))
	if err != nil {
		t.Fatal(err)
	}
	// Simulate files lost outside the app.
	if err := store.Remove(res.Image.StoredFilename); err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(res.Image.DetectedFilename); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(alice.ID, res.Image.ID); err != nil {
		t.Fatalf("Delete with missing files: %v", err)
	}
	if n := countRows(t, db, &models.Image{}); n != 0 {
		t.Errorf("image rows = %d, want 0", n)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t)
	svc := NewImageService(db, store, &stubDetector{}, newTestLogger())
	alice := createUser(t, db, "alice")

	if err := svc.Delete(alice.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(unknown) err = %v, want ErrNotFound", err)
	}
}
