package services

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yoshifumik/snapdetect/database"
	"github.com/yoshifumik/snapdetect/models"
	"github.com/yoshifumik/snapdetect/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db, &models.User{}, &models.Image{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// stubDetector answers with fixed labels or a fixed error, and marks the
// annotated output so tests can tell the two files apart.
type stubDetector struct {
	labels []string
	err    error
}

func (d *stubDetector) Detect(_ context.Context, img []byte) ([]byte, []string, error) {
	if d.err != nil {
		return nil, nil, d.err
	}
	return append([]byte("annotated:"), img...), d.labels, nil
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return &user
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}
