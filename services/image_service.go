package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yoshifumik/snapdetect/detector"
	"github.com/yoshifumik/snapdetect/models"
	"github.com/yoshifumik/snapdetect/storage"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// ImageService runs the upload-detect-persist pipeline and owns listing
// and deletion of a user's images.
type ImageService struct {
	db    *gorm.DB
	store *storage.Store
	det   detector.Detector
	log   *logrus.Logger
}

func NewImageService(db *gorm.DB, store *storage.Store, det detector.Detector, log *logrus.Logger) *ImageService {
	return &ImageService{db: db, store: store, det: det, log: log}
}

// UploadResult carries the committed record plus the display form of the
// detection labels ("No objects detected" when the list was empty).
type UploadResult struct {
	Image   *models.Image
	Summary string
}

// Upload runs the pipeline for one file: validate, write the raw bytes,
// run detection, write the annotated copy, then commit exactly one row.
// A detection failure removes the stored file and leaves no row behind.
func (s *ImageService) Upload(ctx context.Context, userID uint, filename string, data []byte) (*UploadResult, error) {
	if filename == "" || len(data) == 0 {
		return nil, &ValidationError{Message: "No file selected."}
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return nil, &ValidationError{Message: "File type not allowed. Please upload an image (png, jpg, jpeg, gif, bmp)."}
	}

	stored, err := storage.AllocateName(filename)
	if err != nil {
		return nil, &ValidationError{Message: "No file selected."}
	}
	detected := storage.DetectedName(stored)

	if err := s.store.Save(stored, data); err != nil {
		return nil, err
	}

	annotated, labels, err := s.det.Detect(ctx, data)
	if err != nil {
		// Cleanup failure is non-fatal; the detection error wins.
		if rmErr := s.store.Remove(stored); rmErr != nil {
			s.log.WithError(rmErr).WithField("file", stored).Warn("failed to clean up stored file")
		}
		return nil, &DetectionError{Err: err}
	}

	if err := s.store.Save(detected, annotated); err != nil {
		if rmErr := s.store.Remove(stored); rmErr != nil {
			s.log.WithError(rmErr).WithField("file", stored).Warn("failed to clean up stored file")
		}
		return nil, err
	}

	image := models.Image{
		OriginalFilename: filename,
		StoredFilename:   stored,
		DetectedFilename: detected,
		DetectionResults: detector.Join(labels),
		UploadedAt:       time.Now().UTC(),
		UserID:           userID,
	}
	if err := s.db.WithContext(ctx).Create(&image).Error; err != nil {
		// Keep the row<->files invariant: no row, no files.
		_ = s.store.Remove(stored)
		_ = s.store.Remove(detected)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"file":    stored,
		"labels":  len(labels),
	}).Info("image uploaded")

	return &UploadResult{Image: &image, Summary: detector.Summary(labels)}, nil
}

// List returns the user's images, newest first.
func (s *ImageService) List(userID uint) ([]models.Image, error) {
	var images []models.Image
	err := s.db.Where("user_id = ?", userID).Order("uploaded_at DESC").Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Delete removes an image owned by userID: both on-disk files best-effort,
// then the row. The row goes away even when a file removal fails.
func (s *ImageService) Delete(userID, imageID uint) error {
	var image models.Image
	if err := s.db.First(&image, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if image.UserID != userID {
		return ErrNotOwner
	}

	if err := s.store.Remove(image.StoredFilename); err != nil {
		s.log.WithError(err).WithField("file", image.StoredFilename).Warn("failed to remove stored file")
	}
	if err := s.store.Remove(image.DetectedFilename); err != nil {
		s.log.WithError(err).WithField("file", image.DetectedFilename).Warn("failed to remove detected file")
	}

	return s.db.Delete(&image).Error
}
