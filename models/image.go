package models

import "time"

// Image records one upload event. StoredFilename holds the raw upload on
// disk, DetectedFilename the annotated copy. DetectionResults is the
// detector's labels joined with ", " in returned order (empty string when
// nothing was detected). A row exists only after both files were written.
type Image struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	OriginalFilename string    `json:"original_filename" gorm:"size:200;not null"`
	StoredFilename   string    `json:"stored_filename" gorm:"size:200;not null;uniqueIndex"`
	DetectedFilename string    `json:"detected_filename" gorm:"size:200;not null;uniqueIndex"`
	DetectionResults string    `json:"detection_results" gorm:"type:text"`
	UploadedAt       time.Time `json:"uploaded_at" gorm:"not null;index"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`

	// Relationship
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Image) TableName() string {
	return "images"
}
