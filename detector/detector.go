// Package detector wraps a pretrained object-detection capability behind a
// stable interface: give it image bytes, get back an annotated copy and the
// ordered list of recognized labels.
package detector

import (
	"context"
	"strings"
)

// Detection is one recognized object with its bounding box in pixel
// coordinates.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
}

// Detector maps an image to an annotated copy plus the labels of detected
// objects, in detection order. The label slice may be empty.
type Detector interface {
	Detect(ctx context.Context, img []byte) (annotated []byte, labels []string, err error)
}

// Join renders labels in the persisted form: joined with ", " in detection
// order, no dedup, no sort. Empty input yields the empty string.
func Join(labels []string) string {
	return strings.Join(labels, ", ")
}

// Summary renders labels for display. Unlike Join, an empty list becomes a
// human-readable literal; this form is shown to the user but never stored.
func Summary(labels []string) string {
	if len(labels) == 0 {
		return "No objects detected"
	}
	return Join(labels)
}
