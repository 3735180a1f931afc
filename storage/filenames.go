package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DetectedPrefix is prepended to a stored filename to derive the name of
// the annotated copy, so the annotated file can always be located from the
// stored name alone.
const DetectedPrefix = "detected_"

var unsafeChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
)

// AllocateName produces a collision-free on-disk name for an upload: the
// sanitized base form of the original name, prefixed with a fresh random
// token. Example: "photo.jpg" -> "a1b2c3d4_photo.jpg".
func AllocateName(original string) (string, error) {
	base := sanitize(original)
	if base == "" || !strings.Contains(base, ".") {
		return "", fmt.Errorf("invalid filename %q", original)
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return token + "_" + base, nil
}

// DetectedName derives the paired annotated filename from a stored one.
func DetectedName(stored string) string {
	return DetectedPrefix + stored
}

// sanitize strips any path component (both separators, so Windows-style
// client paths are handled too), rewrites unsafe characters and collapses
// leading dots so the result can never traverse out of the upload dir.
func sanitize(name string) string {
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	name = unsafeChars.Replace(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}
