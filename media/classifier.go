// Package media implements the core of the gateway: access
// classification, safe path resolution under the asset root, and
// byte-range streaming.
package media

import (
	"path/filepath"
	"strings"
)

// AccessClass is the access-policy tier derived from a file extension.
// It drives both authentication strictness and the response header
// policy, and is computed exactly once per request.
type AccessClass string

const (
	ClassVideo    AccessClass = "video"
	ClassDocument AccessClass = "document"
	ClassGeneric  AccessClass = "generic"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
}

var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
}

// Classify returns the access class for a media path. Pure function of
// the lower-cased file extension; no I/O.
func Classify(path string) AccessClass {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExtensions[ext]:
		return ClassVideo
	case documentExtensions[ext]:
		return ClassDocument
	default:
		return ClassGeneric
	}
}

// IsVideo returns true for the strict video tier
func (c AccessClass) IsVideo() bool {
	return c == ClassVideo
}
