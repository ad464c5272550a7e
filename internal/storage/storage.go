// Package storage keeps recorded voice clips in an S3-compatible bucket.
// Clients upload and download directly through presigned URLs; the server
// never proxies audio.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// voicePrefix is the top-level folder of every voice clip object.
const voicePrefix = "voice"

var ErrUnsupportedContentType = errors.New("voice clips must have an audio/* content type")

// ClipStorage is the object storage used for voice clips.
type ClipStorage interface {
	// PresignUpload returns a temporary URL accepting a PUT of objectKey.
	PresignUpload(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)

	// PresignDownload returns a temporary URL serving a GET of objectKey.
	PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

// NewClipKey builds a fresh object key for a clip recorded by owner, e.g.
// "voice/coach/0b6f...e1.webm".
func NewClipKey(owner, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "audio/") {
		return "", ErrUnsupportedContentType
	}
	ext := strings.TrimPrefix(mediaType, "audio/")
	if i := strings.IndexAny(ext, "+;"); i >= 0 {
		ext = ext[:i]
	}
	if owner == "" {
		owner = "anonymous"
	}
	return path.Join(voicePrefix, sanitize(owner), fmt.Sprintf("%s.%s", uuid.NewString(), ext)), nil
}

// IsClipKey reports whether key was produced by NewClipKey.
func IsClipKey(key string) bool {
	return strings.HasPrefix(key, voicePrefix+"/") && !strings.Contains(key, "..")
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, s)
}
