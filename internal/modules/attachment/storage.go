package attachment

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// publicPrefix is the read-only URL prefix attachment bytes are served under.
const publicPrefix = "uploads"

// BlobStore persists raw attachment bytes under a server-assigned name and
// returns the storage path recorded in the attachment metadata.
type BlobStore interface {
	Store(ctx context.Context, name string, payload []byte, contentType string) (string, error)
}

// DiskStore writes attachment bytes to the local uploads directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore { return &DiskStore{dir: dir} }

func (d *DiskStore) Store(_ context.Context, name string, payload []byte, _ string) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(d.dir, name), payload, 0o644); err != nil {
		return "", err
	}
	return publicPrefix + "/" + name, nil
}

// buildStoredName generates a collision-resistant filename that preserves the
// original extension.
func buildStoredName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
}

// detectContentType sniffs the MIME type from the client header, extension,
// or raw payload bytes, in that priority order.
func detectContentType(filename string, payload []byte, fallback string) string {
	contentType := strings.TrimSpace(fallback)
	if contentType != "" {
		return contentType
	}
	if ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename))); ext != "" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			return guessed
		}
	}
	if len(payload) > 0 {
		return http.DetectContentType(payload)
	}
	return "application/octet-stream"
}
