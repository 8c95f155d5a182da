// Package photos stores processed item photos on disk and maps them to the
// public /uploads/ URL path.
package photos

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/imaging"
)

// PublicPath is the URL prefix under which stored photos are served.
const PublicPath = "/uploads/"

// Save processes an uploaded photo and writes it into dir under a random
// filename. Returns the public URL path of the stored photo.
func Save(dir string, r io.Reader) (string, error) {
	data, err := imaging.Process(r)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating uploads directory: %w", err)
	}

	name := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing photo: %w", err)
	}

	return PublicPath + name, nil
}
