package file

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

var ErrNoImageName = errors.New("image source has no file name")

// ImageStore saves thumbnail bitmaps under a single directory.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

// Dir returns the directory images are written to.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes data to <dir>/<name>, creating dir if needed, and returns the
// written path.
func (s *ImageStore) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}

	savePath := filepath.Join(s.dir, name)
	if err := os.WriteFile(savePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", savePath, err)
	}
	return savePath, nil
}

// ImageName derives a file name from the basename of the source URL's path.
func ImageName(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse image source: %w", err)
	}

	name := path.Base(u.Path)
	switch name {
	case "", ".", "/":
		return "", fmt.Errorf("%w: %q", ErrNoImageName, src)
	}
	return name, nil
}
