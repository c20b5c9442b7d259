package media

import (
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/subdl/subreddit-dl/internal/io"
)

// Subfolder names under <download_root>/<subreddit>/.
const (
	videosDir = "videos"
	gifsDir   = "gifs"
	imagesDir = "images"
)

// Router maps item file names to destination directories.
//
// The mapping is purely extension based:
//   - names ending "mp4"          → videos/
//   - names ending "gif"/"gifv"   → gifs/
//   - everything else             → images/
//
// All three subfolders live under a fixed base composed of the configured
// download root and the subreddit name.
type Router struct {
	base string
}

// NewRouter creates a Router rooted at <root>/<subreddit>.
//
// The subreddit name is sanitized before being used as a directory name.
func NewRouter(root, subreddit string) *Router {
	return &Router{base: filepath.Join(root, ioutils.SanitizeFileName(subreddit))}
}

// Base returns the <root>/<subreddit> directory all destinations live under.
func (r *Router) Base() string {
	return r.base
}

// Validate creates all three destination subfolders up front.
//
// A failure here is a fatal configuration error (typically a download root
// that cannot be created); the caller must abort the run before scheduling
// any downloads.
func (r *Router) Validate() error {
	for _, sub := range []string{videosDir, gifsDir, imagesDir} {
		if err := ioutils.EnsureDir(filepath.Join(r.base, sub)); err != nil {
			return fmt.Errorf("cannot create download folder %s: %w", filepath.Join(r.base, sub), err)
		}
	}
	return nil
}

// Dir returns the destination directory for a file name, creating it if
// absent.
func (r *Router) Dir(name string) (string, error) {
	var sub string
	switch {
	case strings.HasSuffix(name, "mp4"):
		sub = videosDir
	case strings.HasSuffix(name, "gif"), strings.HasSuffix(name, "gifv"):
		sub = gifsDir
	default:
		sub = imagesDir
	}

	dir := filepath.Join(r.base, sub)
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("cannot create download folder %s: %w", dir, err)
	}
	return dir, nil
}

// Dest returns the full destination path for a file name, creating its
// directory if absent.
func (r *Router) Dest(name string) (string, error) {
	dir, err := r.Dir(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
