// Package media stores uploaded recipe images on the local filesystem.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// RecipeDir is the directory, relative to the media root, holding recipe images.
const RecipeDir = "uploads/recipe"

// MaxImagePixels bounds width*height of an accepted upload so that decoding
// cannot exhaust memory.
const MaxImagePixels = 89_478_485

var (
	// ErrNotImage is returned when an upload does not decode as jpeg, png or gif.
	ErrNotImage = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")
	// ErrExtension is returned for a file name whose extension is not an image extension.
	ErrExtension = errors.New("file extension is not allowed")
	// ErrTooLarge is returned when the image dimensions exceed MaxImagePixels.
	ErrTooLarge = errors.New("image has too many pixels")
)

// AllowedExtensions are the file extensions stored images may carry.
var AllowedExtensions = []string{".gif", ".jpeg", ".jpg", ".png"}

// Storage writes images below a root directory.
// Safe for concurrent use.
type Storage struct {
	root      string
	maxWidth  uint
	maxPixels int
	newName   func() string
	mu        sync.Mutex
}

// NewStorage creates the root directory if needed. Images wider than
// maxWidth are scaled down before they are written; 0 keeps the original size.
func NewStorage(root string, maxWidth uint) (*Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("media root cannot be empty")
	}
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(RecipeDir)), 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Storage{
		root:      root,
		maxWidth:  maxWidth,
		maxPixels: MaxImagePixels,
		newName:   uuid.NewString,
	}, nil
}

// Root is the filesystem directory served under the media URL.
func (s *Storage) Root() string {
	return s.root
}

// RecipeImagePath returns uploads/recipe/<id><ext> for an uploaded file name.
func RecipeImagePath(id, filename string) string {
	return path.Join(RecipeDir, id+strings.ToLower(filepath.Ext(filename)))
}

// SaveRecipeImage validates data as an image and writes it under a fresh
// collision resistant name. It returns the path relative to the media root.
// The file name must carry an image extension or none at all, in which case
// the extension follows the decoded format.
func (s *Storage) SaveRecipeImage(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && !slices.Contains(AllowedExtensions, ext) {
		return "", fmt.Errorf("%w: %q", ErrExtension, ext)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if cfg.Width*cfg.Height > s.maxPixels {
		return "", fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	if ext == "" {
		filename += "." + extension(format)
	}
	rel := RecipeImagePath(s.newName(), filename)

	if s.maxWidth > 0 && uint(img.Bounds().Dx()) > s.maxWidth {
		data, err = scale(img, format, s.maxWidth)
		if err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.abs(rel), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return rel, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Storage) Remove(rel string) error {
	if rel == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.abs(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}

func (s *Storage) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func scale(img image.Image, format string, width uint) ([]byte, error) {
	img = resize.Resize(width, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func extension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
