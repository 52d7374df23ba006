package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRecipeImagePath(t *testing.T) {
	assert.Equal(t, "uploads/recipe/test-uuid.jpg", RecipeImagePath("test-uuid", "example.JPG"))
}

func TestSaveRecipeImage(t *testing.T) {
	root := t.TempDir()
	s, err := NewStorage(root, 0)
	require.NoError(t, err)

	data := pngBytes(t, 10, 10)
	rel, err := s.SaveRecipeImage("photo.png", data)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^uploads/recipe/[0-9a-f-]{36}\.png$`), rel)
	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestSaveRecipeImageUniqueNames(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)

	a, err := s.SaveRecipeImage("a.png", pngBytes(t, 2, 2))
	require.NoError(t, err)
	b, err := s.SaveRecipeImage("a.png", pngBytes(t, 2, 2))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSaveRecipeImageDerivesExtension(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)
	s.newName = func() string { return "fixed" }

	rel, err := s.SaveRecipeImage("blob", pngBytes(t, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, "uploads/recipe/fixed.png", rel)
}

func TestSaveRecipeImageRejectsNonImage(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)

	_, err = s.SaveRecipeImage("notes.png", []byte("definitely not a png"))
	assert.True(t, errors.Is(err, ErrNotImage))
}

func TestSaveRecipeImageScalesDown(t *testing.T) {
	root := t.TempDir()
	s, err := NewStorage(root, 20)
	require.NoError(t, err)

	rel, err := s.SaveRecipeImage("wide.png", pngBytes(t, 100, 50))
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)
	assert.Equal(t, 10, cfg.Height)
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	s, err := NewStorage(root, 0)
	require.NoError(t, err)

	rel, err := s.SaveRecipeImage("a.png", pngBytes(t, 2, 2))
	require.NoError(t, err)

	require.NoError(t, s.Remove(rel))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Remove(rel))
}

func TestSaveRecipeImageRejectsForeignExtension(t *testing.T) {
	root := t.TempDir()
	s, err := NewStorage(root, 0)
	require.NoError(t, err)

	data := append(pngBytes(t, 2, 2), []byte("<script>alert(1)</script>")...)
	for _, name := range []string{"evil.html", "evil.svg", "evil.png.htm"} {
		_, err := s.SaveRecipeImage(name, data)
		assert.True(t, errors.Is(err, ErrExtension), name)
	}

	entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(RecipeDir)))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRecipeImageAcceptsImageExtensions(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)
	s.newName = func() string { return "fixed" }

	rel, err := s.SaveRecipeImage("Photo.JPEG", pngBytes(t, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, "uploads/recipe/fixed.jpeg", rel)
}

func TestSaveRecipeImageRejectsTooManyPixels(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)
	s.maxPixels = 100

	_, err = s.SaveRecipeImage("big.png", pngBytes(t, 20, 20))
	assert.True(t, errors.Is(err, ErrTooLarge))

	_, err = s.SaveRecipeImage("small.png", pngBytes(t, 10, 10))
	assert.NoError(t, err)
}
