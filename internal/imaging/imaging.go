// Package imaging opens page scans and prepares the payload sent to vision providers.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/transform"
	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Page is a decoded scan and the attributes recorded about its source file
type Page struct {
	Path   string
	Size   int64
	Width  int
	Height int
	Format string

	img  image.Image
	data []byte
}

// Open reads and decodes the image at path
func Open(path string) (*Page, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("image path %s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image file %s is not a valid image: %w", path, err)
	}

	bounds := img.Bounds()
	return &Page{
		Path:   path,
		Size:   int64(len(data)),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
		img:    img,
		data:   data,
	}, nil
}

// Dimensions renders the page size as "<height> x <width>"
func (p *Page) Dimensions() string {
	return fmt.Sprintf("%d x %d", p.Height, p.Width)
}

// Payload returns the image to send to a provider. Pages whose longest edge
// exceeds maxEdge are downscaled and re-encoded as JPEG; maxEdge <= 0 sends
// the original bytes.
func (p *Page) Payload(maxEdge int) (providers.Image, error) {
	name := filepath.Base(p.Path)
	longest := max(p.Width, p.Height)
	if maxEdge <= 0 || longest <= maxEdge {
		return providers.Image{Name: name, Data: p.data, MIMEType: "image/" + p.Format}, nil
	}

	w := p.Width * maxEdge / longest
	h := p.Height * maxEdge / longest
	resized := transform.Resize(p.img, max(w, 1), max(h, 1), transform.Linear)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90}); err != nil {
		return providers.Image{}, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return providers.Image{Name: name, Data: buf.Bytes(), MIMEType: "image/jpeg"}, nil
}
