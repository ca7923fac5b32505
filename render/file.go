package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Format is a raster file encoding.
type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// FormatFromPath picks the format from a file extension (".png", ".bmp").
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	}
	return "", fmt.Errorf("render: unsupported image extension %q", filepath.Ext(path))
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("render: unsupported format %q", f)
}

// Decode reads a PNG or BMP image.
func Decode(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("render: decode image: %w", err)
	}
	return img, Format(name), nil
}
