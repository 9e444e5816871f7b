package graphics

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// Scale returns src enlarged by an integer factor. Nearest neighbour keeps
// the pixel edges sharp; "linear" selects bilinear filtering instead.
func Scale(src image.Image, factor int, filter string) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	scaler(filter).Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Resize returns src scaled to exactly width x height.
func Resize(src image.Image, width, height int, filter string) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scaler(filter).Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func scaler(filter string) draw.Scaler {
	if filter == "linear" {
		return draw.BiLinear
	}
	return draw.NearestNeighbor
}

// SavePNG writes img to path, creating the parent directory if needed.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
