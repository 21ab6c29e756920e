package canvas

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"golang.org/x/image/draw"
)

// LoadTexture loads an image file into an RGBA texture.
func LoadTexture(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies an image into an RGBA texture with its origin at
// (0, 0).
func TextureFromImage(img image.Image) *image.RGBA {
	b := img.Bounds()
	tex := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(tex, tex.Rect, img, b.Min, draw.Src)
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 color.RGBA) *image.RGBA {
	tex := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			cx := x / checkSize
			cy := y / checkSize
			if (cx+cy)%2 == 0 {
				tex.SetRGBA(x, y, c1)
			} else {
				tex.SetRGBA(x, y, c2)
			}
		}
	}
	return tex
}
