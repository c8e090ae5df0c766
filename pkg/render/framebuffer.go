package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is a row-major RGB pixel buffer.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
}

// NewFramebuffer allocates a framebuffer; negative sizes are treated as zero.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Clear fills the whole buffer with c.
func (fb *Framebuffer) Clear(c Color) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel writes c at (x, y); out of range writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if fb.inBounds(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// BlendPixel mixes c over the existing pixel with the given alpha.
func (fb *Framebuffer) BlendPixel(x, y int, c Color, alpha float64) {
	if fb.inBounds(x, y) {
		i := y*fb.Width + x
		fb.Pixels[i] = Blend(fb.Pixels[i], c, alpha)
	}
}

// GetPixel returns the pixel at (x, y), or black when out of range.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.inBounds(x, y) {
		return ColorBlack
	}
	return fb.Pixels[y*fb.Width+x]
}

// ToImage converts the framebuffer to an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			c := fb.Pixels[y*fb.Width+x]
			img.SetRGBA(x, y, color.RGBA{c.R, c.G, c.B, 255})
		}
	}
	return img
}

// SavePNG writes the framebuffer to path as a PNG image.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
