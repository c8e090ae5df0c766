// Package render provides the software rasterizer, camera and terminal
// presenter for the cube scene.
package render

import "math"

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// MultiplyColor scales the RGB channels by factor, clamped to [0, 255].
func MultiplyColor(c Color, factor float64) Color {
	return Color{
		R: clampByte(float64(c.R) * factor),
		G: clampByte(float64(c.G) * factor),
		B: clampByte(float64(c.B) * factor),
		A: c.A,
	}
}

// Blend mixes src over dst with the given alpha in [0, 1].
func Blend(dst, src Color, alpha float64) Color {
	if alpha >= 1 {
		return src
	}
	if alpha <= 0 {
		return dst
	}
	inv := 1 - alpha
	return Color{
		R: clampByte(float64(src.R)*alpha + float64(dst.R)*inv),
		G: clampByte(float64(src.G)*alpha + float64(dst.G)*inv),
		B: clampByte(float64(src.B)*alpha + float64(dst.B)*inv),
		A: 255,
	}
}

func clampByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
