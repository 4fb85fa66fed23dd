package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RGB is a plain color triple for drawing.
type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{255, 255, 255}
	Black = RGB{0, 0, 0}
)

// DrawRect draws an axis-aligned rectangle outline with the given stroke width.
func DrawRect(m *Image, x1, y1, x2, y2, width int, c RGB) {
	for i := 0; i < width; i++ {
		drawHLine(m, x1, x2, y1+i, c)
		drawHLine(m, x1, x2, y2-i, c)
		drawVLine(m, x1+i, y1, y2, c)
		drawVLine(m, x2-i, y1, y2, c)
	}
}

// FillRect fills an axis-aligned rectangle.
func FillRect(m *Image, x1, y1, x2, y2 int, c RGB) {
	for y := y1; y <= y2; y++ {
		drawHLine(m, x1, x2, y, c)
	}
}

// FillCircle fills a disc centered at (cx, cy).
func FillCircle(m *Image, cx, cy, r int, c RGB) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				setSafe(m, cx+dx, cy+dy, c)
			}
		}
	}
}

// DrawText renders s with the built-in bitmap font, top-left anchored at (x, y).
func DrawText(m *Image, x, y int, s string, c RGB) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  m,
		Src:  image.NewUniform(color.RGBA{c.R, c.G, c.B, 255}),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(s)
}

// TextWidth returns the pixel width of s in the built-in font.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// TextHeight is the line height of the built-in font.
const TextHeight = 13

func drawHLine(m *Image, x1, x2, y int, c RGB) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		setSafe(m, x, y, c)
	}
}

func drawVLine(m *Image, x, y1, y2 int, c RGB) {
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		setSafe(m, x, y, c)
	}
}

func setSafe(m *Image, x, y int, c RGB) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.SetRGB(x, y, c.R, c.G, c.B)
}
