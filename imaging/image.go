// Package imaging holds the canonical image value type used across every
// pipeline stage, plus the processing kernels for thermal synthesis.
// Conversions to and from encoded formats happen only at the edges.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Image is a packed 8-bit RGB raster, row-major, 3 bytes per pixel.
// Stage boundaries pass this type only; no stage mutates its input.
type Image struct {
	W   int
	H   int
	Pix []uint8
}

// New returns a zeroed (black) image.
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]uint8, w*h*3)}
}

// RGB returns the pixel at (x, y).
func (m *Image) RGB(x, y int) (r, g, b uint8) {
	i := (y*m.W + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// SetRGB sets the pixel at (x, y).
func (m *Image) SetRGB(x, y int, r, g, b uint8) {
	i := (y*m.W + x) * 3
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

// Clone returns a deep copy with an independent pixel buffer.
func (m *Image) Clone() *Image {
	out := &Image{W: m.W, H: m.H, Pix: make([]uint8, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Luminance returns the ITU-R 601 luma plane in [0,255].
func (m *Image) Luminance() []float64 {
	out := make([]float64, m.W*m.H)
	for i := 0; i < m.W*m.H; i++ {
		r := float64(m.Pix[i*3])
		g := float64(m.Pix[i*3+1])
		b := float64(m.Pix[i*3+2])
		out[i] = 0.299*r + 0.587*g + 0.114*b
	}
	return out
}

// GrayU8 returns the rounded luma plane as bytes.
func (m *Image) GrayU8() []uint8 {
	lum := m.Luminance()
	out := make([]uint8, len(lum))
	for i, v := range lum {
		out[i] = uint8(v + 0.5)
	}
	return out
}

// image.Image + draw.Image so the font rasterizer can target us directly.

func (m *Image) ColorModel() color.Model { return color.RGBAModel }

func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.W, m.H) }

func (m *Image) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return color.RGBA{}
	}
	r, g, b := m.RGB(x, y)
	return color.RGBA{r, g, b, 255}
}

func (m *Image) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	r, g, b, _ := c.RGBA()
	m.SetRGB(x, y, uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// FromGoImage converts any stdlib image to the canonical type.
func FromGoImage(src image.Image) *Image {
	b := src.Bounds()
	out := New(b.Dx(), b.Dy())
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			r, g, b2, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.SetRGB(x, y, uint8(r>>8), uint8(g>>8), uint8(b2>>8))
		}
	}
	return out
}

// Decode reads any registered image format (PNG in practice).
func Decode(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromGoImage(src), nil
}

// DecodeFile reads an image from disk.
func DecodeFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// EncodePNG writes the image as PNG.
func (m *Image) EncodePNG(w io.Writer) error {
	rgba := image.NewRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			r, g, b := m.RGB(x, y)
			rgba.Set(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return png.Encode(w, rgba)
}

// WriteFile writes the image to disk as PNG.
func (m *Image) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return m.EncodePNG(f)
}

// Resize returns a bilinear resample of m at (w, h).
func (m *Image) Resize(w, h int) *Image {
	out := New(w, h)
	if m.W == 0 || m.H == 0 {
		return out
	}
	xr := float64(m.W) / float64(w)
	yr := float64(m.H) / float64(h)
	for y := 0; y < h; y++ {
		sy := (float64(y)+0.5)*yr - 0.5
		y0 := int(sy)
		if y0 < 0 {
			y0 = 0
		}
		y1 := y0 + 1
		if y1 >= m.H {
			y1 = m.H - 1
		}
		fy := sy - float64(y0)
		if fy < 0 {
			fy = 0
		}
		for x := 0; x < w; x++ {
			sx := (float64(x)+0.5)*xr - 0.5
			x0 := int(sx)
			if x0 < 0 {
				x0 = 0
			}
			x1 := x0 + 1
			if x1 >= m.W {
				x1 = m.W - 1
			}
			fx := sx - float64(x0)
			if fx < 0 {
				fx = 0
			}
			for c := 0; c < 3; c++ {
				v00 := float64(m.Pix[(y0*m.W+x0)*3+c])
				v01 := float64(m.Pix[(y0*m.W+x1)*3+c])
				v10 := float64(m.Pix[(y1*m.W+x0)*3+c])
				v11 := float64(m.Pix[(y1*m.W+x1)*3+c])
				top := v00 + (v01-v00)*fx
				bot := v10 + (v11-v10)*fx
				out.Pix[(y*w+x)*3+c] = uint8(top + (bot-top)*fy + 0.5)
			}
		}
	}
	return out
}
