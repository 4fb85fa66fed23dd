package imaging

import (
	"log"
	"math"
)

// Thermal synthesis constants from the reference tuning.
const (
	cannyLow        = 50.0
	cannyHigh       = 150.0
	varianceRadius  = 2 // 5x5 window
	clusterCount    = 8
	clusterSeed     = 42
	clusterRestarts = 10
	clusterMaxIter  = 50
	diffusionSigma  = 2.0
	nightGamma      = 0.5
	scanlineStep    = 4
	scanlineScale   = 0.9
)

// thermalProperties maps each material cluster id to a thermal scalar.
var thermalProperties = [clusterCount]float64{0.2, 0.4, 0.6, 0.8, 0.3, 0.7, 0.9, 0.5}

// Thermal converts an RGB image to a synthetic thermal night-vision rendering
// of the same dimensions. Deterministic: the clustering seed is fixed, so the
// same input always produces bit-identical output. Any internal failure
// degrades to a plain grayscale conversion rather than failing the pipeline.
func Thermal(src *Image) (out *Image) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("thermal synthesis failed (%v), falling back to grayscale", r)
			out = grayscaleFallback(src)
		}
	}()

	if src.W == 0 || src.H == 0 {
		return src.Clone()
	}

	base := thermalBase(src)
	return nightVision(base, src.W, src.H)
}

// thermalBase fuses luminance, texture, material clusters and edges into a
// normalized [0,1] heat plane.
func thermalBase(src *Image) []float64 {
	w, h := src.W, src.H
	n := w * h

	lum := src.Luminance()
	gray := src.GrayU8()

	edges := dilate3x3(canny(gray, w, h, cannyLow, cannyHigh), w, h)

	grayF := make([]float64, n)
	for i, v := range gray {
		grayF[i] = float64(v)
	}
	texture := localVariance(grayF, w, h, varianceRadius)
	maxTexture := 0.0
	for _, v := range texture {
		if v > maxTexture {
			maxTexture = v
		}
	}

	labels := kmeansLabels(src, clusterCount, clusterSeed, clusterRestarts, clusterMaxIter)

	base := make([]float64, n)
	for i := 0; i < n; i++ {
		t := texture[i]
		if maxTexture > 0 {
			t /= maxTexture
		}
		base[i] = 0.3*(lum[i]/255.0) +
			0.2*t +
			0.3*thermalProperties[labels[i]%clusterCount] +
			0.2*(float64(edges[i])/255.0)
	}

	base = gaussianBlur(base, w, h, diffusionSigma)

	lo, hi := base[0], base[0]
	for _, v := range base {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi > lo {
		for i := range base {
			base[i] = (base[i] - lo) / (hi - lo)
		}
	} else {
		for i := range base {
			base[i] = 0
		}
	}
	return base
}

// nightVision renders the heat plane as a monochrome night-vision image:
// gamma lift, bilateral denoise, histogram equalization, scanlines.
func nightVision(base []float64, w, h int) *Image {
	n := w * h

	lifted := make([]uint8, n)
	for i, v := range base {
		lifted[i] = uint8(math.Pow(v, nightGamma)*255 + 0.5)
	}

	denoised := bilateral(lifted, w, h, 4, 75, 75)
	equalized := equalizeHist(denoised)

	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := equalized[y*w+x]
			if y%scanlineStep == 0 {
				v = uint8(float64(v) * scanlineScale)
			}
			out.SetRGB(x, y, v, v, v)
		}
	}
	return out
}

func grayscaleFallback(src *Image) *Image {
	out := New(src.W, src.H)
	gray := src.GrayU8()
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			v := gray[y*src.W+x]
			out.SetRGB(x, y, v, v, v)
		}
	}
	return out
}
