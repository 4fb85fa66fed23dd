package imaging

import "math"

// Scalar-plane kernels backing the thermal synthesis. All operate on row-major
// float64 planes with replicated borders, so outputs are fully deterministic.

func clampIdx(v, max int) int {
	if v < 0 {
		return 0
	}
	if v >= max {
		return max - 1
	}
	return v
}

// boxMean is a mean filter with a (2*radius+1) square window.
func boxMean(src []float64, w, h, radius int) []float64 {
	out := make([]float64, len(src))
	n := float64((2*radius + 1) * (2*radius + 1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for dy := -radius; dy <= radius; dy++ {
				yy := clampIdx(y+dy, h)
				for dx := -radius; dx <= radius; dx++ {
					xx := clampIdx(x+dx, w)
					sum += src[yy*w+xx]
				}
			}
			out[y*w+x] = sum / n
		}
	}
	return out
}

// localVariance is E[x^2] - E[x]^2 over a square window (default 5x5).
func localVariance(src []float64, w, h, radius int) []float64 {
	sq := make([]float64, len(src))
	for i, v := range src {
		sq[i] = v * v
	}
	mean := boxMean(src, w, h, radius)
	sqMean := boxMean(sq, w, h, radius)
	out := make([]float64, len(src))
	for i := range out {
		out[i] = sqMean[i] - mean[i]*mean[i]
	}
	return out
}

// gaussianBlur is a separable Gaussian with kernel radius 3*sigma.
func gaussianBlur(src []float64, w, h int, sigma float64) []float64 {
	radius := int(3*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		k := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = k
		sum += k
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	tmp := make([]float64, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for i := -radius; i <= radius; i++ {
				acc += kernel[i+radius] * src[y*w+clampIdx(x+i, w)]
			}
			tmp[y*w+x] = acc
		}
	}
	out := make([]float64, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for i := -radius; i <= radius; i++ {
				acc += kernel[i+radius] * tmp[clampIdx(y+i, h)*w+x]
			}
			out[y*w+x] = acc
		}
	}
	return out
}

// sobel returns the horizontal and vertical gradient planes.
func sobel(src []float64, w, h int) (gx, gy []float64) {
	gx = make([]float64, len(src))
	gy = make([]float64, len(src))
	at := func(x, y int) float64 { return src[clampIdx(y, h)*w+clampIdx(x, w)] }
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tl, tc, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			ml, mr := at(x-1, y), at(x+1, y)
			bl, bc, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)
			gx[y*w+x] = (tr + 2*mr + br) - (tl + 2*ml + bl)
			gy[y*w+x] = (bl + 2*bc + br) - (tl + 2*tc + tr)
		}
	}
	return gx, gy
}

// canny is a two-threshold hysteresis edge detector producing a 0/255 plane.
func canny(gray []uint8, w, h int, lo, hi float64) []uint8 {
	src := make([]float64, len(gray))
	for i, v := range gray {
		src[i] = float64(v)
	}
	gx, gy := sobel(src, w, h)

	mag := make([]float64, len(src))
	for i := range mag {
		mag[i] = math.Abs(gx[i]) + math.Abs(gy[i])
	}

	// Non-maximum suppression along the quantized gradient direction.
	thin := make([]float64, len(src))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			angle := math.Atan2(gy[i], gx[i]) * 180 / math.Pi
			if angle < 0 {
				angle += 180
			}
			var a, b float64
			switch {
			case angle < 22.5 || angle >= 157.5:
				a, b = mag[i-1], mag[i+1]
			case angle < 67.5:
				a, b = mag[(y-1)*w+x+1], mag[(y+1)*w+x-1]
			case angle < 112.5:
				a, b = mag[(y-1)*w+x], mag[(y+1)*w+x]
			default:
				a, b = mag[(y-1)*w+x-1], mag[(y+1)*w+x+1]
			}
			if mag[i] >= a && mag[i] >= b {
				thin[i] = mag[i]
			}
		}
	}

	// Hysteresis: strong edges seed, weak edges survive only when connected.
	const none, weak, strong = 0, 1, 2
	mark := make([]uint8, len(src))
	var stack []int
	for i := range thin {
		if thin[i] >= hi {
			mark[i] = strong
			stack = append(stack, i)
		} else if thin[i] >= lo {
			mark[i] = weak
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if mark[j] == weak {
					mark[j] = strong
					stack = append(stack, j)
				}
			}
		}
	}

	out := make([]uint8, len(src))
	for i, m := range mark {
		if m == strong {
			out[i] = 255
		}
	}
	return out
}

// dilate3x3 runs one binary dilation pass with a 3x3 structuring element.
func dilate3x3(src []uint8, w, h int) []uint8 {
	out := make([]uint8, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			for dy := -1; dy <= 1 && v == 0; dy++ {
				for dx := -1; dx <= 1; dx++ {
					yy, xx := y+dy, x+dx
					if yy < 0 || xx < 0 || yy >= h || xx >= w {
						continue
					}
					if src[yy*w+xx] != 0 {
						v = 255
						break
					}
				}
			}
			out[y*w+x] = v
		}
	}
	return out
}

// equalizeHist is standard histogram equalization on a byte plane.
func equalizeHist(src []uint8) []uint8 {
	var hist [256]int
	for _, v := range src {
		hist[v]++
	}
	total := len(src)
	if total == 0 {
		return nil
	}

	var lut [256]uint8
	cum := 0
	// First non-zero bin maps to 0, matching the usual CDF normalization.
	cdfMin := 0
	for _, c := range hist {
		if c > 0 {
			cdfMin = c
			break
		}
	}
	denom := total - cdfMin
	for i, c := range hist {
		cum += c
		if denom <= 0 {
			lut[i] = uint8(i)
			continue
		}
		v := float64(cum-cdfMin) / float64(denom) * 255
		if v < 0 {
			v = 0
		}
		lut[i] = uint8(v + 0.5)
	}

	out := make([]uint8, total)
	for i, v := range src {
		out[i] = lut[v]
	}
	return out
}

// bilateral is an edge-preserving denoise over a square window.
func bilateral(src []uint8, w, h, radius int, sigmaColor, sigmaSpace float64) []uint8 {
	spaceW := make([]float64, (2*radius+1)*(2*radius+1))
	idx := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spaceW[idx] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
			idx++
		}
	}

	var colorW [256]float64
	for i := range colorW {
		colorW[i] = math.Exp(-float64(i*i) / (2 * sigmaColor * sigmaColor))
	}

	out := make([]uint8, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := src[y*w+x]
			num, den := 0.0, 0.0
			idx = 0
			for dy := -radius; dy <= radius; dy++ {
				yy := clampIdx(y+dy, h)
				for dx := -radius; dx <= radius; dx++ {
					xx := clampIdx(x+dx, w)
					v := src[yy*w+xx]
					diff := int(v) - int(center)
					if diff < 0 {
						diff = -diff
					}
					wgt := spaceW[idx] * colorW[diff]
					num += wgt * float64(v)
					den += wgt
					idx++
				}
			}
			out[y*w+x] = uint8(num/den + 0.5)
		}
	}
	return out
}
