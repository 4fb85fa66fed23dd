package imaging

import "math/rand"

// kmeansLabels clusters the image's RGB pixel vectors with Lloyd's algorithm.
// The seed is fixed by the caller so the same input always yields the same
// material map.
func kmeansLabels(m *Image, k int, seed int64, restarts, maxIter int) []int {
	n := m.W * m.H
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}

	rng := rand.New(rand.NewSource(seed))

	bestLabels := make([]int, n)
	bestInertia := -1.0

	centers := make([][3]float64, k)
	sums := make([][3]float64, k)
	counts := make([]int, k)
	labels := make([]int, n)

	px := func(i int) (float64, float64, float64) {
		return float64(m.Pix[i*3]), float64(m.Pix[i*3+1]), float64(m.Pix[i*3+2])
	}

	for restart := 0; restart < restarts; restart++ {
		for c := 0; c < k; c++ {
			r, g, b := px(rng.Intn(n))
			centers[c] = [3]float64{r, g, b}
		}

		for iter := 0; iter < maxIter; iter++ {
			changed := false
			for c := 0; c < k; c++ {
				sums[c] = [3]float64{}
				counts[c] = 0
			}
			for i := 0; i < n; i++ {
				r, g, b := px(i)
				best, bestD := 0, -1.0
				for c := 0; c < k; c++ {
					dr := r - centers[c][0]
					dg := g - centers[c][1]
					db := b - centers[c][2]
					d := dr*dr + dg*dg + db*db
					if bestD < 0 || d < bestD {
						bestD = d
						best = c
					}
				}
				if labels[i] != best {
					labels[i] = best
					changed = true
				}
				sums[best][0] += r
				sums[best][1] += g
				sums[best][2] += b
				counts[best]++
			}
			for c := 0; c < k; c++ {
				if counts[c] == 0 {
					// Re-seed empty clusters from a random pixel.
					r, g, b := px(rng.Intn(n))
					centers[c] = [3]float64{r, g, b}
					continue
				}
				f := float64(counts[c])
				centers[c] = [3]float64{sums[c][0] / f, sums[c][1] / f, sums[c][2] / f}
			}
			if !changed && iter > 0 {
				break
			}
		}

		inertia := 0.0
		for i := 0; i < n; i++ {
			r, g, b := px(i)
			c := labels[i]
			dr := r - centers[c][0]
			dg := g - centers[c][1]
			db := b - centers[c][2]
			inertia += dr*dr + dg*dg + db*db
		}
		if bestInertia < 0 || inertia < bestInertia {
			bestInertia = inertia
			copy(bestLabels, labels)
		}
	}

	return bestLabels
}
