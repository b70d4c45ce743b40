/*
DESCRIPTION
  depth.go converts a motion-vector field into a dense, 8-bit depth map,
  then refines it with a cross-bilateral filter guided by the current
  frame's luma plane and a temporal median filter over a short rolling
  history of past depth maps.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package depthest converts a per-block motion-vector field into a dense
// depth map proportional to apparent horizontal motion, then smooths it
// spatially (cross-bilateral, guided by luma) and temporally (a rolling
// median over a short history of past depth maps).
package depthest

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/depth/frame"
	"github.com/ausocean/depth/mv"
)

// MaxHistory is the number of past depth maps retained for the temporal
// median filter.
const MaxHistory = 3

// Multiplier converts a horizontal displacement magnitude (in pixels)
// into a depth byte value; the result saturates at 255.
const Multiplier = 16

// Bilateral filter parameters: S is the window radius (so the window is
// (2S+1) x (2S+1)); sigma1 governs spatial falloff, sigma2 intensity
// falloff.
const (
	bilateralRadius = 3
	sigma1          = 15.0
	sigma2          = 100.0
)

// Estimator derives and temporally smooths a depth map from a
// per-16x16-block motion vector field.
type Estimator struct {
	width, height int
	numBlocksHor  int

	history [][]byte // FIFO, oldest first, each len() == width*height.
}

// NewEstimator constructs an Estimator for a width x height video. quality
// is accepted for interface symmetry with motion.NewEstimator and future
// tuning; the current depth pipeline (spec.md section 4.D) does not vary
// its behaviour with quality. Construction panics on non-positive
// dimensions, a construction-contract violation per the external
// interface.
func NewEstimator(width, height, quality int) *Estimator {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("depthest: invalid dimensions %dx%d", width, height))
	}
	_ = quality
	return &Estimator{
		width:        width,
		height:       height,
		numBlocksHor: (width + frame.BlockSize - 1) / frame.BlockSize,
	}
}

// leafAt returns the finest-grain motion vector covering pixel (x, y), by
// descending the quad-tree: level 1 picks the quadrant by whether (x, y)
// is in the right/bottom half of its 16x16 block, level 2 the same within
// the resulting 8x8 sub-block.
func (e *Estimator) leafAt(mvectors []mv.MV, x, y int) *mv.MV {
	i, j := y>>4, x>>4
	block := &mvectors[i*e.numBlocksHor+j]

	h := 0
	if y&15 >= 8 {
		h += 2
	}
	if x&15 >= 8 {
		h += 1
	}

	h2 := 0
	if y&7 >= 4 {
		h2 += 2
	}
	if x&7 >= 4 {
		h2 += 1
	}

	return block.Leaf(h, h2)
}

// Estimate derives a depth map from mvectors and writes it into out
// (length width*height), following the production pipeline order: an
// initial MV-to-depth projection, warping the history into the current
// frame via the same MV field, cross-bilateral smoothing guided by cur,
// a temporal median over the (now warped) history, and finally caching
// the result for the next frame. curU and curV are accepted for interface
// symmetry with the external contract (spec.md section 6); the guide used
// by ApplyCrossBilateralFilter is luma only, matching the production
// pipeline.
func (e *Estimator) Estimate(cur *frame.Luma, curU, curV *frame.Chroma, mvectors []mv.MV, out []byte) error {
	n := e.width * e.height
	if len(out) != n {
		return fmt.Errorf("depthest: out has %d bytes, want %d", len(out), n)
	}
	if len(mvectors) != e.numBlocksHor*((e.height+frame.BlockSize-1)/frame.BlockSize) {
		return fmt.Errorf("depthest: mvectors has %d entries, want %d", len(mvectors), e.numBlocksHor*((e.height+frame.BlockSize-1)/frame.BlockSize))
	}

	e.createInitialMap(mvectors, out)
	e.updateHistory(mvectors)
	e.applyCrossBilateralFilter(out, cur)
	e.applyMedianFilter(out)
	e.cache(out)
	return nil
}

// createInitialMap writes, for every pixel, the saturated horizontal
// displacement magnitude of its covering leaf vector, scaled by
// Multiplier.
func (e *Estimator) createInitialMap(mvectors []mv.MV, out []byte) {
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			leaf := e.leafAt(mvectors, x, y)
			d := absInt(leaf.X) * Multiplier
			if d > 255 {
				d = 255
			}
			out[y*e.width+x] = byte(d)
		}
	}
}

// updateHistory warps every retained past depth map into the current
// frame's coordinate system using the current frame's MV field: pixel
// (x, y) of the warped map takes the value the map previously held at
// (x, y) + mv. This preserves the reference's documented oddity of
// warping past maps with the motion that carried the previous frame into
// the current one, rather than the motion contemporary with each map
// (spec.md section 9); the decision is pinned there.
func (e *Estimator) updateHistory(mvectors []mv.MV) {
	scratch := make([]byte, e.width*e.height)
	for _, m := range e.history {
		copy(scratch, m)
		for y := 0; y < e.height; y++ {
			for x := 0; x < e.width; x++ {
				leaf := e.leafAt(mvectors, x, y)
				px := clamp(x+leaf.X, 0, e.width-1)
				py := clamp(y+leaf.Y, 0, e.height-1)
				m[y*e.width+x] = scratch[py*e.width+px]
			}
		}
	}
}

// applyCrossBilateralFilter smooths depth using a joint spatial/intensity
// kernel guided by cur's luma values, as specified in spec.md section
// 4.D.3. Writes land in a scratch buffer so every output pixel sees only
// pre-filter inputs.
func (e *Estimator) applyCrossBilateralFilter(depth []byte, cur *frame.Luma) {
	out := make([]byte, len(depth))

	var weights, values []float64
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			weights = weights[:0]
			values = values[:0]

			yCenter := int(cur.Pix[cur.At(x, y)])

			iLo, iHi := -bilateralRadius, bilateralRadius
			if y+iLo < 0 {
				iLo = -y
			}
			if y+iHi > e.height-1 {
				iHi = e.height - 1 - y
			}
			jLo, jHi := -bilateralRadius, bilateralRadius
			if x+jLo < 0 {
				jLo = -x
			}
			if x+jHi > e.width-1 {
				jHi = e.width - 1 - x
			}

			for i := iLo; i <= iHi; i++ {
				for j := jLo; j <= jHi; j++ {
					yNeighbor := int(cur.Pix[cur.At(x+j, y+i)])
					w := math.Exp(-0.5*math.Sqrt(float64(i*i+j*j))/sigma1) *
						math.Exp(-0.5*math.Abs(float64(yCenter-yNeighbor))/sigma2)
					weights = append(weights, w)
					values = append(values, float64(depth[(y+i)*e.width+x+j]))
				}
			}

			sum := floats.Sum(weights)
			acc := floats.Dot(weights, values)
			out[y*e.width+x] = byte(math.Round(acc / sum))
		}
	}

	copy(depth, out)
}

// applyMedianFilter replaces each pixel with the median of its value
// across the retained history plus the current frame, once the history
// holds MaxHistory entries. With fewer, the temporal context is
// insufficient and the filter is a no-op.
func (e *Estimator) applyMedianFilter(depth []byte) {
	if len(e.history) < MaxHistory {
		return
	}

	sample := make([]float64, 0, len(e.history)+1)
	for i := range depth {
		sample = sample[:0]
		for _, m := range e.history {
			sample = append(sample, float64(m[i]))
		}
		sample = append(sample, float64(depth[i]))
		sort.Float64s(sample)
		// With an even sample count (three history values plus the current
		// one) the empirical 0.5 quantile is the lower of the two middle
		// values; that choice is pinned here so the temporal filter's
		// output is stable across revisions.
		depth[i] = byte(stat.Quantile(0.5, stat.Empirical, sample, nil))
	}
}

// cache evicts the oldest history entry once MaxHistory is reached, then
// appends a fresh copy of depth.
func (e *Estimator) cache(depth []byte) {
	if len(e.history) >= MaxHistory {
		e.history = e.history[1:]
	}
	cp := make([]byte, len(depth))
	copy(cp, depth)
	e.history = append(e.history, cp)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
