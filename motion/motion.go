/*
DESCRIPTION
  motion.go implements the hierarchical block-matching motion estimator:
  FullSearch (a brute-force reference implementation, useful for small
  images and ground-truth comparison) and ARPS (Adaptive Rood Pattern
  Search combined with a Unit-step Refined Pattern, the production path).
  Both populate a per-16x16-block quad-tree of motion vectors.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package motion implements the ARPS/URP hierarchical motion estimator
// that derives a quad-tree of motion vectors between the current and
// previous frame's luma planes.
package motion

import (
	"fmt"

	"github.com/ausocean/depth/frame"
	"github.com/ausocean/depth/mv"
	"github.com/ausocean/depth/sad"
)

// tileSAD evaluates a similarity metric between two tiles of the given
// size, located at a and b within planes of the given stride. ARPS is
// written against this signature rather than a fixed tile size, so the 8x8
// and 4x4 search levels share one search body (estimateAtLevel).
// FullSearch calls the fixed-size kernels directly.
type tileSAD func(a, b []byte, stride int) int

// Estimator finds, for every 16x16 block of a frame, a displacement into
// the previous frame minimizing a SAD metric, optionally refined to 8x8
// and 4x4 sub-blocks and to half-pixel precision.
type Estimator struct {
	width, height int
	useHalfPixel  bool

	widthExt     int
	numBlocksHor int
	numBlocksVer int

	zmpThreshold    int
	firstThreshold  int
	secondThreshold int
}

// NewEstimator constructs an Estimator for a width x height video, with
// quality in [0, 100] selecting the ARPS threshold tiers (see
// thresholds). Construction panics if width or height is non-positive or
// quality is out of range; these are construction-contract violations per
// the external interface, not recoverable runtime errors.
func NewEstimator(width, height, quality int, useHalfPixel bool) *Estimator {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("motion: invalid dimensions %dx%d", width, height))
	}
	if quality < 0 || quality > 100 {
		panic(fmt.Sprintf("motion: quality %d out of range [0, 100]", quality))
	}

	zmp, first, second := thresholds(quality, useHalfPixel)

	return &Estimator{
		width:           width,
		height:          height,
		useHalfPixel:    useHalfPixel,
		widthExt:        width + 2*frame.Border,
		numBlocksHor:    (width + frame.BlockSize - 1) / frame.BlockSize,
		numBlocksVer:    (height + frame.BlockSize - 1) / frame.BlockSize,
		zmpThreshold:    zmp,
		firstThreshold:  first,
		secondThreshold: second,
	}
}

// NumBlocks returns the block-grid dimensions (horizontal, vertical).
func (e *Estimator) NumBlocks() (hor, vert int) { return e.numBlocksHor, e.numBlocksVer }

// thresholds returns the zmp, first and second-phase thresholds for a
// given quality and half-pixel setting, per the quality tiers in
// spec.md section 4.C. second is computed then immediately overwritten by
// first -- preserved verbatim from the reference for behavioral parity,
// per spec.md section 9.
func thresholds(quality int, useHalfPixel bool) (zmp, first, second int) {
	switch {
	case quality > 90:
		if useHalfPixel {
			zmp, first = 128, 128
		} else {
			zmp, first = 256, 256
		}
		second = 64
	case quality > 70:
		zmp, first, second = 512, 512, 256
	case quality > 50:
		zmp, first, second = 768, 768, 512
	case quality > 30:
		zmp, first, second = 1024, 1024, 768
	default:
		zmp, first, second = 1536, 1536, 1024
	}

	second = first

	return zmp / 4, first / 4, second / 4
}

// Estimate populates out[0:numBlocksHor*numBlocksVer] with a motion
// vector per 16x16 block of cur relative to prev, using the ARPS
// production path. prevUp, prevLeft and prevUpLeft are the half-pixel
// shifted versions of prev; they may be nil when the Estimator was
// constructed with useHalfPixel false, in which case they are never read.
func (e *Estimator) Estimate(cur, prev, prevUp, prevLeft, prevUpLeft *frame.Luma, out []mv.MV) error {
	if len(out) != e.numBlocksHor*e.numBlocksVer {
		return fmt.Errorf("motion: out has %d entries, want %d", len(out), e.numBlocksHor*e.numBlocksVer)
	}
	e.arps(cur, prev, prevUp, prevLeft, prevUpLeft, out)
	return nil
}

// update replaces best with cand if cand scores lower.
func update(best *mv.MV, cand mv.MV) {
	if cand.Error < best.Error {
		*best = cand
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// level bundles the geometry EstimateAtLevel needs to evaluate a
// candidate displacement: the tile metric to use, and the pixel offset
// applied to both the current and candidate tile before comparing them
// (used to implement the 4x4 "SAD", which is really an 8x8 SAD read from
// a window shifted by (-2, -2); see spec.md section 4.C).
type level struct {
	sad      tileSAD
	tileSize int
	dx, dy   int // Extra shift applied to both tiles before SAD.
	atEdge   bool
}

// candidate scores a displacement (dx, dy) against plane ref, whose
// top-left corner for this block is at refOff. The current tile stays
// fixed at the block base; only the reference tile moves by the
// displacement. The level's extra (lv.dx, lv.dy) applies to both tiles.
// It returns sad.Inf if the resulting candidate tile falls outside ref's
// valid range.
func (e *Estimator) candidate(lv level, curPix []byte, curOff int, ref *frame.Luma, refOff int, dx, dy int) int {
	cOff := curOff + lv.dy*e.widthExt + lv.dx
	rOff := refOff + (lv.dy+dy)*e.widthExt + (lv.dx + dx)
	fro, imgSize := ref.Range()
	if rOff < fro || rOff > fro+imgSize {
		return sad.Inf
	}
	if cOff < 0 || cOff+lv.tileSize*e.widthExt > len(curPix) {
		return sad.Inf
	}
	return lv.sad(curPix[cOff:], ref.Pix[rOff:], e.widthExt)
}

// estimateAtLevel runs the three-phase ZMP/rood/URP search (and, when
// enabled, the half-pixel refinement phase) for one block or sub-block,
// writing the winning candidate into best. predicted is the MV of the
// spatially preceding sub-block in raster order; lv.atEdge indicates no
// such predictor exists.
func (e *Estimator) estimateAtLevel(lv level, curPix []byte, curOff int, prev *frame.Luma, prevOff int, prevUp, prevLeft, prevUpLeft *frame.Luma, predicted mv.MV, best *mv.MV) {
	// Phase 1: zero-motion prediction.
	zero := mv.MV{ShiftDir: mv.NONE, Error: e.candidate(lv, curPix, curOff, prev, prevOff, 0, 0)}
	update(best, zero)
	if best.Error < e.zmpThreshold {
		return
	}

	// Phase 2: adaptive rood.
	arm := 2
	if !lv.atEdge {
		arm = maxInt(absInt(predicted.X), absInt(predicted.Y))
	}
	if arm != 0 {
		for _, p := range [4][2]int{{-arm, 0}, {arm, 0}, {0, -arm}, {0, arm}} {
			c := mv.MV{X: p[0], Y: p[1], ShiftDir: mv.NONE}
			c.Error = e.candidate(lv, curPix, curOff, prev, prevOff, p[0], p[1])
			update(best, c)
		}
		if !lv.atEdge && predicted.X != 0 && predicted.Y != 0 {
			c := mv.MV{X: predicted.X, Y: predicted.Y, ShiftDir: mv.NONE}
			c.Error = e.candidate(lv, curPix, curOff, prev, prevOff, predicted.X, predicted.Y)
			update(best, c)
		}
	}
	if best.Error < e.firstThreshold {
		return
	}

	// Phase 3: unit refined pattern.
	for {
		baseX, baseY := best.X, best.Y
		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			c := mv.MV{X: baseX + d[0], Y: baseY + d[1], ShiftDir: mv.NONE}
			c.Error = e.candidate(lv, curPix, curOff, prev, prevOff, c.X, c.Y)
			update(best, c)
		}
		if best.Error < e.firstThreshold || (best.X == baseX && best.Y == baseY) {
			break
		}
	}

	// Phase 4: optional half-pixel refinement.
	if e.useHalfPixel && best.Error > e.secondThreshold {
		e.halfPixelRefine(lv, curPix, curOff, prevUp, prevLeft, prevUpLeft, prevOff, best)
	}
}

// halfPixelRefine probes the LEFT and UP shifted reference planes at
// best's current integer displacement and one step further along each
// shift direction, then, depending on which direction won, probes two
// adjacent UPLEFT candidates. The candidate geometry is preserved
// verbatim from the reference (spec.md section 4.C) because it encodes
// the interpolation layout of the half-pixel planes.
func (e *Estimator) halfPixelRefine(lv level, curPix []byte, curOff int, prevUp, prevLeft, prevUpLeft *frame.Luma, prevOff int, best *mv.MV) {
	x, y := best.X, best.Y

	left := mv.MV{X: x, Y: y, ShiftDir: mv.LEFT}
	left.Error = e.candidate(lv, curPix, curOff, prevLeft, prevOff, x, y)
	update(best, left)

	left2 := mv.MV{X: x + 1, Y: y, ShiftDir: mv.LEFT}
	left2.Error = e.candidate(lv, curPix, curOff, prevLeft, prevOff, x+1, y)
	update(best, left2)

	up := mv.MV{X: x, Y: y, ShiftDir: mv.UP}
	up.Error = e.candidate(lv, curPix, curOff, prevUp, prevOff, x, y)
	update(best, up)

	up2 := mv.MV{X: x, Y: y + 1, ShiftDir: mv.UP}
	up2.Error = e.candidate(lv, curPix, curOff, prevUp, prevOff, x, y+1)
	update(best, up2)

	if best.ShiftDir == mv.UP {
		ul := mv.MV{X: x, Y: y, ShiftDir: mv.UPLEFT}
		ul.Error = e.candidate(lv, curPix, curOff, prevUpLeft, prevOff, x, y)
		update(best, ul)

		ul2 := mv.MV{X: x + 1, Y: y, ShiftDir: mv.UPLEFT}
		ul2.Error = e.candidate(lv, curPix, curOff, prevUpLeft, prevOff, x+1, y)
		update(best, ul2)
	}

	if best.ShiftDir == mv.LEFT {
		ul := mv.MV{X: x, Y: y, ShiftDir: mv.UPLEFT}
		ul.Error = e.candidate(lv, curPix, curOff, prevUpLeft, prevOff, x, y)
		update(best, ul)

		ul2 := mv.MV{X: x, Y: y + 1, ShiftDir: mv.UPLEFT}
		ul2.Error = e.candidate(lv, curPix, curOff, prevUpLeft, prevOff, x, y+1)
		update(best, ul2)
	}
}

// arps runs the production ARPS/URP search. Every 16x16 block is split
// into four 8x8 sub-blocks; each sub-block is, in turn, split into four
// 4x4 grand-children whose "SAD" reuses the 8x8 kernel on a window shifted
// by (-2, -2) (spec.md section 4.C). The grand-child split reverts (the
// 4x4 unsplit rule, enabled per spec.md section 9) when the children's
// combined error is at least three times the parent's.
func (e *Estimator) arps(cur, prev, prevUp, prevLeft, prevUpLeft *frame.Luma, out []mv.MV) {
	lv8 := level{sad: sad.SAD8x8, tileSize: 8}
	lv4 := level{sad: sad.SAD8x8, tileSize: 8, dx: -2, dy: -2}

	var predicted mv.MV

	for i := 0; i < e.numBlocksVer; i++ {
		for j := 0; j < e.numBlocksHor; j++ {
			blockID := i*e.numBlocksHor + j

			best16 := mv.New()
			best16.Split() // Always split for 8x8.

			for h := 0; h < 4; h++ {
				best8 := best16.Sub(h)
				*best8 = mv.New()

				horOff := j*frame.BlockSize + half(h&1)
				verOff := i*frame.BlockSize + half(boolToInt(h > 1))
				curOff := cur.At(horOff, verOff)
				prevOff := prev.At(horOff, verOff)

				lv8.atEdge = j == 0 && h&1 == 0
				e.estimateAtLevel(lv8, cur.Pix, curOff, prev, prevOff, prevUp, prevLeft, prevUpLeft, predicted, best8)

				parentErr := best8.Error
				best8.Split()
				// The predictor carries a displacement only; never copy a
				// split vector's sub-pointers into it.
				predicted = mv.MV{X: best8.X, Y: best8.Y}

				for h2 := 0; h2 < 4; h2++ {
					best4 := best8.Sub(h2)
					*best4 = mv.New()

					horOff2 := horOff + quarter(h2&1)
					verOff2 := verOff + quarter(boolToInt(h2 > 1))
					curOff2 := cur.At(horOff2, verOff2)
					prevOff2 := prev.At(horOff2, verOff2)

					lv4.atEdge = j == 0 && h&1 == 0 && h2&1 == 0
					e.estimateAtLevel(lv4, cur.Pix, curOff2, prev, prevOff2, prevUp, prevLeft, prevUpLeft, predicted, best4)
				}

				sum := best8.Sub(0).Error + best8.Sub(1).Error + best8.Sub(2).Error + best8.Sub(3).Error
				if sum >= 3*parentErr {
					best8.Unsplit()
				}

				predicted = mv.MV{X: best8.X, Y: best8.Y}
			}

			out[blockID] = best16.Clone()
		}
	}
}

func half(bit int) int {
	if bit != 0 {
		return frame.BlockSize / 2
	}
	return 0
}

func quarter(bit int) int {
	if bit != 0 {
		return frame.BlockSize / 4
	}
	return 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FullSearch is the brute-force reference strategy from spec.md section
// 4.C.1: it exhaustively searches every integer displacement within
// +/-Border for each 16x16 block, then conditionally splits into four
// 8x8 sub-blocks when the unified error is large, reverting the split if
// it didn't improve the combined error by more than 30%. It is provided
// for ground-truth comparison and small-image testing; its cost is
// prohibitive for real video.
func (e *Estimator) FullSearch(cur, prev, prevUp, prevLeft, prevUpLeft *frame.Luma, out []mv.MV) error {
	if len(out) != e.numBlocksHor*e.numBlocksVer {
		return fmt.Errorf("motion: out has %d entries, want %d", len(out), e.numBlocksHor*e.numBlocksVer)
	}

	planes := []*frame.Luma{prev}
	dirs := []mv.ShiftDir{mv.NONE}
	if e.useHalfPixel {
		planes = append(planes, prevUp, prevLeft, prevUpLeft)
		dirs = append(dirs, mv.UP, mv.LEFT, mv.UPLEFT)
	}

	for i := 0; i < e.numBlocksVer; i++ {
		for j := 0; j < e.numBlocksHor; j++ {
			blockID := i*e.numBlocksHor + j
			curOff := cur.At(j*frame.BlockSize, i*frame.BlockSize)

			best16 := e.exhaustive16x16(cur.Pix, curOff, planes, dirs, prev.At(j*frame.BlockSize, i*frame.BlockSize))

			if best16.Error > 1000 {
				sub := e.exhaustive8x8Quad(cur, j*frame.BlockSize, i*frame.BlockSize, planes, dirs)
				sum := sub[0].Error + sub[1].Error + sub[2].Error + sub[3].Error
				if float64(sum) > 0.7*float64(best16.Error) {
					// Unsplit: revert to the 16x16 result.
					out[blockID] = best16
					continue
				}
				m := mv.New()
				m.Split()
				for h := 0; h < 4; h++ {
					*m.Sub(h) = sub[h]
				}
				out[blockID] = m
				continue
			}

			out[blockID] = best16
		}
	}
	return nil
}

func (e *Estimator) exhaustive16x16(curPix []byte, curOff int, planes []*frame.Luma, dirs []mv.ShiftDir, baseOff int) mv.MV {
	best := mv.New()
	for pi, plane := range planes {
		for y := -frame.Border; y <= frame.Border; y++ {
			for x := -frame.Border; x <= frame.Border; x++ {
				candOff := baseOff + y*e.widthExt + x
				if candOff < 0 || candOff+15*e.widthExt+16 > len(plane.Pix) {
					continue
				}
				c := mv.MV{X: x, Y: y, ShiftDir: dirs[pi], Error: sad.SAD16x16(curPix[curOff:], plane.Pix[candOff:], e.widthExt)}
				update(&best, c)
			}
		}
	}
	return best
}

func (e *Estimator) exhaustive8x8Quad(cur *frame.Luma, hor, ver int, planes []*frame.Luma, dirs []mv.ShiftDir) [4]mv.MV {
	var out [4]mv.MV
	for h := 0; h < 4; h++ {
		ho := hor + half(h&1)
		vo := ver + half(boolToInt(h > 1))
		curOff := cur.At(ho, vo)
		baseOff := planes[0].At(ho, vo)
		best := mv.New()
		for pi, plane := range planes {
			for y := -frame.Border; y <= frame.Border; y++ {
				for x := -frame.Border; x <= frame.Border; x++ {
					candOff := baseOff + y*e.widthExt + x
					if candOff < 0 || candOff+7*e.widthExt+8 > len(plane.Pix) {
						continue
					}
					c := mv.MV{X: x, Y: y, ShiftDir: dirs[pi], Error: sad.SAD8x8(cur.Pix[curOff:], plane.Pix[candOff:], e.widthExt)}
					update(&best, c)
				}
			}
		}
		out[h] = best
	}
	return out
}
