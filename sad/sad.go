/*
DESCRIPTION
  sad.go provides sum-of-absolute-differences tile metrics used by the
  motion estimator's block search. Kernels are pure functions operating on
  slices of an extended luma plane addressed by stride; they perform no
  allocation.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sad provides sum-of-absolute-differences tile metrics over
// strided byte planes, and bounds-checked variants for use against
// reference planes that may not have enough border to satisfy every
// candidate offset.
package sad

import "math"

// Inf is the sentinel error value returned by the safe variants when a
// candidate tile falls outside the reference plane's valid range.
const Inf = math.MaxInt32

// NxN computes the sum of absolute differences between two N x N tiles,
// where a and b are the top-left corners of the tiles within planes of the
// given stride.
func NxN(n int, a, b []byte, stride int) int {
	sum := 0
	for y := 0; y < n; y++ {
		ar := a[y*stride : y*stride+n]
		br := b[y*stride : y*stride+n]
		for x := 0; x < n; x++ {
			d := int(ar[x]) - int(br[x])
			if d < 0 {
				d = -d
			}
			sum += d
		}
	}
	return sum
}

// SAD4x4 is the sum of absolute differences over a 4x4 tile.
func SAD4x4(a, b []byte, stride int) int { return NxN(4, a, b, stride) }

// SAD8x8 is the sum of absolute differences over an 8x8 tile.
func SAD8x8(a, b []byte, stride int) int { return NxN(8, a, b, stride) }

// SAD16x16 is the sum of absolute differences over a 16x16 tile.
func SAD16x16(a, b []byte, stride int) int { return NxN(16, a, b, stride) }

// Range describes the valid byte offset range of a reference plane, i.e.
// [Base+FirstRowOffset, Base+FirstRowOffset+ImgSize]. The candOffset that
// Safe checks against it is the byte offset (relative to Base) of a
// candidate tile's top-left corner.
type Range struct {
	FirstRowOffset int
	ImgSize        int
}

// Safe evaluates an N x N SAD between cur (an offset into the current
// frame) and cand (the matching offset into the reference plane), but only
// if candOffset, the byte offset of cand's base pointer within the
// reference plane, falls inside rng. If it does not, Safe returns Inf
// without touching cand, which may otherwise read past the reference
// plane's allocation.
func Safe(n int, cur, cand []byte, stride int, candOffset int, rng Range) int {
	if candOffset < rng.FirstRowOffset || candOffset > rng.FirstRowOffset+rng.ImgSize {
		return Inf
	}
	return NxN(n, cur, cand, stride)
}

// Safe4x4 is Safe specialized to 4x4 tiles.
func Safe4x4(cur, cand []byte, stride int, candOffset int, rng Range) int {
	return Safe(4, cur, cand, stride, candOffset, rng)
}

// Safe8x8 is Safe specialized to 8x8 tiles.
func Safe8x8(cur, cand []byte, stride int, candOffset int, rng Range) int {
	return Safe(8, cur, cand, stride, candOffset, rng)
}

// Safe16x16 is Safe specialized to 16x16 tiles.
func Safe16x16(cur, cand []byte, stride int, candOffset int, rng Range) int {
	return Safe(16, cur, cand, stride, candOffset, rng)
}
