//go:build withcv
// +build withcv

/*
DESCRIPTION
  halfpel.go synthesizes the four half-pixel-shifted versions of a
  previous-frame luma plane used for sub-pixel motion refinement. The
  production pipeline may supply these directly; this package exists so
  that a caller with only a raw previous frame (e.g. cmd/depthcli, or a
  filter.Depth running standalone) can produce them itself.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package halfpel builds the UP, LEFT and UPLEFT half-pixel-shifted
// reference planes that the motion estimator's sub-pixel refinement phase
// probes against.
package halfpel

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/depth/frame"
)

// shift builds a 2x3 affine translation matrix moving the image by (dx,
// dy) pixels, for use with gocv.WarpAffineWithParams.
func shift(dx, dy float64) gocv.Mat {
	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	m.SetDoubleAt(0, 0, 1)
	m.SetDoubleAt(0, 1, 0)
	m.SetDoubleAt(0, 2, dx)
	m.SetDoubleAt(1, 0, 0)
	m.SetDoubleAt(1, 1, 1)
	m.SetDoubleAt(1, 2, dy)
	return m
}

// warp applies a half-pixel translation to a decoded grayscale Mat via
// bilinear interpolation, replicating edge pixels, and wraps the result
// into an extended Luma the same way frame.NewLumaFromGray does.
func warp(gray gocv.Mat, dx, dy float64) (*frame.Luma, error) {
	m := shift(dx, dy)
	defer m.Close()

	out := gocv.NewMat()
	defer out.Close()

	sz := image.Pt(gray.Cols(), gray.Rows())
	gocv.WarpAffineWithParams(gray, &out, m, sz, gocv.InterpolationLinear, gocv.BorderReplicate, gocv.NewScalar(0, 0, 0, 0))

	return frame.NewLumaFromGray(out)
}

// Planes builds the UP, LEFT and UPLEFT half-pixel-shifted versions of
// gray, a single-channel 8-bit grayscale Mat holding the previous frame's
// luma plane. Each shift moves the content by half a pixel in the named
// direction, matching the geometry the motion estimator's Phase 4
// refinement expects: UP looks half a pixel above the integer-pel sample,
// LEFT half a pixel to the left, UPLEFT both.
func Planes(gray gocv.Mat) (up, left, upleft *frame.Luma, err error) {
	up, err = warp(gray, 0, -0.5)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("halfpel: building UP plane: %w", err)
	}
	left, err = warp(gray, -0.5, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("halfpel: building LEFT plane: %w", err)
	}
	upleft, err = warp(gray, -0.5, -0.5)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("halfpel: building UPLEFT plane: %w", err)
	}
	return up, left, upleft, nil
}
