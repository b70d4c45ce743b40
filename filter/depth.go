//go:build withcv
// +build withcv

/*
DESCRIPTION
  A filter that replaces each video frame with a dense depth map derived
  from the motion between it and the previous frame.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"gocv.io/x/gocv"

	"github.com/ausocean/depth/depthest"
	"github.com/ausocean/depth/frame"
	"github.com/ausocean/depth/halfpel"
	"github.com/ausocean/depth/motion"
	"github.com/ausocean/depth/mv"
	"github.com/ausocean/depth/revid/config"
)

// FilterName and FilterAuthor identify this filter's origin for logging
// and frame metadata.
const (
	FilterName   = "DE_Starshinov"
	FilterAuthor = "Nikita Starshinov"
)

const defaultDepthQuality = 50

// Depth is a filter that estimates a dense depth map from frame-to-frame
// motion and writes it downstream in place of the original frame.
type Depth struct {
	dst       io.WriteCloser
	motionEst *motion.Estimator
	depthEst  *depthest.Estimator

	width, height int
	useHalfPixel  bool

	prevGray gocv.Mat // Decoded grayscale Mat of the previous frame; empty until the second Write.
	mvectors []mv.MV
}

// NewDepth returns a pointer to a new Depth filter. Width and Height must
// be set in c; DepthQuality defaults to 50 and UseHalfPixel to false if
// unset.
func NewDepth(dst io.WriteCloser, c config.Config) *Depth {
	if c.Width == 0 || c.Height == 0 {
		panic("filter: Depth requires c.Width and c.Height to be set")
	}

	quality := int(c.DepthQuality)
	if c.DepthQuality == 0 {
		c.LogInvalidField("DepthQuality", defaultDepthQuality)
		quality = defaultDepthQuality
	}

	w, h := int(c.Width), int(c.Height)
	hor, ver := (w+frame.BlockSize-1)/frame.BlockSize, (h+frame.BlockSize-1)/frame.BlockSize

	return &Depth{
		dst:          dst,
		motionEst:    motion.NewEstimator(w, h, quality, c.UseHalfPixel),
		depthEst:     depthest.NewEstimator(w, h, quality),
		width:        w,
		height:       h,
		useHalfPixel: c.UseHalfPixel,
		prevGray:     gocv.NewMat(),
		mvectors:     make([]mv.MV, hor*ver),
	}
}

// Close frees resources used by gocv.
func (d *Depth) Close() error {
	d.prevGray.Close()
	return nil
}

// Write decodes f, estimates motion against the previous frame, derives a
// depth map and writes it downstream as a grayscale JPEG. The first frame
// has no predecessor to estimate motion from, so an all-zero depth map is
// emitted for it.
func (d *Depth) Write(f []byte) (int, error) {
	img, err := gocv.IMDecode(f, gocv.IMReadColor)
	if err != nil {
		return 0, fmt.Errorf("filter: image can't be decoded: %w", err)
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	if gray.Cols() != d.width || gray.Rows() != d.height {
		return 0, fmt.Errorf("filter: frame is %dx%d, want %dx%d", gray.Cols(), gray.Rows(), d.width, d.height)
	}

	if d.prevGray.Empty() {
		d.prevGray = gray.Clone()
		return d.writeDepthMap(make([]byte, d.width*d.height))
	}

	cur, err := frame.NewLumaFromGray(gray)
	if err != nil {
		return 0, fmt.Errorf("filter: building current luma plane: %w", err)
	}
	prev, err := frame.NewLumaFromGray(d.prevGray)
	if err != nil {
		return 0, fmt.Errorf("filter: building previous luma plane: %w", err)
	}

	var up, left, upleft *frame.Luma
	if d.useHalfPixel {
		up, left, upleft, err = halfpel.Planes(d.prevGray)
		if err != nil {
			return 0, fmt.Errorf("filter: building half-pixel planes: %w", err)
		}
	}

	if err := d.motionEst.Estimate(cur, prev, up, left, upleft, d.mvectors); err != nil {
		return 0, fmt.Errorf("filter: estimating motion: %w", err)
	}

	depthMap := make([]byte, d.width*d.height)
	if err := d.depthEst.Estimate(cur, nil, nil, d.mvectors, depthMap); err != nil {
		return 0, fmt.Errorf("filter: estimating depth: %w", err)
	}

	d.prevGray.Close()
	d.prevGray = gray.Clone()

	return d.writeDepthMap(depthMap)
}

// writeDepthMap JPEG-encodes a width*height grayscale depth map and sends
// it downstream.
func (d *Depth) writeDepthMap(depthMap []byte) (int, error) {
	img := image.NewGray(image.Rect(0, 0, d.width, d.height))
	copy(img.Pix, depthMap)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return 0, fmt.Errorf("filter: encoding depth map: %w", err)
	}
	return d.dst.Write(buf.Bytes())
}
