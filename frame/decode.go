//go:build withcv
// +build withcv

/*
DESCRIPTION
  decode.go provides the gocv-backed constructor that builds an extended
  luma plane from a decoded video frame.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

import (
	"fmt"
	"image/color"

	"gocv.io/x/gocv"
)

// NewLumaFromGray builds an extended luma plane from a single-channel
// 8-bit grayscale Mat, padding it with Border pixels of replicated edge on
// every side via gocv.CopyMakeBorder. This is the collaborator the
// pipeline uses to turn a decoded frame's Y plane into the layout the
// motion estimator expects.
func NewLumaFromGray(gray gocv.Mat) (*Luma, error) {
	if gray.Empty() {
		return nil, fmt.Errorf("frame: source Mat is empty")
	}
	w, h := gray.Cols(), gray.Rows()

	padded := gocv.NewMat()
	defer padded.Close()
	gocv.CopyMakeBorder(gray, &padded, Border, Border, Border, Border, gocv.BorderReplicate, color.RGBA{})

	data, err := padded.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("frame: reading padded Mat data: %w", err)
	}

	l := &Luma{
		Width:          w,
		Height:         h,
		Stride:         w + 2*Border,
		FirstRowOffset: (w+2*Border)*Border + Border,
		ImgSize:        (w + 2*Border) * h,
	}
	l.Pix = make([]byte, len(data))
	copy(l.Pix, data)
	return l, nil
}
