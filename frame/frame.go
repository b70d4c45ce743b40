/*
DESCRIPTION
  frame.go provides the extended-luma and full-resolution-chroma buffer
  layouts that the motion and depth estimators operate on.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame provides the buffer layouts shared by the motion and depth
// estimators: an extended luma plane with a fixed border so that 16x16
// match windows never need bounds checks, and plain full-resolution
// chroma planes.
package frame

// Border is the padding, in pixels, added to each side of a luma plane so
// that a match window can extend up to Border pixels past the visible
// image without a bounds check.
const Border = 16

// BlockSize is the edge length of a top-level motion vector block.
const BlockSize = 16

// Luma is an extended luma plane: width W+2*Border by height H+2*Border,
// with the visible image starting at (Border, Border).
type Luma struct {
	Pix            []byte
	Width, Height  int // Visible dimensions, excluding border.
	Stride         int // Row stride of Pix, equal to Width+2*Border.
	FirstRowOffset int // Byte offset of the visible pixel (0, 0) within Pix.
	ImgSize        int // Stride * Height: size of the visible region in bytes.
}

// NewLuma allocates a zeroed extended luma plane sized for a w x h visible
// image.
func NewLuma(w, h int) *Luma {
	stride := w + 2*Border
	return &Luma{
		Pix:            make([]byte, stride*(h+2*Border)),
		Width:          w,
		Height:         h,
		Stride:         stride,
		FirstRowOffset: stride*Border + Border,
		ImgSize:        stride * h,
	}
}

// At returns the byte offset of visible pixel (x, y) within Pix.
func (l *Luma) At(x, y int) int { return l.FirstRowOffset + y*l.Stride + x }

// Row returns the visible-width slice of Pix starting at visible row y,
// column 0.
func (l *Luma) Row(y int) []byte {
	o := l.At(0, y)
	return l.Pix[o : o+l.Width]
}

// Range returns the valid candidate-offset range used by the sad package's
// safe variants: [FirstRowOffset, FirstRowOffset+ImgSize].
func (l *Luma) Range() (firstRowOffset, imgSize int) {
	return l.FirstRowOffset, l.ImgSize
}

// Chroma is a full-resolution, signed 16-bit chroma plane (U or V), with
// no border.
type Chroma struct {
	Pix           []int16
	Width, Height int
}

// NewChroma allocates a zeroed w x h chroma plane.
func NewChroma(w, h int) *Chroma {
	return &Chroma{Pix: make([]int16, w*h), Width: w, Height: h}
}

// At returns the value at visible pixel (x, y).
func (c *Chroma) At(x, y int) int16 { return c.Pix[y*c.Width+x] }
