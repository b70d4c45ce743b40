/*
DESCRIPTION
  data_test.go generates the synthetic MJPEG frames used by the filter
  benchmarks: a short sequence of grayscale stripe frames translating
  horizontally, so the motion filters have something to detect.

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
	"image"
	"image/color"
	"image/jpeg"
)

const (
	testFrameWidth  = 64
	testFrameHeight = 48
	testFrameCount  = 5
)

var testPackets = genTestPackets()

// genTestPackets encodes testFrameCount JPEG frames of a vertical stripe
// pattern, each translated two pixels left of its predecessor.
func genTestPackets() [][]byte {
	var packets [][]byte
	for n := 0; n < testFrameCount; n++ {
		img := image.NewGray(image.Rect(0, 0, testFrameWidth, testFrameHeight))
		for y := 0; y < testFrameHeight; y++ {
			for x := 0; x < testFrameWidth; x++ {
				v := byte(40)
				if ((x+2*n)/8)%2 == 1 {
					v = 220
				}
				img.SetGray(x, y, color.Gray{Y: v})
			}
		}
		var buf bytes.Buffer
		err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
		if err != nil {
			panic("filter: encoding test packet: " + err.Error())
		}
		packets = append(packets, buf.Bytes())
	}
	return packets
}
