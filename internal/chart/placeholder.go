package chart

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// blankPNG encodes a plain white canvas. Last-resort output when the
// chart renderer itself errors.
func blankPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	for y := 0; y < chartHeight; y++ {
		for x := 0; x < chartWidth; x++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
