package ccm

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"gonum.org/v1/gonum/mat"
)

// InferredImage is the result of InferImage: a raw BGR byte buffer plus
// its pixel dimensions. No image codec writes this back out -- §1 of
// SPEC_FULL.md places image byte-layout/codec conversion out of scope,
// so callers wrap this buffer themselves.
type InferredImage struct {
	Width, Height int
	BGR           []uint8
}

// InferImage decodes r (any format registered with image.Decode --
// PNG, JPEG, BMP, and TIFF by default, via this file's blank imports),
// applies the fitted CCM to every pixel, and returns a raw BGR buffer,
// following ccm.hpp's inferImage.
func (m *CCMModel) InferImage(r io.Reader, islinear bool) (*InferredImage, error) {
	if m.state != stateFitted {
		return nil, &NotFittedError{Method: "InferImage"}
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &NumericError{Operation: "InferImage", Reason: err.Error()}
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	n := w * h

	rgb := mat.NewDense(n, 3, nil)
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			rgb.Set(idx, 0, float64(r16)/65535.0)
			rgb.Set(idx, 1, float64(g16)/65535.0)
			rgb.Set(idx, 2, float64(b16)/65535.0)
			idx++
		}
	}

	corrected, err := m.Infer(rgb, islinear)
	if err != nil {
		return nil, err
	}

	out := make([]uint8, n*3)
	for i := 0; i < n; i++ {
		r := clamp01(corrected.At(i, 0))
		g := clamp01(corrected.At(i, 1))
		b := clamp01(corrected.At(i, 2))
		out[i*3+0] = uint8(math.Round(b * 255))
		out[i*3+1] = uint8(math.Round(g * 255))
		out[i*3+2] = uint8(math.Round(r * 255))
	}

	return &InferredImage{Width: w, Height: h, BGR: out}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
