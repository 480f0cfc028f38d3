// SPDX-License-Identifier: MIT

package imageio

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/eigenface/eigenface"
)

// FromImage converts src to intensities in [0,1]. Grayscale output has shape
// {H,W}; color output has shape {H,W,3} in RGB order.
func FromImage(src image.Image, grayscale bool) eigenface.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if grayscale {
		pix := make([]float64, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g := color.Gray16Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				pix[y*w+x] = float64(g.Y) / 0xffff
			}
		}
		return eigenface.Image{Shape: eigenface.Shape{h, w}, Pix: pix}
	}

	pix := make([]float64, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			pix[i] = float64(r) / 0xffff
			pix[i+1] = float64(g) / 0xffff
			pix[i+2] = float64(bl) / 0xffff
		}
	}

	return eigenface.Image{Shape: eigenface.Shape{h, w, 3}, Pix: pix}
}

// Stretch min-max rescales img to [0,1] for display. Eigenfaces carry
// signed, tiny values; this is how they become visible. A constant image
// maps to all zeros.
func Stretch(img eigenface.Image) eigenface.Image {
	out := img.Clone()
	if len(out.Pix) == 0 {
		return out
	}
	lo, hi := floats.Min(out.Pix), floats.Max(out.Pix)
	span := hi - lo
	if span == 0 {
		for i := range out.Pix {
			out.Pix[i] = 0
		}
		return out
	}
	floats.AddConst(-lo, out.Pix)
	floats.Scale(1/span, out.Pix)

	return out
}

// ToImage encodes img as an *image.Gray ({H,W} or {H,W,1}) or *image.RGBA
// ({H,W,3}), clipping intensities to [0,1].
func ToImage(img eigenface.Image) (image.Image, error) {
	s := img.Shape
	if s.Size() == 0 || len(img.Pix) != s.Size() {
		return nil, fmt.Errorf("ToImage: shape %v with %d values: %w", s, len(img.Pix), ErrInconsistentShape)
	}
	switch {
	case len(s) == 2 || (len(s) == 3 && s[2] == 1):
		h, w := s[0], s[1]
		out := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*out.Stride+x] = to8(img.Pix[y*w+x])
			}
		}
		return out, nil
	case len(s) == 3 && s[2] == 3:
		h, w := s[0], s[1]
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := (y*w + x) * 3
				o := y*out.Stride + x*4
				out.Pix[o] = to8(img.Pix[i])
				out.Pix[o+1] = to8(img.Pix[i+1])
				out.Pix[o+2] = to8(img.Pix[i+2])
				out.Pix[o+3] = 0xff
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("ToImage: shape %v: %w", s, ErrUnsupportedShape)
	}
}

func to8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 0xff
	}

	return uint8(math.Round(v * 0xff))
}

// WritePNG encodes img (see ToImage) into a PNG file at path.
func WritePNG(path string, img eigenface.Image) error {
	out, err := ToImage(img)
	if err != nil {
		return err
	}

	return writeImage(path, out, "png")
}

// Grid tiles imgs (all of one shape) row by row into a single image with
// cols columns, the way a contact sheet lays out eigenfaces or
// reconstructions. Unused cells stay black.
func Grid(imgs []eigenface.Image, cols int) (eigenface.Image, error) {
	if len(imgs) == 0 {
		return eigenface.Image{}, fmt.Errorf("Grid: %w", ErrNoImages)
	}
	base := imgs[0].Shape
	if len(base) < 2 || base.Size() == 0 {
		return eigenface.Image{}, fmt.Errorf("Grid: shape %v: %w", base, ErrUnsupportedShape)
	}
	for i, img := range imgs {
		if !img.Shape.Equal(base) || len(img.Pix) != base.Size() {
			return eigenface.Image{}, fmt.Errorf("Grid: image %d shape %v, want %v: %w", i, img.Shape, base, ErrInconsistentShape)
		}
	}
	if cols <= 0 || cols > len(imgs) {
		cols = len(imgs)
	}
	rows := (len(imgs) + cols - 1) / cols

	h, w := base[0], base[1]
	c := base.Size() / (h * w) // channels
	shape := append(eigenface.Shape{rows * h, cols * w}, base[2:]...)
	pix := make([]float64, shape.Size())
	rowLen := w * c
	for idx, img := range imgs {
		r0, c0 := (idx/cols)*h, (idx%cols)*w
		for y := 0; y < h; y++ {
			dst := ((r0+y)*cols*w + c0) * c
			copy(pix[dst:dst+rowLen], img.Pix[y*rowLen:(y+1)*rowLen])
		}
	}

	return eigenface.Image{Shape: shape, Pix: pix}, nil
}
