// SPDX-License-Identifier: MIT

package eigenface

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Reconstruct returns Mean + Σ w[i]·Faces[i]. Values are not clipped; use
// imageio.ToImage or imageio.Stretch for display.
//
// Errors: ErrNilBasis; ErrShapeMismatch when len(w) != K.
// Complexity: O(K·D).
func (b *Basis) Reconstruct(w []float64) (Image, error) {
	if b == nil {
		return Image{}, opErrorf(opReconstruct, ErrNilBasis)
	}
	if len(w) != len(b.Faces) {
		return Image{}, fmt.Errorf("%s: %d weights for %d faces: %w", opReconstruct, len(w), len(b.Faces), ErrShapeMismatch)
	}

	out := b.Mean.Clone()
	for i, f := range b.Faces {
		if w[i] == 0 {
			continue
		}
		floats.AddScaled(out.Pix, w[i], f.Pix)
	}

	return out, nil
}

// Composer returns a pure function mapping weights to an image, for hosts
// that drive reconstruction interactively (sliders, scripts). It captures b
// and holds no other state.
func (b *Basis) Composer() func(w []float64) (Image, error) {
	return b.Reconstruct
}
