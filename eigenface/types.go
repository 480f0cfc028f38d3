// SPDX-License-Identifier: MIT

package eigenface

import (
	"fmt"
	"math"
)

// Shape lists image dimensions, e.g. {H, W} for grayscale or {H, W, C} for
// multi-channel images. Pixels are stored row-major in that order.
type Shape []int

// Size returns the number of scalar values an image of this shape holds,
// or 0 for an empty or non-positive shape.
func (s Shape) Size() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, d := range s {
		if d <= 0 {
			return 0
		}
		n *= d
	}

	return n
}

// Equal reports whether s and other have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}

	return true
}

func (s Shape) String() string { return fmt.Sprint([]int(s)) }

// Image is a row-major buffer of pixel intensities, nominally in [0, 1].
// Reconstructions and eigenfaces may leave that range.
type Image struct {
	Shape Shape
	Pix   []float64
}

// NewImage validates that pix holds exactly shape.Size() values and that
// every dimension is positive. The slices are used as-is, not copied.
func NewImage(shape Shape, pix []float64) (Image, error) {
	if err := checkImage(Image{Shape: shape, Pix: pix}); err != nil {
		return Image{}, opErrorf(opNewImage, err)
	}

	return Image{Shape: shape, Pix: pix}, nil
}

// Clone returns a deep copy of img.
func (img Image) Clone() Image {
	shape := make(Shape, len(img.Shape))
	copy(shape, img.Shape)
	pix := make([]float64, len(img.Pix))
	copy(pix, img.Pix)

	return Image{Shape: shape, Pix: pix}
}

func checkImage(img Image) error {
	size := img.Shape.Size()
	if size == 0 || len(img.Pix) != size {
		return fmt.Errorf("shape %v with %d values: %w", img.Shape, len(img.Pix), ErrShapeMismatch)
	}

	return nil
}

// Basis is the eigenface subspace produced by Build: the mean face of the
// training corpus and K unit-norm, mutually orthogonal eigenfaces ordered by
// descending eigenvalue.
//
// A Basis is immutable after construction and safe for concurrent readers.
type Basis struct {
	// Mean is the pixel-wise average of the training corpus.
	Mean Image

	// Faces are the eigenfaces, Faces[0] carrying the most variance.
	Faces []Image

	// Eigenvalues[i] is the eigenvalue of the reduced covariance matrix
	// C·Cᵀ for Faces[i]. Nil for bases created with NewBasis.
	Eigenvalues []float64

	// TotalVariance is the trace of C·Cᵀ, the sum of all N eigenvalues,
	// kept so ExplainedVariance stays meaningful after truncation.
	TotalVariance float64
}

// NewBasis wraps an externally computed mean face and eigenfaces.
// The faces are expected to be orthonormal; only shapes are checked.
func NewBasis(mean Image, faces []Image) (*Basis, error) {
	if err := checkImage(mean); err != nil {
		return nil, opErrorf(opNewBasis, err)
	}
	if len(faces) == 0 {
		return nil, opErrorf(opNewBasis, ErrInvalidRank)
	}
	for i, f := range faces {
		if !f.Shape.Equal(mean.Shape) || len(f.Pix) != len(mean.Pix) {
			return nil, fmt.Errorf("%s: face %d: %w", opNewBasis, i, ErrShapeMismatch)
		}
	}

	return &Basis{Mean: mean, Faces: faces}, nil
}

// K returns the number of eigenfaces.
func (b *Basis) K() int { return len(b.Faces) }

// Shape returns the image shape the basis was built for.
func (b *Basis) Shape() Shape { return b.Mean.Shape }

// Dim returns the number of pixels D of a flattened image.
func (b *Basis) Dim() int { return len(b.Mean.Pix) }

// ExplainedVariance returns, for every eigenface, the fraction of the corpus
// variance it captures. Fractions are taken against TotalVariance when known,
// otherwise against the sum of the retained eigenvalues. Returns nil when the
// basis carries no eigenvalues.
func (b *Basis) ExplainedVariance() []float64 {
	if len(b.Eigenvalues) == 0 {
		return nil
	}
	total := b.TotalVariance
	if total <= 0 || math.IsNaN(total) {
		total = 0
		for _, v := range b.Eigenvalues {
			total += v
		}
	}
	out := make([]float64, len(b.Eigenvalues))
	if total == 0 {
		return out
	}
	for i, v := range b.Eigenvalues {
		out[i] = v / total
	}

	return out
}

// Truncate returns a basis made of the first k eigenfaces, sharing the mean.
// Reconstruction error with Truncate(k) is non-increasing in k.
func (b *Basis) Truncate(k int) (*Basis, error) {
	if b == nil {
		return nil, opErrorf(opTruncate, ErrNilBasis)
	}
	if k < 1 || k > b.K() {
		return nil, fmt.Errorf("%s: k=%d outside [1,%d]: %w", opTruncate, k, b.K(), ErrInvalidRank)
	}
	out := &Basis{
		Mean:          b.Mean,
		Faces:         b.Faces[:k:k],
		TotalVariance: b.TotalVariance,
	}
	if len(b.Eigenvalues) >= k {
		out.Eigenvalues = b.Eigenvalues[:k:k]
	}

	return out, nil
}
