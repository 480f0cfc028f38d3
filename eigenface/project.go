// SPDX-License-Identifier: MIT

package eigenface

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/eigenface/matrix"
)

// Project returns the weight vector of img: w[i] = ⟨img − Mean, Faces[i]⟩.
//
// Errors: ErrNilBasis, ErrShapeMismatch, matrix.ErrNaNInf (wrapped with "Project").
// Complexity: O(K·D).
func (b *Basis) Project(img Image) ([]float64, error) {
	if b == nil {
		return nil, opErrorf(opProject, ErrNilBasis)
	}
	if !img.Shape.Equal(b.Mean.Shape) || len(img.Pix) != len(b.Mean.Pix) {
		return nil, fmt.Errorf("%s: image shape %v, basis shape %v: %w", opProject, img.Shape, b.Mean.Shape, ErrShapeMismatch)
	}
	for i, v := range img.Pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: pixel %d is %g: %w", opProject, i, v, matrix.ErrNaNInf)
		}
	}

	diff := make([]float64, len(img.Pix))
	floats.SubTo(diff, img.Pix, b.Mean.Pix)
	w := make([]float64, len(b.Faces))
	for i, f := range b.Faces {
		w[i] = floats.Dot(f.Pix, diff)
	}

	return w, nil
}

// ProjectAll projects every image and returns the weight vectors in input
// order. Work fans out over at most WithWorkers goroutines; the first error
// (or ctx cancellation) aborts the batch.
func (b *Basis) ProjectAll(ctx context.Context, imgs []Image, opts ...Option) ([][]float64, error) {
	if b == nil {
		return nil, opErrorf(opProjectAll, ErrNilBasis)
	}
	o := gatherOptions(opts...)

	out := make([][]float64, len(imgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range imgs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w, err := b.Project(imgs[i])
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			out[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, opErrorf(opProjectAll, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, opErrorf(opProjectAll, err)
	}

	return out, nil
}
