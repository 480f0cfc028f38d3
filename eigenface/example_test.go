// SPDX-License-Identifier: MIT
package eigenface_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/eigenface/eigenface"
)

// ExampleBuild builds a two-face basis from four tiny 2×3 "faces" and
// recognizes one of them.
func ExampleBuild() {
	shape := eigenface.Shape{2, 3}
	corpus := []eigenface.Image{
		{Shape: shape, Pix: []float64{0.9, 0.1, 0.2, 0.3, 0.4, 0.8}},
		{Shape: shape, Pix: []float64{0.1, 0.8, 0.3, 0.6, 0.2, 0.1}},
		{Shape: shape, Pix: []float64{0.4, 0.4, 0.9, 0.1, 0.7, 0.3}},
		{Shape: shape, Pix: []float64{0.2, 0.3, 0.1, 0.9, 0.5, 0.6}},
	}

	basis, err := eigenface.Build(corpus, 2)
	if err != nil {
		fmt.Println("build:", err)
		return
	}
	gallery, err := eigenface.NewGallery(context.Background(), basis, corpus, []string{"ana", "bo", "cy", "dee"})
	if err != nil {
		fmt.Println("gallery:", err)
		return
	}
	match, err := gallery.Recognize(corpus[2])
	if err != nil {
		fmt.Println("recognize:", err)
		return
	}
	fmt.Printf("K=%d shape=%v match=%s\n", basis.K(), basis.Shape(), match.Label)
	// Output:
	// K=2 shape=[2 3] match=cy
}
