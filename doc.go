// Package eigenface is a small, dependency-light toolkit for eigenface face
// analysis: build a PCA basis from a corpus of equally sized images, then
// project, reconstruct and recognize faces in that basis.
//
// 🚀 What is inside?
//
//	A pure-Go pipeline made of:
//		• Builder: mean face + top-k eigenfaces via the reduced N×N covariance
//		• Projector: image → weight vector, batched over a bounded worker pool
//		• Reconstructor: weights → image, and a Composer for interactive use
//		• Recognizer: nearest neighbour in weight space with optional threshold
//		• Image I/O: PNG, JPEG and PGM loading, contact-sheet grids, resizing
//
// Everything is organized under three packages and one command:
//
//	eigenface/      Image, Shape, Basis, Build, Project, Reconstruct, Gallery
//	imageio/        directory loaders, PGM decoder, display helpers, file tools
//	matrix/         dense matrices, Gram products, cyclic Jacobi eigensolver
//	cmd/eigenfaces/ CLI driving the whole pipeline, configured by YAML + flags
//
// Quick example:
//
//	imgs, _, _ := imageio.LoadDir("faces", imageio.WithGrayscale(true))
//	basis, _ := eigenface.Build(imgs, 15)
//	gallery, _ := eigenface.NewGallery(ctx, basis, imgs, nil)
//	match, _ := gallery.Recognize(query)
//
// Pixels are float64 intensities in [0,1]; reconstructions are not clipped.
//
//	go get github.com/katalvlaran/eigenface/eigenface
package eigenface
