// SPDX-License-Identifier: MIT

// Package imageio moves face images between disk and eigenface.Image.
//
// Loading: LoadDir, LoadLabeled and LoadFile decode PNG, JPEG and PGM (P2/P5,
// registered with the image package on import) into intensities in [0,1].
//
// Display: Stretch, ToImage, Grid and WritePNG turn eigenfaces, mean faces
// and reconstructions back into viewable files.
//
// Utilities: ConvertPGMDir, ResizeDir and GrayscaleFile prepare datasets in
// place. They only run when called.
package imageio
