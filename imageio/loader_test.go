// SPDX-License-Identifier: MIT
package imageio_test

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/eigenface/eigenface"
	"github.com/katalvlaran/eigenface/imageio"
)

// seedDir lays out:
//
//	root/a.png (4×3, value 0)
//	root/b.png (4×3, value 255)
//	root/sub/c.png (4×3, value 51)
//	root/notes.txt
func seedDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeGrayPNG(t, filepath.Join(root, "a.png"), 4, 3, constant(0))
	writeGrayPNG(t, filepath.Join(root, "b.png"), 4, 3, constant(255))
	writeGrayPNG(t, filepath.Join(root, "sub", "c.png"), 4, 3, constant(51))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	return root
}

func TestLoadDir_RecursiveSortedGrayscale(t *testing.T) {
	t.Parallel()

	root := seedDir(t)
	imgs, paths, err := imageio.LoadDir(root, imageio.WithGrayscale(true))
	require.NoError(t, err)
	require.Len(t, imgs, 3)
	require.Equal(t, []string{
		filepath.Join(root, "a.png"),
		filepath.Join(root, "b.png"),
		filepath.Join(root, "sub", "c.png"),
	}, paths)

	for _, img := range imgs {
		require.True(t, img.Shape.Equal(eigenface.Shape{3, 4}))
	}
	require.Equal(t, 0.0, imgs[0].Pix[0])
	require.Equal(t, 1.0, imgs[1].Pix[0])
	require.InDelta(t, 0.2, imgs[2].Pix[5], 1e-12)
}

func TestLoadDir_ColorShape(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRGBPNG(t, filepath.Join(root, "x.png"), 2, 2, color.RGBA{R: 255, G: 0, B: 51, A: 255})
	writeRGBPNG(t, filepath.Join(root, "y.png"), 2, 2, color.RGBA{R: 0, G: 255, B: 0, A: 255})

	imgs, _, err := imageio.LoadDir(root)
	require.NoError(t, err)
	require.True(t, imgs[0].Shape.Equal(eigenface.Shape{2, 2, 3}))
	require.Equal(t, 1.0, imgs[0].Pix[0])
	require.Equal(t, 0.0, imgs[0].Pix[1])
	require.InDelta(t, 0.2, imgs[0].Pix[2], 1e-12)
}

func TestLoadDir_LimitAndExtensions(t *testing.T) {
	t.Parallel()

	root := seedDir(t)
	imgs, paths, err := imageio.LoadDir(root, imageio.WithLimit(2))
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	require.Len(t, paths, 2)

	_, _, err = imageio.LoadDir(root, imageio.WithExtensions("jpg"))
	require.ErrorIs(t, err, imageio.ErrNoImages)
}

func TestLoadDir_SkipsOrFailsOnBadFiles(t *testing.T) {
	t.Parallel()

	root := seedDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.png"), []byte("not a png"), 0o644))
	writeGrayPNG(t, filepath.Join(root, "wide.png"), 9, 3, constant(7))

	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)

	imgs, _, err := imageio.LoadDir(root, imageio.WithLoaderLogger(logger))
	require.NoError(t, err)
	require.Len(t, imgs, 3)
	require.True(t, strings.Contains(logs.String(), "skipping image"))

	_, _, err = imageio.LoadDir(root, imageio.WithStrict(true))
	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
	require.ErrorIs(t, err, imageio.ErrInconsistentShape)
}

func TestLoadDir_SingleFileAndMissing(t *testing.T) {
	t.Parallel()

	root := seedDir(t)
	imgs, paths, err := imageio.LoadDir(filepath.Join(root, "b.png"), imageio.WithGrayscale(true))
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	require.Equal(t, []string{filepath.Join(root, "b.png")}, paths)

	img, err := imageio.LoadFile(filepath.Join(root, "a.png"))
	require.NoError(t, err)
	require.True(t, img.Shape.Equal(eigenface.Shape{3, 4, 3}))

	_, _, err = imageio.LoadDir(filepath.Join(root, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = imageio.LoadDir(t.TempDir())
	require.ErrorIs(t, err, imageio.ErrNoImages)

	require.NoError(t, os.WriteFile(filepath.Join(root, "fake.pgm"), []byte("P7 nope"), 0o644))
	_, err = imageio.LoadFile(filepath.Join(root, "fake.pgm"))
	require.ErrorIs(t, err, imageio.ErrUnsupportedFormat)
}

func TestLoadLabeled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, who := range []string{"bob", "alice"} {
		for i := 0; i < 3; i++ {
			writeGrayPNG(t, filepath.Join(root, who, string(rune('a'+i))+".png"), 2, 2, constant(uint8(i*10)))
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	imgs, labels, err := imageio.LoadLabeled(root, imageio.WithLimit(2), imageio.WithGrayscale(true))
	require.NoError(t, err)
	require.Len(t, imgs, 4)
	require.Equal(t, []string{"alice", "alice", "bob", "bob"}, labels)

	writeGrayPNG(t, filepath.Join(root, "carol", "a.png"), 3, 3, constant(1))
	_, _, err = imageio.LoadLabeled(root, imageio.WithGrayscale(true))
	require.ErrorIs(t, err, imageio.ErrInconsistentShape)
}
