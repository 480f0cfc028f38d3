// SPDX-License-Identifier: MIT

package imageio

import (
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// Default target size of ResizeDir, in pixels.
const (
	DefaultResizeWidth  = 180
	DefaultResizeHeight = 220
)

// ConvertPGMDir converts every .pgm file under root to a .png next to it and
// removes the source. Failures are collected and returned together; the walk
// keeps going. Returns the number of files converted.
func ConvertPGMDir(root string, opts ...Option) (int, error) {
	o := gatherOptions(opts...)
	o.exts = map[string]bool{".pgm": true}
	paths, err := listImages(root, o)
	if err != nil {
		return 0, err
	}

	var (
		merr *multierror.Error
		done int
	)
	for _, p := range paths {
		src, _, err := decodeFile(p)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		dst := withSuffix(p, ".png")
		if err = writeImage(dst, src, "png"); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", dst, err))
			continue
		}
		if err = os.Remove(p); err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		o.logger.WithFields(logrus.Fields{"from": p, "to": dst}).Info("converted")
		done++
	}

	return done, merr.ErrorOrNil()
}

// ResizeDir rescales every .png/.jpg/.jpeg under root to width×height in
// place (Catmull-Rom resampling, aspect ratio not preserved). Returns the
// number of files rewritten.
func ResizeDir(root string, width, height int, opts ...Option) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("ResizeDir: %dx%d: %w", width, height, ErrUnsupportedShape)
	}
	o := gatherOptions(opts...)
	o.exts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

	var (
		merr *multierror.Error
		done int
	)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !o.exts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		if err := resizeFile(p, width, height); err != nil {
			merr = multierror.Append(merr, err)
			return nil
		}
		o.logger.WithField("path", p).Info("resized")
		done++
		return nil
	})
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	return done, merr.ErrorOrNil()
}

func resizeFile(path string, width, height int) error {
	src, format, err := decodeFile(path)
	if err != nil {
		return err
	}
	rect := image.Rect(0, 0, width, height)
	var dst draw.Image
	switch src.(type) {
	case *image.Gray, *image.Gray16:
		dst = image.NewGray(rect)
	default:
		dst = image.NewRGBA(rect)
	}
	draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)

	return writeImage(path, dst, formatFor(format))
}

// GrayscaleFile writes a luminance copy of the image at path to
// "<name>_gray.png" in the same directory and returns that path.
func GrayscaleFile(path string) (string, error) {
	src, _, err := decodeFile(path)
	if err != nil {
		return "", err
	}
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)

	out := withSuffix(path, "_gray.png")
	if err = writeImage(out, gray, "png"); err != nil {
		return "", err
	}

	return out, nil
}
