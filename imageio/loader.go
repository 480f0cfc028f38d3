// SPDX-License-Identifier: MIT

package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/eigenface/eigenface"
)

var (
	// ErrNoImages is returned when a path yields no loadable image.
	ErrNoImages = errors.New("imageio: no valid images found")

	// ErrUnsupportedFormat indicates a file that no registered decoder accepts,
	// or a malformed netpbm stream.
	ErrUnsupportedFormat = errors.New("imageio: unsupported image format")

	// ErrInconsistentShape indicates an image whose dimensions differ from the
	// first image of the batch.
	ErrInconsistentShape = errors.New("imageio: inconsistent image shape")

	// ErrUnsupportedShape indicates an eigenface.Image that cannot be encoded
	// (only {H,W}, {H,W,1} and {H,W,3} are).
	ErrUnsupportedShape = errors.New("imageio: unsupported image shape")
)

// DefaultExtensions are the file extensions LoadDir picks up.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".pgm"}

// Option configures the loaders and file utilities.
type Option func(*options)

type options struct {
	limit     int
	grayscale bool
	strict    bool
	exts      map[string]bool
	logger    logrus.FieldLogger
}

// WithLimit caps the number of images loaded (per label for LoadLabeled).
// 0 means no limit.
func WithLimit(n int) Option {
	if n < 0 {
		panic("imageio: WithLimit: n must be >= 0")
	}

	return func(o *options) { o.limit = n }
}

// WithGrayscale loads images as {H,W} luminance instead of {H,W,3} RGB.
func WithGrayscale(gray bool) Option {
	return func(o *options) { o.grayscale = gray }
}

// WithStrict makes any unreadable or mismatched file fail the whole load.
// Otherwise such files are logged and skipped.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithExtensions replaces the accepted file extensions (case-insensitive,
// leading dot optional).
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.exts = make(map[string]bool, len(exts))
		for _, e := range exts {
			e = strings.ToLower(e)
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			o.exts[e] = true
		}
	}
}

// WithLoaderLogger sets the logger used for skipped files and progress.
func WithLoaderLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("imageio: WithLoaderLogger: logger must not be nil")
	}

	return func(o *options) { o.logger = l }
}

func gatherOptions(opts ...Option) options {
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	o := options{logger: silent}
	WithExtensions(DefaultExtensions...)(&o)
	for _, set := range opts {
		if set != nil {
			set(&o)
		}
	}

	return o
}

// LoadFile decodes a single image file into intensities in [0,1].
func LoadFile(path string, opts ...Option) (eigenface.Image, error) {
	o := gatherOptions(opts...)

	return loadFile(path, o)
}

func loadFile(path string, o options) (eigenface.Image, error) {
	src, _, err := decodeFile(path)
	if err != nil {
		return eigenface.Image{}, err
	}

	return FromImage(src, o.grayscale), nil
}

// LoadDir loads every image under root (recursively, in lexical order) and
// returns them with their paths. A root that is a regular file is loaded on
// its own.
//
// All images must share the shape of the first one loaded. Files that fail to
// decode or differ in shape are skipped with a warning, or, under
// WithStrict(true), collected into a multierror that fails the call.
// Returns ErrNoImages when nothing could be loaded.
func LoadDir(root string, opts ...Option) ([]eigenface.Image, []string, error) {
	o := gatherOptions(opts...)

	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		img, err := loadFile(root, o)
		if err != nil {
			return nil, nil, err
		}
		return []eigenface.Image{img}, []string{root}, nil
	}

	paths, err := listImages(root, o)
	if err != nil {
		return nil, nil, err
	}

	var (
		images []eigenface.Image
		loaded []string
		shape  eigenface.Shape
		merr   *multierror.Error
	)
	for _, p := range paths {
		if o.limit > 0 && len(images) >= o.limit {
			break
		}
		img, err := loadFile(p, o)
		if err == nil && shape != nil && !img.Shape.Equal(shape) {
			err = fmt.Errorf("shape %v, want %v: %w", img.Shape, shape, ErrInconsistentShape)
		}
		if err != nil {
			if o.strict {
				merr = multierror.Append(merr, fmt.Errorf("%s: %w", p, err))
				continue
			}
			o.logger.WithError(err).WithField("path", p).Warn("skipping image")
			continue
		}
		if shape == nil {
			shape = img.Shape
		}
		images = append(images, img)
		loaded = append(loaded, p)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, nil, err
	}
	if len(images) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", root, ErrNoImages)
	}
	o.logger.WithFields(logrus.Fields{"root": root, "images": len(images), "shape": shape.String()}).Debug("images loaded")

	return images, loaded, nil
}

// LoadLabeled treats every immediate subdirectory of root as one identity:
// its images (see LoadDir) are labeled with the directory name. Labels come
// out in lexical order. WithLimit applies per label.
func LoadLabeled(root string, opts ...Option) ([]eigenface.Image, []string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, err
	}

	var (
		images []eigenface.Image
		labels []string
	)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		imgs, _, err := LoadDir(filepath.Join(root, e.Name()), opts...)
		if errors.Is(err, ErrNoImages) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("label %s: %w", e.Name(), err)
		}
		if len(images) > 0 && !imgs[0].Shape.Equal(images[0].Shape) {
			return nil, nil, fmt.Errorf("label %s: shape %v, want %v: %w", e.Name(), imgs[0].Shape, images[0].Shape, ErrInconsistentShape)
		}
		for _, img := range imgs {
			images = append(images, img)
			labels = append(labels, e.Name())
		}
	}
	if len(images) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", root, ErrNoImages)
	}

	return images, labels, nil
}

// listImages returns the files under root with an accepted extension,
// sorted lexically.
func listImages(root string, o options) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if o.exts[strings.ToLower(filepath.Ext(p))] {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	return paths, nil
}

// decodeFile opens and decodes path with any registered decoder.
func decodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if errors.Is(err, image.ErrFormat) {
		return nil, "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	return img, format, nil
}
