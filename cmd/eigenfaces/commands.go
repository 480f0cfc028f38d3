// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/eigenface/eigenface"
	"github.com/katalvlaran/eigenface/imageio"
)

// sliderOffset centres 8-bit slider positions on zero.
const sliderOffset = 127

func (a *app) register(p *flags.Parser) error {
	commands := []struct {
		name, short, long string
		data              any
	}{
		{"build", "Build a basis", "Compute the mean face and eigenfaces of a directory and write them as images.", &buildCommand{app: a}},
		{"approximate", "Reconstruct a query", "Reconstruct a query image with growing numbers of eigenfaces.", &approximateCommand{app: a}},
		{"recognize", "Recognize a query", "Find the base image nearest to a query in eigenface space.", &recognizeCommand{app: a}},
		{"classify", "Export weights", "Project one directory per person and write the weights as CSV.", &classifyCommand{app: a}},
		{"compose", "Compose a face", "Render mean + Σ w·eigenface from explicit weights or slider positions.", &composeCommand{app: a}},
		{"resize", "Resize images", "Resize every image under a directory in place.", &resizeCommand{app: a}},
		{"convert", "Convert PGM to PNG", "Replace every .pgm under a directory with a .png.", &convertCommand{app: a}},
		{"grayscale", "Grayscale an image", "Write <name>_gray.png next to an image.", &grayscaleCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := p.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return err
		}
	}

	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// buildBasis loads dir and builds a k-face basis from it.
func buildBasis(dir string, k int, cfg Config, log logrus.FieldLogger) ([]eigenface.Image, []string, *eigenface.Basis, error) {
	images, paths, err := imageio.LoadDir(dir, cfg.LoaderOptions(log)...)
	if err != nil {
		return nil, nil, nil, err
	}
	log.WithField("images", len(images)).WithField("shape", images[0].Shape.String()).Info("corpus loaded")

	basis, err := eigenface.Build(images, k, cfg.BuildOptions(log)...)
	if err != nil {
		return nil, nil, nil, err
	}
	log.WithField("k", basis.K()).Info("basis built")

	return images, paths, basis, nil
}

func writeGrid(path string, imgs []eigenface.Image, cols int) error {
	grid, err := imageio.Grid(imgs, cols)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return imageio.WritePNG(path, grid)
}

type buildCommand struct {
	app    *app
	Corpus corpusFlags `group:"Corpus Options"`
	Args   struct {
		Dir string `positional-arg-name:"dir" description:"training images"`
	} `positional-args:"yes" required:"yes"`
}

func (c *buildCommand) Execute([]string) error {
	cfg, log, err := c.app.setup(c.Corpus)
	if err != nil {
		return err
	}
	_, _, basis, err := buildBasis(c.Args.Dir, cfg.Components, cfg, log)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}
	if err = imageio.WritePNG(filepath.Join(cfg.Output, "mean.png"), basis.Mean); err != nil {
		return err
	}
	faces := make([]eigenface.Image, basis.K())
	for i, f := range basis.Faces {
		faces[i] = imageio.Stretch(f)
	}
	if err = writeGrid(filepath.Join(cfg.Output, "eigenfaces.png"), faces, cfg.Columns); err != nil {
		return err
	}

	cumulative := 0.0
	for i, v := range basis.ExplainedVariance() {
		cumulative += v
		fmt.Fprintf(c.app.stdout, "eigenface %d\t%.6f\t%.6f\n", i+1, v, cumulative)
	}

	return nil
}

type approximateCommand struct {
	app    *app
	Corpus corpusFlags `group:"Corpus Options"`
	Ks     []int       `long:"ks" description:"eigenface counts to reconstruct with (repeatable)"`
	Args   struct {
		Dir   string `positional-arg-name:"dir" description:"training images"`
		Query string `positional-arg-name:"query" description:"image to approximate"`
	} `positional-args:"yes" required:"yes"`
}

func (c *approximateCommand) Execute([]string) error {
	cfg, log, err := c.app.setup(c.Corpus)
	if err != nil {
		return err
	}
	ks := c.Ks
	if len(ks) == 0 {
		ks = []int{1, cfg.Components}
	}
	maxK := 0
	for _, k := range ks {
		if k < 1 {
			return fmt.Errorf("approximate: k must be >= 1, got %d", k)
		}
		maxK = max(maxK, k)
	}

	_, _, basis, err := buildBasis(c.Args.Dir, maxK, cfg, log)
	if err != nil {
		return err
	}
	query, err := imageio.LoadFile(c.Args.Query, cfg.LoaderOptions(log)...)
	if err != nil {
		return err
	}

	tiles := []eigenface.Image{query}
	for _, k := range ks {
		sub, err := basis.Truncate(min(k, basis.K()))
		if err != nil {
			return err
		}
		w, err := sub.Project(query)
		if err != nil {
			return err
		}
		approx, err := sub.Reconstruct(w)
		if err != nil {
			return err
		}
		d := floats.Distance(query.Pix, approx.Pix, 2)
		fmt.Fprintf(c.app.stdout, "k=%d\tmse=%.6f\n", sub.K(), d*d/float64(len(approx.Pix)))
		tiles = append(tiles, approx)
	}

	return writeGrid(filepath.Join(cfg.Output, "approximation.png"), tiles, cfg.Columns)
}

type recognizeCommand struct {
	app       *app
	Corpus    corpusFlags `group:"Corpus Options"`
	BaseLimit int         `long:"base-limit" description:"maximum base images"`
	Args      struct {
		Base  string `positional-arg-name:"base" description:"known faces"`
		Query string `positional-arg-name:"query" description:"face to recognize"`
	} `positional-args:"yes" required:"yes"`
}

func (c *recognizeCommand) Execute([]string) error {
	cfg, log, err := c.app.setup(c.Corpus)
	if err != nil {
		return err
	}
	if c.BaseLimit > 0 {
		cfg.BaseLimit = c.BaseLimit
	}
	cfg.Limit = cfg.BaseLimit

	ctx, stop := signalContext()
	defer stop()

	images, paths, basis, err := buildBasis(c.Args.Base, cfg.Components, cfg, log)
	if err != nil {
		return err
	}
	if cfg.BaseLimit > 0 && len(images) == cfg.BaseLimit {
		log.WithField("base_limit", cfg.BaseLimit).Warn("recognition base capped")
	}
	gallery, err := eigenface.NewGallery(ctx, basis, images, paths, cfg.BuildOptions(log)...)
	if err != nil {
		return err
	}

	query, err := imageio.LoadFile(c.Args.Query, cfg.LoaderOptions(log)...)
	if err != nil {
		return err
	}
	m, err := gallery.Recognize(query)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.stdout, "label=%s index=%d distance=%.6f accepted=%t\n", m.Label, m.Index, m.Distance, m.Accepted)

	return writeGrid(filepath.Join(cfg.Output, "recognition.png"), []eigenface.Image{query, images[m.Index]}, 2)
}

type classifyCommand struct {
	app      *app
	Corpus   corpusFlags `group:"Corpus Options"`
	PerLabel int         `long:"per-label" default:"10" description:"images loaded per person"`
	Dims     int         `long:"dims" default:"3" description:"weights exported per image"`
	Args     struct {
		Root string `positional-arg-name:"root" description:"one subdirectory per person"`
	} `positional-args:"yes" required:"yes"`
}

func (c *classifyCommand) Execute([]string) error {
	cfg, log, err := c.app.setup(c.Corpus)
	if err != nil {
		return err
	}
	if c.PerLabel < 0 || c.Dims < 1 {
		return fmt.Errorf("classify: invalid --per-label %d or --dims %d", c.PerLabel, c.Dims)
	}

	ctx, stop := signalContext()
	defer stop()

	opts := append(cfg.LoaderOptions(log), imageio.WithLimit(c.PerLabel))
	images, labels, err := imageio.LoadLabeled(c.Args.Root, opts...)
	if err != nil {
		return err
	}
	basis, err := eigenface.Build(images, c.Dims, cfg.BuildOptions(log)...)
	if err != nil {
		return err
	}
	weights, err := basis.ProjectAll(ctx, images, cfg.BuildOptions(log)...)
	if err != nil {
		return err
	}

	w := csv.NewWriter(c.app.stdout)
	header := []string{"label"}
	for i := 1; i <= basis.K(); i++ {
		header = append(header, "w"+strconv.Itoa(i))
	}
	if err = w.Write(header); err != nil {
		return err
	}
	for i, row := range weights {
		rec := []string{labels[i]}
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err = w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	log.WithField("rows", len(weights)).Info("weights exported")

	return w.Error()
}

type composeCommand struct {
	app     *app
	Corpus  corpusFlags `group:"Corpus Options"`
	Weights []float64   `long:"weight" description:"weight of the next eigenface (repeatable)"`
	Sliders []int       `long:"slider" description:"slider position 0..255 of the next eigenface (repeatable)"`
	Args    struct {
		Dir string `positional-arg-name:"dir" description:"training images"`
	} `positional-args:"yes" required:"yes"`
}

func (c *composeCommand) Execute([]string) error {
	cfg, log, err := c.app.setup(c.Corpus)
	if err != nil {
		return err
	}
	w, err := c.weights()
	if err != nil {
		return err
	}

	_, _, basis, err := buildBasis(c.Args.Dir, len(w), cfg, log)
	if err != nil {
		return err
	}
	if k := basis.K(); k < len(w) {
		log.WithFields(logrus.Fields{"weights": len(w), "k": k, "dropped": w[k:]}).
			Warn("compose: more weights than eigenfaces, trailing weights ignored")
		w = w[:k]
	}
	compose := basis.Composer()
	face, err := compose(w)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}
	path := filepath.Join(cfg.Output, "composed.png")
	if err = imageio.WritePNG(path, face); err != nil {
		return err
	}
	fmt.Fprintln(c.app.stdout, path)

	return nil
}

// weights returns explicit weights or, failing that, centred slider values.
func (c *composeCommand) weights() ([]float64, error) {
	switch {
	case len(c.Weights) > 0 && len(c.Sliders) > 0:
		return nil, fmt.Errorf("compose: use either --weight or --slider")
	case len(c.Weights) > 0:
		return c.Weights, nil
	case len(c.Sliders) > 0:
		w := make([]float64, len(c.Sliders))
		for i, s := range c.Sliders {
			if s < 0 || s > 255 {
				return nil, fmt.Errorf("compose: slider %d out of range 0..255: %d", i+1, s)
			}
			w[i] = float64(s - sliderOffset)
		}
		return w, nil
	default:
		return nil, fmt.Errorf("compose: no weights given")
	}
}

type resizeCommand struct {
	app    *app
	Width  int `long:"width" default:"180" description:"target width"`
	Height int `long:"height" default:"220" description:"target height"`
	Args   struct {
		Root string `positional-arg-name:"root"`
	} `positional-args:"yes" required:"yes"`
}

func (c *resizeCommand) Execute([]string) error {
	_, log, err := c.app.setup(corpusFlags{})
	if err != nil {
		return err
	}
	n, err := imageio.ResizeDir(c.Args.Root, c.Width, c.Height, imageio.WithLoaderLogger(log))
	fmt.Fprintf(c.app.stdout, "resized %d images\n", n)

	return err
}

type convertCommand struct {
	app  *app
	Args struct {
		Root string `positional-arg-name:"root"`
	} `positional-args:"yes" required:"yes"`
}

func (c *convertCommand) Execute([]string) error {
	_, log, err := c.app.setup(corpusFlags{})
	if err != nil {
		return err
	}
	n, err := imageio.ConvertPGMDir(c.Args.Root, imageio.WithLoaderLogger(log))
	fmt.Fprintf(c.app.stdout, "converted %d images\n", n)

	return err
}

type grayscaleCommand struct {
	app  *app
	Args struct {
		Path string `positional-arg-name:"path"`
	} `positional-args:"yes" required:"yes"`
}

func (c *grayscaleCommand) Execute([]string) error {
	if _, _, err := c.app.setup(corpusFlags{}); err != nil {
		return err
	}
	out, err := imageio.GrayscaleFile(c.Args.Path)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.app.stdout, out)

	return nil
}
