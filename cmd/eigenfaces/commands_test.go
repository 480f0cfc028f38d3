// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/eigenface/eigenface"
	"github.com/katalvlaran/eigenface/imageio"
)

var faceShape = eigenface.Shape{6, 5}

// seedFaces writes n random grayscale PNGs into dir and returns their paths.
func seedFaces(t *testing.T, dir string, n int, seed int64) []string {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	paths := make([]string, n)
	for i := range paths {
		pix := make([]float64, faceShape.Size())
		for j := range pix {
			pix[j] = rng.Float64()
		}
		paths[i] = filepath.Join(dir, fmt.Sprintf("%02d.png", i))
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, imageio.WritePNG(paths[i], eigenface.Image{Shape: faceShape, Pix: pix}))
	}

	return paths
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out, io.Discard)

	return out.String(), err
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NotZero(t, info.Size())
}

func TestBuildCommand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	faces := filepath.Join(root, "faces")
	seedFaces(t, faces, 5, 1)
	out := filepath.Join(root, "out")

	stdout, err := runCLI(t, "build", "--gray", "-k", "2", "-o", out, faces)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(stdout, "eigenface "))
	requireFile(t, filepath.Join(out, "mean.png"))
	requireFile(t, filepath.Join(out, "eigenfaces.png"))

	mean, err := imageio.LoadFile(filepath.Join(out, "mean.png"), imageio.WithGrayscale(true))
	require.NoError(t, err)
	require.True(t, mean.Shape.Equal(faceShape))

	_, err = runCLI(t, "build", "--gray", "-k", "9", "-o", out, faces)
	require.ErrorIs(t, err, eigenface.ErrInvalidRank)

	_, err = runCLI(t, "build", "-o", out, filepath.Join(root, "missing"))
	require.Error(t, err)
}

func TestApproximateCommand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	paths := seedFaces(t, filepath.Join(root, "faces"), 6, 2)
	out := filepath.Join(root, "out")

	stdout, err := runCLI(t, "approximate", "--gray", "--ks", "1", "--ks", "4", "-o", out, filepath.Join(root, "faces"), paths[3])
	require.NoError(t, err)
	require.Contains(t, stdout, "k=1\t")
	require.Contains(t, stdout, "k=4\t")
	requireFile(t, filepath.Join(out, "approximation.png"))
}

func TestRecognizeCommand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	paths := seedFaces(t, filepath.Join(root, "base"), 6, 3)
	out := filepath.Join(root, "out")

	stdout, err := runCLI(t, "recognize", "--gray", "-k", "3", "-o", out, filepath.Join(root, "base"), paths[4])
	require.NoError(t, err)
	require.Contains(t, stdout, "label="+paths[4]+" index=4 distance=0.000000 accepted=true")
	requireFile(t, filepath.Join(out, "recognition.png"))

	// a tight base limit leaves the query out of the base
	stdout, err = runCLI(t, "recognize", "--gray", "-k", "2", "--base-limit", "3", "-o", out, filepath.Join(root, "base"), paths[4])
	require.NoError(t, err)
	require.NotContains(t, stdout, "index=4")
}

func TestClassifyCommand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	seedFaces(t, filepath.Join(root, "alice"), 3, 4)
	seedFaces(t, filepath.Join(root, "bob"), 4, 5)

	stdout, err := runCLI(t, "classify", "--gray", "--per-label", "3", root)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)
	require.Equal(t, []string{"label", "w1", "w2", "w3"}, records[0])
	require.Equal(t, "alice", records[1][0])
	require.Equal(t, "bob", records[6][0])
}

func TestComposeCommand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	seedFaces(t, filepath.Join(root, "faces"), 5, 6)
	out := filepath.Join(root, "out")

	stdout, err := runCLI(t, "compose", "--gray", "--slider", "127", "--slider", "127", "-o", out, filepath.Join(root, "faces"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "composed.png")+"\n", stdout)

	// centred sliders reproduce the mean face
	_, err = runCLI(t, "build", "--gray", "-k", "2", "-o", out, filepath.Join(root, "faces"))
	require.NoError(t, err)
	composed, err := imageio.LoadFile(filepath.Join(out, "composed.png"), imageio.WithGrayscale(true))
	require.NoError(t, err)
	mean, err := imageio.LoadFile(filepath.Join(out, "mean.png"), imageio.WithGrayscale(true))
	require.NoError(t, err)
	require.Equal(t, mean.Pix, composed.Pix)

	_, err = runCLI(t, "compose", "--slider", "300", "-o", out, filepath.Join(root, "faces"))
	require.Error(t, err)
	_, err = runCLI(t, "compose", "--weight", "1", "--slider", "3", "-o", out, filepath.Join(root, "faces"))
	require.Error(t, err)
	_, err = runCLI(t, "compose", "-o", out, filepath.Join(root, "faces"))
	require.Error(t, err)
}

func TestComposeCommand_WarnsOnDroppedWeights(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	seedFaces(t, filepath.Join(root, "faces"), 4, 10)
	out := filepath.Join(root, "out")

	var stdout, logs bytes.Buffer
	err := run([]string{"compose", "--gray", "--weight", "0.1", "--weight", "0.2", "--weight", "0.3", "--weight", "0.4",
		"-o", out, filepath.Join(root, "faces")}, &stdout, &logs)
	require.NoError(t, err)
	requireFile(t, filepath.Join(out, "composed.png"))
	require.Contains(t, logs.String(), "trailing weights ignored")
	require.Contains(t, logs.String(), "rank clamped")

	logs.Reset()
	err = run([]string{"compose", "--gray", "--weight", "0.1", "-o", out, filepath.Join(root, "faces")}, &stdout, &logs)
	require.NoError(t, err)
	require.NotContains(t, logs.String(), "trailing weights ignored")
}

func TestFileCommands(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	paths := seedFaces(t, root, 2, 7)

	stdout, err := runCLI(t, "resize", "--width", "3", "--height", "4", root)
	require.NoError(t, err)
	require.Equal(t, "resized 2 images\n", stdout)
	img, err := imageio.LoadFile(paths[0], imageio.WithGrayscale(true))
	require.NoError(t, err)
	require.True(t, img.Shape.Equal(eigenface.Shape{4, 3}))

	stdout, err = runCLI(t, "grayscale", paths[1])
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "01_gray.png")+"\n", stdout)

	pgmDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(pgmDir, "1.pgm"), []byte("P2 1 1 255\n9\n"), 0o644))
	stdout, err = runCLI(t, "convert", pgmDir)
	require.NoError(t, err)
	require.Equal(t, "converted 1 images\n", stdout)
	requireFile(t, filepath.Join(pgmDir, "1.png"))
}

func TestRun_ConfigAndUsageErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	faces := filepath.Join(root, "faces")
	seedFaces(t, faces, 4, 8)
	cfg := filepath.Join(root, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("components: 2\ngrayscale: true\noutput: "+filepath.Join(root, "o")+"\n"), 0o644))

	stdout, err := runCLI(t, "--config", cfg, "build", faces)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(stdout, "eigenface "))
	requireFile(t, filepath.Join(root, "o", "mean.png"))

	require.NoError(t, os.WriteFile(cfg, []byte("solver: qr\n"), 0o644))
	_, err = runCLI(t, "--config", cfg, "build", faces)
	require.Error(t, err)

	_, err = runCLI(t, "nope")
	require.Error(t, err)
	_, err = runCLI(t, "build")
	require.Error(t, err)
}
