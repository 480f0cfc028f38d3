// SPDX-License-Identifier: MIT

package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

// Netpbm grayscale (PGM) support, plain (P2) and raw (P5). Registered with the
// image package so image.Decode recognizes ".pgm" files like png and jpeg.

func init() {
	image.RegisterFormat("pgm", "P5", DecodePGM, DecodePGMConfig)
	image.RegisterFormat("pgm", "P2", DecodePGM, DecodePGMConfig)
}

// pgmMaxPixels bounds width*height of a decoded PGM (256 Mpx).
const pgmMaxPixels = 1 << 28

type pgmHeader struct {
	plain  bool
	width  int
	height int
	maxval int
}

// DecodePGMConfig returns the dimensions of a PGM image without reading pixels.
func DecodePGMConfig(r io.Reader) (image.Config, error) {
	h, err := readPGMHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	model := color.GrayModel
	if h.maxval > 0xff {
		model = color.Gray16Model
	}

	return image.Config{ColorModel: model, Width: h.width, Height: h.height}, nil
}

// DecodePGM decodes a P2 or P5 image. Samples are rescaled from [0,maxval] to
// the full range of the returned *image.Gray (maxval < 256) or *image.Gray16.
func DecodePGM(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readPGMHeader(br)
	if err != nil {
		return nil, err
	}
	n := h.width * h.height
	rect := image.Rect(0, 0, h.width, h.height)

	next := func() (int, error) { return pgmRawSample(br, h.maxval) }
	if h.plain {
		next = func() (int, error) { return pgmInt(br) }
	}

	if h.maxval <= 0xff {
		img := image.NewGray(rect)
		for i := 0; i < n; i++ {
			v, err := next()
			if err != nil {
				return nil, fmt.Errorf("pgm: sample %d: %w", i, err)
			}
			if v > h.maxval {
				return nil, fmt.Errorf("pgm: sample %d exceeds maxval %d: %w", i, h.maxval, ErrUnsupportedFormat)
			}
			img.Pix[i] = uint8(v * 0xff / h.maxval)
		}
		return img, nil
	}

	img := image.NewGray16(rect)
	for i := 0; i < n; i++ {
		v, err := next()
		if err != nil {
			return nil, fmt.Errorf("pgm: sample %d: %w", i, err)
		}
		if v > h.maxval {
			return nil, fmt.Errorf("pgm: sample %d exceeds maxval %d: %w", i, h.maxval, ErrUnsupportedFormat)
		}
		s := uint16(v * 0xffff / h.maxval)
		img.Pix[2*i] = uint8(s >> 8)
		img.Pix[2*i+1] = uint8(s)
	}

	return img, nil
}

func readPGMHeader(br *bufio.Reader) (pgmHeader, error) {
	var h pgmHeader
	magic, err := pgmToken(br)
	if err != nil {
		return h, fmt.Errorf("pgm: magic: %w", err)
	}
	switch magic {
	case "P2":
		h.plain = true
	case "P5":
	default:
		return h, fmt.Errorf("pgm: magic %q: %w", magic, ErrUnsupportedFormat)
	}
	if h.width, err = pgmInt(br); err != nil {
		return h, fmt.Errorf("pgm: width: %w", err)
	}
	if h.height, err = pgmInt(br); err != nil {
		return h, fmt.Errorf("pgm: height: %w", err)
	}
	if h.maxval, err = pgmInt(br); err != nil {
		return h, fmt.Errorf("pgm: maxval: %w", err)
	}
	if h.width <= 0 || h.height <= 0 || h.maxval <= 0 || h.maxval > 0xffff {
		return h, fmt.Errorf("pgm: header %dx%d maxval %d: %w", h.width, h.height, h.maxval, ErrUnsupportedFormat)
	}
	// width*height is compared by division so the product cannot overflow.
	if h.width > pgmMaxPixels/h.height {
		return h, fmt.Errorf("pgm: %dx%d exceeds %d pixels: %w", h.width, h.height, pgmMaxPixels, ErrUnsupportedFormat)
	}

	return h, nil
}

// pgmToken reads the next whitespace-delimited token, skipping '#' comments.
// The single delimiter after the token is consumed, which is exactly what
// the raw format requires between maxval and the pixel data.
func pgmToken(br *bufio.Reader) (string, error) {
	var (
		tok []byte
		c   byte
		err error
	)
	for {
		if c, err = br.ReadByte(); err != nil {
			return "", err
		}
		if c == '#' {
			if _, err = br.ReadString('\n'); err != nil {
				return "", err
			}
			continue
		}
		if !isSpace(c) {
			break
		}
	}
	for {
		tok = append(tok, c)
		if c, err = br.ReadByte(); err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		if isSpace(c) {
			return string(tok), nil
		}
	}
}

func pgmInt(br *bufio.Reader) (int, error) {
	tok, err := pgmToken(br)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("bad integer %q: %w", tok, ErrUnsupportedFormat)
	}

	return v, nil
}

func pgmRawSample(br *bufio.Reader, maxval int) (int, error) {
	hi, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	if maxval <= 0xff {
		return int(hi), nil
	}
	lo, err := br.ReadByte()
	if err != nil {
		return 0, err
	}

	return int(hi)<<8 | int(lo), nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
