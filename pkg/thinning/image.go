package thinning

import (
	"fmt"
	"math"
)

// Pixel values of the raw binary encoding accepted and produced by Thin.
const (
	Black uint8 = 0
	White uint8 = 255
)

// Image is a single-channel 8-bit raster stored in row-major order.
// Thin expects every pixel to be Black or White.
type Image struct {
	// Rows and Cols are the image dimensions
	Rows int
	Cols int

	// Pix holds Rows*Cols pixel values, row by row
	Pix []uint8
}

// NewImage creates an all-black image of the given size
func NewImage(rows, cols int) *Image {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Image{
		Rows: rows,
		Cols: cols,
		Pix:  make([]uint8, rows*cols),
	}
}

// At returns the pixel at row r, column c.
func (m *Image) At(r, c int) uint8 {
	return m.Pix[r*m.Cols+c]
}

// Set stores v at row r, column c.
func (m *Image) Set(r, c int, v uint8) {
	m.Pix[r*m.Cols+c] = v
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Rows: m.Rows, Cols: m.Cols, Pix: pix}
}

// Foreground counts the non-black pixels.
func (m *Image) Foreground() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// String renders the image with '#' for white and '.' for black, one line per row.
func (m *Image) String() string {
	buf := make([]byte, 0, m.Rows*(m.Cols+1))
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if m.At(r, c) != 0 {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

// ParseImage builds a raw image from rows of '#' (white) and '.' (black).
// All rows must have the same length.
func ParseImage(rows ...string) (*Image, error) {
	if len(rows) == 0 {
		return NewImage(0, 0), nil
	}
	img := NewImage(len(rows), len(rows[0]))
	for r, line := range rows {
		if len(line) != img.Cols {
			return nil, fmt.Errorf("row %d has length %d, expected %d: %w", r, len(line), img.Cols, ErrInvalidDimensions)
		}
		for c := 0; c < len(line); c++ {
			switch line[c] {
			case '#':
				img.Set(r, c, White)
			case '.':
				img.Set(r, c, Black)
			default:
				return nil, fmt.Errorf("invalid character %q at row %d, column %d", line[c], r, c)
			}
		}
	}
	return img, nil
}

// validate checks the structural invariants of m.
func (m *Image) validate() error {
	if m == nil {
		return ErrNilImage
	}
	if m.Rows < 0 || m.Cols < 0 || (m.Cols != 0 && m.Rows > math.MaxInt/m.Cols) || len(m.Pix) != m.Rows*m.Cols {
		return fmt.Errorf("%dx%d image with %d pixels: %w", m.Rows, m.Cols, len(m.Pix), ErrInvalidDimensions)
	}
	return nil
}
