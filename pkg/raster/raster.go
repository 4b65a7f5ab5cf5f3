// Package raster converts between image files, Go images and the binary
// thinning.Image representation.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"zsthin/pkg/thinning"
)

// Load decodes an image file. PNG, JPEG, GIF, BMP and TIFF are supported.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path, choosing the format from the file extension.
func Save(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))

	var encode func(f *os.File) error
	switch ext {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".jpg", ".jpeg":
		encode = func(f *os.File) error { return jpeg.Encode(f, img, &jpeg.Options{Quality: 90}) }
	case ".gif":
		encode = func(f *os.File) error { return gif.Encode(f, img, nil) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error { return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}) }
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(file); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return file.Close()
}

// Binarize thresholds img into a raw thinning image. A pixel whose luma is
// at least threshold becomes White; invert swaps foreground and background.
func Binarize(img image.Image, threshold uint8, invert bool) *thinning.Image {
	bounds := img.Bounds()
	out := thinning.NewImage(bounds.Dy(), bounds.Dx())

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			luma := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray).Y
			fg := luma >= threshold
			if invert {
				fg = !fg
			}
			if fg {
				out.Set(y, x, thinning.White)
			}
		}
	}
	return out
}

// ToGray converts a thinning image to an 8-bit grayscale image of the same size.
func ToGray(m *thinning.Image) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for r := 0; r < m.Rows; r++ {
		copy(img.Pix[r*img.Stride:r*img.Stride+m.Cols], m.Pix[r*m.Cols:(r+1)*m.Cols])
	}
	return img
}

// FromGray copies the pixels of a grayscale image into a thinning image
// without thresholding.
func FromGray(img *image.Gray) *thinning.Image {
	bounds := img.Bounds()
	out := thinning.NewImage(bounds.Dy(), bounds.Dx())
	for y := 0; y < bounds.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+bounds.Dx()]
		copy(out.Pix[y*out.Cols:(y+1)*out.Cols], row)
	}
	return out
}
