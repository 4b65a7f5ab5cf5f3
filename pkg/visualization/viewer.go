package visualization

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"zsthin/pkg/raster"
	"zsthin/pkg/thinning"
)

// Colors used when rendering an overlay.
var (
	SkeletonColor   = color.RGBA{R: 255, A: 255}
	ForegroundColor = color.RGBA{R: 96, G: 96, B: 96, A: 255}
	BackgroundColor = color.RGBA{A: 255}
)

// Viewer renders a skeleton on top of the binary image it was thinned from.
type Viewer struct {
	// source is the binary image before thinning
	source *thinning.Image

	// skeleton is the thinned image
	skeleton *thinning.Image

	// scale is the integer magnification applied when rendering
	scale int
}

// NewViewer creates a new overlay viewer. Both images must have the same size.
func NewViewer(source, skeleton *thinning.Image, scale int) (*Viewer, error) {
	if source == nil || skeleton == nil {
		return nil, thinning.ErrNilImage
	}
	if source.Rows != skeleton.Rows || source.Cols != skeleton.Cols {
		return nil, fmt.Errorf("size mismatch: source %dx%d, skeleton %dx%d",
			source.Rows, source.Cols, skeleton.Rows, skeleton.Cols)
	}
	if scale < 1 {
		return nil, fmt.Errorf("scale must be at least 1, got %d", scale)
	}
	return &Viewer{
		source:   source,
		skeleton: skeleton,
		scale:    scale,
	}, nil
}

// Overlay renders the overlay at native resolution: skeleton pixels in
// SkeletonColor, removed foreground in ForegroundColor, background in BackgroundColor.
func (v *Viewer) Overlay() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, v.source.Cols, v.source.Rows))
	for r := 0; r < v.source.Rows; r++ {
		for c := 0; c < v.source.Cols; c++ {
			switch {
			case v.skeleton.At(r, c) != 0:
				img.SetRGBA(c, r, SkeletonColor)
			case v.source.At(r, c) != 0:
				img.SetRGBA(c, r, ForegroundColor)
			default:
				img.SetRGBA(c, r, BackgroundColor)
			}
		}
	}
	return img
}

// Render returns the overlay enlarged by the viewer's scale. Nearest-neighbor
// sampling keeps each source pixel a solid block.
func (v *Viewer) Render() image.Image {
	overlay := v.Overlay()
	if v.scale == 1 {
		return overlay
	}

	bounds := overlay.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*v.scale, bounds.Dy()*v.scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), overlay, bounds, draw.Src, nil)
	return dst
}

// Save renders the overlay and writes it to filename. The format is chosen
// from the file extension.
func (v *Viewer) Save(filename string) error {
	return raster.Save(filename, v.Render())
}
