// Package thinning reduces binary raster images to one-pixel-wide skeletons
// with the Zhang-Suen thinning algorithm.
//
// The algorithm repeatedly applies two sub-iterations to the image. Each
// sub-iteration evaluates every interior pixel against the image as it was at
// the start of the sub-iteration, collects the deletable pixels in a mask and
// only then erases them. Rounds are repeated until a full round leaves the
// image unchanged.
//
// Input images must be binary: every pixel is either Black (0) or White (255).
// The outermost ring of pixels is never examined or modified.
package thinning

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNilImage is returned when a nil image is passed.
	ErrNilImage = errors.New("thinning: nil image")

	// ErrInvalidDimensions is returned when the pixel buffer does not match the image size.
	ErrInvalidDimensions = errors.New("thinning: invalid image dimensions")

	// ErrNotBinary is returned by Thin when a pixel is neither Black nor White.
	ErrNotBinary = errors.New("thinning: image is not binary")

	// ErrNotNormalized is returned by ApplyStep when a pixel is neither 0 nor 1.
	ErrNotNormalized = errors.New("thinning: image is not normalized")

	// ErrInvalidStep is returned for a step other than StepOne or StepTwo.
	ErrInvalidStep = errors.New("thinning: invalid step")

	// ErrInvalidParams is returned when Params fail validation.
	ErrInvalidParams = errors.New("thinning: invalid parameters")
)

// Result summarizes a completed Thin call.
type Result struct {
	// Rounds is the number of full rounds (both sub-iterations) executed,
	// including the final round that changed nothing.
	Rounds int

	// Removed is the total number of pixels deleted.
	Removed int

	// ForegroundBefore and ForegroundAfter count the white pixels of the
	// input and of the skeleton.
	ForegroundBefore int
	ForegroundAfter  int
}

// Thinner runs the Zhang-Suen algorithm with a fixed set of parameters.
// A Thinner is safe for concurrent use on distinct images.
type Thinner struct {
	params *Params
}

// NewThinner creates a thinner. A nil params selects DefaultParams.
func NewThinner(params *Params) *Thinner {
	if params == nil {
		params = DefaultParams()
	}
	return &Thinner{params: params}
}

// Thin skeletonizes img in place using the default parameters.
func Thin(img *Image) error {
	_, err := NewThinner(nil).Thin(img)
	return err
}

// ApplyStep runs a single sub-iteration on a normalized image (pixels 0 or 1)
// using the default parameters.
func ApplyStep(img *Image, step Step) error {
	_, err := NewThinner(nil).ApplyStep(img, step)
	return err
}

// Thin skeletonizes img in place. On return every pixel is Black or White.
// Images smaller than 3x3 have no interior pixels and are returned unchanged.
// When an error is returned the image has not been modified.
func (t *Thinner) Thin(img *Image) (Result, error) {
	var res Result

	if err := img.validate(); err != nil {
		return res, err
	}
	if err := t.params.Validate(); err != nil {
		return res, err
	}
	one, err := t.params.checks(StepOne)
	if err != nil {
		return res, err
	}
	two, err := t.params.checks(StepTwo)
	if err != nil {
		return res, err
	}

	// Reject anything but 0/255 before touching the image; integer division
	// would silently map grey values to black.
	for i, v := range img.Pix {
		if v != Black && v != White {
			return res, fmt.Errorf("pixel (%d,%d) has value %d: %w", i/img.Cols, i%img.Cols, v, ErrNotBinary)
		}
	}

	for i := range img.Pix {
		img.Pix[i] /= White
	}
	res.ForegroundBefore = img.Foreground()

	prev := make([]uint8, len(img.Pix))
	for {
		res.Removed += t.pass(img, one)
		res.Removed += t.pass(img, two)
		res.Rounds++

		changed := 0
		for i, v := range img.Pix {
			if v != prev[i] {
				changed++
			}
		}
		copy(prev, img.Pix)

		if t.params.Progress != nil {
			t.params.Progress(res.Rounds, changed)
		}
		if changed == 0 {
			break
		}
	}

	for i := range img.Pix {
		img.Pix[i] *= White
	}
	res.ForegroundAfter = img.Foreground()

	return res, nil
}

// ApplyStep runs one sub-iteration on a normalized image (pixels 0 or 1) and
// returns the number of pixels it deleted.
func (t *Thinner) ApplyStep(img *Image, step Step) (int, error) {
	if err := img.validate(); err != nil {
		return 0, err
	}
	if err := t.params.Validate(); err != nil {
		return 0, err
	}
	checks, err := t.params.checks(step)
	if err != nil {
		return 0, err
	}
	for i, v := range img.Pix {
		if v > 1 {
			return 0, fmt.Errorf("pixel (%d,%d) has value %d: %w", i/img.Cols, i%img.Cols, v, ErrNotNormalized)
		}
	}
	return t.pass(img, checks), nil
}

// pass evaluates all interior pixels into a deletion mask, split into row
// bands across workers, and then erases the marked pixels.
func (t *Thinner) pass(img *Image, checks [2]Triple) int {
	interior := img.Rows - 2
	if interior <= 0 || img.Cols < 3 {
		return 0
	}

	mask := make([]uint8, len(img.Pix))

	workers := t.params.Workers()
	if workers > interior {
		workers = interior
	}
	rowsPerWorker := (interior + workers - 1) / workers
	counts := make([]int, workers)

	if workers == 1 {
		counts[0] = t.markRows(img, mask, 1, img.Rows-1, checks)
	} else {
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			start := 1 + w*rowsPerWorker
			end := start + rowsPerWorker
			if end > img.Rows-1 {
				end = img.Rows - 1
			}
			if start >= end {
				continue
			}

			wg.Add(1)
			go func(w, start, end int) {
				defer wg.Done()
				counts[w] = t.markRows(img, mask, start, end, checks)
			}(w, start, end)
		}
		wg.Wait()
	}

	removed := 0
	for _, n := range counts {
		removed += n
	}
	if removed == 0 {
		return 0
	}

	for i, m := range mask {
		img.Pix[i] &^= m
	}
	return removed
}

// markRows marks deletable pixels of rows [start, end) and returns how many it marked.
// It only reads img and only writes the mask rows it owns.
func (t *Thinner) markRows(img *Image, mask []uint8, start, end int, checks [2]Triple) int {
	marked := 0
	for i := start; i < end; i++ {
		for j := 1; j < img.Cols-1; j++ {
			idx := i*img.Cols + j
			// Erasing a black pixel is a no-op.
			if img.Pix[idx] == 0 {
				continue
			}
			if t.deletable(neighbors(img, i, j), checks) {
				mask[idx] = 1
				marked++
			}
		}
	}
	return marked
}

// neighbors returns the 8-neighborhood of (i, j) clockwise from east.
//
//	NW N NE     5 6 7
//	W  .  E  =  4 . 0
//	SW S SE     3 2 1
func neighbors(img *Image, i, j int) [8]uint8 {
	up := (i - 1) * img.Cols
	mid := i * img.Cols
	down := (i + 1) * img.Cols
	return [8]uint8{
		img.Pix[mid+j+1],
		img.Pix[down+j+1],
		img.Pix[down+j],
		img.Pix[down+j-1],
		img.Pix[mid+j-1],
		img.Pix[up+j-1],
		img.Pix[up+j],
		img.Pix[up+j+1],
	}
}

// deletable applies the three Zhang-Suen deletion conditions to a neighborhood.
func (t *Thinner) deletable(n [8]uint8, checks [2]Triple) bool {
	if connectivity(n, t.params.ConnectivitySet) != 1 {
		return false
	}

	sum := 0
	for _, v := range n {
		sum += int(v)
	}
	if sum < t.params.MinNeighbors || sum > t.params.MaxNeighbors {
		return false
	}

	for _, tr := range checks {
		if n[tr[0]]&n[tr[1]]&n[tr[2]] != 0 {
			return false
		}
	}
	return true
}

// connectivity sums Nk AND NOT(Nk AND Nk+1 AND Nk+2) over the positions in set,
// which counts the white-to-black transitions sampled at those positions.
func connectivity(n [8]uint8, set []int) int {
	c := 0
	for _, k := range set {
		a := n[k]
		c += int(a &^ (a & n[(k+1)%8] & n[(k+2)%8]))
	}
	return c
}
