// Package metrics measures skeleton quality by comparing a thinned image
// with the binary image it was derived from.
package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"zsthin/pkg/thinning"
)

// Metrics holds skeleton quality measurements.
type Metrics struct {
	// ForegroundBefore and ForegroundAfter count the white pixels of the
	// original image and of the skeleton.
	ForegroundBefore int
	ForegroundAfter  int

	// ReductionRatio is the fraction of foreground pixels removed by thinning.
	ReductionRatio float64

	// Containment is the fraction of skeleton pixels that were foreground in
	// the original. Thinning only deletes pixels, so a correct run yields 1.
	Containment float64

	// Endpoints, Junctions and Isolated count skeleton pixels with exactly one,
	// three or more, and zero 8-connected skeleton neighbors.
	Endpoints int
	Junctions int
	Isolated  int

	// MeanDegree and StdDevDegree describe the distribution of skeleton
	// neighbor counts.
	MeanDegree   float64
	StdDevDegree float64

	// ThickBlocks counts 2x2 windows that are entirely white. A strict
	// one-pixel-wide skeleton has none; Zhang-Suen leaves a few at diagonal turns.
	ThickBlocks int
}

// ToDense converts a thinning image into a matrix of 0/1 values, one element
// per pixel. It returns nil for an empty image.
func ToDense(m *thinning.Image) *mat.Dense {
	if m.Rows == 0 || m.Cols == 0 {
		return nil
	}
	data := make([]float64, len(m.Pix))
	for i, v := range m.Pix {
		if v != 0 {
			data[i] = 1
		}
	}
	return mat.NewDense(m.Rows, m.Cols, data)
}

// Compute compares a skeleton with its original image. Both images must
// have the same dimensions.
func Compute(original, skeleton *thinning.Image) (Metrics, error) {
	var res Metrics

	if original == nil || skeleton == nil {
		return res, thinning.ErrNilImage
	}
	if original.Rows != skeleton.Rows || original.Cols != skeleton.Cols {
		return res, fmt.Errorf("size mismatch: original %dx%d, skeleton %dx%d",
			original.Rows, original.Cols, skeleton.Rows, skeleton.Cols)
	}

	orig := ToDense(original)
	skel := ToDense(skeleton)
	if orig == nil {
		res.Containment = 1
		return res, nil
	}

	before := mat.Sum(orig)
	after := mat.Sum(skel)
	res.ForegroundBefore = int(before)
	res.ForegroundAfter = int(after)

	if before > 0 {
		res.ReductionRatio = 1 - after/before
	}

	res.Containment = 1
	if after > 0 {
		var kept mat.Dense
		kept.MulElem(orig, skel)
		res.Containment = mat.Sum(&kept) / after
	}

	rows, cols := skel.Dims()
	var degrees []float64
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if skel.At(r, c) == 0 {
				continue
			}

			d := degree(skel, r, c)
			degrees = append(degrees, float64(d))
			switch {
			case d == 0:
				res.Isolated++
			case d == 1:
				res.Endpoints++
			case d >= 3:
				res.Junctions++
			}

			if r+1 < rows && c+1 < cols &&
				skel.At(r, c+1) != 0 && skel.At(r+1, c) != 0 && skel.At(r+1, c+1) != 0 {
				res.ThickBlocks++
			}
		}
	}

	switch len(degrees) {
	case 0:
	case 1:
		res.MeanDegree = degrees[0]
	default:
		res.MeanDegree, res.StdDevDegree = stat.MeanStdDev(degrees, nil)
	}

	return res, nil
}

// degree counts the 8-connected non-zero neighbors of (r, c).
func degree(m *mat.Dense, r, c int) int {
	rows, cols := m.Dims()
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			rr, cc := r+dr, c+dc
			if rr < 0 || rr >= rows || cc < 0 || cc >= cols {
				continue
			}
			if m.At(rr, cc) != 0 {
				n++
			}
		}
	}
	return n
}
