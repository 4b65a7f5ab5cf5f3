package metrics

import (
	"math"
	"testing"

	"zsthin/pkg/thinning"
)

func mustParse(t *testing.T, rows ...string) *thinning.Image {
	t.Helper()
	img, err := thinning.ParseImage(rows...)
	if err != nil {
		t.Fatalf("ParseImage failed: %v", err)
	}
	return img
}

// TestComputeLShape verifies metrics against the skeleton of an L-shaped region
func TestComputeLShape(t *testing.T) {
	original := mustParse(t,
		"..............",
		"..............",
		"..###########.",
		"..###########.",
		"..###########.",
		"..###.........",
		"..###.........",
		"..###.........",
		"..###.........",
		"..###.........",
		"..###.........",
		"..............",
	)
	skeleton := original.Clone()
	if err := thinning.Thin(skeleton); err != nil {
		t.Fatalf("Thin failed: %v", err)
	}

	m, err := Compute(original, skeleton)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if m.ForegroundBefore != 51 {
		t.Errorf("Expected 51 foreground pixels before, got %d", m.ForegroundBefore)
	}
	if m.ForegroundAfter != 15 {
		t.Errorf("Expected 15 foreground pixels after, got %d", m.ForegroundAfter)
	}
	if math.Abs(m.ReductionRatio-(1-15.0/51.0)) > 1e-9 {
		t.Errorf("Expected reduction ratio %f, got %f", 1-15.0/51.0, m.ReductionRatio)
	}
	if m.Containment != 1 {
		t.Errorf("Expected containment 1, got %f", m.Containment)
	}
	if m.Endpoints != 2 {
		t.Errorf("Expected 2 endpoints, got %d", m.Endpoints)
	}
	if m.Junctions != 5 {
		t.Errorf("Expected 5 junction pixels, got %d", m.Junctions)
	}
	if m.Isolated != 0 {
		t.Errorf("Expected no isolated pixels, got %d", m.Isolated)
	}
	if m.ThickBlocks != 0 {
		t.Errorf("Expected no 2x2 blocks, got %d", m.ThickBlocks)
	}
	if math.Abs(m.MeanDegree-34.0/15.0) > 1e-9 {
		t.Errorf("Expected mean degree %f, got %f", 34.0/15.0, m.MeanDegree)
	}
	if math.Abs(m.StdDevDegree-0.7988086367179802) > 1e-9 {
		t.Errorf("Expected degree std-dev 0.7988, got %f", m.StdDevDegree)
	}
}

func TestComputeContainment(t *testing.T) {
	original := mustParse(t, "....", ".##.", "....")
	skeleton := mustParse(t, "....", ".#.#", "....")

	m, err := Compute(original, skeleton)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.Containment != 0.5 {
		t.Errorf("Expected containment 0.5, got %f", m.Containment)
	}
	if m.Isolated != 2 {
		t.Errorf("Expected 2 isolated pixels, got %d", m.Isolated)
	}
	if m.ReductionRatio != 0 {
		t.Errorf("Expected reduction ratio 0, got %f", m.ReductionRatio)
	}
}

func TestComputeThickBlocks(t *testing.T) {
	img := mustParse(t, "###", "###")
	m, err := Compute(img, img)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.ThickBlocks != 2 {
		t.Errorf("Expected 2 thick blocks, got %d", m.ThickBlocks)
	}
}

func TestComputeEmpty(t *testing.T) {
	empty := thinning.NewImage(4, 4)
	m, err := Compute(empty, empty)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if m.ForegroundAfter != 0 || m.MeanDegree != 0 || m.StdDevDegree != 0 {
		t.Errorf("Expected zero metrics for an empty image, got %+v", m)
	}
	if m.Containment != 1 {
		t.Errorf("Expected containment 1 for an empty skeleton, got %f", m.Containment)
	}

	if _, err := Compute(thinning.NewImage(0, 0), thinning.NewImage(0, 0)); err != nil {
		t.Errorf("Compute on zero-size images failed: %v", err)
	}
}

func TestComputeErrors(t *testing.T) {
	if _, err := Compute(thinning.NewImage(3, 3), thinning.NewImage(3, 4)); err == nil {
		t.Error("Expected error for size mismatch, got nil")
	}
	if _, err := Compute(nil, thinning.NewImage(3, 3)); err == nil {
		t.Error("Expected error for nil image, got nil")
	}
}

func TestToDense(t *testing.T) {
	img := mustParse(t, "#.", ".#")
	d := ToDense(img)
	r, c := d.Dims()
	if r != 2 || c != 2 {
		t.Fatalf("Expected 2x2 matrix, got %dx%d", r, c)
	}
	if d.At(0, 0) != 1 || d.At(0, 1) != 0 || d.At(1, 1) != 1 {
		t.Errorf("unexpected matrix values: %v", d.RawMatrix().Data)
	}
	if ToDense(thinning.NewImage(0, 3)) != nil {
		t.Error("Expected nil matrix for an empty image")
	}
}
