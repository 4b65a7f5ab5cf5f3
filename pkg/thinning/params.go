package thinning

import (
	"fmt"
	"runtime"
)

// Step selects one of the two Zhang-Suen sub-iterations.
type Step int

const (
	// StepOne removes north and west facing boundary points.
	StepOne Step = 1
	// StepTwo removes south and east facing boundary points.
	StepTwo Step = 2
)

func (s Step) String() string {
	switch s {
	case StepOne:
		return "step 1"
	case StepTwo:
		return "step 2"
	default:
		return fmt.Sprintf("step %d", int(s))
	}
}

// Neighbor positions around a pixel, clockwise from east.
const (
	East = iota
	SouthEast
	South
	SouthWest
	West
	NorthWest
	North
	NorthEast
)

// Triple is a set of three neighbor positions whose logical AND must be zero
// for a pixel to be deleted.
type Triple [3]int

// Params holds the algorithm constants and execution settings of a Thinner.
// The defaults are the published Zhang-Suen constants; changing them yields
// a different thinning algorithm.
type Params struct {
	// ConnectivitySet lists the neighbor positions k whose term
	// Nk AND NOT(Nk AND Nk+1 AND Nk+2) is summed into the connectivity number.
	ConnectivitySet []int

	// MinNeighbors and MaxNeighbors bound the number of white neighbors
	// (inclusive) a deletable pixel may have.
	MinNeighbors int
	MaxNeighbors int

	// StepOneChecks and StepTwoChecks are the triples tested in each sub-iteration.
	StepOneChecks [2]Triple
	StepTwoChecks [2]Triple

	// NumWorkers is the number of goroutines sweeping row bands during a pass.
	// Values below 1 mean a single worker.
	NumWorkers int

	// Progress, if set, is called after every completed round with the
	// round number (starting at 1) and the number of pixels that differ
	// from the previous round.
	Progress func(round, changed int)
}

// DefaultParams returns the standard Zhang-Suen parameters using all CPUs.
func DefaultParams() *Params {
	return &Params{
		ConnectivitySet: []int{East, South, West, North},
		MinNeighbors:    2,
		MaxNeighbors:    6,
		StepOneChecks:   [2]Triple{{East, West, North}, {South, West, North}},
		StepTwoChecks:   [2]Triple{{East, South, North}, {East, South, West}},
		NumWorkers:      runtime.NumCPU(),
	}
}

// Validate reports whether p describes a usable rule set.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("nil params: %w", ErrInvalidParams)
	}
	if len(p.ConnectivitySet) == 0 {
		return fmt.Errorf("empty connectivity set: %w", ErrInvalidParams)
	}
	for _, k := range p.ConnectivitySet {
		if k < 0 || k > 7 {
			return fmt.Errorf("connectivity index %d out of range 0..7: %w", k, ErrInvalidParams)
		}
	}
	if p.MinNeighbors < 0 || p.MaxNeighbors > 8 || p.MinNeighbors > p.MaxNeighbors {
		return fmt.Errorf("neighbor bounds [%d,%d] invalid: %w", p.MinNeighbors, p.MaxNeighbors, ErrInvalidParams)
	}
	for _, set := range [][2]Triple{p.StepOneChecks, p.StepTwoChecks} {
		for _, tr := range set {
			for _, k := range tr {
				if k < 0 || k > 7 {
					return fmt.Errorf("check index %d out of range 0..7: %w", k, ErrInvalidParams)
				}
			}
		}
	}
	return nil
}

func (p *Params) checks(step Step) ([2]Triple, error) {
	switch step {
	case StepOne:
		return p.StepOneChecks, nil
	case StepTwo:
		return p.StepTwoChecks, nil
	default:
		return [2]Triple{}, fmt.Errorf("%v: %w", step, ErrInvalidStep)
	}
}

// Workers returns the number of goroutines a pass actually uses.
func (p *Params) Workers() int {
	if p.NumWorkers < 1 {
		return 1
	}
	return p.NumWorkers
}
