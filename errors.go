package meanshift

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrShape matches any *ShapeError.
	ErrShape = errors.New("meanshift: inconsistent point dimensionality")

	// ErrInsufficientData matches any *InsufficientDataError.
	ErrInsufficientData = errors.New("meanshift: insufficient data")

	// ErrDegenerateBandwidth matches any *DegenerateBandwidthError.
	ErrDegenerateBandwidth = errors.New("meanshift: degenerate bandwidth")

	// ErrNoModesFound matches any *NoModesFoundError.
	ErrNoModesFound = errors.New("meanshift: no modes found")

	// ErrNonFinite matches any *NonFiniteError.
	ErrNonFinite = errors.New("meanshift: non-finite coordinate")

	// ErrNotFitted is returned by Predict and the accessors' callers when
	// no successful Fit has happened yet.
	ErrNotFitted = errors.New("meanshift: estimator is not fitted")
)

// ShapeError reports a row whose length differs from the first row (or from
// the fitted dimensionality). Rows with no features at all are reported
// with Expected 1.
type ShapeError struct {
	Row      int
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("meanshift: row %d has %d features, expected %d", e.Row, e.Actual, e.Expected)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// NonFiniteError reports a NaN or infinite coordinate.
type NonFiniteError struct {
	Row   int
	Col   int
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("meanshift: row %d, feature %d is %g", e.Row, e.Col, e.Value)
}

func (e *NonFiniteError) Is(target error) bool { return target == ErrNonFinite }

// InsufficientDataError reports a neighbor query that asked for more points
// than the index can provide.
type InsufficientDataError struct {
	Required  int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("meanshift: need %d points, only %d available", e.Required, e.Available)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// DegenerateBandwidthError is returned when a bandwidth cannot be estimated
// from the data. Callers should pass Config.Bandwidth explicitly.
type DegenerateBandwidthError struct {
	Bandwidth float64
	Reason    string
}

func (e *DegenerateBandwidthError) Error() string {
	return fmt.Sprintf("meanshift: cannot estimate bandwidth (got %g): %s; set the bandwidth explicitly", e.Bandwidth, e.Reason)
}

func (e *DegenerateBandwidthError) Is(target error) bool { return target == ErrDegenerateBandwidth }

// NoModesFoundError means no seed had a single point within the bandwidth.
// That almost always means the bandwidth is too small for the data scale.
type NoModesFoundError struct {
	Bandwidth float64
}

func (e *NoModesFoundError) Error() string {
	return fmt.Sprintf("meanshift: no point lies within bandwidth %g of any seed; try a larger bandwidth", e.Bandwidth)
}

func (e *NoModesFoundError) Is(target error) bool { return target == ErrNoModesFound }

// checkShape verifies that every row has the same, non-zero length as the
// first one and that every coordinate is finite. It returns that length.
func checkShape(data [][]float64) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	dims := len(data[0])
	if dims == 0 {
		return 0, &ShapeError{Row: 0, Expected: 1, Actual: 0}
	}
	for i, row := range data {
		if len(row) != dims {
			return 0, &ShapeError{Row: i, Expected: dims, Actual: len(row)}
		}
		if err := checkFinite(i, row); err != nil {
			return 0, err
		}
	}
	return dims, nil
}

func checkFinite(row int, p []float64) error {
	for j, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &NonFiniteError{Row: row, Col: j, Value: v}
		}
	}
	return nil
}

// flatten copies data into a row-major slice after checkShape.
func flatten(data [][]float64) ([]float64, int, error) {
	dims, err := checkShape(data)
	if err != nil {
		return nil, 0, err
	}
	flat := make([]float64, len(data)*dims)
	for i, row := range data {
		copy(flat[i*dims:], row)
	}
	return flat, dims, nil
}
