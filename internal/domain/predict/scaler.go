// Package predict applies fitted preprocessing and regression parameters to
// an aligned feature vector.
package predict

import (
	"fmt"
)

// Scaler is a fitted per-column transform.
type Scaler interface {
	// Transform returns a scaled copy of x.
	Transform(x []float64) ([]float64, error)
	// Width is the number of columns the scaler was fitted on.
	Width() int
}

// StandardScaler computes (x - mean) / scale per column.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// NewStandardScaler validates fitted parameters. A zero scale, produced for
// constant columns, is treated as 1.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 || len(mean) != len(scale) {
		return nil, fmt.Errorf("%w: standard scaler has %d means and %d scales", ErrInvalidModel, len(mean), len(scale))
	}
	s := &StandardScaler{
		mean:  append([]float64(nil), mean...),
		scale: append([]float64(nil), scale...),
	}
	for i, v := range s.scale {
		if v == 0 {
			s.scale[i] = 1
		}
	}
	return s, nil
}

// Width implements Scaler.
func (s *StandardScaler) Width() int { return len(s.mean) }

// Transform implements Scaler.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth("scaler", len(s.mean), len(x)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

// MinMaxScaler computes x * scale + min per column, the form a fitted
// min-max scaler stores its parameters in.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

// NewMinMaxScaler validates fitted parameters.
func NewMinMaxScaler(mins, scale []float64) (*MinMaxScaler, error) {
	if len(mins) == 0 || len(mins) != len(scale) {
		return nil, fmt.Errorf("%w: min-max scaler has %d mins and %d scales", ErrInvalidModel, len(mins), len(scale))
	}
	return &MinMaxScaler{
		min:   append([]float64(nil), mins...),
		scale: append([]float64(nil), scale...),
	}, nil
}

// Width implements Scaler.
func (s *MinMaxScaler) Width() int { return len(s.min) }

// Transform implements Scaler.
func (s *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth("scaler", len(s.min), len(x)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v*s.scale[i] + s.min[i]
	}
	return out, nil
}

func checkWidth(stage string, want, got int) error {
	if want != got {
		return fmt.Errorf("%w: %s expects %d columns, got %d", ErrShapeMismatch, stage, want, got)
	}
	return nil
}
