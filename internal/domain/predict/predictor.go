package predict

import (
	"context"
	"fmt"

	"github.com/okian/vokasi/internal/domain/model"
)

// Predictor chains a fitted scaler and a fitted regressor. It holds no
// mutable state and is safe for concurrent use.
type Predictor struct {
	scaler Scaler
	model  Regressor
}

// New pairs a scaler with a model of the same width.
func New(scaler Scaler, m Regressor) (*Predictor, error) {
	if scaler == nil || m == nil {
		return nil, fmt.Errorf("%w: scaler and model are required", ErrInvalidModel)
	}
	if scaler.Width() != m.Width() {
		return nil, fmt.Errorf("%w: scaler fitted on %d columns, model on %d", ErrShapeMismatch, scaler.Width(), m.Width())
	}
	return &Predictor{scaler: scaler, model: m}, nil
}

// Width is the column count both stages were fitted on.
func (p *Predictor) Width() int { return p.model.Width() }

// Predict scales v and applies the model. A width mismatch returns
// ErrShapeMismatch; there is no recovery.
func (p *Predictor) Predict(ctx context.Context, v model.FeatureVector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	scaled, err := p.scaler.Transform(v.Values)
	if err != nil {
		return 0, fmt.Errorf("scale: %w", err)
	}
	y, err := p.model.Predict(scaled)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	return y, nil
}
