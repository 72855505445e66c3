package predict

import (
	"fmt"
)

// Regressor is a fitted model producing one value per scaled row.
type Regressor interface {
	Predict(x []float64) (float64, error)
	Width() int
}

// LinearModel computes coef·x + intercept.
type LinearModel struct {
	coef      []float64
	intercept float64
}

// NewLinearModel validates fitted coefficients.
func NewLinearModel(coef []float64, intercept float64) (*LinearModel, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("%w: linear model has no coefficients", ErrInvalidModel)
	}
	return &LinearModel{coef: append([]float64(nil), coef...), intercept: intercept}, nil
}

// Width implements Regressor.
func (m *LinearModel) Width() int { return len(m.coef) }

// Predict implements Regressor.
func (m *LinearModel) Predict(x []float64) (float64, error) {
	if err := checkWidth("model", len(m.coef), len(x)); err != nil {
		return 0, err
	}
	y := m.intercept
	for i, c := range m.coef {
		y += c * x[i]
	}
	return y, nil
}

// Node is one node of a regression tree. A node with Left < 0 is a leaf and
// carries Value; otherwise rows with x[Feature] <= Threshold go Left.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a regression tree stored as a node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t Tree) eval(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// validate checks indices and that every split moves forward, which rules
// out cycles.
func (t Tree) validate(width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: empty tree", ErrInvalidModel)
	}
	for i, n := range t.Nodes {
		if n.Left < 0 {
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("%w: node %d splits on column %d of %d", ErrInvalidModel, i, n.Feature, width)
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return fmt.Errorf("%w: node %d has invalid children %d/%d", ErrInvalidModel, i, n.Left, n.Right)
		}
	}
	return nil
}

// Aggregation selects how tree outputs combine.
type Aggregation string

// Supported aggregations.
const (
	// AggregateMean averages the trees, as a random forest does.
	AggregateMean Aggregation = "mean"
	// AggregateSum computes base + rate * sum, as gradient boosting does.
	AggregateSum Aggregation = "sum"
)

// TreeEnsemble is a fitted forest or boosted ensemble of regression trees.
type TreeEnsemble struct {
	width     int
	trees     []Tree
	agg       Aggregation
	baseScore float64
	rate      float64
}

// EnsembleOption configures a TreeEnsemble.
type EnsembleOption func(*TreeEnsemble)

// WithAggregation sets how tree outputs are combined.
func WithAggregation(agg Aggregation) EnsembleOption {
	return func(e *TreeEnsemble) {
		if agg != "" {
			e.agg = agg
		}
	}
}

// WithBaseScore sets the initial prediction of a boosted ensemble.
func WithBaseScore(base float64) EnsembleOption {
	return func(e *TreeEnsemble) { e.baseScore = base }
}

// WithLearningRate sets the shrinkage of a boosted ensemble.
func WithLearningRate(rate float64) EnsembleOption {
	return func(e *TreeEnsemble) {
		if rate > 0 {
			e.rate = rate
		}
	}
}

// NewTreeEnsemble validates the trees against width.
func NewTreeEnsemble(width int, trees []Tree, opts ...EnsembleOption) (*TreeEnsemble, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: ensemble width %d", ErrInvalidModel, width)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: ensemble has no trees", ErrInvalidModel)
	}
	e := &TreeEnsemble{width: width, trees: trees, agg: AggregateMean, rate: 1}
	for _, opt := range opts {
		opt(e)
	}
	if e.agg != AggregateMean && e.agg != AggregateSum {
		return nil, fmt.Errorf("%w: unknown aggregation %q", ErrInvalidModel, e.agg)
	}
	for i, t := range trees {
		if err := t.validate(width); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return e, nil
}

// Width implements Regressor.
func (e *TreeEnsemble) Width() int { return e.width }

// Predict implements Regressor.
func (e *TreeEnsemble) Predict(x []float64) (float64, error) {
	if err := checkWidth("model", e.width, len(x)); err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range e.trees {
		sum += t.eval(x)
	}
	if e.agg == AggregateMean {
		return sum / float64(len(e.trees)), nil
	}
	return e.baseScore + e.rate*sum, nil
}
