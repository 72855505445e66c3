// Package artifacts loads the fitted model, scaler, and column manifest
// exported from training.
package artifacts

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/okian/vokasi/internal/domain/predict"
)

// Artifact kinds recognised in the "kind" field.
const (
	KindStandardScaler = "standard"
	KindMinMaxScaler   = "minmax"
	KindLinear         = "linear"
	KindTreeEnsemble   = "tree_ensemble"
)

// Paths locates the three artifacts.
type Paths struct {
	Model    string
	Scaler   string
	Manifest string
}

// Bundle is the loaded model, scaler and manifest. It is read-only after
// Load returns and may be shared by reference.
type Bundle struct {
	Manifest   []string
	Scaler     predict.Scaler
	Model      predict.Regressor
	ScalerKind string
	ModelKind  string
}

// Load reads all three artifacts and checks that their widths agree.
func Load(ctx context.Context, paths Paths) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	manifest, err := LoadManifest(paths.Manifest)
	if err != nil {
		return nil, err
	}
	scaler, scalerKind, err := LoadScaler(paths.Scaler)
	if err != nil {
		return nil, err
	}
	model, modelKind, err := LoadModel(paths.Model)
	if err != nil {
		return nil, err
	}
	b := &Bundle{
		Manifest:   manifest,
		Scaler:     scaler,
		Model:      model,
		ScalerKind: scalerKind,
		ModelKind:  modelKind,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks that scaler, model and manifest share one width.
func (b *Bundle) Validate() error {
	if len(b.Manifest) == 0 {
		return errors.Wrap(ErrArtifactCorrupt, "manifest has no columns")
	}
	if b.Scaler.Width() != len(b.Manifest) {
		return errors.Wrapf(predict.ErrShapeMismatch, "scaler fitted on %d columns, manifest lists %d", b.Scaler.Width(), len(b.Manifest))
	}
	if b.Model.Width() != len(b.Manifest) {
		return errors.Wrapf(predict.ErrShapeMismatch, "model fitted on %d columns, manifest lists %d", b.Model.Width(), len(b.Manifest))
	}
	return nil
}

func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrArtifactMissing, "%s", path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrapf(ErrArtifactCorrupt, "%s: not valid JSON", path)
	}
	return data, nil
}

// LoadManifest reads the ordered column list. Both a bare JSON array and an
// object with a "columns" array are accepted.
func LoadManifest(path string) ([]string, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) ([]string, error) {
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		doc = doc.Get("columns")
	}
	if !doc.IsArray() {
		return nil, errors.Wrap(ErrArtifactCorrupt, "manifest: expected a column array")
	}
	items := doc.Array()
	columns := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.Type != gjson.String || item.Str == "" {
			return nil, errors.Wrapf(ErrArtifactCorrupt, "manifest: column %d is not a name", i)
		}
		if _, dup := seen[item.Str]; dup {
			return nil, errors.Wrapf(ErrArtifactCorrupt, "manifest: column %q listed twice", item.Str)
		}
		seen[item.Str] = struct{}{}
		columns = append(columns, item.Str)
	}
	if len(columns) == 0 {
		return nil, errors.Wrap(ErrArtifactCorrupt, "manifest: no columns")
	}
	return columns, nil
}

type standardScalerDoc struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type minMaxScalerDoc struct {
	Min   []float64 `json:"min"`
	Scale []float64 `json:"scale"`
}

// LoadScaler reads a fitted scaler and returns it with its kind.
func LoadScaler(path string) (predict.Scaler, string, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, "", err
	}
	s, kind, err := ParseScaler(data)
	if err != nil {
		return nil, "", errors.Wrapf(err, "%s", path)
	}
	return s, kind, nil
}

// ParseScaler decodes a scaler document.
func ParseScaler(data []byte) (predict.Scaler, string, error) {
	kind := gjson.GetBytes(data, "kind").String()
	switch kind {
	case KindStandardScaler:
		var doc standardScalerDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, "", errors.Wrapf(ErrArtifactCorrupt, "scaler: %v", err)
		}
		s, err := predict.NewStandardScaler(doc.Mean, doc.Scale)
		if err != nil {
			return nil, "", errors.Wrapf(ErrArtifactCorrupt, "scaler: %v", err)
		}
		return s, kind, nil
	case KindMinMaxScaler:
		var doc minMaxScalerDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, "", errors.Wrapf(ErrArtifactCorrupt, "scaler: %v", err)
		}
		s, err := predict.NewMinMaxScaler(doc.Min, doc.Scale)
		if err != nil {
			return nil, "", errors.Wrapf(ErrArtifactCorrupt, "scaler: %v", err)
		}
		return s, kind, nil
	default:
		return nil, "", errors.Wrapf(ErrArtifactCorrupt, "scaler: unsupported kind %q", kind)
	}
}

type linearDoc struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

type treeEnsembleDoc struct {
	NFeatures    int            `json:"n_features"`
	Aggregation  string         `json:"aggregation"`
	BaseScore    float64        `json:"base_score"`
	LearningRate float64        `json:"learning_rate"`
	Trees        []predict.Tree `json:"trees"`
}

// LoadModel reads a fitted regression model and returns it with its kind.
func LoadModel(path string) (predict.Regressor, string, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, "", err
	}
	m, kind, err := ParseModel(data)
	if err != nil {
		return nil, "", errors.Wrapf(err, "%s", path)
	}
	return m, kind, nil
}

// ParseModel decodes a model document.
func ParseModel(data []byte) (predict.Regressor, string, error) {
	kind := gjson.GetBytes(data, "kind").String()
	switch kind {
	case KindLinear:
		var doc linearDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, "", errors.Wrapf(ErrArtifactCorrupt, "model: %v", err)
		}
		m, err := predict.NewLinearModel(doc.Coef, doc.Intercept)
		if err != nil {
			return nil, "", errors.Wrapf(ErrArtifactCorrupt, "model: %v", err)
		}
		return m, kind, nil
	case KindTreeEnsemble:
		var doc treeEnsembleDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, "", errors.Wrapf(ErrArtifactCorrupt, "model: %v", err)
		}
		m, err := predict.NewTreeEnsemble(doc.NFeatures, doc.Trees,
			predict.WithAggregation(predict.Aggregation(doc.Aggregation)),
			predict.WithBaseScore(doc.BaseScore),
			predict.WithLearningRate(doc.LearningRate),
		)
		if err != nil {
			return nil, "", errors.Wrapf(ErrArtifactCorrupt, "model: %v", err)
		}
		return m, kind, nil
	default:
		return nil, "", errors.Wrapf(ErrArtifactCorrupt, "model: unsupported kind %q", kind)
	}
}
