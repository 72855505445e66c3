package features

import (
	"fmt"
	"slices"

	"github.com/okian/vokasi/internal/domain/model"
)

// Aligner maps input records onto the manifest. The mapping from every
// (field, value) pair to a manifest position is computed once, so Align does
// no name matching at request time.
type Aligner struct {
	manifest    []string
	passThrough map[string]int            // column -> manifest index
	indicators  map[string]map[string]int // field -> value -> manifest index
}

// NewAligner validates the manifest and precomputes the column plan.
func NewAligner(catalog Catalog, manifest []string) (*Aligner, error) {
	if len(manifest) == 0 {
		return nil, ErrEmptyManifest
	}
	index := make(map[string]int, len(manifest))
	for i, name := range manifest {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		index[name] = i
	}

	a := &Aligner{
		manifest:    slices.Clone(manifest),
		passThrough: make(map[string]int, len(PassThroughColumns)),
		indicators:  make(map[string]map[string]int),
	}
	for _, col := range PassThroughColumns {
		if i, ok := index[col]; ok {
			a.passThrough[col] = i
		}
	}
	for _, field := range catalog.Fields() {
		slots := make(map[string]int)
		for _, v := range catalog.Values(field) {
			if i, ok := index[IndicatorName(field, v)]; ok {
				slots[v] = i
			}
		}
		a.indicators[field] = slots
	}
	return a, nil
}

// Width returns the manifest length.
func (a *Aligner) Width() int { return len(a.manifest) }

// Manifest returns a copy of the manifest.
func (a *Aligner) Manifest() []string {
	return slices.Clone(a.manifest)
}

// Expand returns the record as named columns before reconciliation: the
// pass-through columns followed by one indicator per categorical field.
func Expand(rec model.InputRecord) []model.Column {
	return []model.Column{
		{Name: ColAge, Value: float64(rec.Age)},
		{Name: ColTrainingMonths, Value: float64(rec.TrainingMonths)},
		{Name: ColExamScore, Value: float64(rec.ExamScore)},
		{Name: ColGender, Value: rec.Gender.Encode()},
		{Name: ColExperience, Value: rec.Experience.Encode()},
		{Name: IndicatorName(FieldEducation, rec.Education), Value: 1},
		{Name: IndicatorName(FieldTraining, rec.Field), Value: 1},
	}
}

// Align builds the feature vector for rec. Manifest columns the record does
// not produce are zero. Expanded columns without a manifest slot, including
// indicators of values outside the catalog, are dropped and returned so the
// caller can report them. Align never fails.
func (a *Aligner) Align(rec model.InputRecord) (model.FeatureVector, []string) {
	values := make([]float64, len(a.manifest))
	var dropped []string

	for _, col := range Expand(rec)[:len(PassThroughColumns)] {
		if i, ok := a.passThrough[col.Name]; ok {
			values[i] = col.Value
			continue
		}
		dropped = append(dropped, col.Name)
	}

	for _, fv := range [...]struct{ field, value string }{
		{FieldEducation, rec.Education},
		{FieldTraining, rec.Field},
	} {
		if i, ok := a.indicators[fv.field][fv.value]; ok {
			values[i] = 1
			continue
		}
		dropped = append(dropped, IndicatorName(fv.field, fv.value))
	}

	return model.FeatureVector{Names: slices.Clone(a.manifest), Values: values}, dropped
}
