// Package features turns an input record into the feature vector the model
// was trained on.
package features

import (
	"fmt"
	"slices"
	"strings"
)

// Column names used during training.
const (
	ColAge            = "usia"
	ColTrainingMonths = "durasi_pelatihan"
	ColExamScore      = "nilai_ujian"
	ColGender         = "jenis_kelamin"
	ColExperience     = "status_bekerja"
)

// Categorical fields expanded into indicator columns.
const (
	FieldEducation = "pendidikan"
	FieldTraining  = "jurusan"
)

// PassThroughColumns are numeric or pre-encoded binary columns copied as-is.
var PassThroughColumns = []string{ //nolint:gochecknoglobals // fixed training schema
	ColAge,
	ColTrainingMonths,
	ColExamScore,
	ColGender,
	ColExperience,
}

// IndicatorName returns the one-hot column name for a category value.
func IndicatorName(field, value string) string {
	return field + "_" + value
}

// Catalog is the explicit set of category values per categorical field.
// The form renders its options from it and the aligner maps only these
// values, so the two cannot diverge.
type Catalog struct {
	fields map[string][]string
}

// DefaultCatalog returns the categories offered by the form.
func DefaultCatalog() Catalog {
	return Catalog{fields: map[string][]string{
		FieldEducation: {"SMA/SMK", "Diploma", "Sarjana"},
		FieldTraining:  {"Teknik", "IT", "Bisnis", "Desain", "Kesehatan"},
	}}
}

// NewCatalog builds a catalog from the defaults, replacing any field listed
// in overrides. Unknown fields, empty lists, blank and duplicate values are
// rejected.
func NewCatalog(overrides map[string][]string) (Catalog, error) {
	c := DefaultCatalog()
	for field, values := range overrides {
		if _, ok := c.fields[field]; !ok {
			return Catalog{}, fmt.Errorf("%w: unknown field %q", ErrInvalidCatalog, field)
		}
		if len(values) == 0 {
			return Catalog{}, fmt.Errorf("%w: field %q has no values", ErrInvalidCatalog, field)
		}
		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				return Catalog{}, fmt.Errorf("%w: field %q has a blank value", ErrInvalidCatalog, field)
			}
			if _, dup := seen[v]; dup {
				return Catalog{}, fmt.Errorf("%w: field %q lists %q twice", ErrInvalidCatalog, field, v)
			}
			seen[v] = struct{}{}
		}
		c.fields[field] = slices.Clone(values)
	}
	return c, nil
}

// Fields returns the categorical field names in a stable order.
func (c Catalog) Fields() []string {
	return []string{FieldEducation, FieldTraining}
}

// Values returns a copy of the known values of field, in display order.
func (c Catalog) Values(field string) []string {
	return slices.Clone(c.fields[field])
}

// Contains reports whether value is a known category of field.
func (c Catalog) Contains(field, value string) bool {
	return slices.Contains(c.fields[field], value)
}
