package features

import (
	"fmt"
	"slices"
	"strings"
)

// Report describes how a catalog and a manifest line up.
type Report struct {
	// MissingColumns are pass-through columns the manifest lacks.
	MissingColumns []string
	// Unproducible are manifest indicator columns whose value is not in the
	// catalog; they are zero on every prediction.
	Unproducible []string
	// Unmapped lists, per field, catalog values without a manifest column.
	// One per field is the dropped baseline of drop-first encoding.
	Unmapped map[string][]string
	// Unknown are manifest columns that belong to no known field.
	Unknown []string
}

// Reconcile compares the catalog against the manifest.
func Reconcile(catalog Catalog, manifest []string) Report {
	r := Report{Unmapped: make(map[string][]string)}
	inManifest := make(map[string]struct{}, len(manifest))
	for _, name := range manifest {
		inManifest[name] = struct{}{}
	}

	for _, col := range PassThroughColumns {
		if _, ok := inManifest[col]; !ok {
			r.MissingColumns = append(r.MissingColumns, col)
		}
	}

	for _, field := range catalog.Fields() {
		for _, v := range catalog.Values(field) {
			if _, ok := inManifest[IndicatorName(field, v)]; !ok {
				r.Unmapped[field] = append(r.Unmapped[field], v)
			}
		}
	}

	for _, name := range manifest {
		if slices.Contains(PassThroughColumns, name) {
			continue
		}
		field, value, ok := splitIndicator(catalog, name)
		switch {
		case !ok:
			r.Unknown = append(r.Unknown, name)
		case !catalog.Contains(field, value):
			r.Unproducible = append(r.Unproducible, name)
		}
	}
	return r
}

func splitIndicator(catalog Catalog, name string) (string, string, bool) {
	for _, field := range catalog.Fields() {
		if value, ok := strings.CutPrefix(name, field+"_"); ok {
			return field, value, true
		}
	}
	return "", "", false
}

// Drift reports whether the catalog and manifest disagree beyond a single
// drop-first baseline per field.
func (r Report) Drift() bool {
	if len(r.MissingColumns) > 0 || len(r.Unproducible) > 0 || len(r.Unknown) > 0 {
		return true
	}
	for _, values := range r.Unmapped {
		if len(values) > 1 {
			return true
		}
	}
	return false
}

// Err returns nil when there is no drift, otherwise an ErrCatalogDrift
// describing every disagreement.
func (r Report) Err() error {
	if !r.Drift() {
		return nil
	}
	var parts []string
	if len(r.MissingColumns) > 0 {
		parts = append(parts, "missing columns "+strings.Join(r.MissingColumns, ","))
	}
	if len(r.Unproducible) > 0 {
		parts = append(parts, "never produced "+strings.Join(r.Unproducible, ","))
	}
	if len(r.Unknown) > 0 {
		parts = append(parts, "unknown columns "+strings.Join(r.Unknown, ","))
	}
	for _, field := range []string{FieldEducation, FieldTraining} {
		if values := r.Unmapped[field]; len(values) > 1 {
			parts = append(parts, fmt.Sprintf("%s values without column %s", field, strings.Join(values, ",")))
		}
	}
	return fmt.Errorf("%w: %s", ErrCatalogDrift, strings.Join(parts, "; "))
}
