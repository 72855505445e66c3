package smoketest

import (
	"math/rand/v2"
	"slices"
)

// Input ranges accepted by the service.
const (
	minAge, maxAge       = 17, 60
	minMonths, maxMonths = 1, 36
	maxExamScore         = 100
)

// unknownCategories are candidate values outside the catalog; any the
// service's catalog does list are skipped.
var unknownCategories = []string{"Doktor", "Hukum", "Sastra", "Pertanian"} //nolint:gochecknoglobals // fixed sample

// generateRecords builds n records from the catalog. Generation is
// deterministic for a given seed.
func generateRecords(cat Catalog, n int, seed uint64, unknownRatio float64) ([]Record, []bool) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	outsideEducation := outside(unknownCategories, cat.Education)
	outsideField := outside(unknownCategories, cat.Field)
	records := make([]Record, n)
	unknown := make([]bool, n)
	for i := range records {
		rec := Record{
			Age:            minAge + rng.IntN(maxAge-minAge+1),
			TrainingMonths: minMonths + rng.IntN(maxMonths-minMonths+1),
			ExamScore:      rng.IntN(maxExamScore + 1),
			Gender:         pick(rng, cat.Gender),
			Education:      pick(rng, cat.Education),
			Field:          pick(rng, cat.Field),
			Experience:     pick(rng, cat.Experience),
		}
		if rng.Float64() < unknownRatio {
			useEducation := rng.IntN(2) == 0
			switch {
			case useEducation && len(outsideEducation) > 0, len(outsideField) == 0 && len(outsideEducation) > 0:
				rec.Education = pick(rng, outsideEducation)
				unknown[i] = true
			case len(outsideField) > 0:
				rec.Field = pick(rng, outsideField)
				unknown[i] = true
			}
		}
		records[i] = rec
	}
	return records, unknown
}

// outside returns the candidates not listed in known.
func outside(candidates, known []string) []string {
	var out []string
	for _, c := range candidates {
		if !slices.Contains(known, c) {
			out = append(out, c)
		}
	}
	return out
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
