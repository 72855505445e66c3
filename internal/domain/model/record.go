// Package model contains domain models passed between layers.
package model

// Gender is the binary gender category captured by the form.
type Gender string

// Gender values as offered by the form and seen during training.
const (
	GenderMale   Gender = "Laki-laki"
	GenderFemale Gender = "Perempuan"
)

// Encode returns the training encoding: 1 for male, 0 otherwise.
func (g Gender) Encode() float64 {
	if g == GenderMale {
		return 1
	}
	return 0
}

// Experience answers "has prior work experience?".
type Experience string

// Experience values as offered by the form.
const (
	ExperienceYes Experience = "Ya"
	ExperienceNo  Experience = "Tidak"
)

// Encode returns 1 for "Ya" and 0 otherwise.
func (e Experience) Encode() float64 {
	if e == ExperienceYes {
		return 1
	}
	return 0
}

// Declared input bounds. The form enforces them and the API validates them.
const (
	MinAge            = 17
	MaxAge            = 60
	MinTrainingMonths = 1
	MaxTrainingMonths = 36
	MinExamScore      = 0
	MaxExamScore      = 100
)

// InputRecord is one graduate description submitted through the form.
// It is created per submission and never mutated.
type InputRecord struct {
	Age            int        // years, 17..60
	TrainingMonths int        // training duration in months, 1..36
	ExamScore      int        // final exam score, 0..100
	Gender         Gender     // binary, encoded before expansion
	Education      string     // prior education level, one-hot expanded
	Field          string     // training field, one-hot expanded
	Experience     Experience // binary, encoded before expansion
}

// Column is one named entry of a FeatureVector.
type Column struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// FeatureVector is the aligned numeric input of the model. Names and order
// follow the manifest the scaler and model were fitted on.
type FeatureVector struct {
	Names  []string
	Values []float64
}

// Len returns the vector width.
func (v FeatureVector) Len() int { return len(v.Values) }

// Columns pairs names with values for display.
func (v FeatureVector) Columns() []Column {
	cols := make([]Column, len(v.Values))
	for i := range v.Values {
		cols[i] = Column{Name: v.Names[i], Value: v.Values[i]}
	}
	return cols
}

// PredictionResult is the outcome of one prediction.
type PredictionResult struct {
	RequestID string        `json:"request_id"`
	Value     float64       `json:"value"`
	Formatted string        `json:"formatted"`
	Features  FeatureVector `json:"-"`
	// Dropped lists expanded columns the manifest does not know about.
	Dropped []string `json:"dropped_columns,omitempty"`
}
