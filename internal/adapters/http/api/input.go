package api

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/vokasi/internal/domain/model"
)

// predictionInput mirrors the OpenAPI schema for POST /api/predict and the
// fields of the HTML form.
type predictionInput struct {
	Age            int    `json:"age" validate:"min=17,max=60"`
	TrainingMonths int    `json:"training_months" validate:"min=1,max=36"`
	ExamScore      int    `json:"exam_score" validate:"min=0,max=100"`
	Gender         string `json:"gender" validate:"required,oneof=Laki-laki Perempuan"`
	Education      string `json:"education" validate:"required,max=64"`
	Field          string `json:"field" validate:"required,max=64"`
	Experience     string `json:"experience" validate:"required,oneof=Ya Tidak"`
}

// defaultInput holds the values the form starts with.
func defaultInput() predictionInput {
	return predictionInput{
		Age:            20,
		TrainingMonths: 6,
		ExamScore:      85,
		Gender:         string(model.GenderMale),
		Education:      "SMA/SMK",
		Field:          "Teknik",
		Experience:     string(model.ExperienceYes),
	}
}

var inputValidator = newValidator() //nolint:gochecknoglobals // validators cache struct metadata

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate returns a readable error naming the first offending field.
func (in predictionInput) validate() error {
	err := inputValidator.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "min", "max":
		if fe.Kind() == reflect.String {
			return fmt.Errorf("%s is too long", fe.Field())
		}
		lo, hi := bounds(fe.Field())
		return fmt.Errorf("%s must be between %d and %d", fe.Field(), lo, hi)
	case "oneof":
		return fmt.Errorf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "required":
		return fmt.Errorf("missing %s", fe.Field())
	default:
		return fmt.Errorf("invalid %s", fe.Field())
	}
}

func bounds(field string) (int, int) {
	switch field {
	case "age":
		return model.MinAge, model.MaxAge
	case "training_months":
		return model.MinTrainingMonths, model.MaxTrainingMonths
	default:
		return model.MinExamScore, model.MaxExamScore
	}
}

func (in predictionInput) record() model.InputRecord {
	return model.InputRecord{
		Age:            in.Age,
		TrainingMonths: in.TrainingMonths,
		ExamScore:      in.ExamScore,
		Gender:         model.Gender(in.Gender),
		Education:      in.Education,
		Field:          in.Field,
		Experience:     model.Experience(in.Experience),
	}
}

// parseForm reads a submitted form. Fields that fail to parse are reported;
// the returned input keeps whatever did parse so the form can be re-rendered.
func parseForm(values url.Values) (predictionInput, error) {
	in := defaultInput()
	var firstErr error
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"age", &in.Age},
		{"training_months", &in.TrainingMonths},
		{"exam_score", &in.ExamScore},
	} {
		raw := strings.TrimSpace(values.Get(f.name))
		n, err := strconv.Atoi(raw)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s must be a whole number", f.name)
			}
			continue
		}
		*f.dst = n
	}
	in.Gender = values.Get("gender")
	in.Education = values.Get("education")
	in.Field = values.Get("field")
	in.Experience = values.Get("experience")
	return in, firstErr
}
