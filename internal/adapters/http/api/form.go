package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/okian/vokasi/internal/domain/features"
	"github.com/okian/vokasi/internal/domain/model"
	"github.com/okian/vokasi/pkg/logger"
	"github.com/okian/vokasi/pkg/metrics"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html")) //nolint:gochecknoglobals // parsed once

// FormHandler serves the prediction form and renders its result.
type FormHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewFormHandler creates a new form handler.
func NewFormHandler(deps Dependencies, log logger.Logger) *FormHandler {
	return &FormHandler{deps: deps, log: log}
}

type formView struct {
	Input       predictionInput
	Education   []string
	Field       []string
	Genders     []string
	Experiences []string
	Limits      formLimits
	Result      *model.PredictionResult
	Columns     []model.Column
	Error       string
}

type formLimits struct {
	MinAge, MaxAge                       int
	MinTrainingMonths, MaxTrainingMonths int
	MinExamScore, MaxExamScore           int
}

func (h *FormHandler) view(in predictionInput) formView {
	c := h.deps.Catalog()
	return formView{
		Input:       in,
		Education:   c.Values(features.FieldEducation),
		Field:       c.Values(features.FieldTraining),
		Genders:     []string{string(model.GenderMale), string(model.GenderFemale)},
		Experiences: []string{string(model.ExperienceYes), string(model.ExperienceNo)},
		Limits: formLimits{
			MinAge: model.MinAge, MaxAge: model.MaxAge,
			MinTrainingMonths: model.MinTrainingMonths, MaxTrainingMonths: model.MaxTrainingMonths,
			MinExamScore: model.MinExamScore, MaxExamScore: model.MaxExamScore,
		},
	}
}

// HandleForm handles GET / (empty form) and POST / (form submission).
func (h *FormHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	const op = "api.form"
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.render(w, r, http.StatusOK, h.view(defaultInput()))
	case http.MethodPost:
		h.submit(w, r, op)
	default:
		http.NotFound(w, r)
	}
}

func (h *FormHandler) submit(w http.ResponseWriter, r *http.Request, op string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		metrics.RecordPrediction(metrics.OutcomeInvalid)
		v := h.view(defaultInput())
		v.Error = WrapKind(op, ErrBadRequest, err).Error()
		h.render(w, r, http.StatusBadRequest, v)
		return
	}
	in, err := parseForm(r.PostForm)
	if err == nil {
		err = in.validate()
	}
	v := h.view(in)
	if err != nil {
		metrics.RecordPrediction(metrics.OutcomeInvalid)
		v.Error = err.Error()
		h.render(w, r, http.StatusBadRequest, v)
		return
	}

	res, err := h.deps.Predict(r.Context(), in.record())
	if err != nil {
		h.log.Error(r.Context(), "form prediction failed", logger.String("op", op), logger.Error(err))
		v.Error = "Prediction failed. Please try again later."
		h.render(w, r, http.StatusInternalServerError, v)
		return
	}
	v.Result = &res
	v.Columns = res.Features.Columns()
	h.render(w, r, http.StatusOK, v)
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, v formView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, v); err != nil {
		h.log.Error(r.Context(), "render form", logger.Error(Wrap("api.form", err)))
	}
}
