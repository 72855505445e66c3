package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/okian/vokasi/internal/adapters/http/api"
	"github.com/okian/vokasi/internal/domain/features"
	"github.com/okian/vokasi/internal/domain/model"
	"github.com/okian/vokasi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type mockDeps struct {
	err  error
	last model.InputRecord
	hits int
}

func (m *mockDeps) Predict(_ context.Context, rec model.InputRecord) (model.PredictionResult, error) {
	m.hits++
	m.last = rec
	if m.err != nil {
		return model.PredictionResult{}, m.err
	}
	return model.PredictionResult{
		RequestID: "req-1",
		Value:     5250000,
		Formatted: "Rp 5.250.000",
		Features: model.FeatureVector{
			Names:  []string{"usia", "jurusan_IT"},
			Values: []float64{float64(rec.Age), 1},
		},
	}, nil
}

func (m *mockDeps) Catalog() features.Catalog { return features.DefaultCatalog() }

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "predictionsServed": int64(3)}
}

func newTestServer(deps *mockDeps) *http.ServeMux {
	_ = logger.Init(logger.WithWriter(io.Discard))
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}, logger.Get()).Register(context.Background(), mux)
	return mux
}

const validJSON = `{"age":20,"training_months":6,"exam_score":85,"gender":"Laki-laki",` +
	`"education":"Diploma","field":"IT","experience":"Tidak"}`

func validForm() url.Values {
	return url.Values{
		"age":             {"20"},
		"training_months": {"6"},
		"exam_score":      {"85"},
		"gender":          {"Laki-laki"},
		"education":       {"Diploma"},
		"field":           {"IT"},
		"experience":      {"Tidak"},
	}
}

func do(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestPredictEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{}
		mux := newTestServer(deps)

		Convey("When posting a valid record", func() {
			rec := do(mux, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(validJSON)))

			Convey("Then the formatted prediction and features are returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["formatted"], ShouldEqual, "Rp 5.250.000")
				So(body["request_id"], ShouldEqual, "req-1")
				So(body["features"], ShouldHaveLength, 2)
				So(deps.last.Gender, ShouldEqual, model.GenderMale)
				So(deps.last.Experience, ShouldEqual, model.ExperienceNo)
			})
		})

		Convey("When the age is out of range", func() {
			body := strings.Replace(validJSON, `"age":20`, `"age":70`, 1)
			rec := do(mux, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body)))

			Convey("Then a 400 names the field and the model is not called", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "age must be between 17 and 60")
				So(deps.hits, ShouldEqual, 0)
			})
		})

		Convey("When the gender is not a known value", func() {
			body := strings.Replace(validJSON, "Laki-laki", "X", 1)
			rec := do(mux, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body)))

			Convey("Then a 400 lists the accepted values", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "gender must be one of Laki-laki, Perempuan")
			})
		})

		Convey("When the body carries unknown fields", func() {
			body := strings.Replace(validJSON, "{", `{"salary":1,`, 1)
			rec := do(mux, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body)))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the category is unknown", func() {
			body := strings.Replace(validJSON, `"field":"IT"`, `"field":"Hukum"`, 1)
			rec := do(mux, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body)))

			Convey("Then it is still predicted", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.last.Field, ShouldEqual, "Hukum")
			})
		})

		Convey("When the prediction fails", func() {
			deps.err = errors.New("shape mismatch: expected 13 got 12")
			rec := do(mux, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(validJSON)))

			Convey("Then a generic 500 is returned without internal details", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(rec.Body.String(), ShouldContainSubstring, "prediction_failed")
				So(rec.Body.String(), ShouldNotContainSubstring, "expected 13")
			})
		})

		Convey("When using GET", func() {
			rec := do(mux, httptest.NewRequest(http.MethodGet, "/api/predict", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestFormEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &mockDeps{}
		mux := newTestServer(deps)

		Convey("When requesting the form", func() {
			rec := do(mux, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then the catalog options and defaults are rendered", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				page := rec.Body.String()
				for _, v := range []string{"SMA/SMK", "Diploma", "Sarjana", "Teknik", "IT", "Bisnis", "Desain", "Kesehatan"} {
					So(page, ShouldContainSubstring, `value="`+v+`"`)
				}
				So(page, ShouldContainSubstring, `name="age" min="17" max="60" value="20"`)
				So(page, ShouldNotContainSubstring, `id="result"`)
			})
		})

		Convey("When submitting a valid form", func() {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validForm().Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := do(mux, req)

			Convey("Then the formatted result and feature details are shown", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				page := rec.Body.String()
				So(page, ShouldContainSubstring, "Rp 5.250.000")
				So(page, ShouldContainSubstring, "<details")
				So(page, ShouldContainSubstring, "<th>jurusan_IT</th>")
				So(deps.last.Education, ShouldEqual, "Diploma")
			})
		})

		Convey("When the exam score is not a number", func() {
			form := validForm()
			form.Set("exam_score", "tinggi")
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := do(mux, req)

			Convey("Then the form is re-rendered with the error", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "exam_score must be a whole number")
				So(deps.hits, ShouldEqual, 0)
			})
		})

		Convey("When the prediction fails", func() {
			deps.err = errors.New("boom")
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validForm().Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := do(mux, req)

			Convey("Then a generic failure message is shown", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(rec.Body.String(), ShouldContainSubstring, "Prediction failed")
				So(rec.Body.String(), ShouldNotContainSubstring, "boom")
			})
		})

		Convey("When requesting an unknown path", func() {
			rec := do(mux, httptest.NewRequest(http.MethodGet, "/nope", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestCatalogStatsAndHealth(t *testing.T) {
	Convey("Given the API server", t, func() {
		mux := newTestServer(&mockDeps{})

		Convey("Then the catalog lists every category", func() {
			rec := do(mux, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			var body map[string][]string
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["education"], ShouldResemble, []string{"SMA/SMK", "Diploma", "Sarjana"})
			So(body["field"], ShouldHaveLength, 5)
			So(body["gender"], ShouldResemble, []string{"Laki-laki", "Perempuan"})
			So(body["experience"], ShouldResemble, []string{"Ya", "Tidak"})
		})

		Convey("And stats are served as JSON", func() {
			rec := do(mux, httptest.NewRequest(http.MethodGet, "/stats", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"predictionsServed":3`)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			So(rec.Header().Get("Cache-Control"), ShouldEqual, "no-store")
		})

		Convey("And stats reject other methods", func() {
			rec := do(mux, httptest.NewRequest(http.MethodPost, "/stats", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And healthz exposes prometheus metrics", func() {
			do(mux, httptest.NewRequest(http.MethodGet, "/stats", nil))
			rec := do(mux, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "vokasi_salary_http_requests_total")
		})
	})
}

func TestRegister_NilMux(t *testing.T) {
	Convey("Registering on a nil mux panics", t, func() {
		srv := api.NewServer(&mockDeps{}, mockStats{}, nil)
		So(func() { srv.Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestOpError(t *testing.T) {
	Convey("Given an error wrapped with a kind", t, func() {
		cause := errors.New("eof")
		err := api.WrapKind("api.predict", api.ErrBadRequest, cause)

		Convey("Then both kind and cause match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.predict: bad request: eof")
		})

		Convey("And Wrap of nil is nil", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
		})
	})
}
