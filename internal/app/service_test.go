package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/vokasi/internal/adapters/artifacts"
	app "github.com/okian/vokasi/internal/app"
	"github.com/okian/vokasi/internal/config"
	"github.com/okian/vokasi/internal/domain/features"
	"github.com/okian/vokasi/internal/domain/model"
	"github.com/okian/vokasi/internal/domain/predict"
	"github.com/okian/vokasi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var manifest = []string{
	"usia", "durasi_pelatihan", "nilai_ujian", "jenis_kelamin", "status_bekerja",
	"pendidikan_Diploma", "pendidikan_SMA/SMK", "pendidikan_Sarjana",
	"jurusan_Bisnis", "jurusan_Desain", "jurusan_IT", "jurusan_Kesehatan", "jurusan_Teknik",
}

// identityBundle scales nothing and weighs every column by 10 000 on top of
// a 3 000 000 intercept, so predictions are easy to compute by hand.
func identityBundle(columns []string) *artifacts.Bundle {
	zeros := make([]float64, len(columns))
	ones := make([]float64, len(columns))
	coef := make([]float64, len(columns))
	for i := range columns {
		ones[i] = 1
		coef[i] = 10_000
	}
	scaler, err := predict.NewStandardScaler(zeros, ones)
	if err != nil {
		panic(err)
	}
	m, err := predict.NewLinearModel(coef, 3_000_000)
	if err != nil {
		panic(err)
	}
	return &artifacts.Bundle{
		Manifest:   columns,
		Scaler:     scaler,
		Model:      m,
		ScalerKind: artifacts.KindStandardScaler,
		ModelKind:  artifacts.KindLinear,
	}
}

func scenario() model.InputRecord {
	return model.InputRecord{
		Age: 20, TrainingMonths: 6, ExamScore: 85,
		Gender: model.GenderMale, Education: "Diploma", Field: "IT",
		Experience: model.ExperienceNo,
	}
}

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestService_Predict(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithBundle(identityBundle(manifest)))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When predicting the documented scenario", func() {
			res, err := svc.Predict(ctx, scenario())

			Convey("Then a positive salary is returned and formatted as currency", func() {
				So(err, ShouldBeNil)
				So(res.Value, ShouldEqual, 4_140_000)
				So(res.Value, ShouldBeGreaterThan, 0)
				So(res.Formatted, ShouldEqual, "Rp 4.140.000")
				So(res.RequestID, ShouldNotBeEmpty)
			})

			Convey("And the aligned vector is attached in manifest order", func() {
				So(res.Features.Names, ShouldResemble, manifest)
				So(res.Features.Values, ShouldResemble, []float64{20, 6, 85, 1, 0, 1, 0, 0, 0, 0, 1, 0, 0})
				So(res.Dropped, ShouldBeEmpty)
			})
		})

		Convey("When predicting the same record twice", func() {
			a, errA := svc.Predict(ctx, scenario())
			b, errB := svc.Predict(ctx, scenario())

			Convey("Then the results agree", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a.Value, ShouldEqual, b.Value)
				So(a.Formatted, ShouldEqual, b.Formatted)
				So(a.Features.Values, ShouldResemble, b.Features.Values)
			})
		})

		Convey("When predicting at the age bounds", func() {
			for _, age := range []int{model.MinAge, model.MaxAge} {
				rec := scenario()
				rec.Age = age
				res, err := svc.Predict(ctx, rec)
				So(err, ShouldBeNil)
				So(res.Features.Values[0], ShouldEqual, float64(age))
			}
		})

		Convey("When the training field is not a known category", func() {
			rec := scenario()
			rec.Field = "Kuliner"
			res, err := svc.Predict(ctx, rec)

			Convey("Then the prediction succeeds with an all-zero field block", func() {
				So(err, ShouldBeNil)
				So(res.Dropped, ShouldResemble, []string{"jurusan_Kuliner"})
				So(res.Value, ShouldEqual, 4_130_000)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Predict(cctx, scenario())

			Convey("Then the failure is surfaced", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("Then stats report served and failed predictions", func() {
			_, _ = svc.Predict(ctx, scenario())
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["manifestColumns"], ShouldEqual, len(manifest))
			So(stats["modelKind"], ShouldEqual, artifacts.KindLinear)
			So(stats["predictionsServed"], ShouldBeGreaterThanOrEqualTo, int64(1))
		})

		Convey("Then starting again is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given service start conditions", t, func() {
		ctx := context.Background()

		Convey("When no bundle is configured", func() {
			err := app.New().Start(ctx)
			So(errors.Is(err, app.ErrNoBundle), ShouldBeTrue)
		})

		Convey("When predicting before start", func() {
			_, err := app.New(app.WithBundle(identityBundle(manifest))).Predict(ctx, scenario())
			So(errors.Is(err, app.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When the manifest expects a category the form cannot produce", func() {
			drifted := append(append([]string{}, manifest...), "jurusan_Kuliner")

			Convey("Then strict mode refuses to start", func() {
				svc := app.New(app.WithBundle(identityBundle(drifted)))
				err := svc.Start(ctx)
				So(errors.Is(err, features.ErrCatalogDrift), ShouldBeTrue)
				_, err = svc.Predict(ctx, scenario())
				So(errors.Is(err, app.ErrNotStarted), ShouldBeTrue)
			})

			Convey("And warn mode starts and reports the drift", func() {
				svc := app.New(
					app.WithBundle(identityBundle(drifted)),
					app.WithCatalogCheck(config.CatalogCheckWarn),
				)
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.Report().Unproducible, ShouldResemble, []string{"jurusan_Kuliner"})
				So(svc.GetStats()["catalogDrift"], ShouldBeTrue)
			})
		})

		Convey("When the catalog is overridden to match an extended manifest", func() {
			extended := append(append([]string{}, manifest...), "jurusan_Kuliner")
			catalog, err := features.NewCatalog(map[string][]string{
				features.FieldTraining: {"Teknik", "IT", "Bisnis", "Desain", "Kesehatan", "Kuliner"},
			})
			So(err, ShouldBeNil)
			svc := app.New(app.WithBundle(identityBundle(extended)), app.WithCatalog(catalog))

			Convey("Then the service starts and maps the new category", func() {
				So(svc.Start(ctx), ShouldBeNil)
				rec := scenario()
				rec.Field = "Kuliner"
				res, err := svc.Predict(ctx, rec)
				So(err, ShouldBeNil)
				So(res.Dropped, ShouldBeEmpty)
				So(res.Features.Values[len(extended)-1], ShouldEqual, 1)
			})
		})

		Convey("When the scaler was fitted on a different width than the model", func() {
			b := identityBundle(manifest)
			narrow, _ := predict.NewStandardScaler([]float64{0}, []float64{1})
			b.Scaler = narrow
			err := app.New(app.WithBundle(b)).Start(ctx)

			Convey("Then start fails with a shape mismatch", func() {
				So(errors.Is(err, predict.ErrShapeMismatch), ShouldBeTrue)
			})
		})
	})
}

func TestCurrencyFormatter(t *testing.T) {
	Convey("Given a rupiah formatter", t, func() {
		f := app.NewCurrencyFormatter("Rp")

		Convey("Then values are rounded and grouped with dots", func() {
			So(f.Format(5_250_000.4), ShouldEqual, "Rp 5.250.000")
			So(f.Format(1_234_567.5), ShouldEqual, "Rp 1.234.568")
			So(f.Format(999), ShouldEqual, "Rp 999")
		})

		Convey("Then halves round to even", func() {
			So(f.Format(4_500_000.5), ShouldEqual, "Rp 4.500.000")
			So(f.Format(4_500_001.5), ShouldEqual, "Rp 4.500.002")
			So(f.Format(-0.4), ShouldEqual, "Rp 0")
		})

		Convey("Then values beyond the int64 range keep their magnitude", func() {
			So(f.Format(1e19), ShouldEqual, "Rp 10.000.000.000.000.000.000")
		})

		Convey("Then non-finite values are not rendered as numbers", func() {
			So(f.Format(math.NaN()), ShouldEqual, "Rp n/a")
			So(f.Format(math.Inf(1)), ShouldEqual, "Rp n/a")
		})

		Convey("And an empty prefix yields the bare number", func() {
			So(app.NewCurrencyFormatter("").Format(1000), ShouldEqual, "1.000")
		})
	})
}
