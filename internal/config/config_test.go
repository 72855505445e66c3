package config_test

import (
	"testing"

	"github.com/okian/vokasi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.ModelPath, convey.ShouldEqual, "model_gaji.json")
			convey.So(cfg.ScalerPath, convey.ShouldEqual, "scaler.json")
			convey.So(cfg.ManifestPath, convey.ShouldEqual, "features_columns.json")
			convey.So(cfg.CurrencyPrefix, convey.ShouldEqual, "Rp")
			convey.So(cfg.CatalogCheck, convey.ShouldEqual, config.CatalogCheckStrict)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
