package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/activscan/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 1)
			convey.So(cfg.ResultStoreSize, convey.ShouldEqual, 256)
			convey.So(cfg.Trees, convey.ShouldEqual, 100)
			convey.So(cfg.Contamination, convey.ShouldEqual, 0.10)
			convey.So(cfg.Seed, convey.ShouldEqual, 42)
			convey.So(cfg.MissingSentinel, convey.ShouldEqual, -1)
			convey.So(cfg.NormalLabel, convey.ShouldEqual, "Normal")
			convey.So(cfg.AnomalyLabel, convey.ShouldEqual, "Anomaly")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When contamination is above one half", func() {
			cfg.Contamination = 0.6

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When contamination is zero", func() {
			cfg.Contamination = 0

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When no worker is configured", func() {
			cfg.WorkerCount = 0

			convey.Convey("Then validation fails", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When origins are padded", func() {
			cfg.CORSOrigins = " https://a.example , ,https://b.example"

			convey.Convey("Then they are split and trimmed", func() {
				convey.So(cfg.Origins(), convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})
	})
}
