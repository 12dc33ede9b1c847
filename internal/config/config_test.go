package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/regista/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 4096)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.GridPath, convey.ShouldBeEmpty)
			convey.So(cfg.PitchLengthM, convey.ShouldEqual, 105)
			convey.So(cfg.PitchWidthM, convey.ShouldEqual, 68)
			convey.So(cfg.DeriveCarries, convey.ShouldBeTrue)
			convey.So(cfg.CarryMinLengthM, convey.ShouldEqual, 3)
			convey.So(cfg.CarryMaxLengthM, convey.ShouldEqual, 60)
			convey.So(cfg.Reports, convey.ShouldBeEmpty)
		})
	})
}
