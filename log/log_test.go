package log

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tvxlabs/mediabridge/filesystem"
	"github.com/tvxlabs/mediabridge/key"
	"github.com/tvxlabs/mediabridge/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging configuration", t, func() {
		Reset(func() {
			viper.Set(key.LogsWrite, false)
			enabled = false
		})

		Convey("When writing is disabled nothing is opened", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeFalse)
			Warn("dropped")
		})

		Convey("When writing is enabled a daily file receives entries", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			viper.Set(key.LogsJson, false)

			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeTrue)
			So(logrus.GetLevel(), ShouldEqual, logrus.DebugLevel)

			With("engine", "mpv").Warn("ended before ready")

			path := filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
			contents := string(lo.Must(filesystem.API().ReadFile(path)))
			So(strings.Contains(contents, "ended before ready"), ShouldBeTrue)
			So(strings.Contains(contents, "engine=mpv"), ShouldBeTrue)
		})

		Convey("An unknown level falls back to info", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "loud")
			So(Setup(), ShouldBeNil)
			So(logrus.GetLevel(), ShouldEqual, logrus.InfoLevel)
		})
	})
}
