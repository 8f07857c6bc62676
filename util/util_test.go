package util

import (
	"math"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tvxlabs/mediabridge/filesystem"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "engine", "engines"), ShouldEqual, "1 engine")
		So(Quantify(2, "engine", "engines"), ShouldEqual, "2 engines")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestClock(t *testing.T) {
	Convey("Clock", t, func() {
		So(Clock(0), ShouldEqual, "0:00")
		So(Clock(65.9), ShouldEqual, "1:05")
		So(Clock(3723), ShouldEqual, "1:02:03")
		So(Clock(-4), ShouldEqual, "0:00")
		So(Clock(math.Inf(1)), ShouldEqual, "0:00")
	})
}

func TestMax(t *testing.T) {
	Convey("Max", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		lo.Must0(fs.MkdirAll("/tmp/a/b", 0o755))
		lo.Must0(fs.WriteFile("/tmp/a/b/c", []byte("x"), 0o644))

		So(Delete("/tmp/a"), ShouldBeNil)
		So(lo.Must(fs.Exists("/tmp/a")), ShouldBeFalse)
		So(Delete("/tmp/missing"), ShouldNotBeNil)
	})
}
