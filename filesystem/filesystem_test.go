package filesystem

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should use any afero backend", func() {
			mem := afero.NewMemMapFs()
			Use(afero.NewReadOnlyFs(mem))
			So(API().WriteFile("/profiles.yaml", nil, 0o644), ShouldNotBeNil)
			SetMemMapFs()
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestPrune(t *testing.T) {
	Convey("Given a directory with stale and fresh files", t, func() {
		SetMemMapFs()
		fs := API()
		now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

		So(fs.MkdirAll("/tmp/mb/nested", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/mb/stale.sock", nil, 0o644), ShouldBeNil)
		So(fs.WriteFile("/tmp/mb/nested/stale.sock", nil, 0o644), ShouldBeNil)
		So(fs.WriteFile("/tmp/mb/fresh.sock", nil, 0o644), ShouldBeNil)
		So(fs.Chtimes("/tmp/mb/stale.sock", now.Add(-48*time.Hour), now.Add(-48*time.Hour)), ShouldBeNil)
		So(fs.Chtimes("/tmp/mb/nested/stale.sock", now.Add(-25*time.Hour), now.Add(-25*time.Hour)), ShouldBeNil)
		So(fs.Chtimes("/tmp/mb/fresh.sock", now.Add(-time.Hour), now.Add(-time.Hour)), ShouldBeNil)

		Convey("Only the stale files are removed", func() {
			So(Prune("/tmp/mb", 24*time.Hour, now), ShouldEqual, 2)
			So(lo.Must(fs.Exists("/tmp/mb/fresh.sock")), ShouldBeTrue)
			So(lo.Must(fs.Exists("/tmp/mb/stale.sock")), ShouldBeFalse)
		})

		Convey("A missing directory prunes nothing", func() {
			So(Prune("/nowhere", time.Hour, now), ShouldEqual, 0)
		})
	})
}
