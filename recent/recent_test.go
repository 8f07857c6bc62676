package recent

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tvxlabs/mediabridge/filesystem"
	"github.com/tvxlabs/mediabridge/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestRecent(t *testing.T) {
	Convey("Given remembered sources", t, func() {
		viper.Set(key.RecentRemember, true)
		Reset(func() {
			for _, e := range List() {
				_, _ = Forget(e.Source)
			}
		})

		base := time.Unix(1_700_000_000, 0)
		So(Remember("https://cdn.example.com/live/news.m3u8", "shaka", base), ShouldBeNil)
		So(Remember("/media/films/Metropolis.mkv", "mpv", base.Add(time.Minute)), ShouldBeNil)
		So(Remember("/media/films/Metropolis.mkv", "mpv", base.Add(2*time.Minute)), ShouldBeNil)

		Convey("List orders by plays", func() {
			entries := List()
			So(entries, ShouldHaveLength, 2)
			So(entries[0].Source, ShouldEqual, "/media/films/Metropolis.mkv")
			So(entries[0].Plays, ShouldEqual, 2)
			So(entries[0].LastPlay.Equal(base.Add(2*time.Minute)), ShouldBeTrue)
		})

		Convey("Recall matches fuzzily and case-insensitively", func() {
			entry, ok := Recall("metro").Get()
			So(ok, ShouldBeTrue)
			So(entry.Engine, ShouldEqual, "mpv")

			entry, ok = Recall("NEWS").Get()
			So(ok, ShouldBeTrue)
			So(entry.Engine, ShouldEqual, "shaka")

			So(Recall("nosferatu").IsAbsent(), ShouldBeTrue)
		})

		Convey("Forget removes a source", func() {
			removed, err := Forget("/media/films/Metropolis.mkv")
			So(err, ShouldBeNil)
			So(removed, ShouldBeTrue)
			So(List(), ShouldHaveLength, 1)

			removed, err = Forget("/nowhere")
			So(err, ShouldBeNil)
			So(removed, ShouldBeFalse)
		})

		Convey("Nothing is stored when disabled", func() {
			viper.Set(key.RecentRemember, false)
			So(Remember("/media/other.mkv", "mpv", base), ShouldBeNil)
			So(List(), ShouldHaveLength, 2)
		})

		Convey("Blank sources are ignored", func() {
			So(Remember("   ", "mpv", base), ShouldBeNil)
			So(List(), ShouldHaveLength, 2)
		})
	})
}
