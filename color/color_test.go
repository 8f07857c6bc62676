package color

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tvxlabs/mediabridge/media"
)

func TestForState(t *testing.T) {
	Convey("Every state has its own entry", t, func() {
		for _, s := range media.States() {
			_, ok := states[s]
			So(ok, ShouldBeTrue)
		}
	})

	Convey("Playing and failing states are told apart", t, func() {
		So(ForState(media.StatePlaying), ShouldNotEqual, ForState(media.StateError))
		So(ForState(media.StateReady), ShouldEqual, ForState(media.StatePaused))
	})

	Convey("Unknown states fall back to the loading color", t, func() {
		So(ForState(media.State(99)), ShouldEqual, ForState(media.StateLoading))
	})
}
