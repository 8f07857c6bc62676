package style

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tvxlabs/mediabridge/media"
)

func TestState(t *testing.T) {
	Convey("Every state name survives rendering", t, func() {
		for _, s := range media.States() {
			So(strings.Contains(State(s), s.String()), ShouldBeTrue)
		}
	})
}
