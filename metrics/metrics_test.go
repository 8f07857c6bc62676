package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tvxlabs/mediabridge/adapter"
	"github.com/tvxlabs/mediabridge/media"
)

func TestMetrics(t *testing.T) {
	Convey("Given fresh metrics", t, func() {
		m := New()
		at := time.Unix(100, 0)

		Convey("Transitions are counted and the state gauge follows", func() {
			m.Transition(adapter.Transition{Profile: "mpv", From: media.StateUninitialized, To: media.StateLoading, At: at})
			m.Transition(adapter.Transition{Profile: "mpv", From: media.StateLoading, To: media.StateReady, At: at.Add(1500 * time.Millisecond)})

			So(testutil.ToFloat64(m.transitions.WithLabelValues("mpv", "LOADING", "READY")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.state.WithLabelValues("mpv", "READY")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.state.WithLabelValues("mpv", "LOADING")), ShouldEqual, 0)
			So(testutil.CollectAndCount(m.readyTime), ShouldEqual, 1)
		})

		Convey("Faults are counted by kind and timeouts separately", func() {
			m.Fault("shaka", &media.Fault{Kind: media.KindTimeout, Err: errors.New("no ready signal")})
			m.Fault("shaka", &media.Fault{Kind: media.KindLoad})

			So(testutil.ToFloat64(m.faults.WithLabelValues("shaka", "Timeout")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.faults.WithLabelValues("shaka", "LoadError")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.timeouts.WithLabelValues("shaka")), ShouldEqual, 1)
		})

		Convey("The handler exposes the registry", func() {
			m.Request(http.MethodPost, "/play", http.StatusNoContent, 3*time.Millisecond)

			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			body := rec.Body.String()
			So(strings.Contains(body, `mediabridge_control_requests_total{method="POST",route="/play",status="204"} 1`), ShouldBeTrue)
		})
	})
}
