package adapter

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/engine/enginetest"
	"github.com/tvxlabs/mediabridge/eventloop"
	"github.com/tvxlabs/mediabridge/media"
)

type recordingHost struct {
	debugs      []string
	warns       []string
	errs        []string
	calls       []string
	accelerated []bool
	seekDelay   int
	sizes       []media.Size

	state    media.State
	position float64
}

func (h *recordingHost) Debug(msg string)   { h.debugs = append(h.debugs, msg) }
func (h *recordingHost) Warn(msg string)    { h.warns = append(h.warns, msg) }
func (h *recordingHost) Error(msg string)   { h.errs = append(h.errs, msg) }
func (h *recordingHost) ApplyVolume()       { h.calls = append(h.calls, "applyVolume") }
func (h *recordingHost) StopPlayback()      { h.calls = append(h.calls, "stopPlayback") }
func (h *recordingHost) StartLoading()      { h.calls = append(h.calls, "startLoading") }
func (h *recordingHost) StopLoading()       { h.calls = append(h.calls, "stopLoading") }
func (h *recordingHost) State() media.State { return h.state }
func (h *recordingHost) Position() float64  { return h.position }

func (h *recordingHost) StartPlayback(accelerated bool) {
	h.calls = append(h.calls, "startPlayback")
	h.accelerated = append(h.accelerated, accelerated)
}

func (h *recordingHost) SetSeekDelay(ms int) {
	h.calls = append(h.calls, "setSeekDelay")
	h.seekDelay = ms
}

func (h *recordingHost) SetSize(width, height int) {
	h.sizes = append(h.sizes, media.Size{Width: width, Height: height})
}

func (h *recordingHost) count(call string) int {
	return lo.Count(h.calls, call)
}

func (h *recordingHost) debugged(substr string) bool {
	return lo.ContainsBy(h.debugs, func(msg string) bool { return strings.Contains(msg, substr) })
}

type recordingObserver struct {
	transitions []Transition
	faults      []*media.Fault
}

func (o *recordingObserver) Transition(t Transition) {
	o.transitions = append(o.transitions, t)
}

func (o *recordingObserver) Fault(_ string, f *media.Fault) {
	o.faults = append(o.faults, f)
}

func (o *recordingObserver) states() []media.State {
	return lo.Map(o.transitions, func(t Transition, _ int) media.State { return t.To })
}

type fixture struct {
	clock   *eventloop.ManualClock
	loop    *eventloop.Loop
	fake    *enginetest.Fake
	host    *recordingHost
	obs     *recordingObserver
	adapter *Adapter
}

func newFixture(profile engine.Profile, opts ...Option) *fixture {
	return newFixtureWith(profile, enginetest.New(), nil, opts...)
}

func newFixtureWith(profile engine.Profile, fake *enginetest.Fake, factory engine.Factory, opts ...Option) *fixture {
	f := &fixture{
		clock: eventloop.NewManualClock(time.Unix(0, 0)),
		fake:  fake,
		host:  &recordingHost{state: media.StateUninitialized},
		obs:   &recordingObserver{},
	}
	f.loop = eventloop.New(eventloop.WithClock(f.clock))
	if factory == nil {
		factory = fake.Factory()
	}
	f.adapter = New(profile, factory, f.host, f.loop, append([]Option{WithObserver(f.obs)}, opts...)...)
	return f
}

func (f *fixture) emit(name string, payload any) {
	f.fake.Emit(name, payload)
	f.loop.RunPending()
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.loop.RunPending()
}

// waitFor drains the loop until cond holds; load continuations arrive from another goroutine.
func (f *fixture) waitFor(cond func() bool) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return f.loop.RunUntil(ctx, cond)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func shouldBeInert(a *Adapter) {
	So(func() {
		a.Play()
		a.Pause()
		a.Stop()
		a.SetPosition(10)
		a.SetVolume(50)
		a.SetMuted(true)
		a.SetSpeed(2)
	}, ShouldNotPanic)

	So(a.Duration(), ShouldEqual, 0)
	So(a.Position(), ShouldEqual, 0)
	So(a.Volume(), ShouldEqual, 100)
	So(a.Muted(), ShouldBeFalse)
	So(a.Speed(), ShouldEqual, 1)

	snapshot := a.UpdateData()
	So(snapshot.Position, ShouldEqual, 0)
	So(snapshot.Duration, ShouldEqual, 0)
	So(snapshot.Speed, ShouldEqual, 1)
	So(snapshot.State.IsAbsent(), ShouldBeTrue)
}

func TestInertAdapter(t *testing.T) {
	Convey("Given an adapter that was never initialized", t, func() {
		f := newFixture(engine.HTML5)

		Convey("Controls should be no-ops returning the defaults", func() {
			shouldBeInert(f.adapter)
			So(f.adapter.State(), ShouldEqual, media.StateUninitialized)
			So(f.fake.Calls(), ShouldBeEmpty)
			So(f.host.errs, ShouldBeEmpty)
		})

		Convey("Ready should warn once and load nothing", func() {
			f.adapter.Ready("https://cdn.example.com/a.mp4")
			So(len(f.host.warns), ShouldEqual, 1)
			So(f.fake.Count("load"), ShouldEqual, 0)
		})

		Convey("Dispose should be safe and retire the instance", func() {
			So(func() { f.adapter.Dispose(); f.adapter.Dispose() }, ShouldNotPanic)
			f.adapter.Init()
			So(len(f.host.errs), ShouldEqual, 1)
			So(f.host.errs[0], ShouldContainSubstring, "disposed")
			So(f.fake.Calls(), ShouldBeEmpty)
		})
	})

	Convey("Given a disposed adapter", t, func() {
		f := newFixture(engine.HTML5)
		f.adapter.Init()
		f.adapter.Ready("clip.mp4")
		f.emit("canplay", nil)
		f.adapter.Dispose()

		Convey("It should have released the engine", func() {
			So(f.fake.Destroyed(), ShouldBeTrue)
			So(f.fake.Listeners(), ShouldEqual, 0)
			So(f.adapter.State(), ShouldEqual, media.StateUninitialized)
		})

		Convey("Controls should be no-ops returning the defaults", func() {
			before := len(f.fake.Calls())
			shouldBeInert(f.adapter)
			So(len(f.fake.Calls()), ShouldEqual, before)
		})

		Convey("A second Dispose should change nothing", func() {
			transitions := len(f.obs.transitions)
			f.adapter.Dispose()
			So(f.fake.Count("destroy"), ShouldEqual, 1)
			So(len(f.obs.transitions), ShouldEqual, transitions)
		})
	})
}

func TestLifecycle(t *testing.T) {
	Convey("Given an initialized Html5 adapter", t, func() {
		f := newFixture(engine.HTML5, WithMount("video-1"))
		f.adapter.Init()

		Convey("Init should attach the engine and subscribe to its events", func() {
			So(f.fake.Calls(), ShouldResemble, []string{"factory", "supported", "attach"})
			So(f.fake.Mount(), ShouldEqual, "video-1")
			So(f.fake.Listeners(), ShouldEqual, len(engine.HTML5.Events.Names()))
			So(f.adapter.State(), ShouldEqual, media.StateLoading)
			So(f.adapter.Watchdog().Armed, ShouldBeFalse)
		})

		Convey("A second Init should be ignored", func() {
			f.adapter.Init()
			So(f.fake.Count("factory"), ShouldEqual, 1)
		})

		Convey("Ready with an empty source should warn once and load nothing", func() {
			f.adapter.Ready("")
			So(len(f.host.warns), ShouldEqual, 1)
			So(f.host.warns[0], ShouldContainSubstring, "no source")
			So(f.host.errs, ShouldBeEmpty)
			So(f.fake.Count("load"), ShouldEqual, 0)
			So(f.adapter.Watchdog().Armed, ShouldBeFalse)

			f.adapter.Ready("   ")
			So(len(f.host.warns), ShouldEqual, 2)
			So(f.fake.Count("load"), ShouldEqual, 0)
		})

		Convey("Ready should assign the source and arm the watchdog", func() {
			f.adapter.Ready(" https://cdn.example.com/a.mp4 ")
			So(f.fake.Sources(), ShouldResemble, []string{"https://cdn.example.com/a.mp4"})
			So(f.adapter.Watchdog().Armed, ShouldBeTrue)
			So(f.adapter.Watchdog().Deadline.Equal(time.Unix(30, 0)), ShouldBeTrue)
			So(f.host.calls, ShouldResemble, []string{"startLoading"})

			Convey("The first native ready should run the readiness side effects in order", func() {
				f.emit("canplay", nil)
				So(f.adapter.State(), ShouldEqual, media.StateReady)
				So(f.adapter.Watchdog().Armed, ShouldBeFalse)
				So(f.host.calls, ShouldResemble, []string{"startLoading", "stopLoading", "applyVolume", "startPlayback"})
				So(f.host.accelerated, ShouldResemble, []bool{false})

				Convey("Volume should report the engine default on the host scale", func() {
					So(f.adapter.Volume(), ShouldEqual, 100)
				})

				Convey("Volume should round-trip", func() {
					f.adapter.SetVolume(37)
					So(f.adapter.Volume(), ShouldAlmostEqual, 37, 0.000001)
					So(f.fake.Volume(), ShouldAlmostEqual, 0.37, 0.000001)
				})

				Convey("Volume should be clamped to the host scale", func() {
					f.adapter.SetVolume(250)
					So(f.adapter.Volume(), ShouldEqual, 100)
					f.adapter.SetVolume(-3)
					So(f.adapter.Volume(), ShouldEqual, 0)
				})

				Convey("Repeated native ready events should be no-ops", func() {
					f.emit("canplay", nil)
					f.emit("canplay", nil)
					So(f.host.count("applyVolume"), ShouldEqual, 1)
					So(f.host.count("startPlayback"), ShouldEqual, 1)
					So(lo.Count(f.obs.states(), media.StateReady), ShouldEqual, 1)
				})

				Convey("Playing and pause events should move between PLAYING and PAUSED", func() {
					f.emit("playing", nil)
					So(f.adapter.State(), ShouldEqual, media.StatePlaying)
					f.emit("pause", nil)
					So(f.adapter.State(), ShouldEqual, media.StatePaused)
					f.emit("playing", nil)
					So(f.adapter.State(), ShouldEqual, media.StatePlaying)
				})

				Convey("Repeated native ended events should end playback once", func() {
					f.emit("playing", nil)
					f.emit("ended", nil)
					f.emit("ended", nil)
					f.emit("ended", nil)
					So(f.adapter.State(), ShouldEqual, media.StateEnded)
					So(f.host.count("stopPlayback"), ShouldEqual, 1)
					So(lo.Count(f.obs.states(), media.StateEnded), ShouldEqual, 1)

					Convey("ENDED should be terminal", func() {
						f.emit("playing", nil)
						f.emit("pause", nil)
						f.emit("error", &media.NativeError{Category: 0, Code: 2})
						So(f.adapter.State(), ShouldEqual, media.StateEnded)
						So(f.host.errs, ShouldBeEmpty)

						f.adapter.Ready("next.mp4")
						So(f.fake.Count("load"), ShouldEqual, 1)
					})
				})

				Convey("A native error should translate and end in ERROR", func() {
					f.emit("error", &media.NativeError{Category: 0, Code: 4})
					So(f.adapter.State(), ShouldEqual, media.StateError)
					So(f.host.errs, ShouldResemble, []string{"Html5 error: MEDIA_ELEMENT: 4: MEDIA_ERR_SRC_NOT_SUPPORTED"})
					So(f.obs.faults[0].Kind, ShouldEqual, media.KindRuntime)

					f.emit("error", &media.NativeError{Category: 0, Code: 2})
					So(len(f.host.errs), ShouldEqual, 1)
				})

				Convey("A malformed error payload should degrade to unknown names", func() {
					f.emit("error", "garbage")
					So(f.host.errs, ShouldResemble, []string{"Html5 error: Unknown Category: -1: Unknown Error"})
				})

				Convey("The full path should be observed", func() {
					f.emit("playing", nil)
					f.emit("ended", nil)
					f.adapter.Dispose()
					So(f.obs.states(), ShouldResemble, []media.State{
						media.StateLoading, media.StateReady, media.StatePlaying, media.StateEnded, media.StateUninitialized,
					})
				})
			})

			Convey("Without a ready signal exactly one timeout should be reported", func() {
				f.advance(29 * time.Second)
				So(f.host.errs, ShouldBeEmpty)

				f.advance(time.Second)
				So(len(f.host.errs), ShouldEqual, 1)
				So(f.host.errs[0], ShouldStartWith, "Html5 error: Timeout")
				So(f.adapter.State(), ShouldEqual, media.StateError)
				So(f.host.count("applyVolume"), ShouldEqual, 0)
				So(f.host.count("startPlayback"), ShouldEqual, 0)
				So(f.host.count("stopLoading"), ShouldEqual, 1)

				Convey("A late ready should have no effect", func() {
					f.emit("canplay", nil)
					f.advance(time.Minute)
					So(len(f.host.errs), ShouldEqual, 1)
					So(f.host.count("applyVolume"), ShouldEqual, 0)
					So(f.adapter.State(), ShouldEqual, media.StateError)
				})
			})

			Convey("A ready enqueued before the timeout should win", func() {
				f.fake.Emit("canplay", nil)
				f.clock.Advance(30 * time.Second)
				f.loop.RunPending()
				So(f.adapter.State(), ShouldEqual, media.StateReady)
				So(f.host.errs, ShouldBeEmpty)
			})

			Convey("A timeout enqueued before the ready should win", func() {
				f.clock.Advance(30 * time.Second)
				f.fake.Emit("canplay", nil)
				f.loop.RunPending()
				So(f.adapter.State(), ShouldEqual, media.StateError)
				So(len(f.host.errs), ShouldEqual, 1)
				So(f.host.count("startPlayback"), ShouldEqual, 0)
			})

			Convey("A native error before ready should fail the load only", func() {
				f.emit("error", &media.NativeError{Category: 0, Code: 2})
				So(f.host.errs, ShouldResemble, []string{"Html5 error: MEDIA_ELEMENT: 2: MEDIA_ERR_NETWORK"})
				So(f.obs.faults[0].Kind, ShouldEqual, media.KindLoad)
				So(f.adapter.State(), ShouldEqual, media.StateLoading)
				So(f.adapter.Watchdog().Armed, ShouldBeTrue)

				Convey("A fresh Ready should retry without re-arming", func() {
					f.adapter.Ready("https://mirror.example.com/a.mp4")
					So(f.fake.Count("load"), ShouldEqual, 2)
					So(f.host.count("startLoading"), ShouldEqual, 1)
				})
			})

			Convey("Ended before ready should still end and stop the watchdog", func() {
				f.emit("ended", nil)
				So(f.adapter.State(), ShouldEqual, media.StateEnded)
				So(len(f.host.warns), ShouldEqual, 1)
				f.advance(time.Minute)
				So(f.host.errs, ShouldBeEmpty)
			})

			Convey("Events queued before Dispose should have no effect after it", func() {
				f.fake.Emit("canplay", nil)
				f.adapter.Dispose()
				f.loop.RunPending()
				So(f.host.count("applyVolume"), ShouldEqual, 0)
				f.advance(time.Minute)
				So(f.host.errs, ShouldBeEmpty)
			})
		})

		Convey("A failing assignment should be reported as a load error", func() {
			f.fake.FailLoad(&media.NativeError{Category: 0, Code: 4, Message: "bad container"})
			f.adapter.Ready("clip.avi")
			So(f.host.errs, ShouldResemble, []string{"Html5 error: MEDIA_ELEMENT: 4: MEDIA_ERR_SRC_NOT_SUPPORTED"})
			So(f.host.debugged("bad container"), ShouldBeTrue)
			So(f.adapter.State(), ShouldEqual, media.StateLoading)
		})
	})
}

func TestPromiseLoad(t *testing.T) {
	Convey("Given an initialized Shaka adapter", t, func() {
		f := newFixture(engine.Shaka)
		f.adapter.Init()

		Convey("Ready should load asynchronously and report completion", func() {
			f.adapter.Ready("https://cdn.example.com/manifest.mpd")
			So(f.waitFor(func() bool { return f.host.debugged("loaded") }), ShouldBeTrue)
			So(f.fake.Sources(), ShouldResemble, []string{"https://cdn.example.com/manifest.mpd"})
			So(f.host.errs, ShouldBeEmpty)

			Convey("Readiness should request an accelerated start", func() {
				f.emit("canplay", nil)
				So(f.host.accelerated, ShouldResemble, []bool{true})
			})
		})

		Convey("A rejected load should be translated and allow a retry", func() {
			f.fake.FailLoad(&media.NativeError{Category: 1, Code: 1001, Message: "HTTP 404"})
			f.adapter.Ready("https://cdn.example.com/missing.mpd")
			So(f.waitFor(func() bool { return len(f.host.errs) > 0 }), ShouldBeTrue)
			So(f.host.errs, ShouldResemble, []string{"Shaka error: NETWORK: 1001: BAD_HTTP_STATUS"})
			So(f.adapter.State(), ShouldEqual, media.StateLoading)

			f.fake.FailLoad(nil)
			f.adapter.Ready("https://cdn.example.com/manifest.mpd")
			So(f.waitFor(func() bool { return f.host.debugged("loaded") }), ShouldBeTrue)
			So(f.fake.Count("load"), ShouldEqual, 2)
			So(len(f.host.errs), ShouldEqual, 1)
		})

		Convey("Dispose should cancel a pending load without any hook firing", func() {
			f.fake.HoldLoads()
			f.adapter.Ready("https://cdn.example.com/slow.mpd")
			So(eventually(func() bool { return f.fake.Count("load") == 1 }), ShouldBeTrue)

			f.adapter.Dispose()
			time.Sleep(20 * time.Millisecond)
			f.loop.RunPending()

			So(f.host.errs, ShouldBeEmpty)
			So(f.host.debugged("loaded"), ShouldBeFalse)
			So(f.host.debugged("cancelled"), ShouldBeFalse)
		})
	})

	Convey("Accelerated start should follow the override", t, func() {
		f := newFixture(engine.Shaka, WithAcceleratedStart(false))
		f.adapter.Init()
		f.adapter.Ready("https://cdn.example.com/manifest.mpd")
		f.emit("canplay", nil)
		So(f.host.accelerated, ShouldResemble, []bool{false})
	})

	Convey("Quality changes should resize the host", t, func() {
		f := newFixture(engine.Shaka)
		f.adapter.Init()
		f.emit("mediaqualitychanged", media.Size{Width: 1280, Height: 720})
		f.emit("mediaqualitychanged", &media.Size{Width: 1920, Height: 1080})
		f.emit("mediaqualitychanged", "not a size")
		So(f.host.sizes, ShouldResemble, []media.Size{{Width: 1280, Height: 720}, {Width: 1920, Height: 1080}})
	})
}

func TestUnsupported(t *testing.T) {
	Convey("Given an engine that is not supported on this platform", t, func() {
		f := newFixtureWith(engine.Shaka, enginetest.New().Unsupported(), nil)
		f.adapter.Init()

		Convey("Init should record the fault silently", func() {
			So(f.host.errs, ShouldBeEmpty)
			So(f.fake.Destroyed(), ShouldBeTrue)
			So(f.adapter.Fault().IsPresent(), ShouldBeTrue)
			So(f.adapter.State(), ShouldEqual, media.StateUninitialized)
		})

		Convey("Ready should report exactly one error and load nothing", func() {
			f.adapter.Ready("https://cdn.example.com/manifest.mpd")
			So(len(f.host.errs), ShouldEqual, 1)
			So(f.host.errs[0], ShouldContainSubstring, "platform is not supported")
			So(f.fake.Count("load"), ShouldEqual, 0)
		})

		Convey("Commands should re-report the fault, getters stay silent", func() {
			f.adapter.Play()
			So(len(f.host.errs), ShouldEqual, 1)
			So(f.adapter.Volume(), ShouldEqual, 100)
			So(f.adapter.Speed(), ShouldEqual, 1)
			So(len(f.host.errs), ShouldEqual, 1)
			So(f.fake.Count("play"), ShouldEqual, 0)
		})

		Convey("Dispose should silence the instance", func() {
			f.adapter.Dispose()
			f.adapter.Ready("x")
			f.adapter.Play()
			So(f.host.errs, ShouldBeEmpty)
		})
	})

	Convey("A failing attach should disable the instance", t, func() {
		f := newFixtureWith(engine.HTML5, enginetest.New().FailAttach(errors.New("no element")), nil)
		f.adapter.Init()
		So(f.fake.Listeners(), ShouldEqual, 0)
		f.adapter.Ready("clip.mp4")
		So(len(f.host.errs), ShouldEqual, 1)
		So(f.host.errs[0], ShouldContainSubstring, "no element")
	})

	Convey("A failing factory should disable the instance", t, func() {
		fake := enginetest.New()
		factory := func() (engine.Engine, error) { return nil, errors.New("no runtime") }
		f := newFixtureWith(engine.HTML5, fake, factory)
		f.adapter.Init()
		f.adapter.Ready("clip.mp4")
		So(len(f.host.errs), ShouldEqual, 1)
		So(f.host.errs[0], ShouldContainSubstring, "platform is not supported")
	})
}

func TestTwitch(t *testing.T) {
	Convey("Given an initialized Twitch adapter", t, func() {
		f := newFixture(engine.Twitch)
		f.adapter.Init()

		Convey("Init should announce the seek delay and arm the watchdog", func() {
			So(f.host.seekDelay, ShouldEqual, 10000)
			So(f.adapter.Watchdog().Armed, ShouldBeTrue)
			So(f.host.count("startLoading"), ShouldEqual, 1)

			f.adapter.Ready("channel")
			So(f.host.count("startLoading"), ShouldEqual, 1)
		})

		Convey("An engine that never becomes ready should time out", func() {
			f.advance(30 * time.Second)
			So(len(f.host.errs), ShouldEqual, 1)
			So(f.host.errs[0], ShouldStartWith, "Twitch error: Timeout")
		})

		Convey("Going offline should not end playback", func() {
			f.emit("ready", nil)
			f.emit("offline", nil)
			So(f.adapter.State(), ShouldEqual, media.StateReady)
		})

		Convey("Stall on start detection", func() {
			f.emit("ready", nil)
			f.host.state = media.StatePlaying

			Convey("Should report PAUSED once while waiting for the user", func() {
				So(f.adapter.UpdateData().State, ShouldResemble, mo.Some(media.StatePaused))
				So(f.adapter.UpdateData().State.IsAbsent(), ShouldBeTrue)
			})

			Convey("Should stay quiet after a duplicate ready", func() {
				So(f.adapter.UpdateData().State.IsPresent(), ShouldBeTrue)
				f.emit("ready", nil)
				So(f.adapter.UpdateData().State.IsAbsent(), ShouldBeTrue)
			})

			Convey("Should not fire once playback started", func() {
				f.emit("playing", nil)
				f.emit("pause", nil)
				So(f.adapter.UpdateData().State.IsAbsent(), ShouldBeTrue)
			})

			Convey("Should not fire when the host is not playing or has progressed", func() {
				f.host.state = media.StatePaused
				So(f.adapter.UpdateData().State.IsAbsent(), ShouldBeTrue)

				f.host.state = media.StatePlaying
				f.host.position = 3
				So(f.adapter.UpdateData().State.IsAbsent(), ShouldBeTrue)
			})

			Convey("Should not fire when the engine is not paused", func() {
				f.fake.SetPlaying(true)
				So(f.adapter.UpdateData().State.IsAbsent(), ShouldBeTrue)
			})
		})
	})

	Convey("The offline variant should end playback on offline", t, func() {
		f := newFixture(engine.TwitchOffline)
		f.adapter.Init()
		f.emit("ready", nil)
		f.emit("offline", nil)
		So(f.adapter.State(), ShouldEqual, media.StateEnded)
		So(f.host.count("stopPlayback"), ShouldEqual, 1)
	})

	Convey("Profiles without stall detection should never infer it", t, func() {
		f := newFixture(engine.HTML5)
		f.adapter.Init()
		f.adapter.Ready("clip.mp4")
		f.emit("canplay", nil)
		f.host.state = media.StatePlaying
		So(f.adapter.UpdateData().State.IsAbsent(), ShouldBeTrue)
	})
}

func TestControls(t *testing.T) {
	Convey("Given a ready adapter", t, func() {
		stoppable := enginetest.NewStoppable()

		ready := func(profile engine.Profile, fake *enginetest.Fake, factory engine.Factory) *fixture {
			f := newFixtureWith(profile, fake, factory)
			f.adapter.Init()
			f.adapter.Ready("clip.mp4")
			f.emit(profile.Events.Ready, nil)
			return f
		}

		Convey("Stop should use the stop primitive only when the profile has one", func() {
			f := ready(engine.Mpv, stoppable.Fake, stoppable.Factory())
			f.adapter.Stop()
			So(stoppable.Count("stop"), ShouldEqual, 1)
			So(stoppable.Count("pause"), ShouldEqual, 0)

			g := ready(engine.HTML5, enginetest.New(), nil)
			g.adapter.Stop()
			So(g.fake.Count("pause"), ShouldEqual, 1)
		})

		Convey("Stop should fall back to pause for engines without the primitive", func() {
			f := ready(engine.Mpv, enginetest.New(), nil)
			f.adapter.Stop()
			So(f.fake.Count("pause"), ShouldEqual, 1)
		})

		Convey("Commands should pass through", func() {
			f := ready(engine.HTML5, enginetest.New(), nil)
			f.adapter.Play()
			f.adapter.SetPosition(42)
			f.adapter.SetMuted(true)
			f.adapter.SetSpeed(1.5)
			So(f.fake.Paused(), ShouldBeFalse)
			So(f.adapter.Position(), ShouldEqual, 42)
			So(f.adapter.Muted(), ShouldBeTrue)
			So(f.adapter.Speed(), ShouldEqual, 1.5)
		})

		Convey("Invalid arguments should be sanitized or refused", func() {
			f := ready(engine.HTML5, enginetest.New(), nil)
			f.adapter.SetPosition(-5)
			So(f.adapter.Position(), ShouldEqual, 0)

			f.adapter.SetSpeed(0)
			f.adapter.SetSpeed(math.NaN())
			So(f.fake.Count("speed"), ShouldEqual, 0)
			So(len(f.host.warns), ShouldEqual, 2)

			f.adapter.SetVolume(math.NaN())
			So(f.fake.Count("volume"), ShouldEqual, 0)
		})

		Convey("Engine values should be sanitized", func() {
			f := ready(engine.HTML5, enginetest.New(), nil)

			f.fake.SetDuration(math.Inf(1))
			So(f.adapter.Duration(), ShouldEqual, 0)
			f.fake.SetDuration(math.NaN())
			So(f.adapter.Duration(), ShouldEqual, 0)
			f.fake.SetDuration(90)
			So(f.adapter.UpdateData().Duration, ShouldEqual, 90)

			f.fake.SetPositionValue(-1)
			So(f.adapter.Position(), ShouldEqual, 0)

			f.fake.SetSpeedValue(0)
			So(f.adapter.Speed(), ShouldEqual, 1)

			f.fake.SetVolumeValue(math.NaN())
			So(f.adapter.Volume(), ShouldEqual, 100)
		})

		Convey("Engine failures should be reported as warnings", func() {
			fake := enginetest.New()
			f := ready(engine.HTML5, fake, nil)
			fake.FailCommands(errors.New("boom"))
			f.adapter.Play()
			So(f.host.warns, ShouldResemble, []string{"Html5 warning: play: boom"})
			So(f.host.errs, ShouldBeEmpty)
		})
	})
}

func TestConfiguration(t *testing.T) {
	Convey("Static configuration", t, func() {
		Convey("Should be passed through unchanged", func() {
			cfg := media.Config{
				ClearKeys:     map[string]string{"kid-1": "key-1"},
				AudioLanguage: "en-US",
				Width:         1920,
				Height:        1080,
			}
			f := newFixture(engine.Shaka, WithConfig(cfg))
			f.adapter.Init()
			So(f.fake.Config(), ShouldResemble, cfg)
			So(f.host.warns, ShouldBeEmpty)
		})

		Convey("Should be skipped with a warning when invalid", func() {
			f := newFixture(engine.Shaka, WithConfig(media.Config{AudioLanguage: "not a tag!!"}))
			f.adapter.Init()
			So(f.fake.Count("configure"), ShouldEqual, 0)
			So(len(f.host.warns), ShouldEqual, 1)
			So(f.adapter.State(), ShouldEqual, media.StateLoading)
		})

		Convey("Should warn when the engine refuses it", func() {
			fake := enginetest.New().FailConfigure(errors.New("too many keys"))
			f := newFixtureWith(engine.Shaka, fake, nil, WithConfig(media.Config{AudioLanguage: "fr"}))
			f.adapter.Init()
			So(len(f.host.warns), ShouldEqual, 1)
			So(f.host.warns[0], ShouldContainSubstring, "too many keys")
		})

		Convey("Should not reach the engine when empty", func() {
			f := newFixture(engine.Shaka)
			f.adapter.Init()
			So(f.fake.Count("configure"), ShouldEqual, 0)
		})

		Convey("The ready timeout option should set the watchdog window", func() {
			f := newFixture(engine.HTML5, WithReadyTimeout(5*time.Second))
			f.adapter.Init()
			f.adapter.Ready("clip.mp4")
			f.advance(4900 * time.Millisecond)
			So(f.host.errs, ShouldBeEmpty)
			f.advance(200 * time.Millisecond)
			So(len(f.host.errs), ShouldEqual, 1)
		})
	})
}
