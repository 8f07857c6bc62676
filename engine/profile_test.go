package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuiltins(t *testing.T) {
	Convey("Given the built-in profiles", t, func() {
		profiles := Builtins()

		Convey("They should be sorted and valid", func() {
			names := lo.Map(profiles, func(p Profile, _ int) string { return p.Name })
			So(names, ShouldResemble, []string{"html5", "mpv", "shaka", "twitch", "twitch-offline"})

			for _, p := range profiles {
				So(p.Validate(), ShouldBeNil)
				So(p.Errors, ShouldNotBeNil)
			}
		})

		Convey("Lookup should ignore case", func() {
			p, ok := Builtin("SHAKA")
			So(ok, ShouldBeTrue)
			So(p.Label, ShouldEqual, "Shaka")

			_, ok = Builtin("vlc")
			So(ok, ShouldBeFalse)
		})

		Convey("Twitch should treat offline as ended only in its offline variant", func() {
			So(Twitch.Events.Ended, ShouldResemble, []string{"ended"})
			So(TwitchOffline.Events.Ended, ShouldResemble, []string{"ended", "offline"})
			So(TwitchOffline.ArmOnInit, ShouldBeTrue)
			So(TwitchOffline.SeekDelay, ShouldEqual, 10*time.Second)
		})

		Convey("Only mpv should have a stop primitive", func() {
			stoppers := lo.Filter(profiles, func(p Profile, _ int) bool { return p.CanStop })
			So(len(stoppers), ShouldEqual, 1)
			So(stoppers[0].Name, ShouldEqual, "mpv")
		})

		Convey("Error tables should resolve their own codes", func() {
			So(ShakaErrors.Translate(map[string]any{"category": 1, "code": 1001}).String(),
				ShouldEqual, "NETWORK: 1001: BAD_HTTP_STATUS")
			So(HTML5Errors.Translate(map[string]any{"category": 0, "code": 4}).Name,
				ShouldEqual, "MEDIA_ERR_SRC_NOT_SUPPORTED")
			So(MpvErrors.Translate(map[string]any{"category": 1, "code": -13}).Name,
				ShouldEqual, "LOADING_FAILED")
		})
	})
}

func TestEvents(t *testing.T) {
	Convey("Names should skip empty and repeated events", t, func() {
		e := Events{Ready: "canplay", Playing: "playing", Ended: []string{"ended", "playing", ""}}
		So(e.Names(), ShouldResemble, []string{"canplay", "playing", "ended"})
	})

	Convey("Profiles without a ready or ended event should be invalid", t, func() {
		So(Profile{Name: "x", Events: Events{Ended: []string{"ended"}}}.Validate(), ShouldNotBeNil)
		So(Profile{Name: "x", Events: Events{Ready: "ready"}}.Validate(), ShouldNotBeNil)
		So(Profile{Events: Events{Ready: "ready", Ended: []string{"ended"}}}.Validate(), ShouldNotBeNil)
	})

	Convey("DisplayLabel should fall back to the name", t, func() {
		So(Profile{Name: "custom"}.DisplayLabel(), ShouldEqual, "custom")
		So(Shaka.DisplayLabel(), ShouldEqual, "Shaka")
	})
}

func TestLoadShape(t *testing.T) {
	Convey("LoadShape should round-trip through text", t, func() {
		var s LoadShape
		So(s.UnmarshalText([]byte("Assign")), ShouldBeNil)
		So(s, ShouldEqual, LoadAssign)

		text, err := s.MarshalText()
		So(err, ShouldBeNil)
		So(string(text), ShouldEqual, "assign")

		So(s.UnmarshalText([]byte("callback")), ShouldNotBeNil)
	})
}

func TestLoadProfiles(t *testing.T) {
	Convey("Given a profiles file", t, func() {
		Convey("Derived profiles should override only what they set", func() {
			profiles, err := LoadProfiles(strings.NewReader(`
profiles:
  - name: Mpv-Idle
    base: mpv
    label: mpv (idle)
    events:
      ended: [eof, idle]
    ready_timeout: 45s
    accelerated_start: true
`))
			So(err, ShouldBeNil)
			So(len(profiles), ShouldEqual, 1)

			p := profiles[0]
			So(p.Name, ShouldEqual, "mpv-idle")
			So(p.Base, ShouldEqual, "mpv")
			So(p.Engine(), ShouldEqual, "mpv")
			So(Mpv.Engine(), ShouldEqual, "mpv")
			So(p.Label, ShouldEqual, "mpv (idle)")
			So(p.Events.Ready, ShouldEqual, "file-loaded")
			So(p.Events.Ended, ShouldResemble, []string{"eof", "idle"})
			So(p.ReadyTimeout, ShouldEqual, 45*time.Second)
			So(p.AcceleratedStart, ShouldBeTrue)
			So(p.CanStop, ShouldBeTrue)
			So(p.Errors, ShouldEqual, MpvErrors)
		})

		Convey("Custom error tables should replace the base table", func() {
			profiles, err := LoadProfiles(strings.NewReader(`
profiles:
  - name: kiosk
    base: html5
    load: promise
    errors:
      categories: {KIOSK: 9}
      codes: {SCREEN_OFF: 90}
`))
			So(err, ShouldBeNil)
			p := profiles[0]
			So(p.Load, ShouldEqual, LoadPromise)
			So(p.Errors.Translate(map[string]any{"category": 9, "code": 90}).String(),
				ShouldEqual, "KIOSK: 90: SCREEN_OFF")
		})

		Convey("An empty file should yield no profiles", func() {
			profiles, err := LoadProfiles(strings.NewReader(""))
			So(err, ShouldBeNil)
			So(profiles, ShouldBeEmpty)
		})

		Convey("Invalid definitions should be rejected", func() {
			cases := []string{
				"profiles:\n  - base: mpv\n",
				"profiles:\n  - name: shaka\n    base: html5\n",
				"profiles:\n  - name: x\n    base: vlc\n",
				"profiles:\n  - name: x\n    base: mpv\n    ready_timeout: soon\n",
				"profiles:\n  - name: x\n    base: mpv\n    load: callback\n",
				"profiles:\n  - name: x\n    base: mpv\n  - name: x\n    base: html5\n",
				"profiles: [",
			}
			for _, c := range cases {
				_, err := LoadProfiles(strings.NewReader(c))
				So(err, ShouldNotBeNil)
			}
		})
	})
}
