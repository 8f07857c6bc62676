package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

var testTable = NewTable(
	map[string]int{"NETWORK": 1, "MEDIA": 3, "DRM": 6},
	map[string]int{"BAD_HTTP_STATUS": 1001, "TIMEOUT": 1003, "VIDEO_ERROR": 3016, "LICENSE_REQUEST_FAILED": 6007},
)

func TestTranslate(t *testing.T) {
	Convey("Translate", t, func() {
		Convey("Should resolve a known native error", func() {
			info := testTable.Translate(&NativeError{Category: 1, Code: 1001, Message: "404"})
			So(info.Category, ShouldEqual, "NETWORK")
			So(info.Code, ShouldEqual, 1001)
			So(info.Name, ShouldEqual, "BAD_HTTP_STATUS")
			So(info.Message.OrEmpty(), ShouldEqual, "404")
			So(info.Known(), ShouldBeTrue)
		})

		Convey("Should accept a value native error", func() {
			info := testTable.Translate(NativeError{Category: 6, Code: 6007})
			So(info.Category, ShouldEqual, "DRM")
			So(info.Name, ShouldEqual, "LICENSE_REQUEST_FAILED")
			So(info.Message.IsAbsent(), ShouldBeTrue)
		})

		Convey("Should degrade nil to the unknown info", func() {
			info := testTable.Translate(nil)
			So(info.Category, ShouldEqual, UnknownCategory)
			So(info.Code, ShouldEqual, UnknownCode)
			So(info.Name, ShouldEqual, UnknownError)
			So(info.Message.IsAbsent(), ShouldBeTrue)
		})

		Convey("Should keep the raw code when it is unknown", func() {
			info := testTable.Translate(&NativeError{Category: 42, Code: 9999})
			So(info.Category, ShouldEqual, UnknownCategory)
			So(info.Code, ShouldEqual, 9999)
			So(info.Name, ShouldEqual, UnknownError)
			So(info.Known(), ShouldBeFalse)
		})

		Convey("Should look up bare numeric codes", func() {
			So(testTable.Translate(1003).Name, ShouldEqual, "TIMEOUT")
			So(testTable.Translate(float64(3016)).Name, ShouldEqual, "VIDEO_ERROR")
			So(testTable.Translate(int64(1001)).Category, ShouldEqual, UnknownCategory)
		})

		Convey("Should unwrap event details", func() {
			info := testTable.Translate(map[string]any{
				"detail": map[string]any{"category": float64(3), "code": float64(3016), "message": "decode"},
			})
			So(info.Category, ShouldEqual, "MEDIA")
			So(info.Name, ShouldEqual, "VIDEO_ERROR")
			So(info.Message.OrEmpty(), ShouldEqual, "decode")
		})

		Convey("Should find native errors wrapped in errors", func() {
			err := fmt.Errorf("load: %w", &NativeError{Category: 1, Code: 1003})
			So(testTable.Translate(err).Name, ShouldEqual, "TIMEOUT")
		})

		Convey("Should keep the text of foreign errors", func() {
			info := testTable.Translate(errors.New("boom"))
			So(info.Code, ShouldEqual, UnknownCode)
			So(info.Message.OrEmpty(), ShouldEqual, "boom")
		})

		Convey("Should never fail on malformed input", func() {
			inputs := []any{
				"garbage", math.NaN(), 1.5, struct{}{}, []int{1}, map[string]any{"code": "x"},
				map[string]any{"detail": nil}, (*NativeError)(nil),
			}
			for _, in := range inputs {
				var info ErrorInfo
				So(func() { info = testTable.Translate(in) }, ShouldNotPanic)
				So(info.Category, ShouldNotBeEmpty)
				So(info.Name, ShouldNotBeEmpty)
			}
		})

		Convey("Should work on a nil table", func() {
			var table *Table
			info := table.Translate(&NativeError{Category: 1, Code: 1001})
			So(info.Category, ShouldEqual, UnknownCategory)
			So(info.Code, ShouldEqual, 1001)
		})

		Convey("Should resolve duplicated values deterministically", func() {
			table := NewTable(nil, map[string]int{"B_ALIAS": 7, "A_ALIAS": 7})
			So(table.Translate(7).Name, ShouldEqual, "A_ALIAS")
		})
	})
}

func TestTableListing(t *testing.T) {
	Convey("Table listing", t, func() {
		So(testTable.Categories(), ShouldResemble, []string{"NETWORK", "MEDIA", "DRM"})
		So(testTable.Codes()[0], ShouldEqual, "BAD_HTTP_STATUS")

		Convey("Search should rank fuzzy matches", func() {
			found := testTable.Search("http")
			So(found, ShouldNotBeEmpty)
			So(found[0], ShouldEqual, "BAD_HTTP_STATUS")
		})
	})
}

func TestState(t *testing.T) {
	Convey("State", t, func() {
		So(StatePlaying.String(), ShouldEqual, "PLAYING")
		So(State(99).String(), ShouldEqual, "UNKNOWN")
		So(StateEnded.Terminal(), ShouldBeTrue)
		So(StateError.Terminal(), ShouldBeTrue)
		So(StateReady.Terminal(), ShouldBeFalse)
		So(States(), ShouldHaveLength, len(stateNames))
		So(States()[0], ShouldEqual, StateUninitialized)

		Convey("Should round-trip through text", func() {
			var s State
			So(s.UnmarshalText([]byte("paused")), ShouldBeNil)
			So(s, ShouldEqual, StatePaused)
			So(s.UnmarshalText([]byte("nope")), ShouldNotBeNil)
		})
	})
}

func TestSnapshotJSON(t *testing.T) {
	Convey("Snapshot JSON", t, func() {
		Convey("Absent state should encode as null", func() {
			data, err := json.Marshal(Snapshot{Position: 1, Duration: 2, Speed: 1})
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `{"position":1,"duration":2,"speed":1,"state":null}`)
		})

		Convey("Present state should encode by name", func() {
			data, err := json.Marshal(Snapshot{Speed: 1, State: mo.Some(StatePaused)})
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"state":"PAUSED"`)
		})
	})
}

func TestConfigValidate(t *testing.T) {
	Convey("Config validation", t, func() {
		So(Config{}.Validate(), ShouldBeNil)
		So(Config{AudioLanguage: "es", Width: 1920, Height: 1080}.Validate(), ShouldBeNil)
		So(Config{ClearKeys: map[string]string{"kid": "key"}}.Validate(), ShouldBeNil)
		So(Config{Width: -1}.Validate(), ShouldNotBeNil)
		So(Config{ClearKeys: map[string]string{"kid": ""}}.Validate(), ShouldNotBeNil)
		So(Config{AudioLanguage: "not a tag!"}.Validate(), ShouldNotBeNil)

		Convey("KeyIDs should be sorted", func() {
			cfg := Config{ClearKeys: map[string]string{"b": "1", "a": "2"}}
			So(cfg.KeyIDs(), ShouldResemble, []string{"a", "b"})
		})
	})
}

func TestFault(t *testing.T) {
	Convey("Fault", t, func() {
		cause := errors.New("platform is not supported")
		f := &Fault{Kind: KindUnsupportedPlatform, Err: cause}
		So(f.Error(), ShouldEqual, "platform is not supported")
		So(errors.Is(f, cause), ShouldBeTrue)
		So(f.Warning(), ShouldBeFalse)
		So((&Fault{Kind: KindMissingSource}).Warning(), ShouldBeTrue)

		load := &Fault{Kind: KindLoad, Info: testTable.Translate(&NativeError{Category: 1, Code: 1001})}
		So(load.Error(), ShouldEqual, "NETWORK: 1001: BAD_HTTP_STATUS")
	})
}
