package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/engine"
	"github.com/tvxlabs/mediabridge/log"
	"github.com/tvxlabs/mediabridge/media"
)

// Native event names emitted to subscribers. They match engine.Mpv.
const (
	eventFileLoaded    = "file-loaded"
	eventPause         = "pause"
	eventUnpause       = "unpause"
	eventEOF           = "eof"
	eventError         = "error"
	eventVideoReconfig = "video-reconfig"
)

// observed lists the properties mirrored into the local cache. Getters read the cache so
// they never block on the socket.
var observed = []string{"pause", "duration", "time-pos", "volume", "mute", "speed", "width", "height"}

// fileErrors maps mpv_error_string texts found in end-file events to libmpv codes.
var fileErrors = map[string]int{
	"invalid parameter":                  -4,
	"property unavailable":               -10,
	"error running command":              -12,
	"loading failed":                     -13,
	"audio output initialization failed": -14,
	"video output initialization failed": -15,
	"no audio or video data played":      -16,
	"unrecognized file format":           -17,
	"not supported":                      -18,
	"operation not implemented":          -19,
	"something happened":                 -20,
}

// categoryEndFile is the engine.MpvErrors category of playback errors.
const categoryEndFile = 1

// listener keeps a persistent connection open and feeds every line to a handler.
// Observations are per client, so they are registered on the same connection.
type listener struct {
	socketPath string
	handler    func(line []byte)

	mu        sync.Mutex
	conn      net.Conn
	listening bool
}

func newListener(socketPath string, handler func(line []byte)) *listener {
	return &listener{socketPath: socketPath, handler: handler}
}

// Start observes the mirrored properties and starts the read loop.
func (l *listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.listening {
		return nil
	}

	conn, err := net.Dial("unix", l.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []interface{}{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	l.conn = conn
	l.listening = true

	go l.readLoop(conn)

	log.Infof("mpv event listener started on %s", l.socketPath)
	return nil
}

// Stop closes the connection, which ends the read loop.
func (l *listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.listening {
		return
	}

	l.conn.Close()
	l.listening = false
}

func (l *listener) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, readBufSize), 1<<20)

	for scanner.Scan() {
		l.handler(scanner.Bytes())
	}

	l.mu.Lock()
	wasListening := l.listening
	l.listening = false
	l.mu.Unlock()

	if wasListening {
		log.Warnf("event listener stopped: %v", scanner.Err())
	}
}

// rawEvent is the union of the mpv event objects handled here.
type rawEvent struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

// handle parses one line from the event connection and dispatches it.
func (e *Engine) handle(line []byte) {
	var ev rawEvent
	if err := json.Unmarshal(line, &ev); err != nil || ev.Event == "" {
		// command replies and garbage
		return
	}

	switch ev.Event {
	case "property-change":
		e.propertyChanged(ev.Name, ev.Data)
	case "file-loaded":
		e.resolveLoad(nil)
		e.subs.emit(engine.Event{Name: eventFileLoaded})
	case "end-file":
		e.endFile(ev)
	case "video-reconfig":
		if size := e.props.size(); size.Width > 0 && size.Height > 0 {
			e.subs.emit(engine.Event{Name: eventVideoReconfig, Payload: size})
		}
	}
}

func (e *Engine) propertyChanged(name string, data json.RawMessage) {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	switch name {
	case "pause":
		var paused bool
		if json.Unmarshal(data, &paused) != nil {
			return
		}
		if !e.props.setPaused(paused) {
			return
		}
		if paused {
			e.subs.emit(engine.Event{Name: eventPause})
		} else {
			e.subs.emit(engine.Event{Name: eventUnpause})
		}
	case "mute":
		var muted bool
		if json.Unmarshal(data, &muted) == nil {
			e.props.update(func(p *properties) { p.muted = muted })
		}
	default:
		// nil data means the property is unavailable (nothing loaded)
		var value *float64
		if json.Unmarshal(data, &value) != nil {
			return
		}
		e.props.setNumber(name, value)
	}
}

func (e *Engine) endFile(ev rawEvent) {
	switch ev.Reason {
	case "eof":
		e.subs.emit(engine.Event{Name: eventEOF})
	case "error":
		native := &media.NativeError{
			Category: categoryEndFile,
			Code:     fileErrorCode(ev.FileError),
			Message:  ev.FileError,
		}
		if !e.resolveLoad(native) {
			e.subs.emit(engine.Event{Name: eventError, Payload: native})
		}
	}
}

func fileErrorCode(text string) int {
	if code, ok := fileErrors[text]; ok {
		return code
	}
	return media.UnknownCode
}

// properties mirrors the observed mpv properties.
type properties struct {
	mu sync.RWMutex

	paused   bool
	duration float64
	position float64
	volume   float64
	muted    bool
	speed    float64
	width    int
	height   int
}

func newProperties() *properties {
	return &properties{paused: true, volume: 100, speed: 1}
}

func (p *properties) update(fn func(p *properties)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
}

func (p *properties) read(fn func(p *properties)) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	fn(p)
}

// setPaused reports whether the value changed.
func (p *properties) setPaused(paused bool) (changed bool) {
	p.update(func(p *properties) {
		changed = p.paused != paused
		p.paused = paused
	})
	return
}

func (p *properties) setNumber(name string, value *float64) {
	var v float64
	if value != nil {
		v = *value
	}

	p.update(func(p *properties) {
		switch name {
		case "duration":
			p.duration = v
		case "time-pos":
			p.position = v
		case "volume":
			if value != nil {
				p.volume = v
			}
		case "speed":
			if value != nil {
				p.speed = v
			}
		case "width":
			p.width = int(v)
		case "height":
			p.height = int(v)
		}
	})
}

func (p *properties) size() (s media.Size) {
	p.read(func(p *properties) {
		s = media.Size{Width: p.width, Height: p.height}
	})
	return
}

// subscribers holds native event listeners by event name.
type subscribers struct {
	mu     sync.Mutex
	nextID int
	byName map[string]map[int]engine.Listener
}

func newSubscribers() *subscribers {
	return &subscribers{byName: make(map[string]map[int]engine.Listener)}
}

func (s *subscribers) add(name string, fn engine.Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	if s.byName[name] == nil {
		s.byName[name] = make(map[int]engine.Listener)
	}
	s.byName[name][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.byName[name], id)
	}
}

// emit calls the listeners of ev in subscription order, outside the lock.
func (s *subscribers) emit(ev engine.Event) {
	s.mu.Lock()
	byID := s.byName[ev.Name]
	ids := lo.Keys(byID)
	sort.Ints(ids)
	listeners := lo.Map(ids, func(id int, _ int) engine.Listener { return byID[id] })
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

func (s *subscribers) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName = make(map[string]map[int]engine.Listener)
}
