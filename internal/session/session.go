// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/mudlark/internal/model"
	"github.com/jeranaias/mudlark/internal/parser"
	"github.com/jeranaias/mudlark/internal/render"
	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// MainStream is the stream id reported for tags outside any pushStream.
const MainStream = ""

// =============================================================================
// SINK
// =============================================================================

// Sink receives rendered output. Calls come from the goroutine calling
// Feed, in stream order.
type Sink interface {
	// Deliver hands over one rendered message. streamID is MainStream for
	// the main window.
	Deliver(streamID string, msg render.Message)

	// Clear asks the sink to empty the window for streamID.
	Clear(streamID string)
}

// SinkFunc adapts a function to Sink. Clear requests are ignored.
type SinkFunc func(streamID string, msg render.Message)

// Deliver calls f.
func (f SinkFunc) Deliver(streamID string, msg render.Message) { f(streamID, msg) }

// Clear does nothing.
func (f SinkFunc) Clear(string) {}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds configuration for a session.
type Config struct {
	// Parser configures the connection's parser. Its OnControl is replaced.
	Parser parser.Config

	// Theme is the initial theme (default: styles.Default())
	Theme *styles.Theme

	// Timestamps controls the [HH:MM:SS] prefix on each message
	Timestamps render.TimestampSettings

	// WrapWidth wraps messages to this many columns (0: no wrapping)
	WrapWidth int

	// Logger receives pipeline events (default: log.Default())
	Logger *log.Logger
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Parser: parser.DefaultConfig(),
		Theme:  styles.Default(),
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the display pipeline of one connection.
type Session struct {
	// feedMu serializes Feed and Flush so control events line up with the
	// tags of the same call.
	feedMu   sync.Mutex
	controls []parser.ControlEvent

	id     string
	start  time.Time
	parser *parser.Parser
	theme  atomic.Pointer[styles.Theme]
	sink   Sink
	logger *log.Logger

	timestamps render.TimestampSettings
	wrapWidth  int

	mu           sync.Mutex
	lastActivity time.Time
	messages     int
	clears       int
	streams      map[string]int
}

// New creates a session delivering to sink.
func New(cfg Config, sink Sink) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if sink == nil {
		sink = SinkFunc(func(string, render.Message) {})
	}

	now := time.Now()
	s := &Session{
		id:           generateSessionID(now),
		start:        now,
		sink:         sink,
		logger:       logger.WithPrefix("session"),
		timestamps:   cfg.Timestamps,
		wrapWidth:    cfg.WrapWidth,
		lastActivity: now,
		streams:      make(map[string]int),
	}

	pcfg := cfg.Parser
	if pcfg.Logger == nil {
		pcfg.Logger = logger
	}
	pcfg.OnControl = func(ev parser.ControlEvent) {
		s.controls = append(s.controls, ev)
	}
	s.parser = parser.New(pcfg)

	th := cfg.Theme
	if th == nil {
		th = styles.Default()
	}
	s.theme.Store(th)
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Theme returns the theme new messages are rendered with.
func (s *Session) Theme() *styles.Theme {
	return s.theme.Load()
}

// SetTheme replaces the theme. A nil theme is ignored.
func (s *Session) SetTheme(th *styles.Theme) {
	if th == nil {
		return
	}
	old := s.theme.Swap(th)
	if old == nil || old.Name != th.Name {
		s.logger.Info("theme changed", "theme", th.Name)
	}
}

// ThemeReloaded is a styles.Registry subscriber: it swaps in th when th is
// a new version of the active theme.
func (s *Session) ThemeReloaded(th *styles.Theme) {
	if th == nil {
		return
	}
	if cur := s.theme.Load(); cur != nil && cur.Name == th.Name {
		s.theme.Store(th)
		s.logger.Debug("theme reloaded", "theme", th.Name)
	}
}

// =============================================================================
// FEEDING
// =============================================================================

// Feed parses chunk and delivers every message it completes. at is the
// arrival time shown in timestamps. It returns the number of messages
// delivered.
func (s *Session) Feed(chunk string, at time.Time) int {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	s.controls = s.controls[:0]
	tags := s.parser.Parse(chunk)
	return s.dispatch(tags, at)
}

// Flush ends the stream: trailing text and unclosed elements are delivered.
func (s *Session) Flush(at time.Time) int {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	s.controls = s.controls[:0]
	return s.dispatch(s.parser.Flush(), at)
}

// dispatch groups tags into runs sharing a stream, applying control events
// at their offsets. Caller holds feedMu.
func (s *Session) dispatch(tags []*model.GameTag, at time.Time) int {
	th := s.theme.Load()
	opts := render.Options{Timestamp: at, Timestamps: s.timestamps}

	delivered := 0
	ctl := 0
	start := 0
	for i := 0; i <= len(tags); i++ {
		boundary := i == len(tags) ||
			i > start && tags[i].StreamID != tags[start].StreamID ||
			ctl < len(s.controls) && s.controls[ctl].Offset == i
		if !boundary {
			continue
		}

		if i > start {
			if s.deliver(tags[start].StreamID, tags[start:i], th, opts) {
				delivered++
			}
			start = i
		}
		for ctl < len(s.controls) && s.controls[ctl].Offset == i {
			s.handleControl(s.controls[ctl])
			ctl++
		}
	}

	s.mu.Lock()
	s.lastActivity = at
	s.messages += delivered
	s.mu.Unlock()
	return delivered
}

func (s *Session) deliver(stream string, tags []*model.GameTag, th *styles.Theme, opts render.Options) bool {
	msg := render.RenderBatch(tags, th, opts)
	if s.wrapWidth > 0 {
		msg = render.Wrap(msg, s.wrapWidth)
	}
	if len(msg) == 0 {
		return false
	}

	s.mu.Lock()
	s.streams[stream]++
	s.mu.Unlock()

	s.sink.Deliver(stream, msg)
	return true
}

func (s *Session) handleControl(ev parser.ControlEvent) {
	switch ev.Kind {
	case parser.ControlClearStream:
		s.logger.Debug("clearing stream", "stream", ev.StreamID)
		s.mu.Lock()
		s.clears++
		s.mu.Unlock()
		s.sink.Clear(ev.StreamID)
	default:
		s.logger.Debug("stream control", "kind", ev.Kind, "stream", ev.StreamID)
	}
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status represents the current session status.
type Status struct {
	SessionID    string
	StartTime    time.Time
	Duration     time.Duration
	LastActivity time.Time
	Messages     int
	Clears       int
	Streams      map[string]int // messages per stream id
	InStream     bool
	Stream       string
	Parser       parser.Stats
	Theme        string
}

// GetStatus returns the current session status.
func (s *Session) GetStatus() Status {
	stream, inStream := s.parser.CurrentStream()
	pstats := s.parser.Stats()

	s.mu.Lock()
	defer s.mu.Unlock()

	streams := make(map[string]int, len(s.streams))
	for k, v := range s.streams {
		streams[k] = v
	}
	var themeName string
	if th := s.theme.Load(); th != nil {
		themeName = th.Name
	}
	return Status{
		SessionID:    s.id,
		StartTime:    s.start,
		Duration:     time.Since(s.start),
		LastActivity: s.lastActivity,
		Messages:     s.messages,
		Clears:       s.clears,
		Streams:      streams,
		InStream:     inStream,
		Stream:       stream,
		Parser:       pstats,
		Theme:        themeName,
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a unique session ID.
func generateSessionID(t time.Time) string {
	return "sess_" + t.Format("20060102_150405.000")
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return strconv.Itoa(secs) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}
