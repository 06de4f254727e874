// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parser

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/mudlark/internal/model"
	"github.com/jeranaias/mudlark/internal/util"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

const (
	// DefaultMaxBuffer bounds unfinished input plus still-open elements.
	DefaultMaxBuffer = 10 * 1024

	// DefaultMaxDepth bounds the open-element stack.
	DefaultMaxDepth = 256
)

// Control tag names. They change stream state and never reach the output.
const (
	TagPushStream  = "pushStream"
	TagPopStream   = "popStream"
	TagClearStream = "clearStream"
)

// ControlKind identifies a stream control tag.
type ControlKind int

const (
	ControlPushStream ControlKind = iota
	ControlPopStream
	ControlClearStream
)

// String returns the protocol tag name of the control.
func (k ControlKind) String() string {
	switch k {
	case ControlPushStream:
		return TagPushStream
	case ControlPopStream:
		return TagPopStream
	case ControlClearStream:
		return TagClearStream
	default:
		return "unknown"
	}
}

// ControlEvent reports a control tag seen in the stream. StreamID is the
// tag's id attribute (empty for popStream).
type ControlEvent struct {
	Kind     ControlKind
	StreamID string

	// Offset is how many tags the running Parse call had already returned
	// when the control tag arrived, so the event can be ordered against them.
	Offset int
}

// Config holds configuration for a Parser.
type Config struct {
	// MaxBuffer is the overflow threshold in bytes (default: 10 KiB)
	MaxBuffer int

	// MaxDepth is the deepest element nesting kept (default: 256)
	MaxDepth int

	// Logger receives overflow and recovery events (default: log.Default())
	Logger *log.Logger

	// OnControl, if set, is called for each control tag in stream order.
	// It runs while the parser is locked and must not call back into it.
	OnControl func(ControlEvent)
}

// DefaultConfig returns the default parser configuration.
func DefaultConfig() Config {
	return Config{
		MaxBuffer: DefaultMaxBuffer,
		MaxDepth:  DefaultMaxDepth,
	}
}

// Stats counts parser activity since construction.
type Stats struct {
	TagsEmitted   int
	BytesConsumed int
	Overflows     int
	AutoClosed    int // elements closed without their own closing tag
	StrayCloses   int // closing tags that matched no open element
}

// =============================================================================
// PARSER
// =============================================================================

// Parser is an incremental parser for one connection's stream.
type Parser struct {
	mu sync.Mutex

	pending string
	stack   []*model.GameTag
	held    int // bytes consumed into elements still on the stack

	stream   string
	inStream bool

	cfg    Config
	logger *log.Logger
	stats  Stats
}

// New creates a parser. Zero fields in cfg take their defaults.
func New(cfg Config) *Parser {
	if cfg.MaxBuffer <= 0 {
		cfg.MaxBuffer = DefaultMaxBuffer
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{
		cfg:    cfg,
		logger: logger.WithPrefix("parser"),
	}
}

// Parse consumes the next chunk and returns the top-level tags it completed,
// in document order.
func (p *Parser) Parse(chunk string) []*model.GameTag {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending += chunk

	var out []*model.GameTag
	pos := 0
	for pos < len(p.pending) {
		n := p.step(p.pending[pos:], &out)
		if n == 0 {
			break
		}
		pos += n
	}
	p.stats.BytesConsumed += pos
	p.pending = p.pending[pos:]

	if len(p.pending)+p.held > p.cfg.MaxBuffer {
		p.logger.Warn("buffer overflow, discarding input",
			"pending", len(p.pending),
			"open", len(p.stack),
			"preview", util.Preview(p.pending, 60))
		p.reset()
		p.stats.Overflows++
	}

	p.stats.TagsEmitted += len(out)
	return out
}

// step consumes one construct from the front of s and returns its length.
// 0 means s starts with something incomplete.
func (p *Parser) step(s string, out *[]*model.GameTag) int {
	if s[0] != '<' || len(s) > 1 && !isConstructStart(s[1]) {
		// text, possibly starting with a literal '<'
		end, ok := textEnd(s)
		if !ok {
			return 0
		}
		p.text(decodeEntities(s[:end]), out)
		return end
	}
	if len(s) < 2 {
		return 0
	}

	switch s[1] {
	case '/':
		gt := strings.IndexByte(s, '>')
		if gt < 0 {
			return 0
		}
		p.closeTag(strings.TrimSpace(s[2:gt]), out)
		return gt + 1

	case '!':
		if strings.HasPrefix(s, "<!--") {
			end := strings.Index(s[4:], "-->")
			if end < 0 {
				return 0
			}
			return end + 7
		}
		if len(s) < 4 && strings.HasPrefix("<!--", s) {
			return 0
		}
		gt := strings.IndexByte(s, '>')
		if gt < 0 {
			return 0
		}
		return gt + 1

	case '?':
		end := strings.Index(s, "?>")
		if end < 0 {
			return 0
		}
		return end + 2
	}

	gt := tagEnd(s)
	if gt < 0 {
		return 0
	}
	p.openTag(parseHeader(s[1:gt]), gt+1, out)
	return gt + 1
}

// text places a decoded text run.
func (p *Parser) text(s string, out *[]*model.GameTag) {
	if s == "" {
		return
	}
	if len(p.stack) == 0 {
		p.emit(model.NewTextTag(s), out)
		return
	}
	p.stack[len(p.stack)-1].AppendText(s)
	p.held += len(s)
}

func (p *Parser) openTag(h header, size int, out *[]*model.GameTag) {
	switch h.name {
	case TagPushStream:
		id := h.attrs["id"]
		if id == "" {
			p.logger.Debug("pushStream without id ignored")
			return
		}
		p.stream, p.inStream = id, true
		p.control(ControlEvent{Kind: ControlPushStream, StreamID: id, Offset: len(*out)})
		return
	case TagPopStream:
		p.stream, p.inStream = "", false
		p.control(ControlEvent{Kind: ControlPopStream, Offset: len(*out)})
		return
	case TagClearStream:
		p.stream, p.inStream = "", false
		p.control(ControlEvent{Kind: ControlClearStream, StreamID: h.attrs["id"], Offset: len(*out)})
		return
	}

	tag := model.NewTag(h.name, h.attrs)
	if h.selfClose {
		tag.Close()
		p.attach(tag, out)
		if len(p.stack) > 0 {
			p.held += size
		}
		return
	}

	if len(p.stack) >= p.cfg.MaxDepth {
		p.logger.Debug("max depth reached, auto-closing", "tag", p.stack[len(p.stack)-1].Name)
		p.popOne(out)
		p.stats.AutoClosed++
	}
	p.stack = append(p.stack, tag)
	p.held += size
}

// closeTag applies the mismatch policy: close down to the innermost open
// element with this name, or drop the closing tag if none is open.
func (p *Parser) closeTag(name string, out *[]*model.GameTag) {
	switch name {
	case TagPushStream, TagPopStream, TagClearStream:
		return
	}

	match := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Name == name {
			match = i
			break
		}
	}
	if match < 0 {
		p.logger.Debug("stray closing tag dropped", "tag", name)
		p.stats.StrayCloses++
		return
	}

	for len(p.stack)-1 > match {
		p.logger.Debug("auto-closing unmatched element", "tag", p.stack[len(p.stack)-1].Name, "closer", name)
		p.popOne(out)
		p.stats.AutoClosed++
	}
	p.popOne(out)
}

// popOne closes the innermost open element and attaches it to its parent.
func (p *Parser) popOne(out *[]*model.GameTag) {
	last := len(p.stack) - 1
	tag := p.stack[last]
	p.stack[last] = nil
	p.stack = p.stack[:last]
	tag.Close()
	p.attach(tag, out)
}

// attach hands a closed tag to the current parent, or emits it.
func (p *Parser) attach(tag *model.GameTag, out *[]*model.GameTag) {
	if len(p.stack) == 0 {
		p.emit(tag, out)
		return
	}
	p.stack[len(p.stack)-1].AppendChild(tag)
}

func (p *Parser) emit(tag *model.GameTag, out *[]*model.GameTag) {
	if p.inStream {
		tag.StreamID = p.stream
	}
	*out = append(*out, tag)
	p.held = 0
}

func (p *Parser) control(ev ControlEvent) {
	if p.cfg.OnControl != nil {
		p.cfg.OnControl(ev)
	}
}

func (p *Parser) reset() {
	p.pending = ""
	p.stack = nil
	p.held = 0
}

// Flush treats the stream as ended: trailing text is emitted, an unfinished
// construct is discarded, and open elements are closed innermost first.
func (p *Parser) Flush() []*model.GameTag {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []*model.GameTag
	if s := p.pending; s != "" {
		end := len(s)
		for i := 0; i < len(s); i++ {
			if s[i] == '<' && i+1 < len(s) && isConstructStart(s[i+1]) {
				end = i
				break
			}
		}
		p.text(decodeEntities(s[:end]), &out)
		p.stats.BytesConsumed += len(s)
		p.pending = ""
	}
	for len(p.stack) > 0 {
		p.popOne(&out)
		p.stats.AutoClosed++
	}
	p.held = 0
	p.stats.TagsEmitted += len(out)
	return out
}

// =============================================================================
// INTROSPECTION
// =============================================================================

// CurrentStream returns the active stream id, if any.
func (p *Parser) CurrentStream() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stream, p.inStream
}

// InStream reports whether a pushStream is in effect.
func (p *Parser) InStream() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inStream
}

// Pending returns the number of buffered, unconsumed bytes.
func (p *Parser) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Depth returns the number of currently open elements.
func (p *Parser) Depth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stack)
}

// Stats returns a snapshot of the parser counters.
func (p *Parser) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Reset discards buffered input, open elements, and stream state.
func (p *Parser) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	p.stream, p.inStream = "", false
}
