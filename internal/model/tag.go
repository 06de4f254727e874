// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// TextTagName is the name of the synthetic leaf tag that carries bare text.
const TextTagName = ":text"

// =============================================================================
// TAG STATE
// =============================================================================

// TagState tracks whether an element has seen its closing construct.
type TagState int

const (
	TagOpen TagState = iota
	TagClosed
)

// String returns the string representation of the state.
func (s TagState) String() string {
	switch s {
	case TagOpen:
		return "open"
	case TagClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// =============================================================================
// GAME TAG
// =============================================================================

// GameTag is one parsed protocol element.
//
// Two tags with identical content are Equal but carry different IDs.
type GameTag struct {
	// Identity
	ID uuid.UUID

	Name     string
	Text     string
	Attrs    map[string]string
	Children []*GameTag
	State    TagState

	// StreamID is set on top-level tags emitted while a stream was active.
	StreamID string
}

// NewTag creates an open tag. attrs may be nil.
func NewTag(name string, attrs map[string]string) *GameTag {
	return &GameTag{
		ID:    uuid.New(),
		Name:  name,
		Attrs: attrs,
		State: TagOpen,
	}
}

// NewTextTag creates a closed :text leaf.
func NewTextTag(text string) *GameTag {
	return &GameTag{
		ID:    uuid.New(),
		Name:  TextTagName,
		Text:  text,
		State: TagClosed,
	}
}

// IsText reports whether t is a synthetic :text leaf.
func (t *GameTag) IsText() bool {
	return t != nil && t.Name == TextTagName
}

// IsClosed reports whether the closing construct has been seen.
func (t *GameTag) IsClosed() bool {
	return t != nil && t.State == TagClosed
}

// HasText reports whether the tag carries direct text.
func (t *GameTag) HasText() bool {
	return t != nil && t.Text != ""
}

// HasStream reports whether the tag was emitted inside a stream.
func (t *GameTag) HasStream() bool {
	return t != nil && t.StreamID != ""
}

// Attr returns the attribute value, or "" when absent.
func (t *GameTag) Attr(key string) string {
	if t == nil || t.Attrs == nil {
		return ""
	}
	return t.Attrs[key]
}

// LookupAttr returns the attribute value and whether it was present.
func (t *GameTag) LookupAttr(key string) (string, bool) {
	if t == nil || t.Attrs == nil {
		return "", false
	}
	v, ok := t.Attrs[key]
	return v, ok
}

// =============================================================================
// CONSTRUCTION (parser only)
// =============================================================================

// AppendText adds text in document order. Text lands in Text until the
// first child exists; after that it becomes (or extends) a trailing :text child.
func (t *GameTag) AppendText(s string) {
	if s == "" {
		return
	}
	if len(t.Children) == 0 {
		t.Text += s
		return
	}
	if last := t.Children[len(t.Children)-1]; last.IsText() {
		last.Text += s
		return
	}
	t.Children = append(t.Children, NewTextTag(s))
}

// AppendChild attaches a closed child.
func (t *GameTag) AppendChild(child *GameTag) {
	t.Children = append(t.Children, child)
}

// Close marks the tag closed.
func (t *GameTag) Close() {
	t.State = TagClosed
}

// =============================================================================
// QUERIES
// =============================================================================

// PlainText returns direct text followed by all descendant text in document order.
func (t *GameTag) PlainText() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	t.writePlain(&sb)
	return sb.String()
}

func (t *GameTag) writePlain(sb *strings.Builder) {
	sb.WriteString(t.Text)
	for _, c := range t.Children {
		c.writePlain(sb)
	}
}

// Find returns the first descendant (depth-first, including t) named name.
func (t *GameTag) Find(name string) *GameTag {
	if t == nil {
		return nil
	}
	if t.Name == name {
		return t
	}
	for _, c := range t.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Depth returns the height of the tree rooted at t (a leaf has depth 1).
func (t *GameTag) Depth() int {
	if t == nil {
		return 0
	}
	deepest := 0
	for _, c := range t.Children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Equal compares structure and content, ignoring ID.
func (t *GameTag) Equal(o *GameTag) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Name != o.Name || t.Text != o.Text || t.State != o.State || t.StreamID != o.StreamID {
		return false
	}
	if len(t.Attrs) != len(o.Attrs) || len(t.Children) != len(o.Children) {
		return false
	}
	for k, v := range t.Attrs {
		if ov, ok := o.Attrs[k]; !ok || ov != v {
			return false
		}
	}
	for i := range t.Children {
		if !t.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy with fresh IDs.
func (t *GameTag) Clone() *GameTag {
	if t == nil {
		return nil
	}
	c := &GameTag{
		ID:       uuid.New(),
		Name:     t.Name,
		Text:     t.Text,
		State:    t.State,
		StreamID: t.StreamID,
	}
	if t.Attrs != nil {
		c.Attrs = make(map[string]string, len(t.Attrs))
		for k, v := range t.Attrs {
			c.Attrs[k] = v
		}
	}
	if len(t.Children) > 0 {
		c.Children = make([]*GameTag, len(t.Children))
		for i, child := range t.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// String returns a compact debug form such as `a{exist=123,noun=gem}"blue gem"`.
func (t *GameTag) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.Attrs) > 0 {
		sb.WriteString("{")
		first := true
		for _, k := range sortedKeys(t.Attrs) {
			if !first {
				sb.WriteString(",")
			}
			first = false
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(t.Attrs[k])
		}
		sb.WriteString("}")
	}
	if t.Text != "" {
		sb.WriteString("\"")
		sb.WriteString(t.Text)
		sb.WriteString("\"")
	}
	if len(t.Children) > 0 {
		sb.WriteString("[")
		for i, c := range t.Children {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(c.String())
		}
		sb.WriteString("]")
	}
	if t.StreamID != "" {
		sb.WriteString("@")
		sb.WriteString(t.StreamID)
	}
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
