// Copyright 2024 The webdump Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package webdump

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/crlsl/webdump/internal/tags"
	"github.com/crlsl/webdump/selector"
)

// Element is an alias for [selector.Element], re-exported so callers of
// [Stack.Elements] do not need to import the selector package directly.
type Element = selector.Element

// MaxStackDepth is the hard cap on simultaneously open elements. Beyond
// this depth, pathologically unbalanced markup would grow the stack
// without bound.
const MaxStackDepth = 4096

// ErrStackOverflow is returned by Stack.Push when MaxStackDepth would be
// exceeded.
var ErrStackOverflow = errors.New("webdump: element stack depth exceeded")

// Frame is one open element on the [Stack]. Its lifetime runs from the
// element's tag-open event to its matching tag-close (real or
// synthesized).
type Frame struct {
	Tag  string
	Meta tags.Meta

	ElementID    string
	ElementClass string

	NChildren    int
	VisNChildren int

	Indent int

	HasData bool

	LinkURL  string
	LinkType string // "link", "image", or "embed"; empty if no link is attributed

	ReaderIgnore bool // reader-mode visibility, inherited at push and possibly cleared for this frame
	AncestorNone bool // an ancestor has Display None; set at push from the parent, never cleared

	childIndex int // this frame's 0-based position among its parent's children
}

// Suppressed reports whether this frame's content should produce no
// visible output at all: either it or an ancestor has display None, or
// reader mode is currently hiding it.
func (f *Frame) Suppressed() bool {
	return f.AncestorNone || f.Meta.Display.Has(tags.None) || f.ReaderIgnore
}

// TagName implements [selector.Element].
func (f *Frame) TagName() string { return f.Tag }

// ID implements [selector.Element].
func (f *Frame) ID() string { return f.ElementID }

// ChildIndex implements [selector.Element].
func (f *Frame) ChildIndex() int { return f.childIndex }

// HasClass implements [selector.Element]: it treats ElementClass as
// space-separated tokens and requires an exact token match.
func (f *Frame) HasClass(class string) bool {
	for _, tok := range strings.Fields(f.ElementClass) {
		if tok == class {
			return true
		}
	}
	return false
}

// Stack is the growable stack of open-element frames. It holds
// self-describing frames rather than linked parent/child pointers, so the
// whole open path lives in one contiguous slice.
type Stack struct {
	frames []Frame

	// RootReaderIgnore is the inherited ReaderIgnore value for a frame
	// pushed with an empty stack — the document root's implicit state.
	// Reader mode (a non-empty show selector) starts the whole document
	// hidden until some element matches.
	RootReaderIgnore bool
}

// Len returns the number of currently open frames.
func (s *Stack) Len() int { return len(s.frames) }

// Top returns the innermost open frame, or nil if the stack is empty.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// At returns the i'th frame from the bottom of the stack (0 = outermost).
func (s *Stack) At(i int) *Frame { return &s.frames[i] }

// Push opens a new frame as a child of the current top frame (or the
// document root if the stack is empty) and returns a pointer to it.
func (s *Stack) Push(tag string, meta tags.Meta) (*Frame, error) {
	if len(s.frames) >= MaxStackDepth {
		return nil, ErrStackOverflow
	}
	idx := 0
	ignore := s.RootReaderIgnore
	ancestorNone := false
	if top := s.Top(); top != nil {
		idx = top.NChildren
		top.NChildren++
		ignore = top.ReaderIgnore
		ancestorNone = top.AncestorNone || top.Meta.Display.Has(tags.None)
	}
	s.frames = append(s.frames, Frame{
		Tag:          tag,
		Meta:         meta,
		Indent:       meta.Indent,
		childIndex:   idx,
		ReaderIgnore: ignore,
		AncestorNone: ancestorNone,
	})
	return &s.frames[len(s.frames)-1], nil
}

// Parent returns the frame directly enclosing the current top frame, or
// nil if the top frame is the outermost one (or the stack is empty).
func (s *Stack) Parent() *Frame {
	if len(s.frames) < 2 {
		return nil
	}
	return &s.frames[len(s.frames)-2]
}

// Pop removes and returns the innermost open frame.
func (s *Stack) Pop() Frame {
	n := len(s.frames)
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]
	return f
}

// FindFromTop scans the stack from the innermost frame outward and returns
// the index (from the bottom) of the first frame satisfying pred, or -1 if
// none matches.
func (s *Stack) FindFromTop(pred func(*Frame) bool) int {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if pred(&s.frames[i]) {
			return i
		}
	}
	return -1
}

// PopThrough pops frames from the top of the stack down to and including
// index, returning them in the order they were popped (innermost first).
// It is a plain data-structure operation: callers apply each frame's
// close-time effects themselves rather than this method reentering into
// callback code.
func (s *Stack) PopThrough(index int) []Frame {
	if index < 0 || index >= len(s.frames) {
		return nil
	}
	n := len(s.frames) - index
	out := make([]Frame, n)
	for i := 0; i < n; i++ {
		out[i] = s.frames[len(s.frames)-1-i]
	}
	s.frames = s.frames[:index]
	return out
}

// findCloseTarget scans from the innermost frame outward, stopping
// (returning -1) as soon as a frame whose display includes stopDisplay is
// seen, and returning the index of the first frame satisfying match
// found before that boundary.
func (s *Stack) findCloseTarget(match func(*Frame) bool, stopDisplay tags.Display) int {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := &s.frames[i]
		if f.Meta.Display.Any(stopDisplay) {
			return -1
		}
		if match(f) {
			return i
		}
	}
	return -1
}

// CloseAncestor synthesizes closes of every open frame up to and
// including the nearest ancestor whose tag equals name, stopping (without
// closing anything) if an ancestor whose display includes stopDisplay is
// encountered first. This implements HTML's optional-close recovery: an
// opening "li" inside an already-open "li" closes the first one, but only
// up to the enclosing list.
func (s *Stack) CloseAncestor(name string, stopDisplay tags.Display) []Frame {
	idx := s.findCloseTarget(func(f *Frame) bool { return f.Tag == name }, stopDisplay)
	if idx < 0 {
		return nil
	}
	return s.PopThrough(idx)
}

// CloseAncestorAny is [Stack.CloseAncestor] generalized to a set of tag
// names (e.g. "dd" or "dt" either one closes a preceding "dd"/"dt").
func (s *Stack) CloseAncestorAny(names []string, stopDisplay tags.Display) []Frame {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	idx := s.findCloseTarget(func(f *Frame) bool { return set[f.Tag] }, stopDisplay)
	if idx < 0 {
		return nil
	}
	return s.PopThrough(idx)
}

// CloseAncestorDisplay is [Stack.CloseAncestor] matching by display class
// instead of tag name (e.g. any TableCell, whether "td" or "th").
func (s *Stack) CloseAncestorDisplay(display, stopDisplay tags.Display) []Frame {
	idx := s.findCloseTarget(func(f *Frame) bool { return f.Meta.Display.Has(display) }, stopDisplay)
	if idx < 0 {
		return nil
	}
	return s.PopThrough(idx)
}

// Elements returns the current open-element path as a slice of
// selector.Element for selector matching.
func (s *Stack) Elements() []Element {
	out := make([]Element, len(s.frames))
	for i := range s.frames {
		out[i] = &s.frames[i]
	}
	return out
}

// TotalIndent returns the sum of Indent across every open frame, floored
// at zero.
func (s *Stack) TotalIndent() int {
	total := 0
	for i := range s.frames {
		total += s.frames[i].Indent
	}
	if total < 0 {
		return 0
	}
	return total
}

// AnyAncestorHasData reports whether any currently open frame (the whole
// path) already has visible content, used by the top-of-document margin
// suppression rule: the very first block in a document gets one less
// blank line above it than the same block would elsewhere.
func (s *Stack) AnyAncestorHasData() bool {
	for i := range s.frames {
		if s.frames[i].HasData {
			return true
		}
	}
	return false
}

// MarkHasData propagates hasdata up the whole open path, including to top.
func (s *Stack) MarkHasData() {
	for i := range s.frames {
		s.frames[i].HasData = true
	}
}

// InPre reports whether any currently open frame has Pre display, so that
// character data anywhere inside it (even under an inline frame nested in
// the pre) is rendered literally.
func (s *Stack) InPre() bool {
	for i := range s.frames {
		if s.frames[i].Meta.Display.Has(tags.Pre) {
			return true
		}
	}
	return false
}

// AggregateMarkup ORs together the markup bits of every open frame, the
// current inline style the line formatter should be applying.
func (s *Stack) AggregateMarkup() tags.Markup {
	var m tags.Markup
	for i := range s.frames {
		m |= s.frames[i].Meta.Markup
	}
	return m
}

// AnyAncestorDisplay reports whether any currently open frame's display
// overlaps mask, used to detect a list nested inside another list.
func (s *Stack) AnyAncestorDisplay(mask tags.Display) bool {
	for i := range s.frames {
		if s.frames[i].Meta.Display.Any(mask) {
			return true
		}
	}
	return false
}

// NearestListItemEmpty reports whether the nearest enclosing ListItem
// frame (scanning from the top) has not yet received any data. A block
// opening as the first content of a fresh list item gets the same
// margin-top suppression as the very first block of the document, even
// though an earlier sibling list item may already have given the
// enclosing list itself HasData.
func (s *Stack) NearestListItemEmpty() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Meta.Display.Has(tags.ListItem) {
			return !s.frames[i].HasData
		}
	}
	return false
}
