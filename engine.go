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
	"fmt"
	"io"
	"strings"

	"github.com/crlsl/webdump/internal/tags"
	"github.com/crlsl/webdump/uri"
)

// Engine holds all mutable state for one HTML-to-text conversion: the
// open-element stack, the link registry, the line formatter, and the
// document base URL. A fresh Engine is used per [Convert] call; nothing
// here is package-level global state.
type Engine struct {
	opts  Options
	stack Stack
	links LinkRegistry
	lf    *LineFormatter

	base       uri.URI
	hasBase    bool
	baseLocked bool

	tableBuf *tableCollector // non-nil while collecting a PrettyTables table
}

// Convert reads HTML from r, renders it per opts, and writes the result to
// w. It returns a wrapped [ErrConfig] if opts is invalid, or a wrapped
// [ErrIO] if a write to w fails.
func Convert(r io.Reader, w io.Writer, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	e := &Engine{opts: opts}
	e.lf = NewLineFormatter(w, opts.Width)
	e.lf.Wrap = opts.Wrap
	e.lf.ANSI = opts.ANSI
	e.links.Dedup = opts.Dedup

	if opts.BaseHREF != "" {
		if base, err := uri.Parse(opts.BaseHREF); err == nil {
			e.base = base
			e.hasBase = true
		}
		e.baseLocked = true
	}
	if !opts.Show.Empty() {
		e.stack.RootReaderIgnore = true
	}

	src := NewHTMLTokenSource(r)
	for {
		ev, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return wrapIO(err)
		}
		switch ev.Kind {
		case EventStartTag, EventSelfClosingTag:
			if err := e.handleStartTag(ev); err != nil {
				return err
			}
		case EventEndTag:
			e.handleEndTag(strings.ToLower(ev.Name))
		case EventText:
			e.handleText(ev.Data)
		}
		if err := e.lf.Err(); err != nil {
			return wrapIO(err)
		}
	}

	if e.stack.Len() > 0 {
		e.closeFrames(e.stack.PopThrough(0))
	}
	e.lf.Finish()
	e.writeReferences()
	if err := e.lf.Err(); err != nil {
		return wrapIO(err)
	}
	return nil
}

// handleStartTag processes one start or self-closing tag event: optional-
// close recovery, attribute snapshot, base-href locking, link attribution,
// reader-mode visibility, block-start policy, and tag-specific glyphs. Void
// elements and self-closing tokens are closed immediately afterward.
func (e *Engine) handleStartTag(ev Event) error {
	name := strings.ToLower(ev.Name)
	if e.tableStartTag(name) {
		return nil
	}
	meta := tags.Lookup(name)
	e.synthesizeCloses(name, meta)

	attrs := collectAttrs(ev.Attrs)
	if _, ok := attrs["hidden"]; ok || strings.EqualFold(attrs["aria-hidden"], "true") {
		meta.Display |= tags.None
	}

	frame, err := e.stack.Push(name, meta)
	if err != nil {
		return wrapAlloc(err)
	}
	frame.ElementID = attrs["id"]
	frame.ElementClass = attrs["class"]
	if meta.Display.Has(tags.Pre) {
		e.lf.EnterPre()
	}

	if name == "base" && !e.baseLocked {
		e.baseLocked = true
		if href := attrs["href"]; href != "" {
			if parsed, err := uri.Parse(href); err == nil && parsed.HasScheme() {
				e.base = parsed
				e.hasBase = true
			}
		}
	}

	e.applyReaderMode(frame)

	if linkURL, linkType := e.attributedLink(name, attrs); linkURL != "" {
		if resolved, ok := e.resolveURL(linkURL); ok {
			linkURL = resolved
		}
		if frame.Suppressed() {
			ref := e.links.Register(linkURL, linkType, frame.ElementID, true)
			e.writeManifestEntry(ref)
		} else {
			frame.LinkURL = linkURL
			frame.LinkType = linkType
		}
	}

	if !frame.Suppressed() {
		e.blockStart(frame)
		e.emitOpenGlyphs(frame, attrs)
	}

	if ev.SelfClosing || meta.Void {
		popped := e.stack.Pop()
		e.finishFrame(&popped)
	}
	return nil
}

// handleEndTag processes a close tag: it closes the nearest open frame
// with a matching name (and everything nested inside it), or, if no such
// frame is open, applies block-end effects from the tag's table metadata
// alone without touching the stack.
func (e *Engine) handleEndTag(name string) {
	if e.tableEndTag(name) {
		return
	}
	if idx := e.stack.FindFromTop(func(f *Frame) bool { return f.Tag == name }); idx >= 0 {
		e.closeFrames(e.stack.PopThrough(idx))
		return
	}
	meta := tags.Lookup(name)
	if meta == tags.Default {
		return
	}
	f := Frame{Tag: name, Meta: meta}
	e.finishFrame(&f)
}

func (e *Engine) handleText(data []byte) {
	if e.tableBuf != nil {
		e.tableBuf.text(data)
		return
	}
	top := e.stack.Top()
	if top == nil {
		e.lf.PrintC(0, data)
		return
	}
	if top.Suppressed() {
		return
	}
	markup := e.stack.AggregateMarkup()
	if e.stack.InPre() {
		e.lf.WriteLiteral(markup, data)
	} else {
		e.lf.PrintC(markup, data)
	}
	e.stack.MarkHasData()
}

// synthesizeCloses implements HTML's optional-close recovery ahead of
// pushing a new frame for name/meta: an opening tag that closes a
// same-kind ancestor (another "li", an open "p", a dangling "td") does so
// here, bounded by the enclosing container that should stop the search.
func (e *Engine) synthesizeCloses(name string, meta tags.Meta) {
	s := &e.stack
	switch {
	case meta.Display.Has(tags.List):
		e.closeFrames(s.CloseAncestor("p", tags.List))
		return
	case name == "li":
		e.closeFrames(s.CloseAncestor("li", tags.List))
		return
	case meta.Display.Has(tags.TableCell):
		e.closeFrames(s.CloseAncestorDisplay(tags.TableCell, tags.TableRow))
		return
	case meta.Display.Has(tags.TableRow):
		e.closeFrames(s.CloseAncestorDisplay(tags.TableRow, tags.Table))
		return
	case name == "p":
		e.closeFrames(s.CloseAncestor("p", 0))
		return
	case name == "option":
		e.closeFrames(s.CloseAncestor("option", tags.Select))
		return
	case name == "dt":
		e.closeFrames(s.CloseAncestor("dd", tags.Dl))
		return
	case name == "dd":
		e.closeFrames(s.CloseAncestorAny([]string{"dd", "dt"}, tags.Dl))
		return
	}
	if meta.OptionalClose {
		if top := s.Top(); top != nil && top.Tag == name {
			e.closeFrames(s.PopThrough(s.Len() - 1))
			return
		}
	}
	if meta.Display.Has(tags.Block) {
		e.closeFrames(s.CloseAncestorAny([]string{"p", "dl"}, tags.Dl))
	}
}

// closeFrames applies block-end effects to a batch of frames already
// popped off the stack, innermost first.
func (e *Engine) closeFrames(frames []Frame) {
	for i := range frames {
		e.finishFrame(&frames[i])
	}
}

// finishFrame registers f's attributed link (if any) and, for a visible
// block-display frame, applies its margin-bottom.
func (e *Engine) finishFrame(f *Frame) {
	if f.Meta.Display.Has(tags.Pre) {
		e.lf.ExitPre()
	}
	suppressed := f.Suppressed()
	if f.LinkURL != "" {
		ref := e.links.Register(f.LinkURL, f.LinkType, f.ElementID, false)
		e.writeManifestEntry(ref)
		if !suppressed {
			e.emitLinkMarker(ref)
		}
	}
	if suppressed {
		return
	}
	if f.Meta.Display.Has(tags.Block) {
		marginBottom := f.Meta.MarginBottom
		if marginBottom > 0 && f.Meta.Display.Has(tags.List) && e.stack.AnyAncestorDisplay(tags.List) {
			marginBottom--
		}
		e.lf.EndBlock(marginBottom)
		e.lf.SetIndent(e.stack.TotalIndent())
		e.lf.ResetSkipLeadingWhitespace()
	}
}

// blockStart applies the block-start margin policy for a just-pushed
// visible block-display frame: top-of-document and fresh-list-item margin
// suppression, then the new indent for this frame's own content.
func (e *Engine) blockStart(f *Frame) {
	if !f.Meta.Display.Has(tags.Block) {
		return
	}
	marginTop := f.Meta.MarginTop
	if marginTop > 0 && (!e.stack.AnyAncestorHasData() || e.stack.NearestListItemEmpty()) {
		marginTop--
	}
	e.lf.BeginBlock(marginTop)
	if f.Meta.Display.Has(tags.ListItem) {
		// The bullet prints at the enclosing list's indent; emitListBullet
		// bumps to this frame's own indent afterward so that wrapped
		// continuation lines align under the item text, not the bullet.
		e.lf.SetIndent(e.stack.TotalIndent() - f.Indent)
	} else {
		e.lf.SetIndent(e.stack.TotalIndent())
	}
	e.lf.ResetSkipLeadingWhitespace()
}

// emitOpenGlyphs writes the tag-specific glyphs a handful of elements
// produce at open: list bullets/ordinals, form-control value markers,
// header section prefixes, the <hr> ruler, the <br> forced newline, and
// <img> alt text.
func (e *Engine) emitOpenGlyphs(f *Frame, attrs map[string]string) {
	switch {
	case f.Meta.Display.Has(tags.ListItem):
		e.emitListBullet(f)
	case f.Meta.Display.Has(tags.Input):
		e.emitInputGlyph(attrs)
	case f.Meta.Display.Has(tags.Header):
		e.emitHeaderPrefix(f)
	case f.Tag == "hr":
		ch := rune('-')
		if e.opts.UTF8 {
			ch = '─'
		}
		e.lf.WriteRuler(ch)
		e.stack.MarkHasData()
	case f.Tag == "br":
		e.lf.ForceNewline()
		e.lf.ResetSkipLeadingWhitespace()
	case f.Tag == "img":
		if alt := attrs["alt"]; alt != "" {
			e.lf.PrintC(e.stack.AggregateMarkup(), []byte(alt))
			e.stack.MarkHasData()
		}
	}
}

func (e *Engine) emitListBullet(f *Frame) {
	if parent := e.stack.Parent(); parent != nil && parent.Meta.Display.Has(tags.ListOrdered) {
		e.lf.WriteMarker(fmt.Sprintf("%d.", f.ChildIndex()+1))
	} else {
		bullet := "*"
		if e.opts.UTF8 {
			bullet = "•"
		}
		e.lf.WriteMarker(bullet)
	}
	e.lf.WriteMarker(" ")
	e.lf.SetIndent(e.stack.TotalIndent())
	e.stack.MarkHasData()
}

func (e *Engine) emitInputGlyph(attrs map[string]string) {
	_, checked := attrs["checked"]
	var s string
	switch strings.ToLower(attrs["type"]) {
	case "checkbox":
		if checked {
			s = "[x]"
		} else {
			s = "[ ]"
		}
	case "radio":
		if checked {
			s = "[*]"
		} else {
			s = "[ ]"
		}
	default:
		s = "[" + attrs["value"] + "]"
	}
	e.lf.WriteMarker(s)
	e.stack.MarkHasData()
}

func (e *Engine) emitHeaderPrefix(f *Frame) {
	if len(f.Tag) != 2 || f.Tag[0] != 'h' {
		return
	}
	level := int(f.Tag[1] - '0')
	if level < 2 || level > 6 {
		return
	}
	e.lf.WriteMarker(strings.Repeat("§", level-1))
	e.lf.WriteMarker(" ")
	e.stack.MarkHasData()
}

// applyReaderMode clears the frame's inherited reader-ignore flag if the
// current open path matches the show selector, and forces its display to
// None if the path matches the hide selector.
func (e *Engine) applyReaderMode(f *Frame) {
	if e.opts.Show.Empty() && e.opts.Hide.Empty() {
		return
	}
	path := e.stack.Elements()
	if !e.opts.Show.Empty() && e.opts.Show.MatchPath(path) {
		f.ReaderIgnore = false
	}
	if !e.opts.Hide.Empty() && e.opts.Hide.MatchPath(path) {
		f.Meta.Display |= tags.None
	}
}

// attributedLink reports the URL and link type a tag attributes to
// itself, from whichever of href/src/data the tag carries.
func (e *Engine) attributedLink(name string, attrs map[string]string) (string, string) {
	switch name {
	case "a", "link":
		if href, ok := attrs["href"]; ok {
			return href, "link"
		}
	case "img", "source", "track":
		if src, ok := attrs["src"]; ok {
			return src, "image"
		}
	case "embed", "iframe", "frame":
		if src, ok := attrs["src"]; ok {
			return src, "embed"
		}
	case "object":
		if data, ok := attrs["data"]; ok {
			return data, "embed"
		}
	}
	return "", ""
}

// resolveURL resolves raw against the document base, if one is set. It
// reports false if raw cannot be parsed as a URI.
func (e *Engine) resolveURL(raw string) (string, bool) {
	ref, err := uri.Parse(raw)
	if err != nil {
		return "", false
	}
	if !e.hasBase {
		return uri.Format(ref), true
	}
	out, err := uri.Resolve(e.base, ref)
	if err != nil {
		return "", false
	}
	return uri.Format(out), true
}

func (e *Engine) emitLinkMarker(ref LinkRef) {
	switch e.opts.LinkMarker {
	case LinkMarkerSeq:
		e.lf.WriteMarker(fmt.Sprintf("[%d]", ref.Seq))
	case LinkMarkerURL:
		e.lf.WriteMarker(fmt.Sprintf("[%s: %s]", ref.Type, ref.URL))
	}
}

// writeManifestEntry streams one "TYPE\tURL\n" line to opts.Manifest, in
// registration order, interleaved with parsing rather than buffered until
// document end.
func (e *Engine) writeManifestEntry(ref LinkRef) {
	if e.opts.Manifest == nil {
		return
	}
	e.opts.Manifest.WriteString(ref.Type + "\t" + ref.URL + "\n")
}

// writeReferences renders the end-of-document References section, only
// when at least one link was registered.
func (e *Engine) writeReferences() {
	if !e.opts.References {
		return
	}
	hidden := e.links.EnumerateHidden()
	if e.links.VisibleCount() == 0 && len(hidden) == 0 {
		return
	}
	e.lf.BeginReferencesSection("§ References")
	for _, ref := range e.links.EnumerateVisible() {
		e.lf.WriteReferenceLine(formatReferenceLine(ref))
	}
	if len(hidden) > 0 {
		e.lf.WriteReferenceLine("")
		e.lf.WriteReferenceLine("Hidden references")
		e.lf.WriteReferenceLine("")
		for _, ref := range hidden {
			e.lf.WriteReferenceLine(formatReferenceLine(ref))
		}
	}
}

func formatReferenceLine(ref LinkRef) string {
	return fmt.Sprintf("• (%d) %s (%s)", ref.Seq, ref.URL, ref.Type)
}

// collectAttrs builds a name→value map from attrs, keeping the first
// occurrence of any repeated attribute name.
func collectAttrs(attrs []Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if _, ok := m[a.Key]; !ok {
			m[a.Key] = a.Val
		}
	}
	return m
}
