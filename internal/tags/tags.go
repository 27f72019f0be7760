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

// Package tags provides the static HTML element metadata table the layout
// engine uses to decide display semantics, inline markup, and block
// spacing: a small, sorted, binary-searchable table, the same shape as
// the attribute-sorting helpers in golang.org/x/net/html/atom.
package tags

import "sort"

// Display is a bitset describing an element's layout role.
type Display uint32

const (
	Inline Display = 1 << iota
	InlineBlock
	Block
	None
	Pre
	List
	ListOrdered
	ListItem
	Table
	TableRow
	TableCell
	Header
	Dl
	Input
	Button
	Select
	SelectMulti
	Option
)

// Has reports whether d has every bit set in mask.
func (d Display) Has(mask Display) bool { return d&mask == mask }

// Any reports whether d has at least one bit set in mask.
func (d Display) Any(mask Display) bool { return d&mask != 0 }

// Markup is a bitset of ANSI style attributes an element's content should
// be rendered with.
type Markup uint8

const (
	Bold Markup = 1 << iota
	Italic
	Underline
	Blink
	Reverse
	Strike
)

// Meta is the immutable, table-resident metadata for one element name.
type Meta struct {
	Name          string
	Display       Display
	Markup        Markup
	ParentDisplay Display // expected parent display class; the engine's optional-close recovery does not read it
	Void          bool
	OptionalClose bool
	MarginTop     int
	MarginBottom  int
	Indent        int
}

// Default is returned by Lookup for any name not present in the table: an
// inline element with no markup, no special handling, so unrecognized
// tags degrade gracefully instead of being dropped.
var Default = Meta{Display: Inline}

// table must remain sorted by Name for sort.Search to work; keep entries
// alphabetical when editing.
var table = []Meta{
	{Name: "a", Display: Inline, Markup: Underline},
	{Name: "abbr", Display: Inline},
	{Name: "address", Display: Block},
	{Name: "area", Void: true, Display: None},
	{Name: "article", Display: Block},
	{Name: "aside", Display: Block},
	{Name: "audio", Display: Inline},
	{Name: "b", Display: Inline, Markup: Bold},
	{Name: "base", Void: true, Display: None},
	{Name: "bdi", Display: Inline},
	{Name: "bdo", Display: Inline},
	{Name: "blockquote", Display: Block, Indent: 2, MarginTop: 1, MarginBottom: 1},
	{Name: "body", Display: Block},
	{Name: "br", Void: true, Display: Inline},
	{Name: "button", Display: Inline | Button},
	{Name: "canvas", Display: Inline},
	{Name: "caption", Display: Block},
	{Name: "center", Display: Block},
	{Name: "cite", Display: Inline, Markup: Italic},
	{Name: "code", Display: Inline},
	{Name: "col", Void: true, Display: None},
	{Name: "colgroup", Display: None},
	{Name: "data", Display: Inline},
	{Name: "datalist", Display: None},
	{Name: "dd", Display: Block, Indent: 2, OptionalClose: true, ParentDisplay: Dl},
	{Name: "del", Display: Inline, Markup: Strike},
	{Name: "details", Display: Block},
	{Name: "dfn", Display: Inline, Markup: Italic},
	{Name: "dialog", Display: None},
	{Name: "dir", Display: Block | List, MarginTop: 1, MarginBottom: 1},
	{Name: "div", Display: Block},
	{Name: "dl", Display: Block | Dl, MarginTop: 1, MarginBottom: 1},
	{Name: "dt", Display: Block, OptionalClose: true, ParentDisplay: Dl},
	{Name: "em", Display: Inline, Markup: Italic},
	{Name: "embed", Void: true, Display: None},
	{Name: "fieldset", Display: Block, MarginTop: 1, MarginBottom: 1},
	{Name: "figcaption", Display: Block},
	{Name: "figure", Display: Block, MarginTop: 1, MarginBottom: 1},
	{Name: "footer", Display: Block},
	{Name: "form", Display: Block},
	{Name: "frame", Void: true, Display: None},
	{Name: "h1", Display: Block | Header, Markup: Bold, MarginTop: 1, MarginBottom: 1, Indent: 0},
	{Name: "h2", Display: Block | Header, Markup: Bold, MarginTop: 1, MarginBottom: 1},
	{Name: "h3", Display: Block | Header, Markup: Bold, MarginTop: 1, MarginBottom: 1},
	{Name: "h4", Display: Block | Header, Markup: Bold, MarginTop: 1, MarginBottom: 1},
	{Name: "h5", Display: Block | Header, Markup: Bold, MarginTop: 1, MarginBottom: 1},
	{Name: "h6", Display: Block | Header, Markup: Bold, MarginTop: 1, MarginBottom: 1},
	{Name: "head", Display: None},
	{Name: "header", Display: Block},
	{Name: "hgroup", Display: Block},
	{Name: "hr", Void: true, Display: Block, MarginTop: 1, MarginBottom: 1},
	{Name: "html", Display: Block},
	{Name: "i", Display: Inline, Markup: Italic},
	{Name: "iframe", Display: None},
	{Name: "img", Void: true, Display: Inline},
	{Name: "input", Void: true, Display: Inline | Input},
	{Name: "ins", Display: Inline, Markup: Underline},
	{Name: "kbd", Display: Inline},
	{Name: "label", Display: Inline},
	{Name: "legend", Display: Block, Markup: Bold},
	{Name: "li", Display: Block | ListItem, Indent: 2, OptionalClose: true, ParentDisplay: List},
	{Name: "link", Void: true, Display: None},
	{Name: "main", Display: Block},
	{Name: "map", Display: Inline},
	{Name: "mark", Display: Inline, Markup: Reverse},
	{Name: "menu", Display: Block | List, MarginTop: 1, MarginBottom: 1},
	{Name: "meta", Void: true, Display: None},
	{Name: "meter", Display: Inline},
	{Name: "nav", Display: Block},
	{Name: "noscript", Display: None},
	{Name: "object", Display: None},
	{Name: "ol", Display: Block | List | ListOrdered, MarginTop: 1, MarginBottom: 1},
	{Name: "optgroup", Display: None},
	{Name: "option", Display: Block | Option, OptionalClose: true, ParentDisplay: Select},
	{Name: "output", Display: Inline},
	{Name: "p", Display: Block, MarginTop: 1, MarginBottom: 1, OptionalClose: true},
	{Name: "param", Void: true, Display: None},
	{Name: "picture", Display: Inline},
	{Name: "pre", Display: Block | Pre, MarginTop: 1, MarginBottom: 1},
	{Name: "progress", Display: Inline},
	{Name: "q", Display: Inline},
	{Name: "rp", Display: Inline},
	{Name: "rt", Display: Inline},
	{Name: "ruby", Display: Inline},
	{Name: "s", Display: Inline, Markup: Strike},
	{Name: "samp", Display: Inline},
	{Name: "script", Void: false, Display: None},
	{Name: "section", Display: Block},
	{Name: "select", Display: Block | Select},
	{Name: "small", Display: Inline},
	{Name: "source", Void: true, Display: None},
	{Name: "span", Display: Inline},
	{Name: "strike", Display: Inline, Markup: Strike},
	{Name: "strong", Display: Inline, Markup: Bold},
	{Name: "style", Display: None},
	{Name: "sub", Display: Inline},
	{Name: "summary", Display: Block, Markup: Bold},
	{Name: "sup", Display: Inline},
	{Name: "table", Display: Block | Table, MarginTop: 1, MarginBottom: 1},
	{Name: "tbody", Display: Table},
	{Name: "td", Display: Block | TableCell, OptionalClose: true, ParentDisplay: TableRow},
	{Name: "template", Display: None},
	{Name: "textarea", Display: Inline | Pre},
	{Name: "tfoot", Display: Table},
	{Name: "th", Display: Block | TableCell, Markup: Bold},
	{Name: "thead", Display: Table},
	{Name: "time", Display: Inline},
	{Name: "title", Display: None},
	{Name: "tr", Display: Block | TableRow, OptionalClose: true, ParentDisplay: Table},
	{Name: "track", Void: true, Display: None},
	{Name: "u", Display: Inline, Markup: Underline},
	{Name: "ul", Display: Block | List, MarginTop: 1, MarginBottom: 1},
	{Name: "var", Display: Inline, Markup: Italic},
	{Name: "video", Display: Inline},
	{Name: "wbr", Void: true, Display: Inline},
	{Name: "xmp", Display: Block | Pre, MarginTop: 1, MarginBottom: 1},
}

func init() {
	if !sort.SliceIsSorted(table, func(i, j int) bool { return table[i].Name < table[j].Name }) {
		panic("tags: table is not sorted by Name")
	}
}

// Lookup finds the metadata entry for name, treated case-insensitively. It
// returns [Default] for unknown names.
//
// name is expected to already be lowercase (the engine lowercases tag
// names once per tag event); Lookup lowercases defensively for callers that
// cannot guarantee that.
func Lookup(name string) Meta {
	name = toLowerASCII(name)
	i := sort.Search(len(table), func(i int) bool { return table[i].Name >= name })
	if i < len(table) && table[i].Name == name {
		return table[i]
	}
	return Default
}

func toLowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			b := []byte(s)
			for ; i < len(b); i++ {
				if b[i] >= 'A' && b[i] <= 'Z' {
					b[i] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// VoidNames is the set of void element names (those with Meta.Void set),
// derived from table for callers that want a plain name set (e.g. tests)
// instead of a table-driven Lookup check.
var VoidNames = func() map[string]bool {
	m := make(map[string]bool)
	for _, e := range table {
		if e.Void {
			m[e.Name] = true
		}
	}
	return m
}()
