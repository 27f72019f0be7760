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

// Package selector implements a tiny CSS-subset matcher used to hide or
// isolate element subtrees in the layout engine's "reader mode".
//
// Supported syntax, descendant combinator only:
//
//	TAG
//	TAG#ID
//	TAG.CLASS
//	TAG@INDEX
//
// TAG may be empty to match any element. A List is a comma-separated
// disjunction of selectors; a selector is a whitespace-separated
// conjunction of simple-selector steps.
package selector

import "strings"

// Node is one simple-selector step within a selector.
type Node struct {
	Tag   string // lowercase; "" means unconstrained
	ID    string // "" means unconstrained
	Class string // "" means unconstrained
	Index int    // -1 means unconstrained
}

// Element is the minimal view of an open element the matcher needs.
// Callers (the element stack) implement this directly.
type Element interface {
	TagName() string
	ID() string
	// HasClass reports whether class appears as a whitespace-separated
	// token in the element's class attribute.
	HasClass(class string) bool
	// ChildIndex returns the element's 0-based position among its
	// parent's children.
	ChildIndex() int
}

// A Selector is an ordered sequence of descendant steps.
type Selector []Node

// List is a disjunction of selectors, as produced by [Compile].
type List []Selector

// Compile parses a comma-separated selector list.
func Compile(s string) List {
	var list List
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		list = append(list, compileOne(part))
	}
	return list
}

func compileOne(s string) Selector {
	var sel Selector
	for _, tok := range strings.Fields(s) {
		sel = append(sel, compileNode(tok))
	}
	return sel
}

func compileNode(tok string) Node {
	n := Node{Index: -1}
	rest := tok
	for {
		switch {
		case strings.HasPrefix(rest, "#"):
			end := specialEnd(rest[1:])
			n.ID = rest[1 : 1+end]
			rest = rest[1+end:]
		case strings.HasPrefix(rest, "."):
			end := specialEnd(rest[1:])
			n.Class = rest[1 : 1+end]
			rest = rest[1+end:]
		case strings.HasPrefix(rest, "@"):
			end := specialEnd(rest[1:])
			n.Index = atoiOrDefault(rest[1:1+end], -1)
			rest = rest[1+end:]
		default:
			end := specialEnd(rest)
			n.Tag = strings.ToLower(rest[:end])
			rest = rest[end:]
		}
		if rest == "" {
			break
		}
	}
	return n
}

// specialEnd returns the index of the next '#', '.', or '@' in s, or
// len(s) if none appears.
func specialEnd(s string) int {
	i := strings.IndexAny(s, "#.@")
	if i < 0 {
		return len(s)
	}
	return i
}

func atoiOrDefault(s string, def int) int {
	n := 0
	if s == "" {
		return def
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// matches reports whether element e satisfies simple selector n.
func (n Node) matches(e Element) bool {
	if n.Tag != "" && !strings.EqualFold(n.Tag, e.TagName()) {
		return false
	}
	if n.ID != "" && n.ID != e.ID() {
		return false
	}
	if n.Class != "" && !e.HasClass(n.Class) {
		return false
	}
	if n.Index >= 0 && n.Index != e.ChildIndex() {
		return false
	}
	return true
}

// MatchPath reports whether selector sel matches the given root-to-leaf
// element path, using the depth-first-left-to-right cursor algorithm from
// the design: md starts at 0, advances on each step match, and the
// selector matches iff md reaches len(sel) before the path is exhausted.
func (sel Selector) MatchPath(path []Element) bool {
	if len(sel) == 0 {
		return false
	}
	md := 0
	for _, e := range path {
		if sel[md].matches(e) {
			md++
			if md == len(sel) {
				return true
			}
		}
	}
	return false
}

// MatchPath reports whether any selector in the list matches path.
func (list List) MatchPath(path []Element) bool {
	for _, sel := range list {
		if sel.MatchPath(path) {
			return true
		}
	}
	return false
}

// Empty reports whether the list has no selectors (e.g. Compile("")).
func (list List) Empty() bool { return len(list) == 0 }
