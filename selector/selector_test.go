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

package selector

import "testing"

type fakeElement struct {
	tag   string
	id    string
	class string
	index int
}

func (e fakeElement) TagName() string { return e.tag }
func (e fakeElement) ID() string      { return e.id }
func (e fakeElement) ChildIndex() int { return e.index }
func (e fakeElement) HasClass(class string) bool {
	for _, tok := range splitFields(e.class) {
		if tok == class {
			return true
		}
	}
	return false
}

func splitFields(s string) []string {
	var out []string
	field := ""
	for _, c := range s + " " {
		if c == ' ' {
			if field != "" {
				out = append(out, field)
				field = ""
			}
			continue
		}
		field += string(c)
	}
	return out
}

func TestCompileAndMatch(t *testing.T) {
	list := Compile("div.article p, #main")
	path := []Element{
		fakeElement{tag: "html", index: 0},
		fakeElement{tag: "body", index: 0},
		fakeElement{tag: "div", class: "article", index: 0},
		fakeElement{tag: "p", index: 0},
	}
	if !list.MatchPath(path) {
		t.Error("expected div.article p to match nested path")
	}

	idPath := []Element{
		fakeElement{tag: "html", index: 0},
		fakeElement{tag: "div", id: "main", index: 1},
	}
	if !list.MatchPath(idPath) {
		t.Error("expected #main to match")
	}

	noMatch := []Element{
		fakeElement{tag: "html", index: 0},
		fakeElement{tag: "span", index: 0},
	}
	if list.MatchPath(noMatch) {
		t.Error("expected no match")
	}
}

func TestCommutativity(t *testing.T) {
	a := Compile("p, div")
	b := Compile("div, p")
	path := []Element{fakeElement{tag: "div"}}
	if a.MatchPath(path) != b.MatchPath(path) {
		t.Error("selector list disjunction should be order-independent")
	}
}

func TestIndexConstraint(t *testing.T) {
	list := Compile("li@0")
	if !list.MatchPath([]Element{fakeElement{tag: "li", index: 0}}) {
		t.Error("li@0 should match first li")
	}
	if list.MatchPath([]Element{fakeElement{tag: "li", index: 1}}) {
		t.Error("li@0 should not match second li")
	}
}

func TestEmptySelectorList(t *testing.T) {
	list := Compile("")
	if !list.Empty() {
		t.Error("expected empty list")
	}
	if list.MatchPath([]Element{fakeElement{tag: "p"}}) {
		t.Error("empty list should match nothing")
	}
}
