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
	"testing"

	"github.com/crlsl/webdump/internal/tags"
)

func push(t *testing.T, s *Stack, name string) *Frame {
	t.Helper()
	f, err := s.Push(name, tags.Lookup(name))
	if err != nil {
		t.Fatalf("Push(%q): %v", name, err)
	}
	return f
}

func TestStackTotalIndentSumsOpenFrames(t *testing.T) {
	var s Stack
	push(t, &s, "ul") // Indent 0
	push(t, &s, "li") // Indent 2
	push(t, &s, "ul") // Indent 0
	push(t, &s, "li") // Indent 2
	if got, want := s.TotalIndent(), 4; got != want {
		t.Errorf("TotalIndent() = %d, want %d", got, want)
	}
}

func TestStackNearestListItemEmptySurvivesEarlierSibling(t *testing.T) {
	var s Stack
	push(t, &s, "ul")
	li1 := push(t, &s, "li")
	if !s.NearestListItemEmpty() {
		t.Fatal("NearestListItemEmpty() = false for a freshly pushed <li>, want true")
	}
	s.MarkHasData() // the first <li>'s content arrives, marking li1 and <ul> both HasData
	_ = li1
	s.Pop() // close the first <li>

	li2 := push(t, &s, "li")
	_ = li2
	// The enclosing <ul> already has data from the first item, but the
	// second <li> itself is still fresh: NearestListItemEmpty must report
	// true here even though AnyAncestorHasData is already true.
	if !s.AnyAncestorHasData() {
		t.Fatal("AnyAncestorHasData() = false, want true (the <ul> already has data)")
	}
	if !s.NearestListItemEmpty() {
		t.Error("NearestListItemEmpty() = false for the second <li>, want true")
	}
}

func TestStackNearestListItemEmptyFalseAfterData(t *testing.T) {
	var s Stack
	push(t, &s, "ul")
	push(t, &s, "li")
	s.MarkHasData()
	if s.NearestListItemEmpty() {
		t.Error("NearestListItemEmpty() = true after MarkHasData, want false")
	}
}

func TestStackNearestListItemEmptyFalseOutsideAnyList(t *testing.T) {
	var s Stack
	push(t, &s, "div")
	if s.NearestListItemEmpty() {
		t.Error("NearestListItemEmpty() = true with no enclosing list item, want false")
	}
}

func TestStackAnyAncestorHasDataFalseAtDocumentStart(t *testing.T) {
	var s Stack
	push(t, &s, "div")
	if s.AnyAncestorHasData() {
		t.Error("AnyAncestorHasData() = true for the first frame of a document, want false")
	}
}

func TestStackMarkHasDataPropagatesToEveryOpenFrame(t *testing.T) {
	var s Stack
	push(t, &s, "div")
	push(t, &s, "p")
	s.MarkHasData()
	for i := 0; i < s.Len(); i++ {
		if !s.At(i).HasData {
			t.Errorf("frame %d HasData = false after MarkHasData, want true", i)
		}
	}
}

func TestStackReaderIgnoreInheritsFromParent(t *testing.T) {
	var s Stack
	s.RootReaderIgnore = true
	div := push(t, &s, "div")
	if !div.ReaderIgnore {
		t.Fatal("child of an ignored root did not inherit ReaderIgnore")
	}
	div.ReaderIgnore = false // a Show selector matched this frame specifically
	p := push(t, &s, "p")
	if p.ReaderIgnore {
		t.Error("child pushed after ReaderIgnore was cleared on its parent still inherited true")
	}
}
