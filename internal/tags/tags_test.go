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

package tags

import "testing"

func TestLookupKnown(t *testing.T) {
	m := Lookup("LI")
	if m.Name != "li" {
		t.Fatalf("Lookup(%q).Name = %q, want %q", "LI", m.Name, "li")
	}
	if !m.Display.Has(ListItem) {
		t.Error("li should have ListItem display")
	}
	if !m.OptionalClose {
		t.Error("li should be optional-close")
	}
}

func TestLookupUnknown(t *testing.T) {
	m := Lookup("marquee")
	if m != Default {
		t.Errorf("Lookup of unknown tag = %+v, want Default", m)
	}
	if !m.Display.Has(Inline) {
		t.Error("Default should be Inline")
	}
}

func TestVoidElements(t *testing.T) {
	for _, name := range []string{"br", "hr", "img", "input", "meta", "link", "base", "area", "col", "embed", "frame", "param", "source", "track", "wbr"} {
		if !Lookup(name).Void {
			t.Errorf("%s should be void", name)
		}
	}
}

func TestCaseInsensitiveLookup(t *testing.T) {
	if Lookup("DIV") != Lookup("div") {
		t.Error("lookup should be case-insensitive")
	}
}
