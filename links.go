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

// LinkRef is one entry in a [LinkRegistry].
type LinkRef struct {
	URL    string
	Type   string // "link", "image", or "embed"
	TagID  string // the id attribute of the element the link was attributed to, if any
	Hidden bool
	Seq    int // 1-based, monotonically increasing within its own list (visible or hidden)
}

// LinkRegistry holds the two append-only ordered lists of registered link
// URLs: visible and hidden. When deduplication is enabled, a URL that has
// already been registered (in either list) is returned instead of
// creating a new entry, so that visible+hidden URLs stay unique across
// the combined set.
type LinkRegistry struct {
	Dedup bool

	visible []LinkRef
	hidden  []LinkRef
	byURL   map[string]*LinkRef
}

// Register records url (with the given type, attributed element id, and
// hidden flag) and returns the resulting entry. If deduplication is on and
// url was already registered, the existing entry is returned unchanged —
// the type of a deduplicated reference is therefore always the type of
// its first registration.
func (r *LinkRegistry) Register(url, typ, tagID string, hidden bool) LinkRef {
	if r.Dedup {
		if r.byURL == nil {
			r.byURL = make(map[string]*LinkRef)
		}
		if existing, ok := r.byURL[url]; ok {
			return *existing
		}
	}

	var ref LinkRef
	if hidden {
		ref = LinkRef{URL: url, Type: typ, TagID: tagID, Hidden: true, Seq: len(r.hidden) + 1}
		r.hidden = append(r.hidden, ref)
	} else {
		ref = LinkRef{URL: url, Type: typ, TagID: tagID, Hidden: false, Seq: len(r.visible) + 1}
		r.visible = append(r.visible, ref)
	}

	if r.Dedup {
		var stored *LinkRef
		if hidden {
			stored = &r.hidden[len(r.hidden)-1]
		} else {
			stored = &r.visible[len(r.visible)-1]
		}
		r.byURL[url] = stored
	}
	return ref
}

// VisibleCount returns the number of registered visible links.
func (r *LinkRegistry) VisibleCount() int { return len(r.visible) }

// EnumerateVisible iterates visible links in insertion (first-emission)
// order.
func (r *LinkRegistry) EnumerateVisible() []LinkRef { return r.visible }

// EnumerateHidden iterates hidden links in insertion order.
func (r *LinkRegistry) EnumerateHidden() []LinkRef { return r.hidden }
