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
	"github.com/pkg/errors"

	"github.com/crlsl/webdump/selector"
	"github.com/crlsl/webdump/uri"
)

// LinkMarkerMode controls how a closed link-bearing element's URL is
// rendered inline, independent of whether it also gets an entry in the
// References section.
type LinkMarkerMode int

const (
	// LinkMarkerNone emits no inline marker.
	LinkMarkerNone LinkMarkerMode = iota
	// LinkMarkerSeq emits "[n]", referencing the registry entry's Seq.
	LinkMarkerSeq
	// LinkMarkerURL emits "[type: url]" in full.
	LinkMarkerURL
)

// Options configures a [Convert] call; it is the direct analog of the
// CLI flags in cmd/webdump.
type Options struct {
	Width int // terminal width in cells; must be ≥ 1

	UTF8 bool // use UTF-8 bullet/ruler glyphs instead of ASCII
	ANSI bool // emit ANSI SGR styling
	Wrap bool // word-wrap long lines

	Dedup bool // deduplicate link registrations by URL

	LinkMarker   LinkMarkerMode
	References   bool // emit the end-of-document References section
	PrettyTables bool // render table/tr/td with tablewriter instead of inline text

	BaseHREF string // initial base URL; must have a scheme if set

	Show selector.List // reader-mode "only show matches of" selector
	Hide selector.List // "hide matches of" selector

	// Manifest, if non-nil, receives one "TYPE\tURL\n" line per
	// registered link as parsing proceeds.
	Manifest interface {
		WriteString(s string) (int, error)
	}
}

// DefaultOptions returns the engine's defaults: 72-column plain-ASCII
// wrapped text, no ANSI, no inline markers, References section on.
func DefaultOptions() Options {
	return Options{
		Width:      72,
		Wrap:       true,
		References: true,
	}
}

func (o Options) validate() error {
	if o.Width < 1 {
		return wrapConfig(errors.New("width must be >= 1"))
	}
	if o.BaseHREF != "" {
		u, err := uri.Parse(o.BaseHREF)
		if err != nil {
			return wrapConfig(err)
		}
		if !u.HasScheme() {
			return wrapConfig(errors.New("base href must have a scheme"))
		}
	}
	return nil
}
