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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crlsl/webdump/selector"
)

func convert(t *testing.T, html string, configure func(*Options)) string {
	t.Helper()
	opts := DefaultOptions()
	if configure != nil {
		configure(&opts)
	}
	var out strings.Builder
	if err := Convert(strings.NewReader(html), &out, opts); err != nil {
		t.Fatalf("Convert(%q): %v", html, err)
	}
	return out.String()
}

func TestConvertParagraphInlineMarkup(t *testing.T) {
	got := convert(t, "<p>hello <b>world</b></p>", nil)
	want := "hello world\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertListItemsOneBulletPerLine(t *testing.T) {
	got := convert(t, "<ul><li>a<li>b</ul>", nil)
	want := "* a\n* b\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertListUTF8Bullets(t *testing.T) {
	got := convert(t, "<ul><li>a<li>b</ul>", func(o *Options) { o.UTF8 = true })
	want := "• a\n• b\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertOrderedList(t *testing.T) {
	got := convert(t, "<ol><li>a<li>b</ol>", nil)
	want := "1. a\n2. b\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertPrePreservesWhitespace(t *testing.T) {
	got := convert(t, "<pre>  x\n  y</pre>", nil)
	want := "  x\n  y\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertLinkWithBaseAndReferences(t *testing.T) {
	got := convert(t, `<a href="/p">x</a>`, func(o *Options) { o.BaseHREF = "https://h/" })
	want := "x\n\n§ References\n\n• (1) https://h/p (link)\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertScriptSuppressed(t *testing.T) {
	got := convert(t, `<script>if(a<b)c;</script>after`, nil)
	want := "after\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertHeaderGlyph(t *testing.T) {
	got := convert(t, "<h2>Title</h2>", nil)
	want := "§ Title\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertH1HasNoGlyph(t *testing.T) {
	got := convert(t, "<h1>Title</h1>", nil)
	want := "Title\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertHiddenAttributeSuppressesSubtree(t *testing.T) {
	got := convert(t, `<p>a</p><p hidden>b</p><p>c</p>`, nil)
	want := "a\n\nc\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertCheckedCheckboxGlyph(t *testing.T) {
	got := convert(t, `<input type="checkbox" checked>`, nil)
	want := "[x]\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertUnclosedParagraphsEachGetOwnBlock(t *testing.T) {
	got := convert(t, "<p>a<p>b<p>c", nil)
	want := "a\n\nb\n\nc\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertDanglingTableCellClosesRow(t *testing.T) {
	// Without PrettyTables, td/tr are plain zero-margin block elements: a
	// dangling <td> still closes cleanly (optional-close recovery) and
	// each cell renders on its own line.
	got := convert(t, "<table><tr><td>a<td>b<tr><td>c</table>", nil)
	want := "a\nb\nc\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertPrettyTableRendersGrid(t *testing.T) {
	got := convert(t, "<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>", func(o *Options) {
		o.PrettyTables = true
	})
	if !strings.Contains(got, "A") || !strings.Contains(got, "1") || !strings.Contains(got, "+") {
		t.Errorf("Convert() with PrettyTables = %q, want a rendered box-drawing grid containing header/cell text", got)
	}
}

func TestConvertDeduplicatesLinks(t *testing.T) {
	got := convert(t, `<a href="https://h/x">a</a> <a href="https://h/x">b</a>`, func(o *Options) {
		o.Dedup = true
		o.LinkMarker = LinkMarkerSeq
	})
	want := "a[1] b[1]\n\n§ References\n\n• (1) https://h/x (link)\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertReaderModeShowSelector(t *testing.T) {
	got := convert(t, `<div><p>skip</p><p class="keep">visible</p></div>`, func(o *Options) {
		o.Show = selector.Compile("p.keep")
	})
	want := "visible\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertReaderModeHideSelector(t *testing.T) {
	got := convert(t, `<p>a</p><p class="ad">b</p><p>c</p>`, func(o *Options) {
		o.Hide = selector.Compile("p.ad")
	})
	want := "a\n\nc\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertWordWrap(t *testing.T) {
	got := convert(t, "<p>one two three four five</p>", func(o *Options) { o.Width = 10 })
	want := "one two\nthree four\nfive\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
}

