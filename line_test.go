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

	"github.com/crlsl/webdump/internal/tags"
)

func TestLineFormatterWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		width int
		text  string
		want  string
	}{
		{"fitsOnOneLine", 72, "one two three", "one two three"},
		{"breaksOnWordBoundary", 10, "one two three four five", "one two\nthree four\nfive"},
		{"singleWordLongerThanWidthIsNotSplit", 4, "elephant", "elephant"},
		{"exactWidthFitsWithoutBreaking", 10, "one two th", "one two th"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out strings.Builder
			lf := NewLineFormatter(&out, test.width)
			lf.PrintC(0, []byte(test.text))
			lf.Finish()
			got := strings.TrimSuffix(out.String(), "\n")
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("PrintC(%q) at width %d (-want +got):\n%s", test.text, test.width, diff)
			}
		})
	}
}

func TestLineFormatterNoTrailingSpaceBeforeForcedBreak(t *testing.T) {
	var out strings.Builder
	lf := NewLineFormatter(&out, 10)
	lf.PrintC(0, []byte("one two three four five"))
	lf.Finish()
	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		if strings.HasSuffix(line, " ") {
			t.Errorf("line %q ends with a trailing space", line)
		}
	}
}

func TestLineFormatterSetStyleFlushesWordUnderOldStyle(t *testing.T) {
	var out strings.Builder
	lf := NewLineFormatter(&out, 72)
	lf.ANSI = true
	lf.SetStyle(0)
	lf.PrintC(0, []byte("abc"))
	lf.SetStyle(tags.Bold)
	lf.PrintC(tags.Bold, []byte("def"))
	lf.Finish()
	got := out.String()
	// "abc" must be fully written (and the style transition flushed) before
	// the bold-on escape sequence for "def" appears.
	if i, j := strings.Index(got, "abc"), strings.Index(got, "def"); i < 0 || j < 0 || i > j {
		t.Errorf("output = %q, want \"abc\" before \"def\"", got)
	}
	if !strings.Contains(got, "\x1b[1m") {
		t.Errorf("output = %q, want a bold-on escape before \"def\"", got)
	}
}

func TestLineFormatterApplyMinBlankLinesIsIdempotentAtMax(t *testing.T) {
	var out strings.Builder
	lf := NewLineFormatter(&out, 72)
	lf.PrintC(0, []byte("a"))
	lf.flushWord() // force "a" onto the line so ApplyMinBlankLines sees it
	lf.ApplyMinBlankLines(2)
	lf.ApplyMinBlankLines(0) // must not reduce the already-pending requirement
	lf.PrintC(0, []byte("b"))
	lf.Finish()
	want := "a\n\n\nb\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("ApplyMinBlankLines (-want +got):\n%s", diff)
	}
}

func TestLineFormatterFinishCollapsesPendingMarginToOneNewline(t *testing.T) {
	var out strings.Builder
	lf := NewLineFormatter(&out, 72)
	lf.PrintC(0, []byte("a"))
	lf.flushWord()
	lf.ApplyMinBlankLines(3) // scheduled but never materialized by further content
	lf.Finish()
	want := "a\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("Finish() (-want +got):\n%s", diff)
	}
}

func TestLineFormatterEnterPreDisablesWrapAndCoalescing(t *testing.T) {
	var out strings.Builder
	lf := NewLineFormatter(&out, 4)
	lf.EnterPre()
	lf.WriteLiteral(0, []byte("  x\n  much longer than four cells"))
	lf.ExitPre()
	lf.Finish()
	want := "  x\n  much longer than four cells\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("WriteLiteral in Pre (-want +got):\n%s", diff)
	}
}
