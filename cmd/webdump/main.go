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

// Command webdump renders HTML on stdin as word-wrapped plain text on
// stdout, in the manner of lynx -dump.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/ssor/bom"

	"github.com/crlsl/webdump"
	"github.com/crlsl/webdump/selector"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("webdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [-8adiIlrx] [-b basehref] [-s selector] [-u selector] [-W file] [-w termwidth]\n", fs.Name())
		fs.PrintDefaults()
	}

	utf8Flag := fs.Bool("8", false, "use UTF-8 bullet and ruler glyphs")
	ansiFlag := fs.Bool("a", false, "toggle ANSI styling emission")
	baseFlag := fs.String("b", "", "set initial base href")
	dedupFlag := fs.Bool("d", false, "toggle link deduplication")
	inlineSeqFlag := fs.Bool("i", false, "toggle inline [n] link markers")
	inlineURLFlag := fs.Bool("I", false, "toggle inline full-URL link markers")
	referencesFlag := fs.Bool("l", false, "toggle end-of-document References section")
	wrapFlag := fs.Bool("r", false, "toggle word-wrap")
	showSel := fs.String("s", "", "reader mode: only emit content under matches of selector")
	hideSel := fs.String("u", "", "hide matches of selector")
	showSelFile := fs.String("W", "", "read the -s selector list from file instead")
	width := fs.Int("w", 72, "terminal width in cells")
	manifestFlag := fs.Bool("x", false, "emit type\\turl resource manifest on fd 3")
	prettyFlag := fs.Bool("T", false, "render tables with box-drawing instead of inline text")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "webdump: unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return 1
	}

	opts := webdump.DefaultOptions()
	opts.UTF8 = *utf8Flag
	if *ansiFlag {
		opts.ANSI = !opts.ANSI
	}
	if *dedupFlag {
		opts.Dedup = !opts.Dedup
	}
	if *wrapFlag {
		opts.Wrap = !opts.Wrap
	}
	if *referencesFlag {
		opts.References = !opts.References
	}
	opts.PrettyTables = *prettyFlag
	opts.Width = *width
	opts.BaseHREF = *baseFlag

	switch {
	case *inlineURLFlag:
		opts.LinkMarker = webdump.LinkMarkerURL
	case *inlineSeqFlag:
		opts.LinkMarker = webdump.LinkMarkerSeq
	}

	showSrc := *showSel
	if *showSelFile != "" {
		data, err := os.ReadFile(*showSelFile)
		if err != nil {
			fmt.Fprintf(stderr, "webdump: %s\n", err)
			return 1
		}
		showSrc = string(data)
	}
	if showSrc != "" {
		opts.Show = selector.Compile(showSrc)
	}
	if *hideSel != "" {
		opts.Hide = selector.Compile(*hideSel)
	}

	var manifest *os.File
	if *manifestFlag {
		manifest = os.NewFile(3, "manifest")
		if manifest != nil {
			opts.Manifest = manifest
		}
	}

	in, err := bom.NewReaderWithoutBom(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "webdump: %s\n", err)
		return 1
	}

	if err := webdump.Convert(in, stdout, opts); err != nil {
		fmt.Fprintf(stderr, "webdump: %s\n", errors.Cause(err))
		return 1
	}
	return 0
}
