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
	"bytes"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// tableCollector buffers one <table>'s cell text while opts.PrettyTables is
// set, bypassing the element stack entirely for everything between <table>
// and its matching close: tr/td/th boundaries (and <br> inside a cell) are
// tracked here instead, any other tag inside the table is consumed without
// effect so that only its text reaches the cell, and the whole grid is
// rendered in one shot through tablewriter when the table closes.
type tableCollector struct {
	rows   [][]string
	row    []string
	cell   buffer
	inCell bool
}

func (tc *tableCollector) open(name string) {
	switch name {
	case "tr":
		tc.flushRow()
	case "td", "th":
		tc.flushCell()
		tc.inCell = true
	case "br":
		if tc.inCell {
			tc.cell.AppendByte('\n')
		}
	}
}

func (tc *tableCollector) text(data []byte) {
	if !tc.inCell {
		return
	}
	tc.cell.Append(data)
}

func (tc *tableCollector) close(name string) {
	switch name {
	case "td", "th":
		tc.flushCell()
		tc.inCell = false
	case "tr":
		tc.flushRow()
	}
}

func (tc *tableCollector) flushCell() {
	if !tc.inCell {
		return
	}
	tc.row = append(tc.row, collapseCellText(tc.cell.String()))
	tc.cell.Reset()
}

func (tc *tableCollector) flushRow() {
	if len(tc.row) > 0 {
		tc.rows = append(tc.rows, tc.row)
		tc.row = nil
	}
}

// collapseCellText runs HTML-style whitespace coalescing over one cell's
// raw text, since the collector never passes cell content through
// [LineFormatter.PrintC].
func collapseCellText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tableStartTag diverts a start-tag event into the active table collector,
// opening one if name is "table" and opts.PrettyTables is set. It reports
// whether the event was consumed and should not reach the normal
// stack-based handling.
func (e *Engine) tableStartTag(name string) bool {
	if !e.opts.PrettyTables {
		return false
	}
	if e.tableBuf == nil {
		if name != "table" {
			return false
		}
		e.tableBuf = &tableCollector{}
		return false // let the "table" element itself push/blockStart normally
	}
	e.tableBuf.open(name)
	return true
}

// tableEndTag diverts a close-tag event into the active table collector. It
// reports whether the event was consumed; a "table" close renders and
// clears the collector but is still reported unconsumed so the caller also
// runs its normal stack-based close.
func (e *Engine) tableEndTag(name string) bool {
	if e.tableBuf == nil {
		return false
	}
	if name == "table" {
		e.renderTableCollector()
		return false
	}
	e.tableBuf.close(name)
	return true
}

// renderTableCollector flushes any in-progress row/cell, renders the
// buffered grid with tablewriter, and writes it as literal block content:
// a pretty table's box-drawing layout must never be rewrapped.
func (e *Engine) renderTableCollector() {
	tc := e.tableBuf
	e.tableBuf = nil
	tc.flushCell()
	tc.flushRow()
	if len(tc.rows) == 0 {
		return
	}

	var out bytes.Buffer
	tw := tablewriter.NewWriter(&out)
	if len(tc.rows) > 1 {
		tw.SetHeader(tc.rows[0])
		for _, row := range tc.rows[1:] {
			tw.Append(row)
		}
	} else {
		tw.Append(tc.rows[0])
	}
	tw.Render()

	e.lf.WriteLiteral(0, bytes.TrimRight(out.Bytes(), "\n"))
	e.stack.MarkHasData()
}
