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
	"io"

	"golang.org/x/net/html"
)

// EventKind identifies the kind of [Event] a [TokenSource] delivers.
type EventKind int

const (
	// EventEOF marks the end of the document; Next returns it alongside
	// io.EOF and no caller should inspect the other Event fields.
	EventEOF EventKind = iota
	EventStartTag
	EventSelfClosingTag
	EventEndTag
	EventText
)

// Attr is one attribute on a start or self-closing tag, with entity
// references in its value already resolved to UTF-8.
type Attr struct {
	Key, Val string
}

// Event is one step of document-order HTML structure, the engine's own
// narrowing of the tag/attribute/character-data stream a tokenizer
// produces.
type Event struct {
	Kind        EventKind
	Name        string // lowercased tag name; unset for EventText
	SelfClosing bool
	Attrs       []Attr
	Data        []byte // character data, valid only for EventText
}

// TokenSource is the engine's tokenizer abstraction: anything that can
// deliver document structure one [Event] at a time satisfies it. The
// engine never talks to golang.org/x/net/html directly outside of
// [NewHTMLTokenSource], so an alternate tokenizer can be substituted
// without touching the layout driver.
type TokenSource interface {
	// Next returns the next event. At end of document it returns a zero
	// Event and io.EOF. Any other error is fatal to the conversion.
	Next() (Event, error)
}

// htmlTokenSource adapts golang.org/x/net/html.Tokenizer to
// [TokenSource]. Comments and doctypes are consumed and skipped; CDATA
// sections surface as plain text, matching the teacher's own
// internal/normhtml treatment of the same tokenizer.
type htmlTokenSource struct {
	tok *html.Tokenizer
}

// NewHTMLTokenSource wraps r in a golang.org/x/net/html.Tokenizer-backed
// [TokenSource]. The tokenizer already resolves named and numeric
// character references into UTF-8, so no separate entity decoder is
// needed.
func NewHTMLTokenSource(r io.Reader) TokenSource {
	tok := html.NewTokenizer(r)
	tok.AllowCDATA(true)
	return &htmlTokenSource{tok: tok}
}

func (ts *htmlTokenSource) Next() (Event, error) {
	for {
		switch ts.tok.Next() {
		case html.ErrorToken:
			err := ts.tok.Err()
			if err == nil {
				err = io.EOF
			}
			return Event{}, err
		case html.CommentToken, html.DoctypeToken:
			continue
		case html.TextToken:
			return Event{Kind: EventText, Data: ts.tok.Text()}, nil
		case html.StartTagToken:
			return ts.tagEvent(false), nil
		case html.SelfClosingTagToken:
			return ts.tagEvent(true), nil
		case html.EndTagToken:
			name, _ := ts.tok.TagName()
			return Event{Kind: EventEndTag, Name: string(name)}, nil
		default:
			continue
		}
	}
}

// tagEvent reads the current start or self-closing tag's name and
// attributes. selfClosing reflects only the literal "/>" the tokenizer
// saw; a void element written without the slash (e.g. plain "<br>")
// still arrives as EventStartTag here — the engine decides void handling
// from its own tag table rather than from tokenizer punctuation.
func (ts *htmlTokenSource) tagEvent(selfClosing bool) Event {
	nameBytes, hasAttr := ts.tok.TagName()
	name := string(nameBytes)
	var attrs []Attr
	if hasAttr {
		for {
			k, v, more := ts.tok.TagAttr()
			attrs = append(attrs, Attr{Key: string(k), Val: string(v)})
			if !more {
				break
			}
		}
	}
	kind := EventStartTag
	if selfClosing {
		kind = EventSelfClosingTag
	}
	return Event{Kind: kind, Name: name, SelfClosing: selfClosing, Attrs: attrs}
}
