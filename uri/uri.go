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

// Package uri implements a small, bounded RFC 3986 URI parser, formatter,
// and relative reference resolver.
//
// It is deliberately narrower than [net/url]: every component has a fixed
// maximum length, overflowing a component is a parse error rather than a
// silent truncation, and Resolve implements the RFC 3986 §5.2.2
// "transform references" algorithm directly rather than through
// [net/url.URL.ResolveReference]'s broader, unbounded semantics.
package uri

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Component size limits. These bound the cost of parsing adversarial input
// and match the "bounded-size overflow" failure mode in the design.
const (
	MaxScheme   = 64
	MaxUserinfo = 256
	MaxHost     = 256
	MaxPath     = 2048
	MaxQuery    = 2048
	MaxFragment = 2048
)

// ErrOverflow is returned (wrapped with the offending component's name) when
// a parsed component would exceed its maximum length.
var ErrOverflow = errors.New("uri: component too long")

// ErrInvalidPort is returned when a port is present but is not a decimal
// integer in 1…65535.
var ErrInvalidPort = errors.New("uri: invalid port")

// URI is a parsed, componentized URI reference. The zero value is the empty
// relative reference.
type URI struct {
	Scheme   string // lowercase, without trailing ':'
	Userinfo string // without trailing '@'
	Host     string // without brackets for IPv6 literals
	IsIPv6   bool   // true if Host was written in "[...]" form
	Port     string // decimal digits only, without leading ':'
	Path     string
	Query    string // without leading '?'
	Fragment string // without leading '#'

	HasAuthority bool // true if an authority component (even if empty) was present
}

// HasScheme reports whether the URI has a non-empty scheme.
func (u URI) HasScheme() bool { return u.Scheme != "" }

// cursor is a byte-offset reader over an ASCII-ish URI string.
type cursor struct {
	s   string
	pos int
}

func (c *cursor) eof() bool { return c.pos >= len(c.s) }

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.s[c.pos]
}

// takeUntil consumes and returns the bytes up to (not including) the first
// occurrence of any byte in stop, or to the end of the string.
func (c *cursor) takeUntil(stop string) string {
	start := c.pos
	for !c.eof() && strings.IndexByte(stop, c.s[c.pos]) < 0 {
		c.pos++
	}
	return c.s[start:c.pos]
}

// Parse parses an ASCII URI reference into its components.
//
// Parse accepts absolute URIs (with scheme), protocol-relative references
// ("//host/path"), and relative references (paths, queries, fragments
// only). It does not perform percent-decoding; components are returned
// exactly as they appear in s, modulo the structural delimiters consumed
// during parsing.
func Parse(s string) (URI, error) {
	var u URI
	c := &cursor{s: s}

	if strings.HasPrefix(s, "//") {
		c.pos = 2
		if err := parseAuthority(c, &u); err != nil {
			return URI{}, err
		}
	} else if scheme, ok := scanScheme(s); ok {
		u.Scheme = strings.ToLower(scheme)
		if len(u.Scheme) > MaxScheme {
			return URI{}, errors.Wrap(ErrOverflow, "scheme")
		}
		c.pos = len(scheme) + 1
		if strings.HasPrefix(c.s[c.pos:], "//") {
			c.pos += 2
			if err := parseAuthority(c, &u); err != nil {
				return URI{}, err
			}
		}
	}

	u.Path = c.takeUntil("?#")
	if len(u.Path) > MaxPath {
		return URI{}, errors.Wrap(ErrOverflow, "path")
	}
	if c.peek() == '?' {
		c.pos++
		u.Query = c.takeUntil("#")
		if len(u.Query) > MaxQuery {
			return URI{}, errors.Wrap(ErrOverflow, "query")
		}
	}
	if c.peek() == '#' {
		c.pos++
		u.Fragment = c.s[c.pos:]
		if len(u.Fragment) > MaxFragment {
			return URI{}, errors.Wrap(ErrOverflow, "fragment")
		}
	}
	return u, nil
}

// scanScheme reports whether s begins with "ALPHA (ALPHA|DIGIT|+|-|.)* :"
// and, if so, returns the scheme text (without the colon).
func scanScheme(s string) (string, bool) {
	i := 0
	if i >= len(s) || !isAlpha(s[i]) {
		return "", false
	}
	i++
	for i < len(s) && (isAlpha(s[i]) || isDigit(s[i]) || s[i] == '+' || s[i] == '-' || s[i] == '.') {
		i++
	}
	if i >= len(s) || s[i] != ':' {
		return "", false
	}
	return s[:i], true
}

func isAlpha(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// parseAuthority parses "userinfo@host:port" starting at c.pos, which must
// be positioned just after the "//" marker.
func parseAuthority(c *cursor, u *URI) error {
	u.HasAuthority = true
	authority := c.takeUntil("/?#")

	rest := authority
	if at := strings.LastIndexByte(rest, '@'); at >= 0 {
		u.Userinfo = rest[:at]
		if len(u.Userinfo) > MaxUserinfo {
			return errors.Wrap(ErrOverflow, "userinfo")
		}
		rest = rest[at+1:]
	}

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return errors.New("uri: unterminated IPv6 literal")
		}
		u.Host = rest[1:end]
		u.IsIPv6 = true
		rest = rest[end+1:]
		if strings.HasPrefix(rest, ":") {
			u.Port = rest[1:]
		} else if rest != "" {
			return errors.New("uri: trailing data after IPv6 literal")
		}
	} else if colon := strings.IndexByte(rest, ':'); colon >= 0 {
		u.Host = rest[:colon]
		u.Port = rest[colon+1:]
	} else {
		u.Host = rest
	}

	if len(u.Host) > MaxHost {
		return errors.Wrap(ErrOverflow, "host")
	}
	if u.Port != "" {
		n, err := strconv.Atoi(u.Port)
		if err != nil || n < 1 || n > 65535 {
			return ErrInvalidPort
		}
	}
	return nil
}

// Format serializes u back to its canonical string form, emitting
// separators only for components that are present.
func Format(u URI) string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}
	if u.HasAuthority || u.Host != "" {
		b.WriteString("//")
		if u.Userinfo != "" {
			b.WriteString(u.Userinfo)
			b.WriteByte('@')
		}
		if u.IsIPv6 {
			b.WriteByte('[')
			b.WriteString(u.Host)
			b.WriteByte(']')
		} else {
			b.WriteString(u.Host)
		}
		if u.Port != "" {
			b.WriteByte(':')
			b.WriteString(u.Port)
		}
	}
	b.WriteString(u.Path)
	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// Resolve implements RFC 3986 §5.2.2: it transforms the relative reference
// ref against the absolute base b and returns the resulting absolute URI.
//
// Resolve does not perform the §5.2.4 dot-segment removal beyond the
// simple final-segment replacement merge does on its own; callers that
// need normalized paths should run the result through their own
// remove_dot_segments pass.
func Resolve(base, ref URI) (URI, error) {
	var out URI
	out.Fragment = ref.Fragment

	if ref.HasScheme() || ref.Host != "" {
		out.Scheme = ref.Scheme
		if out.Scheme == "" {
			out.Scheme = base.Scheme
		}
		out.Userinfo = ref.Userinfo
		out.Host = ref.Host
		out.IsIPv6 = ref.IsIPv6
		out.Port = ref.Port
		out.HasAuthority = ref.HasAuthority
		out.Path = ref.Path
		out.Query = ref.Query
		return checkOverflow(out)
	}

	out.Scheme = base.Scheme
	out.Userinfo = base.Userinfo
	out.Host = base.Host
	out.IsIPv6 = base.IsIPv6
	out.Port = base.Port
	out.HasAuthority = base.HasAuthority

	switch {
	case ref.Path == "":
		out.Path = base.Path
		if ref.Query != "" {
			out.Query = ref.Query
		} else {
			out.Query = base.Query
		}
	case strings.HasPrefix(ref.Path, "/"):
		out.Path = ref.Path
		out.Query = ref.Query
	default:
		out.Path = mergePath(base, ref.Path)
		out.Query = ref.Query
	}
	return checkOverflow(out)
}

// mergePath replaces the final segment of base.Path with relPath, per RFC
// 3986 §5.3's "merge" routine for references with an authority or a
// non-empty base path.
func mergePath(base URI, relPath string) string {
	if base.HasAuthority && base.Path == "" {
		return "/" + relPath
	}
	if i := strings.LastIndexByte(base.Path, '/'); i >= 0 {
		return base.Path[:i+1] + relPath
	}
	return relPath
}

func checkOverflow(u URI) (URI, error) {
	switch {
	case len(u.Scheme) > MaxScheme:
		return URI{}, errors.Wrap(ErrOverflow, "scheme")
	case len(u.Userinfo) > MaxUserinfo:
		return URI{}, errors.Wrap(ErrOverflow, "userinfo")
	case len(u.Host) > MaxHost:
		return URI{}, errors.Wrap(ErrOverflow, "host")
	case len(u.Path) > MaxPath:
		return URI{}, errors.Wrap(ErrOverflow, "path")
	case len(u.Query) > MaxQuery:
		return URI{}, errors.Wrap(ErrOverflow, "query")
	case len(u.Fragment) > MaxFragment:
		return URI{}, errors.Wrap(ErrOverflow, "fragment")
	}
	return u, nil
}

// ResolveString is a convenience wrapper that parses both arguments and
// returns the formatted absolute result.
func ResolveString(base, ref string) (string, error) {
	b, err := Parse(base)
	if err != nil {
		return "", errors.Wrap(err, "parse base")
	}
	r, err := Parse(ref)
	if err != nil {
		return "", errors.Wrap(err, "parse reference")
	}
	out, err := Resolve(b, r)
	if err != nil {
		return "", err
	}
	return Format(out), nil
}
