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

// Package webdump renders an HTML document as word-wrapped, optionally
// ANSI-styled plain text suitable for a fixed-width terminal.
//
// The package is built around [Engine], a single value that owns every
// piece of mutable state the conversion needs: the open-element stack, the
// current output line, the link registry, and the base URI used to
// resolve relative links. Engine is driven by a [TokenSource], an
// adapter over an HTML tokenizer (the default implementation wraps
// [golang.org/x/net/html.Tokenizer]).
package webdump
