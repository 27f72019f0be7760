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

import "github.com/pkg/errors"

// Sentinel error kinds. A caller distinguishes them with errors.Is (or
// pkg/errors.Cause for a wrapped instance); the engine and cmd/webdump
// never return a bare fmt.Errorf for one of these conditions.
var (
	// ErrConfig marks a bad option: an invalid base URL or width < 1.
	ErrConfig = errors.New("webdump: invalid configuration")

	// ErrAlloc marks a resource cap being hit — in practice only the
	// element stack's MaxStackDepth, since Go's allocator has no
	// recoverable out-of-memory signal of its own.
	ErrAlloc = errors.New("webdump: resource limit exceeded")

	// ErrIO marks a fatal error from the output sink.
	ErrIO = errors.New("webdump: output write failed")
)

// wrapConfig and wrapIO attach a sentinel so callers can classify the
// failure with errors.Is, keeping the underlying cause's text available as
// context. The sentinel is the Cause, matching the uri package's own
// errors.Wrap(ErrOverflow, "scheme") pattern: wrapping the cause itself
// as the message (as a prior version of this code did) buries the
// sentinel inside the message string instead of the error chain, so
// errors.Is(err, ErrConfig) would never match.
func wrapConfig(cause error) error { return errors.Wrap(ErrConfig, cause.Error()) }
func wrapIO(cause error) error     { return errors.Wrap(ErrIO, cause.Error()) }
func wrapAlloc(cause error) error  { return errors.Wrap(ErrAlloc, cause.Error()) }
