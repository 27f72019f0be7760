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

// buffer is a growable byte buffer used for the line formatter's pending
// word and the pretty-table collector's current cell text. Go's append
// already doubles capacity on growth, so buffer is a thin named wrapper
// rather than a hand-rolled allocator.
type buffer struct {
	b []byte
}

// Reset clears the buffer's contents without releasing its capacity.
func (buf *buffer) Reset() {
	buf.b = buf.b[:0]
}

// AppendByte appends a single byte.
func (buf *buffer) AppendByte(c byte) {
	buf.b = append(buf.b, c)
}

// Append appends p.
func (buf *buffer) Append(p []byte) {
	buf.b = append(buf.b, p...)
}

// Len returns the number of bytes currently held.
func (buf *buffer) Len() int {
	return len(buf.b)
}

// Bytes returns the buffer's current contents. The slice is invalidated by
// the next mutating call.
func (buf *buffer) Bytes() []byte {
	return buf.b
}

// String returns a copy of the buffer's current contents.
func (buf *buffer) String() string {
	return string(buf.b)
}
