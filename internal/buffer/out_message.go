// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package buffer

import (
	"unsafe"

	"github.com/jacobsa/fusewire/internal/fusekernel"
)

// MaxReadSize is the maximum read payload we are willing to send to the
// kernel in one reply.
const MaxReadSize = 1 << 17

const outHeaderSize = unsafe.Sizeof(fusekernel.OutHeader{})

// We size out messages to be large enough to hold a header for the response
// plus the largest read that may come in.
const outMessageSize = outHeaderSize + MaxReadSize

// OutMessage provides a mechanism for constructing a single contiguous fuse
// message from multiple segments, where the first segment is always a
// fusekernel.OutHeader message.
//
// Must be initialized with Reset.
type OutMessage struct {
	offset  uintptr
	storage [outMessageSize]byte
}

// Reset resets the message so that it is ready to be used again. Afterward,
// the contents are solely a zeroed header.
func (m *OutMessage) Reset() {
	m.offset = outHeaderSize
	*m.OutHeader() = fusekernel.OutHeader{}
}

// OutHeader returns a pointer to the header at the start of the message.
func (m *OutMessage) OutHeader() *fusekernel.OutHeader {
	return (*fusekernel.OutHeader)(unsafe.Pointer(&m.storage[0]))
}

// Grow grows the message by the supplied number of bytes, returning a
// pointer to the start of the new segment, which is zeroed. If there is no
// space left, it returns the nil pointer.
func (m *OutMessage) Grow(size uintptr) unsafe.Pointer {
	p := m.GrowNoZero(size)
	if p != nil {
		b := (*[outMessageSize]byte)(p)[:size]
		for i := range b {
			b[i] = 0
		}
	}

	return p
}

// GrowNoZero is equivalent to Grow, except the new segment is not zeroed.
// Use with caution!
func (m *OutMessage) GrowNoZero(size uintptr) unsafe.Pointer {
	if outMessageSize-m.offset < size {
		return nil
	}

	p := unsafe.Pointer(&m.storage[m.offset])
	m.offset += size

	return p
}

// ShrinkTo shrinks the message to the given size. It panics if n is larger
// than Len() or smaller than the header size.
func (m *OutMessage) ShrinkTo(n int) {
	if n < int(outHeaderSize) || n > m.Len() {
		panic("ShrinkTo: size out of range")
	}

	m.offset = uintptr(n)
}

// Append is equivalent to growing by the length of p, then copying p over
// the new segment. It panics if there is not enough room available.
func (m *OutMessage) Append(p []byte) {
	if len(p) == 0 {
		return
	}

	dst := m.GrowNoZero(uintptr(len(p)))
	if dst == nil {
		panic("Append: no space available")
	}

	copy((*[outMessageSize]byte)(dst)[:len(p)], p)
}

// AppendString is equivalent to growing by the length of s, then copying s
// over the new segment. It panics if there is not enough room available.
func (m *OutMessage) AppendString(s string) {
	if len(s) == 0 {
		return
	}

	dst := m.GrowNoZero(uintptr(len(s)))
	if dst == nil {
		panic("AppendString: no space available")
	}

	copy((*[outMessageSize]byte)(dst)[:len(s)], s)
}

// Len returns the current size of the buffer, header included.
func (m *OutMessage) Len() int {
	return int(m.offset)
}

// Bytes returns a reference to the current contents of the buffer, header
// included.
func (m *OutMessage) Bytes() []byte {
	return m.storage[:m.offset]
}
