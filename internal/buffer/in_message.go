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
	"bytes"
	"io"
	"unsafe"

	"github.com/jacobsa/fusewire/internal/fusekernel"
)

// MaxWriteSize is the maximum fuse write payload we are willing to accept
// from the kernel.
const MaxWriteSize = 1 << 17

// All requests read from the kernel, regardless of opcode, are at most this
// many bytes: a header, a fixed-size argument struct, trailing names, and at
// most MaxWriteSize bytes of payload.
const bufSize = MaxWriteSize + 4096

const inHeaderSize = int(unsafe.Sizeof(fusekernel.InHeader{}))

// An incoming message from the kernel, including the leading
// fusekernel.InHeader struct. Provides storage for one message and cursored
// access to its argument region.
//
// Must be created with NewInMessage.
type InMessage struct {
	// The contents of the message, truncated to the byte count delivered by
	// the transport in Init.
	//
	// INVARIANT: len(contents) <= bufSize
	contents []byte

	// The unconsumed tail of the argument region.
	//
	// INVARIANT: remaining is a suffix of contents[inHeaderSize:]
	remaining []byte

	storage [bufSize]byte
}

// NewInMessage creates a message whose storage is large enough for any
// request the kernel may send.
func NewInMessage() *InMessage {
	return new(InMessage)
}

// Init fills the message with the data returned by a single call to r.Read.
// The first call to Consume will consume the bytes directly after the
// fusekernel.InHeader struct, up to the total byte count read.
//
// Init itself does not validate the header; messages shorter than the fixed
// header are accepted here and rejected by the decoder, which can attach
// proper context.
func (m *InMessage) Init(r io.Reader) error {
	n, err := r.Read(m.storage[:])
	if err != nil {
		return err
	}

	m.contents = m.storage[:n]
	if n > inHeaderSize {
		m.remaining = m.contents[inHeaderSize:]
	} else {
		m.remaining = nil
	}

	return nil
}

// Header returns a reference to the header read in the most recent call to
// Init. The reference is meaningful only when Len() is at least the header
// size.
func (m *InMessage) Header() *fusekernel.InHeader {
	return (*fusekernel.InHeader)(unsafe.Pointer(&m.storage[0]))
}

// Len returns the total number of bytes read by Init, header included.
func (m *InMessage) Len() int {
	return len(m.contents)
}

// Remaining returns the number of unconsumed argument bytes.
func (m *InMessage) Remaining() int {
	return len(m.remaining)
}

// Consumed returns the byte offset of the cursor from the start of the
// message, header included.
func (m *InMessage) Consumed() int {
	return len(m.contents) - len(m.remaining)
}

// Consume consumes the next n bytes from the argument region, returning a nil
// pointer if fewer than n bytes are available. The returned memory is valid
// only until the next call to Init.
func (m *InMessage) Consume(n uintptr) unsafe.Pointer {
	if n == 0 || uintptr(len(m.remaining)) < n {
		return nil
	}

	p := unsafe.Pointer(&m.remaining[0])
	m.remaining = m.remaining[n:]
	return p
}

// ConsumeBytes is equivalent to Consume, except it returns a slice of bytes
// aliasing the message's storage. The result is nil if fewer than n bytes
// are available; n may be zero.
func (m *InMessage) ConsumeBytes(n uintptr) []byte {
	if uintptr(len(m.remaining)) < n {
		return nil
	}

	b := m.remaining[:n:n]
	m.remaining = m.remaining[n:]
	return b
}

// ConsumeString consumes a NUL-terminated string from the argument region,
// not including the terminator, returning !ok if no terminator is present in
// the remaining bytes. The result is a copy; it does not alias the message's
// storage.
func (m *InMessage) ConsumeString() (s string, ok bool) {
	i := bytes.IndexByte(m.remaining, '\x00')
	if i < 0 {
		return
	}

	s = string(m.remaining[:i])
	m.remaining = m.remaining[i+1:]
	ok = true
	return
}
