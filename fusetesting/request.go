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

// Package fusetesting provides support for testing code that speaks the
// kernel's FUSE wire format, including a request encoder that builds the
// byte-for-byte messages the kernel would send.
package fusetesting

import (
	"bytes"
	"io"
	"unsafe"

	"github.com/jacobsa/fusewire/internal/buffer"
	"github.com/jacobsa/fusewire/internal/fusekernel"
)

// RequestBuilder assembles a request message in the kernel's layout: the
// fixed header, then an opcode-specific argument region. The header's length
// field is stamped when the bytes are taken out, so callers normally don't
// think about it, but tests for framing errors can override it.
//
// Use NewRequest to create one.
type RequestBuilder struct {
	buf bytes.Buffer
}

// NewRequest starts a message with the supplied header fields. The header's
// Len is filled in later by Bytes.
func NewRequest(opcode fusekernel.Opcode, unique uint64, nodeid uint64) *RequestBuilder {
	b := &RequestBuilder{}

	hdr := fusekernel.InHeader{
		Opcode: opcode,
		Unique: unique,
		Nodeid: nodeid,
	}

	b.appendStruct(unsafe.Pointer(&hdr), unsafe.Sizeof(hdr))
	return b
}

// SetCreds fills in the credentials fields of the header.
func (b *RequestBuilder) SetCreds(uid, gid, pid uint32) *RequestBuilder {
	hdr := b.header()
	hdr.Uid = uid
	hdr.Gid = gid
	hdr.Pid = pid
	return b
}

// Append the raw memory of a fixed-size argument struct.
func (b *RequestBuilder) AppendStruct(p unsafe.Pointer, size uintptr) *RequestBuilder {
	b.appendStruct(p, size)
	return b
}

// AppendName appends a NUL-terminated name.
func (b *RequestBuilder) AppendName(name string) *RequestBuilder {
	b.buf.WriteString(name)
	b.buf.WriteByte(0)
	return b
}

// AppendBytes appends a raw payload.
func (b *RequestBuilder) AppendBytes(p []byte) *RequestBuilder {
	b.buf.Write(p)
	return b
}

// Bytes returns the assembled message, with the header's length field set to
// the true total length.
func (b *RequestBuilder) Bytes() []byte {
	return b.BytesWithLen(uint32(b.buf.Len()))
}

// BytesWithLen is like Bytes, but lies: the header's length field is set to
// the supplied value regardless of the actual length. Useful for testing
// framing validation.
func (b *RequestBuilder) BytesWithLen(n uint32) []byte {
	b.header().Len = n

	// Copy so that the builder may keep being used.
	return append([]byte(nil), b.buf.Bytes()...)
}

// Message returns the assembled message loaded into an InMessage, as if it
// had been read from the kernel.
func (b *RequestBuilder) Message() (*buffer.InMessage, error) {
	return messageFor(b.Bytes())
}

func (b *RequestBuilder) header() *fusekernel.InHeader {
	return (*fusekernel.InHeader)(unsafe.Pointer(&b.buf.Bytes()[0]))
}

func (b *RequestBuilder) appendStruct(p unsafe.Pointer, size uintptr) {
	b.buf.Write((*[4096]byte)(p)[:size])
}

// messageFor initializes an InMessage from a raw message, delivered in a
// single read as the kernel device does.
func messageFor(p []byte) (*buffer.InMessage, error) {
	m := buffer.NewInMessage()
	if err := m.Init(oneShotReader{p}); err != nil {
		return nil, err
	}

	return m, nil
}

// MessageFor is the exported form of messageFor, for tests that build raw
// bytes by hand.
func MessageFor(p []byte) (*buffer.InMessage, error) {
	return messageFor(p)
}

// oneShotReader delivers its entire contents in the first call to Read, like
// a datagram. An empty message yields an immediate EOF.
type oneShotReader struct {
	p []byte
}

func (r oneShotReader) Read(p []byte) (int, error) {
	if len(r.p) == 0 {
		return 0, io.EOF
	}

	n := copy(p, r.p)
	return n, nil
}
