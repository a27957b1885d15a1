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

package fuseops

import (
	"fmt"

	"github.com/jacobsa/fusewire/internal/fusekernel"
)

// DecodeErrorKind classifies the ways in which a request read from the
// kernel can fail to decode.
type DecodeErrorKind int

const (
	// The message ended before the fixed-size structure or name being read.
	Truncated DecodeErrorKind = iota

	// A trailing name was not NUL-terminated within the message.
	InvalidString

	// The header's length field disagrees with the number of bytes actually
	// delivered for the message.
	LengthMismatch

	// Bytes remained after the opcode's decoder consumed everything it
	// understands.
	TrailingData

	// The opcode is not one this package knows how to decode.
	UnknownOpcode

	// A fixed-size argument carried a value that contradicts the message
	// around it, e.g. a write size that disagrees with the payload length.
	MalformedArgument
)

func (k DecodeErrorKind) String() string {
	switch k {
	case Truncated:
		return "Truncated"

	case InvalidString:
		return "InvalidString"

	case LengthMismatch:
		return "LengthMismatch"

	case TrailingData:
		return "TrailingData"

	case UnknownOpcode:
		return "UnknownOpcode"

	case MalformedArgument:
		return "MalformedArgument"
	}

	return fmt.Sprintf("DecodeErrorKind(%d)", int(k))
}

// A DecodeError describes a single request that could not be turned into an
// op. It is scoped to that request: the connection remains usable, and the
// appropriate response is an error reply for the request's unique ID.
type DecodeError struct {
	Kind DecodeErrorKind

	// The raw opcode from the request header. For UnknownOpcode errors this
	// is the unrecognized value itself.
	Opcode uint32

	// The byte offset into the message at which the problem was detected,
	// counted from the start of the header.
	Offset int

	// Optional free-form context.
	Detail string
}

func (e *DecodeError) Error() string {
	s := fmt.Sprintf(
		"decode %s: %v at offset %d",
		fusekernel.Opcode(e.Opcode),
		e.Kind,
		e.Offset)

	if e.Detail != "" {
		s += ": " + e.Detail
	}

	return s
}
