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

// Package fusewire speaks the kernel's FUSE wire protocol: it decodes raw
// request messages into typed operations and encodes typed replies back into
// the exact binary layout the kernel expects.
//
// The primary elements of interest are:
//
//  *  The operation types in the fuseops package, one per opcode family,
//     which a file system pattern-matches on to implement its semantics.
//
//  *  Connection, which reads requests from an established FUSE transport
//     (such as a /dev/fuse file descriptor), hands out decoded ops, and
//     writes the corresponding replies and notifications.
//
// Mounting, the INIT handshake, and filesystem semantics are out of scope:
// this package assumes an established session and takes responsibility only
// for getting the bytes right and failing safely on input it doesn't
// understand.
package fusewire
