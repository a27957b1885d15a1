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
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/jacobsa/fusewire/internal/fusekernel"
)

////////////////////////////////////////////////////////////////////////
// Simple types
////////////////////////////////////////////////////////////////////////

// A 64-bit number used to uniquely identify a file or directory in the file
// system. File systems may mint inode IDs with any value except for
// RootInodeID.
//
// This corresponds to struct inode::i_no in the VFS layer.
// (Cf. http://goo.gl/tvYyQt)
type InodeID uint64

// A distinguished inode ID that identifies the root of the file system, e.g.
// in a request to OpenDir or LookUpInode. Unlike all other inode IDs, which
// are minted by the file system, the FUSE VFS layer may send a request for
// this ID without the file system ever having referenced it in a previous
// response.
const RootInodeID = 1

func init() {
	// Make sure the constant above is correct. We do this at runtime rather
	// than defining the constant in terms of fusekernel.RootID so that the
	// constant can stay untyped and usable as e.g. an array index.
	if RootInodeID != fusekernel.RootID {
		panic(
			fmt.Sprintf(
				"Oops, RootInodeID is wrong: %v vs. %v",
				RootInodeID,
				fusekernel.RootID))
	}
}

// A generation number for an inode. Irrelevant for file systems that won't be
// exported over NFS. For those that will and that reuse inode IDs when they
// become free, the generation number must change when an ID is reused.
//
// This corresponds to struct inode::i_generation in the VFS layer.
// (Cf. http://goo.gl/tvYyQt)
type GenerationNumber uint64

// An opaque 64-bit number used to identify a particular open handle to a file
// or directory.
//
// This corresponds to fuse_file_info::fh.
type HandleID uint64

// An offset into an open directory handle. This is opaque to FUSE, and can be
// used for whatever purpose the file system desires. See notes on
// ReadDirOp.Offset for details.
type DirOffset uint64

// An opaque 64-bit value identifying the holder of an advisory lock. The
// kernel mints these from the owning struct file plus the owner's process;
// the file system must treat them as opaque and compare them only for
// equality.
//
// This corresponds to fuse_file_info::lock_owner.
type LockOwner uint64

func (lo LockOwner) String() string {
	return fmt.Sprintf("LockOwner(%#016x)", uint64(lo))
}

// Attributes for a file or directory inode. Corresponds to struct inode (cf.
// http://goo.gl/tvYyQt).
type InodeAttributes struct {
	Size uint64

	// The number of incoming hard links to this inode.
	Nlink uint64

	// The mode of the inode. This is exposed to the user in e.g. the result of
	// fstat(2).
	Mode os.FileMode

	// Time information. See `man 2 stat` for full details.
	Atime  time.Time // Time of last access
	Mtime  time.Time // Time of last modification
	Ctime  time.Time // Time of last modification to inode
	Crtime time.Time // Time of creation (OS X only)

	// Ownership information
	Uid uint32
	Gid uint32
}

func (a *InodeAttributes) DebugString() string {
	return fmt.Sprintf(
		"%d %d %v %d %d",
		a.Size,
		a.Nlink,
		a.Mode,
		a.Uid,
		a.Gid)
}

// Information about a child inode within its parent directory. Shared by the
// responses for LookUpInode, MkDir, CreateFile, etc. Consumed by the kernel in
// order to set up a dcache entry.
type ChildInodeEntry struct {
	// The ID of the child inode. The file system must ensure that the returned
	// inode ID remains valid until a later call to ForgetInode.
	Child InodeID

	// A generation number for this incarnation of the inode with the given ID.
	// See comments on type GenerationNumber for more.
	Generation GenerationNumber

	// Current attributes for the child inode.
	//
	// When creating a new inode, the file system is responsible for
	// initializing and recording (where supported) attributes like time
	// information, ownership information, etc.
	Attributes InodeAttributes

	// The FUSE VFS layer in the kernel maintains a cache of file attributes,
	// used whenever up to date information about size, mode, etc. is needed.
	//
	// This field controls when the attributes returned in this response and
	// stashed in the struct inode should be re-queried. Leave at the zero
	// value to disable caching.
	//
	// More reading:
	//     http://stackoverflow.com/q/21540315/1505451
	AttributesExpiration time.Time

	// The time until which the kernel may maintain an entry for this name to
	// inode mapping in its dentry cache. After this time, it will revalidate
	// the dentry by calling LookUpInode again.
	EntryExpiration time.Time
}

////////////////////////////////////////////////////////////////////////
// Ops
////////////////////////////////////////////////////////////////////////

// OpHeader contains the fields sent by the kernel with every request. Each
// concrete op type embeds it; use Op.Hdr to get at it generically.
type OpHeader struct {
	// A unique identifier for the request, echoed in the reply. Interrupt
	// requests reference the request being interrupted by this value.
	Unique uint64

	// Credentials information for the process making the request.
	Uid uint32
	Gid uint32

	// The ID of the process making the request. Not valid for requests
	// written back from the page cache, which the kernel attributes to
	// process zero.
	Pid uint32
}

// Hdr returns the header itself, giving every op type that embeds OpHeader an
// implementation of the Op interface for free.
func (h *OpHeader) Hdr() *OpHeader {
	return h
}

// Op is implemented by all of the operation types in this package, one for
// each opcode family understood from the kernel. Consumers type switch on the
// concrete type.
type Op interface {
	// Hdr returns the common header for the request.
	Hdr() *OpHeader
}

// ShortDesc returns a string of the form "ReadFileOp(unique=17)" for use in
// debug log lines.
func ShortDesc(op Op) string {
	t := reflect.TypeOf(op)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	name := t.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	return fmt.Sprintf("%s(unique=%d)", name, op.Hdr().Unique)
}
