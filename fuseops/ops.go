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

// Package fuseops contains the operation model for requests read from the
// kernel: one concrete struct type per opcode family, plus Convert, which
// turns a raw message into the appropriate op. See documentation in the
// fusewire package for more.
package fuseops

import (
	"os"
	"time"
)

////////////////////////////////////////////////////////////////////////
// Inodes
////////////////////////////////////////////////////////////////////////

// Look up a child by name within a parent directory. The kernel sends this
// when resolving user paths to dentry structs, which are then cached.
type LookUpInodeOp struct {
	OpHeader

	// The ID of the directory inode to which the child belongs.
	Parent InodeID

	// The name of the child of interest, relative to the parent. For example,
	// in this directory structure:
	//
	//     foo/
	//         bar/
	//             baz
	//
	// the file system may receive a request to look up the child named "bar"
	// for the parent foo/.
	Name string

	// Set by the file system: the resulting entry.
	Entry ChildInodeEntry
}

// Refresh the attributes for an inode whose ID was previously returned in a
// LookUpInodeOp. The kernel sends this when the FUSE VFS layer's cache of
// inode attributes is stale. This is controlled by the AttributesExpiration
// field of ChildInodeEntry, etc.
type GetInodeAttributesOp struct {
	OpHeader

	// The inode of interest.
	Inode InodeID

	// If the request pertains to an open file, the handle previously issued
	// for it. Nil otherwise.
	Handle *HandleID

	// Set by the file system: attributes for the inode, and the time at which
	// they should expire. See notes on ChildInodeEntry.AttributesExpiration
	// for more.
	Attributes           InodeAttributes
	AttributesExpiration time.Time
}

// Change attributes for an inode.
//
// The kernel sends this for obvious cases like chmod(2), and for less obvious
// cases like ftruncate(2).
type SetInodeAttributesOp struct {
	OpHeader

	// The inode of interest.
	Inode InodeID

	// If the request was made via a file descriptor (e.g. ftruncate), the
	// handle for the open file, and the lock owner associated with it when
	// the kernel supplies one. Nil otherwise.
	Handle    *HandleID
	LockOwner *LockOwner

	// The attributes to modify. Nil (or, for times, an omitted SetAttrTime)
	// means the attribute doesn't need a change.
	Size  *uint64
	Mode  *os.FileMode
	Uid   *uint32
	Gid   *uint32
	Atime SetAttrTime
	Mtime SetAttrTime
	Ctime *time.Time

	// Set by the file system: the new attributes for the inode, and the time
	// at which they should expire. See notes on
	// ChildInodeEntry.AttributesExpiration for more.
	Attributes           InodeAttributes
	AttributesExpiration time.Time
}

// Decrement the kernel's reference count for an inode ID previously issued
// (e.g. by LookUpInode or MkDir). The kernel sends this when evicting an
// inode from its internal caches.
//
// The kernel expects no reply to this op.
type ForgetInodeOp struct {
	OpHeader

	// The inode whose reference count should be decremented.
	Inode InodeID

	// The amount to decrement the reference count by. Once it hits zero the
	// kernel guarantees the ID will not be used in further requests (unless
	// it is reissued by the file system).
	N uint64
}

// A single entry in a BatchForgetOp.
type BatchForgetEntry struct {
	// The inode whose reference count should be decremented.
	Inode InodeID

	// The amount to decrement by.
	N uint64
}

// Decrement the reference counts for several inodes at once, typically when
// the kernel is shrinking its caches under memory pressure. Equivalent to a
// sequence of ForgetInodeOps, in order.
//
// The kernel expects no reply to this op.
type BatchForgetOp struct {
	OpHeader

	// Entries to forget, in the order the kernel listed them.
	Entries []BatchForgetEntry
}

////////////////////////////////////////////////////////////////////////
// Inode creation
////////////////////////////////////////////////////////////////////////

// Create a file, device, or fifo inode as a child of an existing directory
// inode, without opening it. The kernel sends this in response to a mknod(2)
// call, and for plain files on kernels that don't use CREATE.
type MkNodeOp struct {
	OpHeader

	// The ID of parent directory inode within which to create the child.
	Parent InodeID

	// The name of the child to create, and the mode with which to create it.
	// The mode's type bits distinguish regular files from devices and fifos.
	Name string
	Mode os.FileMode

	// The device number, for device special files.
	Rdev uint32

	// Set by the file system: information about the inode that was created.
	//
	// The file system must ensure that the returned handle is valid until a
	// later call to ForgetInode.
	Entry ChildInodeEntry
}

// Create a directory inode as a child of an existing directory inode. The
// kernel sends this in response to a mkdir(2) call.
//
// The kernel appears to verify the name doesn't already exist (mkdir calls
// mkdirat calls user_path_create calls filename_create, which verifies:
// http://goo.gl/FZpLu5). Volatile file systems should check anyway and
// return EEXIST when the name is taken.
type MkDirOp struct {
	OpHeader

	// The ID of parent directory inode within which to create the child.
	Parent InodeID

	// The name of the child to create, and the mode with which to create it.
	Name string
	Mode os.FileMode

	// Set by the file system: information about the inode that was created.
	Entry ChildInodeEntry
}

// Create a file inode and open it.
//
// The kernel sends this when the user asks to open a file with the O_CREAT
// flag and the kernel has observed that the file doesn't exist. (See for
// example lookup_open, http://goo.gl/PlqE9d.) Paranoid file systems should
// check for existence themselves and return EEXIST when appropriate.
type CreateFileOp struct {
	OpHeader

	// The ID of parent directory inode within which to create the child file.
	Parent InodeID

	// The name of the child to create, and the mode with which to create it.
	Name string
	Mode os.FileMode

	// The flags from the open(2) call that triggered the create.
	Flags uint32

	// Set by the file system: information about the inode that was created.
	Entry ChildInodeEntry

	// Set by the file system: an opaque ID that will be echoed in follow-up
	// calls for this file using the same struct file in the kernel. In
	// practice this usually means follow-up calls using the file descriptor
	// returned by open(2).
	//
	// The handle may be supplied in future ops like ReadFileOp. The file
	// system must ensure this ID remains valid until a later call to
	// ReleaseFileHandle.
	Handle HandleID
}

// Create a symlink inode as a child of an existing directory inode. The
// kernel sends this in response to a symlink(2) call.
type CreateSymlinkOp struct {
	OpHeader

	// The ID of parent directory inode within which to create the child
	// symlink.
	Parent InodeID

	// The name of the symlink to create.
	Name string

	// The target of the symlink.
	Target string

	// Set by the file system: information about the symlink inode that was
	// created.
	Entry ChildInodeEntry
}

// Create a hard link to an existing inode, with a new name in a (possibly
// distinct) parent directory. The kernel sends this in response to a link(2)
// call.
type CreateLinkOp struct {
	OpHeader

	// The ID of parent directory inode within which to create the new link.
	Parent InodeID

	// The name of the link to create.
	Name string

	// The ID of the inode being linked to.
	Target InodeID

	// Set by the file system: information about the inode, with its link
	// count already incremented.
	Entry ChildInodeEntry
}

////////////////////////////////////////////////////////////////////////
// Unlinking and renaming
////////////////////////////////////////////////////////////////////////

// Rename a file or directory, given the IDs of the original parent directory
// and the new one (which may be the same).
//
// In Linux, this is called by vfs_rename (https://goo.gl/eERItT), which is
// called by sys_renameat2 (https://goo.gl/fCC9qC).
//
// The kernel takes care of ensuring that the source and destination are not
// identical (in which case it does nothing), that the rename is not across
// file system boundaries, and that the destination doesn't already exist with
// the wrong type.
type RenameOp struct {
	OpHeader

	// The old parent directory, and the name of the entry within it to be
	// relocated.
	OldParent InodeID
	OldName   string

	// The new parent directory, and the name of the entry to be created or
	// overwritten within it.
	NewParent InodeID
	NewName   string

	// Flags from renameat2(2): RENAME_NOREPLACE, RENAME_EXCHANGE, or
	// RENAME_WHITEOUT. Zero for a plain rename(2), in which case an existing
	// entry at the new name must be atomically replaced.
	Flags uint32
}

// Unlink a directory from its parent. Because directories cannot have a link
// count above one, this means the directory inode should be deleted as well
// once the kernel sends ForgetInodeOp.
//
// The file system is responsible for checking that the directory is empty.
//
// Sample implementation in ext2: ext2_rmdir (http://goo.gl/B9QmFf)
type RmDirOp struct {
	OpHeader

	// The ID of parent directory inode, and the name of the directory being
	// removed within it.
	Parent InodeID
	Name   string
}

// Unlink a file or symlink from its parent. If this brings the inode's link
// count to zero, the inode should be deleted once the kernel sends
// ForgetInodeOp. It may still be referenced before then if a user still has
// the file open.
//
// Sample implementation in ext2: ext2_unlink (http://goo.gl/hY6r6C)
type UnlinkOp struct {
	OpHeader

	// The ID of parent directory inode, and the name of the entry being
	// removed within it.
	Parent InodeID
	Name   string
}

////////////////////////////////////////////////////////////////////////
// Directory handles
////////////////////////////////////////////////////////////////////////

// Open a directory inode.
//
// On Linux the kernel sends this when setting up a struct file for a
// particular inode with type directory, usually in response to an open(2)
// call from a user-space process.
type OpenDirOp struct {
	OpHeader

	// The ID of the inode to be opened.
	Inode InodeID

	// Mode and options flags from open(2).
	Flags uint32

	// Set by the file system: an opaque ID that will be echoed in follow-up
	// calls for this directory using the same struct file in the kernel. In
	// practice this usually means follow-up calls using the file descriptor
	// returned by open(2).
	//
	// The handle may be supplied in future ops like ReadDirOp. The file
	// system must ensure this ID remains valid until a later call to
	// ReleaseDirHandle.
	Handle HandleID
}

// ReadDirMode distinguishes the two shapes of directory listing the kernel
// may ask for.
type ReadDirMode int

const (
	// The classic listing: a sequence of fuse_dirent records. Use
	// fuseutil.AppendDirent to build the reply data.
	ReadDirPlain ReadDirMode = iota

	// The "plus" listing: each record additionally carries a full entry, as
	// if the kernel had also sent LookUpInodeOp for the child. Use
	// fuseutil.AppendDirentPlus to build the reply data. Entries returned
	// this way are referenced just like lookup results, and are balanced by
	// later ForgetInodeOps.
	ReadDirPlus
)

func (m ReadDirMode) String() string {
	switch m {
	case ReadDirPlain:
		return "ReadDirPlain"

	case ReadDirPlus:
		return "ReadDirPlus"
	}

	return "ReadDirMode(unknown)"
}

// Read entries from a directory previously opened with OpenDir.
type ReadDirOp struct {
	OpHeader

	// The directory inode that we are reading, and the handle previously
	// returned by OpenDir when opening that inode.
	Inode  InodeID
	Handle HandleID

	// The offset within the directory at which to read.
	//
	// Warning: this field is not necessarily a count of bytes. Its legal
	// values are defined by the results returned in previous read replies:
	// the kernel remembers the offset of the last consumed entry (cf.
	// parse_dirfile, which updates dir_context::pos with fuse_dirent::off)
	// and sends it back here. A zero offset means a fresh listing.
	//
	// FUSE offers no way to intercept seeks (http://goo.gl/H6gEXa), so file
	// systems must be able to resume a listing at any offset they have
	// previously returned.
	Offset DirOffset

	// Which reply-entry shape the kernel wants. The shapes are not
	// interchangeable; see the notes on the mode values.
	Mode ReadDirMode

	// The maximum number of bytes to return in Data. A smaller number is
	// acceptable.
	Size int

	// Set by the file system: a buffer consisting of a sequence of directory
	// entries in the shape selected by Mode.
	//
	// The buffer must not exceed Size. It is okay for the final entry to be
	// truncated; the kernel copes by ignoring the partial record.
	//
	// An empty buffer indicates the end of the directory has been reached.
	Data []byte
}

// Release a previously-minted directory handle. The kernel sends this when
// there are no more references to an open directory: all file descriptors
// are closed and all memory mappings are unmapped.
//
// The kernel guarantees that the handle ID will not be used in further ops
// sent to the file system (unless it is reissued by the file system).
type ReleaseDirHandleOp struct {
	OpHeader

	// The inode the handle was opened against.
	Inode InodeID

	// The handle ID to be released.
	Handle HandleID
}

// Synchronize the directory's contents to storage. The kernel sends this in
// response to fsync(2) or fdatasync(2) on a directory file descriptor.
type SyncDirOp struct {
	OpHeader

	// The directory and handle being sync'd.
	Inode  InodeID
	Handle HandleID

	// If set, only the directory's contents need be flushed, not its
	// metadata (fdatasync semantics).
	Datasync bool
}

////////////////////////////////////////////////////////////////////////
// File handles
////////////////////////////////////////////////////////////////////////

// Open a file inode.
//
// On Linux the kernel sends this when setting up a struct file for a
// particular inode with type file, usually in response to an open(2) call
// from a user-space process.
type OpenFileOp struct {
	OpHeader

	// The ID of the inode to be opened.
	Inode InodeID

	// Mode and options flags from open(2).
	Flags uint32

	// Set by the file system: an opaque ID that will be echoed in follow-up
	// calls for this file using the same struct file in the kernel.
	//
	// The handle may be supplied in future ops like ReadFileOp. The file
	// system must ensure this ID remains valid until a later call to
	// ReleaseFileHandle.
	Handle HandleID

	// Set by the file system: if set, the kernel may keep previously-cached
	// pages for this inode rather than invalidating them on open.
	KeepPageCache bool

	// Set by the file system: if set, reads and writes bypass the page cache
	// entirely (FOPEN_DIRECT_IO).
	UseDirectIO bool
}

// Read data from a file previously opened with CreateFile or OpenFile.
//
// Note that this op is not sent for every call to read(2) by the end user;
// some reads may be served by the page cache. See notes on WriteFileOp for
// more.
type ReadFileOp struct {
	OpHeader

	// The file inode that we are reading, and the handle previously returned
	// by CreateFile or OpenFile when opening that inode.
	Inode  InodeID
	Handle HandleID

	// The range of the file to read.
	//
	// The FUSE documentation requires that exactly the number of bytes be
	// returned, except in the case of EOF or error (http://goo.gl/ZgfBkF).
	// The kernel understands where EOF is by checking the inode size,
	// returned by a previous call to LookUpInode, GetInodeAttributes, etc.
	Offset int64
	Size   int

	// Set by the file system: the data read. If this is less than the
	// requested size, it indicates EOF. An error should not be returned in
	// this case.
	Data []byte
}

// Write data to a file previously opened with CreateFile or OpenFile.
//
// When the user writes data using write(2), the write goes into the page
// cache and the page is marked dirty. Later the kernel may write back the
// page via fuse_writepage, causing this op to be sent. Writes *will* be
// received before a FlushFileOp when closing the file descriptor to which
// they were written, because fuse_flush waits for pending writepages before
// sending the flush (cf. http://goo.gl/PheZjf).
type WriteFileOp struct {
	OpHeader

	// The file inode that we are modifying, and the handle previously
	// returned by CreateFile or OpenFile when opening that inode.
	Inode  InodeID
	Handle HandleID

	// The offset at which to write the data below. Writing past the current
	// end of file extends it, filling any gap with null bytes.
	Offset int64

	// The data to write. The op owns this buffer; it does not alias the
	// message it was read from.
	//
	// The FUSE documentation requires that exactly the number of bytes
	// supplied be written, except on error (http://goo.gl/KUpwwn).
	Data []byte

	// The lock owner associated with the writing file descriptor, when the
	// kernel supplies one. Nil for page cache writeback, which has no
	// originating descriptor.
	LockOwner *LockOwner
}

// Synchronize the current contents of an open file to storage.
//
// vfs.txt documents this as being called for by the fsync(2) system call
// (cf. http://goo.gl/j9X8nB). It is also sent by fdatasync(2), and may be
// sent for msync(2) with the MS_SYNC flag.
//
// See also: FlushFileOp, which may perform a similar function when closing a
// file (but which is not used in "real" file systems).
type SyncFileOp struct {
	OpHeader

	// The file and handle being sync'd.
	Inode  InodeID
	Handle HandleID

	// If set, only the file's contents need be flushed, not its metadata
	// (fdatasync semantics).
	Datasync bool
}

// Flush the current state of an open file to storage upon closing a file
// descriptor.
//
// vfs.txt documents this as being sent for each close(2) system call (cf.
// http://goo.gl/FSkbrq). But note that it is also sent in other contexts
// where a file descriptor is closed, such as dup2(2) (cf.
// http://goo.gl/NQDvFS). In the case of close(2), a flush error is returned
// to the user; for dup2(2) it is not.
//
// Because of cases like dup2(2), FlushFileOps are not necessarily one to one
// with OpenFileOps. They should not be used for reference counting, and the
// handle must remain valid even after the flush op is received (use
// ReleaseFileHandleOp for disposing of it).
//
// Typical "real" file systems do not implement this, presumably relying on
// the kernel to write out the page cache to the block device eventually. A
// file system that writes to remote storage however probably wants to at
// least schedule a real flush, and maybe do it immediately in order to
// return any errors that occur.
type FlushFileOp struct {
	OpHeader

	// The file and handle being flushed.
	Inode  InodeID
	Handle HandleID

	// The lock owner for the closing file descriptor. POSIX record locks
	// held by this owner are implicitly released by the close that caused
	// the flush.
	LockOwner LockOwner
}

// Release a previously-minted file handle. The kernel sends this when there
// are no more references to an open file: all file descriptors are closed
// and all memory mappings are unmapped.
//
// The kernel guarantees that the handle ID will not be used in further calls
// to the file system (unless it is reissued by the file system).
//
// Errors from this op are ignored by the kernel (cf. http://goo.gl/RL38Do).
type ReleaseFileHandleOp struct {
	OpHeader

	// The inode the handle was opened against.
	Inode InodeID

	// The handle ID to be released. The kernel guarantees that this ID will
	// not be used in further calls to the file system (unless it is reissued
	// by the file system).
	Handle HandleID

	// The lock owner for the final file descriptor, when the kernel supplies
	// one.
	LockOwner LockOwner

	// If set, the release should behave like an additional flush of the
	// handle (FUSE_RELEASE_FLUSH).
	Flush bool

	// If set, a BSD-style lock held through this handle should be released
	// (FUSE_RELEASE_FLOCK_UNLOCK).
	FlockRelease bool
}

////////////////////////////////////////////////////////////////////////
// Reading symlinks
////////////////////////////////////////////////////////////////////////

// Read the target of a symlink inode.
type ReadSymlinkOp struct {
	OpHeader

	// The symlink inode that we are reading.
	Inode InodeID

	// Set by the file system: the target of the symlink.
	Target string
}

////////////////////////////////////////////////////////////////////////
// eXtended attributes
////////////////////////////////////////////////////////////////////////

// Get an extended attribute.
//
// This is sent in response to getxattr(2). It may also be sent by the kernel
// for internal purposes, e.g. when reading security labels.
type GetXattrOp struct {
	OpHeader

	// The inode whose extended attribute we are reading.
	Inode InodeID

	// The name of the extended attribute.
	Name string

	// The capacity of the user's buffer. Zero means the user is probing for
	// the value's size rather than reading it; the reply then carries only
	// the size. A non-zero capacity smaller than the value is an ERANGE
	// error.
	Size uint32

	// Set by the file system: the attribute's value.
	Value []byte
}

// List all the extended attributes for a file.
//
// This is sent in response to listxattr(2).
type ListXattrOp struct {
	OpHeader

	// The inode whose extended attributes we are listing.
	Inode InodeID

	// The capacity of the user's buffer, with the same zero-means-probe
	// convention as GetXattrOp.Size.
	Size uint32

	// Set by the file system: all attribute names, each terminated by a NUL
	// byte.
	Value []byte
}

// Remove an extended attribute.
//
// This is sent in response to removexattr(2). Return ENOATTR if the
// attribute does not exist.
type RemoveXattrOp struct {
	OpHeader

	// The inode whose extended attribute we are removing.
	Inode InodeID

	// The name of the extended attribute.
	Name string
}

// Set an extended attribute.
//
// This is sent in response to setxattr(2). Return ENOSPC if there is
// insufficient space remaining to store the value.
type SetXattrOp struct {
	OpHeader

	// The inode whose extended attribute we are setting.
	Inode InodeID

	// The name of the extended attribute.
	Name string

	// The value to set. The op owns this buffer; it does not alias the
	// message it was read from.
	Value []byte

	// If Flags is 0x1 (XATTR_CREATE), setxattr fails with EEXIST if the
	// attribute already exists. If Flags is 0x2 (XATTR_REPLACE), it fails
	// with ENOATTR if the attribute does not already exist. Zero means
	// create or replace as appropriate.
	Flags uint32
}

////////////////////////////////////////////////////////////////////////
// Locking
////////////////////////////////////////////////////////////////////////

// Apply or remove a BSD-style lock (flock(2)) on an open file.
//
// The kernel sends this only when the session opted in to flock handling;
// otherwise it emulates flock locally.
type FlockOp struct {
	OpHeader

	// The file and handle the lock applies to.
	Inode  InodeID
	Handle HandleID

	// The owner of the lock. Compare for equality only.
	Owner LockOwner

	// The flock operation: unix.LOCK_SH, unix.LOCK_EX, or unix.LOCK_UN,
	// possibly or'd with unix.LOCK_NB when the caller doesn't want to block.
	Operation int
}

// Test for the existence of a POSIX record lock conflicting with the one
// described. Sent for fcntl(2) with F_GETLK.
type GetLockOp struct {
	OpHeader

	// The file and handle the query pertains to.
	Inode  InodeID
	Handle HandleID

	// The owner on whose behalf the query is made. Locks held by this owner
	// do not conflict with it.
	Owner LockOwner

	// The lock being probed for.
	Lock FileLock

	// Set by the file system: a conflicting lock if one exists, or a lock
	// with type Unlocked if not.
	Result FileLock
}

// Acquire, modify, or release a POSIX record lock. Sent for fcntl(2) with
// F_SETLK or F_SETLKW.
type SetLockOp struct {
	OpHeader

	// The file and handle the lock applies to.
	Inode  InodeID
	Handle HandleID

	// The owner of the lock. Compare for equality only.
	Owner LockOwner

	// The lock to acquire (type ReadLock or WriteLock), or the range to
	// release (type Unlocked).
	Lock FileLock

	// If set, the caller is willing to wait for conflicting locks to go away
	// (F_SETLKW). Otherwise a conflict is an EAGAIN error.
	Blocking bool
}

////////////////////////////////////////////////////////////////////////
// Miscellaneous
////////////////////////////////////////////////////////////////////////

// Return statistics about the file system's capacity and available
// resources, in response to statfs(2).
type StatFSOp struct {
	OpHeader

	// Set by the file system: the size of the file system's blocks. This may
	// be used, in combination with the block counts below, by callers of
	// statfs(2) to infer the file system's capacity and space availability.
	BlockSize uint32

	// Set by the file system: the total number of blocks, the number of free
	// blocks, and the number of free blocks available to non-root users.
	Blocks          uint64
	BlocksFree      uint64
	BlocksAvailable uint64

	// Set by the file system: the preferred size of writes, as reported in
	// statfs::f_bsize.
	IoSize uint32

	// Set by the file system: the total number of inodes, and the number
	// free.
	Inodes     uint64
	InodesFree uint64
}

// Check whether the calling process may access an inode with the given mask,
// in response to access(2) and faccessat(2). Sent only when the kernel is
// not doing its own permissions checking.
type AccessOp struct {
	OpHeader

	// The inode of interest.
	Inode InodeID

	// The requested access mask, a combination of R_OK, W_OK and X_OK as in
	// access(2).
	Mask uint32
}

// Interrupt a request previously sent but not yet replied to. The kernel
// sends this when the process waiting on the original request receives a
// signal.
//
// The kernel expects no direct reply; instead, the interrupted request
// should eventually be replied to, with EINTR if it was abandoned.
type InterruptOp struct {
	OpHeader

	// The Unique value from the header of the request being interrupted.
	FuseID uint64
}

// Map a block index within a file to a block index within its backing
// device. Sent for the FIBMAP ioctl, and only meaningful for file systems
// backed by real block devices.
type BmapOp struct {
	OpHeader

	// The inode of interest.
	Inode InodeID

	// The block size in use, and the index of the block being mapped.
	BlockSize uint32
	Block     uint64

	// Set by the file system: the corresponding block index on the backing
	// device.
	MappedBlock uint64
}

// Poll an open file for I/O readiness, in response to poll(2), select(2),
// or epoll(7).
type PollOp struct {
	OpHeader

	// The file and handle being polled.
	Inode  InodeID
	Handle HandleID

	// The events being polled for, in poll(2) format (POLLIN etc.).
	Events uint32

	// If set, the kernel wants a poll-wakeup notification carrying Kh when
	// the file next becomes ready, in addition to the immediate reply.
	ScheduleNotify bool

	// The kernel's opaque poll handle, to be echoed in the poll-wakeup
	// notification. Meaningful only when ScheduleNotify is set.
	Kh uint64

	// Set by the file system: the events currently ready, a subset of
	// Events.
	Revents uint32
}

// Allocate or deallocate a region of a file, in response to fallocate(2).
// The supported modes depend entirely on the file system.
type FallocateOp struct {
	OpHeader

	// The file and handle the operation applies to.
	Inode  InodeID
	Handle HandleID

	// The region of the file being manipulated.
	Offset uint64
	Length uint64

	// The fallocate(2) mode: zero for a plain allocation, or a combination
	// of FALLOC_FL_* flags.
	Mode uint32
}

// Copy a range of data from one open file to another without a round trip
// through user space, in response to copy_file_range(2).
type CopyFileRangeOp struct {
	OpHeader

	// The source file, its handle, and the offset to read from.
	SrcInode  InodeID
	SrcHandle HandleID
	SrcOffset uint64

	// The destination file, its handle, and the offset to write at.
	DstInode  InodeID
	DstHandle HandleID
	DstOffset uint64

	// The number of bytes to copy.
	Length uint64

	// Flags from copy_file_range(2). Currently always zero.
	Flags uint64

	// Set by the file system: the number of bytes actually copied.
	BytesCopied uint32
}

// The kernel's reply to a retrieve notification previously sent by the file
// system, carrying the requested region of the inode's page cache. The
// Unique header field matches the notification's correlation value.
//
// The kernel expects no reply to this op.
type NotifyReplyOp struct {
	OpHeader

	// The inode whose cached data was retrieved.
	Inode InodeID

	// The offset within the inode that was requested.
	Offset uint64

	// The retrieved data. The op owns this buffer; it does not alias the
	// message it was read from.
	Data []byte
}
