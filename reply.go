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

package fusewire

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"github.com/jacobsa/fusewire/fuseops"
	"github.com/jacobsa/fusewire/internal/buffer"
	"github.com/jacobsa/fusewire/internal/fusekernel"
	"golang.org/x/sys/unix"
)

// Fill in the reply payload for a successfully-handled op, in the layout the
// kernel expects for its opcode.
func (c *Connection) kernelResponse(
	b *buffer.OutMessage,
	op fuseops.Op) error {
	switch typed := op.(type) {
	case *fuseops.LookUpInodeOp:
		size := unsafe.Sizeof(fusekernel.EntryOut{})
		out := (*fusekernel.EntryOut)(b.Grow(size))
		c.convertChildInodeEntry(&typed.Entry, out)

	case *fuseops.GetInodeAttributesOp:
		size := unsafe.Sizeof(fusekernel.AttrOut{})
		out := (*fusekernel.AttrOut)(b.Grow(size))
		out.AttrValid, out.AttrValidNsec = c.convertExpirationTime(
			typed.AttributesExpiration)
		convertAttributes(typed.Inode, &typed.Attributes, &out.Attr)

	case *fuseops.SetInodeAttributesOp:
		size := unsafe.Sizeof(fusekernel.AttrOut{})
		out := (*fusekernel.AttrOut)(b.Grow(size))
		out.AttrValid, out.AttrValidNsec = c.convertExpirationTime(
			typed.AttributesExpiration)
		convertAttributes(typed.Inode, &typed.Attributes, &out.Attr)

	case *fuseops.MkNodeOp:
		size := unsafe.Sizeof(fusekernel.EntryOut{})
		out := (*fusekernel.EntryOut)(b.Grow(size))
		c.convertChildInodeEntry(&typed.Entry, out)

	case *fuseops.MkDirOp:
		size := unsafe.Sizeof(fusekernel.EntryOut{})
		out := (*fusekernel.EntryOut)(b.Grow(size))
		c.convertChildInodeEntry(&typed.Entry, out)

	case *fuseops.CreateFileOp:
		eSize := unsafe.Sizeof(fusekernel.EntryOut{})
		e := (*fusekernel.EntryOut)(b.Grow(eSize))
		c.convertChildInodeEntry(&typed.Entry, e)

		oSize := unsafe.Sizeof(fusekernel.OpenOut{})
		o := (*fusekernel.OpenOut)(b.Grow(oSize))
		o.Fh = uint64(typed.Handle)

	case *fuseops.CreateSymlinkOp:
		size := unsafe.Sizeof(fusekernel.EntryOut{})
		out := (*fusekernel.EntryOut)(b.Grow(size))
		c.convertChildInodeEntry(&typed.Entry, out)

	case *fuseops.CreateLinkOp:
		size := unsafe.Sizeof(fusekernel.EntryOut{})
		out := (*fusekernel.EntryOut)(b.Grow(size))
		c.convertChildInodeEntry(&typed.Entry, out)

	case *fuseops.RenameOp:
		// Empty response.

	case *fuseops.RmDirOp:
		// Empty response.

	case *fuseops.UnlinkOp:
		// Empty response.

	case *fuseops.OpenDirOp:
		size := unsafe.Sizeof(fusekernel.OpenOut{})
		out := (*fusekernel.OpenOut)(b.Grow(size))
		out.Fh = uint64(typed.Handle)

	case *fuseops.ReadDirOp:
		b.Append(typed.Data)

	case *fuseops.ReleaseDirHandleOp:
		// Empty response.

	case *fuseops.SyncDirOp:
		// Empty response.

	case *fuseops.OpenFileOp:
		size := unsafe.Sizeof(fusekernel.OpenOut{})
		out := (*fusekernel.OpenOut)(b.Grow(size))
		out.Fh = uint64(typed.Handle)

		if typed.KeepPageCache {
			out.OpenFlags |= fusekernel.FOpenKeepCache
		}

		if typed.UseDirectIO {
			out.OpenFlags |= fusekernel.FOpenDirectIO
		}

	case *fuseops.ReadFileOp:
		b.Append(typed.Data)

	case *fuseops.WriteFileOp:
		size := unsafe.Sizeof(fusekernel.WriteOut{})
		out := (*fusekernel.WriteOut)(b.Grow(size))
		out.Size = uint32(len(typed.Data))

	case *fuseops.SyncFileOp:
		// Empty response.

	case *fuseops.FlushFileOp:
		// Empty response.

	case *fuseops.ReleaseFileHandleOp:
		// Empty response.

	case *fuseops.ReadSymlinkOp:
		b.AppendString(typed.Target)

	case *fuseops.StatFSOp:
		size := unsafe.Sizeof(fusekernel.StatfsOut{})
		out := (*fusekernel.StatfsOut)(b.Grow(size))
		out.St = fusekernel.Kstatfs{
			Blocks:  typed.Blocks,
			Bfree:   typed.BlocksFree,
			Bavail:  typed.BlocksAvailable,
			Files:   typed.Inodes,
			Ffree:   typed.InodesFree,
			Bsize:   typed.IoSize,
			Frsize:  typed.BlockSize,
			Namelen: 255,
		}

	case *fuseops.SetXattrOp:
		// Empty response.

	case *fuseops.RemoveXattrOp:
		// Empty response.

	case *fuseops.GetXattrOp:
		// A probe wants the value's size; an actual read wants the bytes.
		if typed.Size == 0 {
			size := unsafe.Sizeof(fusekernel.GetxattrOut{})
			out := (*fusekernel.GetxattrOut)(b.Grow(size))
			out.Size = uint32(len(typed.Value))
		} else {
			b.Append(typed.Value)
		}

	case *fuseops.ListXattrOp:
		if typed.Size == 0 {
			size := unsafe.Sizeof(fusekernel.GetxattrOut{})
			out := (*fusekernel.GetxattrOut)(b.Grow(size))
			out.Size = uint32(len(typed.Value))
		} else {
			b.Append(typed.Value)
		}

	case *fuseops.FlockOp:
		// Empty response.

	case *fuseops.GetLockOp:
		size := unsafe.Sizeof(fusekernel.LkOut{})
		out := (*fusekernel.LkOut)(b.Grow(size))
		out.Lk = fusekernel.FileLock{
			Start: typed.Result.Start,
			End:   typed.Result.End,
			Type:  uint32(typed.Result.Type),
			Pid:   typed.Result.Pid,
		}

	case *fuseops.SetLockOp:
		// Empty response.

	case *fuseops.AccessOp:
		// Empty response.

	case *fuseops.BmapOp:
		size := unsafe.Sizeof(fusekernel.BmapOut{})
		out := (*fusekernel.BmapOut)(b.Grow(size))
		out.Block = typed.MappedBlock

	case *fuseops.PollOp:
		size := unsafe.Sizeof(fusekernel.PollOut{})
		out := (*fusekernel.PollOut)(b.Grow(size))
		out.Revents = typed.Revents

	case *fuseops.FallocateOp:
		// Empty response.

	case *fuseops.CopyFileRangeOp:
		size := unsafe.Sizeof(fusekernel.WriteOut{})
		out := (*fusekernel.WriteOut)(b.Grow(size))
		out.Size = typed.BytesCopied

	default:
		return fmt.Errorf("unexpected op: %#v", op)
	}

	return nil
}

////////////////////////////////////////////////////////////////////////
// Conversions to the kernel's representation
////////////////////////////////////////////////////////////////////////

func convertAttributes(
	inodeID fuseops.InodeID,
	in *fuseops.InodeAttributes,
	out *fusekernel.Attr) {
	out.Ino = uint64(inodeID)
	out.Size = in.Size
	out.Atime, out.AtimeNsec = convertTime(in.Atime)
	out.Mtime, out.MtimeNsec = convertTime(in.Mtime)
	out.Ctime, out.CtimeNsec = convertTime(in.Ctime)
	out.Mode = convertGoMode(in.Mode)
	out.Nlink = uint32(in.Nlink)
	out.Uid = in.Uid
	out.Gid = in.Gid
}

// Convert an absolute time to the second/nanosecond pair the kernel uses.
func convertTime(t time.Time) (secs uint64, nsec uint32) {
	totalNano := t.UnixNano()
	secs = uint64(totalNano / 1e9)
	nsec = uint32(totalNano % 1e9)
	return
}

// Convert an absolute cache expiration time to the relative validity
// duration the kernel expects. A time in the past means "don't cache".
func (c *Connection) convertExpirationTime(
	t time.Time) (secs uint64, nsecs uint32) {
	now := c.clock.Now()
	if t.Before(now) {
		return
	}

	d := t.Sub(now)
	secs = uint64(d / time.Second)
	nsecs = uint32((d % time.Second) / time.Nanosecond)
	return
}

func (c *Connection) convertChildInodeEntry(
	in *fuseops.ChildInodeEntry,
	out *fusekernel.EntryOut) {
	out.Nodeid = uint64(in.Child)
	out.Generation = uint64(in.Generation)
	out.EntryValid, out.EntryValidNsec = c.convertExpirationTime(in.EntryExpiration)
	out.AttrValid, out.AttrValidNsec = c.convertExpirationTime(in.AttributesExpiration)

	convertAttributes(in.Child, &in.Attributes, &out.Attr)
}

// Convert a Go file mode to the kernel's stat representation.
func convertGoMode(mode os.FileMode) uint32 {
	m := uint32(mode & os.ModePerm)

	switch {
	case mode&os.ModeCharDevice != 0:
		m |= unix.S_IFCHR
	case mode&os.ModeDevice != 0:
		m |= unix.S_IFBLK
	case mode&os.ModeNamedPipe != 0:
		m |= unix.S_IFIFO
	case mode&os.ModeSymlink != 0:
		m |= unix.S_IFLNK
	case mode&os.ModeSocket != 0:
		m |= unix.S_IFSOCK
	case mode&os.ModeDir != 0:
		m |= unix.S_IFDIR
	default:
		m |= unix.S_IFREG
	}

	if mode&os.ModeSetuid != 0 {
		m |= unix.S_ISUID
	}

	if mode&os.ModeSetgid != 0 {
		m |= unix.S_ISGID
	}

	if mode&os.ModeSticky != 0 {
		m |= unix.S_ISVTX
	}

	return m
}
