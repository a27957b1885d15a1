// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package fuseutil

import (
	"os"
	"syscall"
	"time"
	"unsafe"

	"github.com/jacobsa/fusewire/fuseops"
	"github.com/jacobsa/fusewire/internal/fusekernel"
)

type DirentType uint32

const (
	DT_Unknown   DirentType = 0
	DT_Socket    DirentType = syscall.DT_SOCK
	DT_Link      DirentType = syscall.DT_LNK
	DT_File      DirentType = syscall.DT_REG
	DT_Block     DirentType = syscall.DT_BLK
	DT_Directory DirentType = syscall.DT_DIR
	DT_Char      DirentType = syscall.DT_CHR
	DT_FIFO      DirentType = syscall.DT_FIFO
)

// A struct representing an entry within a directory file, describing a child.
// See notes on fuseops.ReadDirOp and on AppendDirent for details.
type Dirent struct {
	// The (opaque) offset within the directory file of the entry following this
	// one. See notes on fuseops.ReadDirOp.Offset for details.
	Offset fuseops.DirOffset

	// The inode of the child file or directory, and its name within the parent.
	Inode fuseops.InodeID
	Name  string

	// The type of the child. The zero value (DT_Unknown) is legal, but means
	// that the kernel will need to call GetAttr when the type is needed.
	Type DirentType
}

// Append the supplied directory entry to the given buffer in the format
// expected in fuseops.ReadDirOp.Data when the op's mode is ReadDirPlain,
// returning the resulting buffer.
func AppendDirent(input []byte, d Dirent) (output []byte) {
	output = appendDirentHeader(input, d)
	output = appendDirentName(output, d.Name)
	return
}

// AppendDirentPlus is like AppendDirent, but for ops whose mode is
// ReadDirPlus: each entry additionally carries the lookup result for the
// child, saving the kernel a round trip per entry. The entry counts as a
// lookup for forget accounting, except for entries whose name is "." or "..".
func AppendDirentPlus(input []byte, e *fuseops.ChildInodeEntry, d Dirent) (output []byte) {
	var entry fusekernel.EntryOut
	convertChildInodeEntry(e, &entry)

	const entrySize = int(unsafe.Sizeof(fusekernel.EntryOut{}))
	output = append(input, (*[entrySize]byte)(unsafe.Pointer(&entry))[:]...)
	output = appendDirentHeader(output, d)
	output = appendDirentName(output, d.Name)
	return
}

func appendDirentHeader(input []byte, d Dirent) (output []byte) {
	// The entry must have the layout of fuse_dirent in host order, aligned to
	// FUSE_DIRENT_ALIGN, which dictates 8-byte alignment.
	de := fusekernel.Dirent{
		Ino:     uint64(d.Inode),
		Off:     uint64(d.Offset),
		Namelen: uint32(len(d.Name)),
		Type:    uint32(d.Type),
	}

	const headerSize = int(unsafe.Sizeof(fusekernel.Dirent{}))
	output = append(input, (*[headerSize]byte)(unsafe.Pointer(&de))[:]...)
	return
}

func appendDirentName(input []byte, name string) (output []byte) {
	output = append(input, name...)

	if padded := fusekernel.DirentAlign(len(name)); padded != len(name) {
		var padding [8]byte
		output = append(output, padding[:padded-len(name)]...)
	}

	return
}

// The kernel-facing form of a ChildInodeEntry, for readdirplus entries. Cache
// validity here is expressed as an absolute time on the op but a relative
// duration on the wire; entries written by this package use zero validity,
// leaving caching decisions to later lookups.
func convertChildInodeEntry(in *fuseops.ChildInodeEntry, out *fusekernel.EntryOut) {
	out.Nodeid = uint64(in.Child)
	out.Generation = uint64(in.Generation)

	out.Attr.Ino = uint64(in.Child)
	out.Attr.Size = in.Attributes.Size
	out.Attr.Nlink = uint32(in.Attributes.Nlink)
	out.Attr.Mode = convertMode(in.Attributes.Mode)
	out.Attr.Uid = in.Attributes.Uid
	out.Attr.Gid = in.Attributes.Gid

	out.Attr.Atime, out.Attr.AtimeNsec = splitTime(in.Attributes.Atime)
	out.Attr.Mtime, out.Attr.MtimeNsec = splitTime(in.Attributes.Mtime)
	out.Attr.Ctime, out.Attr.CtimeNsec = splitTime(in.Attributes.Ctime)
}

func convertMode(mode os.FileMode) uint32 {
	m := uint32(mode & os.ModePerm)

	switch {
	case mode&os.ModeCharDevice != 0:
		m |= syscall.S_IFCHR
	case mode&os.ModeDevice != 0:
		m |= syscall.S_IFBLK
	case mode&os.ModeNamedPipe != 0:
		m |= syscall.S_IFIFO
	case mode&os.ModeSymlink != 0:
		m |= syscall.S_IFLNK
	case mode&os.ModeSocket != 0:
		m |= syscall.S_IFSOCK
	case mode&os.ModeDir != 0:
		m |= syscall.S_IFDIR
	default:
		m |= syscall.S_IFREG
	}

	return m
}

func splitTime(t time.Time) (secs uint64, nsec uint32) {
	totalNano := t.UnixNano()
	secs = uint64(totalNano / 1e9)
	nsec = uint32(totalNano % 1e9)
	return
}
