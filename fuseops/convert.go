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
	"os"
	"time"
	"unsafe"

	"github.com/jacobsa/fusewire/internal/buffer"
	"github.com/jacobsa/fusewire/internal/fusekernel"
	"golang.org/x/sys/unix"
)

const inHeaderSize = int(unsafe.Sizeof(fusekernel.InHeader{}))

// Convert the supplied message read from the kernel into an Op, consuming the
// message's argument region in the process. The message's storage is not
// referenced by the returned op: names and payloads are copied out, so the
// message may be recycled immediately.
//
// Failures are returned as *DecodeError values scoped to this one request;
// the connection remains usable.
func Convert(m *buffer.InMessage) (Op, error) {
	if m.Len() < inHeaderSize {
		// The opcode field may itself be missing; report it only if the
		// message got that far.
		var opcode uint32
		if m.Len() >= 8 {
			opcode = uint32(m.Header().Opcode)
		}

		return nil, &DecodeError{
			Kind:   Truncated,
			Opcode: opcode,
			Offset: m.Len(),
			Detail: "message shorter than the request header",
		}
	}

	hdr := m.Header()
	if int(hdr.Len) != m.Len() {
		return nil, &DecodeError{
			Kind:   LengthMismatch,
			Opcode: uint32(hdr.Opcode),
			Offset: 0,
		}
	}

	decode, ok := opDecoders[hdr.Opcode]
	if !ok {
		return nil, &DecodeError{
			Kind:   UnknownOpcode,
			Opcode: uint32(hdr.Opcode),
			Offset: m.Consumed(),
		}
	}

	s := decodeState{m: m, hdr: hdr}
	op, err := decode(&s)
	if err != nil {
		return nil, err
	}

	if m.Remaining() != 0 {
		return nil, s.error(TrailingData, "")
	}

	op.Hdr().Unique = hdr.Unique
	op.Hdr().Uid = hdr.Uid
	op.Hdr().Gid = hdr.Gid
	op.Hdr().Pid = hdr.Pid

	return op, nil
}

////////////////////////////////////////////////////////////////////////
// Decode state
////////////////////////////////////////////////////////////////////////

// A cursor over one message's argument region, accumulating the context
// needed to build useful errors.
type decodeState struct {
	m   *buffer.InMessage
	hdr *fusekernel.InHeader
}

func (s *decodeState) error(kind DecodeErrorKind, detail string) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Opcode: uint32(s.hdr.Opcode),
		Offset: s.m.Consumed(),
		Detail: detail,
	}
}

// Consume the next n bytes as a fixed-size argument struct.
func (s *decodeState) consume(n uintptr) (unsafe.Pointer, error) {
	p := s.m.Consume(n)
	if p == nil {
		return nil, s.error(Truncated, "")
	}

	return p, nil
}

// Consume a NUL-terminated name, not including the terminator.
func (s *decodeState) consumeName() (string, error) {
	name, ok := s.m.ConsumeString()
	if !ok {
		return "", s.error(InvalidString, "")
	}

	return name, nil
}

// Consume the rest of the message as a payload that the header-adjacent
// size field says should be exactly size bytes long. The result is an owned
// copy.
func (s *decodeState) consumePayload(size uint32) ([]byte, error) {
	if s.m.Remaining() != int(size) {
		return nil, s.error(MalformedArgument, "payload length disagrees with size field")
	}

	b := s.m.ConsumeBytes(uintptr(size))
	return append([]byte(nil), b...), nil
}

type decodeFunc func(*decodeState) (Op, error)

var opDecoders = map[fusekernel.Opcode]decodeFunc{
	fusekernel.OpLookup:        decodeLookup,
	fusekernel.OpForget:        decodeForget,
	fusekernel.OpBatchForget:   decodeBatchForget,
	fusekernel.OpGetattr:       decodeGetattr,
	fusekernel.OpSetattr:       decodeSetattr,
	fusekernel.OpReadlink:      decodeReadlink,
	fusekernel.OpSymlink:       decodeSymlink,
	fusekernel.OpMknod:         decodeMknod,
	fusekernel.OpMkdir:         decodeMkdir,
	fusekernel.OpUnlink:        decodeUnlink,
	fusekernel.OpRmdir:         decodeRmdir,
	fusekernel.OpRename:        decodeRename,
	fusekernel.OpRename2:       decodeRename2,
	fusekernel.OpLink:          decodeLink,
	fusekernel.OpOpen:          decodeOpen,
	fusekernel.OpRead:          decodeRead,
	fusekernel.OpWrite:         decodeWrite,
	fusekernel.OpStatfs:        decodeStatfs,
	fusekernel.OpRelease:       decodeRelease,
	fusekernel.OpFsync:         decodeFsync,
	fusekernel.OpSetxattr:      decodeSetxattr,
	fusekernel.OpGetxattr:      decodeGetxattr,
	fusekernel.OpListxattr:     decodeListxattr,
	fusekernel.OpRemovexattr:   decodeRemovexattr,
	fusekernel.OpFlush:         decodeFlush,
	fusekernel.OpOpendir:       decodeOpendir,
	fusekernel.OpReaddir:       decodeReaddir,
	fusekernel.OpReaddirplus:   decodeReaddirplus,
	fusekernel.OpReleasedir:    decodeReleasedir,
	fusekernel.OpFsyncdir:      decodeFsyncdir,
	fusekernel.OpGetlk:         decodeGetlk,
	fusekernel.OpSetlk:         decodeSetlk,
	fusekernel.OpSetlkw:        decodeSetlkw,
	fusekernel.OpAccess:        decodeAccess,
	fusekernel.OpCreate:        decodeCreate,
	fusekernel.OpInterrupt:     decodeInterrupt,
	fusekernel.OpBmap:          decodeBmap,
	fusekernel.OpPoll:          decodePoll,
	fusekernel.OpFallocate:     decodeFallocate,
	fusekernel.OpCopyFileRange: decodeCopyFileRange,
	fusekernel.OpNotifyReply:   decodeNotifyReply,
}

////////////////////////////////////////////////////////////////////////
// Field conversions
////////////////////////////////////////////////////////////////////////

// Convert the mode bits from a mknod-style request into an os.FileMode.
func convertFileMode(unixMode uint32) os.FileMode {
	mode := os.FileMode(unixMode & 0777)
	switch unixMode & unix.S_IFMT {
	case unix.S_IFREG:
		// Nothing to do.
	case unix.S_IFDIR:
		mode |= os.ModeDir
	case unix.S_IFCHR:
		mode |= os.ModeCharDevice | os.ModeDevice
	case unix.S_IFBLK:
		mode |= os.ModeDevice
	case unix.S_IFIFO:
		mode |= os.ModeNamedPipe
	case unix.S_IFLNK:
		mode |= os.ModeSymlink
	case unix.S_IFSOCK:
		mode |= os.ModeSocket
	}

	if unixMode&unix.S_ISUID != 0 {
		mode |= os.ModeSetuid
	}

	if unixMode&unix.S_ISGID != 0 {
		mode |= os.ModeSetgid
	}

	if unixMode&unix.S_ISVTX != 0 {
		mode |= os.ModeSticky
	}

	return mode
}

func convertTime(sec uint64, nsec uint32) time.Time {
	return time.Unix(int64(sec), int64(nsec))
}

func (s *decodeState) convertFileLock(lk *fusekernel.FileLock) (FileLock, error) {
	switch lk.Type {
	case unix.F_RDLCK, unix.F_WRLCK, unix.F_UNLCK:
	default:
		return FileLock{}, s.error(MalformedArgument, "unknown lock type")
	}

	return FileLock{
		Start: lk.Start,
		End:   lk.End,
		Type:  LockType(lk.Type),
		Pid:   lk.Pid,
	}, nil
}

////////////////////////////////////////////////////////////////////////
// Per-opcode decoders
////////////////////////////////////////////////////////////////////////

func decodeLookup(s *decodeState) (Op, error) {
	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &LookUpInodeOp{
		Parent: InodeID(s.hdr.Nodeid),
		Name:   name,
	}, nil
}

func decodeForget(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.ForgetIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.ForgetIn)(p)

	return &ForgetInodeOp{
		Inode: InodeID(s.hdr.Nodeid),
		N:     in.Nlookup,
	}, nil
}

func decodeBatchForget(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.BatchForgetIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.BatchForgetIn)(p)

	const entrySize = int(unsafe.Sizeof(fusekernel.ForgetOne{}))
	if s.m.Remaining()%entrySize != 0 {
		return nil, s.error(MalformedArgument, "entry region not a whole number of entries")
	}

	n := s.m.Remaining() / entrySize
	if n != int(in.Count) {
		return nil, s.error(MalformedArgument, "entry count disagrees with header")
	}

	op := &BatchForgetOp{
		Entries: make([]BatchForgetEntry, n),
	}

	for i := 0; i < n; i++ {
		one := (*fusekernel.ForgetOne)(s.m.Consume(uintptr(entrySize)))
		op.Entries[i] = BatchForgetEntry{
			Inode: InodeID(one.Nodeid),
			N:     one.Nlookup,
		}
	}

	return op, nil
}

func decodeGetattr(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.GetattrIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.GetattrIn)(p)

	op := &GetInodeAttributesOp{
		Inode: InodeID(s.hdr.Nodeid),
	}

	if in.Flags&fusekernel.GetattrFh != 0 {
		h := HandleID(in.Fh)
		op.Handle = &h
	}

	return op, nil
}

func decodeSetattr(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.SetattrIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.SetattrIn)(p)

	op := &SetInodeAttributesOp{
		Inode: InodeID(s.hdr.Nodeid),
	}

	valid := in.Valid

	if valid&fusekernel.FattrFh != 0 {
		h := HandleID(in.Fh)
		op.Handle = &h
	}

	if valid&fusekernel.FattrLockOwner != 0 {
		lo := LockOwner(in.LockOwner)
		op.LockOwner = &lo
	}

	// in points into the message's storage; copy field values out rather than
	// retaining pointers into a buffer that will be recycled.
	if valid&fusekernel.FattrSize != 0 {
		size := in.Size
		op.Size = &size
	}

	if valid&fusekernel.FattrMode != 0 {
		mode := convertFileMode(in.Mode)
		op.Mode = &mode
	}

	if valid&fusekernel.FattrUid != 0 {
		uid := in.Uid
		op.Uid = &uid
	}

	if valid&fusekernel.FattrGid != 0 {
		gid := in.Gid
		op.Gid = &gid
	}

	if valid&fusekernel.FattrAtime != 0 {
		if valid&fusekernel.FattrAtimeNow != 0 {
			op.Atime = SetAttrTimeNow()
		} else {
			op.Atime = SetAttrTimestamp(convertTime(in.Atime, in.AtimeNsec))
		}
	}

	if valid&fusekernel.FattrMtime != 0 {
		if valid&fusekernel.FattrMtimeNow != 0 {
			op.Mtime = SetAttrTimeNow()
		} else {
			op.Mtime = SetAttrTimestamp(convertTime(in.Mtime, in.MtimeNsec))
		}
	}

	if valid&fusekernel.FattrCtime != 0 {
		t := convertTime(in.Ctime, in.CtimeNsec)
		op.Ctime = &t
	}

	return op, nil
}

func decodeReadlink(s *decodeState) (Op, error) {
	return &ReadSymlinkOp{
		Inode: InodeID(s.hdr.Nodeid),
	}, nil
}

func decodeSymlink(s *decodeState) (Op, error) {
	// The request carries two consecutive names: the link name, then its
	// target.
	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	target, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &CreateSymlinkOp{
		Parent: InodeID(s.hdr.Nodeid),
		Name:   name,
		Target: target,
	}, nil
}

func decodeMknod(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.MknodIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.MknodIn)(p)

	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &MkNodeOp{
		Parent: InodeID(s.hdr.Nodeid),
		Name:   name,
		Mode:   convertFileMode(in.Mode),
		Rdev:   in.Rdev,
	}, nil
}

func decodeMkdir(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.MkdirIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.MkdirIn)(p)

	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &MkDirOp{
		Parent: InodeID(s.hdr.Nodeid),
		Name:   name,

		// The kernel sends the mode bits without the directory type bit set;
		// it is implied by the opcode.
		Mode: convertFileMode(in.Mode) | os.ModeDir,
	}, nil
}

func decodeUnlink(s *decodeState) (Op, error) {
	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &UnlinkOp{
		Parent: InodeID(s.hdr.Nodeid),
		Name:   name,
	}, nil
}

func decodeRmdir(s *decodeState) (Op, error) {
	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &RmDirOp{
		Parent: InodeID(s.hdr.Nodeid),
		Name:   name,
	}, nil
}

func decodeRename(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.RenameIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.RenameIn)(p)

	oldName, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	newName, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &RenameOp{
		OldParent: InodeID(s.hdr.Nodeid),
		OldName:   oldName,
		NewParent: InodeID(in.Newdir),
		NewName:   newName,
	}, nil
}

func decodeRename2(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.Rename2In{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.Rename2In)(p)

	oldName, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	newName, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &RenameOp{
		OldParent: InodeID(s.hdr.Nodeid),
		OldName:   oldName,
		NewParent: InodeID(in.Newdir),
		NewName:   newName,
		Flags:     in.Flags,
	}, nil
}

func decodeLink(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.LinkIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.LinkIn)(p)

	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &CreateLinkOp{
		Parent: InodeID(s.hdr.Nodeid),
		Name:   name,
		Target: InodeID(in.Oldnodeid),
	}, nil
}

func decodeOpen(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.OpenIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.OpenIn)(p)

	return &OpenFileOp{
		Inode: InodeID(s.hdr.Nodeid),
		Flags: in.Flags,
	}, nil
}

func decodeRead(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.ReadIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.ReadIn)(p)

	return &ReadFileOp{
		Inode:  InodeID(s.hdr.Nodeid),
		Handle: HandleID(in.Fh),
		Offset: int64(in.Offset),
		Size:   int(in.Size),
	}, nil
}

func decodeWrite(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.WriteIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.WriteIn)(p)

	data, err := s.consumePayload(in.Size)
	if err != nil {
		return nil, err
	}

	op := &WriteFileOp{
		Inode:  InodeID(s.hdr.Nodeid),
		Handle: HandleID(in.Fh),
		Offset: int64(in.Offset),
		Data:   data,
	}

	if in.WriteFlags&fusekernel.WriteLockOwner != 0 {
		lo := LockOwner(in.LockOwner)
		op.LockOwner = &lo
	}

	return op, nil
}

func decodeStatfs(s *decodeState) (Op, error) {
	return &StatFSOp{}, nil
}

func decodeRelease(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.ReleaseIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.ReleaseIn)(p)

	return &ReleaseFileHandleOp{
		Inode:        InodeID(s.hdr.Nodeid),
		Handle:       HandleID(in.Fh),
		LockOwner:    LockOwner(in.LockOwner),
		Flush:        in.ReleaseFlags&fusekernel.ReleaseFlush != 0,
		FlockRelease: in.ReleaseFlags&fusekernel.ReleaseFlockUnlock != 0,
	}, nil
}

func decodeFsync(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.FsyncIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.FsyncIn)(p)

	return &SyncFileOp{
		Inode:    InodeID(s.hdr.Nodeid),
		Handle:   HandleID(in.Fh),
		Datasync: in.FsyncFlags&fusekernel.FsyncFdatasync != 0,
	}, nil
}

func decodeSetxattr(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.SetxattrIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.SetxattrIn)(p)

	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	value, err := s.consumePayload(in.Size)
	if err != nil {
		return nil, err
	}

	return &SetXattrOp{
		Inode: InodeID(s.hdr.Nodeid),
		Name:  name,
		Value: value,
		Flags: in.Flags,
	}, nil
}

func decodeGetxattr(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.GetxattrIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.GetxattrIn)(p)

	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &GetXattrOp{
		Inode: InodeID(s.hdr.Nodeid),
		Name:  name,
		Size:  in.Size,
	}, nil
}

func decodeListxattr(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.GetxattrIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.GetxattrIn)(p)

	return &ListXattrOp{
		Inode: InodeID(s.hdr.Nodeid),
		Size:  in.Size,
	}, nil
}

func decodeRemovexattr(s *decodeState) (Op, error) {
	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &RemoveXattrOp{
		Inode: InodeID(s.hdr.Nodeid),
		Name:  name,
	}, nil
}

func decodeFlush(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.FlushIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.FlushIn)(p)

	return &FlushFileOp{
		Inode:     InodeID(s.hdr.Nodeid),
		Handle:    HandleID(in.Fh),
		LockOwner: LockOwner(in.LockOwner),
	}, nil
}

func decodeOpendir(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.OpenIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.OpenIn)(p)

	return &OpenDirOp{
		Inode: InodeID(s.hdr.Nodeid),
		Flags: in.Flags,
	}, nil
}

func decodeReaddir(s *decodeState) (Op, error) {
	return s.decodeReaddirCommon(ReadDirPlain)
}

func decodeReaddirplus(s *decodeState) (Op, error) {
	return s.decodeReaddirCommon(ReadDirPlus)
}

func (s *decodeState) decodeReaddirCommon(mode ReadDirMode) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.ReadIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.ReadIn)(p)

	return &ReadDirOp{
		Inode:  InodeID(s.hdr.Nodeid),
		Handle: HandleID(in.Fh),
		Offset: DirOffset(in.Offset),
		Mode:   mode,
		Size:   int(in.Size),
	}, nil
}

func decodeReleasedir(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.ReleaseIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.ReleaseIn)(p)

	return &ReleaseDirHandleOp{
		Inode:  InodeID(s.hdr.Nodeid),
		Handle: HandleID(in.Fh),
	}, nil
}

func decodeFsyncdir(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.FsyncIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.FsyncIn)(p)

	return &SyncDirOp{
		Inode:    InodeID(s.hdr.Nodeid),
		Handle:   HandleID(in.Fh),
		Datasync: in.FsyncFlags&fusekernel.FsyncFdatasync != 0,
	}, nil
}

func decodeGetlk(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.LkIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.LkIn)(p)

	lock, err := s.convertFileLock(&in.Lk)
	if err != nil {
		return nil, err
	}

	return &GetLockOp{
		Inode:  InodeID(s.hdr.Nodeid),
		Handle: HandleID(in.Fh),
		Owner:  LockOwner(in.Owner),
		Lock:   lock,
	}, nil
}

func decodeSetlk(s *decodeState) (Op, error) {
	return s.decodeSetlkCommon(false)
}

func decodeSetlkw(s *decodeState) (Op, error) {
	return s.decodeSetlkCommon(true)
}

func (s *decodeState) decodeSetlkCommon(blocking bool) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.LkIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.LkIn)(p)

	lock, err := s.convertFileLock(&in.Lk)
	if err != nil {
		return nil, err
	}

	// A BSD lock rides on the SETLK opcodes, marked by a flag and expressed
	// in POSIX lock terms. Translate back to flock(2) vocabulary.
	if in.LkFlags&fusekernel.LkFlock != 0 {
		var operation int
		switch lock.Type {
		case ReadLock:
			operation = unix.LOCK_SH
		case WriteLock:
			operation = unix.LOCK_EX
		case Unlocked:
			operation = unix.LOCK_UN
		}

		if !blocking {
			operation |= unix.LOCK_NB
		}

		return &FlockOp{
			Inode:     InodeID(s.hdr.Nodeid),
			Handle:    HandleID(in.Fh),
			Owner:     LockOwner(in.Owner),
			Operation: operation,
		}, nil
	}

	return &SetLockOp{
		Inode:    InodeID(s.hdr.Nodeid),
		Handle:   HandleID(in.Fh),
		Owner:    LockOwner(in.Owner),
		Lock:     lock,
		Blocking: blocking,
	}, nil
}

func decodeAccess(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.AccessIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.AccessIn)(p)

	return &AccessOp{
		Inode: InodeID(s.hdr.Nodeid),
		Mask:  in.Mask,
	}, nil
}

func decodeCreate(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.CreateIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.CreateIn)(p)

	name, err := s.consumeName()
	if err != nil {
		return nil, err
	}

	return &CreateFileOp{
		Parent: InodeID(s.hdr.Nodeid),
		Name:   name,
		Mode:   convertFileMode(in.Mode),
		Flags:  in.Flags,
	}, nil
}

func decodeInterrupt(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.InterruptIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.InterruptIn)(p)

	return &InterruptOp{
		FuseID: in.Unique,
	}, nil
}

func decodeBmap(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.BmapIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.BmapIn)(p)

	return &BmapOp{
		Inode:     InodeID(s.hdr.Nodeid),
		Block:     in.Block,
		BlockSize: in.BlockSize,
	}, nil
}

func decodePoll(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.PollIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.PollIn)(p)

	return &PollOp{
		Inode:          InodeID(s.hdr.Nodeid),
		Handle:         HandleID(in.Fh),
		Events:         in.Events,
		ScheduleNotify: in.Flags&fusekernel.PollScheduleNotify != 0,
		Kh:             in.Kh,
	}, nil
}

func decodeFallocate(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.FallocateIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.FallocateIn)(p)

	return &FallocateOp{
		Inode:  InodeID(s.hdr.Nodeid),
		Handle: HandleID(in.Fh),
		Offset: in.Offset,
		Length: in.Length,
		Mode:   in.Mode,
	}, nil
}

func decodeCopyFileRange(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.CopyFileRangeIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.CopyFileRangeIn)(p)

	return &CopyFileRangeOp{
		SrcInode:  InodeID(s.hdr.Nodeid),
		SrcHandle: HandleID(in.FhIn),
		SrcOffset: in.OffIn,
		DstInode:  InodeID(in.NodeidOut),
		DstHandle: HandleID(in.FhOut),
		DstOffset: in.OffOut,
		Length:    in.Len,
		Flags:     in.Flags,
	}, nil
}

func decodeNotifyReply(s *decodeState) (Op, error) {
	p, err := s.consume(unsafe.Sizeof(fusekernel.NotifyRetrieveIn{}))
	if err != nil {
		return nil, err
	}
	in := (*fusekernel.NotifyRetrieveIn)(p)

	data, err := s.consumePayload(in.Size)
	if err != nil {
		return nil, err
	}

	return &NotifyReplyOp{
		Inode:  InodeID(s.hdr.Nodeid),
		Offset: in.Offset,
		Data:   data,
	}, nil
}
