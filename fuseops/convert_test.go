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

package fuseops_test

import (
	"bytes"
	"fmt"
	"os"
	"testing"
	"time"
	"unsafe"

	"github.com/jacobsa/fusewire/fuseops"
	"github.com/jacobsa/fusewire/fusetesting"
	"github.com/jacobsa/fusewire/internal/fusekernel"
	. "github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/ogletest"
	"golang.org/x/sys/unix"
)

func TestConvert(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Boilerplate
////////////////////////////////////////////////////////////////////////

type ConvertTest struct {
}

func init() { RegisterTestSuite(&ConvertTest{}) }

// Decode the supplied raw message.
func convertBytes(p []byte) (fuseops.Op, error) {
	m, err := fusetesting.MessageFor(p)
	AssertEq(nil, err)

	return fuseops.Convert(m)
}

// Return a copy of the message cut to n bytes, with the header's length
// field patched to match so that framing validation passes.
func truncate(p []byte, n int) []byte {
	q := append([]byte(nil), p[:n]...)
	if n >= 4 {
		*(*uint32)(unsafe.Pointer(&q[0])) = uint32(n)
	}

	return q
}

const headerSize = int(unsafe.Sizeof(fusekernel.InHeader{}))

// A minimal valid request for each opcode the decoder understands, for
// properties that must hold across the board.
func allValidRequests() map[string][]byte {
	reqs := make(map[string][]byte)
	add := func(name string, p []byte) {
		reqs[name] = p
	}

	structReq := func(opcode fusekernel.Opcode, p unsafe.Pointer, size uintptr) []byte {
		return fusetesting.NewRequest(opcode, 1, 1).
			AppendStruct(p, size).
			Bytes()
	}

	add("LOOKUP", fusetesting.NewRequest(fusekernel.OpLookup, 1, 1).AppendName("x").Bytes())

	{
		in := fusekernel.ForgetIn{Nlookup: 1}
		add("FORGET", structReq(fusekernel.OpForget, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.BatchForgetIn{Count: 1}
		one := fusekernel.ForgetOne{Nodeid: 2, Nlookup: 1}
		add("BATCH_FORGET", fusetesting.NewRequest(fusekernel.OpBatchForget, 1, 0).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendStruct(unsafe.Pointer(&one), unsafe.Sizeof(one)).
			Bytes())
	}

	{
		in := fusekernel.GetattrIn{}
		add("GETATTR", structReq(fusekernel.OpGetattr, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.SetattrIn{}
		add("SETATTR", structReq(fusekernel.OpSetattr, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	add("READLINK", fusetesting.NewRequest(fusekernel.OpReadlink, 1, 1).Bytes())
	add("SYMLINK", fusetesting.NewRequest(fusekernel.OpSymlink, 1, 1).
		AppendName("x").
		AppendName("y").
		Bytes())

	{
		in := fusekernel.MknodIn{Mode: unix.S_IFREG | 0644}
		add("MKNOD", fusetesting.NewRequest(fusekernel.OpMknod, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendName("x").
			Bytes())
	}

	{
		in := fusekernel.MkdirIn{Mode: 0755}
		add("MKDIR", fusetesting.NewRequest(fusekernel.OpMkdir, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendName("x").
			Bytes())
	}

	add("UNLINK", fusetesting.NewRequest(fusekernel.OpUnlink, 1, 1).AppendName("x").Bytes())
	add("RMDIR", fusetesting.NewRequest(fusekernel.OpRmdir, 1, 1).AppendName("x").Bytes())

	{
		in := fusekernel.RenameIn{Newdir: 2}
		add("RENAME", fusetesting.NewRequest(fusekernel.OpRename, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendName("x").
			AppendName("y").
			Bytes())
	}

	{
		in := fusekernel.Rename2In{Newdir: 2}
		add("RENAME2", fusetesting.NewRequest(fusekernel.OpRename2, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendName("x").
			AppendName("y").
			Bytes())
	}

	{
		in := fusekernel.LinkIn{Oldnodeid: 2}
		add("LINK", fusetesting.NewRequest(fusekernel.OpLink, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendName("x").
			Bytes())
	}

	{
		in := fusekernel.OpenIn{}
		add("OPEN", structReq(fusekernel.OpOpen, unsafe.Pointer(&in), unsafe.Sizeof(in)))
		add("OPENDIR", structReq(fusekernel.OpOpendir, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.ReadIn{Size: 4096}
		add("READ", structReq(fusekernel.OpRead, unsafe.Pointer(&in), unsafe.Sizeof(in)))
		add("READDIR", structReq(fusekernel.OpReaddir, unsafe.Pointer(&in), unsafe.Sizeof(in)))
		add("READDIRPLUS", structReq(fusekernel.OpReaddirplus, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.WriteIn{Size: 2}
		add("WRITE", fusetesting.NewRequest(fusekernel.OpWrite, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendBytes([]byte{1, 2}).
			Bytes())
	}

	add("STATFS", fusetesting.NewRequest(fusekernel.OpStatfs, 1, 1).Bytes())

	{
		in := fusekernel.ReleaseIn{Fh: 1}
		add("RELEASE", structReq(fusekernel.OpRelease, unsafe.Pointer(&in), unsafe.Sizeof(in)))
		add("RELEASEDIR", structReq(fusekernel.OpReleasedir, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.FsyncIn{Fh: 1}
		add("FSYNC", structReq(fusekernel.OpFsync, unsafe.Pointer(&in), unsafe.Sizeof(in)))
		add("FSYNCDIR", structReq(fusekernel.OpFsyncdir, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.SetxattrIn{Size: 1}
		add("SETXATTR", fusetesting.NewRequest(fusekernel.OpSetxattr, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendName("user.x").
			AppendBytes([]byte{7}).
			Bytes())
	}

	{
		in := fusekernel.GetxattrIn{}
		add("GETXATTR", fusetesting.NewRequest(fusekernel.OpGetxattr, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendName("user.x").
			Bytes())
		add("LISTXATTR", structReq(fusekernel.OpListxattr, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	add("REMOVEXATTR", fusetesting.NewRequest(fusekernel.OpRemovexattr, 1, 1).AppendName("user.x").Bytes())

	{
		in := fusekernel.FlushIn{Fh: 1}
		add("FLUSH", structReq(fusekernel.OpFlush, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.LkIn{Fh: 1, Lk: fusekernel.FileLock{Type: unix.F_RDLCK}}
		add("GETLK", structReq(fusekernel.OpGetlk, unsafe.Pointer(&in), unsafe.Sizeof(in)))
		add("SETLK", structReq(fusekernel.OpSetlk, unsafe.Pointer(&in), unsafe.Sizeof(in)))
		add("SETLKW", structReq(fusekernel.OpSetlkw, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.AccessIn{Mask: 4}
		add("ACCESS", structReq(fusekernel.OpAccess, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.CreateIn{Mode: unix.S_IFREG | 0644}
		add("CREATE", fusetesting.NewRequest(fusekernel.OpCreate, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendName("x").
			Bytes())
	}

	{
		in := fusekernel.InterruptIn{Unique: 7}
		add("INTERRUPT", structReq(fusekernel.OpInterrupt, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.BmapIn{Block: 1, BlockSize: 512}
		add("BMAP", structReq(fusekernel.OpBmap, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.PollIn{Fh: 1}
		add("POLL", structReq(fusekernel.OpPoll, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.FallocateIn{Fh: 1, Length: 1}
		add("FALLOCATE", structReq(fusekernel.OpFallocate, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.CopyFileRangeIn{FhIn: 1, FhOut: 2, Len: 1}
		add("COPY_FILE_RANGE", structReq(fusekernel.OpCopyFileRange, unsafe.Pointer(&in), unsafe.Sizeof(in)))
	}

	{
		in := fusekernel.NotifyRetrieveIn{Size: 1}
		add("NOTIFY_REPLY", fusetesting.NewRequest(fusekernel.OpNotifyReply, 1, 1).
			AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
			AppendBytes([]byte{9}).
			Bytes())
	}

	return reqs
}

////////////////////////////////////////////////////////////////////////
// Framing
////////////////////////////////////////////////////////////////////////

func (t *ConvertTest) TruncatedHeader() {
	full := fusetesting.NewRequest(fusekernel.OpLookup, 1, 1).AppendName("foo").Bytes()

	for n := 1; n < headerSize; n++ {
		op, err := convertBytes(full[:n])

		AssertEq(nil, op, "n=%d", n)
		ExpectThat(err, fusetesting.IsDecodeError(fuseops.Truncated), "n=%d", n)
	}
}

func (t *ConvertTest) TruncatedArguments() {
	// Cutting any number of trailing bytes from any opcode's minimal valid
	// message must yield an error, never a partially-populated op.
	for name, full := range allValidRequests() {
		for n := headerSize; n < len(full); n++ {
			op, err := convertBytes(truncate(full, n))

			AssertEq(nil, op, "%s truncated to %d", name, n)
			AssertNe(nil, err, "%s truncated to %d", name, n)
		}
	}
}

func (t *ConvertTest) DeclaredLengthTooLarge() {
	b := fusetesting.NewRequest(fusekernel.OpLookup, 1, 1).AppendName("foo")
	p := b.BytesWithLen(uint32(len(b.Bytes()) + 8))

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.LengthMismatch))
}

func (t *ConvertTest) DeclaredLengthTooSmall() {
	b := fusetesting.NewRequest(fusekernel.OpLookup, 1, 1).AppendName("foo")
	p := b.BytesWithLen(uint32(len(b.Bytes()) - 2))

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.LengthMismatch))
}

func (t *ConvertTest) RawTruncationIsCaughtByFraming() {
	// Without patching the length field, a short delivery shows up as a
	// length mismatch.
	full := fusetesting.NewRequest(fusekernel.OpLookup, 1, 1).AppendName("foo").Bytes()

	_, err := convertBytes(full[:len(full)-1])
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.LengthMismatch))
}

func (t *ConvertTest) TrailingData() {
	p := fusetesting.NewRequest(fusekernel.OpUnlink, 1, 1).
		AppendName("foo").
		AppendBytes([]byte{0xde, 0xad}).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.TrailingData))
}

func (t *ConvertTest) TrailingDataAfterStruct() {
	in := fusekernel.AccessIn{Mask: 4}
	p := fusetesting.NewRequest(fusekernel.OpAccess, 1, 1).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendBytes([]byte{0}).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.TrailingData))
}

func (t *ConvertTest) UnknownOpcode() {
	p := fusetesting.NewRequest(fusekernel.Opcode(9999), 1, 1).Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, op)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.UnknownOpcode))

	de := err.(*fuseops.DecodeError)
	ExpectEq(9999, de.Opcode)
}

func (t *ConvertTest) UnterminatedName() {
	p := fusetesting.NewRequest(fusekernel.OpLookup, 1, 1).
		AppendBytes([]byte("foo")).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.InvalidString))
}

func (t *ConvertTest) HeaderFieldsPropagated() {
	p := fusetesting.NewRequest(fusekernel.OpReadlink, 0xcafef00d, 19).
		SetCreds(501, 20, 1234).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	hdr := op.Hdr()
	ExpectEq(0xcafef00d, hdr.Unique)
	ExpectEq(501, hdr.Uid)
	ExpectEq(20, hdr.Gid)
	ExpectEq(1234, hdr.Pid)
}

func (t *ConvertTest) AllOpcodesDecode() {
	for name, p := range allValidRequests() {
		op, err := convertBytes(p)

		AssertEq(nil, err, "%s", name)
		AssertNe(nil, op, "%s", name)
	}
}

////////////////////////////////////////////////////////////////////////
// Inodes
////////////////////////////////////////////////////////////////////////

func (t *ConvertTest) LookUpInode() {
	p := fusetesting.NewRequest(fusekernel.OpLookup, 7, 1).
		AppendName("foo").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	expected := &fuseops.LookUpInodeOp{
		Parent: 1,
		Name:   "foo",
	}
	expected.Unique = 7

	ExpectThat(op, fusetesting.OpIs(expected))
}

func (t *ConvertTest) GetInodeAttributes() {
	in := fusekernel.GetattrIn{}
	p := fusetesting.NewRequest(fusekernel.OpGetattr, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.GetInodeAttributesOp)
	ExpectEq(17, typed.Inode)
	ExpectTrue(typed.Handle == nil)
}

func (t *ConvertTest) GetInodeAttributesWithHandle() {
	in := fusekernel.GetattrIn{
		Flags: fusekernel.GetattrFh,
		Fh:    0xbeef,
	}
	p := fusetesting.NewRequest(fusekernel.OpGetattr, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.GetInodeAttributesOp)
	AssertTrue(typed.Handle != nil)
	ExpectEq(fuseops.HandleID(0xbeef), *typed.Handle)
}

func (t *ConvertTest) SetInodeAttributes_MtimeNow() {
	in := fusekernel.SetattrIn{
		Valid: fusekernel.FattrMtime | fusekernel.FattrMtimeNow,
	}
	p := fusetesting.NewRequest(fusekernel.OpSetattr, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.SetInodeAttributesOp)
	ExpectTrue(typed.Mtime.Now())
	ExpectTrue(typed.Atime.Omitted())
	ExpectTrue(typed.Size == nil)
	ExpectTrue(typed.Mode == nil)
	ExpectTrue(typed.Ctime == nil)
}

func (t *ConvertTest) SetInodeAttributes_AllFields() {
	in := fusekernel.SetattrIn{
		Valid: fusekernel.FattrMode | fusekernel.FattrUid | fusekernel.FattrGid |
			fusekernel.FattrSize | fusekernel.FattrAtime | fusekernel.FattrMtime |
			fusekernel.FattrFh | fusekernel.FattrLockOwner | fusekernel.FattrCtime,
		Fh:        11,
		Size:      4096,
		LockOwner: 0xabcd,
		Atime:     1000,
		AtimeNsec: 1,
		Mtime:     2000,
		MtimeNsec: 2,
		Ctime:     3000,
		CtimeNsec: 3,
		Mode:      0640,
		Uid:       501,
		Gid:       20,
	}
	p := fusetesting.NewRequest(fusekernel.OpSetattr, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.SetInodeAttributesOp)
	ExpectEq(17, typed.Inode)

	AssertTrue(typed.Handle != nil)
	ExpectEq(fuseops.HandleID(11), *typed.Handle)

	AssertTrue(typed.LockOwner != nil)
	ExpectEq(fuseops.LockOwner(0xabcd), *typed.LockOwner)

	AssertTrue(typed.Size != nil)
	ExpectEq(4096, *typed.Size)

	AssertTrue(typed.Mode != nil)
	ExpectEq(os.FileMode(0640), *typed.Mode)

	AssertTrue(typed.Uid != nil)
	ExpectEq(501, *typed.Uid)

	AssertTrue(typed.Gid != nil)
	ExpectEq(20, *typed.Gid)

	atime, ok := typed.Atime.Timestamp()
	AssertTrue(ok)
	ExpectTrue(atime.Equal(time.Unix(1000, 1)))

	mtime, ok := typed.Mtime.Timestamp()
	AssertTrue(ok)
	ExpectTrue(mtime.Equal(time.Unix(2000, 2)))

	AssertTrue(typed.Ctime != nil)
	ExpectTrue(typed.Ctime.Equal(time.Unix(3000, 3)))
}

func (t *ConvertTest) ForgetInode() {
	in := fusekernel.ForgetIn{Nlookup: 12}
	p := fusetesting.NewRequest(fusekernel.OpForget, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.ForgetInodeOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(12, typed.N)
}

func (t *ConvertTest) BatchForget() {
	in := fusekernel.BatchForgetIn{Count: 2}
	e0 := fusekernel.ForgetOne{Nodeid: 5, Nlookup: 1}
	e1 := fusekernel.ForgetOne{Nodeid: 6, Nlookup: 2}

	p := fusetesting.NewRequest(fusekernel.OpBatchForget, 1, 0).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendStruct(unsafe.Pointer(&e0), unsafe.Sizeof(e0)).
		AppendStruct(unsafe.Pointer(&e1), unsafe.Sizeof(e1)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.BatchForgetOp)
	AssertEq(2, len(typed.Entries))
	ExpectEq(fuseops.InodeID(5), typed.Entries[0].Inode)
	ExpectEq(1, typed.Entries[0].N)
	ExpectEq(fuseops.InodeID(6), typed.Entries[1].Inode)
	ExpectEq(2, typed.Entries[1].N)
}

func (t *ConvertTest) BatchForget_RaggedEntryRegion() {
	in := fusekernel.BatchForgetIn{Count: 2}
	e0 := fusekernel.ForgetOne{Nodeid: 5, Nlookup: 1}

	p := fusetesting.NewRequest(fusekernel.OpBatchForget, 1, 0).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendStruct(unsafe.Pointer(&e0), unsafe.Sizeof(e0)).
		AppendBytes([]byte{1, 2, 3}).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.MalformedArgument))
}

func (t *ConvertTest) BatchForget_CountDisagrees() {
	in := fusekernel.BatchForgetIn{Count: 3}
	e0 := fusekernel.ForgetOne{Nodeid: 5, Nlookup: 1}
	e1 := fusekernel.ForgetOne{Nodeid: 6, Nlookup: 2}

	p := fusetesting.NewRequest(fusekernel.OpBatchForget, 1, 0).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendStruct(unsafe.Pointer(&e0), unsafe.Sizeof(e0)).
		AppendStruct(unsafe.Pointer(&e1), unsafe.Sizeof(e1)).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.MalformedArgument))
}

////////////////////////////////////////////////////////////////////////
// Inode creation and naming
////////////////////////////////////////////////////////////////////////

func (t *ConvertTest) MkNode() {
	in := fusekernel.MknodIn{
		Mode: unix.S_IFIFO | 0600,
		Rdev: 42,
	}
	p := fusetesting.NewRequest(fusekernel.OpMknod, 1, 3).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("fifo").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.MkNodeOp)
	ExpectEq(3, typed.Parent)
	ExpectEq("fifo", typed.Name)
	ExpectEq(os.ModeNamedPipe|0600, typed.Mode)
	ExpectEq(42, typed.Rdev)
}

func (t *ConvertTest) MkDir() {
	in := fusekernel.MkdirIn{Mode: 0755}
	p := fusetesting.NewRequest(fusekernel.OpMkdir, 1, 3).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("dir").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.MkDirOp)
	ExpectEq(3, typed.Parent)
	ExpectEq("dir", typed.Name)
	ExpectEq(os.ModeDir|0755, typed.Mode)
}

func (t *ConvertTest) CreateFile() {
	in := fusekernel.CreateIn{
		Flags: unix.O_RDWR,
		Mode:  unix.S_IFREG | 0644,
	}
	p := fusetesting.NewRequest(fusekernel.OpCreate, 1, 3).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("taco").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.CreateFileOp)
	ExpectEq(3, typed.Parent)
	ExpectEq("taco", typed.Name)
	ExpectEq(os.FileMode(0644), typed.Mode)
	ExpectEq(unix.O_RDWR, typed.Flags)
}

func (t *ConvertTest) CreateSymlink() {
	p := fusetesting.NewRequest(fusekernel.OpSymlink, 1, 3).
		AppendName("link").
		AppendName("/some/target").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.CreateSymlinkOp)
	ExpectEq(3, typed.Parent)
	ExpectEq("link", typed.Name)
	ExpectEq("/some/target", typed.Target)
}

func (t *ConvertTest) CreateLink() {
	in := fusekernel.LinkIn{Oldnodeid: 9}
	p := fusetesting.NewRequest(fusekernel.OpLink, 1, 3).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("hard").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.CreateLinkOp)
	ExpectEq(3, typed.Parent)
	ExpectEq("hard", typed.Name)
	ExpectEq(9, typed.Target)
}

func (t *ConvertTest) Rename() {
	in := fusekernel.RenameIn{Newdir: 4}
	p := fusetesting.NewRequest(fusekernel.OpRename, 1, 3).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("a").
		AppendName("b").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.RenameOp)
	ExpectEq(3, typed.OldParent)
	ExpectEq("a", typed.OldName)
	ExpectEq(4, typed.NewParent)
	ExpectEq("b", typed.NewName)
	ExpectEq(0, typed.Flags)
}

func (t *ConvertTest) Rename2() {
	in := fusekernel.Rename2In{
		Newdir: 4,
		Flags:  fusekernel.RenameNoreplace,
	}
	p := fusetesting.NewRequest(fusekernel.OpRename2, 1, 3).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("a").
		AppendName("b").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.RenameOp)
	ExpectEq("a", typed.OldName)
	ExpectEq("b", typed.NewName)
	ExpectEq(fusekernel.RenameNoreplace, typed.Flags)
}

func (t *ConvertTest) Rename_MissingSecondName() {
	in := fusekernel.RenameIn{Newdir: 4}
	p := fusetesting.NewRequest(fusekernel.OpRename, 1, 3).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("a").
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.InvalidString))
}

func (t *ConvertTest) Unlink() {
	p := fusetesting.NewRequest(fusekernel.OpUnlink, 1, 3).
		AppendName("taco").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.UnlinkOp)
	ExpectEq(3, typed.Parent)
	ExpectEq("taco", typed.Name)
}

func (t *ConvertTest) RmDir() {
	p := fusetesting.NewRequest(fusekernel.OpRmdir, 1, 3).
		AppendName("dir").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.RmDirOp)
	ExpectEq(3, typed.Parent)
	ExpectEq("dir", typed.Name)
}

////////////////////////////////////////////////////////////////////////
// Files
////////////////////////////////////////////////////////////////////////

func (t *ConvertTest) OpenFile() {
	in := fusekernel.OpenIn{Flags: unix.O_WRONLY}
	p := fusetesting.NewRequest(fusekernel.OpOpen, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.OpenFileOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(unix.O_WRONLY, typed.Flags)
}

func (t *ConvertTest) ReadFile() {
	in := fusekernel.ReadIn{
		Fh:     11,
		Offset: 4096,
		Size:   1 << 16,
	}
	p := fusetesting.NewRequest(fusekernel.OpRead, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.ReadFileOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectEq(4096, typed.Offset)
	ExpectEq(1<<16, typed.Size)
}

func (t *ConvertTest) WriteFile() {
	payload := []byte{1, 2, 3, 4}
	in := fusekernel.WriteIn{
		Fh:     3,
		Offset: 0,
		Size:   uint32(len(payload)),
	}
	p := fusetesting.NewRequest(fusekernel.OpWrite, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendBytes(payload).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.WriteFileOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(3), typed.Handle)
	ExpectEq(0, typed.Offset)
	ExpectThat(typed.Data, DeepEquals(payload))
	ExpectTrue(typed.LockOwner == nil)
}

func (t *ConvertTest) WriteFile_LockOwner() {
	in := fusekernel.WriteIn{
		Fh:         3,
		Size:       1,
		WriteFlags: fusekernel.WriteLockOwner,
		LockOwner:  0xfeed,
	}
	p := fusetesting.NewRequest(fusekernel.OpWrite, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendBytes([]byte{9}).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.WriteFileOp)
	AssertTrue(typed.LockOwner != nil)
	ExpectEq(fuseops.LockOwner(0xfeed), *typed.LockOwner)
}

func (t *ConvertTest) WriteFile_PayloadShorterThanSize() {
	in := fusekernel.WriteIn{Fh: 3, Size: 4}
	p := fusetesting.NewRequest(fusekernel.OpWrite, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendBytes([]byte{1, 2, 3}).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.MalformedArgument))
}

func (t *ConvertTest) WriteFile_PayloadLongerThanSize() {
	in := fusekernel.WriteIn{Fh: 3, Size: 4}
	p := fusetesting.NewRequest(fusekernel.OpWrite, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendBytes([]byte{1, 2, 3, 4, 5}).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.MalformedArgument))
}

func (t *ConvertTest) WriteFile_PayloadIsOwned() {
	payload := []byte{1, 2, 3, 4}
	in := fusekernel.WriteIn{Fh: 3, Size: 4}
	p := fusetesting.NewRequest(fusekernel.OpWrite, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendBytes(payload).
		Bytes()

	m, err := fusetesting.MessageFor(p)
	AssertEq(nil, err)

	op, err := fuseops.Convert(m)
	AssertEq(nil, err)

	// Recycle the same message for an unrelated request, as a connection's
	// message pool would.
	other := fusetesting.NewRequest(fusekernel.OpUnlink, 2, 1).
		AppendName("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz").
		Bytes()

	AssertEq(nil, m.Init(bytes.NewReader(other)))

	typed := op.(*fuseops.WriteFileOp)
	ExpectThat(typed.Data, DeepEquals(payload))
}

func (t *ConvertTest) SetInodeAttributes_FieldsAreOwned() {
	in := fusekernel.SetattrIn{
		Valid: fusekernel.FattrSize | fusekernel.FattrUid | fusekernel.FattrGid,
		Size:  4096,
		Uid:   501,
		Gid:   20,
	}
	p := fusetesting.NewRequest(fusekernel.OpSetattr, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	m, err := fusetesting.MessageFor(p)
	AssertEq(nil, err)

	op, err := fuseops.Convert(m)
	AssertEq(nil, err)

	// Recycle the same message for a second setattr with different values.
	// The op decoded from the first request must not see them.
	in2 := fusekernel.SetattrIn{
		Valid: in.Valid,
		Size:  7,
		Uid:   999,
		Gid:   888,
	}
	other := fusetesting.NewRequest(fusekernel.OpSetattr, 2, 19).
		AppendStruct(unsafe.Pointer(&in2), unsafe.Sizeof(in2)).
		Bytes()

	AssertEq(nil, m.Init(bytes.NewReader(other)))

	typed := op.(*fuseops.SetInodeAttributesOp)

	AssertTrue(typed.Size != nil)
	ExpectEq(uint64(4096), *typed.Size)

	AssertTrue(typed.Uid != nil)
	ExpectEq(uint32(501), *typed.Uid)

	AssertTrue(typed.Gid != nil)
	ExpectEq(uint32(20), *typed.Gid)
}

func (t *ConvertTest) ReleaseFileHandle() {
	in := fusekernel.ReleaseIn{
		Fh:           11,
		ReleaseFlags: fusekernel.ReleaseFlush | fusekernel.ReleaseFlockUnlock,
		LockOwner:    0xfeed,
	}
	p := fusetesting.NewRequest(fusekernel.OpRelease, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.ReleaseFileHandleOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectEq(fuseops.LockOwner(0xfeed), typed.LockOwner)
	ExpectTrue(typed.Flush)
	ExpectTrue(typed.FlockRelease)
}

func (t *ConvertTest) FlushFile() {
	in := fusekernel.FlushIn{
		Fh:        11,
		LockOwner: 0xfeed,
	}
	p := fusetesting.NewRequest(fusekernel.OpFlush, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.FlushFileOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectEq(fuseops.LockOwner(0xfeed), typed.LockOwner)
}

func (t *ConvertTest) SyncFile() {
	in := fusekernel.FsyncIn{
		Fh:         11,
		FsyncFlags: fusekernel.FsyncFdatasync,
	}
	p := fusetesting.NewRequest(fusekernel.OpFsync, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.SyncFileOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectTrue(typed.Datasync)
}

////////////////////////////////////////////////////////////////////////
// Directories
////////////////////////////////////////////////////////////////////////

func (t *ConvertTest) ReadDir() {
	in := fusekernel.ReadIn{
		Fh:     11,
		Offset: 3,
		Size:   4096,
	}
	p := fusetesting.NewRequest(fusekernel.OpReaddir, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.ReadDirOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectEq(fuseops.DirOffset(3), typed.Offset)
	ExpectEq(4096, typed.Size)
	ExpectEq(fuseops.ReadDirPlain, typed.Mode)
}

func (t *ConvertTest) ReadDirPlus() {
	in := fusekernel.ReadIn{Fh: 11, Size: 4096}
	p := fusetesting.NewRequest(fusekernel.OpReaddirplus, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.ReadDirOp)
	ExpectEq(fuseops.ReadDirPlus, typed.Mode)
}

func (t *ConvertTest) SyncDir() {
	in := fusekernel.FsyncIn{Fh: 11}
	p := fusetesting.NewRequest(fusekernel.OpFsyncdir, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.SyncDirOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectFalse(typed.Datasync)
}

////////////////////////////////////////////////////////////////////////
// Extended attributes
////////////////////////////////////////////////////////////////////////

func (t *ConvertTest) SetXattr() {
	value := []byte{0xca, 0xfe}
	in := fusekernel.SetxattrIn{
		Size:  uint32(len(value)),
		Flags: 0x1,
	}
	p := fusetesting.NewRequest(fusekernel.OpSetxattr, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("user.taco").
		AppendBytes(value).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.SetXattrOp)
	ExpectEq(17, typed.Inode)
	ExpectEq("user.taco", typed.Name)
	ExpectThat(typed.Value, DeepEquals(value))
	ExpectEq(0x1, typed.Flags)
}

func (t *ConvertTest) SetXattr_ValueSizeMismatch() {
	in := fusekernel.SetxattrIn{Size: 3}
	p := fusetesting.NewRequest(fusekernel.OpSetxattr, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("user.taco").
		AppendBytes([]byte{0xca}).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.MalformedArgument))
}

func (t *ConvertTest) GetXattr() {
	in := fusekernel.GetxattrIn{Size: 128}
	p := fusetesting.NewRequest(fusekernel.OpGetxattr, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendName("user.taco").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.GetXattrOp)
	ExpectEq(17, typed.Inode)
	ExpectEq("user.taco", typed.Name)
	ExpectEq(128, typed.Size)
}

func (t *ConvertTest) ListXattr() {
	in := fusekernel.GetxattrIn{Size: 0}
	p := fusetesting.NewRequest(fusekernel.OpListxattr, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.ListXattrOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(0, typed.Size)
}

func (t *ConvertTest) RemoveXattr() {
	p := fusetesting.NewRequest(fusekernel.OpRemovexattr, 1, 17).
		AppendName("user.taco").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.RemoveXattrOp)
	ExpectEq(17, typed.Inode)
	ExpectEq("user.taco", typed.Name)
}

////////////////////////////////////////////////////////////////////////
// Locking
////////////////////////////////////////////////////////////////////////

func (t *ConvertTest) GetLock() {
	in := fusekernel.LkIn{
		Fh:    11,
		Owner: 0xfeed,
		Lk: fusekernel.FileLock{
			Start: 10,
			End:   20,
			Type:  unix.F_WRLCK,
			Pid:   99,
		},
	}
	p := fusetesting.NewRequest(fusekernel.OpGetlk, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.GetLockOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectEq(fuseops.LockOwner(0xfeed), typed.Owner)
	ExpectEq(10, typed.Lock.Start)
	ExpectEq(20, typed.Lock.End)
	ExpectEq(fuseops.WriteLock, typed.Lock.Type)
	ExpectEq(99, typed.Lock.Pid)
}

func (t *ConvertTest) SetLock_NonBlocking() {
	in := fusekernel.LkIn{
		Fh:    11,
		Owner: 0xfeed,
		Lk:    fusekernel.FileLock{Type: unix.F_RDLCK},
	}
	p := fusetesting.NewRequest(fusekernel.OpSetlk, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.SetLockOp)
	ExpectEq(fuseops.ReadLock, typed.Lock.Type)
	ExpectFalse(typed.Blocking)
}

func (t *ConvertTest) SetLock_Blocking() {
	in := fusekernel.LkIn{
		Fh:    11,
		Owner: 0xfeed,
		Lk:    fusekernel.FileLock{Type: unix.F_WRLCK},
	}
	p := fusetesting.NewRequest(fusekernel.OpSetlkw, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.SetLockOp)
	ExpectEq(fuseops.WriteLock, typed.Lock.Type)
	ExpectTrue(typed.Blocking)
}

func (t *ConvertTest) SetLock_UnknownLockType() {
	in := fusekernel.LkIn{
		Fh: 11,
		Lk: fusekernel.FileLock{Type: 77},
	}
	p := fusetesting.NewRequest(fusekernel.OpSetlk, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.MalformedArgument))
}

func (t *ConvertTest) Flock_SharedNonBlocking() {
	in := fusekernel.LkIn{
		Fh:      11,
		Owner:   0xfeed,
		Lk:      fusekernel.FileLock{Type: unix.F_RDLCK},
		LkFlags: fusekernel.LkFlock,
	}
	p := fusetesting.NewRequest(fusekernel.OpSetlk, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.FlockOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectEq(fuseops.LockOwner(0xfeed), typed.Owner)
	ExpectEq(unix.LOCK_SH|unix.LOCK_NB, typed.Operation)
}

func (t *ConvertTest) Flock_ExclusiveBlocking() {
	in := fusekernel.LkIn{
		Fh:      11,
		Lk:      fusekernel.FileLock{Type: unix.F_WRLCK},
		LkFlags: fusekernel.LkFlock,
	}
	p := fusetesting.NewRequest(fusekernel.OpSetlkw, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.FlockOp)
	ExpectEq(unix.LOCK_EX, typed.Operation)
}

func (t *ConvertTest) Flock_Unlock() {
	in := fusekernel.LkIn{
		Fh:      11,
		Lk:      fusekernel.FileLock{Type: unix.F_UNLCK},
		LkFlags: fusekernel.LkFlock,
	}
	p := fusetesting.NewRequest(fusekernel.OpSetlk, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.FlockOp)
	ExpectEq(unix.LOCK_UN|unix.LOCK_NB, typed.Operation)
}

////////////////////////////////////////////////////////////////////////
// Miscellaneous
////////////////////////////////////////////////////////////////////////

func (t *ConvertTest) StatFS() {
	p := fusetesting.NewRequest(fusekernel.OpStatfs, 1, 1).Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	_ = op.(*fuseops.StatFSOp)
}

func (t *ConvertTest) ReadSymlink() {
	p := fusetesting.NewRequest(fusekernel.OpReadlink, 1, 17).Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.ReadSymlinkOp)
	ExpectEq(17, typed.Inode)
}

func (t *ConvertTest) Access() {
	in := fusekernel.AccessIn{Mask: 5}
	p := fusetesting.NewRequest(fusekernel.OpAccess, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.AccessOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(5, typed.Mask)
}

func (t *ConvertTest) Interrupt() {
	in := fusekernel.InterruptIn{Unique: 0xdead}
	p := fusetesting.NewRequest(fusekernel.OpInterrupt, 1, 0).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.InterruptOp)
	ExpectEq(0xdead, typed.FuseID)
}

func (t *ConvertTest) Bmap() {
	in := fusekernel.BmapIn{
		Block:     123,
		BlockSize: 4096,
	}
	p := fusetesting.NewRequest(fusekernel.OpBmap, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.BmapOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(123, typed.Block)
	ExpectEq(4096, typed.BlockSize)
}

func (t *ConvertTest) Poll() {
	in := fusekernel.PollIn{
		Fh:     11,
		Kh:     0xabc,
		Flags:  fusekernel.PollScheduleNotify,
		Events: 0x1,
	}
	p := fusetesting.NewRequest(fusekernel.OpPoll, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.PollOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectEq(0x1, typed.Events)
	ExpectTrue(typed.ScheduleNotify)
	ExpectEq(0xabc, typed.Kh)
}

func (t *ConvertTest) Fallocate() {
	in := fusekernel.FallocateIn{
		Fh:     11,
		Offset: 100,
		Length: 200,
		Mode:   3,
	}
	p := fusetesting.NewRequest(fusekernel.OpFallocate, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.FallocateOp)
	ExpectEq(17, typed.Inode)
	ExpectEq(fuseops.HandleID(11), typed.Handle)
	ExpectEq(100, typed.Offset)
	ExpectEq(200, typed.Length)
	ExpectEq(3, typed.Mode)
}

func (t *ConvertTest) CopyFileRange() {
	in := fusekernel.CopyFileRangeIn{
		FhIn:      11,
		OffIn:     100,
		NodeidOut: 18,
		FhOut:     12,
		OffOut:    200,
		Len:       300,
	}
	p := fusetesting.NewRequest(fusekernel.OpCopyFileRange, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.CopyFileRangeOp)
	ExpectEq(17, typed.SrcInode)
	ExpectEq(fuseops.HandleID(11), typed.SrcHandle)
	ExpectEq(100, typed.SrcOffset)
	ExpectEq(18, typed.DstInode)
	ExpectEq(fuseops.HandleID(12), typed.DstHandle)
	ExpectEq(200, typed.DstOffset)
	ExpectEq(300, typed.Length)
}

func (t *ConvertTest) NotifyReply() {
	payload := []byte{5, 6, 7}
	in := fusekernel.NotifyRetrieveIn{
		Offset: 512,
		Size:   uint32(len(payload)),
	}
	p := fusetesting.NewRequest(fusekernel.OpNotifyReply, 0xbeef, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendBytes(payload).
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	typed := op.(*fuseops.NotifyReplyOp)
	ExpectEq(0xbeef, typed.Unique)
	ExpectEq(17, typed.Inode)
	ExpectEq(512, typed.Offset)
	ExpectThat(typed.Data, DeepEquals(payload))
}

func (t *ConvertTest) NotifyReply_SizeMismatch() {
	in := fusekernel.NotifyRetrieveIn{Size: 4}
	p := fusetesting.NewRequest(fusekernel.OpNotifyReply, 1, 17).
		AppendStruct(unsafe.Pointer(&in), unsafe.Sizeof(in)).
		AppendBytes([]byte{5, 6, 7}).
		Bytes()

	_, err := convertBytes(p)
	ExpectThat(err, fusetesting.IsDecodeError(fuseops.MalformedArgument))
}

func (t *ConvertTest) ShortDesc() {
	p := fusetesting.NewRequest(fusekernel.OpLookup, 7, 1).
		AppendName("foo").
		Bytes()

	op, err := convertBytes(p)
	AssertEq(nil, err)

	ExpectEq("LookUpInodeOp(unique=7)", fuseops.ShortDesc(op))
}

func (t *ConvertTest) DecodeErrorMessages() {
	p := fusetesting.NewRequest(fusekernel.Opcode(9999), 1, 1).Bytes()

	_, err := convertBytes(p)
	AssertNe(nil, err)

	ExpectThat(err.Error(), HasSubstr("UNKNOWN(9999)"))
	ExpectThat(err.Error(), HasSubstr("UnknownOpcode"))
	ExpectEq(fmt.Sprintf("%v", err), err.Error())
}
