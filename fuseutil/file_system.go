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

package fuseutil

import (
	"io"
	"sync"

	"github.com/jacobsa/fusewire"
	"github.com/jacobsa/fusewire/fuseops"
	"golang.org/x/net/context"
)

// An interface with a method for each op type in the fuseops package. This
// can be used in conjunction with NewFileSystemServer to avoid writing a
// "dispatch loop" that switches on op types, instead receiving typed method
// calls directly.
//
// The FileSystem implementation should not call Connection.Reply; the server
// does that with the error returned by the method. A method that blocks
// should respect cancellation of the supplied context, returning EINTR when
// it abandons work because of it.
//
// See NotImplementedFileSystem for a convenient way to embed default
// implementations for methods you don't care about.
type FileSystem interface {
	LookUpInode(context.Context, *fuseops.LookUpInodeOp) error
	GetInodeAttributes(context.Context, *fuseops.GetInodeAttributesOp) error
	SetInodeAttributes(context.Context, *fuseops.SetInodeAttributesOp) error
	ForgetInode(context.Context, *fuseops.ForgetInodeOp) error
	BatchForget(context.Context, *fuseops.BatchForgetOp) error
	MkNode(context.Context, *fuseops.MkNodeOp) error
	MkDir(context.Context, *fuseops.MkDirOp) error
	CreateFile(context.Context, *fuseops.CreateFileOp) error
	CreateLink(context.Context, *fuseops.CreateLinkOp) error
	CreateSymlink(context.Context, *fuseops.CreateSymlinkOp) error
	Rename(context.Context, *fuseops.RenameOp) error
	RmDir(context.Context, *fuseops.RmDirOp) error
	Unlink(context.Context, *fuseops.UnlinkOp) error
	OpenDir(context.Context, *fuseops.OpenDirOp) error
	ReadDir(context.Context, *fuseops.ReadDirOp) error
	ReleaseDirHandle(context.Context, *fuseops.ReleaseDirHandleOp) error
	SyncDir(context.Context, *fuseops.SyncDirOp) error
	OpenFile(context.Context, *fuseops.OpenFileOp) error
	ReadFile(context.Context, *fuseops.ReadFileOp) error
	WriteFile(context.Context, *fuseops.WriteFileOp) error
	SyncFile(context.Context, *fuseops.SyncFileOp) error
	FlushFile(context.Context, *fuseops.FlushFileOp) error
	ReleaseFileHandle(context.Context, *fuseops.ReleaseFileHandleOp) error
	ReadSymlink(context.Context, *fuseops.ReadSymlinkOp) error
	GetXattr(context.Context, *fuseops.GetXattrOp) error
	ListXattr(context.Context, *fuseops.ListXattrOp) error
	RemoveXattr(context.Context, *fuseops.RemoveXattrOp) error
	SetXattr(context.Context, *fuseops.SetXattrOp) error
	Flock(context.Context, *fuseops.FlockOp) error
	GetLock(context.Context, *fuseops.GetLockOp) error
	SetLock(context.Context, *fuseops.SetLockOp) error
	StatFS(context.Context, *fuseops.StatFSOp) error
	Access(context.Context, *fuseops.AccessOp) error
	Bmap(context.Context, *fuseops.BmapOp) error
	Poll(context.Context, *fuseops.PollOp) error
	Fallocate(context.Context, *fuseops.FallocateOp) error
	CopyFileRange(context.Context, *fuseops.CopyFileRangeOp) error
	NotifyReply(context.Context, *fuseops.NotifyReplyOp) error

	// Called once the connection reads as closed, after all in-flight ops have
	// been replied to.
	Destroy()
}

// A Server reads ops from a connection until EOF and dispatches them.
type Server interface {
	ServeOps(*fusewire.Connection)
}

// Create a Server that serves ops by calling the associated FileSystem
// method, each in its own goroutine, and then replying with the resulting
// error. Ops not covered by the interface are replied to with ENOSYS.
func NewFileSystemServer(fs FileSystem) Server {
	return &fileSystemServer{fs: fs}
}

type fileSystemServer struct {
	fs          FileSystem
	opsInFlight sync.WaitGroup
}

func (s *fileSystemServer) ServeOps(c *fusewire.Connection) {
	// Destroy only after all handler goroutines have replied.
	defer func() {
		s.opsInFlight.Wait()
		s.fs.Destroy()
	}()

	for {
		ctx, op, err := c.ReadOp()
		if err == io.EOF {
			break
		}

		if err != nil {
			panic(err)
		}

		s.opsInFlight.Add(1)
		go s.handleOp(c, ctx, op)
	}
}

func (s *fileSystemServer) handleOp(
	c *fusewire.Connection,
	ctx context.Context,
	op fuseops.Op) {
	defer s.opsInFlight.Done()

	var err error
	switch typed := op.(type) {
	default:
		err = fusewire.ENOSYS

	case *fuseops.LookUpInodeOp:
		err = s.fs.LookUpInode(ctx, typed)

	case *fuseops.GetInodeAttributesOp:
		err = s.fs.GetInodeAttributes(ctx, typed)

	case *fuseops.SetInodeAttributesOp:
		err = s.fs.SetInodeAttributes(ctx, typed)

	case *fuseops.ForgetInodeOp:
		err = s.fs.ForgetInode(ctx, typed)

	case *fuseops.BatchForgetOp:
		err = s.fs.BatchForget(ctx, typed)

	case *fuseops.MkNodeOp:
		err = s.fs.MkNode(ctx, typed)

	case *fuseops.MkDirOp:
		err = s.fs.MkDir(ctx, typed)

	case *fuseops.CreateFileOp:
		err = s.fs.CreateFile(ctx, typed)

	case *fuseops.CreateLinkOp:
		err = s.fs.CreateLink(ctx, typed)

	case *fuseops.CreateSymlinkOp:
		err = s.fs.CreateSymlink(ctx, typed)

	case *fuseops.RenameOp:
		err = s.fs.Rename(ctx, typed)

	case *fuseops.RmDirOp:
		err = s.fs.RmDir(ctx, typed)

	case *fuseops.UnlinkOp:
		err = s.fs.Unlink(ctx, typed)

	case *fuseops.OpenDirOp:
		err = s.fs.OpenDir(ctx, typed)

	case *fuseops.ReadDirOp:
		err = s.fs.ReadDir(ctx, typed)

	case *fuseops.ReleaseDirHandleOp:
		err = s.fs.ReleaseDirHandle(ctx, typed)

	case *fuseops.SyncDirOp:
		err = s.fs.SyncDir(ctx, typed)

	case *fuseops.OpenFileOp:
		err = s.fs.OpenFile(ctx, typed)

	case *fuseops.ReadFileOp:
		err = s.fs.ReadFile(ctx, typed)

	case *fuseops.WriteFileOp:
		err = s.fs.WriteFile(ctx, typed)

	case *fuseops.SyncFileOp:
		err = s.fs.SyncFile(ctx, typed)

	case *fuseops.FlushFileOp:
		err = s.fs.FlushFile(ctx, typed)

	case *fuseops.ReleaseFileHandleOp:
		err = s.fs.ReleaseFileHandle(ctx, typed)

	case *fuseops.ReadSymlinkOp:
		err = s.fs.ReadSymlink(ctx, typed)

	case *fuseops.GetXattrOp:
		err = s.fs.GetXattr(ctx, typed)

	case *fuseops.ListXattrOp:
		err = s.fs.ListXattr(ctx, typed)

	case *fuseops.RemoveXattrOp:
		err = s.fs.RemoveXattr(ctx, typed)

	case *fuseops.SetXattrOp:
		err = s.fs.SetXattr(ctx, typed)

	case *fuseops.FlockOp:
		err = s.fs.Flock(ctx, typed)

	case *fuseops.GetLockOp:
		err = s.fs.GetLock(ctx, typed)

	case *fuseops.SetLockOp:
		err = s.fs.SetLock(ctx, typed)

	case *fuseops.StatFSOp:
		err = s.fs.StatFS(ctx, typed)

	case *fuseops.AccessOp:
		err = s.fs.Access(ctx, typed)

	case *fuseops.BmapOp:
		err = s.fs.Bmap(ctx, typed)

	case *fuseops.PollOp:
		err = s.fs.Poll(ctx, typed)

	case *fuseops.FallocateOp:
		err = s.fs.Fallocate(ctx, typed)

	case *fuseops.CopyFileRangeOp:
		err = s.fs.CopyFileRange(ctx, typed)

	case *fuseops.NotifyReplyOp:
		err = s.fs.NotifyReply(ctx, typed)
	}

	c.Reply(op, err)
}
