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

	"golang.org/x/sys/unix"
)

// LockType is the type of a POSIX advisory record lock, as in struct
// flock::l_type.
type LockType uint32

const (
	ReadLock  LockType = unix.F_RDLCK
	WriteLock LockType = unix.F_WRLCK
	Unlocked  LockType = unix.F_UNLCK
)

func (lt LockType) String() string {
	switch lt {
	case ReadLock:
		return "ReadLock"

	case WriteLock:
		return "WriteLock"

	case Unlocked:
		return "Unlocked"
	}

	return fmt.Sprintf("LockType(%d)", uint32(lt))
}

// FileLock describes a POSIX advisory record lock over a byte range of a
// file, as in fcntl(2) with F_SETLK.
type FileLock struct {
	// The first byte covered by the lock, and the last (inclusive). The
	// kernel represents "to end of file" locks with End set to the maximum
	// uint64 value.
	Start uint64
	End   uint64

	// The type of the lock. For GetLockOp replies, Unlocked means no
	// conflicting lock was found.
	Type LockType

	// The ID of the process holding the lock. Meaningful only in GetLockOp
	// replies.
	Pid uint32
}

func (fl FileLock) String() string {
	return fmt.Sprintf("%v [%d, %d] pid=%d", fl.Type, fl.Start, fl.End, fl.Pid)
}
