// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package fusewire

import (
	"syscall"
)

const (
	// Errors corresponding to kernel error numbers. These may be returned by
	// a file system along with an op to have the kernel see that errno.
	EEXIST    = syscall.EEXIST
	EINTR     = syscall.EINTR
	EINVAL    = syscall.EINVAL
	EIO       = syscall.EIO
	ENOATTR   = syscall.ENODATA
	ENOENT    = syscall.ENOENT
	ENOSYS    = syscall.ENOSYS
	ENOTDIR   = syscall.ENOTDIR
	ENOTEMPTY = syscall.ENOTEMPTY
	ERANGE    = syscall.ERANGE
)
