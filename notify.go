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
	"unsafe"

	"github.com/jacobsa/fusewire/fuseops"
	"github.com/jacobsa/fusewire/internal/buffer"
	"github.com/jacobsa/fusewire/internal/fusekernel"
)

// Notifications are unsolicited messages from the file system to the kernel.
// On the wire they reuse the reply framing, with the notification code in the
// error field and a unique ID of zero.
func (c *Connection) sendNotification(
	code fusekernel.NotifyCode,
	fill func(b *buffer.OutMessage)) error {
	out := c.messages.GetOutMessage()
	defer c.messages.PutOutMessage(out)

	fill(out)

	h := out.OutHeader()
	h.Error = int32(code)
	h.Unique = 0
	h.Len = uint32(out.Len())

	return c.write(out.Bytes())
}

// NotifyInvalInode tells the kernel to invalidate its cache for the given
// range of the inode's contents. A length of zero means "to the end".
func (c *Connection) NotifyInvalInode(
	inode fuseops.InodeID,
	offset int64,
	length int64) error {
	return c.sendNotification(
		fusekernel.NotifyInvalInode,
		func(b *buffer.OutMessage) {
			size := unsafe.Sizeof(fusekernel.NotifyInvalInodeOut{})
			out := (*fusekernel.NotifyInvalInodeOut)(b.Grow(size))
			out.Ino = uint64(inode)
			out.Off = offset
			out.Len = length
		})
}

// NotifyInvalEntry tells the kernel to forget its mapping from the given name
// within the parent directory to whatever inode it resolved to.
func (c *Connection) NotifyInvalEntry(
	parent fuseops.InodeID,
	name string) error {
	return c.sendNotification(
		fusekernel.NotifyInvalEntry,
		func(b *buffer.OutMessage) {
			size := unsafe.Sizeof(fusekernel.NotifyInvalEntryOut{})
			out := (*fusekernel.NotifyInvalEntryOut)(b.Grow(size))
			out.Parent = uint64(parent)
			out.Namelen = uint32(len(name))
			b.AppendString(name)
			b.Append([]byte{0})
		})
}

// NotifyDelete is like NotifyInvalEntry, but also names the child inode the
// entry referred to, letting the kernel drop the dentry even when it is in
// use (for example as a process's working directory).
func (c *Connection) NotifyDelete(
	parent fuseops.InodeID,
	child fuseops.InodeID,
	name string) error {
	return c.sendNotification(
		fusekernel.NotifyDelete,
		func(b *buffer.OutMessage) {
			size := unsafe.Sizeof(fusekernel.NotifyDeleteOut{})
			out := (*fusekernel.NotifyDeleteOut)(b.Grow(size))
			out.Parent = uint64(parent)
			out.Child = uint64(child)
			out.Namelen = uint32(len(name))
			b.AppendString(name)
			b.Append([]byte{0})
		})
}

// NotifyStore pushes data into the kernel's page cache for the given inode,
// starting at the given offset within its contents.
func (c *Connection) NotifyStore(
	inode fuseops.InodeID,
	offset uint64,
	data []byte) error {
	return c.sendNotification(
		fusekernel.NotifyStore,
		func(b *buffer.OutMessage) {
			size := unsafe.Sizeof(fusekernel.NotifyStoreOut{})
			out := (*fusekernel.NotifyStoreOut)(b.Grow(size))
			out.Nodeid = uint64(inode)
			out.Offset = offset
			out.Size = uint32(len(data))
			b.Append(data)
		})
}

// NotifyRetrieve asks the kernel to send back up to size bytes of cached data
// for the given range of the inode's contents. The kernel responds
// asynchronously with a NotifyReplyOp whose header's unique field matches the
// returned correlation ID.
func (c *Connection) NotifyRetrieve(
	inode fuseops.InodeID,
	offset uint64,
	size uint32) (uint64, error) {
	c.mu.Lock()
	c.nextNotifyUnique++
	unique := c.nextNotifyUnique
	c.mu.Unlock()

	err := c.sendNotification(
		fusekernel.NotifyRetrieve,
		func(b *buffer.OutMessage) {
			outSize := unsafe.Sizeof(fusekernel.NotifyRetrieveOut{})
			out := (*fusekernel.NotifyRetrieveOut)(b.Grow(outSize))
			out.NotifyUnique = unique
			out.Nodeid = uint64(inode)
			out.Offset = offset
			out.Size = size
		})

	if err != nil {
		return 0, err
	}

	return unique, nil
}

// NotifyPollWakeup wakes up a poll that previously asked for notification,
// identified by the kernel handle from its PollOp.
func (c *Connection) NotifyPollWakeup(kh uint64) error {
	return c.sendNotification(
		fusekernel.NotifyPoll,
		func(b *buffer.OutMessage) {
			size := unsafe.Sizeof(fusekernel.NotifyPollWakeupOut{})
			out := (*fusekernel.NotifyPollWakeupOut)(b.Grow(size))
			out.Kh = kh
		})
}
