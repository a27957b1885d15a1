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
	"io"
	"log"
	"sync"
	"syscall"
	"unsafe"

	"github.com/jacobsa/fusewire/fuseops"
	"github.com/jacobsa/fusewire/internal/buffer"
	"github.com/jacobsa/fusewire/internal/fusekernel"
	"github.com/jacobsa/reqtrace"
	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"
	"golang.org/x/net/context"
)

// A Connection speaks the request/reply half of the protocol over an
// established FUSE transport: it reads one message per request, decodes it
// into a typed op with an associated context, and writes replies and
// unsolicited notifications. The INIT handshake and mounting are the
// caller's problem; the reader and writer handed in are assumed to carry a
// negotiated session.
//
// ReadOp must be called from a single goroutine. Reply and the notification
// methods are safe for concurrent use.
type Connection struct {
	logger *log.Logger
	r      io.Reader
	w      io.Writer
	clock  timeutil.Clock

	messages buffer.MessageProvider

	// Serializes writes to w. Replies for concurrently-handled ops would
	// otherwise interleave their bytes.
	writeMu sync.Mutex

	mu syncutil.InvariantMutex

	// In-flight ops, keyed by the kernel's unique request ID. An op lives
	// here from ReadOp until its Reply.
	//
	// INVARIANT: every value is non-nil and fully populated
	//
	// GUARDED_BY(mu)
	inFlight map[uint64]*inFlightOp

	// Correlation IDs for retrieve notifications, matched by later
	// NotifyReplyOps.
	//
	// GUARDED_BY(mu)
	nextNotifyUnique uint64
}

type inFlightOp struct {
	cancel context.CancelFunc
	report reqtrace.ReportFunc
}

// NewConnection creates a connection that reads requests from r and writes
// replies to w. The logger may be nil, in which case the package's
// flag-controlled debug logger is used.
func NewConnection(
	logger *log.Logger,
	r io.Reader,
	w io.Writer) *Connection {
	if logger == nil {
		logger = getLogger()
	}

	c := &Connection{
		logger:   logger,
		r:        r,
		w:        w,
		clock:    timeutil.RealClock(),
		messages: &buffer.DefaultMessageProvider{},
		inFlight: make(map[uint64]*inFlightOp),
	}

	c.mu = syncutil.NewInvariantMutex(c.checkInvariants)
	return c
}

func (c *Connection) checkInvariants() {
	// INVARIANT: every value is non-nil and fully populated
	for unique, in := range c.inFlight {
		if in == nil || in.cancel == nil || in.report == nil {
			panic(fmt.Sprintf("partially-populated in-flight record for %d", unique))
		}
	}
}

// ReadOp reads the next op from the kernel, returning a context that is
// cancelled if the kernel later interrupts the op. io.EOF means the kernel
// has closed the connection.
//
// Requests that fail to decode are answered with an error reply on the
// caller's behalf (ENOSYS for opcodes this package doesn't know, EIO
// otherwise) and are not surfaced; the read loop continues. Interrupt
// requests are likewise absorbed: they cancel the target op's context.
//
// The returned op owns all of its data; the message buffer it was decoded
// from is recycled before ReadOp returns.
func (c *Connection) ReadOp() (context.Context, fuseops.Op, error) {
	m := c.messages.GetInMessage()
	defer c.messages.PutInMessage(m)

	for {
		if err := m.Init(c.r); err != nil {
			return nil, nil, err
		}

		op, err := fuseops.Convert(m)
		if err != nil {
			c.handleDecodeError(m, err)
			continue
		}

		c.logger.Printf("Received: %s", fuseops.ShortDesc(op))

		if interrupt, ok := op.(*fuseops.InterruptOp); ok {
			c.handleInterrupt(interrupt)
			continue
		}

		return c.beginOp(op), op, nil
	}
}

// Set up tracking and a cancellable context for an op just read.
func (c *Connection) beginOp(op fuseops.Op) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	ctx, report := reqtrace.StartSpan(ctx, fuseops.ShortDesc(op))

	c.mu.Lock()
	c.inFlight[op.Hdr().Unique] = &inFlightOp{
		cancel: cancel,
		report: report,
	}
	c.mu.Unlock()

	return ctx
}

// Tear down tracking for an op being replied to, feeding its outcome to the
// trace span. Cancelling the context here also releases its resources.
func (c *Connection) finishOp(unique uint64, opErr error) {
	c.mu.Lock()
	in := c.inFlight[unique]
	delete(c.inFlight, unique)
	c.mu.Unlock()

	if in == nil {
		return
	}

	in.report(opErr)
	in.cancel()
}

// Cancel the context of the op the kernel asked us to interrupt, if it is
// still in flight. The interrupted op must still be replied to; EINTR is
// the conventional answer for an op abandoned because of this signal.
//
// The kernel may send the interrupt before we have read the op it names; in
// that case there is nothing to cancel, and the op will simply run. The
// kernel copes by resending interrupts.
func (c *Connection) handleInterrupt(op *fuseops.InterruptOp) {
	c.mu.Lock()
	in := c.inFlight[op.FuseID]
	c.mu.Unlock()

	if in == nil {
		c.logger.Printf("No in-flight op with ID %d to interrupt.", op.FuseID)
		return
	}

	c.logger.Printf("Interrupting op with ID %d.", op.FuseID)
	in.cancel()
}

// Log a request that failed to decode and, when the kernel is waiting on a
// reply, answer it with an appropriate errno so the originating syscall
// doesn't hang.
func (c *Connection) handleDecodeError(m *buffer.InMessage, err error) {
	c.logger.Printf("Decode error: %v", err)

	// A message shorter than the fixed header has no trustworthy unique ID
	// to reply to.
	if m.Len() < int(unsafe.Sizeof(fusekernel.InHeader{})) {
		return
	}

	hdr := m.Header()
	if !opcodeExpectsReply(hdr.Opcode) {
		return
	}

	errno := syscall.EIO
	if de, ok := err.(*fuseops.DecodeError); ok && de.Kind == fuseops.UnknownOpcode {
		// Forward compatibility: tell newer kernels we don't implement the
		// operation, rather than pretending it failed.
		errno = syscall.ENOSYS
	}

	if werr := c.writeErrorReply(hdr.Unique, errno); werr != nil {
		c.logger.Printf("Error writing decode error reply: %v", werr)
	}
}

// Whether the kernel waits on a reply for requests with the given opcode.
func opcodeExpectsReply(opcode fusekernel.Opcode) bool {
	switch opcode {
	case fusekernel.OpForget,
		fusekernel.OpBatchForget,
		fusekernel.OpInterrupt,
		fusekernel.OpNotifyReply:
		return false
	}

	return true
}

// Whether the kernel waits on a reply to the given op.
func opExpectsReply(op fuseops.Op) bool {
	switch op.(type) {
	case *fuseops.ForgetInodeOp, *fuseops.BatchForgetOp, *fuseops.NotifyReplyOp:
		return false
	}

	return true
}

// Reply finishes the supplied op, writing a reply to the kernel when one is
// expected: an error reply carrying opErr's errno if opErr is non-nil
// (non-errno errors are reported as EIO), otherwise a success reply built
// from the op's reply fields.
//
// Every op returned by ReadOp must eventually be replied to, even ops the
// file system doesn't implement (use ENOSYS) or that were interrupted (use
// EINTR); the kernel blocks the originating syscall until then. Ops the
// kernel expects no reply to (forgets, notify replies) are finished without
// writing anything.
func (c *Connection) Reply(op fuseops.Op, opErr error) error {
	hdr := op.Hdr()
	c.finishOp(hdr.Unique, opErr)

	if !opExpectsReply(op) {
		return nil
	}

	out := c.messages.GetOutMessage()
	defer c.messages.PutOutMessage(out)

	if opErr == nil {
		c.logger.Printf("Replying OK: %s", fuseops.ShortDesc(op))
		if err := c.kernelResponse(out, op); err != nil {
			return err
		}
	} else {
		c.logger.Printf("Replying error to %s: %v", fuseops.ShortDesc(op), opErr)
		out.OutHeader().Error = -int32(errnoFor(opErr))
	}

	h := out.OutHeader()
	h.Unique = hdr.Unique
	h.Len = uint32(out.Len())

	return c.write(out.Bytes())
}

func errnoFor(err error) syscall.Errno {
	if errno, ok := err.(syscall.Errno); ok {
		return errno
	}

	return syscall.EIO
}

func (c *Connection) writeErrorReply(unique uint64, errno syscall.Errno) error {
	out := c.messages.GetOutMessage()
	defer c.messages.PutOutMessage(out)

	h := out.OutHeader()
	h.Unique = unique
	h.Error = -int32(errno)
	h.Len = uint32(out.Len())

	return c.write(out.Bytes())
}

func (c *Connection) write(p []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_, err := c.w.Write(p)
	return err
}
