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
	"time"

	"github.com/jacobsa/timeutil"
)

type setAttrTimeKind int

const (
	setAttrTimeOmit setAttrTimeKind = iota
	setAttrTimeNow
	setAttrTimeTimestamp
)

// SetAttrTime describes the new value for one of an inode's timestamps in a
// SetInodeAttributesOp. The kernel may ask for the timestamp to be left
// alone, set to the current time ("touch"), or set to an explicit value.
//
// The zero value means the timestamp is to be left alone.
type SetAttrTime struct {
	kind setAttrTimeKind
	t    time.Time
}

// SetAttrTimeNow returns a value asking for the timestamp to be set to the
// current time, as in utimensat(2) with UTIME_NOW.
func SetAttrTimeNow() SetAttrTime {
	return SetAttrTime{kind: setAttrTimeNow}
}

// SetAttrTimestamp returns a value asking for the timestamp to be set to t.
func SetAttrTimestamp(t time.Time) SetAttrTime {
	return SetAttrTime{kind: setAttrTimeTimestamp, t: t}
}

// Omitted returns true if the timestamp is to be left alone.
func (s SetAttrTime) Omitted() bool {
	return s.kind == setAttrTimeOmit
}

// Now returns true if the timestamp is to be set to the current time.
func (s SetAttrTime) Now() bool {
	return s.kind == setAttrTimeNow
}

// Timestamp returns the explicit timestamp requested, if any.
func (s SetAttrTime) Timestamp() (t time.Time, ok bool) {
	if s.kind == setAttrTimeTimestamp {
		t = s.t
		ok = true
	}

	return
}

// At resolves the request against the supplied clock: the clock's current
// time for "now" requests, the explicit value for timestamp requests, and
// !ok when the timestamp is to be left alone.
func (s SetAttrTime) At(clock timeutil.Clock) (t time.Time, ok bool) {
	switch s.kind {
	case setAttrTimeNow:
		t = clock.Now()
		ok = true

	case setAttrTimeTimestamp:
		t = s.t
		ok = true
	}

	return
}

func (s SetAttrTime) String() string {
	switch s.kind {
	case setAttrTimeOmit:
		return "omit"

	case setAttrTimeNow:
		return "now"

	default:
		return fmt.Sprintf("%v", s.t)
	}
}
