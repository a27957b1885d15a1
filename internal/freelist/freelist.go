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

// Package freelist contains a cheap freelist of recyclable pointers. It is
// not safe for concurrent access; see buffer.MessageProvider for a
// synchronized wrapper.
package freelist

import "unsafe"

// A Freelist is a simple LIFO list of recycled pointers.
//
// The zero value is an empty list, ready for use.
type Freelist struct {
	list []unsafe.Pointer
}

// Get an element from the freelist, returning nil if it is empty.
func (fl *Freelist) Get() (p unsafe.Pointer) {
	l := len(fl.list)
	if l == 0 {
		return
	}

	p = fl.list[l-1]
	fl.list = fl.list[:l-1]
	return
}

// Put an element back on the freelist.
func (fl *Freelist) Put(p unsafe.Pointer) {
	fl.list = append(fl.list, p)
}
