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

package fusetesting

import (
	"fmt"
	"reflect"

	"github.com/jacobsa/fusewire/fuseops"
	"github.com/jacobsa/oglematchers"
	"github.com/kylelemons/godebug/pretty"
)

// OpIs matches decoded operations that are deeply equal to the expected op,
// including type identity. On mismatch the error carries a field-by-field
// diff, which beats squinting at two multi-line struct dumps.
func OpIs(expected fuseops.Op) oglematchers.Matcher {
	return oglematchers.NewMatcher(
		func(c interface{}) error { return opIs(c, expected) },
		fmt.Sprintf("is op %#v", expected))
}

func opIs(c interface{}, expected fuseops.Op) error {
	actual, ok := c.(fuseops.Op)
	if !ok {
		return fmt.Errorf("which is of type %v", reflect.TypeOf(c))
	}

	if at, et := reflect.TypeOf(actual), reflect.TypeOf(expected); at != et {
		return fmt.Errorf("which is of op type %v, not %v", at, et)
	}

	if diff := pretty.Compare(actual, expected); diff != "" {
		return fmt.Errorf("which differs: (-actual +expected)\n%s", diff)
	}

	return nil
}

// IsDecodeError matches *fuseops.DecodeError values with the given kind.
func IsDecodeError(kind fuseops.DecodeErrorKind) oglematchers.Matcher {
	return oglematchers.NewMatcher(
		func(c interface{}) error { return isDecodeError(c, kind) },
		fmt.Sprintf("is a %v decode error", kind))
}

func isDecodeError(c interface{}, kind fuseops.DecodeErrorKind) error {
	err, ok := c.(error)
	if !ok {
		return fmt.Errorf("which is of type %v", reflect.TypeOf(c))
	}

	de, ok := err.(*fuseops.DecodeError)
	if !ok {
		return fmt.Errorf("which is a non-decode error: %v", err)
	}

	if de.Kind != kind {
		return fmt.Errorf("which has kind %v", de.Kind)
	}

	return nil
}
